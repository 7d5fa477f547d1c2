package generator

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/GabrielNunesIT/openapi-domaingen/internal/adapters/docs"
	"github.com/GabrielNunesIT/openapi-domaingen/internal/adapters/renderers"
	"github.com/GabrielNunesIT/openapi-domaingen/internal/adapters/writer"
	"github.com/GabrielNunesIT/openapi-domaingen/internal/domain"
)

type artifact struct {
	renderer domain.Renderer
	policy   writer.Policy
}

// artifactsFor lists the renderers of one domain package and how their files are written.
func artifactsFor(opts Options) ([]artifact, error) {
	var artifacts []artifact

	for _, r := range renderers.Default(opts.BaseURL) {
		policy := writer.PolicyManaged
		if r.FileName() == renderers.IndexFile {
			policy = writer.PolicyCreateOnly
		}

		artifacts = append(artifacts, artifact{renderer: r, policy: policy})
	}

	if opts.Docs != "" {
		r, err := docs.ForFormat(opts.Docs)
		if err != nil {
			return nil, err
		}

		artifacts = append(artifacts, artifact{renderer: r, policy: writer.PolicyAlways})
	}

	return artifacts, nil
}

func renderAll(group *domain.DomainGroup, dir string, artifacts []artifact) ([]writer.GeneratedFile, error) {
	files := make([]writer.GeneratedFile, 0, len(artifacts)+1)

	for _, a := range artifacts {
		var buf bytes.Buffer
		if err := a.renderer.Render(group, &buf); err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", a.renderer.FileName(), err)
		}

		files = append(files, writer.GeneratedFile{
			Path:    filepath.Join(dir, a.renderer.FileName()),
			Content: buf.Bytes(),
			Policy:  a.policy,
		})
	}

	return files, nil
}
