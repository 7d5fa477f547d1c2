package console

import (
	"bytes"
	"testing"
	"time"

	"github.com/GabrielNunesIT/openapi-domaingen/internal/adapters/history"
	"github.com/GabrielNunesIT/openapi-domaingen/internal/adapters/writer"
	"github.com/GabrielNunesIT/openapi-domaingen/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const report = "+ entity invoice (added)\n~ entity user\n    - field nickname\n1 entity changed\n"

func TestPrintDiffPlain(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(&buf, Options{NoColor: true}).PrintDiff("iam", report))

	want := "iam\n  + entity invoice (added)\n  ~ entity user\n      - field nickname\n  1 entity changed\n"
	assert.Equal(t, want, buf.String())
}

func TestPrintDiffColored(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(&buf, Options{ForceColor: true}).PrintDiff("iam", report))

	out := buf.String()
	assert.Contains(t, out, "\x1b[32m+ entity invoice (added)\x1b[0m")
	assert.Contains(t, out, "\x1b[33m~ entity user\x1b[0m")
	assert.Contains(t, out, "\x1b[31m    - field nickname\x1b[0m")
	assert.Contains(t, out, "  1 entity changed\n")
}

func TestNonTerminalIsPlain(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(&buf, Options{}).PrintDiff("iam", report))

	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestPrintResults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(&buf, Options{NoColor: true}).PrintResults([]writer.Result{
		{Path: "out/iam/schemas.ts", Status: writer.StatusCreated},
		{Path: "out/iam/index.ts", Status: writer.StatusPreserved},
	}))

	assert.Equal(t, "  created   out/iam/schemas.ts\n  preserved out/iam/index.ts\n", buf.String())
}

func TestPrintEntities(t *testing.T) {
	var buf bytes.Buffer
	groups := []domain.DomainGroup{{
		DomainName: "iam",
		Entities: []*domain.Entity{{
			PascalName: "User",
			Path:       "/users",
			Fields:     []domain.Field{{Name: "id"}},
			Operations: []domain.EntityOperation{{Name: "listUsers"}, {Name: "getUser"}},
			Tags:       []string{"IAM"},
		}},
	}}

	require.NoError(t, New(&buf, Options{NoColor: true}).PrintEntities(groups))

	out := buf.String()
	assert.Contains(t, out, "DOMAIN")
	assert.Contains(t, out, "listUsers,getUser")
	assert.Contains(t, out, "/users")
}

func TestPrintHistory(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, Options{NoColor: true})

	require.NoError(t, p.PrintHistory(nil))
	assert.Equal(t, "No runs recorded\n", buf.String())

	buf.Reset()
	require.NoError(t, p.PrintHistory([]history.Run{
		{RunAt: time.Now(), Domain: "iam", Entities: 2, Added: 2, FilesWritten: 6, SpecSource: "openapi.yaml"},
		{RunAt: time.Now(), Domain: "iam", Entities: 2, Skipped: true, SpecSource: "openapi.yaml"},
	}))

	out := buf.String()
	assert.Contains(t, out, "SOURCE")
	assert.Contains(t, out, "skipped")
	assert.Contains(t, out, "openapi.yaml")
}
