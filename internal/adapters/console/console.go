// Package console prints diff reports, write results and run history for humans.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/GabrielNunesIT/openapi-domaingen/internal/adapters/history"
	"github.com/GabrielNunesIT/openapi-domaingen/internal/adapters/writer"
	"github.com/GabrielNunesIT/openapi-domaingen/internal/differ"
	"github.com/GabrielNunesIT/openapi-domaingen/internal/domain"
	"github.com/fatih/color"
	"golang.org/x/term"
)

// Options controls colour output. By default colour is used when out is a terminal.
type Options struct {
	ForceColor bool
	NoColor    bool
}

// Printer writes human-readable output.
type Printer struct {
	out io.Writer

	header   *color.Color
	added    *color.Color
	removed  *color.Color
	modified *color.Color
	muted    *color.Color
}

// New creates a new Printer.
func New(out io.Writer, opts Options) *Printer {
	colored := false
	switch {
	case opts.NoColor:
	case opts.ForceColor:
		colored = true
	default:
		if f, ok := out.(*os.File); ok {
			colored = term.IsTerminal(int(f.Fd()))
		}
	}

	p := &Printer{
		out:      out,
		header:   color.New(color.Bold, color.FgHiMagenta),
		added:    color.New(color.FgGreen),
		removed:  color.New(color.FgRed),
		modified: color.New(color.FgYellow),
		muted:    color.New(color.FgHiBlack),
	}

	for _, c := range []*color.Color{p.header, p.added, p.removed, p.modified, p.muted} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return p
}

// PrintDiff prints a diff report under a domain heading, colouring lines by prefix.
func (p *Printer) PrintDiff(domainName, report string) error {
	if _, err := fmt.Fprintln(p.out, p.header.Sprint(domainName)); err != nil {
		return err
	}

	for _, line := range strings.Split(strings.TrimRight(report, "\n"), "\n") {
		if _, err := fmt.Fprintln(p.out, "  "+p.colorLine(line)); err != nil {
			return err
		}
	}

	return nil
}

func (p *Printer) colorLine(line string) string {
	trimmed := strings.TrimLeft(line, " ")

	switch {
	case strings.HasPrefix(trimmed, differ.PrefixAdded):
		return p.added.Sprint(line)
	case strings.HasPrefix(trimmed, differ.PrefixRemoved):
		return p.removed.Sprint(line)
	case strings.HasPrefix(trimmed, differ.PrefixModified):
		return p.modified.Sprint(line)
	default:
		return line
	}
}

// PrintResults prints one line per written file.
func (p *Printer) PrintResults(results []writer.Result) error {
	for _, r := range results {
		var status string
		switch r.Status {
		case writer.StatusCreated:
			status = p.added.Sprintf("%-9s", r.Status)
		case writer.StatusUpdated:
			status = p.modified.Sprintf("%-9s", r.Status)
		default:
			status = p.muted.Sprintf("%-9s", r.Status)
		}

		if _, err := fmt.Fprintf(p.out, "  %s %s\n", status, r.Path); err != nil {
			return err
		}
	}

	return nil
}

// PrintEntities prints a table of entities and their operations.
func (p *Printer) PrintEntities(groups []domain.DomainGroup) error {
	tw := tabwriter.NewWriter(p.out, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "DOMAIN\tENTITY\tPATH\tFIELDS\tOPERATIONS\tTAGS")
	for _, g := range groups {
		for _, e := range g.Entities {
			ops := make([]string, 0, len(e.Operations))
			for _, op := range e.Operations {
				ops = append(ops, op.Name)
			}

			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
				g.DomainName, e.PascalName, e.Path, len(e.Fields), strings.Join(ops, ","), strings.Join(e.Tags, ","))
		}
	}

	return tw.Flush()
}

// PrintHistory prints recorded runs, newest first.
func (p *Printer) PrintHistory(runs []history.Run) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(p.out, p.muted.Sprint("No runs recorded"))
		return err
	}

	tw := tabwriter.NewWriter(p.out, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "TIME\tDOMAIN\tENTITIES\tADDED\tREMOVED\tMODIFIED\tFILES\tSOURCE")
	for _, r := range runs {
		files := fmt.Sprint(r.FilesWritten)
		if r.Skipped {
			files = "skipped"
		}

		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%s\t%s\n",
			r.RunAt.Local().Format("2006-01-02 15:04:05"), r.Domain, r.Entities, r.Added, r.Removed, r.Modified, files, r.SpecSource)
	}

	return tw.Flush()
}
