package differ

import (
	"fmt"
	"strings"

	"github.com/GabrielNunesIT/openapi-domaingen/internal/domain"
)

// Report line prefixes.
const (
	PrefixAdded    = "+"
	PrefixRemoved  = "-"
	PrefixModified = "~"
)

// FormatDiff renders diff as a line-oriented report: one line per added or removed
// entity, one block per modified entity, and a trailing count.
func FormatDiff(diff *domain.Diff) string {
	if diff == nil || !diff.HasChanges {
		return "No changes detected\n"
	}

	var b strings.Builder

	for _, e := range diff.Added {
		fmt.Fprintf(&b, "%s entity %s (added)\n", PrefixAdded, e.Name)
	}

	for _, e := range diff.Removed {
		fmt.Fprintf(&b, "%s entity %s (removed)\n", PrefixRemoved, e.Name)
	}

	for _, m := range diff.Modified {
		fmt.Fprintf(&b, "%s entity %s\n", PrefixModified, m.Name)

		for _, f := range m.AddedFields {
			fmt.Fprintf(&b, "    %s field %s: %s\n", PrefixAdded, f.Name, describeField(f))
		}
		for _, f := range m.RemovedFields {
			fmt.Fprintf(&b, "    %s field %s\n", PrefixRemoved, f.Name)
		}
		for _, c := range m.ChangedFields {
			fmt.Fprintf(&b, "    %s field %s: %s -> %s\n", PrefixModified, c.Name, describeField(c.From), describeField(c.To))
		}
	}

	total := len(diff.Added) + len(diff.Removed) + len(diff.Modified)
	noun := "entities"
	if total == 1 {
		noun = "entity"
	}
	fmt.Fprintf(&b, "%d %s changed\n", total, noun)

	return b.String()
}

// describeField renders e.g. "string(email), required, nullable".
func describeField(f domain.Field) string {
	desc := f.Type
	if f.Format != "" {
		desc += "(" + f.Format + ")"
	}
	if f.Required {
		desc += ", required"
	}
	if f.Nullable {
		desc += ", nullable"
	}

	return desc
}
