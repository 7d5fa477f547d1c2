package extractor

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/GabrielNunesIT/openapi-domaingen/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var irregularPlurals = map[string]string{
	"people":   "person",
	"children": "child",
	"men":      "man",
	"women":    "woman",
	"data":     "data",
	"statuses": "status",
	"caches":   "cache",
}

// splitWords splits an identifier on separators and camelCase boundaries.
func splitWords(s string) []string {
	var (
		words   []string
		current strings.Builder
		prev    rune
	)

	flush := func() {
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}

	for _, r := range s {
		switch {
		case r == '_' || r == '-' || r == '.' || r == ' ' || r == '/':
			flush()
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r) && prev != 0 && unicode.IsLower(prev):
			flush()
			current.WriteRune(r)
		default:
			current.WriteRune(r)
		}
		prev = r
	}
	flush()

	return words
}

// ToPascalCase converts a string to PascalCase.
// Example: "user-groups" -> "UserGroups"
func ToPascalCase(s string) string {
	// Casers are stateful, so each call gets its own.
	titleCaser := cases.Title(language.English, cases.NoLower)

	var result strings.Builder

	for _, word := range splitWords(s) {
		result.WriteString(titleCaser.String(word))
	}

	return result.String()
}

// ToCamelCase converts a string to camelCase.
// Example: "user_groups" -> "userGroups"
func ToCamelCase(s string) string {
	pascal := ToPascalCase(s)
	if pascal == "" {
		return ""
	}

	runes := []rune(pascal)
	runes[0] = unicode.ToLower(runes[0])

	return string(runes)
}

// ToSnakeCase converts a string to snake_case.
// Example: "auditLogs" -> "audit_logs"
func ToSnakeCase(s string) string {
	words := splitWords(s)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}

	return strings.Join(words, "_")
}

// Singularize returns a simple singular form of an English plural noun.
func Singularize(s string) string {
	lower := strings.ToLower(s)
	if singular, ok := irregularPlurals[lower]; ok {
		return singular
	}

	switch {
	case strings.HasSuffix(lower, "ies") && len(s) > 3:
		return s[:len(s)-3] + "y"
	case strings.HasSuffix(lower, "sses"),
		strings.HasSuffix(lower, "xes"),
		strings.HasSuffix(lower, "ches"),
		strings.HasSuffix(lower, "shes"):
		return s[:len(s)-2]
	case strings.HasSuffix(lower, "ss"), strings.HasSuffix(lower, "us"), strings.HasSuffix(lower, "is"):
		return s
	case strings.HasSuffix(lower, "s") && len(s) > 1:
		return s[:len(s)-1]
	default:
		return s
	}
}

// entityName is the naming triple of one entity.
type entityName struct {
	name   string
	pascal string
	plural string
}

// entityNames derives the entity naming triple from a collection path segment.
// The name is the lowercase singular: user-groups -> usergroup, UserGroup, userGroups.
func entityNames(segment string) entityName {
	singular := Singularize(segment)

	return entityName{
		name:   strings.ToLower(ToCamelCase(singular)),
		pascal: ToPascalCase(singular),
		plural: ToCamelCase(segment),
	}
}

// nestedEntityNames prefixes the naming triple with the singular parent segment:
// /projects/{projectId}/tasks -> projecttask, ProjectTask, projectTasks.
func nestedEntityNames(parentSegment, segment string) entityName {
	prefix := Singularize(parentSegment) + "-"
	singular := prefix + Singularize(segment)

	return entityName{
		name:   strings.ToLower(ToCamelCase(singular)),
		pascal: ToPascalCase(singular),
		plural: ToCamelCase(prefix + segment),
	}
}

// planNames gives every collection path of paths a unique entity name. When several
// collections end in the same segment, nested ones are prefixed with their parent;
// clashes that remain get a numeric suffix in document order.
func planNames(paths []domain.Path) map[string]entityName {
	var order []pathShape
	seen := make(map[string]bool)
	count := make(map[string]int)

	for _, p := range paths {
		shape, ok := parsePath(p.Path)
		if !ok || len(p.Operations) == 0 || seen[shape.collection] {
			continue
		}
		seen[shape.collection] = true
		order = append(order, shape)
		count[entityNames(shape.segment).name]++
	}

	names := make(map[string]entityName, len(order))
	used := make(map[string]bool, len(order))

	for _, shape := range order {
		n := entityNames(shape.segment)
		if count[n.name] > 1 && shape.parent != nil {
			if parent := lastLiteral(shape.parent.Path); parent != "" {
				n = nestedEntityNames(parent, shape.segment)
			}
		}

		if used[n.name] {
			i := 2
			for used[n.name+strconv.Itoa(i)] {
				i++
			}
			suffix := strconv.Itoa(i)
			n = entityName{name: n.name + suffix, pascal: n.pascal + suffix, plural: n.plural + suffix}
		}

		used[n.name] = true
		names[shape.collection] = n
	}

	return names
}

func lastLiteral(path string) string {
	segments := strings.Split(path, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "" && !isParam(segments[i]) {
			return segments[i]
		}
	}

	return ""
}

// OperationName returns the canonical operation name for a CRUD role.
// Example: (list, "User", "users") -> "listUsers"
func OperationName(role domain.CrudRole, pascalName, pluralName string) string {
	if role == domain.RoleList {
		return "list" + ToPascalCase(pluralName)
	}

	return string(role) + pascalName
}
