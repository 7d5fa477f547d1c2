// Package splitter partitions entities into named domain groups by their tags.
package splitter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/GabrielNunesIT/openapi-domaingen/internal/domain"
)

// DomainPatterns names a domain and the tag patterns that select it.
// A pattern is either a literal tag or a regular expression written as /expr/.
type DomainPatterns struct {
	Name     string   `koanf:"name" json:"name" yaml:"name" validate:"required"`
	Patterns []string `koanf:"patterns" json:"patterns" yaml:"patterns" validate:"required,min=1"`
}

// TagMatcher reports whether a tag matches a pattern.
type TagMatcher func(tag string) bool

// CreateTagMatcher compiles pattern. Literal patterns match by exact, case-sensitive
// equality; /expr/ patterns match when the expression finds a match in the tag.
func CreateTagMatcher(pattern string) (TagMatcher, error) {
	if len(pattern) >= 2 && strings.HasPrefix(pattern, "/") && strings.HasSuffix(pattern, "/") {
		re, err := regexp.Compile(pattern[1 : len(pattern)-1])
		if err != nil {
			return nil, fmt.Errorf("invalid tag pattern %q: %w", pattern, err)
		}

		return re.MatchString, nil
	}

	return func(tag string) bool { return tag == pattern }, nil
}

type compiledDomain struct {
	name     string
	matchers []TagMatcher
}

func (d compiledDomain) matches(e *domain.Entity) bool {
	for _, tag := range e.Tags {
		for _, match := range d.matchers {
			if match(tag) {
				return true
			}
		}
	}

	return false
}

// GroupEntitiesByDomain assigns every entity to the first domain, in slice order, with a
// pattern matching one of its tags. Unmatched entities go to fallback. Groups keep the
// configured order with fallback last, and empty groups are omitted.
func GroupEntitiesByDomain(entities []*domain.Entity, domains []DomainPatterns, fallback string) ([]domain.DomainGroup, error) {
	compiled := make([]compiledDomain, 0, len(domains))

	for _, d := range domains {
		cd := compiledDomain{name: d.Name}

		for _, p := range d.Patterns {
			m, err := CreateTagMatcher(p)
			if err != nil {
				return nil, fmt.Errorf("domain %q: %w", d.Name, err)
			}
			cd.matchers = append(cd.matchers, m)
		}

		compiled = append(compiled, cd)
	}

	buckets := make([][]*domain.Entity, len(compiled))
	var rest []*domain.Entity

	for _, e := range entities {
		if e == nil {
			continue
		}

		assigned := false
		for i, d := range compiled {
			if d.matches(e) {
				buckets[i] = append(buckets[i], e)
				assigned = true
				break
			}
		}

		if !assigned {
			rest = append(rest, e)
		}
	}

	groups := []domain.DomainGroup{}

	for i, d := range compiled {
		if len(buckets[i]) > 0 {
			groups = append(groups, domain.DomainGroup{DomainName: d.name, Entities: buckets[i]})
		}
	}

	if len(rest) > 0 {
		groups = append(groups, domain.DomainGroup{DomainName: fallback, Entities: rest})
	}

	return groups, nil
}
