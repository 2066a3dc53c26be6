package conceptmap

import (
	"context"
	"errors"
	"strings"

	"github.com/namaste/namaste/internal/platform/db"
)

var (
	// ErrInvalidQuery rejects a translate call with neither code nor name.
	ErrInvalidQuery = errors.New("at least one of code or name is required")
	// ErrNotFound means no element target survived matching.
	ErrNotFound = errors.New("no matching concept map entry")
)

// Service resolves grouped-document translations.
type Service struct {
	repo Repository
}

// NewService creates a new grouped ConceptMap service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Translate matches code and/or name against the grouped collection and
// returns the deduplicated match list. Matching is case-insensitive
// substring containment; the input is never compiled as a pattern.
// Iteration order is document discovery order, then group, element, and
// target order, so identical inputs over unchanged data produce matches in
// the same order.
func (s *Service) Translate(ctx context.Context, code, name string) ([]Match, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" && name == "" {
		return nil, ErrInvalidQuery
	}

	docs, err := s.repo.FindMatching(ctx, code, name)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrNotFound
	}

	type dedupKey struct{ source, target string }
	seen := make(map[dedupKey]bool)
	var matches []Match

	for _, doc := range docs {
		for _, g := range doc.Group {
			for _, el := range g.Element {
				if !elementMatches(el, code, name) {
					continue
				}
				for _, t := range el.Target {
					key := dedupKey{source: el.Code, target: t.Code}
					if seen[key] {
						continue
					}
					seen[key] = true
					matches = append(matches, Match{
						SourceCode:    el.Code,
						SourceDisplay: el.Display,
						TargetCode:    t.Code,
						TargetDisplay: t.Display,
						Equivalence:   t.Equivalence,
						Comment:       t.Comment,
					})
				}
			}
		}
	}

	if len(matches) == 0 {
		return nil, ErrNotFound
	}
	return matches, nil
}

func elementMatches(el Element, code, name string) bool {
	if code != "" && db.ContainsFold(el.Code, code) {
		return true
	}
	if name != "" && db.ContainsFold(el.Display, name) {
		return true
	}
	return false
}

// List returns a page of the grouped collection with the total count.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*ConceptMap, int, error) {
	return s.repo.List(ctx, limit, offset)
}
