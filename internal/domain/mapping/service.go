package mapping

import (
	"context"
	"errors"
	"strings"

	"github.com/namaste/namaste/internal/platform/enrich"
)

var (
	// ErrInvalidQuery rejects empty or whitespace-only query input.
	ErrInvalidQuery = errors.New("missing or invalid query parameter")
	// ErrNotFound means no specialty collection holds a matching record.
	ErrNotFound = errors.New("no matching record")
)

// Enricher fetches drug/treatment information for a matched term. The
// returned payload is best-effort and never an error.
type Enricher interface {
	FetchDrugInfo(ctx context.Context, term string) enrich.Payload
}

// Service resolves specialty translations over the flat Ayurveda and Siddha
// mapping tables.
type Service struct {
	ayurveda AyurvedaRepository
	siddha   SiddhaRepository
	enricher Enricher
}

// NewService creates a new specialty mapping service.
func NewService(ayurveda AyurvedaRepository, siddha SiddhaRepository, enricher Enricher) *Service {
	return &Service{ayurveda: ayurveda, siddha: siddha, enricher: enricher}
}

// resolver is a lookup against one specialty collection. A resolution walks
// the resolver list in declaration order and the first hit wins, so the
// Ayurveda-before-Siddha precedence lives in exactly one place.
type resolver struct {
	byCode func(ctx context.Context, code string) (*TranslationResult, string, error)
	byName func(ctx context.Context, name string) (*TranslationResult, string, error)
}

func (s *Service) resolvers() []resolver {
	return []resolver{
		{
			byCode: func(ctx context.Context, code string) (*TranslationResult, string, error) {
				rec, err := s.ayurveda.GetByCode(ctx, code)
				if err != nil {
					return nil, "", err
				}
				return &TranslationResult{System: SystemAyurveda, Ayurveda: rec}, rec.PreferredTerm(code), nil
			},
			byName: func(ctx context.Context, name string) (*TranslationResult, string, error) {
				rec, err := s.ayurveda.FindByText(ctx, name)
				if err != nil {
					return nil, "", err
				}
				return &TranslationResult{System: SystemAyurveda, Ayurveda: rec}, rec.PreferredTerm(name), nil
			},
		},
		{
			byCode: func(ctx context.Context, code string) (*TranslationResult, string, error) {
				rec, err := s.siddha.GetByCode(ctx, code)
				if err != nil {
					return nil, "", err
				}
				return &TranslationResult{System: SystemSiddha, Siddha: rec}, rec.PreferredTerm(code), nil
			},
			byName: func(ctx context.Context, name string) (*TranslationResult, string, error) {
				rec, err := s.siddha.FindByText(ctx, name)
				if err != nil {
					return nil, "", err
				}
				return &TranslationResult{System: SystemSiddha, Siddha: rec}, rec.PreferredTerm(name), nil
			},
		},
	}
}

// TranslateByCode resolves an exact canonical code across the specialty
// collections, attaching drug information for the matched term.
func (s *Service) TranslateByCode(ctx context.Context, code string) (*TranslationResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrInvalidQuery
	}
	return s.translate(ctx, code, false)
}

// TranslateByName resolves a display-name substring across the specialty
// collections, attaching drug information for the matched term.
func (s *Service) TranslateByName(ctx context.Context, name string) (*TranslationResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidQuery
	}
	return s.translate(ctx, name, true)
}

func (s *Service) translate(ctx context.Context, query string, byName bool) (*TranslationResult, error) {
	for _, r := range s.resolvers() {
		lookup := r.byCode
		if byName {
			lookup = r.byName
		}
		result, term, err := lookup(ctx, query)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if s.enricher != nil {
			p := s.enricher.FetchDrugInfo(ctx, term)
			result.Enrichment = &EnrichmentData{Structured: p.Structured, Data: p.DataValue()}
		}
		return result, nil
	}
	return nil, ErrNotFound
}
