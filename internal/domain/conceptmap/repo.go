package conceptmap

import "context"

// Repository provides read access to the grouped ConceptMap collection.
// FindMatching returns every document containing at least one element whose
// code contains the code query or whose display contains the name query,
// case-insensitively, in creation order. Empty query strings are skipped.
type Repository interface {
	FindMatching(ctx context.Context, code, name string) ([]*ConceptMap, error)
	List(ctx context.Context, limit, offset int) ([]*ConceptMap, int, error)
}
