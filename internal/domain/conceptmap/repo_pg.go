package conceptmap

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/namaste/namaste/internal/platform/db"
)

type conceptMapRepoPG struct{ pool *pgxpool.Pool }

// NewRepoPG creates a Postgres-backed ConceptMap repository.
func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &conceptMapRepoPG{pool: pool}
}

const cmCols = `id, COALESCE(url,''), COALESCE(name,''), COALESCE(title,''),
	COALESCE(status,''), COALESCE(source_uri,''), COALESCE(target_uri,''),
	groups, created_at, updated_at`

func scanConceptMap(row pgx.Row) (*ConceptMap, error) {
	var cm ConceptMap
	var groups []byte
	err := row.Scan(&cm.ID, &cm.URL, &cm.Name, &cm.Title, &cm.Status,
		&cm.SourceURI, &cm.TargetURI, &groups, &cm.CreatedAt, &cm.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(groups) > 0 {
		if err := json.Unmarshal(groups, &cm.Group); err != nil {
			return nil, fmt.Errorf("decode concept map groups: %w", err)
		}
	}
	return &cm, nil
}

// FindMatching discovers candidate documents with an element-level ILIKE
// predicate over the JSONB groups. Escaped patterns; the finer element and
// target filtering happens in the service.
func (r *conceptMapRepoPG) FindMatching(ctx context.Context, code, name string) ([]*ConceptMap, error) {
	var conds []string
	var args []interface{}
	if code != "" {
		args = append(args, db.LikeContains(code))
		conds = append(conds, fmt.Sprintf(`e->>'code' ILIKE $%d`, len(args)))
	}
	if name != "" {
		args = append(args, db.LikeContains(name))
		conds = append(conds, fmt.Sprintf(`e->>'display' ILIKE $%d`, len(args)))
	}
	if len(conds) == 0 {
		return nil, nil
	}

	predicate := conds[0]
	if len(conds) == 2 {
		predicate = conds[0] + " OR " + conds[1]
	}

	query := fmt.Sprintf(`SELECT %s FROM concept_maps cm
		 WHERE EXISTS (
		     SELECT 1 FROM jsonb_array_elements(cm.groups) AS g,
		                   jsonb_array_elements(g->'element') AS e
		     WHERE %s
		 )
		 ORDER BY cm.created_at, cm.id`, cmCols, predicate)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("concept map find: %w", err)
	}
	defer rows.Close()

	var docs []*ConceptMap
	for rows.Next() {
		cm, err := scanConceptMap(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, cm)
	}
	return docs, rows.Err()
}

func (r *conceptMapRepoPG) List(ctx context.Context, limit, offset int) ([]*ConceptMap, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM concept_maps`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("concept map count: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+cmCols+` FROM concept_maps ORDER BY created_at, id LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("concept map list: %w", err)
	}
	defer rows.Close()

	var docs []*ConceptMap
	for rows.Next() {
		cm, err := scanConceptMap(rows)
		if err != nil {
			return nil, 0, err
		}
		docs = append(docs, cm)
	}
	return docs, total, rows.Err()
}
