package mapping

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/namaste/namaste/internal/platform/db"
)

// =========== Ayurveda Repository ===========

type ayurvedaRepoPG struct{ pool *pgxpool.Pool }

func NewAyurvedaRepoPG(pool *pgxpool.Pool) AyurvedaRepository { return &ayurvedaRepoPG{pool: pool} }

const ayurvedaColumns = `code, COALESCE(term,''), COALESCE(term_diacritical,''),
        COALESCE(term_devanagari,''), COALESCE(name_english,''),
        COALESCE(short_definition,''), COALESCE(long_definition,'')`

func scanAyurveda(row pgx.Row) (*AyurvedaRecord, error) {
	var r AyurvedaRecord
	err := row.Scan(&r.Code, &r.Term, &r.TermDiacritical, &r.TermDevanagari,
		&r.NameEnglish, &r.ShortDefinition, &r.LongDefinition)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ayurveda scan: %w", err)
	}
	return &r, nil
}

func (r *ayurvedaRepoPG) GetByCode(ctx context.Context, code string) (*AyurvedaRecord, error) {
	return scanAyurveda(r.pool.QueryRow(ctx,
		`SELECT `+ayurvedaColumns+`
		 FROM ayurveda_mappings WHERE LOWER(code) = LOWER($1)
		 ORDER BY code LIMIT 1`, code))
}

func (r *ayurvedaRepoPG) FindByText(ctx context.Context, query string) (*AyurvedaRecord, error) {
	pattern := db.LikeContains(query)
	return scanAyurveda(r.pool.QueryRow(ctx,
		`SELECT `+ayurvedaColumns+`
		 FROM ayurveda_mappings
		 WHERE term ILIKE $1 OR term_diacritical ILIKE $1 OR term_devanagari ILIKE $1
		    OR name_english ILIKE $1 OR short_definition ILIKE $1 OR long_definition ILIKE $1
		 ORDER BY code LIMIT 1`, pattern))
}

// =========== Siddha Repository ===========

type siddhaRepoPG struct{ pool *pgxpool.Pool }

func NewSiddhaRepoPG(pool *pgxpool.Pool) SiddhaRepository { return &siddhaRepoPG{pool: pool} }

const siddhaColumns = `code, COALESCE(term,''), COALESCE(tamil_term,''),
        COALESCE(short_definition,''), COALESCE(long_definition,'')`

func scanSiddha(row pgx.Row) (*SiddhaRecord, error) {
	var r SiddhaRecord
	err := row.Scan(&r.Code, &r.Term, &r.TamilTerm, &r.ShortDefinition, &r.LongDefinition)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("siddha scan: %w", err)
	}
	return &r, nil
}

func (r *siddhaRepoPG) GetByCode(ctx context.Context, code string) (*SiddhaRecord, error) {
	return scanSiddha(r.pool.QueryRow(ctx,
		`SELECT `+siddhaColumns+`
		 FROM siddha_mappings WHERE LOWER(code) = LOWER($1)
		 ORDER BY code LIMIT 1`, code))
}

func (r *siddhaRepoPG) FindByText(ctx context.Context, query string) (*SiddhaRecord, error) {
	pattern := db.LikeContains(query)
	return scanSiddha(r.pool.QueryRow(ctx,
		`SELECT `+siddhaColumns+`
		 FROM siddha_mappings
		 WHERE term ILIKE $1 OR tamil_term ILIKE $1
		    OR short_definition ILIKE $1 OR long_definition ILIKE $1
		 ORDER BY code LIMIT 1`, pattern))
}
