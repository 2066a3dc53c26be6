package mapping

import "context"

// AyurvedaRepository provides read access to the Ayurveda mapping table.
// GetByCode matches the canonical code exactly, case-insensitively.
// FindByText matches a case-insensitive substring across the term,
// transliterated, native-script, English-name and definition columns.
// Both return ErrNotFound when no row matches.
type AyurvedaRepository interface {
	GetByCode(ctx context.Context, code string) (*AyurvedaRecord, error)
	FindByText(ctx context.Context, query string) (*AyurvedaRecord, error)
}

// SiddhaRepository provides read access to the Siddha mapping table.
type SiddhaRepository interface {
	GetByCode(ctx context.Context, code string) (*SiddhaRecord, error)
	FindByText(ctx context.Context, query string) (*SiddhaRecord, error)
}
