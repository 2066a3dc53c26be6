package mapping

import "encoding/json"

// Specialty system tags carried on translation results.
const (
	SystemAyurveda = "AYURVEDA"
	SystemSiddha   = "SIDDHA"
)

// AyurvedaRecord is one row of the Ayurveda NAMASTE mapping table.
// JSON tags mirror the upstream NAMASTE export column names, including the
// spaced "Name English" header, so responses stay compatible with existing
// consumers of the dataset.
type AyurvedaRecord struct {
	Code            string `json:"NAMC_CODE"`
	Term            string `json:"NAMC_term"`
	TermDiacritical string `json:"NAMC_term_diacritical"`
	TermDevanagari  string `json:"NAMC_term_DEVANAGARI"`
	NameEnglish     string `json:"Name English"`
	ShortDefinition string `json:"Short_definition"`
	LongDefinition  string `json:"Long_definition"`
}

// PreferredTerm returns the display term used as the enrichment lookup key:
// the canonical term, then the English name, then the supplied fallback.
func (r *AyurvedaRecord) PreferredTerm(fallback string) string {
	if r.Term != "" {
		return r.Term
	}
	if r.NameEnglish != "" {
		return r.NameEnglish
	}
	return fallback
}

// SiddhaRecord is one row of the Siddha NAMASTE mapping table.
type SiddhaRecord struct {
	Code            string `json:"NAMC_CODE"`
	Term            string `json:"NAMC_TERM"`
	TamilTerm       string `json:"Tamil_term"`
	ShortDefinition string `json:"Short_definition"`
	LongDefinition  string `json:"Long_definition"`
}

// PreferredTerm returns the enrichment lookup key for a Siddha record.
func (r *SiddhaRecord) PreferredTerm(fallback string) string {
	if r.Term != "" {
		return r.Term
	}
	if r.TamilTerm != "" {
		return r.TamilTerm
	}
	return fallback
}

// EnrichmentData is the drug-information block attached to a result. It is
// either the structured document from the enrichment service or a list of
// diagnostic messages when enrichment degraded.
type EnrichmentData struct {
	Structured bool
	Data       interface{}
}

// TranslationResult is a single specialty match. Exactly one of Ayurveda or
// Siddha is set, selected by System. The union keeps the record shape fixed
// at compile time instead of merging loose maps at serialization time.
type TranslationResult struct {
	System     string
	Ayurveda   *AyurvedaRecord
	Siddha     *SiddhaRecord
	Enrichment *EnrichmentData
}

// MarshalJSON flattens the matched record's fields to the top level alongside
// the system tag and the optional enrichment block:
// {"system": ..., <record fields>, "drug_information": ..., "structured": ...}.
func (t TranslationResult) MarshalJSON() ([]byte, error) {
	var record interface{}
	switch {
	case t.Ayurveda != nil:
		record = t.Ayurveda
	case t.Siddha != nil:
		record = t.Siddha
	default:
		record = struct{}{}
	}

	raw, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	out := map[string]interface{}{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}

	out["system"] = t.System
	if t.Enrichment != nil {
		out["drug_information"] = t.Enrichment.Data
		out["structured"] = t.Enrichment.Structured
	}
	return json.Marshal(out)
}
