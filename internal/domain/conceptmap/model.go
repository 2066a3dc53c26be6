package conceptmap

import (
	"time"

	"github.com/google/uuid"
)

// Target is one translation target of an element, carrying the equivalence
// qualifier and an optional reviewer comment.
type Target struct {
	Code        string `json:"code"`
	Display     string `json:"display"`
	Equivalence string `json:"equivalence"`
	Comment     string `json:"comment,omitempty"`
}

// Element maps one source code to its targets. Element codes are not unique
// within a document; the same code may recur across groups.
type Element struct {
	Code    string   `json:"code"`
	Display string   `json:"display"`
	Target  []Target `json:"target"`
}

// Group is an ordered run of elements between one source system and one
// target system.
type Group struct {
	Source  string    `json:"source"`
	Target  string    `json:"target"`
	Element []Element `json:"element"`
}

// ConceptMap maps to the concept_maps table. Groups are stored as a single
// JSONB column; the document is read and matched as a whole.
type ConceptMap struct {
	ID        uuid.UUID `db:"id" json:"id"`
	URL       string    `db:"url" json:"url,omitempty"`
	Name      string    `db:"name" json:"name,omitempty"`
	Title     string    `db:"title" json:"title,omitempty"`
	Status    string    `db:"status" json:"status,omitempty"`
	SourceURI string    `db:"source_uri" json:"sourceUri,omitempty"`
	TargetURI string    `db:"target_uri" json:"targetUri,omitempty"`
	Group     []Group   `db:"groups" json:"group"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// ToFHIR renders the document as a FHIR ConceptMap resource.
func (cm *ConceptMap) ToFHIR() map[string]interface{} {
	result := map[string]interface{}{
		"resourceType": "ConceptMap",
		"id":           cm.ID.String(),
		"group":        cm.Group,
	}
	if cm.URL != "" {
		result["url"] = cm.URL
	}
	if cm.Name != "" {
		result["name"] = cm.Name
	}
	if cm.Title != "" {
		result["title"] = cm.Title
	}
	if cm.Status != "" {
		result["status"] = cm.Status
	}
	if cm.SourceURI != "" {
		result["sourceUri"] = cm.SourceURI
	}
	if cm.TargetURI != "" {
		result["targetUri"] = cm.TargetURI
	}
	return result
}

// Match is one deduplicated translation produced by a grouped lookup.
type Match struct {
	SourceCode    string `json:"sourceCode"`
	SourceDisplay string `json:"sourceDisplay"`
	TargetCode    string `json:"targetCode"`
	TargetDisplay string `json:"targetDisplay"`
	Equivalence   string `json:"equivalence"`
	Comment       string `json:"comment,omitempty"`
}

// Parameter is one FHIR Parameters entry; match entries nest their fields
// as parts.
type Parameter struct {
	Name         string      `json:"name"`
	ValueBoolean *bool       `json:"valueBoolean,omitempty"`
	ValueString  string      `json:"valueString,omitempty"`
	ValueCode    string      `json:"valueCode,omitempty"`
	Part         []Parameter `json:"part,omitempty"`
}

// ParametersResource is the FHIR Parameters envelope returned by $translate.
type ParametersResource struct {
	ResourceType string      `json:"resourceType"`
	Parameter    []Parameter `json:"parameter"`
}

// BuildTranslateParameters renders a match list as a Parameters resource:
// a result flag, a message, then one "match" entry per translation.
func BuildTranslateParameters(matches []Match) *ParametersResource {
	result := len(matches) > 0
	message := "No mapping found"
	if result {
		message = "Mapping found"
	}

	params := []Parameter{
		{Name: "result", ValueBoolean: &result},
		{Name: "message", ValueString: message},
	}
	for _, m := range matches {
		parts := []Parameter{
			{Name: "sourceCode", ValueCode: m.SourceCode},
			{Name: "sourceDisplay", ValueString: m.SourceDisplay},
			{Name: "targetCode", ValueCode: m.TargetCode},
			{Name: "targetDisplay", ValueString: m.TargetDisplay},
			{Name: "equivalence", ValueCode: m.Equivalence},
		}
		if m.Comment != "" {
			parts = append(parts, Parameter{Name: "comment", ValueString: m.Comment})
		}
		params = append(params, Parameter{Name: "match", Part: parts})
	}

	return &ParametersResource{ResourceType: "Parameters", Parameter: params}
}
