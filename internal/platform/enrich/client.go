// Package enrich fetches structured Ayurveda/Siddha drug information for a
// condition from the Gemini generative API. Enrichment is best-effort: the
// client never returns an error, it degrades to an unstructured payload so
// translation responses stay usable when the upstream model misbehaves.
package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-2.0-flash"
	sourceName     = "Gemini"
)

// Drug is a single traditional formulation with its modern counterpart.
type Drug struct {
	Name                 string `json:"name"`
	Form                 string `json:"form"`
	Uses                 string `json:"uses"`
	ModernEquivalent     string `json:"modern_equivalent"`
	ModernClassification string `json:"modern_classification"`
}

// Info is the structured document the model is asked to produce.
type Info struct {
	Condition string `json:"condition"`
	Drugs     []Drug `json:"drugs"`
}

// Diagnostic carries a human-readable note when enrichment degrades.
type Diagnostic struct {
	Message string `json:"message"`
}

// Payload is the enrichment result attached to translation responses.
// When Structured is true Data holds an Info document; otherwise it holds
// a list of diagnostics explaining the degradation.
type Payload struct {
	Source      string
	Structured  bool
	Info        *Info
	Diagnostics []Diagnostic
}

// DataValue returns the payload body: the structured Info document on
// success, the diagnostics list on degradation.
func (p Payload) DataValue() interface{} {
	if p.Structured && p.Info != nil {
		return p.Info
	}
	return p.Diagnostics
}

// MarshalJSON flattens the payload into {source, structured, data}.
func (p Payload) MarshalJSON() ([]byte, error) {
	out := struct {
		Source     string      `json:"source"`
		Structured bool        `json:"structured"`
		Data       interface{} `json:"data"`
	}{Source: p.Source, Structured: p.Structured, Data: p.DataValue()}
	return json.Marshal(out)
}

func degraded(message string) Payload {
	return Payload{
		Source:      sourceName,
		Structured:  false,
		Diagnostics: []Diagnostic{{Message: message}},
	}
}

// Client calls the Gemini generateContent endpoint.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// NewClient builds a Client. An empty apiKey is allowed; every fetch then
// degrades immediately without touching the network. An empty model falls
// back to the stable default.
func NewClient(apiKey, model string, timeout time.Duration, logger zerolog.Logger) *Client {
	if model == "" {
		model = defaultModel
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger.With().Str("component", "enrich").Logger(),
	}
}

// generateContent request/response wire types.
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func buildPrompt(condition string) string {
	return fmt.Sprintf(`You are an Ayurveda and Siddha medical expert with biomedical knowledge.

Given the condition: %q

Return STRICT JSON only in this exact format:

{
  "condition": "string",
  "drugs": [
    {
      "name": "string",
      "form": "string",
      "uses": "string",
      "modern_equivalent": "string",
      "modern_classification": "string"
    }
  ]
}

Rules:
- Include 3-6 Ayurvedic/Siddha formulations.
- For each formulation, provide the closest modern medical equivalent based on pharmacological action (e.g., hepatoprotective -> Silymarin, bile flow -> UDCA).
- "modern_equivalent" must be a REAL modern medicine or pharmacological agent.
- NO commentary, NO markdown, ONLY valid JSON.
- If unsure, choose the closest plausible pharmacological class.`, condition)
}

// FetchDrugInfo asks the model for formulations treating the given condition.
// It always returns a usable payload; failures are logged and reported in the
// payload's diagnostics, never as an error.
func (c *Client) FetchDrugInfo(ctx context.Context, condition string) Payload {
	if c.apiKey == "" {
		return degraded("Gemini API key not configured.")
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: buildPrompt(condition)}}}},
	})
	if err != nil {
		c.logger.Error().Err(err).Msg("encode enrichment request")
		return degraded("Error fetching drug information.")
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		c.logger.Error().Err(err).Msg("build enrichment request")
		return degraded("Error fetching drug information.")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("condition", condition).Msg("enrichment request failed")
		return degraded("Error fetching drug information.")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		c.logger.Warn().Err(err).Msg("read enrichment response")
		return degraded("Error fetching drug information.")
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().Int("status", resp.StatusCode).Str("condition", condition).Msg("enrichment upstream error")
		return degraded("Error fetching drug information.")
	}

	var gr generateResponse
	if err := json.Unmarshal(raw, &gr); err != nil {
		c.logger.Warn().Err(err).Msg("decode enrichment response")
		return degraded("Error fetching drug information.")
	}

	text := candidateText(gr)
	info, ok := parseInfo(text)
	if !ok {
		c.logger.Warn().Str("condition", condition).Msg("enrichment response was not valid JSON")
		return degraded("Invalid Gemini JSON")
	}
	return Payload{Source: sourceName, Structured: true, Info: info}
}

func candidateText(gr generateResponse) string {
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return ""
	}
	return strings.TrimSpace(gr.Candidates[0].Content.Parts[0].Text)
}

// parseInfo tries a strict decode of the model's text, then falls back to the
// widest {...} slice of it. Models occasionally wrap the JSON in markdown
// fences or prose; the fallback recovers those.
func parseInfo(text string) (*Info, bool) {
	var info Info
	if err := json.Unmarshal([]byte(text), &info); err == nil {
		return &info, true
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, false
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &info); err != nil {
		return nil, false
	}
	return &info, true
}
