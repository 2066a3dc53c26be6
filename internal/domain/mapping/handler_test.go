package mapping

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func newTestHandler() (*Handler, *echo.Echo) {
	svc, _ := newTestService()
	h := NewHandler(svc, zerolog.Nop())
	e := echo.New()
	return h, e
}

func doTranslate(t *testing.T, h *Handler, e *echo.Echo, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Translate(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return rec
}

// =========== Translate Handler Tests ===========

func TestHandler_Translate_ByCode(t *testing.T) {
	h, e := newTestHandler()

	rec := doTranslate(t, h, e, "/fhir/ConceptMap/$translate?code=AAA1.1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if out["system"] != "AYURVEDA" {
		t.Errorf("expected system AYURVEDA, got %v", out["system"])
	}
	if out["NAMC_CODE"] != "AAA1.1" {
		t.Errorf("expected flattened record fields, got %v", out)
	}
	if out["structured"] != true {
		t.Errorf("expected structured enrichment, got %v", out["structured"])
	}
}

func TestHandler_Translate_ByName(t *testing.T) {
	h, e := newTestHandler()

	rec := doTranslate(t, h, e, "/fhir/ConceptMap/$translate?name=Prameha")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var out map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &out)
	if out["NAMC_CODE"] != "AAA1.1" {
		t.Errorf("expected record AAA1.1, got %v", out)
	}
}

func TestHandler_Translate_CodeWinsWhenBothSupplied(t *testing.T) {
	h, e := newTestHandler()

	// Name would match siddha madhumegam, but the code lookup runs first.
	rec := doTranslate(t, h, e, "/fhir/ConceptMap/$translate?code=AAB2.4&name=madhumegam")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var out map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &out)
	if out["NAMC_CODE"] != "AAB2.4" {
		t.Errorf("expected the code lookup to win, got %v", out)
	}
	if out["system"] != "AYURVEDA" {
		t.Errorf("expected system AYURVEDA, got %v", out["system"])
	}
}

func TestHandler_Translate_MissingParams(t *testing.T) {
	h, e := newTestHandler()

	rec := doTranslate(t, h, e, "/fhir/ConceptMap/$translate")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Missing or invalid ?code parameter") {
		t.Errorf("expected missing-code diagnostics, got %s", rec.Body.String())
	}
}

func TestHandler_Translate_WhitespaceCode(t *testing.T) {
	h, e := newTestHandler()

	rec := doTranslate(t, h, e, "/fhir/ConceptMap/$translate?code=%20%20")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandler_Translate_CodeNotFound(t *testing.T) {
	h, e := newTestHandler()

	rec := doTranslate(t, h, e, "/fhir/ConceptMap/$translate?code=ZZZ9.9")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No record found for code: ZZZ9.9") {
		t.Errorf("diagnostics must name the code, got %s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "OperationOutcome") {
		t.Errorf("expected an OperationOutcome body, got %s", rec.Body.String())
	}
}

func TestHandler_Translate_NameNotFound(t *testing.T) {
	h, e := newTestHandler()

	rec := doTranslate(t, h, e, "/fhir/ConceptMap/$translate?name=nosuchterm")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No record found for name: nosuchterm") {
		t.Errorf("diagnostics must name the query, got %s", rec.Body.String())
	}
}

func TestHandler_Translate_InternalErrorHidesDetails(t *testing.T) {
	ayur := newMockAyurvedaRepo()
	ayur.err = errors.New("pq: relation does not exist")
	svc := NewService(ayur, newMockSiddhaRepo(), &stubEnricher{})
	h := NewHandler(svc, zerolog.Nop())
	e := echo.New()

	rec := doTranslate(t, h, e, "/fhir/ConceptMap/$translate?code=AAA1.1")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "relation does not exist") {
		t.Error("driver errors must not leak into the response body")
	}
	if !strings.Contains(rec.Body.String(), "Translation failed for code: AAA1.1") {
		t.Errorf("expected generic failure diagnostics, got %s", rec.Body.String())
	}
}
