package conceptmap

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/namaste/namaste/internal/platform/auth"
	"github.com/namaste/namaste/internal/platform/fhir"
	"github.com/namaste/namaste/pkg/pagination"
)

// Handler serves the grouped ConceptMap collection and its $translate
// operation.
type Handler struct {
	svc    *Service
	logger zerolog.Logger
}

// NewHandler creates a new ConceptMap handler.
func NewHandler(svc *Service, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger.With().Str("component", "conceptmap").Logger()}
}

// RegisterRoutes registers the administrative list endpoint on the FHIR
// group. The $translate route is registered separately so deployment
// configuration decides which translation strategy serves it.
func (h *Handler) RegisterRoutes(fhirGroup *echo.Group) {
	fhirGroup.GET("/ConceptMap", h.ListConceptMaps, auth.RequireRole("admin"))
}

// RegisterTranslate registers the grouped $translate operation. Registered
// only when the server runs in conceptmap translate mode.
func (h *Handler) RegisterTranslate(fhirGroup *echo.Group) {
	fhirGroup.GET("/ConceptMap/$translate", h.Translate)
}

// Translate handles GET /fhir/ConceptMap/$translate?code=...&name=...
// Either parameter may be supplied; both are combined with OR.
func (h *Handler) Translate(c echo.Context) error {
	code := c.QueryParam("code")
	name := c.QueryParam("name")

	matches, err := h.svc.Translate(c.Request().Context(), code, name)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidQuery):
			return c.JSON(http.StatusBadRequest,
				fhir.NewOperationOutcome(fhir.IssueSeverityError, fhir.IssueTypeRequired,
					"At least one of ?code or ?name is required"))
		case errors.Is(err, ErrNotFound):
			return c.JSON(http.StatusNotFound,
				fhir.NewOperationOutcome(fhir.IssueSeverityError, fhir.IssueTypeNotFound,
					notFoundMessage(code, name)))
		default:
			h.logger.Error().Err(err).Str("code", code).Str("name", name).Msg("grouped translate failed")
			return c.JSON(http.StatusInternalServerError,
				fhir.NewOperationOutcome(fhir.IssueSeverityFatal, fhir.IssueTypeException,
					"Translation failed for query: "+queryLabel(code, name)))
		}
	}
	return c.JSON(http.StatusOK, BuildTranslateParameters(matches))
}

// ListConceptMaps handles GET /fhir/ConceptMap — a paginated searchset
// Bundle over the full grouped collection.
func (h *Handler) ListConceptMaps(c echo.Context) error {
	pg := pagination.FromContext(c)
	docs, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		h.logger.Error().Err(err).Msg("concept map list failed")
		return c.JSON(http.StatusInternalServerError,
			fhir.NewOperationOutcome(fhir.IssueSeverityFatal, fhir.IssueTypeException,
				"Failed to list concept maps"))
	}

	resources := make([]interface{}, len(docs))
	for i, d := range docs {
		resources[i] = d.ToFHIR()
	}
	bundle := fhir.NewSearchBundle(resources, total, "/fhir/ConceptMap")
	bundle.Link = nil
	for _, l := range pg.FHIRLinks("/fhir/ConceptMap", total) {
		bundle.Link = append(bundle.Link, fhir.BundleLink{Relation: l.Relation, URL: l.URL})
	}
	return c.JSON(http.StatusOK, bundle)
}

func notFoundMessage(code, name string) string {
	if code != "" {
		return "No record found for code: " + code
	}
	return "No record found for name: " + name
}

func queryLabel(code, name string) string {
	if code != "" && name != "" {
		return fmt.Sprintf("code=%s name=%s", code, name)
	}
	if code != "" {
		return code
	}
	return name
}
