package mapping

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/namaste/namaste/internal/platform/fhir"
)

// Handler serves the specialty-table $translate operation.
type Handler struct {
	svc    *Service
	logger zerolog.Logger
}

// NewHandler creates a new specialty mapping handler.
func NewHandler(svc *Service, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger.With().Str("component", "mapping").Logger()}
}

// RegisterRoutes registers the $translate operation on the FHIR group.
// Registered only when the server runs in specialty translate mode.
func (h *Handler) RegisterRoutes(fhirGroup *echo.Group) {
	fhirGroup.GET("/ConceptMap/$translate", h.Translate)
}

// Translate handles GET /fhir/ConceptMap/$translate?code=... or ?name=...
// When both parameters are supplied the code lookup takes precedence.
func (h *Handler) Translate(c echo.Context) error {
	code := c.QueryParam("code")
	name := c.QueryParam("name")

	if code != "" || name == "" {
		return h.translateByCode(c, code)
	}
	return h.translateByName(c, name)
}

func (h *Handler) translateByCode(c echo.Context, code string) error {
	result, err := h.svc.TranslateByCode(c.Request().Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidQuery):
			return c.JSON(http.StatusBadRequest,
				fhir.NewOperationOutcome(fhir.IssueSeverityError, fhir.IssueTypeRequired, "Missing or invalid ?code parameter"))
		case errors.Is(err, ErrNotFound):
			return c.JSON(http.StatusNotFound,
				fhir.NewOperationOutcome(fhir.IssueSeverityError, fhir.IssueTypeNotFound, "No record found for code: "+code))
		default:
			h.logger.Error().Err(err).Str("code", code).Msg("translate by code failed")
			return c.JSON(http.StatusInternalServerError,
				fhir.NewOperationOutcome(fhir.IssueSeverityFatal, fhir.IssueTypeException, "Translation failed for code: "+code))
		}
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) translateByName(c echo.Context, name string) error {
	result, err := h.svc.TranslateByName(c.Request().Context(), name)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidQuery):
			return c.JSON(http.StatusBadRequest,
				fhir.NewOperationOutcome(fhir.IssueSeverityError, fhir.IssueTypeRequired, "Missing or invalid ?name parameter"))
		case errors.Is(err, ErrNotFound):
			return c.JSON(http.StatusNotFound,
				fhir.NewOperationOutcome(fhir.IssueSeverityError, fhir.IssueTypeNotFound, "No record found for name: "+name))
		default:
			h.logger.Error().Err(err).Str("name", name).Msg("translate by name failed")
			return c.JSON(http.StatusInternalServerError,
				fhir.NewOperationOutcome(fhir.IssueSeverityFatal, fhir.IssueTypeException, "Translation failed for name: "+name))
		}
	}
	return c.JSON(http.StatusOK, result)
}
