package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/OncoTerm/internal/application/enrichment"
	"github.com/turtacn/OncoTerm/internal/domain/ontology"
	"github.com/turtacn/OncoTerm/pkg/errors"
)

const defaultUnknownsLimit = 100

// ReportStore is the persistence surface the report handler reads from.  The
// PostgreSQL enrichment repository satisfies it via the apiserver adapter.
type ReportStore interface {
	Run(ctx context.Context, runID string) (*RunReport, error)
	UnknownTerms(ctx context.Context, field ontology.FieldType, limit int) ([]enrichment.UnknownTerm, error)
}

// RunReport is the persisted header of one run.
type RunReport struct {
	RunID      string             `json:"run_id"`
	StartedAt  time.Time          `json:"started_at"`
	FinishedAt time.Time          `json:"finished_at"`
	Entities   int                `json:"entities"`
	Summary    enrichment.Summary `json:"summary"`
}

// ReportHandler serves persisted run headers and the unknown-term curation
// report.
type ReportHandler struct {
	store ReportStore
}

// NewReportHandler constructs the handler.
func NewReportHandler(store ReportStore) *ReportHandler {
	return &ReportHandler{store: store}
}

// GetRun handles GET /api/v1/runs/:id.
func (h *ReportHandler) GetRun(c *gin.Context) {
	if h.store == nil {
		respondError(c, errors.New(errors.ErrCodeReportUnavailable, "run persistence is not configured"))
		return
	}
	run, err := h.store.Run(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

type unknownTermsResponse struct {
	Field ontology.FieldType       `json:"field"`
	Terms []enrichment.UnknownTerm `json:"terms"`
}

// GetUnknownTerms handles GET /api/v1/unknowns?field=drug&limit=100.
func (h *ReportHandler) GetUnknownTerms(c *gin.Context) {
	if h.store == nil {
		respondError(c, errors.New(errors.ErrCodeReportUnavailable, "run persistence is not configured"))
		return
	}
	field, err := ontology.ParseFieldType(c.Query("field"))
	if err != nil {
		respondError(c, err)
		return
	}

	limit := defaultUnknownsLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(c, errors.InvalidParam("limit must be a positive integer"))
			return
		}
		limit = n
	}

	terms, err := h.store.UnknownTerms(c.Request.Context(), field, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if terms == nil {
		terms = []enrichment.UnknownTerm{}
	}
	c.JSON(http.StatusOK, unknownTermsResponse{Field: field, Terms: terms})
}

//Personal.AI order the ending
