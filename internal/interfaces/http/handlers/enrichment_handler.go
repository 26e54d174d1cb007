package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/OncoTerm/internal/application/enrichment"
	"github.com/turtacn/OncoTerm/internal/domain/ontology"
	"github.com/turtacn/OncoTerm/pkg/errors"
)

// EnrichmentService is the application-layer surface this handler serves.
type EnrichmentService interface {
	Ready() bool
	BuiltAt() time.Time
	Dictionaries() *enrichment.DictionarySet
	Prepare(ctx context.Context) (*enrichment.DictionarySet, error)
	Resolve(field ontology.FieldType, term string) (*ontology.ResolutionResult, error)
	EnrichEntries(ctx context.Context, entries []enrichment.Entry) (*enrichment.RunResult, error)
}

// EnrichmentHandler serves term resolution and batch enrichment.
type EnrichmentHandler struct {
	service EnrichmentService
}

// NewEnrichmentHandler constructs the handler.
func NewEnrichmentHandler(service EnrichmentService) *EnrichmentHandler {
	return &EnrichmentHandler{service: service}
}

type resolveRequest struct {
	Field string `json:"field" binding:"required"`
	Term  string `json:"term" binding:"required"`
}

type resolveResponse struct {
	Field      ontology.FieldType         `json:"field"`
	Resolution *ontology.ResolutionResult `json:"resolution"`
}

// Resolve handles POST /api/v1/resolve.
func (h *EnrichmentHandler) Resolve(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.Wrap(err, errors.ErrCodeBadRequest, "malformed resolve request"))
		return
	}
	field, err := ontology.ParseFieldType(req.Field)
	if err != nil {
		respondError(c, err)
		return
	}

	res, err := h.service.Resolve(field, req.Term)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resolveResponse{Field: field, Resolution: res})
}

type enrichRequest struct {
	Entries []enrichment.Entry `json:"entries" binding:"required"`
}

// Enrich handles POST /api/v1/enrich: a synchronous enrichment run over the
// submitted literature entries.
func (h *EnrichmentHandler) Enrich(c *gin.Context) {
	var req enrichRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.Wrap(err, errors.ErrCodeBadRequest, "malformed enrich request"))
		return
	}
	if len(req.Entries) == 0 {
		respondError(c, errors.InvalidParam("at least one entry is required"))
		return
	}

	result, err := h.service.EnrichEntries(c.Request.Context(), req.Entries)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type dictionaryStatus struct {
	Field    ontology.FieldType `json:"field"`
	Entities int                `json:"entities"`
	Failed   bool               `json:"failed"`
	Error    string             `json:"error,omitempty"`
}

type statusResponse struct {
	Ready        bool               `json:"ready"`
	BuiltAt      *time.Time         `json:"built_at,omitempty"`
	Dictionaries []dictionaryStatus `json:"dictionaries,omitempty"`
}

// Status handles GET /api/v1/status.
func (h *EnrichmentHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.statusBody())
}

// Rebuild handles POST /api/v1/dictionaries/rebuild: a fresh dictionary
// build that atomically replaces the serving set.
func (h *EnrichmentHandler) Rebuild(c *gin.Context) {
	if _, err := h.service.Prepare(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.statusBody())
}

func (h *EnrichmentHandler) statusBody() statusResponse {
	resp := statusResponse{Ready: h.service.Ready()}
	if builtAt := h.service.BuiltAt(); !builtAt.IsZero() {
		resp.BuiltAt = &builtAt
	}

	ds := h.service.Dictionaries()
	if ds == nil {
		return resp
	}
	for field, dict := range ds.Dictionaries {
		resp.Dictionaries = append(resp.Dictionaries, dictionaryStatus{
			Field:    field,
			Entities: dict.Size(),
		})
	}
	for field, err := range ds.Failures {
		resp.Dictionaries = append(resp.Dictionaries, dictionaryStatus{
			Field:  field,
			Failed: true,
			Error:  err.Error(),
		})
	}
	sort.Slice(resp.Dictionaries, func(i, j int) bool {
		return resp.Dictionaries[i].Field < resp.Dictionaries[j].Field
	})
	return resp
}

//Personal.AI order the ending
