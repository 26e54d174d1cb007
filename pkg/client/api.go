package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/turtacn/OncoTerm/pkg/errors"
	"github.com/turtacn/OncoTerm/pkg/types/ontology"
)

// Resolve resolves one term against the server's current dictionaries.
func (c *Client) Resolve(ctx context.Context, field ontology.FieldType, term string) (*ontology.ResolveResponse, error) {
	req := &ontology.ResolveRequest{Field: field, Term: term}
	if err := req.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeValidation, "invalid resolve request")
	}
	var out ontology.ResolveResponse
	if err := c.post(ctx, "/api/v1/resolve", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Enrich submits literature entries for a synchronous enrichment run.
func (c *Client) Enrich(ctx context.Context, entries []ontology.Entry) (*ontology.EnrichResponse, error) {
	if len(entries) == 0 {
		return nil, errors.InvalidParam("at least one entry is required")
	}
	var out ontology.EnrichResponse
	if err := c.post(ctx, "/api/v1/enrich", &ontology.EnrichRequest{Entries: entries}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Run fetches the persisted header of a past enrichment run.
func (c *Client) Run(ctx context.Context, runID string) (*ontology.RunResponse, error) {
	if runID == "" {
		return nil, errors.InvalidParam("runID is required")
	}
	var out ontology.RunResponse
	if err := c.get(ctx, "/api/v1/runs/"+url.PathEscape(runID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UnknownTerms fetches the curation report for one field type.  limit <= 0
// means the server default.
func (c *Client) UnknownTerms(ctx context.Context, field ontology.FieldType, limit int) (*ontology.UnknownTermsResponse, error) {
	if !field.IsValid() {
		return nil, errors.InvalidParam("unknown field type " + string(field))
	}
	path := fmt.Sprintf("/api/v1/unknowns?field=%s", url.QueryEscape(string(field)))
	if limit > 0 {
		path += "&limit=" + strconv.Itoa(limit)
	}
	var out ontology.UnknownTermsResponse
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Status reports service readiness and per-field dictionary state.
func (c *Client) Status(ctx context.Context) (*ontology.StatusResponse, error) {
	var out ontology.StatusResponse
	if err := c.get(ctx, "/api/v1/status", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RebuildDictionaries asks the server to rebuild its dictionaries from fresh
// source data.
func (c *Client) RebuildDictionaries(ctx context.Context) (*ontology.StatusResponse, error) {
	var out ontology.StatusResponse
	if err := c.post(ctx, "/api/v1/dictionaries/rebuild", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

//Personal.AI order the ending
