package upstream

import (
	"context"
	"net/http"
	"net/url"

	"github.com/santelink/provider-portal/pkg/pagination"
)

// ListMedicinesParams filters and orders the catalog listing.
type ListMedicinesParams struct {
	Pagination pagination.Params
	Search     string
	Category   string
	SortBy     string
	SortOrder  string
}

// ListMedicines pages through the medicine catalog.
func (c *Client) ListMedicines(ctx context.Context, ts TokenSource, params ListMedicinesParams) (*MedicinePage, error) {
	query := url.Values{}
	params.Pagination.Apply(query)
	if params.Search != "" {
		query.Set("search", params.Search)
	}
	if params.Category != "" {
		query.Set("category", params.Category)
	}
	if params.SortBy != "" {
		query.Set("sortBy", params.SortBy)
	}
	if params.SortOrder != "" {
		query.Set("sortOrder", params.SortOrder)
	}

	var page MedicinePage
	err := c.do(ctx, ts, call{
		endpoint: "medicines.list",
		method:   http.MethodGet,
		path:     "/medicines",
		query:    query,
		out:      &page,
	})
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// GetMedicine fetches a single catalog entry, used to refresh stock snapshots.
func (c *Client) GetMedicine(ctx context.Context, ts TokenSource, medicineID string) (*Medicine, error) {
	var medicine Medicine
	err := c.do(ctx, ts, call{
		endpoint: "medicines.get",
		method:   http.MethodGet,
		path:     "/medicines/" + url.PathEscape(medicineID),
		out:      &medicine,
	})
	if err != nil {
		return nil, err
	}
	return &medicine, nil
}
