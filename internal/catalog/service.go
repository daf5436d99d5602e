package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/santelink/provider-portal/internal/upstream"
	pkgerrors "github.com/santelink/provider-portal/pkg/errors"
	"github.com/santelink/provider-portal/pkg/pagination"
)

var allowedSortFields = map[string]struct{}{
	"name":      {},
	"price":     {},
	"quantity":  {},
	"category":  {},
	"createdAt": {},
}

type platformCatalog interface {
	ListMedicines(ctx context.Context, ts upstream.TokenSource, params upstream.ListMedicinesParams) (*upstream.MedicinePage, error)
	GetMedicine(ctx context.Context, ts upstream.TokenSource, medicineID string) (*upstream.Medicine, error)
}

// Service normalizes catalog queries before they hit the platform. The
// returned stock figures are the snapshots the cart treats as ceilings.
type Service struct {
	api platformCatalog
}

// ListParams are the portal-facing catalog query inputs.
type ListParams struct {
	Pagination pagination.Params
	Search     string
	Category   string
	SortBy     string
	SortOrder  string
}

func NewService(api platformCatalog) (*Service, error) {
	if api == nil {
		return nil, fmt.Errorf("platform catalog is required")
	}
	return &Service{api: api}, nil
}

// List pages through the medicine catalog with clamped pagination and a
// whitelisted sort.
func (s *Service) List(ctx context.Context, ts upstream.TokenSource, params ListParams) (*upstream.MedicinePage, error) {
	sortBy := strings.TrimSpace(params.SortBy)
	if sortBy != "" {
		if _, ok := allowedSortFields[sortBy]; !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported sort field").
				WithDetails(map[string]any{"field": sortBy})
		}
	}
	sortOrder := strings.ToLower(strings.TrimSpace(params.SortOrder))
	if sortOrder != "" && sortOrder != "asc" && sortOrder != "desc" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sort order must be asc or desc")
	}

	return s.api.ListMedicines(ctx, ts, upstream.ListMedicinesParams{
		Pagination: pagination.Normalize(params.Pagination),
		Search:     strings.TrimSpace(params.Search),
		Category:   strings.TrimSpace(params.Category),
		SortBy:     sortBy,
		SortOrder:  sortOrder,
	})
}

// Get fetches one medicine, used to refresh a stock snapshot.
func (s *Service) Get(ctx context.Context, ts upstream.TokenSource, medicineID string) (*upstream.Medicine, error) {
	if strings.TrimSpace(medicineID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "medicine id is required")
	}
	return s.api.GetMedicine(ctx, ts, medicineID)
}
