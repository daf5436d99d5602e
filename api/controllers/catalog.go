package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/santelink/provider-portal/api/middleware"
	"github.com/santelink/provider-portal/api/responses"
	"github.com/santelink/provider-portal/api/validators"
	"github.com/santelink/provider-portal/internal/catalog"
	"github.com/santelink/provider-portal/internal/upstream"
	pkgerrors "github.com/santelink/provider-portal/pkg/errors"
	"github.com/santelink/provider-portal/pkg/logger"
	"github.com/santelink/provider-portal/pkg/pagination"
)

// CatalogService lists and resolves medicines from the supply platform.
type CatalogService interface {
	List(ctx context.Context, ts upstream.TokenSource, params catalog.ListParams) (*upstream.MedicinePage, error)
	Get(ctx context.Context, ts upstream.TokenSource, medicineID string) (*upstream.Medicine, error)
}

// MedicineList returns one catalog page with search, category and sort filters.
func MedicineList(svc CatalogService, sessions SessionService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())
		if sess == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		page, err := validators.ParseQueryInt(r, "page", 1, 1, 1<<20)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := catalog.ListParams{
			Pagination: pagination.Params{Page: page, Limit: limit},
			Search:     strings.TrimSpace(r.URL.Query().Get("search")),
			Category:   strings.TrimSpace(r.URL.Query().Get("category")),
			SortBy:     strings.TrimSpace(r.URL.Query().Get("sortBy")),
			SortOrder:  strings.TrimSpace(r.URL.Query().Get("sortOrder")),
		}

		result, err := svc.List(r.Context(), sessions.TokenSource(sess.ID), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// MedicineDetail returns one medicine with its live stock snapshot.
func MedicineDetail(svc CatalogService, sessions SessionService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())
		if sess == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		medicine, err := svc.Get(r.Context(), sessions.TokenSource(sess.ID), chi.URLParam(r, "medicineId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, medicine)
	}
}
