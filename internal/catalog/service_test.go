package catalog

import (
	"context"
	"testing"

	"github.com/santelink/provider-portal/internal/upstream"
	pkgerrors "github.com/santelink/provider-portal/pkg/errors"
	"github.com/santelink/provider-portal/pkg/pagination"
)

type stubCatalog struct {
	lastParams upstream.ListMedicinesParams
	page       *upstream.MedicinePage
}

func (s *stubCatalog) ListMedicines(_ context.Context, _ upstream.TokenSource, params upstream.ListMedicinesParams) (*upstream.MedicinePage, error) {
	s.lastParams = params
	return s.page, nil
}

func (s *stubCatalog) GetMedicine(context.Context, upstream.TokenSource, string) (*upstream.Medicine, error) {
	return &upstream.Medicine{ID: "m1", Name: "Paracetamol"}, nil
}

func TestListNormalizesPaginationAndTrimsFilters(t *testing.T) {
	t.Parallel()

	stub := &stubCatalog{page: &upstream.MedicinePage{}}
	svc, err := NewService(stub)
	if err != nil {
		t.Fatalf("building service: %v", err)
	}

	_, err = svc.List(context.Background(), nil, ListParams{
		Pagination: pagination.Params{Page: -1, Limit: 9999},
		Search:     "  para  ",
		SortBy:     "price",
		SortOrder:  "DESC",
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if stub.lastParams.Pagination.Page != 1 || stub.lastParams.Pagination.Limit != pagination.MaxLimit {
		t.Fatalf("expected clamped pagination, got %+v", stub.lastParams.Pagination)
	}
	if stub.lastParams.Search != "para" || stub.lastParams.SortOrder != "desc" {
		t.Fatalf("expected trimmed filters, got %+v", stub.lastParams)
	}
}

func TestListRejectsUnknownSortField(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubCatalog{})
	if err != nil {
		t.Fatalf("building service: %v", err)
	}

	_, err = svc.List(context.Background(), nil, ListParams{SortBy: "password"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetRequiresID(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubCatalog{})
	if err != nil {
		t.Fatalf("building service: %v", err)
	}

	if _, err := svc.Get(context.Background(), nil, "  "); err == nil {
		t.Fatal("expected validation error for blank id")
	}
}
