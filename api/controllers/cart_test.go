package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/santelink/provider-portal/api/middleware"
	"github.com/santelink/provider-portal/internal/cart"
	"github.com/santelink/provider-portal/internal/catalog"
	"github.com/santelink/provider-portal/internal/session"
	"github.com/santelink/provider-portal/internal/upstream"
	pkgerrors "github.com/santelink/provider-portal/pkg/errors"
	"github.com/santelink/provider-portal/pkg/types"
)

type stubCatalog struct {
	medicines map[string]*upstream.Medicine
}

func (s stubCatalog) List(context.Context, upstream.TokenSource, catalog.ListParams) (*upstream.MedicinePage, error) {
	return &upstream.MedicinePage{}, nil
}

func (s stubCatalog) Get(_ context.Context, _ upstream.TokenSource, id string) (*upstream.Medicine, error) {
	med, ok := s.medicines[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "medicine not found")
	}
	return med, nil
}

type stubSessions struct{}

func (stubSessions) Login(context.Context, string, string) (*session.Session, string, error) {
	return nil, "", nil
}

func (stubSessions) Logout(context.Context, string) error { return nil }

func (stubSessions) Restore(context.Context, string) (*session.Session, error) { return nil, nil }

func (stubSessions) TokenSource(string) upstream.TokenSource { return nil }

func withSession(req *http.Request) *http.Request {
	ctx := middleware.WithSession(req.Context(), &session.Session{ID: "s1", UserID: "u1"})
	return req.WithContext(ctx)
}

func TestCartAddItemEnforcesStockCeiling(t *testing.T) {
	carts := cart.NewRegistry()
	catalogStub := stubCatalog{medicines: map[string]*upstream.Medicine{
		"para": {ID: "para", Name: "Paracetamol", Price: types.MoneyFromFloat(500), Quantity: 1},
	}}
	handler := CartAddItem(carts, catalogStub, stubSessions{}, nil)

	// First unit fits under the snapshot of 1.
	req := withSession(httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(`{"medicineId":"para"}`)))
	resp := httptest.NewRecorder()
	handler(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	// Second add hits the ceiling.
	req = withSession(httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(`{"medicineId":"para"}`)))
	resp = httptest.NewRecorder()
	handler(resp, req)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}

	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decoding error envelope: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeStateConflict) {
		t.Fatalf("unexpected code %s", envelope.Error.Code)
	}
}

func TestCartUpdateItemZeroRemovesLine(t *testing.T) {
	carts := cart.NewRegistry()
	staged := carts.ForSession("s1")
	if err := staged.Add(upstream.Medicine{ID: "para", Name: "Paracetamol", Price: types.MoneyFromFloat(500), Quantity: 50}); err != nil {
		t.Fatalf("seeding cart: %v", err)
	}

	handler := CartUpdateItem(carts, nil)

	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("medicineId", "para")
	req := withSession(httptest.NewRequest(http.MethodPatch, "/cart/items/para", strings.NewReader(`{"quantity":0}`)))
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	resp := httptest.NewRecorder()
	handler(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if !staged.IsEmpty() {
		t.Fatal("quantity zero must remove the line")
	}
}

func TestCartFetchRequiresSession(t *testing.T) {
	handler := CartFetch(cart.NewRegistry(), nil)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	resp := httptest.NewRecorder()
	handler(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}
