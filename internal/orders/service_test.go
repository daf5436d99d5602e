package orders

import (
	"context"
	"testing"

	"github.com/santelink/provider-portal/internal/cart"
	"github.com/santelink/provider-portal/internal/session"
	"github.com/santelink/provider-portal/internal/upstream"
	pkgerrors "github.com/santelink/provider-portal/pkg/errors"
	"github.com/santelink/provider-portal/pkg/pagination"
	"github.com/santelink/provider-portal/pkg/types"
)

type stubPlatform struct {
	createCalls int
	lastInput   upstream.CreateOrderInput
	lastIdemKey string
	createErr   error
	order       *upstream.Order
	template    *upstream.OrderTemplate
	medicines   map[string]*upstream.Medicine
}

func (s *stubPlatform) CreateOrder(_ context.Context, _ upstream.TokenSource, input upstream.CreateOrderInput, idemKey string) (*upstream.Order, error) {
	s.createCalls++
	s.lastInput = input
	s.lastIdemKey = idemKey
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.order, nil
}

func (s *stubPlatform) ListMyOrders(_ context.Context, _ upstream.TokenSource, params pagination.Params) (*upstream.OrderPage, error) {
	return &upstream.OrderPage{Pagination: pagination.Meta{Page: params.Page, Limit: params.Limit}}, nil
}

func (s *stubPlatform) ListOrderTemplates(context.Context, upstream.TokenSource) ([]upstream.OrderTemplate, error) {
	return nil, nil
}

func (s *stubPlatform) GetOrderTemplate(context.Context, upstream.TokenSource, string) (*upstream.OrderTemplate, error) {
	return s.template, nil
}

func (s *stubPlatform) CreateOrderTemplate(_ context.Context, _ upstream.TokenSource, input upstream.OrderTemplateInput) (*upstream.OrderTemplate, error) {
	return &upstream.OrderTemplate{ID: "t1", Name: input.Name, Items: input.Items}, nil
}

func (s *stubPlatform) UpdateOrderTemplate(_ context.Context, _ upstream.TokenSource, id string, input upstream.OrderTemplateInput) (*upstream.OrderTemplate, error) {
	return &upstream.OrderTemplate{ID: id, Name: input.Name, Items: input.Items}, nil
}

func (s *stubPlatform) DeleteOrderTemplate(context.Context, upstream.TokenSource, string) error {
	return nil
}

func (s *stubPlatform) GetMedicine(_ context.Context, _ upstream.TokenSource, id string) (*upstream.Medicine, error) {
	med, ok := s.medicines[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "medicine not found")
	}
	return med, nil
}

type stubSessions struct{}

func (stubSessions) TokenSource(string) upstream.TokenSource { return nil }

func testMedicine(id string, price float64, stock int) upstream.Medicine {
	return upstream.Medicine{ID: id, Name: id, Price: types.MoneyFromFloat(price), Quantity: stock}
}

func newTestService(t *testing.T, platform *stubPlatform) (*Service, *cart.Registry) {
	t.Helper()
	carts := cart.NewRegistry()
	svc, err := NewService(platform, platform, carts, stubSessions{}, nil)
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return svc, carts
}

func TestSubmitEmptyCartMakesNoNetworkCall(t *testing.T) {
	t.Parallel()

	platform := &stubPlatform{}
	svc, _ := newTestService(t, platform)

	_, err := svc.Submit(context.Background(), &session.Session{ID: "s1", UserID: "u1"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if platform.createCalls != 0 {
		t.Fatalf("empty cart must not reach the platform, got %d calls", platform.createCalls)
	}
}

func TestSubmitUnauthenticated(t *testing.T) {
	t.Parallel()

	platform := &stubPlatform{}
	svc, _ := newTestService(t, platform)

	_, err := svc.Submit(context.Background(), nil)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestSubmitSuccessClearsCart(t *testing.T) {
	t.Parallel()

	platform := &stubPlatform{order: &upstream.Order{ID: "o1", Status: "PENDING"}}
	svc, carts := newTestService(t, platform)

	sess := &session.Session{ID: "s1", UserID: "u1"}
	staged := carts.ForSession(sess.ID)
	_ = staged.Add(testMedicine("para", 500, 50))
	_ = staged.Add(testMedicine("para", 500, 50))
	_ = staged.Add(testMedicine("amox", 1200, 10))

	order, err := svc.Submit(context.Background(), sess)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if order.ID != "o1" {
		t.Fatalf("unexpected order %+v", order)
	}

	if platform.lastInput.UserID != "u1" {
		t.Fatalf("expected user id on input, got %+v", platform.lastInput)
	}
	if len(platform.lastInput.Items) != 2 {
		t.Fatalf("expected two lines, got %+v", platform.lastInput.Items)
	}
	if platform.lastInput.Items[0].MedicineID != "para" || platform.lastInput.Items[0].Quantity != 2 {
		t.Fatalf("unexpected first line %+v", platform.lastInput.Items[0])
	}
	if platform.lastIdemKey == "" {
		t.Fatal("expected an idempotency key on order creation")
	}
	if !staged.IsEmpty() {
		t.Fatal("cart must be cleared after a confirmed order")
	}
}

func TestSubmitRejectionLeavesCartUntouched(t *testing.T) {
	t.Parallel()

	platform := &stubPlatform{createErr: pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock for Amoxicillin")}
	svc, carts := newTestService(t, platform)

	sess := &session.Session{ID: "s1", UserID: "u1"}
	staged := carts.ForSession(sess.ID)
	_ = staged.Add(testMedicine("amox", 1200, 10))

	_, err := svc.Submit(context.Background(), sess)
	if typed := pkgerrors.As(err); typed == nil || typed.Message() != "insufficient stock for Amoxicillin" {
		t.Fatalf("expected platform message to surface, got %v", err)
	}
	if staged.Len() != 1 {
		t.Fatal("cart must be preserved after platform rejection")
	}
}

func TestCreateTemplateValidation(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, &stubPlatform{})
	sess := &session.Session{ID: "s1", UserID: "u1"}

	cases := []upstream.OrderTemplateInput{
		{},
		{Name: "weekly"},
		{Name: "weekly", Items: []upstream.CreateOrderItem{{MedicineID: "", Quantity: 2}}},
		{Name: "weekly", Items: []upstream.CreateOrderItem{{MedicineID: "para", Quantity: 0}}},
	}
	for i, input := range cases {
		if _, err := svc.CreateTemplate(context.Background(), sess, input); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}

	valid := upstream.OrderTemplateInput{Name: "weekly", Items: []upstream.CreateOrderItem{{MedicineID: "para", Quantity: 2}}}
	if _, err := svc.CreateTemplate(context.Background(), sess, valid); err != nil {
		t.Fatalf("valid template rejected: %v", err)
	}
}

func TestApplyTemplateRevalidatesStock(t *testing.T) {
	t.Parallel()

	platform := &stubPlatform{
		template: &upstream.OrderTemplate{
			ID:   "t1",
			Name: "weekly",
			Items: []upstream.CreateOrderItem{
				{MedicineID: "para", Quantity: 3},
				{MedicineID: "amox", Quantity: 50}, // stock dropped to 10
				{MedicineID: "ghost", Quantity: 1}, // delisted
			},
		},
		medicines: map[string]*upstream.Medicine{
			"para": {ID: "para", Name: "Paracetamol", Price: types.MoneyFromFloat(500), Quantity: 50},
			"amox": {ID: "amox", Name: "Amoxicillin", Price: types.MoneyFromFloat(1200), Quantity: 10},
		},
	}
	svc, carts := newTestService(t, platform)
	sess := &session.Session{ID: "s1", UserID: "u1"}

	result, err := svc.ApplyTemplate(context.Background(), sess, "t1")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if result.Added != 2 {
		t.Fatalf("expected two staged lines, got %d", result.Added)
	}
	if len(result.Skipped) != 2 {
		t.Fatalf("expected amox quantity and ghost to be reported, got %+v", result.Skipped)
	}

	items := carts.ForSession(sess.ID).Items()
	if len(items) != 2 {
		t.Fatalf("expected two cart lines, got %d", len(items))
	}
	if items[0].Quantity != 3 {
		t.Fatalf("expected template quantity staged, got %d", items[0].Quantity)
	}
	// The line whose template quantity no longer fits keeps a single unit.
	if items[1].Quantity != 1 {
		t.Fatalf("expected clamped single unit, got %d", items[1].Quantity)
	}
}
