package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/santelink/provider-portal/internal/cart"
	"github.com/santelink/provider-portal/internal/session"
	"github.com/santelink/provider-portal/internal/upstream"
	pkgerrors "github.com/santelink/provider-portal/pkg/errors"
	"github.com/santelink/provider-portal/pkg/logger"
	"github.com/santelink/provider-portal/pkg/pagination"
)

type platformOrders interface {
	CreateOrder(ctx context.Context, ts upstream.TokenSource, input upstream.CreateOrderInput, idempotencyKey string) (*upstream.Order, error)
	ListMyOrders(ctx context.Context, ts upstream.TokenSource, params pagination.Params) (*upstream.OrderPage, error)
	ListOrderTemplates(ctx context.Context, ts upstream.TokenSource) ([]upstream.OrderTemplate, error)
	GetOrderTemplate(ctx context.Context, ts upstream.TokenSource, templateID string) (*upstream.OrderTemplate, error)
	CreateOrderTemplate(ctx context.Context, ts upstream.TokenSource, input upstream.OrderTemplateInput) (*upstream.OrderTemplate, error)
	UpdateOrderTemplate(ctx context.Context, ts upstream.TokenSource, templateID string, input upstream.OrderTemplateInput) (*upstream.OrderTemplate, error)
	DeleteOrderTemplate(ctx context.Context, ts upstream.TokenSource, templateID string) error
}

type platformMedicines interface {
	GetMedicine(ctx context.Context, ts upstream.TokenSource, medicineID string) (*upstream.Medicine, error)
}

type tokenSources interface {
	TokenSource(sessionID string) upstream.TokenSource
}

// Service turns a non-empty session cart into a platform order and clears
// the cart only when the platform confirms.
type Service struct {
	api       platformOrders
	medicines platformMedicines
	carts     *cart.Registry
	sessions  tokenSources
	logg      *logger.Logger
}

func NewService(api platformOrders, medicines platformMedicines, carts *cart.Registry, sessions tokenSources, logg *logger.Logger) (*Service, error) {
	if api == nil {
		return nil, fmt.Errorf("platform orders api is required")
	}
	if medicines == nil {
		return nil, fmt.Errorf("platform medicines api is required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart registry is required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session token sources are required")
	}
	return &Service{api: api, medicines: medicines, carts: carts, sessions: sessions, logg: logg}, nil
}

// Submit maps the cart to {medicineId, quantity} pairs and creates the order.
// An empty cart is rejected before any network call. On platform rejection
// the cart stays untouched so the provider can retry.
func (s *Service) Submit(ctx context.Context, sess *session.Session) (*upstream.Order, error) {
	if sess == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	staged := s.carts.ForSession(sess.ID)
	items := staged.Items()
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	input := upstream.CreateOrderInput{
		UserID: sess.UserID,
		Items:  make([]upstream.CreateOrderItem, 0, len(items)),
	}
	for _, item := range items {
		input.Items = append(input.Items, upstream.CreateOrderItem{
			MedicineID: item.Medicine.ID,
			Quantity:   item.Quantity,
		})
	}

	order, err := s.api.CreateOrder(ctx, s.sessions.TokenSource(sess.ID), input, uuid.NewString())
	if err != nil {
		return nil, err
	}

	staged.Clear()
	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"order_id": order.ID,
			"lines":    len(items),
		}), "order submitted")
	}
	return order, nil
}

// History pages through the provider's past orders.
func (s *Service) History(ctx context.Context, sess *session.Session, params pagination.Params) (*upstream.OrderPage, error) {
	if sess == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return s.api.ListMyOrders(ctx, s.sessions.TokenSource(sess.ID), pagination.Normalize(params))
}

// ListTemplates returns the provider's saved templates.
func (s *Service) ListTemplates(ctx context.Context, sess *session.Session) ([]upstream.OrderTemplate, error) {
	if sess == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return s.api.ListOrderTemplates(ctx, s.sessions.TokenSource(sess.ID))
}

// CreateTemplate saves a new template after basic shape checks.
func (s *Service) CreateTemplate(ctx context.Context, sess *session.Session, input upstream.OrderTemplateInput) (*upstream.OrderTemplate, error) {
	if sess == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if err := validateTemplateInput(input); err != nil {
		return nil, err
	}
	return s.api.CreateOrderTemplate(ctx, s.sessions.TokenSource(sess.ID), input)
}

// UpdateTemplate replaces an existing template.
func (s *Service) UpdateTemplate(ctx context.Context, sess *session.Session, templateID string, input upstream.OrderTemplateInput) (*upstream.OrderTemplate, error) {
	if sess == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if templateID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "template id is required")
	}
	if err := validateTemplateInput(input); err != nil {
		return nil, err
	}
	return s.api.UpdateOrderTemplate(ctx, s.sessions.TokenSource(sess.ID), templateID, input)
}

// DeleteTemplate removes a template.
func (s *Service) DeleteTemplate(ctx context.Context, sess *session.Session, templateID string) error {
	if sess == nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if templateID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "template id is required")
	}
	return s.api.DeleteOrderTemplate(ctx, s.sessions.TokenSource(sess.ID), templateID)
}

// ApplyTemplateResult reports what a template instantiation staged and what
// it had to skip because stock moved since the template was saved.
type ApplyTemplateResult struct {
	Added   int      `json:"added"`
	Skipped []string `json:"skipped,omitempty"`
}

// ApplyTemplate stages a template into the session cart. Every line is
// re-validated against the current stock snapshot; lines the stock no longer
// covers are skipped and reported rather than failing the whole apply.
func (s *Service) ApplyTemplate(ctx context.Context, sess *session.Session, templateID string) (*ApplyTemplateResult, error) {
	if sess == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	ts := s.sessions.TokenSource(sess.ID)
	template, err := s.api.GetOrderTemplate(ctx, ts, templateID)
	if err != nil {
		return nil, err
	}

	staged := s.carts.ForSession(sess.ID)
	result := &ApplyTemplateResult{}
	for _, line := range template.Items {
		medicine, err := s.medicines.GetMedicine(ctx, ts, line.MedicineID)
		if err != nil {
			result.Skipped = append(result.Skipped, line.MedicineID)
			continue
		}
		if err := staged.Add(*medicine); err != nil {
			result.Skipped = append(result.Skipped, line.MedicineID)
			continue
		}
		if line.Quantity > 1 {
			if err := staged.UpdateQuantity(medicine.ID, line.Quantity); err != nil {
				// Keep the single unit that fit; the ceiling moved below the
				// template quantity.
				result.Skipped = append(result.Skipped, line.MedicineID)
			}
		}
		result.Added++
	}
	return result, nil
}

func validateTemplateInput(input upstream.OrderTemplateInput) error {
	if input.Name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "template name is required")
	}
	if len(input.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "template must contain at least one item")
	}
	for _, item := range input.Items {
		if item.MedicineID == "" || item.Quantity < 1 {
			return pkgerrors.New(pkgerrors.CodeValidation, "template items need a medicine id and a positive quantity")
		}
	}
	return nil
}
