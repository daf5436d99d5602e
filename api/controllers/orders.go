package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/santelink/provider-portal/api/middleware"
	"github.com/santelink/provider-portal/api/responses"
	"github.com/santelink/provider-portal/api/validators"
	"github.com/santelink/provider-portal/internal/orders"
	"github.com/santelink/provider-portal/internal/session"
	"github.com/santelink/provider-portal/internal/upstream"
	pkgerrors "github.com/santelink/provider-portal/pkg/errors"
	"github.com/santelink/provider-portal/pkg/logger"
	"github.com/santelink/provider-portal/pkg/pagination"
)

// OrderService submits carts and manages order history and templates.
type OrderService interface {
	Submit(ctx context.Context, sess *session.Session) (*upstream.Order, error)
	History(ctx context.Context, sess *session.Session, params pagination.Params) (*upstream.OrderPage, error)
	ListTemplates(ctx context.Context, sess *session.Session) ([]upstream.OrderTemplate, error)
	CreateTemplate(ctx context.Context, sess *session.Session, input upstream.OrderTemplateInput) (*upstream.OrderTemplate, error)
	UpdateTemplate(ctx context.Context, sess *session.Session, templateID string, input upstream.OrderTemplateInput) (*upstream.OrderTemplate, error)
	DeleteTemplate(ctx context.Context, sess *session.Session, templateID string) error
	ApplyTemplate(ctx context.Context, sess *session.Session, templateID string) (*orders.ApplyTemplateResult, error)
}

// OrderSubmit turns the session cart into a platform order.
func OrderSubmit(svc OrderService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())

		order, err := svc.Submit(r.Context(), sess)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// OrderHistory pages through the provider's past orders.
func OrderHistory(svc OrderService, logg *logger.Logger) http.HandlerFunc {
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

		result, err := svc.History(r.Context(), sess, pagination.Params{Page: page, Limit: limit})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type templateRequest struct {
	Name  string                     `json:"name" validate:"required"`
	Items []upstream.CreateOrderItem `json:"items" validate:"required,min=1,dive"`
}

// TemplateList returns the provider's saved order templates.
func TemplateList(svc OrderService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())

		templates, err := svc.ListTemplates(r.Context(), sess)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, templates)
	}
}

// TemplateCreate saves a reorderable set of line items.
func TemplateCreate(svc OrderService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())

		var req templateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		template, err := svc.CreateTemplate(r.Context(), sess, upstream.OrderTemplateInput{Name: req.Name, Items: req.Items})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, template)
	}
}

// TemplateUpdate replaces a template's name and items.
func TemplateUpdate(svc OrderService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())

		var req templateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		template, err := svc.UpdateTemplate(r.Context(), sess, chi.URLParam(r, "templateId"), upstream.OrderTemplateInput{Name: req.Name, Items: req.Items})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, template)
	}
}

// TemplateDelete removes one template.
func TemplateDelete(svc OrderService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())

		if err := svc.DeleteTemplate(r.Context(), sess, chi.URLParam(r, "templateId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// TemplateApply stages a template's lines into the session cart, skipping
// lines the current stock no longer supports.
func TemplateApply(svc OrderService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())

		result, err := svc.ApplyTemplate(r.Context(), sess, chi.URLParam(r, "templateId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
