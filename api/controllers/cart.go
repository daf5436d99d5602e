package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/santelink/provider-portal/api/middleware"
	"github.com/santelink/provider-portal/api/responses"
	"github.com/santelink/provider-portal/api/validators"
	"github.com/santelink/provider-portal/internal/cart"
	"github.com/santelink/provider-portal/internal/upstream"
	pkgerrors "github.com/santelink/provider-portal/pkg/errors"
	"github.com/santelink/provider-portal/pkg/logger"
	"github.com/santelink/provider-portal/pkg/types"
)

type cartItemView struct {
	Medicine upstream.Medicine `json:"medicine"`
	Quantity int               `json:"quantity"`
	Subtotal types.Money       `json:"subtotal"`
}

type cartView struct {
	Items []cartItemView `json:"items"`
	Total types.Money    `json:"total"`
	Count int            `json:"count"`
}

func renderCart(c *cart.Cart) cartView {
	items := c.Items()
	view := cartView{
		Items: make([]cartItemView, 0, len(items)),
		Total: c.Total(),
		Count: len(items),
	}
	for _, item := range items {
		view.Items = append(view.Items, cartItemView{
			Medicine: item.Medicine,
			Quantity: item.Quantity,
			Subtotal: item.Subtotal(),
		})
	}
	return view
}

type addCartItemRequest struct {
	MedicineID string `json:"medicineId" validate:"required"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"min=0"`
}

// CartFetch returns the session cart with its derived total.
func CartFetch(carts *cart.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())
		if sess == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}
		responses.WriteSuccess(w, renderCart(carts.ForSession(sess.ID)))
	}
}

// CartAddItem stages one medicine, re-reading its stock snapshot first so the
// quantity ceiling reflects what the platform reports right now.
func CartAddItem(carts *cart.Registry, catalogSvc CatalogService, sessions SessionService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())
		if sess == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		var req addCartItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		medicine, err := catalogSvc.Get(r.Context(), sessions.TokenSource(sess.ID), req.MedicineID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		staged := carts.ForSession(sess.ID)
		if err := staged.Add(*medicine); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, renderCart(staged))
	}
}

// CartUpdateItem sets the quantity of one line. Zero removes the line.
func CartUpdateItem(carts *cart.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())
		if sess == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		var req updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		staged := carts.ForSession(sess.ID)
		if err := staged.UpdateQuantity(chi.URLParam(r, "medicineId"), req.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, renderCart(staged))
	}
}

// CartRemoveItem drops one line from the cart.
func CartRemoveItem(carts *cart.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())
		if sess == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		staged := carts.ForSession(sess.ID)
		staged.Remove(chi.URLParam(r, "medicineId"))
		responses.WriteSuccess(w, renderCart(staged))
	}
}

// CartClear empties the cart.
func CartClear(carts *cart.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())
		if sess == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		staged := carts.ForSession(sess.ID)
		staged.Clear()
		responses.WriteSuccess(w, renderCart(staged))
	}
}
