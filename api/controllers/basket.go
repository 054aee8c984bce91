package controllers

import (
	"net/http"

	"github.com/retailnet/backend/api/middleware"
	"github.com/retailnet/backend/api/responses"
	"github.com/retailnet/backend/api/validators"
	"github.com/retailnet/backend/internal/basket"
	pkgerrors "github.com/retailnet/backend/pkg/errors"
	"github.com/retailnet/backend/pkg/logger"
)

// BasketFetch renders the caller's basket. No basket renders as an empty one.
func BasketFetch(svc *basket.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "basket service unavailable"))
			return
		}

		view, err := svc.View(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

type basketAddRequest struct {
	Items []basket.ItemInput `json:"items" validate:"required,min=1,dive"`
}

// BasketAdd inserts a batch of items. The batch is atomic; the first invalid
// entry rejects the whole request.
func BasketAdd(svc *basket.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "basket service unavailable"))
			return
		}

		var body basketAddRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.AddItems(r.Context(), middleware.UserIDFromContext(r.Context()), body.Items)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

type checkoutRequest struct {
	ContactID uint `json:"contact_id" validate:"required"`
}

// BasketCheckout flips the basket to a placed order against the given
// delivery contact.
func BasketCheckout(svc *basket.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "basket service unavailable"))
			return
		}

		var body checkoutRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Checkout(r.Context(), middleware.UserIDFromContext(r.Context()), body.ContactID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// OrdersHistory lists the caller's placed orders, newest first.
func OrdersHistory(svc *basket.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "basket service unavailable"))
			return
		}

		orders, err := svc.History(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, orders)
	}
}
