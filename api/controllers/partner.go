package controllers

import (
	"net/http"

	"github.com/retailnet/backend/api/middleware"
	"github.com/retailnet/backend/api/responses"
	"github.com/retailnet/backend/api/validators"
	"github.com/retailnet/backend/internal/ingest"
	pkgerrors "github.com/retailnet/backend/pkg/errors"
	"github.com/retailnet/backend/pkg/logger"
)

// Price lists arrive as raw YAML. Anything past this limit is a mistake.
const maxPriceListBytes = 8 << 20

// PartnerUpdate ingests the caller's YAML price list.
func PartnerUpdate(svc *ingest.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ingest service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		if userID == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		raw, err := validators.ReadRawBody(r, maxPriceListBytes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ImportPriceList(r.Context(), userID, raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// PartnerState reports whether the caller's shop is accepting orders.
func PartnerState(svc *ingest.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ingest service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		shop, err := svc.PartnerState(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, shop)
	}
}

type partnerStateRequest struct {
	State *bool `json:"state" validate:"required"`
}

func PartnerSetState(svc *ingest.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ingest service unavailable"))
			return
		}

		var body partnerStateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		shop, err := svc.SetPartnerState(r.Context(), userID, *body.State)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, shop)
	}
}
