package controllers

import (
	"net/http"

	"github.com/brightloom/storefront-backend/api/responses"
	"github.com/brightloom/storefront-backend/api/validators"
	checkoutsvc "github.com/brightloom/storefront-backend/internal/checkout"
	pkgerrors "github.com/brightloom/storefront-backend/pkg/errors"
	"github.com/brightloom/storefront-backend/pkg/logger"
)

// CheckoutCreateSession starts a hosted Stripe checkout for the submitted
// line items and returns the redirect URL.
func CheckoutCreateSession(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var input checkoutsvc.CreateSessionInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out, err := svc.CreateSession(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}
