package controllers

import (
	"net/http"

	"github.com/brightloom/storefront-backend/api/middleware"
	"github.com/brightloom/storefront-backend/api/responses"
	"github.com/brightloom/storefront-backend/api/validators"
	"github.com/brightloom/storefront-backend/internal/admingate"
	pkgerrors "github.com/brightloom/storefront-backend/pkg/errors"
	"github.com/brightloom/storefront-backend/pkg/logger"
)

type adminSignInRequest struct {
	Password string `json:"password" validate:"required"`
}

// AdminSignIn exchanges the shared admin password for a short-lived session
// token. Failed attempts are throttled per caller address.
func AdminSignIn(gate admingate.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if gate == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin gate unavailable"))
			return
		}

		var payload adminSignInRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := gate.SignIn(r.Context(), payload.Password, middleware.ClientIP(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session)
	}
}
