package controllers

import (
	"net/http"

	"github.com/brightloom/storefront-backend/api/responses"
	"github.com/brightloom/storefront-backend/api/validators"
	internalcontact "github.com/brightloom/storefront-backend/internal/contact"
	pkgerrors "github.com/brightloom/storefront-backend/pkg/errors"
	"github.com/brightloom/storefront-backend/pkg/logger"
)

// ContactSubmit records a contact-form message from the public site.
func ContactSubmit(svc internalcontact.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contact service unavailable"))
			return
		}

		var input internalcontact.SubmitInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		msg, err := svc.Submit(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, msg)
	}
}
