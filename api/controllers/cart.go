package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/brightloom/storefront-backend/api/responses"
	"github.com/brightloom/storefront-backend/api/validators"
	cartsvc "github.com/brightloom/storefront-backend/internal/cart"
	pkgerrors "github.com/brightloom/storefront-backend/pkg/errors"
	"github.com/brightloom/storefront-backend/pkg/logger"
)

const cartTokenHeader = "X-Cart-Token"

type cartReplaceRequest struct {
	Items []cartsvc.Line `json:"items" validate:"required,dive"`
}

// CartFetch returns the caller's cart snapshot. A missing token gets a fresh
// one issued on the response so the client can persist it.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		token := cartToken(r)
		if token == "" {
			token = uuid.NewString()
		}
		w.Header().Set(cartTokenHeader, token)

		snapshot, err := svc.Fetch(r.Context(), token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshot)
	}
}

// CartReplace swaps the entire cart for the submitted lines.
func CartReplace(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		token := cartToken(r)
		if token == "" {
			token = uuid.NewString()
		}
		w.Header().Set(cartTokenHeader, token)

		var payload cartReplaceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := svc.Replace(r.Context(), token, payload.Items)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshot)
	}
}

// CartClear empties the caller's cart.
func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		token := cartToken(r)
		if token == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart token required"))
			return
		}

		if err := svc.Clear(r.Context(), token); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"cleared": true})
	}
}

func cartToken(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(cartTokenHeader))
}
