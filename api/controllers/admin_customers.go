package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sarthakjns/bazaario-backend/api/responses"
	"github.com/sarthakjns/bazaario-backend/api/validators"
	customersvc "github.com/sarthakjns/bazaario-backend/internal/customers"
	"github.com/sarthakjns/bazaario-backend/pkg/logger"
	"github.com/sarthakjns/bazaario-backend/pkg/pagination"
)

type blockCustomerRequest struct {
	Blocked bool `json:"blocked"`
}

// AdminListCustomers pages the registered customer accounts.
func AdminListCustomers(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), customersvc.ListParams{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// AdminBlockCustomer toggles a customer account's blocked state.
func AdminBlockCustomer(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUID(chi.URLParam(r, "customerID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload blockCustomerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SetBlocked(r.Context(), id, payload.Blocked); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"blocked": payload.Blocked})
	}
}
