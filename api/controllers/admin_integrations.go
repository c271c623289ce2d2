package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sarthakjns/bazaario-backend/api/responses"
	"github.com/sarthakjns/bazaario-backend/api/validators"
	integrationsvc "github.com/sarthakjns/bazaario-backend/internal/integrations"
	pkgerrors "github.com/sarthakjns/bazaario-backend/pkg/errors"
	"github.com/sarthakjns/bazaario-backend/pkg/logger"
)

// AdminListIntegrations lists configured integrations with masked secrets.
func AdminListIntegrations(svc integrationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		integrations, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, integrations)
	}
}

// AdminUpdateIntegration edits an integration's enabled flag and settings.
func AdminUpdateIntegration(svc integrationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimSpace(chi.URLParam(r, "name"))
		if name == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "integration name required"))
			return
		}

		var payload integrationsvc.UpdateInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		integration, err := svc.Update(r.Context(), name, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, integration)
	}
}
