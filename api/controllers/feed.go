package controllers

import (
	"net/http"

	"github.com/sarthakjns/bazaario-backend/api/responses"
	"github.com/sarthakjns/bazaario-backend/api/validators"
	feedsvc "github.com/sarthakjns/bazaario-backend/internal/feed"
	"github.com/sarthakjns/bazaario-backend/pkg/logger"
	"github.com/sarthakjns/bazaario-backend/pkg/pagination"
)

// ActivityFeed serves the public anonymized purchase feed.
func ActivityFeed(svc feedsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		events, err := svc.Recent(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, events)
	}
}
