package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/sarthakjns/bazaario-backend/api/middleware"
	supportsvc "github.com/sarthakjns/bazaario-backend/internal/support"
	"github.com/sarthakjns/bazaario-backend/pkg/enums"
	pkgerrors "github.com/sarthakjns/bazaario-backend/pkg/errors"
)

func userIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return id, nil
}

func actorFromRequest(r *http.Request) (supportsvc.Actor, error) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		return supportsvc.Actor{}, err
	}
	role := enums.UserRole(middleware.RoleFromContext(r.Context()))
	if !role.IsValid() {
		return supportsvc.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing role")
	}
	return supportsvc.Actor{UserID: userID, Role: role}, nil
}

func parseUUID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid id")
	}
	return id, nil
}
