package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/agentmart/agentmart-backend/api/responses"
	"github.com/agentmart/agentmart-backend/internal/users"
	pkgerrors "github.com/agentmart/agentmart-backend/pkg/errors"
	"github.com/agentmart/agentmart-backend/pkg/logger"
)

// UserRole resolves a user's role by query parameter. The route keeps its
// original flat response shapes.
func UserRole(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.URL.Query().Get("userId"))
		if raw == "" {
			responses.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "User ID required"})
			return
		}

		userID, err := uuid.Parse(raw)
		if err != nil {
			responses.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid user ID"})
			return
		}

		role, err := svc.RoleFor(r.Context(), userID)
		if err != nil {
			typed := pkgerrors.As(err)
			if typed != nil && typed.Code() == pkgerrors.CodeNotFound {
				responses.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "User not found"})
				return
			}
			if logg != nil {
				logg.Error(r.Context(), "users.role", err)
			}
			responses.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to resolve role"})
			return
		}

		responses.WriteJSON(w, http.StatusOK, map[string]string{"role": string(role)})
	}
}
