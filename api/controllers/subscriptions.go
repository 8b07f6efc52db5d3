package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/agentmart/agentmart-backend/api/responses"
	"github.com/agentmart/agentmart-backend/internal/subscriptions"
	"github.com/agentmart/agentmart-backend/pkg/logger"
)

// UserSubscription reports the derived subscription access state. The route
// keeps its original flat response shapes.
func UserSubscription(resolver subscriptions.Resolver, logg *logger.Logger) http.HandlerFunc {
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

		state, err := resolver.Resolve(r.Context(), userID)
		if err != nil {
			if logg != nil {
				logg.Error(r.Context(), "subscriptions.resolve", err)
			}
			responses.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to resolve subscription"})
			return
		}

		responses.WriteJSON(w, http.StatusOK, state)
	}
}
