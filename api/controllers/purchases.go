package controllers

import (
	"net/http"

	"github.com/agentmart/agentmart-backend/api/responses"
	"github.com/agentmart/agentmart-backend/api/validators"
	"github.com/agentmart/agentmart-backend/internal/purchases"
	"github.com/agentmart/agentmart-backend/pkg/logger"
)

type purchaseRequest struct {
	AgentSlug string `json:"agent_slug" validate:"required"`
}

// PurchaseCreate records the caller's purchase of an agent.
func PurchaseCreate(svc purchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input purchaseRequest
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Purchase(r.Context(), userID, input.AgentSlug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// PurchasesList returns the caller's purchase history.
func PurchasesList(svc purchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dtos, err := svc.ListForUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dtos)
	}
}
