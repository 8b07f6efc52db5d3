package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agentmart/agentmart-backend/api/responses"
	"github.com/agentmart/agentmart-backend/api/validators"
	"github.com/agentmart/agentmart-backend/internal/agents"
	"github.com/agentmart/agentmart-backend/pkg/logger"
)

type decisionRequest struct {
	Action string  `json:"action" validate:"required,oneof=approve reject"`
	Note   *string `json:"note,omitempty" validate:"omitempty,max=2000"`
}

// AdminAgentDecision applies a moderation decision to a listing under review.
func AdminAgentDecision(svc agents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input decisionRequest
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Decide(r.Context(), adminID, chi.URLParam(r, "slug"), input.Action, input.Note)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}
