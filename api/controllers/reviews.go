package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agentmart/agentmart-backend/api/responses"
	"github.com/agentmart/agentmart-backend/api/validators"
	"github.com/agentmart/agentmart-backend/internal/reviews"
	"github.com/agentmart/agentmart-backend/pkg/logger"
)

type reviewRequest struct {
	AgentSlug string  `json:"agent_slug" validate:"required"`
	Rating    int     `json:"rating" validate:"required,min=1,max=5"`
	Comment   *string `json:"comment,omitempty" validate:"omitempty,max=5000"`
}

// ReviewCreate records the caller's review of a purchased agent.
func ReviewCreate(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input reviewRequest
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		comment := input.Comment
		if comment != nil {
			trimmed := validators.SanitizeString(*comment, 5000)
			comment = &trimmed
		}

		dto, err := svc.Create(r.Context(), userID, reviews.CreateReviewInput{
			AgentSlug: input.AgentSlug,
			Rating:    input.Rating,
			Comment:   comment,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// AgentReviews lists a listing's reviews.
func AgentReviews(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dtos, err := svc.ListForAgent(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dtos)
	}
}
