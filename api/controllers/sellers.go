package controllers

import (
	"net/http"

	"github.com/agentmart/agentmart-backend/api/responses"
	"github.com/agentmart/agentmart-backend/api/validators"
	"github.com/agentmart/agentmart-backend/internal/sellers"
	"github.com/agentmart/agentmart-backend/pkg/logger"
)

type becomeSellerRequest struct {
	PortfolioSlug string  `json:"portfolio_slug" validate:"required,min=3,max=64"`
	Bio           *string `json:"bio,omitempty" validate:"omitempty,max=2000"`
}

// SellerCreate opens a seller profile for the caller and promotes their role.
func SellerCreate(svc sellers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input becomeSellerRequest
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.BecomeSeller(r.Context(), userID, sellers.BecomeSellerInput{
			PortfolioSlug: input.PortfolioSlug,
			Bio:           input.Bio,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// SellerMe returns the caller's seller profile.
func SellerMe(svc sellers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.GetByUserID(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}
