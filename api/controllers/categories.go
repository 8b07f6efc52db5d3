package controllers

import (
	"fmt"
	"net/http"

	"github.com/agentmart/agentmart-backend/api/responses"
	"github.com/agentmart/agentmart-backend/internal/categories"
	"github.com/agentmart/agentmart-backend/pkg/config"
	"github.com/agentmart/agentmart-backend/pkg/logger"
)

// Categories serves the public category list. The route keeps its original
// flat success shape and advertises a CDN cache window alongside the
// server-side cache.
func Categories(svc categories.Service, cfg config.CatalogConfig, logg *logger.Logger) http.HandlerFunc {
	cacheControl := fmt.Sprintf(
		"public, s-maxage=%d, stale-while-revalidate=%d",
		int(cfg.CategoriesCacheTTL.Seconds()),
		int(cfg.CategoriesStaleFor.Seconds()),
	)

	return func(w http.ResponseWriter, r *http.Request) {
		dtos, err := svc.List(r.Context())
		if err != nil {
			if logg != nil {
				logg.Error(r.Context(), "categories.list", err)
			}
			responses.WriteJSON(w, http.StatusInternalServerError, map[string]any{
				"success": false,
				"error":   "failed to load categories",
			})
			return
		}

		w.Header().Set("Cache-Control", cacheControl)
		responses.WriteJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    dtos,
		})
	}
}
