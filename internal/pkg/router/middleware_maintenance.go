package router

import (
	"net/http"

	"github.com/samber/lo"

	"github.com/shandysiswandi/gootp/internal/pkg/config"
)

// middlewareMaintenance answers 503 for the route patterns listed in
// app.maintenance.endpoints, or for every route when app.maintenance.enabled
// is set. /health always passes.
func middlewareMaintenance(cfg config.Config) Middleware {
	var all bool
	blocked := map[string]struct{}{}
	if cfg != nil {
		all = cfg.GetBool("app.maintenance.enabled")
		blocked = lo.SliceToMap(cfg.GetArray("app.maintenance.endpoints"), func(e string) (string, struct{}) {
			return e, struct{}{}
		})
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := matchedRoutePath(r)
			_, hit := blocked[route]
			if (all || hit) && route != "/health" {
				writeJSON(w, errorResponse{Message: "Service is under maintenance"}, http.StatusServiceUnavailable)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
