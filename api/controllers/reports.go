package controllers

import (
	"net/http"

	"github.com/swiftshop/swiftshop-backend/api/responses"
	"github.com/swiftshop/swiftshop-backend/api/validators"
	"github.com/swiftshop/swiftshop-backend/internal/reports"
	"github.com/swiftshop/swiftshop-backend/pkg/logger"
)

// AdminReports returns the storefront dashboard aggregates. Admin only.
func AdminReports(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days, err := validators.ParseQueryInt(r, "days", 30, 1, 365)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Summarize(r.Context(), days)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
