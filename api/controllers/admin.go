package controllers

import (
	"context"
	"net/http"

	"github.com/celebrelabs/celebre-backend/api/middleware"
	"github.com/celebrelabs/celebre-backend/api/responses"
	"github.com/celebrelabs/celebre-backend/api/validators"
	"github.com/celebrelabs/celebre-backend/internal/admin"
	"github.com/celebrelabs/celebre-backend/internal/ratelimit"
	pkgerrors "github.com/celebrelabs/celebre-backend/pkg/errors"
	"github.com/celebrelabs/celebre-backend/pkg/identity"
	"github.com/celebrelabs/celebre-backend/pkg/logger"
)

// InspectService runs the diagnostic view of the booking gate.
type InspectService interface {
	Inspect(ctx context.Context, caller *identity.Token, supplierID, eventDate string) (*admin.InspectResult, error)
}

// MetricsService exports the rate-limit report.
type MetricsService interface {
	Export(ctx context.Context, caller *identity.Token, hoursBack int) (*ratelimit.Report, error)
}

type inspectRequest struct {
	SupplierID string `json:"supplier_id" validate:"required"`
	EventDate  string `json:"event_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// AdminInspectSupplier runs the gate for one supplier and returns the full
// resolution trace. Unknown suppliers are a 404 here.
func AdminInspectSupplier(svc InspectService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inspector unavailable"))
			return
		}

		var req inspectRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithSupplierID(ctx, req.SupplierID)
		}

		result, err := svc.Inspect(ctx, middleware.TokenFromContext(ctx), req.SupplierID, req.EventDate)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// AdminRateLimitMetrics exports the time-windowed rate-limit report.
func AdminRateLimitMetrics(svc MetricsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "metrics service unavailable"))
			return
		}

		hoursBack, err := validators.ParseQueryInt(r, "hours_back", 0, 0, 8760)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		report, err := svc.Export(r.Context(), middleware.TokenFromContext(r.Context()), hoursBack)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}
