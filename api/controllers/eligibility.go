package controllers

import (
	"context"
	"net/http"

	"github.com/celebrelabs/celebre-backend/api/responses"
	"github.com/celebrelabs/celebre-backend/api/validators"
	"github.com/celebrelabs/celebre-backend/internal/suppliers"
	pkgerrors "github.com/celebrelabs/celebre-backend/pkg/errors"
	"github.com/celebrelabs/celebre-backend/pkg/logger"
)

// EligibilityService is the booking gate consumed by the public surface.
type EligibilityService interface {
	IsSupplierBookable(ctx context.Context, supplierID, eventDate string) (*suppliers.EligibilityResult, error)
}

type eligibilityRequest struct {
	SupplierID string `json:"supplier_id" validate:"required"`
	EventDate  string `json:"event_date" validate:"required,datetime=2006-01-02"`
}

// BookingEligibility evaluates whether a supplier can take a booking on a
// date. An unknown supplier is a negative verdict, not a 404.
func BookingEligibility(svc EligibilityService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "eligibility service unavailable"))
			return
		}

		var req eligibilityRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithSupplierID(ctx, req.SupplierID)
		}

		result, err := svc.IsSupplierBookable(ctx, req.SupplierID, req.EventDate)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
