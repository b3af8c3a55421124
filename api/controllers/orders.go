package controllers

import (
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/swiftshop/swiftshop-backend/api/middleware"
	"github.com/swiftshop/swiftshop-backend/api/responses"
	"github.com/swiftshop/swiftshop-backend/api/validators"
	"github.com/swiftshop/swiftshop-backend/internal/orders"
	"github.com/swiftshop/swiftshop-backend/internal/receipts"
	"github.com/swiftshop/swiftshop-backend/pkg/enums"
	pkgerrors "github.com/swiftshop/swiftshop-backend/pkg/errors"
	"github.com/swiftshop/swiftshop-backend/pkg/logger"
)

type placeOrderRequest struct {
	Items []orders.CartLine `json:"items" validate:"required,min=1,dive"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// PlaceOrder converts the client's cart into a pending order.
func PlaceOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload placeOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Place(r.Context(),
			middleware.UserIDFromContext(r.Context()),
			middleware.RoleFromContext(r.Context()),
			orders.PlaceOrderInput{Items: payload.Items})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// ListOrders returns the caller's orders, or every order for admins.
func ListOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context(),
			middleware.UserIDFromContext(r.Context()),
			middleware.RoleFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// UpdateOrderStatus moves an order through its lifecycle. Admin only.
func UpdateOrderStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParseURLInt64(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseOrderStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "unknown order status").
					WithDetails(map[string]any{"status": payload.Status}))
			return
		}

		dto, err := svc.UpdateStatus(r.Context(), orderID, status, middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// DeleteOrder removes an order and its items. Admin only. Stock is not
// restored.
func DeleteOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParseURLInt64(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), orderID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// DownloadReceipt streams the order receipt as a PDF attachment.
// Clients can only fetch their own orders; admins can fetch any.
func DownloadReceipt(svc orders.Service, renderer *receipts.Renderer, shippingCost decimal.Decimal, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParseURLInt64(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetDetail(r.Context(), orderID,
			middleware.UserIDFromContext(r.Context()),
			middleware.RoleFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pdf, err := renderer.Render(receipts.BuildData(order, shippingCost))
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render receipt"))
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", receipts.Filename(order.ID)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(pdf)
	}
}
