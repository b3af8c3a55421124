package controllers

import (
	"net/http"

	"github.com/swiftshop/swiftshop-backend/api/middleware"
	"github.com/swiftshop/swiftshop-backend/api/responses"
	"github.com/swiftshop/swiftshop-backend/api/validators"
	"github.com/swiftshop/swiftshop-backend/internal/support"
	"github.com/swiftshop/swiftshop-backend/pkg/logger"
)

type sendMessageRequest struct {
	Text          string  `json:"text" validate:"required"`
	OrderID       *int64  `json:"order_id"`
	TargetUserID  *int64  `json:"target_user_id"`
	AutoReplyText *string `json:"auto_reply_text"`
}

// ListMessages returns the support thread visible to the caller.
// Clients see their own messages; admins see non-card messages and can
// filter by user_id.
func ListMessages(svc support.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input support.ListInput
		var err error
		if input.OrderID, err = validators.ParseQueryInt64Ptr(r, "order_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if input.UserID, err = validators.ParseQueryInt64Ptr(r, "user_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if input.AfterID, err = validators.ParseQueryInt64Ptr(r, "after_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if input.BeforeID, err = validators.ParseQueryInt64Ptr(r, "before_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if input.Limit, err = validators.ParseQueryInt(r, "limit", 0, 0, 1000); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(),
			middleware.UserIDFromContext(r.Context()),
			middleware.RoleFromContext(r.Context()),
			input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// SendMessage posts a support message as the caller.
func SendMessage(svc support.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload sendMessageRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Send(r.Context(),
			middleware.UserIDFromContext(r.Context()),
			middleware.RoleFromContext(r.Context()),
			support.SendInput{
				Text:          validators.SanitizeString(payload.Text, 2000),
				OrderID:       payload.OrderID,
				TargetUserID:  payload.TargetUserID,
				AutoReplyText: payload.AutoReplyText,
			})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}
