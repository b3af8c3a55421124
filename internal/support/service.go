package support

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/swiftshop/swiftshop-backend/pkg/db/models"
	"github.com/swiftshop/swiftshop-backend/pkg/enums"
	pkgerrors "github.com/swiftshop/swiftshop-backend/pkg/errors"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// ListInput carries the support thread query. Limit defaults to 50 and
// is clamped to [1, 200].
type ListInput struct {
	OrderID  *int64
	UserID   *int64
	AfterID  *int64
	BeforeID *int64
	Limit    int
}

// SendInput carries a new support message. TargetUserID only matters
// for admins; AutoReplyText marks FAQ-card traffic and triggers the
// canned admin reply.
type SendInput struct {
	Text          string
	OrderID       *int64
	TargetUserID  *int64
	AutoReplyText *string
}

// MessageDTO is the serialized support message shape.
type MessageDTO struct {
	ID        int64          `json:"id"`
	UserID    int64          `json:"user_id"`
	OrderID   *int64         `json:"order_id"`
	FromRole  enums.UserRole `json:"from_role"`
	Text      string         `json:"text"`
	FromCard  bool           `json:"from_card"`
	CreatedAt time.Time      `json:"created_at"`
}

// Service exposes the support chat thread.
type Service interface {
	List(ctx context.Context, requesterID int64, requesterRole enums.UserRole, input ListInput) ([]MessageDTO, error)
	Send(ctx context.Context, senderID int64, senderRole enums.UserRole, input SendInput) (*MessageDTO, error)
}

type service struct {
	repo *Repository
}

// NewService constructs a support service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("support repository required")
	}
	return &service{repo: repo}, nil
}

// List returns the requester's visible slice of the thread. Clients
// only ever see their own messages; admins see every user's thread but
// never the automatic card traffic.
func (s *service) List(ctx context.Context, requesterID int64, requesterRole enums.UserRole, input ListInput) ([]MessageDTO, error) {
	filter := messageFilter{
		OrderID:  input.OrderID,
		AfterID:  input.AfterID,
		BeforeID: input.BeforeID,
		Limit:    clampLimit(input.Limit),
	}
	if requesterRole == enums.UserRoleAdmin {
		filter.UserID = input.UserID
		filter.HideCards = true
	} else {
		filter.UserID = &requesterID
	}

	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing messages")
	}
	dtos := make([]MessageDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *toMessageDTO(&rows[i]))
	}
	return dtos, nil
}

// Send appends a message to a thread. An admin with a target user
// writes into that user's thread; everyone else writes into their own.
// A client sending card text also gets the canned reply appended, and
// both rows are flagged so the admin view skips them.
func (s *service) Send(ctx context.Context, senderID int64, senderRole enums.UserRole, input SendInput) (*MessageDTO, error) {
	if strings.TrimSpace(input.Text) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message text is required")
	}

	var row *models.Message
	if senderRole == enums.UserRoleAdmin && input.TargetUserID != nil {
		row = &models.Message{
			UserID:   *input.TargetUserID,
			OrderID:  input.OrderID,
			FromRole: enums.UserRoleAdmin,
			Text:     input.Text,
		}
	} else {
		row = &models.Message{
			UserID:   senderID,
			OrderID:  input.OrderID,
			FromRole: senderRole,
			Text:     input.Text,
			FromCard: input.AutoReplyText != nil,
		}
	}

	created, err := s.repo.Create(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating message")
	}

	if senderRole == enums.UserRoleClient && input.AutoReplyText != nil {
		_, err = s.repo.Create(ctx, &models.Message{
			UserID:   senderID,
			OrderID:  input.OrderID,
			FromRole: enums.UserRoleAdmin,
			Text:     *input.AutoReplyText,
			FromCard: true,
		})
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating auto reply")
		}
	}

	return toMessageDTO(created), nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

func toMessageDTO(m *models.Message) *MessageDTO {
	return &MessageDTO{
		ID:        m.ID,
		UserID:    m.UserID,
		OrderID:   m.OrderID,
		FromRole:  m.FromRole,
		Text:      m.Text,
		FromCard:  m.FromCard,
		CreatedAt: m.CreatedAt,
	}
}
