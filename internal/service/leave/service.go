package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/presensia/presensia-backend-go/internal/domain/audit"
	"github.com/presensia/presensia-backend-go/internal/domain/leave"
	"github.com/presensia/presensia-backend-go/internal/pkg/clock"
)

type Service struct {
	leaveRepo leave.Repository
	auditLog  audit.Log
	clock     clock.Clock
}

func NewService(leaveRepo leave.Repository, auditLog audit.Log, clk clock.Clock) *Service {
	return &Service{
		leaveRepo: leaveRepo,
		auditLog:  auditLog,
		clock:     clk,
	}
}

// Submit creates a pending leave request for the caller.
func (s *Service) Submit(ctx context.Context, req leave.CreateRequest) (leave.Response, error) {
	if err := req.Validate(); err != nil {
		return leave.Response{}, err
	}

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return leave.Response{}, err
	}

	overlapping, err := s.leaveRepo.FindApprovedOverlapping(ctx, &userID, req.StartDate, req.EndDate)
	if err != nil {
		return leave.Response{}, fmt.Errorf("failed to check overlapping leaves: %w", err)
	}
	if len(overlapping) > 0 {
		return leave.Response{}, leave.ErrOverlappingRequest
	}

	startDate, _ := time.Parse("2006-01-02", req.StartDate)
	endDate, _ := time.Parse("2006-01-02", req.EndDate)

	created, err := s.leaveRepo.Create(ctx, leave.Request{
		UserID:    userID,
		StartDate: startDate,
		EndDate:   endDate,
		Type:      leave.Type(req.Type),
		Reason:    req.Reason,
		Status:    leave.RequestStatusPending,
	})
	if err != nil {
		return leave.Response{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	s.recordAudit(ctx, userID, audit.ActionLeaveRequest,
		fmt.Sprintf("%s leave requested for %s to %s", req.Type, req.StartDate, req.EndDate))

	return leave.NewResponse(created), nil
}

// ListMine returns the caller's requests, newest first.
func (s *Service) ListMine(ctx context.Context) ([]leave.Response, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	requests, err := s.leaveRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}

	responses := make([]leave.Response, 0, len(requests))
	for _, req := range requests {
		responses = append(responses, leave.NewResponse(req))
	}
	return responses, nil
}

// List returns requests across users; admin surface.
func (s *Service) List(ctx context.Context, status *leave.RequestStatus) ([]leave.Response, error) {
	requests, err := s.leaveRepo.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}

	responses := make([]leave.Response, 0, len(requests))
	for _, req := range requests {
		responses = append(responses, leave.NewResponse(req))
	}
	return responses, nil
}

// Approve marks a pending request approved. Only approved requests reach
// the period reconciler.
func (s *Service) Approve(ctx context.Context, id string) (leave.Response, error) {
	return s.review(ctx, id, leave.RequestStatusApproved, nil)
}

// Reject marks a pending request rejected with a reason.
func (s *Service) Reject(ctx context.Context, id string, req leave.RejectRequest) (leave.Response, error) {
	if err := req.Validate(); err != nil {
		return leave.Response{}, err
	}
	return s.review(ctx, id, leave.RequestStatusRejected, &req.Reason)
}

func (s *Service) review(ctx context.Context, id string, status leave.RequestStatus, reason *string) (leave.Response, error) {
	reviewerID, err := userIDFromContext(ctx)
	if err != nil {
		return leave.Response{}, err
	}

	req, err := s.leaveRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, leave.ErrRequestNotFound) {
			return leave.Response{}, leave.ErrRequestNotFound
		}
		return leave.Response{}, fmt.Errorf("failed to get leave request: %w", err)
	}

	if req.Status != leave.RequestStatusPending {
		return leave.Response{}, leave.ErrRequestAlreadyProcessed
	}

	now := s.clock.Now()
	req.Status = status
	req.ReviewedBy = &reviewerID
	req.ReviewedAt = &now
	req.RejectionReason = reason

	if err := s.leaveRepo.Update(ctx, req); err != nil {
		return leave.Response{}, fmt.Errorf("failed to update leave request: %w", err)
	}

	action := audit.ActionLeaveApproved
	if status == leave.RequestStatusRejected {
		action = audit.ActionLeaveRejected
	}
	s.recordAudit(ctx, req.UserID, action, fmt.Sprintf("leave request %s %s", req.ID, status))

	return leave.NewResponse(req), nil
}

func (s *Service) recordAudit(ctx context.Context, userID, action, detail string) {
	entry := audit.Entry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Action:    action,
		Detail:    detail,
		CreatedAt: s.clock.Now(),
	}
	if err := s.auditLog.Record(ctx, entry); err != nil {
		slog.Error("Failed to record audit entry", "action", action, "user_id", userID, "error", err)
	}
}

func userIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user_id claim is missing or invalid")
	}
	return userID, nil
}
