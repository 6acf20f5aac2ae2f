// Package services orchestrates writes that span more than one backend.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"holidays/internal/amqp"
	"holidays/internal/core"
	"holidays/internal/storage"
)

// ExpenseService owns the expense write path: validate, enforce ownership,
// persist to SQLite, then publish a change event. The broker is best-effort;
// a publish failure never fails the request.
type ExpenseService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewExpenseService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *ExpenseService {
	return &ExpenseService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// Create validates the expense and its references, then persists it. A
// missing holiday or category surfaces as a validation error, not a 404:
// the expense itself is the malformed input.
func (s *ExpenseService) Create(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	if _, err := s.storage.GetHoliday(ctx, e.HolidayID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.Expense{}, core.ValidationError{Msg: "validation errors"}
		}
		return core.Expense{}, fmt.Errorf("check holiday: %w", err)
	}
	if _, err := s.storage.GetCategory(ctx, e.CategoryID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.Expense{}, core.ValidationError{Msg: "validation errors"}
		}
		return core.Expense{}, fmt.Errorf("check category: %w", err)
	}

	created, err := s.storage.CreateExpense(ctx, e)
	if err != nil {
		// The insert races the reference checks; an FK failure here still
		// means a bad reference.
		if errors.Is(err, core.ErrNotFound) {
			return core.Expense{}, core.ValidationError{Msg: "validation errors"}
		}
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}

	s.publishEvent(ctx, amqp.EventExpenseCreated, created.ID, created.UserID)
	return created, nil
}

// Update rewrites amount, date and note of an expense the user owns. An
// expense that does not exist and an expense owned by someone else are
// indistinguishable to the caller: both come back core.ErrNotFound.
func (s *ExpenseService) Update(ctx context.Context, userID int64, e core.Expense) (core.Expense, error) {
	existing, err := s.storage.GetExpense(ctx, e.ID)
	if err != nil {
		return core.Expense{}, err
	}
	if existing.UserID != userID {
		return core.Expense{}, fmt.Errorf("expense %d: %w", e.ID, core.ErrNotFound)
	}

	existing.Amount = e.Amount
	existing.Date = e.Date
	existing.Note = e.Note
	if err := existing.Validate(); err != nil {
		return core.Expense{}, err
	}

	if err := s.storage.UpdateExpense(ctx, existing); err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}

	s.publishEvent(ctx, amqp.EventExpenseUpdated, existing.ID, userID)
	return existing, nil
}

// Delete removes an expense the user owns, with the same not-found folding
// as Update.
func (s *ExpenseService) Delete(ctx context.Context, userID, id int64) error {
	existing, err := s.storage.GetExpense(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return fmt.Errorf("expense %d: %w", id, core.ErrNotFound)
	}

	if err := s.storage.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	s.publishEvent(ctx, amqp.EventExpenseDeleted, id, userID)
	return nil
}

func (s *ExpenseService) publishEvent(ctx context.Context, event string, id, userID int64) {
	if s.amqpClient == nil {
		slog.DebugContext(ctx, "AMQP client not available, skipping event", "event", event, "id", id)
		return
	}
	if err := s.amqpClient.PublishExpenseEvent(ctx, event, id, userID); err != nil {
		// The expense is already persisted; the event is advisory.
		slog.ErrorContext(ctx, "Failed to publish expense event",
			"event", event, "id", id, "error", err)
	}
}

// Close closes both storage and AMQP connections.
func (s *ExpenseService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close expense service: %v", errs)
	}

	return nil
}
