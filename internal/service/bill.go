package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rryowa/billtracker/internal/models"
	"github.com/rryowa/billtracker/internal/queue"
	"github.com/rryowa/billtracker/internal/storage"
	"github.com/rryowa/billtracker/internal/util"
)

const (
	DefaultBillsPage  = 1
	DefaultBillsLimit = 12
	MaxBillsLimit     = 100

	defaultCurrency      = "USD"
	maxBillNameLength    = 255
	maxCurrencyLength    = 8
	maxDescriptionLength = 1000
	maxBillAmount        = 1e8
)

type BillService struct {
	bills  storage.BillRepository
	events EventPublisher
	log    *zap.SugaredLogger
	now    func() time.Time
}

func NewBillService(bills storage.BillRepository, events EventPublisher, log *zap.SugaredLogger) *BillService {
	return &BillService{
		bills:  bills,
		events: events,
		log:    log,
		now:    time.Now,
	}
}

func (s *BillService) List(ctx context.Context, userID string, q models.ListBillsQuery) (*models.BillPage, error) {
	fields := util.FieldErrors{}
	if q.Page == 0 {
		q.Page = DefaultBillsPage
	} else if q.Page < 0 {
		fields.Add("page", "Page must be a positive integer")
	}
	if q.Limit == 0 {
		q.Limit = DefaultBillsLimit
	} else if q.Limit < 0 || q.Limit > MaxBillsLimit {
		fields.Add("limit", fmt.Sprintf("Limit must be between 1 and %d", MaxBillsLimit))
	}
	if q.Status == "" {
		q.Status = models.BillStatusAll
	} else if !q.Status.Valid() {
		fields.Add("status", "Status must be one of all, upcoming, overdue, paid")
	}
	if !fields.Has("page") && !fields.Has("limit") && q.Page-1 > math.MaxInt/q.Limit {
		fields.Add("page", "Page is too large")
	}
	if len(fields) > 0 {
		return nil, util.NewValidationError(fields)
	}

	filter := models.BillFilter{
		Status: q.Status,
		Limit:  q.Limit,
		Offset: (q.Page - 1) * q.Limit,
		Now:    s.now().UTC(),
	}
	bills, total, err := s.bills.ListBills(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}

	return &models.BillPage{
		Bills: bills,
		Pagination: models.Pagination{
			Page:       q.Page,
			Limit:      q.Limit,
			Total:      total,
			TotalPages: (total + q.Limit - 1) / q.Limit,
		},
	}, nil
}

func (s *BillService) Create(ctx context.Context, userID string, in models.BillInput) (*models.Bill, error) {
	now := s.now().UTC()

	bill := &models.Bill{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := applyBillInput(bill, in, now, true); err != nil {
		return nil, err
	}

	if err := s.bills.CreateBill(ctx, bill); err != nil {
		return nil, fmt.Errorf("create bill: %w", err)
	}

	s.log.Infow("Bill created", "userID", userID, "billID", bill.ID)
	return bill, nil
}

func (s *BillService) Get(ctx context.Context, userID, id string) (*models.Bill, error) {
	bill, err := s.bills.GetBill(ctx, userID, id)
	if err != nil {
		if errors.Is(err, storage.ErrBillNotFound) {
			return nil, ErrBillNotFound
		}
		return nil, fmt.Errorf("get bill: %w", err)
	}
	return bill, nil
}

// Update replaces the editable fields. PaidAt is only touched when the
// request carries it; an explicit null marks the bill unpaid again.
func (s *BillService) Update(ctx context.Context, userID, id string, in models.BillInput) (*models.Bill, error) {
	bill, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if err := applyBillInput(bill, in, now, false); err != nil {
		return nil, err
	}
	bill.UpdatedAt = now

	if err := s.bills.UpdateBill(ctx, bill); err != nil {
		if errors.Is(err, storage.ErrBillNotFound) {
			return nil, ErrBillNotFound
		}
		return nil, fmt.Errorf("update bill: %w", err)
	}
	return bill, nil
}

func (s *BillService) Delete(ctx context.Context, userID, id string) (*models.Bill, error) {
	bill, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := s.bills.DeleteBill(ctx, userID, id); err != nil {
		if errors.Is(err, storage.ErrBillNotFound) {
			return nil, ErrBillNotFound
		}
		return nil, fmt.Errorf("delete bill: %w", err)
	}

	s.log.Infow("Bill deleted", "userID", userID, "billID", id)
	return bill, nil
}

// Pay marks the bill paid and, for a recurring bill, creates the next one.
// The second return value is nil for one-off bills.
func (s *BillService) Pay(ctx context.Context, userID, id string) (*models.Bill, *models.Bill, error) {
	bill, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}
	if bill.PaidAt != nil {
		return nil, nil, ErrBillAlreadyPaid
	}

	now := s.now().UTC()

	var next *models.Bill
	if bill.IsRecurring && bill.Frequency != nil {
		freq := *bill.Frequency
		next = &models.Bill{
			ID:          uuid.NewString(),
			UserID:      bill.UserID,
			Name:        bill.Name,
			Amount:      bill.Amount,
			Currency:    bill.Currency,
			Description: bill.Description,
			IsRecurring: true,
			Frequency:   &freq,
			DueDate:     freq.Next(bill.DueDate),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	}

	if err := s.bills.PayBillTx(ctx, bill, now, next); err != nil {
		switch {
		case errors.Is(err, storage.ErrBillAlreadyPaid):
			return nil, nil, ErrBillAlreadyPaid
		case errors.Is(err, storage.ErrBillNotFound):
			return nil, nil, ErrBillNotFound
		}
		return nil, nil, fmt.Errorf("pay bill: %w", err)
	}
	bill.PaidAt = &now
	bill.UpdatedAt = now

	s.log.Infow("Bill paid", "userID", userID, "billID", bill.ID)
	s.publishPaid(ctx, bill, next)

	return bill, next, nil
}

func (s *BillService) publishPaid(ctx context.Context, bill, next *models.Bill) {
	if s.events == nil {
		return
	}
	event := queue.BillPaidEvent{
		BillID:   bill.ID,
		UserID:   bill.UserID,
		Amount:   bill.Amount,
		Currency: bill.Currency,
		PaidAt:   *bill.PaidAt,
	}
	if next != nil {
		event.NextBillID = next.ID
	}
	if err := s.events.PublishBillPaid(ctx, event); err != nil {
		s.log.Warnw("Failed to publish bill event", "billID", bill.ID, "error", err)
	}
}

func applyBillInput(bill *models.Bill, in models.BillInput, now time.Time, creating bool) error {
	fields := util.FieldErrors{}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		fields.Add("name", "Name is required")
	} else if len(name) > maxBillNameLength {
		fields.Add("name", fmt.Sprintf("Name must not exceed %d characters", maxBillNameLength))
	}

	if math.IsNaN(in.Amount) || math.IsInf(in.Amount, 0) {
		fields.Add("amount", "Amount must be a number")
	} else if in.Amount < 0 {
		fields.Add("amount", "Amount must not be negative")
	} else if in.Amount >= maxBillAmount {
		fields.Add("amount", "Amount is too large")
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = defaultCurrency
	} else if len(currency) > maxCurrencyLength {
		fields.Add("currency", fmt.Sprintf("Currency must not exceed %d characters", maxCurrencyLength))
	}

	var description *string
	if in.Description != nil {
		d := strings.TrimSpace(*in.Description)
		if len(d) > maxDescriptionLength {
			fields.Add("description", fmt.Sprintf("Description must not exceed %d characters", maxDescriptionLength))
		} else if d != "" {
			description = &d
		}
	}

	var frequency *models.Frequency
	if in.Frequency != nil && *in.Frequency != "" {
		f := models.Frequency(strings.ToUpper(string(*in.Frequency)))
		if !f.Valid() {
			fields.Add("frequency", "Frequency must be one of WEEKLY, MONTHLY, YEARLY")
		} else {
			frequency = &f
		}
	}
	if in.IsRecurring && frequency == nil && !fields.Has("frequency") {
		fields.Add("frequency", "Frequency is required for recurring bills")
	}
	if !in.IsRecurring && frequency != nil {
		fields.Add("frequency", "Frequency is only allowed for recurring bills")
	}

	if in.DueDate.IsZero() {
		fields.Add("dueDate", "Due date is required")
	} else if creating {
		startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		if in.DueDate.Before(startOfDay) {
			fields.Add("dueDate", "Due date cannot be in the past")
		}
	}

	if len(fields) > 0 {
		return util.NewValidationError(fields)
	}

	bill.Name = name
	bill.Amount = strconv.FormatFloat(in.Amount, 'f', 2, 64)
	bill.Currency = currency
	bill.Description = description
	bill.IsRecurring = in.IsRecurring
	bill.Frequency = frequency
	bill.DueDate = in.DueDate.UTC()
	if in.PaidAt.Set {
		if in.PaidAt.Value != nil {
			paidAt := in.PaidAt.Value.UTC()
			bill.PaidAt = &paidAt
		} else {
			bill.PaidAt = nil
		}
	}
	return nil
}
