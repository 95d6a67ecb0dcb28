package memory

import (
	"context"
	"sort"
	"time"

	"github.com/rryowa/billtracker/internal/models"
	"github.com/rryowa/billtracker/internal/storage"
)

func (s *Storage) CreateBill(_ context.Context, bill *models.Bill) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bills[bill.ID] = *bill
	return nil
}

func (s *Storage) GetBill(_ context.Context, userID, id string) (*models.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bill, ok := s.bills[id]
	if !ok || bill.UserID != userID {
		return nil, storage.ErrBillNotFound
	}
	return &bill, nil
}

func (s *Storage) ListBills(_ context.Context, userID string, filter models.BillFilter) ([]models.Bill, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]models.Bill, 0)
	for _, bill := range s.bills {
		if bill.UserID == userID && filter.Matches(&bill) {
			matched = append(matched, bill)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].DueDate.Equal(matched[j].DueDate) {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].DueDate.Before(matched[j].DueDate)
	})

	total := len(matched)
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.Offset >= total {
		return []models.Bill{}, total, nil
	}
	end := filter.Offset + filter.Limit
	if end > total {
		end = total
	}
	return matched[filter.Offset:end], total, nil
}

func (s *Storage) UpdateBill(_ context.Context, bill *models.Bill) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.bills[bill.ID]
	if !ok || existing.UserID != bill.UserID {
		return storage.ErrBillNotFound
	}
	s.bills[bill.ID] = *bill
	return nil
}

func (s *Storage) DeleteBill(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bill, ok := s.bills[id]
	if !ok || bill.UserID != userID {
		return storage.ErrBillNotFound
	}
	delete(s.bills, id)
	return nil
}

func (s *Storage) PayBillTx(_ context.Context, bill *models.Bill, paidAt time.Time, next *models.Bill) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.bills[bill.ID]
	if !ok || existing.UserID != bill.UserID {
		return storage.ErrBillNotFound
	}
	if existing.PaidAt != nil {
		return storage.ErrBillAlreadyPaid
	}
	existing.PaidAt = &paidAt
	existing.UpdatedAt = paidAt
	s.bills[bill.ID] = existing

	if next != nil {
		s.bills[next.ID] = *next
	}
	return nil
}
