package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/rryowa/billtracker/internal/models"
	"github.com/rryowa/billtracker/internal/storage"
)

const uniqueViolationCode = "23505"

type Storage struct {
	db *sql.DB
	*UserRepository
	*RefreshTokenRepository
	*BillRepository
}

func NewStorage(db *sql.DB) *Storage {
	return &Storage{
		db:                     db,
		UserRepository:         NewUserRepository(db),
		RefreshTokenRepository: NewRefreshTokenRepository(db),
		BillRepository:         NewBillRepository(db),
	}
}

// PayBillTx помечает счёт оплаченным и, для регулярных счетов, создаёт
// следующий в той же транзакции.
func (s *Storage) PayBillTx(ctx context.Context, bill *models.Bill, paidAt time.Time, next *models.Bill) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	billRepoTx := NewBillRepository(tx)

	if err := billRepoTx.MarkBillPaid(ctx, bill.UserID, bill.ID, paidAt); err != nil {
		if errors.Is(err, storage.ErrBillAlreadyPaid) || errors.Is(err, storage.ErrBillNotFound) {
			return err
		}
		return fmt.Errorf("failed to mark bill as paid in tx: %w", err)
	}

	if next != nil {
		if err := billRepoTx.CreateBill(ctx, next); err != nil {
			return fmt.Errorf("failed to create next bill in tx: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode
}
