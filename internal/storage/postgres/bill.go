package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rryowa/billtracker/internal/models"
	"github.com/rryowa/billtracker/internal/storage"
)

const billColumns = `id, user_id, name, amount, currency, description, is_recurring, frequency, due_date, paid_at, created_at, updated_at`

type BillRepository struct {
	db storage.DBTX
}

func NewBillRepository(db storage.DBTX) *BillRepository {
	return &BillRepository{db: db}
}

func (r *BillRepository) CreateBill(ctx context.Context, bill *models.Bill) error {
	query := `INSERT INTO bills (` + billColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.db.ExecContext(
		ctx,
		query,
		bill.ID,
		bill.UserID,
		bill.Name,
		bill.Amount,
		bill.Currency,
		nullString(bill.Description),
		bill.IsRecurring,
		nullFrequency(bill.Frequency),
		bill.DueDate,
		nullTime(bill.PaidAt),
		bill.CreatedAt,
		bill.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}
	return nil
}

func (r *BillRepository) GetBill(ctx context.Context, userID, id string) (*models.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE id = $1 AND user_id = $2`
	bill, err := scanBill(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrBillNotFound
		}
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	return bill, nil
}

func (r *BillRepository) ListBills(ctx context.Context, userID string, filter models.BillFilter) ([]models.Bill, int, error) {
	where := `user_id = $1`
	args := []any{userID}
	switch filter.Status {
	case models.BillStatusPaid:
		where += ` AND paid_at IS NOT NULL`
	case models.BillStatusUpcoming:
		where += ` AND paid_at IS NULL AND due_date >= $2`
		args = append(args, filter.Now)
	case models.BillStatusOverdue:
		where += ` AND paid_at IS NULL AND due_date < $2`
		args = append(args, filter.Now)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM bills WHERE ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count bills: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT %s FROM bills WHERE %s ORDER BY due_date ASC, created_at ASC LIMIT $%d OFFSET $%d`,
		billColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bills: %w", err)
	}
	defer rows.Close()

	bills := make([]models.Bill, 0, filter.Limit)
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan bill: %w", err)
		}
		bills = append(bills, *bill)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate bills: %w", err)
	}

	return bills, total, nil
}

func (r *BillRepository) UpdateBill(ctx context.Context, bill *models.Bill) error {
	query := `UPDATE bills SET name = $1, amount = $2, currency = $3, description = $4, is_recurring = $5, frequency = $6, due_date = $7, paid_at = $8, updated_at = $9 WHERE id = $10 AND user_id = $11`
	res, err := r.db.ExecContext(
		ctx,
		query,
		bill.Name,
		bill.Amount,
		bill.Currency,
		nullString(bill.Description),
		bill.IsRecurring,
		nullFrequency(bill.Frequency),
		bill.DueDate,
		nullTime(bill.PaidAt),
		bill.UpdatedAt,
		bill.ID,
		bill.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update bill: %w", err)
	}
	return expectOneRow(res, storage.ErrBillNotFound)
}

func (r *BillRepository) DeleteBill(ctx context.Context, userID, id string) error {
	query := `DELETE FROM bills WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	return expectOneRow(res, storage.ErrBillNotFound)
}

// MarkBillPaid sets paid_at only on an unpaid bill. When nothing was updated
// it tells a missing bill apart from one that is already paid.
func (r *BillRepository) MarkBillPaid(ctx context.Context, userID, id string, paidAt time.Time) error {
	query := `UPDATE bills SET paid_at = $1, updated_at = $1 WHERE id = $2 AND user_id = $3 AND paid_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, paidAt, id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark bill as paid: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}

	var exists bool
	query = `SELECT EXISTS(SELECT 1 FROM bills WHERE id = $1 AND user_id = $2)`
	if err := r.db.QueryRowContext(ctx, query, id, userID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check bill: %w", err)
	}
	if !exists {
		return storage.ErrBillNotFound
	}
	return storage.ErrBillAlreadyPaid
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBill(row rowScanner) (*models.Bill, error) {
	var (
		bill        models.Bill
		description sql.NullString
		frequency   sql.NullString
		paidAt      sql.NullTime
	)
	err := row.Scan(
		&bill.ID,
		&bill.UserID,
		&bill.Name,
		&bill.Amount,
		&bill.Currency,
		&description,
		&bill.IsRecurring,
		&frequency,
		&bill.DueDate,
		&paidAt,
		&bill.CreatedAt,
		&bill.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if description.Valid {
		bill.Description = &description.String
	}
	if frequency.Valid {
		f := models.Frequency(frequency.String)
		bill.Frequency = &f
	}
	if paidAt.Valid {
		bill.PaidAt = &paidAt.Time
	}
	return &bill, nil
}

func expectOneRow(res sql.Result, notAffected error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notAffected
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullFrequency(f *models.Frequency) sql.NullString {
	if f == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*f), Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
