package repository

import (
	"context"

	"github.com/doerhub/doerhub-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bankDetailsColumns = `id, user_id, account_holder_name, bank_name, ifsc_code, account_number_sealed,
	account_number_last4, upi_id, created_at, updated_at`

// BankDetailsRepository handles payout account data access.
type BankDetailsRepository struct {
	pool *pgxpool.Pool
}

// NewBankDetailsRepository creates a new BankDetailsRepository.
func NewBankDetailsRepository(pool *pgxpool.Pool) *BankDetailsRepository {
	return &BankDetailsRepository{pool: pool}
}

func scanBankDetails(row pgx.Row) (*model.BankDetails, error) {
	b := &model.BankDetails{}
	err := row.Scan(&b.ID, &b.UserID, &b.AccountHolderName, &b.BankName, &b.IFSCCode, &b.AccountNumberSealed,
		&b.AccountNumberLast4, &b.UPIID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// GetByUserID retrieves the bank details of a user.
func (r *BankDetailsRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.BankDetails, error) {
	return scanBankDetails(r.pool.QueryRow(ctx,
		`SELECT `+bankDetailsColumns+` FROM bank_details WHERE user_id = $1`, userID,
	))
}

// Upsert inserts or replaces the bank details of b.UserID.
func (r *BankDetailsRepository) Upsert(ctx context.Context, b *model.BankDetails) (*model.BankDetails, error) {
	return scanBankDetails(r.pool.QueryRow(ctx,
		`INSERT INTO bank_details
			(user_id, account_holder_name, bank_name, ifsc_code, account_number_sealed, account_number_last4, upi_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (user_id) DO UPDATE SET
			account_holder_name   = EXCLUDED.account_holder_name,
			bank_name             = EXCLUDED.bank_name,
			ifsc_code             = EXCLUDED.ifsc_code,
			account_number_sealed = EXCLUDED.account_number_sealed,
			account_number_last4  = EXCLUDED.account_number_last4,
			upi_id                = EXCLUDED.upi_id,
			updated_at            = NOW()
		 RETURNING `+bankDetailsColumns,
		b.UserID, b.AccountHolderName, b.BankName, b.IFSCCode, b.AccountNumberSealed, b.AccountNumberLast4, b.UPIID,
	))
}

// SealedRow is the minimum needed to re-encrypt one account number.
type SealedRow struct {
	UserID uuid.UUID
	Sealed []byte
}

// ListSealed returns every stored sealed account number.
func (r *BankDetailsRepository) ListSealed(ctx context.Context) ([]SealedRow, error) {
	rows, err := r.pool.Query(ctx, `SELECT user_id, account_number_sealed FROM bank_details ORDER BY user_id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (SealedRow, error) {
		var s SealedRow
		err := row.Scan(&s.UserID, &s.Sealed)
		return s, err
	})
}

// ReplaceSealed swaps the sealed value of one row.
func (r *BankDetailsRepository) ReplaceSealed(ctx context.Context, userID uuid.UUID, sealed []byte) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE bank_details SET account_number_sealed = $1, updated_at = NOW() WHERE user_id = $2`,
		sealed, userID,
	)
	return err
}
