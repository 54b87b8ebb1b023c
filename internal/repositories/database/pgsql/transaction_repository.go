package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gagyebu-app/gagyebu/internal/apperrors"
	"github.com/gagyebu-app/gagyebu/internal/core/domain"
	portsrepo "github.com/gagyebu-app/gagyebu/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for ledger transactions.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

const transactionColumns = `transaction_id, user_id, kind, timestamp, description, memo, category, amount, account_id, to_account_id, card_id, is_paid, original_amount, original_currency, paid_card_transaction_ids, created_at, created_by, last_updated_at, last_updated_by`

const insertTransactionQuery = `
	INSERT INTO transactions (` + transactionColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
`

func transactionInsertArgs(txn domain.Transaction) []any {
	var originalAmount decimal.NullDecimal
	var originalCurrency sql.NullString
	if txn.OriginalAmount != nil {
		originalAmount = decimal.NullDecimal{Decimal: *txn.OriginalAmount, Valid: true}
		originalCurrency = sql.NullString{String: txn.OriginalCurrency, Valid: true}
	}
	return []any{
		txn.TransactionID,
		txn.UserID,
		txn.Kind,
		txn.Timestamp,
		txn.Description,
		txn.Memo,
		txn.Category,
		txn.Amount,
		txn.AccountID,
		txn.ToAccountID,
		txn.CardID,
		txn.IsPaid,
		originalAmount,
		originalCurrency,
		txn.PaidCardTransactionIDs,
		txn.CreatedAt,
		txn.CreatedBy,
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
	}
}

func scanTransaction(row pgx.Row) (domain.Transaction, error) {
	var txn domain.Transaction
	var originalAmount decimal.NullDecimal
	var originalCurrency sql.NullString
	err := row.Scan(
		&txn.TransactionID,
		&txn.UserID,
		&txn.Kind,
		&txn.Timestamp,
		&txn.Description,
		&txn.Memo,
		&txn.Category,
		&txn.Amount,
		&txn.AccountID,
		&txn.ToAccountID,
		&txn.CardID,
		&txn.IsPaid,
		&originalAmount,
		&originalCurrency,
		&txn.PaidCardTransactionIDs,
		&txn.CreatedAt,
		&txn.CreatedBy,
		&txn.LastUpdatedAt,
		&txn.LastUpdatedBy,
	)
	if err != nil {
		return txn, err
	}
	if originalAmount.Valid {
		txn.OriginalAmount = &originalAmount.Decimal
	}
	if originalCurrency.Valid {
		txn.OriginalCurrency = originalCurrency.String
	}
	return txn, nil
}

// SaveTransaction inserts a new ledger transaction.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	_, err := r.Pool.Exec(ctx, insertTransactionQuery, transactionInsertArgs(txn)...)
	if err != nil {
		return fmt.Errorf("failed to save transaction %s: %w", txn.TransactionID, err)
	}
	return nil
}

// FindTransactionByID retrieves a transaction by its ID, scoped to the owning user.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, userID, transactionID string) (*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND transaction_id = $2;
	`
	txn, err := scanTransaction(r.Pool.QueryRow(ctx, query, userID, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}
	return &txn, nil
}

// ListTransactionsByUser retrieves all transactions owned by the user,
// oldest first.
func (r *PgxTransactionRepository) ListTransactionsByUser(ctx context.Context, userID string) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1
		ORDER BY timestamp, transaction_id;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	txns, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Transaction, error) {
		return scanTransaction(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan transactions: %w", err)
	}
	return txns, nil
}

// UpdateTransaction replaces the stored transaction document.
func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction) error {
	var originalAmount decimal.NullDecimal
	var originalCurrency sql.NullString
	if txn.OriginalAmount != nil {
		originalAmount = decimal.NullDecimal{Decimal: *txn.OriginalAmount, Valid: true}
		originalCurrency = sql.NullString{String: txn.OriginalCurrency, Valid: true}
	}
	query := `
		UPDATE transactions
		SET timestamp = $3, description = $4, memo = $5, category = $6, amount = $7,
		    original_amount = $8, original_currency = $9,
		    last_updated_at = $10, last_updated_by = $11
		WHERE user_id = $1 AND transaction_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query,
		txn.UserID,
		txn.TransactionID,
		txn.Timestamp,
		txn.Description,
		txn.Memo,
		txn.Category,
		txn.Amount,
		originalAmount,
		originalCurrency,
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", txn.TransactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteTransaction removes a single transaction row.
func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	query := `DELETE FROM transactions WHERE user_id = $1 AND transaction_id = $2;`
	tag, err := r.Pool.Exec(ctx, query, userID, transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ConfirmCardPayment inserts the payment row and flips is_paid on every
// settled charge within one DB transaction. The referenced charges are
// locked first so a concurrent confirmation of an overlapping charge set
// serializes; the loser then sees is_paid already true and aborts.
func (r *PgxTransactionRepository) ConfirmCardPayment(ctx context.Context, payment domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	lockQuery := `
		SELECT transaction_id, kind, card_id, is_paid
		FROM transactions
		WHERE user_id = $1 AND transaction_id = ANY($2)
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, lockQuery, payment.UserID, payment.PaidCardTransactionIDs)
	if err != nil {
		return fmt.Errorf("failed to lock charges for payment: %w", err)
	}
	locked := make(map[string]struct{}, len(payment.PaidCardTransactionIDs))
	for rows.Next() {
		var id, cardID string
		var kind domain.TransactionKind
		var isPaid bool
		if err := rows.Scan(&id, &kind, &cardID, &isPaid); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan locked charge: %w", err)
		}
		if kind != domain.KindCardExpense || cardID != payment.CardID {
			rows.Close()
			return fmt.Errorf("%w: transaction %s is not a charge on card %s", apperrors.ErrValidation, id, payment.CardID)
		}
		if isPaid {
			rows.Close()
			return fmt.Errorf("%w: charge %s is already paid", apperrors.ErrValidation, id)
		}
		locked[id] = struct{}{}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to lock charges for payment: %w", err)
	}
	for _, id := range payment.PaidCardTransactionIDs {
		if _, ok := locked[id]; !ok {
			return fmt.Errorf("%w: charge %s", apperrors.ErrNotFound, id)
		}
	}

	settleQuery := `
		UPDATE transactions
		SET is_paid = TRUE, last_updated_at = $3, last_updated_by = $4
		WHERE user_id = $1 AND transaction_id = ANY($2);
	`
	if _, err := tx.Exec(ctx, settleQuery, payment.UserID, payment.PaidCardTransactionIDs, payment.LastUpdatedAt, payment.LastUpdatedBy); err != nil {
		return fmt.Errorf("failed to settle charges: %w", err)
	}

	if _, err := tx.Exec(ctx, insertTransactionQuery, transactionInsertArgs(payment)...); err != nil {
		return fmt.Errorf("failed to insert payment %s: %w", payment.TransactionID, err)
	}

	return r.Commit(ctx, tx)
}

// DeletePayment removes a payment row and resets is_paid on every charge it
// settled, within one DB transaction.
func (r *PgxTransactionRepository) DeletePayment(ctx context.Context, userID, paymentID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	lockQuery := `
		SELECT kind, paid_card_transaction_ids, last_updated_by
		FROM transactions
		WHERE user_id = $1 AND transaction_id = $2
		FOR UPDATE;
	`
	var kind domain.TransactionKind
	var settledIDs []string
	var updatedBy string
	err = tx.QueryRow(ctx, lockQuery, userID, paymentID).Scan(&kind, &settledIDs, &updatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to lock payment %s: %w", paymentID, err)
	}
	if kind != domain.KindPayment {
		return fmt.Errorf("%w: transaction %s is not a payment", apperrors.ErrValidation, paymentID)
	}

	unsettleQuery := `
		UPDATE transactions
		SET is_paid = FALSE, last_updated_at = NOW(), last_updated_by = $3
		WHERE user_id = $1 AND transaction_id = ANY($2);
	`
	if _, err := tx.Exec(ctx, unsettleQuery, userID, settledIDs, updatedBy); err != nil {
		return fmt.Errorf("failed to unsettle charges for payment %s: %w", paymentID, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM transactions WHERE user_id = $1 AND transaction_id = $2;`, userID, paymentID); err != nil {
		return fmt.Errorf("failed to delete payment %s: %w", paymentID, err)
	}

	return r.Commit(ctx, tx)
}

// AppendTransactions bulk-inserts transactions without touching existing rows.
func (r *PgxTransactionRepository) AppendTransactions(ctx context.Context, userID string, txns []domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	batch := &pgx.Batch{}
	for _, txn := range txns {
		batch.Queue(insertTransactionQuery, transactionInsertArgs(txn)...)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to append transactions for user %s: %w", userID, err)
	}

	return r.Commit(ctx, tx)
}

// ReplaceAllForUser swaps the user's full transaction set in one transaction.
func (r *PgxTransactionRepository) ReplaceAllForUser(ctx context.Context, userID string, txns []domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM transactions WHERE user_id = $1;`, userID); err != nil {
		return fmt.Errorf("failed to clear transactions for user %s: %w", userID, err)
	}

	batch := &pgx.Batch{}
	for _, txn := range txns {
		batch.Queue(insertTransactionQuery, transactionInsertArgs(txn)...)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert transactions for user %s: %w", userID, err)
	}

	return r.Commit(ctx, tx)
}
