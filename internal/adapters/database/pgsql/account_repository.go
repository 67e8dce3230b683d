package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/SscSPs/ledger_assistant/internal/apperrors"
	"github.com/SscSPs/ledger_assistant/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_assistant/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxAccountRepository struct {
	BaseRepository
}

func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepository = (*PgxAccountRepository)(nil)

const ensureAccountQuery = `
	INSERT INTO accounts (code, name, account_type, balance, currency, is_active)
	VALUES ($1, $2, $3, 0, $4, TRUE)
	ON CONFLICT (code) DO NOTHING;
`

const accountColumns = `id, code, name, account_type, balance, currency, is_active`

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var acc domain.Account
	var accountType string
	if err := row.Scan(&acc.ID, &acc.Code, &acc.Name, &accountType, &acc.Balance, &acc.Currency, &acc.IsActive); err != nil {
		return nil, err
	}
	acc.AccountType = domain.AccountType(accountType)
	return &acc, nil
}

// EnsureAccount inserts the account if its code is free. Concurrent callers are
// safe because code is the conflict target.
func (r *PgxAccountRepository) EnsureAccount(ctx context.Context, account domain.Account) (bool, error) {
	tag, err := r.Pool.Exec(ctx, ensureAccountQuery, account.Code, account.Name, string(account.AccountType), account.Currency)
	if err != nil {
		return false, mapPgError(err, "failed to ensure account "+account.Code)
	}
	return tag.RowsAffected() == 1, nil
}

// EnsureAccountsInTx inserts any missing accounts inside the caller's transaction.
func (r *PgxAccountRepository) EnsureAccountsInTx(ctx context.Context, tx pgx.Tx, accounts []domain.Account) error {
	if len(accounts) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, acc := range accounts {
		batch.Queue(ensureAccountQuery, acc.Code, acc.Name, string(acc.AccountType), acc.Currency)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return mapPgError(err, "failed to ensure accounts")
	}
	return nil
}

// UpdateAccountBalancesInTx applies signed balance deltas. Every account must exist.
func (r *PgxAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, changes map[string]decimal.Decimal) error {
	if len(changes) == 0 {
		return nil
	}
	// Deterministic order keeps row locks acquired in the same sequence.
	codes := make([]string, 0, len(changes))
	for code := range changes {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	batch := &pgx.Batch{}
	for _, code := range codes {
		batch.Queue(`UPDATE accounts SET balance = balance + $2 WHERE code = $1;`, code, changes[code])
	}
	br := tx.SendBatch(ctx, batch)
	for _, code := range codes {
		tag, err := br.Exec()
		if err != nil {
			_ = br.Close()
			return mapPgError(err, "failed to update balance of account "+code)
		}
		if tag.RowsAffected() == 0 {
			_ = br.Close()
			return fmt.Errorf("update balance: %w", apperrors.NewNotFoundError("account", code))
		}
	}
	if err := br.Close(); err != nil {
		return mapPgError(err, "failed to update account balances")
	}
	return nil
}

// FindAccountByCode retrieves an account by its chart-of-accounts code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE code = $1;`
	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("account", code)
		}
		return nil, mapPgError(err, "failed to find account")
	}
	return acc, nil
}

// ListAccounts returns every account ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY code;`)
	if err != nil {
		return nil, mapPgError(err, "failed to list accounts")
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, mapPgError(err, "failed to scan account")
		}
		accounts = append(accounts, *acc)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "failed to iterate accounts")
	}
	return accounts, nil
}
