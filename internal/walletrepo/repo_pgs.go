// Package walletrepo manages repository layer of wallets.
package walletrepo

import (
	"context"
	"database/sql"

	"github.com/payflux/payflux/internal/domain"
	"github.com/payflux/payflux/pkg/dbpkg"
	"github.com/payflux/payflux/pkg/errorspkg"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates wallet repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns wallet RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const createQuery = `
INSERT INTO
    wallets (full_name, document, email, hashed_password, balance, version)
VALUES
    ($1, $2, $3, $4, 0, 0)
RETURNING id, full_name, document, email, hashed_password, balance, version, created_at
`

// Create creates a wallet with zero balance and version and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateWalletParams) (domain.Wallet, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.FullName, arg.Document, arg.Email, arg.HashedPassword)

	w, err := scanWallet(row)
	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "wallets_document_key":
				return w, domain.ErrDocumentAlreadyExists
			case "wallets_email_key":
				return w, domain.ErrEmailAlreadyExists
			}
		}

		return w, errorspkg.ErrInternal
	}

	return w, nil
}

const getQuery = `
SELECT
	id, full_name, document, email, hashed_password, balance, version, created_at
FROM wallets
WHERE id = $1
`

// Get returns the wallet with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.Wallet, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	w, err := scanWallet(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return w, domain.ErrWalletNotFound
		}

		l.Error().Err(err).Send()

		return w, errorspkg.ErrInternal
	}

	return w, nil
}

const conditionalSaveQuery = `
UPDATE wallets
SET full_name = $1, email = $2, balance = $3, version = version + 1
WHERE id = $4 AND version = $5
RETURNING id, full_name, document, email, hashed_password, balance, version, created_at
`

// ConditionalSave persists the wallet only if the stored version still equals
// the version the caller read. On success the stored version is incremented
// by one and the saved wallet is returned.
func (r *RepoPGS) ConditionalSave(ctx context.Context, wallet domain.Wallet) (domain.Wallet, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, conditionalSaveQuery,
		wallet.FullName, wallet.Email, wallet.Balance, wallet.ID, wallet.Version)

	w, err := scanWallet(row)
	if err != nil {
		if err == sql.ErrNoRows {
			// Either the row is gone or another operation bumped the version.
			if _, getErr := r.Get(ctx, wallet.ID); getErr == domain.ErrWalletNotFound {
				return w, domain.ErrWalletNotFound
			}

			return w, domain.ErrVersionConflict
		}

		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "wallets_balance_check" {
				return w, domain.ErrInsufficientBalance
			}
		}

		return w, errorspkg.ErrInternal
	}

	return w, nil
}

const deleteQuery = `
DELETE FROM wallets
WHERE id = $1
`

// Delete removes the wallet with the given id.
func (r *RepoPGS) Delete(ctx context.Context, id int64) error {
	l := zerolog.Ctx(ctx)

	res, err := r.db.ExecContext(ctx, deleteQuery, id)
	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "transfers_sender_id_fkey", "transfers_receiver_id_fkey":
				return domain.ErrWalletReferenced
			}
		}

		return errorspkg.ErrInternal
	}

	n, err := res.RowsAffected()
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	if n == 0 {
		return domain.ErrWalletNotFound
	}

	return nil
}

func scanWallet(row *sql.Row) (domain.Wallet, error) {
	var w domain.Wallet

	err := row.Scan(
		&w.ID,
		&w.FullName,
		&w.Document,
		&w.Email,
		&w.HashedPassword,
		&w.Balance,
		&w.Version,
		&w.CreatedAt,
	)

	return w, err
}
