// Package transferrepo manages repository layer of transfers.
package transferrepo

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/payflux/payflux/internal/domain"
	"github.com/payflux/payflux/pkg/dbpkg"
	"github.com/payflux/payflux/pkg/errorspkg"
)

// RepoPGS facilitates transfer repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns transfer RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const createQuery = `
INSERT INTO
    transfers (id, sender_id, receiver_id, amount)
VALUES
    ($1, $2, $3, $4)
RETURNING id, sender_id, receiver_id, amount, created_at
`

// Create appends the transfer record and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateTransferParams) (domain.Transfer, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		uuid.New(), arg.SenderID, arg.ReceiverID, arg.Amount)

	t, err := scanTransfer(row)
	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx, %+v)", arg)

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "transfers_sender_id_fkey", "transfers_receiver_id_fkey":
				return t, domain.ErrWalletNotFound
			case "transfers_amount_check":
				return t, domain.ErrInvalidAmount
			}
		}

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const getQuery = `
SELECT
	id, sender_id, receiver_id, amount, created_at
FROM transfers
WHERE id = $1
`

// Get returns the transfer with the given id.
func (r *RepoPGS) Get(ctx context.Context, id uuid.UUID) (domain.Transfer, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	t, err := scanTransfer(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return t, domain.ErrTransferNotFound
		}

		l.Error().Err(err).Send()

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const listQuery = `
SELECT
	id, sender_id, receiver_id, amount, created_at
FROM transfers
ORDER BY created_at, id
LIMIT $1 OFFSET $2
`

// List returns one page of transfers ordered by creation time.
func (r *RepoPGS) List(ctx context.Context, arg domain.ListTransfersParams) ([]domain.Transfer, error) {
	return r.queryTransfers(ctx, listQuery, arg.Limit, arg.Offset)
}

const listBySenderQuery = `
SELECT
	id, sender_id, receiver_id, amount, created_at
FROM transfers
WHERE sender_id = $1
ORDER BY created_at, id
`

// ListBySender returns all transfers sent by the given wallet.
func (r *RepoPGS) ListBySender(ctx context.Context, senderID int64) ([]domain.Transfer, error) {
	return r.queryTransfers(ctx, listBySenderQuery, senderID)
}

const listByReceiverQuery = `
SELECT
	id, sender_id, receiver_id, amount, created_at
FROM transfers
WHERE receiver_id = $1
ORDER BY created_at, id
`

// ListByReceiver returns all transfers received by the given wallet.
func (r *RepoPGS) ListByReceiver(ctx context.Context, receiverID int64) ([]domain.Transfer, error) {
	return r.queryTransfers(ctx, listByReceiverQuery, receiverID)
}

func (r *RepoPGS) queryTransfers(ctx context.Context, query string, args ...interface{}) ([]domain.Transfer, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Transfer{}

	for rows.Next() {
		var t domain.Transfer
		if err := rows.Scan(
			&t.ID,
			&t.SenderID,
			&t.ReceiverID,
			&t.Amount,
			&t.CreatedAt,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, t)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

func scanTransfer(row *sql.Row) (domain.Transfer, error) {
	var t domain.Transfer

	err := row.Scan(
		&t.ID,
		&t.SenderID,
		&t.ReceiverID,
		&t.Amount,
		&t.CreatedAt,
	)

	return t, err
}
