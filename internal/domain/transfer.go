package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/payflux/payflux/pkg/moneypkg"
)

var (
	// ErrTransferNotFound indicates that no transfer matches the query.
	ErrTransferNotFound = errors.New("transfer not found")
	// ErrInvalidAmount indicates a non-positive or unparsable amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrSameWalletTransfer indicates that sender and receiver are the same wallet.
	ErrSameWalletTransfer = errors.New("sender and receiver wallets are the same")
	// ErrInsufficientBalance indicates that the wallet does not have sufficient balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrTransferConflict indicates that a concurrent mutation won the version
	// check on one of the wallets. The transfer can be safely retried.
	ErrTransferConflict = errors.New("transfer conflicts with a concurrent operation")
)

// Transfer is an immutable record of a completed movement of funds
// between two wallets.
type Transfer struct {
	ID         uuid.UUID      `json:"id"`
	SenderID   int64          `json:"sender_id"`
	ReceiverID int64          `json:"receiver_id"`
	Amount     moneypkg.Money `json:"amount"` // always positive
	CreatedAt  time.Time      `json:"created_at"`
}

// CreateTransferParams is the input data for the transfer operation.
type CreateTransferParams struct {
	SenderID   int64          `json:"sender_id"`
	ReceiverID int64          `json:"receiver_id"`
	Amount     moneypkg.Money `json:"amount"`
}

// ListTransfersParams is the input data to page through transfers.
type ListTransfersParams struct {
	Limit  int32 `json:"limit"`
	Offset int32 `json:"offset"`
}
