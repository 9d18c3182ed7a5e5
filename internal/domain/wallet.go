// Package domain provides definitions of all entities.
package domain

import (
	"errors"
	"time"

	"github.com/payflux/payflux/pkg/moneypkg"
)

var (
	// ErrWalletNotFound indicates that the wallet is not found.
	ErrWalletNotFound = errors.New("wallet not found")
	// ErrDocumentAlreadyExists indicates that a wallet with the given document already exists.
	ErrDocumentAlreadyExists = errors.New("wallet document already exists")
	// ErrEmailAlreadyExists indicates that a wallet with the given email already exists.
	ErrEmailAlreadyExists = errors.New("wallet email already exists")
	// ErrVersionConflict indicates that the wallet was changed by a concurrent
	// operation between the read and the conditional save.
	ErrVersionConflict = errors.New("wallet version conflict")
	// ErrWalletReferenced indicates that the wallet cannot be deleted because
	// transfers reference it.
	ErrWalletReferenced = errors.New("wallet is referenced by transfers")
)

// Wallet holds an owner identity and its non-negative balance.
//
// Version counts committed mutations and backs the optimistic locking of the
// stores: a conditional save succeeds only when the stored version still
// equals the version the caller read.
type Wallet struct {
	ID             int64          `json:"id"`
	FullName       string         `json:"full_name"`
	Document       string         `json:"document"`
	Email          string         `json:"email"`
	HashedPassword string         `json:"-"`
	Balance        moneypkg.Money `json:"balance"`
	Version        int64          `json:"version"`
	CreatedAt      time.Time      `json:"created_at"`
}

// CreateWalletParams is the input data to create a wallet.
type CreateWalletParams struct {
	FullName       string
	Document       string
	Email          string
	HashedPassword string
}

// UpdateWalletProfileParams is the input data to update a wallet's owner profile.
type UpdateWalletProfileParams struct {
	FullName string
	Email    string
}
