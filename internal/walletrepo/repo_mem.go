package walletrepo

import (
	"context"
	"sync"
	"time"

	"github.com/payflux/payflux/internal/domain"
)

// RepoMem is an in-memory wallet repository with the same conditional-save
// semantics as RepoPGS. It backs tests and the concurrency property checks.
type RepoMem struct {
	mu      sync.RWMutex
	wallets map[int64]domain.Wallet
	nextID  int64
}

// NewRepoMem returns wallet RepoMem.
func NewRepoMem() *RepoMem {
	return &RepoMem{
		wallets: make(map[int64]domain.Wallet),
	}
}

// Create creates a wallet with zero balance and version and then returns it.
func (r *RepoMem) Create(_ context.Context, arg domain.CreateWalletParams) (domain.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, w := range r.wallets {
		if w.Document == arg.Document {
			return domain.Wallet{}, domain.ErrDocumentAlreadyExists
		}

		if w.Email == arg.Email {
			return domain.Wallet{}, domain.ErrEmailAlreadyExists
		}
	}

	r.nextID++

	w := domain.Wallet{
		ID:             r.nextID,
		FullName:       arg.FullName,
		Document:       arg.Document,
		Email:          arg.Email,
		HashedPassword: arg.HashedPassword,
		Version:        0,
		CreatedAt:      time.Now().UTC(),
	}

	r.wallets[w.ID] = w

	return w, nil
}

// Get returns the wallet with the given id.
func (r *RepoMem) Get(_ context.Context, id int64) (domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.wallets[id]
	if !ok {
		return domain.Wallet{}, domain.ErrWalletNotFound
	}

	return w, nil
}

// ConditionalSave persists the wallet only if the stored version still equals
// the version the caller read. On success the stored version is incremented
// by one and the saved wallet is returned.
func (r *RepoMem) ConditionalSave(_ context.Context, wallet domain.Wallet) (domain.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.wallets[wallet.ID]
	if !ok {
		return domain.Wallet{}, domain.ErrWalletNotFound
	}

	if stored.Version != wallet.Version {
		return domain.Wallet{}, domain.ErrVersionConflict
	}

	if wallet.Balance.IsNegative() {
		return domain.Wallet{}, domain.ErrInsufficientBalance
	}

	wallet.Document = stored.Document
	wallet.HashedPassword = stored.HashedPassword
	wallet.CreatedAt = stored.CreatedAt
	wallet.Version = stored.Version + 1

	r.wallets[wallet.ID] = wallet

	return wallet, nil
}

// Delete removes the wallet with the given id.
func (r *RepoMem) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.wallets[id]; !ok {
		return domain.ErrWalletNotFound
	}

	delete(r.wallets, id)

	return nil
}
