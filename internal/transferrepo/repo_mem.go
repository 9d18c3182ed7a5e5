package transferrepo

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/payflux/payflux/internal/domain"
)

// RepoMem is an in-memory, append-only transfer repository for tests.
type RepoMem struct {
	mu        sync.RWMutex
	transfers []domain.Transfer
	byID      map[uuid.UUID]int
}

// NewRepoMem returns transfer RepoMem.
func NewRepoMem() *RepoMem {
	return &RepoMem{
		byID: make(map[uuid.UUID]int),
	}
}

// Create appends the transfer record and then returns it.
func (r *RepoMem) Create(_ context.Context, arg domain.CreateTransferParams) (domain.Transfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := domain.Transfer{
		ID:         uuid.New(),
		SenderID:   arg.SenderID,
		ReceiverID: arg.ReceiverID,
		Amount:     arg.Amount,
		CreatedAt:  time.Now().UTC(),
	}

	r.byID[t.ID] = len(r.transfers)
	r.transfers = append(r.transfers, t)

	return t, nil
}

// Get returns the transfer with the given id.
func (r *RepoMem) Get(_ context.Context, id uuid.UUID) (domain.Transfer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.byID[id]
	if !ok {
		return domain.Transfer{}, domain.ErrTransferNotFound
	}

	return r.transfers[i], nil
}

// List returns one page of transfers in append order.
func (r *RepoMem) List(_ context.Context, arg domain.ListTransfersParams) ([]domain.Transfer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	from := int(arg.Offset)
	if from > len(r.transfers) {
		from = len(r.transfers)
	}

	to := from + int(arg.Limit)
	if to > len(r.transfers) {
		to = len(r.transfers)
	}

	items := make([]domain.Transfer, to-from)
	copy(items, r.transfers[from:to])

	return items, nil
}

// ListBySender returns all transfers sent by the given wallet.
func (r *RepoMem) ListBySender(_ context.Context, senderID int64) ([]domain.Transfer, error) {
	return r.filter(func(t domain.Transfer) bool { return t.SenderID == senderID })
}

// ListByReceiver returns all transfers received by the given wallet.
func (r *RepoMem) ListByReceiver(_ context.Context, receiverID int64) ([]domain.Transfer, error) {
	return r.filter(func(t domain.Transfer) bool { return t.ReceiverID == receiverID })
}

func (r *RepoMem) filter(keep func(domain.Transfer) bool) ([]domain.Transfer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := []domain.Transfer{}

	for _, t := range r.transfers {
		if keep(t) {
			items = append(items, t)
		}
	}

	return items, nil
}
