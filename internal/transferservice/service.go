// Package transferservice manages the business logic layer of transfers:
// it moves funds between two wallets under optimistic concurrency control.
package transferservice

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/payflux/payflux/internal/domain"
	"github.com/payflux/payflux/pkg/moneypkg"
)

// compensateAttempts bounds the CAS retry loop that reverses a committed
// sender debit after the receiver save lost its version check.
const compensateAttempts = 5

// Repo provides data access layer interface needed by transfer service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transferservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateTransferParams) (domain.Transfer, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Transfer, error)
	List(ctx context.Context, arg domain.ListTransfersParams) ([]domain.Transfer, error)
	ListBySender(ctx context.Context, senderID int64) ([]domain.Transfer, error)
	ListByReceiver(ctx context.Context, receiverID int64) ([]domain.Transfer, error)
}

// WalletRepo provides the wallet store interface needed by the transfer engine.
type WalletRepo interface {
	Get(ctx context.Context, id int64) (domain.Wallet, error)
	ConditionalSave(ctx context.Context, wallet domain.Wallet) (domain.Wallet, error)
}

// Service executes transfers between two wallets and answers transfer queries.
type Service struct {
	repo    Repo
	wallets WalletRepo
}

// New returns transfer service struct to manage transfer business logic.
func New(tr Repo, wr WalletRepo) *Service {
	return &Service{
		repo:    tr,
		wallets: wr,
	}
}

// Transfer moves the amount from the sender wallet to the receiver wallet
// exactly once, or fails with no effect on either balance.
//
// Both wallet writes go through the store's conditional save. If the
// receiver save loses its version check after the sender debit already
// committed, the debit is reversed by a compensating credit before the
// conflict is reported. The losing side of any race receives
// domain.ErrTransferConflict and may retry; the engine never retries the
// operation itself.
func (s *Service) Transfer(ctx context.Context, arg domain.CreateTransferParams) (domain.Transfer, error) {
	l := zerolog.Ctx(ctx)

	if !arg.Amount.IsPositive() {
		return domain.Transfer{}, domain.ErrInvalidAmount
	}

	sender, err := s.wallets.Get(ctx, arg.SenderID)
	if err != nil {
		l.Info().Err(err).Int64("sender_id", arg.SenderID).Send()
		return domain.Transfer{}, err
	}

	receiver, err := s.wallets.Get(ctx, arg.ReceiverID)
	if err != nil {
		l.Info().Err(err).Int64("receiver_id", arg.ReceiverID).Send()
		return domain.Transfer{}, err
	}

	// Checked before the balance: sending to oneself is never meaningful
	// regardless of funds.
	if arg.SenderID == arg.ReceiverID {
		return domain.Transfer{}, domain.ErrSameWalletTransfer
	}

	if sender.Balance.LessThan(arg.Amount) {
		return domain.Transfer{}, domain.ErrInsufficientBalance
	}

	sender.Balance = sender.Balance.Sub(arg.Amount)
	receiver.Balance = receiver.Balance.Add(arg.Amount)

	if _, err := s.wallets.ConditionalSave(ctx, sender); err != nil {
		if errors.Is(err, domain.ErrVersionConflict) {
			return domain.Transfer{}, domain.ErrTransferConflict
		}

		return domain.Transfer{}, err
	}

	if _, err := s.wallets.ConditionalSave(ctx, receiver); err != nil {
		// The sender debit is already committed. Reverse it so the failed
		// transfer leaves no partial effect.
		s.compensate(ctx, arg.SenderID, arg.Amount)

		if errors.Is(err, domain.ErrVersionConflict) {
			return domain.Transfer{}, domain.ErrTransferConflict
		}

		return domain.Transfer{}, err
	}

	transfer, err := s.repo.Create(ctx, arg)
	if err != nil {
		l.Error().Err(err).Msg("transfer record append failed, reversing balances")
		s.compensate(ctx, arg.SenderID, arg.Amount)
		s.compensate(ctx, arg.ReceiverID, arg.Amount.Neg())

		return domain.Transfer{}, err
	}

	return transfer, nil
}

// compensate credits delta back to the wallet, retrying the conditional save
// a bounded number of times if it keeps losing version checks. A failed
// compensation is logged loudly; it means the ledger needs operator attention.
func (s *Service) compensate(ctx context.Context, walletID int64, delta moneypkg.Money) {
	l := zerolog.Ctx(ctx)

	for i := 0; i < compensateAttempts; i++ {
		wallet, err := s.wallets.Get(ctx, walletID)
		if err != nil {
			break
		}

		wallet.Balance = wallet.Balance.Add(delta)
		if wallet.Balance.IsNegative() {
			break
		}

		_, err = s.wallets.ConditionalSave(ctx, wallet)
		if err == nil {
			return
		}

		if !errors.Is(err, domain.ErrVersionConflict) {
			break
		}
	}

	l.Error().
		Int64("wallet_id", walletID).
		Str("delta", delta.String()).
		Msg("failed to compensate wallet balance")
}

// Get returns the transfer with the given id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (domain.Transfer, error) {
	return s.repo.Get(ctx, id)
}

// List returns the requested page of transfers.
func (s *Service) List(ctx context.Context, pageSize, pageID int32) ([]domain.Transfer, error) {
	arg := domain.ListTransfersParams{
		Limit:  pageSize,
		Offset: (pageID - 1) * pageSize,
	}

	return s.repo.List(ctx, arg)
}

// ListBySender returns all transfers sent by the given wallet.
// An empty result reports domain.ErrTransferNotFound.
func (s *Service) ListBySender(ctx context.Context, senderID int64) ([]domain.Transfer, error) {
	transfers, err := s.repo.ListBySender(ctx, senderID)
	if err != nil {
		return nil, err
	}

	if len(transfers) == 0 {
		return nil, domain.ErrTransferNotFound
	}

	return transfers, nil
}

// ListByReceiver returns all transfers received by the given wallet.
// An empty result reports domain.ErrTransferNotFound.
func (s *Service) ListByReceiver(ctx context.Context, receiverID int64) ([]domain.Transfer, error) {
	transfers, err := s.repo.ListByReceiver(ctx, receiverID)
	if err != nil {
		return nil, err
	}

	if len(transfers) == 0 {
		return nil, domain.ErrTransferNotFound
	}

	return transfers, nil
}
