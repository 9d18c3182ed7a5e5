// Package walletservice manages business logic layer of wallets.
package walletservice

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/payflux/payflux/internal/domain"
	"github.com/payflux/payflux/pkg/docpkg"
	"github.com/payflux/payflux/pkg/errorspkg"
	"github.com/payflux/payflux/pkg/moneypkg"
	"github.com/payflux/payflux/pkg/passpkg"
)

// Repo provides data access layer interface needed by wallet service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package walletservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateWalletParams) (domain.Wallet, error)
	Get(ctx context.Context, id int64) (domain.Wallet, error)
	ConditionalSave(ctx context.Context, wallet domain.Wallet) (domain.Wallet, error)
	Delete(ctx context.Context, id int64) error
}

// Service facilitates wallet service layer logic.
type Service struct {
	repo Repo
}

// New returns wallet service struct to manage wallet business logic.
func New(wr Repo) *Service {
	return &Service{repo: wr}
}

// Create creates a wallet with zero balance for the given owner and returns it.
func (s *Service) Create(ctx context.Context, fullName, document, email, password string) (domain.Wallet, error) {
	l := zerolog.Ctx(ctx)

	hashedPassword, err := passpkg.Hash(password)
	if err != nil {
		l.Error().Err(err).Send()
		return domain.Wallet{}, errorspkg.ErrInternal
	}

	arg := domain.CreateWalletParams{
		FullName:       fullName,
		Document:       docpkg.Normalize(document),
		Email:          email,
		HashedPassword: hashedPassword,
	}

	return s.repo.Create(ctx, arg)
}

// Get returns the wallet with the given id.
func (s *Service) Get(ctx context.Context, id int64) (domain.Wallet, error) {
	return s.repo.Get(ctx, id)
}

// UpdateProfile changes the owner fields of the wallet through the
// conditional-save protocol. The balance is left untouched but the version
// still advances by one on success.
func (s *Service) UpdateProfile(ctx context.Context, id int64, arg domain.UpdateWalletProfileParams) (domain.Wallet, error) {
	wallet, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Wallet{}, err
	}

	wallet.FullName = arg.FullName
	wallet.Email = arg.Email

	return s.repo.ConditionalSave(ctx, wallet)
}

// Delete removes the wallet with the given id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Deposit adds the amount to the wallet balance.
//
// A concurrent mutation between the read and the save surfaces as
// domain.ErrVersionConflict; the caller may retry.
func (s *Service) Deposit(ctx context.Context, id int64, amount moneypkg.Money) (domain.Wallet, error) {
	if !amount.IsPositive() {
		return domain.Wallet{}, domain.ErrInvalidAmount
	}

	wallet, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Wallet{}, err
	}

	wallet.Balance = wallet.Balance.Add(amount)

	return s.repo.ConditionalSave(ctx, wallet)
}

// Withdraw subtracts the amount from the wallet balance.
func (s *Service) Withdraw(ctx context.Context, id int64, amount moneypkg.Money) (domain.Wallet, error) {
	if !amount.IsPositive() {
		return domain.Wallet{}, domain.ErrInvalidAmount
	}

	wallet, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Wallet{}, err
	}

	if wallet.Balance.LessThan(amount) {
		return domain.Wallet{}, domain.ErrInsufficientBalance
	}

	wallet.Balance = wallet.Balance.Sub(amount)

	return s.repo.ConditionalSave(ctx, wallet)
}
