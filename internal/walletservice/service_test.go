package walletservice

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/payflux/payflux/internal/domain"
	"github.com/payflux/payflux/internal/walletrepo"
	"github.com/payflux/payflux/pkg/moneypkg"
	"github.com/payflux/payflux/pkg/passpkg"
	"github.com/payflux/payflux/pkg/randompkg"
)

func TestCreate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockRepo(ctrl)
	service := New(repo)

	fullName := randompkg.FullName()
	email := randompkg.Email()
	password := randompkg.String(10)

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).
		Times(1).
		DoAndReturn(func(_ context.Context, arg domain.CreateWalletParams) (domain.Wallet, error) {
			// The document is stored digits-only, the password never in clear.
			require.Equal(t, "52998224725", arg.Document)
			require.NotEqual(t, password, arg.HashedPassword)
			require.NoError(t, passpkg.Check(password, arg.HashedPassword))

			return domain.Wallet{
				ID:       1,
				FullName: arg.FullName,
				Document: arg.Document,
				Email:    arg.Email,
			}, nil
		})

	wallet, err := service.Create(context.Background(), fullName, "529.982.247-25", email, password)
	require.NoError(t, err)
	require.Equal(t, fullName, wallet.FullName)
	require.True(t, wallet.Balance.Equal(moneypkg.Zero))
	require.Zero(t, wallet.Version)
}

func TestUpdateProfile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockRepo(ctrl)
	service := New(repo)

	stored := domain.Wallet{
		ID:       1,
		FullName: randompkg.FullName(),
		Email:    randompkg.Email(),
		Balance:  moneypkg.MustFromString("75.00"),
		Version:  4,
	}

	arg := domain.UpdateWalletProfileParams{
		FullName: randompkg.FullName(),
		Email:    randompkg.Email(),
	}

	repo.EXPECT().Get(gomock.Any(), gomock.Eq(int64(1))).
		Times(1).
		Return(stored, nil)
	repo.EXPECT().ConditionalSave(gomock.Any(), gomock.Any()).
		Times(1).
		DoAndReturn(func(_ context.Context, w domain.Wallet) (domain.Wallet, error) {
			require.Equal(t, arg.FullName, w.FullName)
			require.Equal(t, arg.Email, w.Email)
			// The balance rides along unchanged.
			require.Equal(t, "75.00", w.Balance.String())
			require.Equal(t, int64(4), w.Version)
			w.Version++
			return w, nil
		})

	updated, err := service.UpdateProfile(context.Background(), 1, arg)
	require.NoError(t, err)
	require.Equal(t, int64(5), updated.Version)
}

func TestUpdateProfileConflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockRepo(ctrl)
	service := New(repo)

	repo.EXPECT().Get(gomock.Any(), gomock.Any()).
		Times(1).
		Return(domain.Wallet{ID: 1}, nil)
	repo.EXPECT().ConditionalSave(gomock.Any(), gomock.Any()).
		Times(1).
		Return(domain.Wallet{}, domain.ErrVersionConflict)

	_, err := service.UpdateProfile(context.Background(), 1, domain.UpdateWalletProfileParams{})
	require.ErrorIs(t, err, domain.ErrVersionConflict)
}

func TestDepositInvalidAmount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockRepo(ctrl)
	service := New(repo)

	repo.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)
	repo.EXPECT().ConditionalSave(gomock.Any(), gomock.Any()).Times(0)

	_, err := service.Deposit(context.Background(), 1, moneypkg.Zero)
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = service.Withdraw(context.Background(), 1, moneypkg.MustFromString("-5.00"))
	require.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestDepositWithdrawRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := walletrepo.NewRepoMem()
	service := New(repo)

	created, err := service.Create(ctx, randompkg.FullName(), randompkg.Document(), randompkg.Email(), randompkg.String(10))
	require.NoError(t, err)
	require.Equal(t, "0.00", created.Balance.String())
	require.Zero(t, created.Version)

	afterDeposit, err := service.Deposit(ctx, created.ID, moneypkg.MustFromString("50.00"))
	require.NoError(t, err)
	require.Equal(t, "50.00", afterDeposit.Balance.String())

	afterWithdraw, err := service.Withdraw(ctx, created.ID, moneypkg.MustFromString("30.00"))
	require.NoError(t, err)
	require.Equal(t, "20.00", afterWithdraw.Balance.String())

	// Two mutations since creation, so the version advanced by exactly two.
	require.Equal(t, created.Version+2, afterWithdraw.Version)
}

func TestWithdrawInsufficientBalance(t *testing.T) {
	ctx := context.Background()
	repo := walletrepo.NewRepoMem()
	service := New(repo)

	created, err := service.Create(ctx, randompkg.FullName(), randompkg.Document(), randompkg.Email(), randompkg.String(10))
	require.NoError(t, err)

	_, err = service.Deposit(ctx, created.ID, moneypkg.MustFromString("100.00"))
	require.NoError(t, err)

	_, err = service.Withdraw(ctx, created.ID, moneypkg.MustFromString("100.01"))
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)

	w, err := service.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "100.00", w.Balance.String())

	got, err := service.Withdraw(ctx, created.ID, moneypkg.MustFromString("100.00"))
	require.NoError(t, err)
	require.Equal(t, "0.00", got.Balance.String())
}

func TestDepositStaleVersionConflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockRepo(ctrl)
	service := New(repo)

	repo.EXPECT().Get(gomock.Any(), gomock.Any()).
		Times(1).
		Return(domain.Wallet{ID: 1, Version: 2}, nil)
	repo.EXPECT().ConditionalSave(gomock.Any(), gomock.Any()).
		Times(1).
		Return(domain.Wallet{}, domain.ErrVersionConflict)

	_, err := service.Deposit(context.Background(), 1, moneypkg.MustFromString("10.00"))
	require.ErrorIs(t, err, domain.ErrVersionConflict)
}
