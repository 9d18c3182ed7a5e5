package walletrepo

import (
	"context"
	"testing"

	"github.com/payflux/payflux/internal/domain"
	"github.com/payflux/payflux/pkg/moneypkg"
	"github.com/payflux/payflux/pkg/randompkg"
	"github.com/stretchr/testify/require"
)

func createTestWallet(t *testing.T, repo *RepoMem) domain.Wallet {
	t.Helper()

	arg := domain.CreateWalletParams{
		FullName:       randompkg.FullName(),
		Document:       randompkg.Document(),
		Email:          randompkg.Email(),
		HashedPassword: randompkg.String(32),
	}

	w, err := repo.Create(context.Background(), arg)
	require.NoError(t, err)
	require.NotZero(t, w.ID)
	require.Equal(t, arg.FullName, w.FullName)
	require.Equal(t, arg.Document, w.Document)
	require.True(t, w.Balance.Equal(moneypkg.Zero))
	require.Zero(t, w.Version)

	return w
}

func TestCreate(t *testing.T) {
	repo := NewRepoMem()
	w := createTestWallet(t, repo)

	_, err := repo.Create(context.Background(), domain.CreateWalletParams{
		FullName: randompkg.FullName(),
		Document: w.Document,
		Email:    randompkg.Email(),
	})
	require.ErrorIs(t, err, domain.ErrDocumentAlreadyExists)

	_, err = repo.Create(context.Background(), domain.CreateWalletParams{
		FullName: randompkg.FullName(),
		Document: randompkg.Document(),
		Email:    w.Email,
	})
	require.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestGet(t *testing.T) {
	repo := NewRepoMem()
	w := createTestWallet(t, repo)

	got, err := repo.Get(context.Background(), w.ID)
	require.NoError(t, err)
	require.Equal(t, w, got)

	_, err = repo.Get(context.Background(), w.ID+100)
	require.ErrorIs(t, err, domain.ErrWalletNotFound)
}

func TestConditionalSave(t *testing.T) {
	ctx := context.Background()
	repo := NewRepoMem()
	w := createTestWallet(t, repo)

	w.Balance = moneypkg.MustFromString("50.00")

	saved, err := repo.ConditionalSave(ctx, w)
	require.NoError(t, err)
	require.Equal(t, w.Version+1, saved.Version)
	require.Equal(t, "50.00", saved.Balance.String())

	// Saving again from the stale read must conflict.
	_, err = repo.ConditionalSave(ctx, w)
	require.ErrorIs(t, err, domain.ErrVersionConflict)

	// Saving from the fresh state must succeed and bump the version again.
	saved.Balance = saved.Balance.Sub(moneypkg.MustFromString("30.00"))
	saved2, err := repo.ConditionalSave(ctx, saved)
	require.NoError(t, err)
	require.Equal(t, saved.Version+1, saved2.Version)
	require.Equal(t, "20.00", saved2.Balance.String())
}

func TestConditionalSaveRejectsNegativeBalance(t *testing.T) {
	repo := NewRepoMem()
	w := createTestWallet(t, repo)

	w.Balance = moneypkg.MustFromString("-0.01")

	_, err := repo.ConditionalSave(context.Background(), w)
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)
}

func TestConditionalSaveMissingWallet(t *testing.T) {
	repo := NewRepoMem()
	w := createTestWallet(t, repo)

	require.NoError(t, repo.Delete(context.Background(), w.ID))

	_, err := repo.ConditionalSave(context.Background(), w)
	require.ErrorIs(t, err, domain.ErrWalletNotFound)
}

func TestDelete(t *testing.T) {
	repo := NewRepoMem()
	w := createTestWallet(t, repo)

	require.NoError(t, repo.Delete(context.Background(), w.ID))
	require.ErrorIs(t, repo.Delete(context.Background(), w.ID), domain.ErrWalletNotFound)
}
