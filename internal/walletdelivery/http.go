// Package walletdelivery manages delivery layer of wallets.
package walletdelivery

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/payflux/payflux/internal/domain"
	"github.com/payflux/payflux/pkg/errorspkg"
	"github.com/payflux/payflux/pkg/jsonresponse"
	"github.com/payflux/payflux/pkg/moneypkg"
)

// Service provides service layer interface needed by wallet delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package walletdelivery
type Service interface {
	Create(ctx context.Context, fullName, document, email, password string) (domain.Wallet, error)
	Get(ctx context.Context, id int64) (domain.Wallet, error)
	UpdateProfile(ctx context.Context, id int64, arg domain.UpdateWalletProfileParams) (domain.Wallet, error)
	Delete(ctx context.Context, id int64) error
	Deposit(ctx context.Context, id int64, amount moneypkg.Money) (domain.Wallet, error)
	Withdraw(ctx context.Context, id int64, amount moneypkg.Money) (domain.Wallet, error)
}

// Handler facilitates wallet delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns wallet handler.
func NewHandler(ws Service) *Handler {
	return &Handler{service: ws}
}

// walletResponse is the external view of a wallet. The hashed password and
// the optimistic-lock version never leave the service.
type walletResponse struct {
	ID        int64     `json:"id"`
	FullName  string    `json:"full_name"`
	Document  string    `json:"document"`
	Email     string    `json:"email"`
	Balance   string    `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

func newWalletResponse(w domain.Wallet) walletResponse {
	return walletResponse{
		ID:        w.ID,
		FullName:  w.FullName,
		Document:  w.Document,
		Email:     w.Email,
		Balance:   w.Balance.String(),
		CreatedAt: w.CreatedAt,
	}
}

type data struct {
	Wallet walletResponse `json:"wallet"`
}

type response struct {
	Data data `json:"data,omitempty"`
}

type createRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Document string `json:"document" binding:"required,cpfcnpj"`
	Email    string `json:"email" binding:"required,email,max=120"`
	Password string `json:"password" binding:"required,min=6"`
}

// Create handles http request to create a wallet.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))

		return
	}

	created, err := h.service.Create(ctx, req.FullName, req.Document, req.Email, req.Password)
	if err != nil {
		switch err {
		case domain.ErrDocumentAlreadyExists, domain.ErrEmailAlreadyExists:
			gctx.JSON(http.StatusConflict, jsonresponse.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, jsonresponse.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusCreated, response{Data: data{newWalletResponse(created)}})
}

type idRequest struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

// Get handles http request to get a wallet.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req idRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))

		return
	}

	wallet, err := h.service.Get(ctx, req.ID)
	if err != nil {
		if err == domain.ErrWalletNotFound {
			gctx.JSON(http.StatusNotFound, jsonresponse.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, jsonresponse.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{newWalletResponse(wallet)}})
}

type updateRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email,max=120"`
}

// Update handles http request to update a wallet's owner profile.
func (h *Handler) Update(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri idRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))

		return
	}

	var req updateRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))

		return
	}

	arg := domain.UpdateWalletProfileParams{
		FullName: req.FullName,
		Email:    req.Email,
	}

	updated, err := h.service.UpdateProfile(ctx, uri.ID, arg)
	if err != nil {
		switch err {
		case domain.ErrWalletNotFound:
			gctx.JSON(http.StatusNotFound, jsonresponse.Error(err))
			return
		case domain.ErrVersionConflict:
			gctx.JSON(http.StatusConflict, jsonresponse.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, jsonresponse.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{newWalletResponse(updated)}})
}

// Delete handles http request to delete a wallet.
func (h *Handler) Delete(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req idRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))

		return
	}

	if err := h.service.Delete(ctx, req.ID); err != nil {
		switch err {
		case domain.ErrWalletNotFound:
			gctx.JSON(http.StatusNotFound, jsonresponse.Error(err))
			return
		case domain.ErrWalletReferenced:
			gctx.JSON(http.StatusConflict, jsonresponse.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, jsonresponse.Error(errorspkg.ErrInternal))

		return
	}

	gctx.Status(http.StatusNoContent)
}

type moneyRequest struct {
	Amount string `json:"amount" binding:"required"`
}

// Deposit handles http request to add funds to a wallet.
func (h *Handler) Deposit(gctx *gin.Context) {
	h.moveFunds(gctx, h.service.Deposit)
}

// Withdraw handles http request to remove funds from a wallet.
func (h *Handler) Withdraw(gctx *gin.Context) {
	h.moveFunds(gctx, h.service.Withdraw)
}

func (h *Handler) moveFunds(gctx *gin.Context, op func(context.Context, int64, moneypkg.Money) (domain.Wallet, error)) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri idRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))

		return
	}

	var req moneyRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))

		return
	}

	amount, err := moneypkg.NewFromString(req.Amount)
	if err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(domain.ErrInvalidAmount))

		return
	}

	wallet, err := op(ctx, uri.ID, amount)
	if err != nil {
		l.Info().Err(err).Send()

		switch err {
		case domain.ErrWalletNotFound:
			gctx.JSON(http.StatusNotFound, jsonresponse.Error(err))
			return
		case domain.ErrInvalidAmount, domain.ErrInsufficientBalance:
			gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))
			return
		case domain.ErrVersionConflict:
			gctx.JSON(http.StatusConflict, jsonresponse.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, jsonresponse.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{newWalletResponse(wallet)}})
}
