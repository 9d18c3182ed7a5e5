package transferdelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/payflux/payflux/internal/domain"
	"github.com/payflux/payflux/pkg/jsonresponse"
	"github.com/payflux/payflux/pkg/moneypkg"
)

//go:generate mockgen -source=http.go -destination=http_mock.go -package=transferdelivery

// Service is the interface the delivery layer expects from the transfer
// service layer.
type Service interface {
	Transfer(ctx context.Context, arg domain.CreateTransferParams) (domain.Transfer, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Transfer, error)
	List(ctx context.Context, pageSize, pageID int32) ([]domain.Transfer, error)
	ListBySender(ctx context.Context, senderID int64) ([]domain.Transfer, error)
	ListByReceiver(ctx context.Context, receiverID int64) ([]domain.Transfer, error)
}

// Handler facilitates transfer delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns transfer handler.
func NewHandler(ts Service) *Handler {
	return &Handler{service: ts}
}

type transferResponse struct {
	ID         uuid.UUID `json:"id"`
	SenderID   int64     `json:"sender_id"`
	ReceiverID int64     `json:"receiver_id"`
	Amount     string    `json:"amount"`
	CreatedAt  string    `json:"created_at"`
}

func newTransferResponse(t domain.Transfer) transferResponse {
	return transferResponse{
		ID:         t.ID,
		SenderID:   t.SenderID,
		ReceiverID: t.ReceiverID,
		Amount:     t.Amount.String(),
		CreatedAt:  t.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

type transferData struct {
	Transfer transferResponse `json:"transfer"`
}

type transferListData struct {
	Transfers []transferResponse `json:"transfers"`
}

type createRequest struct {
	SenderID   int64  `json:"sender_id" binding:"required,min=1"`
	ReceiverID int64  `json:"receiver_id" binding:"required,min=1"`
	Amount     string `json:"amount" binding:"required"`
}

// Create handles http request to move funds between two wallets.
func (h *Handler) Create(gctx *gin.Context) {
	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))
		return
	}

	amount, err := moneypkg.NewFromString(req.Amount)
	if err != nil {
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))
		return
	}

	arg := domain.CreateTransferParams{
		SenderID:   req.SenderID,
		ReceiverID: req.ReceiverID,
		Amount:     amount,
	}

	transfer, err := h.service.Transfer(gctx.Request.Context(), arg)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrWalletNotFound):
			gctx.JSON(http.StatusNotFound, jsonresponse.Error(err))
		case errors.Is(err, domain.ErrTransferConflict):
			gctx.JSON(http.StatusConflict, jsonresponse.Error(err))
		case errors.Is(err, domain.ErrSameWalletTransfer),
			errors.Is(err, domain.ErrInsufficientBalance),
			errors.Is(err, domain.ErrInvalidAmount):
			gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))
		default:
			gctx.JSON(http.StatusInternalServerError, jsonresponse.Error(err))
		}
		return
	}

	gctx.JSON(http.StatusCreated, gin.H{"data": transferData{Transfer: newTransferResponse(transfer)}})
}

type idRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// Get handles http request to fetch a single transfer record.
func (h *Handler) Get(gctx *gin.Context) {
	var req idRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))
		return
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))
		return
	}

	transfer, err := h.service.Get(gctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrTransferNotFound) {
			gctx.JSON(http.StatusNotFound, jsonresponse.Error(err))
			return
		}
		gctx.JSON(http.StatusInternalServerError, jsonresponse.Error(err))
		return
	}

	gctx.JSON(http.StatusOK, gin.H{"data": transferData{Transfer: newTransferResponse(transfer)}})
}

type listRequest struct {
	PageID   int32 `form:"page_id" binding:"required,min=1"`
	PageSize int32 `form:"page_size" binding:"required,min=1,max=100"`
}

// List handles http request to fetch a page of the transfer history.
func (h *Handler) List(gctx *gin.Context) {
	var req listRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))
		return
	}

	transfers, err := h.service.List(gctx.Request.Context(), req.PageSize, req.PageID)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, jsonresponse.Error(err))
		return
	}

	gctx.JSON(http.StatusOK, gin.H{"data": newListData(transfers)})
}

type walletIDRequest struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

// ListBySender handles http request to fetch all transfers sent by a wallet.
func (h *Handler) ListBySender(gctx *gin.Context) {
	h.listByParty(gctx, h.service.ListBySender)
}

// ListByReceiver handles http request to fetch all transfers received by a wallet.
func (h *Handler) ListByReceiver(gctx *gin.Context) {
	h.listByParty(gctx, h.service.ListByReceiver)
}

func (h *Handler) listByParty(gctx *gin.Context, list func(ctx context.Context, walletID int64) ([]domain.Transfer, error)) {
	var req walletIDRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))
		return
	}

	transfers, err := list(gctx.Request.Context(), req.ID)
	if err != nil {
		if errors.Is(err, domain.ErrTransferNotFound) {
			gctx.JSON(http.StatusNotFound, jsonresponse.Error(err))
			return
		}
		gctx.JSON(http.StatusInternalServerError, jsonresponse.Error(err))
		return
	}

	gctx.JSON(http.StatusOK, gin.H{"data": newListData(transfers)})
}

func newListData(transfers []domain.Transfer) transferListData {
	res := make([]transferResponse, 0, len(transfers))
	for _, t := range transfers {
		res = append(res, newTransferResponse(t))
	}

	return transferListData{Transfers: res}
}
