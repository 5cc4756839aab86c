package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/RoamSim/RoamSim-Backend/models"
	"github.com/RoamSim/RoamSim-Backend/services/transaction"
	user_service "github.com/RoamSim/RoamSim-Backend/services/user"
	"github.com/RoamSim/RoamSim-Backend/services/wallet"
	"github.com/RoamSim/RoamSim-Backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type Wallets struct {
	server *Server
}

func (w Wallets) router(server *Server) {
	w.server = server

	serverGroupV1 := server.router.Group("/api/v1/wallets")
	serverGroupV1.Use(AuthenticatedMiddleware())
	serverGroupV1.GET("balance", w.balance)
	serverGroupV1.GET("transactions", w.listTransactions)
	serverGroupV1.GET("transactions/:reference", w.getTransaction)

	adminGroupV1 := server.router.Group("/api/v1/admin/wallets")
	adminGroupV1.Use(AuthenticatedMiddleware(), AdminMiddleware())
	adminGroupV1.POST("credit", w.credit)
	adminGroupV1.POST("debit", w.debit)
	adminGroupV1.POST("freeze", w.freeze)
	adminGroupV1.POST("unfreeze", w.unfreeze)
	adminGroupV1.GET("unfulfilled-purchases", w.listUnfulfilledPurchases)
	adminGroupV1.GET(":id", w.getWalletByID)
}

func (w *Wallets) getWalletByID(ctx *gin.Context) {
	walletID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, models.NewError("invalid wallet id"))
		return
	}

	walletModel, err := w.server.wallets.GetWalletByID(ctx, walletID)
	if err != nil {
		w.walletError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, models.NewSuccess("wallet retrieved", walletModel))
}

func (w *Wallets) balance(ctx *gin.Context) {
	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, models.NewError(err.Error()))
		return
	}

	walletModel, err := w.server.wallets.GetOrCreateWallet(ctx, activeUser.UserID)
	if err != nil {
		w.walletError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, models.NewSuccess("wallet retrieved", walletModel))
}

func (w *Wallets) listTransactions(ctx *gin.Context) {
	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, models.NewError(err.Error()))
		return
	}

	limit, _ := strconv.ParseInt(ctx.DefaultQuery("limit", "50"), 10, 32)
	offset, _ := strconv.ParseInt(ctx.DefaultQuery("offset", "0"), 10, 32)

	items, err := w.server.transactions.ListByOwner(ctx, activeUser.UserID, int32(limit), int32(offset))
	if err != nil {
		w.server.logger.Log(logrus.ErrorLevel, err.Error())
		ctx.JSON(http.StatusInternalServerError, models.NewError("could not list transactions"))
		return
	}

	ctx.JSON(http.StatusOK, models.NewSuccess("transactions retrieved", items))
}

func (w *Wallets) getTransaction(ctx *gin.Context) {
	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, models.NewError(err.Error()))
		return
	}

	record, err := w.server.transactions.GetByReference(ctx, ctx.Param("reference"))
	if errors.Is(err, transaction.ErrTransactionNotFound) {
		ctx.JSON(http.StatusNotFound, models.NewError("transaction not found"))
		return
	} else if err != nil {
		w.server.logger.Log(logrus.ErrorLevel, err.Error())
		ctx.JSON(http.StatusInternalServerError, models.NewError("could not fetch transaction"))
		return
	}

	if record.OwnerID != activeUser.UserID && ctx.GetString("user_role") != "admin" {
		ctx.JSON(http.StatusNotFound, models.NewError("transaction not found"))
		return
	}

	ctx.JSON(http.StatusOK, models.NewSuccess("transaction retrieved", record))
}

type adjustmentRequest struct {
	OwnerID     int64           `json:"owner_id" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
}

func (w *Wallets) credit(ctx *gin.Context) {
	w.adjust(ctx, transaction.Deposit)
}

func (w *Wallets) debit(ctx *gin.Context) {
	w.adjust(ctx, transaction.Withdrawal)
}

func (w *Wallets) adjust(ctx *gin.Context, txType transaction.TransactionType) {
	var request adjustmentRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, models.NewError(err.Error()))
		return
	}

	description := request.Description
	if description == "" {
		description = "admin-adjustment"
	}

	record, err := w.server.transactions.Process(ctx, transaction.ProcessParams{
		OwnerID:     request.OwnerID,
		Type:        txType,
		Amount:      request.Amount,
		Description: description,
	})
	if err != nil {
		w.walletError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, models.NewSuccess("transaction completed", record))
}

type freezeRequest struct {
	OwnerID int64  `json:"owner_id" binding:"required"`
	Reason  string `json:"reason"`
}

func (w *Wallets) freeze(ctx *gin.Context) {
	var request freezeRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, models.NewError(err.Error()))
		return
	}

	walletModel, err := w.server.wallets.Freeze(ctx, request.OwnerID, request.Reason)
	if err != nil {
		w.walletError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, models.NewSuccess("wallet frozen", walletModel))
}

func (w *Wallets) unfreeze(ctx *gin.Context) {
	var request freezeRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, models.NewError(err.Error()))
		return
	}

	walletModel, err := w.server.wallets.Unfreeze(ctx, request.OwnerID)
	if err != nil {
		w.walletError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, models.NewSuccess("wallet unfrozen", walletModel))
}

func (w *Wallets) listUnfulfilledPurchases(ctx *gin.Context) {
	items, err := w.server.transactions.ListUnfulfilledPurchases(ctx)
	if err != nil {
		w.server.logger.Log(logrus.ErrorLevel, err.Error())
		ctx.JSON(http.StatusInternalServerError, models.NewError("could not list unfulfilled purchases"))
		return
	}

	ctx.JSON(http.StatusOK, models.NewSuccess("unfulfilled purchases retrieved", items))
}

func (w *Wallets) walletError(ctx *gin.Context, err error) {
	walletError(w.server, ctx, err)
}

// walletError maps service errors onto HTTP responses. Shared across the
// routers that drive the wallet engine.
func walletError(s *Server, ctx *gin.Context, err error) {
	var insufficient *wallet.InsufficientFundsError
	switch {
	case errors.As(err, &insufficient):
		ctx.JSON(http.StatusPaymentRequired, models.NewError(insufficient.Error()))
	case errors.Is(err, wallet.ErrWalletBlocked):
		ctx.JSON(http.StatusForbidden, models.NewError(wallet.ErrWalletBlocked.Error()))
	case errors.Is(err, wallet.ErrOwnerNotFound), errors.Is(err, user_service.ErrUserNotFound):
		ctx.JSON(http.StatusNotFound, models.NewError(wallet.ErrOwnerNotFound.Error()))
	case errors.Is(err, wallet.ErrWalletNotFound):
		ctx.JSON(http.StatusNotFound, models.NewError(wallet.ErrWalletNotFound.Error()))
	case errors.Is(err, wallet.ErrInvalidAmount), errors.Is(err, transaction.ErrInvalidProcessAmount), errors.Is(err, transaction.ErrUnsupportedType):
		ctx.JSON(http.StatusBadRequest, models.NewError(err.Error()))
	case errors.Is(err, wallet.ErrBalanceCeiling):
		ctx.JSON(http.StatusUnprocessableEntity, models.NewError(wallet.ErrBalanceCeiling.Error()))
	case errors.Is(err, wallet.ErrUpdateConflict):
		ctx.JSON(http.StatusConflict, models.NewError(wallet.ErrUpdateConflict.Error()))
	default:
		s.logger.Log(logrus.ErrorLevel, err.Error())
		ctx.JSON(http.StatusInternalServerError, models.NewError("an unexpected error occurred"))
	}
}
