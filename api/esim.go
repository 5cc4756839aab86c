package api

import (
	"errors"
	"net/http"

	"github.com/RoamSim/RoamSim-Backend/models"
	esim_service "github.com/RoamSim/RoamSim-Backend/services/esim"
	"github.com/RoamSim/RoamSim-Backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Esim struct {
	server *Server
}

func (e Esim) router(server *Server) {
	e.server = server

	serverGroupV1 := server.router.Group("/api/v1/esim")
	serverGroupV1.GET("packages", e.listPackages)
	serverGroupV1.GET("packages/:code", e.getPackage)

	authGroupV1 := server.router.Group("/api/v1/esim")
	authGroupV1.Use(AuthenticatedMiddleware())
	authGroupV1.POST("purchase", e.purchase)
	authGroupV1.GET("purchases", e.listPurchases)

	adminGroupV1 := server.router.Group("/api/v1/admin/esim")
	adminGroupV1.Use(AuthenticatedMiddleware(), AdminMiddleware())
	adminGroupV1.POST("sync-packages", e.syncPackages)
	adminGroupV1.GET("orders/:order_no", e.orderProfiles)
	adminGroupV1.POST("orders/:order_no/cancel", e.cancelOrder)
	adminGroupV1.POST("purchases/:id/activate", e.activatePurchase)
}

func (e *Esim) listPackages(ctx *gin.Context) {
	items, err := e.server.esims.ListPackages(ctx)
	if err != nil {
		e.server.logger.Log(logrus.ErrorLevel, err.Error())
		ctx.JSON(http.StatusInternalServerError, models.NewError("could not list packages"))
		return
	}

	ctx.JSON(http.StatusOK, models.NewSuccess("packages retrieved", items))
}

func (e *Esim) getPackage(ctx *gin.Context) {
	pkg, err := e.server.esims.GetPackageByCode(ctx, ctx.Param("code"))
	if errors.Is(err, esim_service.ErrPackageNotFound) {
		ctx.JSON(http.StatusNotFound, models.NewError("package not found"))
		return
	} else if err != nil {
		e.server.logger.Log(logrus.ErrorLevel, err.Error())
		ctx.JSON(http.StatusInternalServerError, models.NewError("could not fetch package"))
		return
	}

	ctx.JSON(http.StatusOK, models.NewSuccess("package retrieved", pkg))
}

type purchaseRequest struct {
	PackageCode string `json:"package_code" binding:"required"`
}

func (e *Esim) purchase(ctx *gin.Context) {
	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, models.NewError(err.Error()))
		return
	}

	var request purchaseRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, models.NewError(err.Error()))
		return
	}

	purchase, err := e.server.esims.PurchaseEsim(ctx, activeUser.UserID, request.PackageCode)
	if err != nil {
		e.purchaseError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, models.NewSuccess("esim purchased", purchase))
}

func (e *Esim) listPurchases(ctx *gin.Context) {
	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, models.NewError(err.Error()))
		return
	}

	items, err := e.server.esims.ListPurchases(ctx, activeUser.UserID)
	if err != nil {
		e.server.logger.Log(logrus.ErrorLevel, err.Error())
		ctx.JSON(http.StatusInternalServerError, models.NewError("could not list purchases"))
		return
	}

	ctx.JSON(http.StatusOK, models.NewSuccess("purchases retrieved", items))
}

func (e *Esim) syncPackages(ctx *gin.Context) {
	count, err := e.server.esims.SyncPackages(ctx)
	if err != nil {
		e.server.logger.Log(logrus.ErrorLevel, err.Error())
		ctx.JSON(http.StatusBadGateway, models.NewError("package sync failed"))
		return
	}

	ctx.JSON(http.StatusOK, models.NewSuccess("packages synced", gin.H{"count": count}))
}

func (e *Esim) orderProfiles(ctx *gin.Context) {
	profiles, err := e.server.esims.OrderProfiles(ctx.Param("order_no"))
	if err != nil {
		e.server.logger.Log(logrus.ErrorLevel, err.Error())
		ctx.JSON(http.StatusBadGateway, models.NewError("could not query provider order"))
		return
	}

	ctx.JSON(http.StatusOK, models.NewSuccess("order profiles retrieved", profiles))
}

func (e *Esim) cancelOrder(ctx *gin.Context) {
	if err := e.server.esims.CancelOrder(ctx.Param("order_no")); err != nil {
		e.server.logger.Log(logrus.ErrorLevel, err.Error())
		ctx.JSON(http.StatusBadGateway, models.NewError("could not cancel provider order"))
		return
	}

	ctx.JSON(http.StatusOK, models.NewSuccess("order cancelled", nil))
}

type activateRequest struct {
	Iccid string `json:"iccid" binding:"required"`
}

func (e *Esim) activatePurchase(ctx *gin.Context) {
	purchaseID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, models.NewError("invalid purchase id"))
		return
	}

	var request activateRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, models.NewError(err.Error()))
		return
	}

	purchase, err := e.server.esims.RecordActivation(ctx, purchaseID, request.Iccid)
	if errors.Is(err, esim_service.ErrPurchaseNotFound) {
		ctx.JSON(http.StatusNotFound, models.NewError("purchase not found"))
		return
	} else if err != nil {
		e.server.logger.Log(logrus.ErrorLevel, err.Error())
		ctx.JSON(http.StatusInternalServerError, models.NewError("could not record activation"))
		return
	}

	ctx.JSON(http.StatusOK, models.NewSuccess("purchase activated", purchase))
}

func (e *Esim) purchaseError(ctx *gin.Context, err error) {
	var incomplete *esim_service.PurchaseIncompleteError
	switch {
	case errors.Is(err, esim_service.ErrPackageNotFound):
		ctx.JSON(http.StatusNotFound, models.NewError("package not found"))
	case errors.As(err, &incomplete):
		// Money has moved; the client must not retry blindly.
		e.server.logger.Log(logrus.ErrorLevel, incomplete.Error())
		ctx.JSON(http.StatusInternalServerError, models.NewError("purchase could not be completed, contact support with reference "+incomplete.Reference))
	default:
		walletError(e.server, ctx, err)
	}
}
