package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/RoamSim/RoamSim-Backend/models"
	"github.com/RoamSim/RoamSim-Backend/services/reconciliation"
	"github.com/RoamSim/RoamSim-Backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Invoices struct {
	server *Server
}

func (i Invoices) router(server *Server) {
	i.server = server

	serverGroupV1 := server.router.Group("/api/v1/invoices")
	serverGroupV1.POST("callback", i.callback)

	authGroupV1 := server.router.Group("/api/v1/invoices")
	authGroupV1.Use(AuthenticatedMiddleware())
	authGroupV1.POST("", i.create)
	authGroupV1.GET(":sender_invoice_no", i.get)

	adminGroupV1 := server.router.Group("/api/v1/admin/invoices")
	adminGroupV1.Use(AuthenticatedMiddleware(), AdminMiddleware())
	adminGroupV1.GET("unresolved", i.listUnresolved)
}

type createInvoiceRequest struct {
	PackageCode string `json:"package_code" binding:"required"`
}

func (i *Invoices) create(ctx *gin.Context) {
	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, models.NewError(err.Error()))
		return
	}

	var request createInvoiceRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, models.NewError(err.Error()))
		return
	}

	invoice, err := i.server.invoices.CreateInvoice(ctx, activeUser.UserID, request.PackageCode)
	if errors.Is(err, reconciliation.ErrProductMissing) {
		ctx.JSON(http.StatusNotFound, models.NewError("package not found"))
		return
	} else if err != nil {
		i.server.logger.Log(logrus.ErrorLevel, err.Error())
		ctx.JSON(http.StatusBadGateway, models.NewError("could not create invoice"))
		return
	}

	ctx.JSON(http.StatusOK, models.NewSuccess("invoice created", invoice))
}

func (i *Invoices) get(ctx *gin.Context) {
	invoice, err := i.server.invoices.GetInvoice(ctx, ctx.Param("sender_invoice_no"))
	if errors.Is(err, reconciliation.ErrInvoiceNotFound) {
		ctx.JSON(http.StatusNotFound, models.NewError("invoice not found"))
		return
	} else if err != nil {
		i.server.logger.Log(logrus.ErrorLevel, err.Error())
		ctx.JSON(http.StatusInternalServerError, models.NewError("could not fetch invoice"))
		return
	}

	ctx.JSON(http.StatusOK, models.NewSuccess("invoice retrieved", invoice))
}

func (i *Invoices) listUnresolved(ctx *gin.Context) {
	hours, err := strconv.Atoi(ctx.DefaultQuery("hours", "24"))
	if err != nil || hours <= 0 {
		ctx.JSON(http.StatusBadRequest, models.NewError("invalid hours parameter"))
		return
	}

	items, err := i.server.invoices.ListUnresolved(ctx, time.Duration(hours)*time.Hour)
	if err != nil {
		i.server.logger.Log(logrus.ErrorLevel, err.Error())
		ctx.JSON(http.StatusInternalServerError, models.NewError("could not list unresolved invoices"))
		return
	}

	ctx.JSON(http.StatusOK, models.NewSuccess("unresolved invoices retrieved", items))
}

// callback is the gateway's payment notification. It is treated as an
// untrusted hint: the worker re-verifies against the gateway before any
// state changes, so a forged call can at most trigger an extra check.
func (i *Invoices) callback(ctx *gin.Context) {
	senderInvoiceNo := ctx.Query("invoice")
	if senderInvoiceNo == "" {
		ctx.JSON(http.StatusBadRequest, models.NewError("missing invoice parameter"))
		return
	}

	if err := i.server.worker.RunCheck(ctx, senderInvoiceNo, 0); err != nil {
		i.server.logger.Log(logrus.ErrorLevel, err.Error())
	}

	// The gateway only cares that we acknowledged the notification.
	ctx.JSON(http.StatusOK, gin.H{"status": "received"})
}
