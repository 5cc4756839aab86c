package api

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"

	db "github.com/RoamSim/RoamSim-Backend/db/sqlc"
	"github.com/RoamSim/RoamSim-Backend/models"
	"github.com/RoamSim/RoamSim-Backend/providers"
	esimprovider "github.com/RoamSim/RoamSim-Backend/providers/esim"
	"github.com/RoamSim/RoamSim-Backend/providers/payments"
	esim_service "github.com/RoamSim/RoamSim-Backend/services/esim"
	"github.com/RoamSim/RoamSim-Backend/services/monitoring/logging"
	"github.com/RoamSim/RoamSim-Backend/services/reconciliation"
	redis_service "github.com/RoamSim/RoamSim-Backend/services/redis"
	"github.com/RoamSim/RoamSim-Backend/services/transaction"
	user_service "github.com/RoamSim/RoamSim-Backend/services/user"
	"github.com/RoamSim/RoamSim-Backend/services/wallet"
	"github.com/RoamSim/RoamSim-Backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/hibiken/asynq"
)

var TokenController *utils.JWTToken

type Server struct {
	router       *gin.Engine
	store        *db.Store
	config       *utils.Config
	logger       *logging.Logger
	provider     *providers.ProviderService
	wallets      *wallet.WalletService
	transactions *transaction.TransactionService
	esims        *esim_service.EsimService
	invoices     *reconciliation.InvoiceService
	worker       *reconciliation.Worker
	asynqServer  *asynq.Server
}

func NewServer(envPath string) *Server {
	c, err := utils.LoadConfig(envPath)
	if err != nil {
		panic(fmt.Sprintf("Could not load config: %v", err))
	}

	conn, err := sql.Open(c.DBDriver, utils.GetDBSource(c, c.DBName))
	if err != nil {
		panic(fmt.Sprintf("Could not load DB: %v", err))
	}

	m, err := migrate.New(
		"file://db/migrations",
		utils.GetDBSource(c, c.DBName),
	)
	if err != nil {
		log.Fatalf("Unable to instantiate the database schema migrator - %v", err)
	}

	if err := m.Up(); err != nil {
		if err != migrate.ErrNoChange {
			log.Fatalf("Unable to migrate up to the latest database schema - %v", err)
		}
	}

	store := db.NewStore(conn)
	g := gin.Default()
	l := logging.NewLogger()

	cache, err := redis_service.NewRedisService(&redis_service.RedisConfig{
		Host:     c.RedisHost,
		Port:     c.RedisPort,
		Password: c.RedisPassword,
	})
	if err != nil {
		panic(fmt.Sprintf("Could not connect to redis: %v", err))
	}

	qpay := payments.NewPaymentProvider(l)
	provisioner := esimprovider.NewEsimProvider(l)

	p := providers.NewProviderService()
	p.AddProvider(qpay)
	p.AddProvider(provisioner)

	users := user_service.NewUserService(store, l, c.DefaultCurrency)
	wallets := wallet.NewWalletService(store, users, l)
	transactions := transaction.NewTransactionService(store, wallets, l)
	esims := esim_service.NewEsimService(store, transactions, provisioner, cache, l)

	redisOpt := asynq.RedisClientOpt{
		Addr:     utils.GetRedisAddr(c),
		Password: c.RedisPassword,
	}
	scheduler := reconciliation.NewScheduler(redisOpt, l)
	worker := reconciliation.NewWorker(store, qpay, provisioner, scheduler, l)
	invoices := reconciliation.NewInvoiceService(store, qpay, scheduler, l)

	asynqServer := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			"reconciliation": 1,
		},
	})

	g.Use(CORSMiddleware())
	g.Use(l.LoggingMiddleWare())

	TokenController = utils.NewJWTToken(c)

	return &Server{
		router:       g,
		store:        store,
		config:       c,
		logger:       l,
		provider:     p,
		wallets:      wallets,
		transactions: transactions,
		esims:        esims,
		invoices:     invoices,
		worker:       worker,
		asynqServer:  asynqServer,
	}
}

func (s *Server) Start() {

	dr := models.SuccessResponse{
		Status:  "success",
		Message: "Welcome to RoamSim!",
		Version: utils.REVISION,
	}

	s.router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, dr)
	})

	/// Register Object Routers Below
	Wallets{}.router(s)
	Esim{}.router(s)
	Invoices{}.router(s)

	go func() {
		if err := s.asynqServer.Run(s.worker.Mux()); err != nil {
			log.Fatalf("Unable to start the reconciliation worker - %v", err)
		}
	}()

	s.router.Run(fmt.Sprintf(":%v", s.config.ServerPort))
}
