// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/payflux/payflux/internal/middleware"
	"github.com/payflux/payflux/internal/transferdelivery"
	"github.com/payflux/payflux/internal/transferrepo"
	"github.com/payflux/payflux/internal/transferservice"
	"github.com/payflux/payflux/internal/walletdelivery"
	"github.com/payflux/payflux/internal/walletrepo"
	"github.com/payflux/payflux/internal/walletservice"
	"github.com/payflux/payflux/pkg/configpkg"
)

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB     *sql.DB
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes. The cache
// client is optional; without it transfer creation runs without idempotency
// protection.
func New(conn *sql.DB, cache *redis.Client, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	walletRepo := walletrepo.NewRepoPGS(conn)
	transferRepo := transferrepo.NewRepoPGS(conn)

	walletService := walletservice.New(walletRepo)
	transferService := transferservice.New(transferRepo, walletRepo)

	walletHandler := walletdelivery.NewHandler(walletService)
	transferHandler := transferdelivery.NewHandler(transferService)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	wallets := engine.Group("/v1/api/wallet")
	wallets.POST("/create", walletHandler.Create)
	wallets.GET("/find/:id", walletHandler.Get)
	wallets.PUT("/update/:id", walletHandler.Update)
	wallets.DELETE("/delete/:id", walletHandler.Delete)
	wallets.POST("/deposit/:id", walletHandler.Deposit)
	wallets.POST("/withdraw/:id", walletHandler.Withdraw)

	transfers := engine.Group("/v1/api/transfer")

	if cache != nil {
		transfers.POST("/create", middleware.Idempotency(cache, config.IdempotencyTTL), transferHandler.Create)
	} else {
		transfers.POST("/create", transferHandler.Create)
	}

	transfers.GET("/find/:id", transferHandler.Get)
	transfers.GET("/findAll", transferHandler.List)
	transfers.GET("/find/sender/:id", transferHandler.ListBySender)
	transfers.GET("/find/receiver/:id", transferHandler.ListByReceiver)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("cpfcnpj", walletdelivery.ValidDocument); err != nil {
			return nil, errors.New("cannot register document validator")
		}
	}

	server := &Server{
		DB:     conn,
		Engine: engine,
		Config: config,
	}

	return server, nil
}
