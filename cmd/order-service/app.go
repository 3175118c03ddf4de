package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/MikeMC777/comandas/internal/audit"
	"github.com/MikeMC777/comandas/internal/catalog"
	"github.com/MikeMC777/comandas/internal/employee"
	"github.com/MikeMC777/comandas/internal/httpx"
	"github.com/MikeMC777/comandas/internal/kitchen"
	"github.com/MikeMC777/comandas/internal/order"
	"github.com/MikeMC777/comandas/internal/table"
	"github.com/MikeMC777/comandas/internal/trust"
)

// backend is the storage the service runs on: Postgres or the in-memory store.
type backend struct {
	orders  order.Repository
	tables  table.Repository
	audits  audit.Repository
	dishes  catalog.Repository
	ready   func() error
	cleanup func()
}

type app struct {
	orders     *order.Service
	tables     *table.Registry
	dishes     catalog.Repository
	tracker    *kitchen.Tracker
	dispatcher *kitchen.Dispatcher
	scorer     *trust.Scorer
	directory  employee.Directory
	ready      func() error
	topN       int
	log        *zap.Logger
}

type appConfig struct {
	location *time.Location
	topN     int
}

func newApp(b backend, dir employee.Directory, renderer kitchen.Renderer, cfg appConfig, log *zap.Logger) *app {
	orders := order.NewService(b.orders, b.dishes, audit.NewAuditor(log), log)
	tracker := kitchen.NewTracker(b.orders, log)
	ready := b.ready
	if ready == nil {
		ready = func() error { return nil }
	}
	return &app{
		orders:     orders,
		tables:     table.NewRegistry(b.tables),
		dishes:     b.dishes,
		tracker:    tracker,
		dispatcher: kitchen.NewDispatcher(orders, tracker, renderer, log),
		scorer:     trust.NewScorer(b.audits, orders, dir, cfg.location, log),
		directory:  dir,
		ready:      ready,
		topN:       cfg.topN,
		log:        log,
	}
}

func (a *app) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(a.log))

	r.GET("/healthz", healthHandler(a.ready))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/dishes", listDishesHandler(a.dishes, a.log))
	r.GET("/tables", listTablesHandler(a.tables, a.log))
	r.GET("/tables/:id", getTableHandler(a.tables, a.log))

	r.GET("/orders", listOrdersHandler(a.orders, a.log))
	r.GET("/orders/:id", getOrderHandler(a.orders, a.log))
	r.GET("/orders/:id/unprinted", listUnprintedHandler(a.tracker, a.log))

	r.GET("/employees/:id/scorecard", scorecardHandler(a.scorer, a.log))
	r.GET("/reports/monthly", monthlyReportHandler(a.scorer, a.topN, a.log))
	r.GET("/reports/leaderboard", leaderboardHandler(a.scorer, a.log))

	w := r.Group("/", httpx.Identify(a.directory, a.log))
	w.POST("/orders", openOrderHandler(a.orders, a.log))
	w.POST("/orders/:id/items", addItemHandler(a.orders, a.log))
	w.DELETE("/orders/:id/items/:item_id", removeItemHandler(a.orders, a.log))
	w.POST("/orders/:id/printed", confirmPrintedHandler(a.tracker, a.log))
	w.POST("/orders/:id/ticket", dispatchTicketHandler(a.dispatcher, a.log))
	w.POST("/orders/:id/close", closeOrderHandler(a.orders, a.log))

	return r
}

func healthHandler(ready func() error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := ready(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
