// @title        Comandas order service
// @version      1.0
// @description  Dine-in and takeaway orders, kitchen tickets and deletion audit.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "github.com/MikeMC777/comandas/docs"
	"github.com/MikeMC777/comandas/internal/audit"
	"github.com/MikeMC777/comandas/internal/catalog"
	"github.com/MikeMC777/comandas/internal/config"
	"github.com/MikeMC777/comandas/internal/db"
	"github.com/MikeMC777/comandas/internal/employee"
	"github.com/MikeMC777/comandas/internal/kitchen"
	"github.com/MikeMC777/comandas/internal/logger"
	"github.com/MikeMC777/comandas/internal/memstore"
	"github.com/MikeMC777/comandas/internal/order"
	"github.com/MikeMC777/comandas/internal/rabbitmq"
	"github.com/MikeMC777/comandas/internal/table"
)

const kitchenQueue = "kitchen_tickets"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cfg := config.Load()
	cmd := &cobra.Command{
		Use:          "order-service",
		Short:        "Restaurant order service",
		SilenceUsage: true,
	}
	cmd.AddCommand(newServeCommand(&cfg), newMigrateCommand(&cfg), newAddTableCommand(&cfg), newAddDishCommand(&cfg))
	return cmd
}

func newServeCommand(cfg *config.Config) *cobra.Command {
	var demo bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), *cfg, demo)
		},
	}
	cmd.Flags().BoolVar(&demo, "demo", false, "seed tables, dishes and an employee (memory storage only)")
	return cmd
}

func serve(ctx context.Context, cfg config.Config, demo bool) error {
	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, local, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer b.cleanup()
	if demo {
		if local == nil {
			return errors.New("--demo needs STORAGE_DRIVER=memory")
		}
		seedDemo(local, log)
	}

	var dir employee.Directory
	if cfg.EmployeeServiceAddr != "" {
		client, conn, err := employee.Dial(cfg.EmployeeServiceAddr)
		if err != nil {
			return fmt.Errorf("employee directory: %w", err)
		}
		defer conn.Close()
		dir = client
		log.Info("employee directory over grpc", zap.String("addr", cfg.EmployeeServiceAddr))
	} else {
		dir = employee.NewLocal(b.employees)
	}

	var renderer kitchen.Renderer = kitchen.NewLogRenderer(log)
	if cfg.AMQPURL != "" {
		mq, err := rabbitmq.Dial(cfg.AMQPURL)
		if err != nil {
			return fmt.Errorf("rabbitmq: %w", err)
		}
		defer mq.Close()
		if err := mq.DeclareKitchen(cfg.KitchenExchange, kitchenQueue); err != nil {
			return fmt.Errorf("declare kitchen exchange: %w", err)
		}
		renderer = kitchen.NewQueueRenderer(mq, cfg.KitchenExchange)
		storeReady := b.ready
		b.ready = func() error {
			if err := mq.Ping(); err != nil {
				return err
			}
			if storeReady == nil {
				return nil
			}
			return storeReady()
		}
		log.Info("kitchen tickets over rabbitmq", zap.String("exchange", cfg.KitchenExchange))
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	a := newApp(b.backend, dir, renderer, appConfig{location: cfg.ReportLocation, topN: cfg.ReportTopN}, log)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           a.router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("order-service listening", zap.String("addr", cfg.HTTPAddr), zap.String("storage", cfg.StorageDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type storage struct {
	backend
	employees employee.Repository
}

// openBackend returns the configured storage. For the memory driver it also
// returns the store so callers can seed it.
func openBackend(ctx context.Context, cfg config.Config, log *zap.Logger) (*storage, *memstore.Store, error) {
	switch cfg.StorageDriver {
	case "memory":
		st := memstore.New()
		return &storage{
			backend: backend{
				orders:  st.Orders(),
				tables:  st.Tables(),
				audits:  st.Audits(),
				dishes:  st.Dishes(),
				cleanup: func() {},
			},
			employees: st.Employees(),
		}, st, nil
	case "postgres":
		pool, err := db.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		log.Info("connected to postgres")
		return &storage{
			backend: backend{
				orders:  order.NewPGRepo(pool),
				tables:  table.NewPGRepo(pool),
				audits:  audit.NewPGRepo(pool),
				dishes:  catalog.NewPGRepo(pool),
				ready:   func() error { return pool.Ping(context.Background()) },
				cleanup: pool.Close,
			},
			employees: employee.NewPGRepo(pool),
		}, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
}

func seedDemo(st *memstore.Store, log *zap.Logger) {
	for n := 1; n <= 10; n++ {
		st.AddTable(n)
	}
	for _, d := range []struct{ name, price string }{
		{"Lomo Saltado", "25.00"},
		{"Ceviche", "18.50"},
		{"Aji de Gallina", "16.00"},
		{"Chicha Morada", "6.50"},
	} {
		st.AddDish(d.name, d.price)
	}
	e := st.AddEmployee("Demo", "0000")
	log.Info("demo data seeded", zap.String("employee_id", e.ID), zap.String("pin", "0000"))
}

func newMigrateCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pool, err := db.Connect(cmd.Context(), cfg.PostgresDSN)
			if err != nil {
				return err
			}
			defer pool.Close()
			if err := db.Migrate(cmd.Context(), pool); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema applied")
			return nil
		},
	}
}

func newAddTableCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "add-table <number>",
		Short: "Register a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				return fmt.Errorf("table number must be a positive integer")
			}
			pool, err := db.Connect(cmd.Context(), cfg.PostgresDSN)
			if err != nil {
				return err
			}
			defer pool.Close()
			t := &table.Table{ID: uuid.NewString(), Number: n}
			if err := table.NewPGRepo(pool).Create(cmd.Context(), t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "table %d: %s\n", t.Number, t.ID)
			return nil
		},
	}
}

func newAddDishCommand(cfg *config.Config) *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "add-dish <name> <price>",
		Short: "Add a dish to the menu",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := decimal.NewFromString(args[1])
			if err != nil || price.IsNegative() {
				return fmt.Errorf("price must be a non-negative decimal")
			}
			pool, err := db.Connect(cmd.Context(), cfg.PostgresDSN)
			if err != nil {
				return err
			}
			defer pool.Close()
			d := &catalog.Dish{
				ID:          uuid.NewString(),
				Name:        args[0],
				Description: description,
				Price:       price.Round(2),
				Available:   true,
			}
			if err := catalog.NewPGRepo(pool).Create(cmd.Context(), d); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "dish %s: %s\n", d.Name, d.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "dish description")
	return cmd
}
