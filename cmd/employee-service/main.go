package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/MikeMC777/comandas/internal/config"
	"github.com/MikeMC777/comandas/internal/db"
	"github.com/MikeMC777/comandas/internal/employee"
	"github.com/MikeMC777/comandas/internal/logger"
)

func main() {
	cfg := config.Load()
	root := &cobra.Command{
		Use:          "employee-service",
		Short:        "Employee directory over gRPC",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCommand(&cfg), newAddCommand(&cfg))
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newServeCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the gRPC directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), *cfg)
		},
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	lis, err := net.Listen("tcp", cfg.EmployeeGRPCAddr)
	if err != nil {
		return err
	}
	srv := grpc.NewServer()
	employee.RegisterDirectoryServer(srv, employee.NewServer(employee.NewPGRepo(pool), log))
	hs := health.NewServer()
	hs.SetServingStatus(employee.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	errCh := make(chan error, 1)
	go func() {
		log.Info("employee-service listening", zap.String("addr", cfg.EmployeeGRPCAddr))
		if err := srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
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
	srv.GracefulStop()
	return nil
}

func newAddCommand(cfg *config.Config) *cobra.Command {
	var pin string
	cmd := &cobra.Command{
		Use:   "add-employee <name>",
		Short: "Create an employee with a PIN",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(pin) < 4 {
				return errors.New("pin must have at least 4 digits")
			}
			hash, err := employee.HashPIN(pin)
			if err != nil {
				return err
			}
			pool, err := db.Connect(cmd.Context(), cfg.PostgresDSN)
			if err != nil {
				return err
			}
			defer pool.Close()
			e := &employee.Employee{ID: uuid.NewString(), Name: args[0], PINHash: hash}
			if err := employee.NewPGRepo(pool).Create(cmd.Context(), e); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "employee %s: %s\n", e.Name, e.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&pin, "pin", "", "employee PIN")
	_ = cmd.MarkFlagRequired("pin")
	return cmd
}
