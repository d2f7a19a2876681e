package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Tiliavir/daily-work-report/internal/api"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve entries and reports over HTTP",
	Long: `Serve the JSON API for entries, report selections and reports.

  GET    /health
  GET    /api/v1/employees/:employee/entries
  POST   /api/v1/employees/:employee/entries
  PUT    /api/v1/employees/:employee/entries/:id
  DELETE /api/v1/employees/:employee/entries/:id
  GET    /api/v1/employees/:employee/selection
  PUT    /api/v1/employees/:employee/selection
  GET    /api/v1/employees/:employee/report?from=&to=
  GET    /api/v1/employees/:employee/report?year=&month=&week=`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config server.listen_addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := firstNonEmpty(serveAddr, cfg.Server.ListenAddr)
	if !flagVerbose {
		gin.SetMode(gin.ReleaseMode)
	}

	h := api.NewHandler(store, log.Named("api"))
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", addr), zap.String("backend", cfg.Storage.Backend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-errCh:
		if ok {
			log.Error("server failed", zap.Error(err))
			fail(exitUsage, err)
		}
		return nil
	case sig := <-quit:
		log.Info("shutting down server", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shut down", zap.Error(err))
		return err
	}
	log.Info("server stopped")
	return nil
}
