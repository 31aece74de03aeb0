package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"word_etymology/history"
	"word_etymology/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server (page + /api/chat)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loaded
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		agent, err := buildAgent(cfg)
		if err != nil {
			return err
		}

		opts := server.Options{
			Provider: cfg.LLM.Provider,
			Timeout:  cfg.Timeout(),
			Logger:   logger.Named("http"),
		}
		if cfg.History.Path != "" {
			store, err := history.Open(ctx, cfg.History.Path, cfg.History.MaxEntries)
			if err != nil {
				return err
			}
			defer store.Close()
			opts.History = store
		}

		srv, err := server.New(agent, opts)
		if err != nil {
			return err
		}

		listen := cfg.ServerAddr
		if serveAddr != "" {
			listen = serveAddr
		}
		if listen == "" {
			listen = ":8080"
		}
		httpSrv := &http.Server{
			Addr:              listen,
			Handler:           srv.Routes(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			logger.Info("starting web server",
				zap.String("addr", listen),
				zap.String("provider", cfg.LLM.Provider),
				zap.Bool("history", cfg.History.Path != ""))
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			logger.Info("shutting down web server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return httpSrv.Shutdown(shutdownCtx)
		})
		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "http listen address (overrides config server_addr)")
}
