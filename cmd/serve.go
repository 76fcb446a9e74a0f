package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	elog "github.com/labstack/gommon/log"
	"github.com/spf13/cobra"

	"storycraft/pkg/server"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			ctx, done := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer done()

			c, catalogErr := loadCatalog(cfg)
			p, err := newPipeline(ctx, cfg, c)
			if err != nil {
				return err
			}

			srv := server.NewServer(ctx, p, c, catalogErr)
			if log.GetLevel() <= log.DebugLevel {
				srv.Echo.Logger.SetLevel(elog.DEBUG)
			} else {
				srv.Echo.Logger.SetLevel(elog.INFO)
			}

			finishedShutDown := make(chan struct{})
			go func() {
				defer close(finishedShutDown)
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					log.Error("shutdown failed", "error", err)
				}
			}()

			if err := srv.Start(cfg.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				done()
				<-finishedShutDown
				return err
			}
			<-finishedShutDown
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides server.addr")
	return cmd
}
