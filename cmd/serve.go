package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/studydesk/internal/projects"
	"github.com/abhisek/studydesk/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, "")
		if err != nil {
			return err
		}
		defer e.Close()

		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			e.cfg.Server.Addr = addr
		}
		if e.cfg.Server.JWTSecret == "" {
			return errors.New("server.jwt_secret (or STUDYDESK_JWT_SECRET) is required")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc, err := e.studyService(ctx)
		if err != nil {
			return err
		}

		srv := server.New(
			server.Config{Addr: e.cfg.Server.Addr, CORSOrigins: e.cfg.Server.CORSOrigins},
			server.Deps{
				Study:    svc,
				Projects: projects.NewService(e.store.ProjectRepo(), e.cfg.Server.JWTSecret, e.log),
				Events:   e.store.EventRepo(),
				Health:   e.store.Ping,
				Log:      e.log,
			},
		)
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
