package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/engram-oss/engram/internal/server"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the engram HTTP API",
	Long: `Start an HTTP server exposing memory over a JSON API.

Endpoints cover fact, procedure, and interaction storage plus recall,
context generation, and health checks.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.Close()

	addr := rt.Config.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	srv := server.New(rt.Memory, rt.Logger, rt.Metrics)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	return srv.Start(ctx, addr)
}
