package commands

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/billsum/billsum/internal/bridge"
	"github.com/billsum/billsum/internal/selection"
	"github.com/billsum/billsum/internal/spending"
)

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Answer date and export messages as JSON lines on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.runServe(ctx, cmd)
		},
	}
}

func (a *app) runServe(ctx context.Context, cmd *cobra.Command) error {
	calc := spending.NewCalculator(a.log.With("component", "spending"))
	hub := bridge.NewHub(selection.NewCell(), calc, a.cfg.ResolvedMessages(), a.log, a.cfg.Bridge.QueueSize)

	a.log.Info("serving", "queue_size", a.cfg.Bridge.QueueSize)
	err := bridge.Serve(ctx, hub, cmd.InOrStdin(), cmd.OutOrStdout(), a.log)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
