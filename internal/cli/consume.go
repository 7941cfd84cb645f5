package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/unkn0wn-root/seniority"
	"github.com/unkn0wn-root/seniority/trigger"
)

func newConsumeCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cfg := defaultConfig()
	cmd := &cobra.Command{
		Use:   "consume",
		Short: "Process S3 event notifications from a NATS JetStream subject.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			e, err := newEnv(cfg, stderr)
			if err != nil {
				return err
			}
			defer e.close()

			proc, err := e.processor(ctx)
			if err != nil {
				return err
			}
			c, err := trigger.Dial(ctx, cfg.NATS, proc, e.log)
			if err != nil {
				return err
			}
			defer c.Close()

			e.log.Info("consuming", seniority.Fields{"stream": cfg.NATS.Stream, "url": cfg.NATS.URL})
			if err := c.Run(ctx); err != nil && err != context.Canceled {
				return err
			}
			return nil
		},
	}
	fs := cmd.Flags()
	cfg.logFlags(fs)
	cfg.cacheFlags(fs)
	cfg.modelFlags(fs)
	cfg.pipelineFlags(fs)
	cfg.blobFlags(fs)
	cfg.natsFlags(fs)
	return cmd
}
