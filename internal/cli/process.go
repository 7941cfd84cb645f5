package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/unkn0wn-root/seniority"
	"github.com/unkn0wn-root/seniority/blob"
	"github.com/unkn0wn-root/seniority/jsonl"
)

func newProcessCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cfg := defaultConfig()
	var local bool
	cmd := &cobra.Command{
		Use:   "process [s3://bucket/key ...]",
		Short: "Augment objects in the blob store, or stdin to stdout with --local.",
		Long: `process runs the pipeline for each object given and writes the result to
<output.bucket>/<output.prefix><key>.

With --local, records are read from stdin and written to stdout; no object
store is used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if local && len(args) > 0 {
				return errors.New("--local takes no object arguments")
			}
			if !local && len(args) == 0 {
				return errors.New("need at least one s3://bucket/key or --local")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			e, err := newEnv(cfg, stderr)
			if err != nil {
				return err
			}
			defer e.close()

			if local {
				p, err := e.pipeline(ctx)
				if err != nil {
					return err
				}
				return processStream(ctx, p, stdin, stdout, e.log)
			}

			refs := make([]blob.Ref, 0, len(args))
			for _, a := range args {
				ref, err := blob.ParseURL(a)
				if err != nil {
					return err
				}
				refs = append(refs, ref)
			}
			proc, err := e.processor(ctx)
			if err != nil {
				return err
			}
			for _, ref := range refs {
				out, err := proc.ProcessObject(ctx, ref)
				if err != nil {
					return err
				}
				fmt.Fprintln(stdout, out.Output.String())
			}
			return nil
		},
	}
	fs := cmd.Flags()
	fs.BoolVar(&local, "local", false, "Read stdin, write stdout.")
	cfg.logFlags(fs)
	cfg.cacheFlags(fs)
	cfg.modelFlags(fs)
	cfg.pipelineFlags(fs)
	cfg.blobFlags(fs)
	return cmd
}

type augmenter interface {
	Augment(ctx context.Context, records []seniority.Record) (seniority.Result, error)
}

func processStream(ctx context.Context, p augmenter, r io.Reader, w io.Writer, log seniority.Logger) error {
	records, err := jsonl.Read(r)
	if err != nil {
		return err
	}
	res, err := p.Augment(ctx, records)
	if err != nil {
		return err
	}
	if res.Degraded != nil {
		log.Warn("completed with unknown levels", seniority.Fields{"unresolved": res.Unresolved, "err": res.Degraded})
	}
	if err := jsonl.Write(w, records); err != nil {
		return err
	}
	if len(records) > 0 {
		_, err = io.WriteString(w, "\n")
	}
	return errors.Wrap(err, "writing output")
}
