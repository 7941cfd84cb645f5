package cli

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/unkn0wn-root/seniority"
	"github.com/unkn0wn-root/seniority/internal/modelstub"
	"github.com/unkn0wn-root/seniority/seniorpb"
)

func newServeModelCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cfg := defaultConfig()
	stub := &modelstub.Server{}
	cmd := &cobra.Command{
		Use:   "serve-model",
		Short: "Serve a stand-in SeniorityModel for local runs.",
		Long: `serve-model answers InferSeniority with a level in 1..7 derived from a hash
of (organization, title), so repeated runs see the same levels.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			e, err := newEnv(cfg, stderr)
			if err != nil {
				return err
			}
			defer e.close()

			lis, err := net.Listen("tcp", cfg.Model.Addr)
			if err != nil {
				return errors.Wrapf(err, "listening on %s", cfg.Model.Addr)
			}
			stub.Logger = e.log
			e.log.Info("serving model stub", seniority.Fields{"addr": lis.Addr().String()})
			return stub.Serve(ctx, lis)
		},
	}
	fs := cmd.Flags()
	cfg.logFlags(fs)
	cfg.modelFlags(fs)
	fs.DurationVar(&stub.Latency, "stub.latency", 0, "Delay added to every call.")
	fs.IntVar(&stub.MaxBatch, "stub.max-batch", 0, "Reject larger batches; 0 is unlimited.")
	return cmd
}

func newInferCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cfg := defaultConfig()
	cmd := &cobra.Command{
		Use:   "infer ORGANIZATION TITLE [ORGANIZATION TITLE ...]",
		Short: "Call the model once for the given pairs, bypassing the cache.",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 || len(args)%2 != 0 {
				return errors.New("need organization/title pairs")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := seniorpb.Dial(cfg.Model.Addr)
			if err != nil {
				return err
			}
			defer c.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Model.Timeout)
			defer cancel()
			resp, err := c.InferSeniority(ctx, inferRequest(args))
			if err != nil {
				return errors.Wrap(err, "inferring seniority")
			}
			return writeInferResult(stdout, args, resp)
		},
	}
	fs := cmd.Flags()
	cfg.modelFlags(fs)
	return cmd
}

func inferRequest(pairs []string) *seniorpb.RequestBatch {
	req := &seniorpb.RequestBatch{}
	for i := 0; i+1 < len(pairs); i += 2 {
		req.Batch = append(req.Batch, &seniorpb.Request{
			UUID:         int32(i / 2),
			Organization: pairs[i],
			Title:        pairs[i+1],
		})
	}
	return req
}

// writeInferResult prints one JSON object per requested pair, in request
// order. Pairs the model did not answer get a null seniority.
func writeInferResult(w io.Writer, pairs []string, resp *seniorpb.ResponseBatch) error {
	levels := make(map[int32]int32, len(resp.Batch))
	for _, r := range resp.Batch {
		if r != nil {
			levels[r.UUID] = r.Seniority
		}
	}
	enc := json.NewEncoder(w)
	for i := 0; i+1 < len(pairs); i += 2 {
		line := struct {
			Organization string `json:"organization"`
			Title        string `json:"title"`
			Seniority    *int32 `json:"seniority"`
		}{Organization: pairs[i], Title: pairs[i+1]}
		if v, ok := levels[int32(i/2)]; ok {
			line.Seniority = &v
		}
		if err := enc.Encode(line); err != nil {
			return err
		}
	}
	return nil
}
