package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/clearsignal/intel-cli/internal/intel"
	"github.com/clearsignal/intel-cli/internal/model"
)

var (
	batchInput  string
	batchOutput string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run intelligence queries from a JSON file concurrently",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env := initPipeline(cfg)

		data, err := os.ReadFile(batchInput)
		if err != nil {
			return eris.Wrap(err, "batch: read input")
		}

		var requests []model.IntelligenceRequest
		if err := json.Unmarshal(data, &requests); err != nil {
			return eris.Wrap(err, "batch: parse input")
		}

		envelopes, err := runBatch(ctx, env.Pipeline, requests, cfg.Batch.MaxConcurrentRequests)
		if err != nil {
			return err
		}

		out := os.Stdout
		if batchOutput != "" {
			f, err := os.Create(batchOutput)
			if err != nil {
				return eris.Wrap(err, "batch: create output")
			}
			defer f.Close()
			out = f
		}

		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(envelopes)
	},
}

// runBatch fans requests out with bounded concurrency and preserves
// input order in the result. A request that fails validation yields the
// generic-fallback envelope in its slot rather than aborting the batch.
func runBatch(ctx context.Context, p *intel.Pipeline, requests []model.IntelligenceRequest, concurrency int) ([]*model.IntelligenceEnvelope, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	envelopes := make([]*model.IntelligenceEnvelope, len(requests))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, req := range requests {
		i, req := i, req
		g.Go(func() error {
			env, err := p.Run(gctx, req)
			if err != nil {
				zap.L().Warn("batch: request rejected",
					zap.Int("index", i),
					zap.Error(err),
				)
				env = intel.GenericFallback(req, "", time.Now().UTC())
			}
			envelopes[i] = env
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "batch: run")
	}

	return envelopes, nil
}

func init() {
	batchCmd.Flags().StringVarP(&batchInput, "input", "i", "", "path to JSON array of intelligence requests (required)")
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", "path for the JSON envelope array (default stdout)")
	_ = batchCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(batchCmd)
}
