package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/weft/internal/demo"
	"github.com/vango-dev/weft/pkg/snapshot"
)

func snapshotCmd(flags *globalFlags) *cobra.Command {
	var (
		target  string
		name    string
		ticks   int
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "snapshot <demo>",
		Short: "Write a JSON snapshot of a demo tree",
		Long: `Build a demo application, capture its node tree and store the
document in a directory or an S3 bucket.

The target defaults to snapshot.target from the configuration. S3 targets
take the form s3://bucket/prefix and read credentials from the standard
AWS_* environment variables.

Examples:
  weft snapshot counter
  weft snapshot todo --ticks 2 --name todo-2
  weft snapshot nav --target s3://my-bucket/weft`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			if target == "" {
				target = cfg.Snapshot.Target
			}
			if name == "" {
				name = args[0]
			}

			app, err := demo.New(args[0], cfg, flags.logger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			for i := 0; i < ticks; i++ {
				app.Tick()
			}

			store, err := snapshot.Open(target, snapshot.S3Options{
				Region:   cfg.Snapshot.Region,
				Endpoint: cfg.Snapshot.Endpoint,
			})
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			doc := snapshot.Capture(app.Builder)
			loc, err := store.Put(ctx, name, doc)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Wrote %d nodes to %s", doc.Root.Count(), loc)
			return nil
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "Directory or s3://bucket/prefix (default from config)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Snapshot name (default: demo name)")
	cmd.Flags().IntVarP(&ticks, "ticks", "t", 0, "Simulated interactions before capturing")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Upload timeout")

	return cmd
}
