package cli

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"
)

// AvailableOptions holds flags for the available command.
type AvailableOptions struct {
	*RootOptions
	RequestOptions
	Timeout time.Duration
}

// NewAvailableCommand creates the available command.
func NewAvailableCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AvailableOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "available",
		Short: "Compute the filter options left by a selection",
		Long: `Load a dataset, apply the filter selection and fold the selected
entities back into a filter set listing the options that are still available.

  trialfacet available --entity adverse-events --data s3://bucket/ae.json.zst --filters req.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAvailable(cmd, opts)
		},
	}

	opts.bind(cmd)
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "abort after this long (0 = no limit)")

	return cmd
}

func runAvailable(cmd *cobra.Command, opts *AvailableOptions) error {
	cfg := opts.Config
	if cfg.Data == "" {
		return errors.New("no dataset: set --data or data in the config file")
	}
	e, err := opts.entity()
	if err != nil {
		return err
	}
	p, err := opts.payload(cmd, cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	store, name, err := openStore(ctx, cfg, cfg.Data)
	if err != nil {
		return err
	}
	svc, err := e.Open(ctx, store, name, opts.serviceOptions(cmd)...)
	if err != nil {
		return err
	}
	defer svc.Close()

	out, err := svc.Available(ctx, p, opts.ids())
	if err != nil {
		return err
	}
	return write(cmd, cfg, out)
}
