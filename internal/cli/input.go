package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hupe1980/trialfacet/catalog"
	"github.com/hupe1980/trialfacet/codec"
	"github.com/hupe1980/trialfacet/filter"
	"github.com/hupe1980/trialfacet/metadata"
)

// RequestOptions holds the flags shared by commands taking a filter request.
type RequestOptions struct {
	Entity  string
	Filters string
	IDs     []int64
}

func (r *RequestOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&r.Entity, "entity", "e", "", "entity type (see 'trialfacet entities')")
	cmd.Flags().StringVarP(&r.Filters, "filters", "f", "", "filter payload file, '-' for stdin (default: no filters)")
	cmd.Flags().Int64SliceVar(&r.IDs, "ids", nil, "restrict to these entity ids")
	_ = cmd.MarkFlagRequired("entity")
}

func (r *RequestOptions) entity() (catalog.Entity, error) {
	e, ok := catalog.Lookup(r.Entity)
	if !ok {
		return nil, fmt.Errorf("unknown entity %q: must be one of %v", r.Entity, catalog.Names())
	}
	return e, nil
}

func (r *RequestOptions) ids() []metadata.Value {
	if len(r.IDs) == 0 {
		return nil
	}
	return metadata.Ints(r.IDs...)
}

// payload reads the filter payload. Files are decoded by extension, stdin
// with the configured codec.
func (r *RequestOptions) payload(cmd *cobra.Command, cfg *Config) (filter.Payload, error) {
	var p filter.Payload
	if r.Filters == "" {
		return p, nil
	}

	var (
		in io.Reader
		c  codec.Codec
	)
	if r.Filters == "-" {
		in = cmd.InOrStdin()
		c, _ = codec.ByName(cfg.Codec)
	} else {
		f, err := os.Open(r.Filters)
		if err != nil {
			return p, fmt.Errorf("read filters: %w", err)
		}
		defer f.Close()
		in = f
		c = codec.ForExtension(r.Filters)
	}
	if err := c.NewDecoder(in).Decode(&p); err != nil {
		return p, fmt.Errorf("decode filters as %s: %w", c.Name(), err)
	}
	return p, nil
}

// write encodes v with the configured codec to the command's stdout.
func write(cmd *cobra.Command, cfg *Config, v any) error {
	c, _ := codec.ByName(cfg.Codec)
	return c.NewEncoder(cmd.OutOrStdout()).Encode(v)
}
