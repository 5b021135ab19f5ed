package cli

import (
	"github.com/spf13/cobra"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	RequestOptions
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile a filter selection into a predicate",
		Long: `Compile a filter selection and print the predicate in its compact
form and as a DuckDB WHERE clause. No dataset is needed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := opts.entity()
			if err != nil {
				return err
			}
			p, err := opts.payload(cmd, opts.Config)
			if err != nil {
				return err
			}
			compiled, err := e.Compile(p, opts.ids())
			if err != nil {
				return err
			}
			return write(cmd, opts.Config, compiled)
		},
	}

	opts.bind(cmd)

	return cmd
}
