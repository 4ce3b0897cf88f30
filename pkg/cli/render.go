package cli

import (
	"fmt"
	"maps"

	"github.com/spf13/cobra"

	"github.com/getmockd/vmtransform/pkg/cli/internal/flags"
	"github.com/getmockd/vmtransform/pkg/cli/internal/output"
	"github.com/getmockd/vmtransform/pkg/stub"
	"github.com/getmockd/vmtransform/pkg/transformer"
)

// renderOutput is the --json form of a render result.
type renderOutput struct {
	Rendered bool                     `json:"rendered"`
	Response *stub.ResponseDefinition `json:"response"`
}

func newRenderCmd(g *globalFlags) *cobra.Command {
	var params flags.KeyValues

	cmd := &cobra.Command{
		Use:   "render <fixture.yaml>",
		Short: "Run a stub fixture through the transformer",
		Long: `Render loads a fixture pairing a request with a stub response and prints
the response body the transformer produces. Responses whose body file is not
a template are printed unchanged.`,
		Example: `  vmtransform render fixtures/user.yaml
  vmtransform render --files ./__files --param query=active fixtures/user.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig(cmd)
			if err != nil {
				return err
			}
			fixture, err := stub.LoadFixture(args[0])
			if err != nil {
				return err
			}

			rd := &fixture.Response
			if params.Len() > 0 {
				merged := maps.Clone(rd.TransformerParameters)
				if merged == nil {
					merged = stub.Parameters{}
				}
				params.Each(func(k, v string) { merged[k] = v })
				rd.TransformerParameters = merged
			}

			opts := append(cfg.TransformerOptions(), transformer.WithLogger(logger(cmd, cfg)))
			tr := transformer.New(opts...)

			files := stub.NewDirSource(cfg.Files)
			result, err := tr.Transform(&fixture.Request, rd, files, rd.TransformerParameters)
			if err != nil {
				return err
			}

			if g.jsonOutput {
				return output.JSON(cmd.OutOrStdout(), renderOutput{
					Rendered: result != rd,
					Response: result,
				})
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), result.Body)
			return err
		},
	}
	cmd.Flags().Var(&params, "param", "Transformer parameter as key=value (repeatable)")
	return cmd
}
