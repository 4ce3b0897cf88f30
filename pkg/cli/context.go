package cli

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/getmockd/vmtransform/pkg/cli/internal/output"
	"github.com/getmockd/vmtransform/pkg/stub"
	"github.com/getmockd/vmtransform/pkg/template"
	"github.com/getmockd/vmtransform/pkg/transformer"
)

func newContextCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "context <fixture.yaml>",
		Short: "Print the variables a template would see for a fixture",
		Long: `Context builds the template context for the fixture's request and prints
it as YAML in the order variables are defined. Tools such as dateRange are
shown by name.`,
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

			tr := transformer.New(cfg.TransformerOptions()...)
			ctx := tr.Context(&fixture.Request, fixture.Response.TransformerParameters)
			if g.jsonOutput {
				m := make(map[string]any, ctx.Len())
				for k, v := range ctx.All() {
					m[k] = displayValue(k, v)
				}
				return output.JSON(cmd.OutOrStdout(), m)
			}
			return output.YAML(cmd.OutOrStdout(), contextNode(ctx))
		},
	}
}

// contextNode renders ctx as a YAML mapping that keeps insertion order.
func contextNode(ctx *template.Context) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for k, v := range ctx.All() {
		key := &yaml.Node{Kind: yaml.ScalarNode, Value: k}
		var val yaml.Node
		if err := val.Encode(displayValue(k, v)); err != nil {
			val = yaml.Node{Kind: yaml.ScalarNode, Value: template.Stringify(v)}
		}
		node.Content = append(node.Content, key, &val)
	}
	return node
}

// displayValue shows tools by the name templates use for them; $date would
// otherwise print the current time.
func displayValue(name string, v any) any {
	switch x := v.(type) {
	case string, []string:
		return x
	case template.Tool:
		return name
	default:
		return template.Stringify(v)
	}
}
