package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/geocraft/sldcat/api/v1beta1/stylesheets"
	"github.com/geocraft/sldcat/pkg/sld"
)

func NewConvertCmd(_ *RootArgs) *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "convert path",
		Short: "Convert between SLD XML and the YAML stylesheet kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sheet, err := LoadSheet(args[0])
			if err != nil {
				return err
			}

			switch to {
			case "yaml":
				doc, err := stylesheets.FromSheet(sheet)
				if err != nil {
					return err
				}

				b, err := doc.MarshalYAML()
				if err != nil {
					return err
				}

				mustN(fmt.Fprint(cmd.OutOrStdout(), string(b)))

			case "sld", "xml":
				doc, err := sld.FromSheet(sheet)
				if err != nil {
					return err
				}

				b, err := doc.Marshal()
				if err != nil {
					return err
				}

				mustN(fmt.Fprint(cmd.OutOrStdout(), string(b)))

			default:
				return fmt.Errorf("unknown target format %q, want yaml or sld", to)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "yaml", "Target format, one of: [yaml, sld]")

	err := cmd.RegisterFlagCompletionFunc("to",
		cobra.FixedCompletions([]string{"yaml", "sld"}, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	return cmd
}
