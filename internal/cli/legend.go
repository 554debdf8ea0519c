package cli

import (
	"fmt"
	"os"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/charmbracelet/lipgloss"

	"github.com/geocraft/sldcat/pkg/legend"
)

func NewLegendCmd(_ *RootArgs) *cobra.Command {
	return &cobra.Command{
		Use:   "legend [path]",
		Short: "Print a terminal legend for a stylesheet",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) > 0 {
				path = args[0]
			}

			sheet, err := ResolveSheet(path, "", nil)
			if err != nil {
				return err
			}

			// Swatches only make sense on a color terminal.
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				lipgloss.SetColorProfile(termenv.Ascii)
			}

			mustN(fmt.Fprint(cmd.OutOrStdout(), legend.NewRenderer().Render(sheet)))

			return nil
		},
	}
}
