package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/geocraft/sldcat/pkg/style"
)

// ErrLintFailed is returned when lint reports at least one error finding.
var ErrLintFailed = errors.New("lint failed")

func NewLintCmd(_ *RootArgs) *cobra.Command {
	return &cobra.Command{
		Use:   "lint [path]",
		Short: "Check a stylesheet for authoring defects",
		Long: `Check a stylesheet for authoring defects.

Malformed rules fail loading outright. On a loadable sheet, lint reports
filters that cannot match any value (errors) and value ranges covered by no
rule or by several rules (warnings).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) > 0 {
				path = args[0]
			}

			sheet, err := ResolveSheet(path, "", nil)
			if err != nil {
				return err
			}

			problems := sheet.Lint()
			if len(problems) == 0 {
				mustN(fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", sheet.Name()))

				return nil
			}

			failed := false

			for _, p := range problems {
				if p.Severity == style.SeverityError {
					failed = true
				}

				mustN(fmt.Fprintln(cmd.OutOrStdout(), p.String()))
			}

			if failed {
				return fmt.Errorf("%w: %s", ErrLintFailed, sheet.Name())
			}

			return nil
		},
	}
}
