package cli

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/geocraft/sldcat/pkg/log"
	"github.com/geocraft/sldcat/pkg/style"
)

type EvalArgs struct {
	*RootArgs

	Layer      string
	Attributes []string
	Quiet      bool
}

func NewEvalCmd(rootArgs *RootArgs) *cobra.Command {
	ea := &EvalArgs{RootArgs: rootArgs}

	cmd := &cobra.Command{
		Use:   "eval [path] [values...]",
		Short: "Classify attribute values into styling buckets",
		Long: `Classify numeric attribute values into styling buckets.

Values are taken from the arguments, or read line by line from stdin when
none are given. A value that matches no rule is an authoring defect and is
reported instead of silently falling back to a default style.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, values := splitPathArgs(args)

			sheet, err := ResolveSheet(path, ea.Layer, nil)
			if err != nil {
				return err
			}

			if len(values) == 0 {
				values, err = readValues(cmd)
				if err != nil {
					return err
				}
			}

			return evalValues(cmd, ea, sheet.Field(), values, sheet)
		},
	}

	cmd.Flags().StringVar(&ea.Layer, "layer", "", "Resolve the stylesheet by routing rules for this layer")
	cmd.Flags().BoolVarP(&ea.Quiet, "quiet", "q", false, "Suppress output, exit non-zero on the first unmatched value")

	return cmd
}

// splitPathArgs separates the optional leading path argument from the
// numeric values. A first argument that parses as a number is a value.
func splitPathArgs(args []string) (string, []string) {
	if len(args) == 0 {
		return "", nil
	}

	if _, err := strconv.ParseFloat(args[0], 64); err == nil {
		return "", args
	}

	return args[0], args[1:]
}

func readValues(cmd *cobra.Command) ([]string, error) {
	var values []string

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		line := scanner.Text()
		if line != "" {
			values = append(values, line)
		}
	}

	err := scanner.Err()
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}

	return values, nil
}

func evalValues(cmd *cobra.Command, ea *EvalArgs, field string, values []string, sheet *style.Sheet) error {
	ctx, span := otel.Tracer(cmdName).Start(cmd.Context(), "eval", trace.WithAttributes(
		attribute.String("stylesheet", sheet.Name()),
		attribute.Int("values", len(values)),
	))
	defer span.End()

	logger := log.WithContext(ctx)

	var evalErr error

	for _, raw := range values {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("invalid value %q: %w", raw, err)
		}

		s, err := sheet.Evaluate(v)
		if err != nil {
			var noMatch *style.NoMatchError
			if !errors.As(err, &noMatch) {
				return err
			}

			if ea.Quiet {
				return err
			}

			logger.Error("no match", slog.String(field, raw))
			evalErr = errors.Join(evalErr, err)

			continue
		}

		if !ea.Quiet {
			mustN(fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", raw, s.Title, s.Fill))
		}
	}

	return evalErr
}
