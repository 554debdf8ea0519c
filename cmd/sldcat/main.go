package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/geocraft/sldcat/internal/cli"
	"github.com/geocraft/sldcat/internal/telemetry"
	"github.com/geocraft/sldcat/pkg/version"
)

func main() {
	ctx := context.Background()

	shutdown, err := telemetry.Setup(ctx)
	if err != nil {
		slog.Error("telemetry setup", slog.Any("error", err))
		os.Exit(1)
	}

	err = fang.Execute(ctx, cli.NewRootCmd(),
		fang.WithVersion(version.GetVersion()),
		fang.WithErrorHandler(cli.ErrorHandler),
		fang.WithNotifySignal(os.Interrupt),
	)

	if sErr := shutdown(ctx); sErr != nil {
		slog.Error("telemetry shutdown", slog.Any("error", sErr))
	}

	if err != nil {
		os.Exit(1)
	}
}
