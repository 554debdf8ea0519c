package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/geocraft/sldcat/pkg/legend"
	"github.com/geocraft/sldcat/pkg/log"
	"github.com/geocraft/sldcat/pkg/ui/browser"
)

type BrowseArgs struct {
	*RootArgs

	Path       string
	Layer      string
	Attributes []string
	Watch      bool
}

func NewBrowseArgs(rootArgs *RootArgs) *BrowseArgs {
	return &BrowseArgs{RootArgs: rootArgs}
}

func (ba *BrowseArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&ba.Watch, "watch", "w", false, "Watch the stylesheet and reload on changes")
	cmd.Flags().StringVar(&ba.Layer, "layer", "", "Resolve the stylesheet by routing rules for this layer")
	cmd.Flags().StringArrayVar(&ba.Attributes, "attr", nil, "Layer attribute as key=value, may be repeated")
}

func NewBrowseCmd(ba *BrowseArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse [path]",
		Short: "Browse a stylesheet interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				ba.Path = args[0]
			}

			return runBrowse(cmd, ba)
		},
	}
	ba.AddFlags(cmd)

	return cmd
}

func runBrowse(cmd *cobra.Command, ba *BrowseArgs) error {
	attrs, err := ParseAttributes(ba.Attributes)
	if err != nil {
		return err
	}

	sheet, err := ResolveSheet(ba.Path, ba.Layer, attrs)
	if err != nil {
		return err
	}

	// If stdout is not a terminal, actually "concatenate": print the legend
	// and any lint findings instead of starting the TUI.
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		mustN(fmt.Fprint(cmd.OutOrStdout(), legend.NewRenderer().Render(sheet)))

		for _, p := range sheet.Lint() {
			mustN(fmt.Fprintln(cmd.OutOrStdout(), p.String()))
		}

		return nil
	}

	// The TUI owns the terminal; buffer logs and replay them on exit.
	logBuf := log.NewCircularBuffer(100)

	logHandler, err := log.CreateHandlerWithStrings(logBuf, ba.LogLevel, ba.LogFormat)
	if err != nil {
		return fmt.Errorf("create log handler: %w", err)
	}

	slog.SetDefault(slog.New(logHandler))

	p := tea.NewProgram(browser.New(sheet), tea.WithAltScreen())

	if ba.Watch && ba.Path != "" {
		watcher, err := watchSheet(p, ba.Path)
		if err != nil {
			return err
		}
		defer watcher.Close() //nolint:errcheck // Best-effort cleanup.
	}

	_, err = p.Run()

	if logBuf.Len() > 0 {
		_, _ = logBuf.WriteTo(cmd.ErrOrStderr())
	}

	if err != nil {
		return fmt.Errorf("tea: %w", err)
	}

	return nil
}

// watchSheet reloads the stylesheet on file events and feeds the result to
// the running program. The parent directory is watched, editors that
// replace the file on save would otherwise detach the watch.
func watchSheet(p *tea.Program, path string) (*fsnotify.Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	err = watcher.Add(filepath.Dir(absPath))
	if err != nil {
		watcher.Close() //nolint:errcheck,gosec // Already failing.

		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(absPath), err)
	}

	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}

				if filepath.Clean(ev.Name) != absPath {
					continue
				}

				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}

				slog.Debug("stylesheet changed", slog.String("path", absPath))

				msg := browser.ReloadedMsg{}

				sheet, err := LoadSheet(path)
				if err != nil {
					msg.Err = err
				} else {
					msg.Sheet = sheet
					msg.Problems = sheet.Lint()
				}

				p.Send(msg)

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}

				slog.Error("watch", slog.Any("error", err))
			}
		}
	}()

	return watcher, nil
}
