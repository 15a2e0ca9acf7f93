package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/metaqueue/pkg/logger"
	"github.com/dmitrymomot/metaqueue/pkg/queue"
)

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
}

const shutdownTimeout = 10 * time.Second

func newRunCommand(ctx *commandContext) *cobra.Command {
	var retryFailed bool
	var progressFlag string

	cmd := &cobra.Command{
		Use:   "run <path>...",
		Short: "Extract metadata from image files",
		Long: "Extract metadata from the given files. Directories are scanned " +
			"(non-recursively) for .jpg, .jpeg, .png and .gif files.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := collectFiles(args)
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				return errors.New("no image files found")
			}

			cfg, err := ctx.loadConfig()
			if err != nil {
				return err
			}
			log, err := ctx.newLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			payloads := make([]queue.Payload, 0, len(paths))
			for _, p := range paths {
				fp, err := queue.NewFilePayload(p)
				if err != nil {
					return fmt.Errorf("inspect %s: %w", p, err)
				}
				payloads = append(payloads, fp)
			}

			runCtx := cmd.Context()
			a, err := newApp(runCtx, cfg, log)
			if err != nil {
				return err
			}
			defer func() {
				closeCtx, cancel := context.WithTimeout(context.WithoutCancel(runCtx), shutdownTimeout)
				defer cancel()
				if cerr := a.Close(closeCtx); cerr != nil {
					log.Error("shutdown failed", logger.Error(cerr))
				}
			}()

			var progress io.Writer
			if showProgress(progressFlag, cmd.ErrOrStderr()) {
				progress = cmd.ErrOrStderr()
			}

			items, runErr := a.process(runCtx, payloads, retryFailed, progress)

			out := cmd.OutOrStdout()
			if len(items) > 0 {
				fmt.Fprintln(out, renderResults(items))
			}
			fmt.Fprintln(out, summarize(items))
			if usage, err := a.usage(runCtx); err == nil {
				fmt.Fprintln(out, formatUsage(usage))
			}
			return runErr
		},
	}

	cmd.Flags().BoolVar(&retryFailed, "retry-failed", false, "Retry failed files once before reporting")
	cmd.Flags().StringVar(&progressFlag, "progress", "auto", "Print progress lines: auto, always or never")

	return cmd
}

// collectFiles expands directories into their image files. Explicit file
// arguments are kept whatever their extension.
func collectFiles(args []string) ([]string, error) {
	var paths []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		paths = append(paths, p)
	}

	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, fmt.Errorf("resolve path: %w", err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("file does not exist: %s", abs)
			}
			return nil, fmt.Errorf("inspect file: %w", err)
		}
		if !info.IsDir() {
			add(abs)
			continue
		}

		entries, err := os.ReadDir(abs)
		if err != nil {
			return nil, fmt.Errorf("read directory: %w", err)
		}
		var found []string
		for _, e := range entries {
			if !e.Type().IsRegular() {
				continue
			}
			if _, ok := imageExtensions[strings.ToLower(filepath.Ext(e.Name()))]; ok {
				found = append(found, filepath.Join(abs, e.Name()))
			}
		}
		slices.Sort(found)
		for _, p := range found {
			add(p)
		}
	}
	return paths, nil
}

func showProgress(mode string, w io.Writer) bool {
	switch strings.ToLower(mode) {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
