package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mvp-joe/symseek/internal/cache"
	"github.com/mvp-joe/symseek/internal/config"
	"github.com/mvp-joe/symseek/internal/discovery"
	"github.com/mvp-joe/symseek/internal/logger"
	"github.com/mvp-joe/symseek/internal/nav"
	"github.com/mvp-joe/symseek/internal/session"
	"github.com/mvp-joe/symseek/internal/symbols"
	"github.com/mvp-joe/symseek/internal/tui"
)

// runFind builds the symbol index, runs the interactive finder, and, on
// confirmation, navigates exactly once.
func runFind(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	root := rootFlag
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("get working directory: %w", err)
		}
		root = wd
	}

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if len(extFlag) > 0 {
		cfg.Scan.Extensions = extFlag
	}
	if strictFlag {
		cfg.Build.Strict = true
	}
	if noCacheFlag {
		cfg.Cache.Enabled = false
	}

	logger.SetVerbose(verbose)
	if verbose {
		// The TUI owns the terminal, so debug output goes to a file.
		logPath := filepath.Join(root, ".symseek", "symseek.log")
		if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err == nil {
			if f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
				defer f.Close()
				logger.SetOutput(f)
			}
		}
	}

	index, err := buildIndex(ctx, root, cfg)
	if err != nil {
		return fmt.Errorf("build symbol index: %w", err)
	}
	logger.Debug("indexed %d symbols under %s", index.Len(), root)

	controller := session.New(index)

	// Render to stderr so stdout stays clean for the print target.
	program := tea.NewProgram(tui.New(controller),
		tea.WithAltScreen(),
		tea.WithOutput(os.Stderr),
		tea.WithContext(ctx),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run finder: %w", err)
	}

	rec, ok := controller.Chosen()
	if !ok {
		return nil
	}

	var target nav.Target
	if socketFlag != "" {
		target = nav.NewNvimTarget(socketFlag)
	} else {
		target = nav.NewPrintTarget()
	}

	// Navigation failures are reported but the process exits normally:
	// the interactive session already ended.
	if err := target.Navigate(ctx, rec); err != nil {
		fmt.Fprintf(os.Stderr, "navigation failed: %v\n", err)
	}
	return nil
}

// buildIndex assembles the builder with discovery, optional cache, and
// progress reporting.
func buildIndex(ctx context.Context, root string, cfg *config.Config) (*symbols.Index, error) {
	scanner, err := discovery.NewScanner(root, cfg.Scan.Extensions, cfg.Scan.Ignore, cfg.Scan.RespectGitignore)
	if err != nil {
		return nil, err
	}

	builder := symbols.NewBuilder(scanner).
		WithStrict(cfg.Build.Strict).
		WithProgress(NewProgressReporter(quietFlag))

	if cfg.Cache.Enabled {
		store, err := cache.Open(cfg.CachePath(root))
		if err != nil {
			logger.Warn("symbol cache unavailable: %v", err)
		} else {
			defer store.Close()
			builder = builder.WithStore(store)
		}
	}

	return builder.Build(ctx)
}
