package cmd

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"repotext/pkg/scan"
	"repotext/pkg/watch"
)

// runWatch dumps the repository once and then regenerates the artifact after
// every burst of changes until ctx is cancelled.
func runWatch(ctx context.Context, opts *rootOptions) error {
	pipeline, root, err := opts.newPipeline()
	if err != nil {
		return err
	}
	combineOpts, err := opts.combineOptions()
	if err != nil {
		return err
	}

	// The scope is fixed when watching starts; later config edits still apply to
	// each run's discovery and filtering.
	plan, err := pipeline.Plan(combineOpts)
	if err != nil {
		return err
	}
	scope, err := scan.NewScope(plan.Config.Include, plan.Exclude)
	if err != nil {
		return fmt.Errorf("invalid include patterns: %w", err)
	}

	source, err := watch.NewFSNotifySource(root, scope, opts.logger)
	if err != nil {
		return fmt.Errorf("failed to start watching: %w", err)
	}
	defer func() {
		if err := source.Close(); err != nil {
			opts.logger.Warn("Failed to close watcher", zap.Error(err))
		}
	}()

	fmt.Fprintln(opts.stdout, infoStyle.Render("Watching repository for changes..."))
	fmt.Fprintln(opts.stdout, dimStyle.Render("Press Ctrl+C to stop"))

	regenerate := func(ctx context.Context) error {
		outputPath, err := pipeline.Run(ctx, combineOpts)
		if err != nil {
			return err
		}
		fmt.Fprintln(opts.stdout, successStyle.Render("✨ Updated "+outputPath))
		return nil
	}
	if err := regenerate(ctx); err != nil {
		opts.logger.Error("Initial dump failed", zap.Error(err))
	}

	watcher := watch.New(source, regenerate, watch.Options{
		Debounce: time.Duration(plan.Config.Watch.DebounceMs) * time.Millisecond,
		Logger:   opts.logger,
	})
	if err := watcher.Run(ctx); err != nil {
		return err
	}
	fmt.Fprintln(opts.stdout, dimStyle.Render("Stopped watching."))
	return nil
}
