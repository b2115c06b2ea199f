package cmd

import (
	"context"
	"fmt"
)

// runInteractive lets the user pick files from the discovered candidates and
// dumps only those.
func runInteractive(ctx context.Context, opts *rootOptions) error {
	pipeline, _, err := opts.newPipeline()
	if err != nil {
		return err
	}
	combineOpts, err := opts.combineOptions()
	if err != nil {
		return err
	}

	candidates, err := pipeline.Candidates(ctx, combineOpts)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		fmt.Fprintln(opts.stdout, dimStyle.Render("No files found. Exiting."))
		return nil
	}

	selected, err := opts.newSelector(opts.logger).Select(ctx, candidates)
	if err != nil {
		return fmt.Errorf("interactive selection failed: %w", err)
	}
	if len(selected) == 0 {
		fmt.Fprintln(opts.stdout, dimStyle.Render("No files selected. Exiting."))
		return nil
	}

	combineOpts.Files = selected
	outputPath, err := pipeline.Run(ctx, combineOpts)
	if err != nil {
		return err
	}
	fmt.Fprintln(opts.stdout, successStyle.Render(
		fmt.Sprintf("✨ %d files have been dumped to %s", len(selected), outputPath)))
	return nil
}
