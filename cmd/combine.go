package cmd

import (
	"context"
	"fmt"
)

// runCombine performs a single dump of the repository.
func runCombine(ctx context.Context, opts *rootOptions) error {
	pipeline, _, err := opts.newPipeline()
	if err != nil {
		return err
	}
	combineOpts, err := opts.combineOptions()
	if err != nil {
		return err
	}

	outputPath, err := pipeline.Run(ctx, combineOpts)
	if err != nil {
		return err
	}
	fmt.Fprintln(opts.stdout, successStyle.Render("✨ Repository contents have been dumped to "+outputPath))
	return nil
}
