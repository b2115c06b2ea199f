package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"repotext/pkg/combine"
	"repotext/pkg/config"
	"repotext/pkg/logging"
	"repotext/pkg/selector"
	"repotext/pkg/version"
)

// GlobalIgnoreEnv names the environment variable holding the default global ignore file.
const GlobalIgnoreEnv = "REPOTEXT_GLOBAL_IGNORE"

// rootOptions holds the flags and shared state of one invocation.
type rootOptions struct {
	configPath   string
	output       string
	dir          string
	globalIgnore string
	watch        bool
	tree         bool
	interactive  bool
	strictConfig bool
	debug        bool

	logger      *zap.Logger
	stdout      io.Writer
	stderr      io.Writer
	newSelector func(*zap.Logger) selector.Selector
}

// NewRootCmd builds the repotext command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&rootOptions{newSelector: selector.New})
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "repotext",
		Short: "Dump repository file contents into a single annotated text file",
		Long: `repotext combines the files of a repository into one text file, each file
framed by a header with its path, optionally preceded by a directory tree.
It is designed for preparing a codebase as input for language models.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(opts.debug, "repotext", version.Get().Version)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			opts.logger = logger
			opts.stdout = cmd.OutOrStdout()
			opts.stderr = cmd.ErrOrStderr()
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logging.Sync(opts.logger)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.watch && opts.interactive {
				return fmt.Errorf("--watch and --interactive cannot be combined")
			}
			switch {
			case opts.watch:
				return runWatch(cmd.Context(), opts)
			case opts.interactive:
				return runInteractive(cmd.Context(), opts)
			default:
				return runCombine(cmd.Context(), opts)
			}
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to config file")
	flags.StringVarP(&opts.output, "output", "o", "", "output file path")
	flags.BoolVarP(&opts.watch, "watch", "w", false, "watch for file changes and update output file")
	flags.BoolVarP(&opts.tree, "tree", "t", false, "include a directory tree at the top of the output")
	flags.BoolVarP(&opts.interactive, "interactive", "i", false, "select the files to dump interactively")
	flags.StringVarP(&opts.dir, "dir", "d", ".", "repository root to scan")
	flags.StringVar(&opts.globalIgnore, "global-ignore", os.Getenv(GlobalIgnoreEnv),
		"gitignore-style file applied to every repository (env "+GlobalIgnoreEnv+")")
	flags.BoolVar(&opts.strictConfig, "strict-config", false, "fail on an invalid config file instead of using defaults")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// Execute runs the root command. Errors are printed before returning.
func Execute(ctx context.Context) error {
	rootCmd := NewRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), errorStyle.Render("Error:"), err)
	}
	return err
}

// newPipeline wires the aggregation pipeline for the scan root.
func (o *rootOptions) newPipeline() (*combine.Pipeline, string, error) {
	root, err := filepath.Abs(o.dir)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve %s: %w", o.dir, err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, "", fmt.Errorf("failed to access repository root: %w", err)
	}
	if !info.IsDir() {
		return nil, "", fmt.Errorf("repository root %s is not a directory", root)
	}

	pipeline := combine.NewPipeline(combine.Deps{
		Root:             root,
		Config:           config.NewLoader(root, o.strictConfig, o.logger),
		GlobalIgnoreFile: o.globalIgnore,
		Logger:           o.logger,
	})
	return pipeline, root, nil
}

// combineOptions converts the flags into pipeline options. A relative --output is
// taken from the working directory, unlike the configured output path which is
// relative to the scan root.
func (o *rootOptions) combineOptions() (combine.Options, error) {
	output := o.output
	if output != "" && !filepath.IsAbs(output) {
		abs, err := filepath.Abs(output)
		if err != nil {
			return combine.Options{}, fmt.Errorf("failed to resolve output path: %w", err)
		}
		output = abs
	}
	return combine.Options{
		ConfigPath:  o.configPath,
		Output:      output,
		IncludeTree: o.tree,
	}, nil
}
