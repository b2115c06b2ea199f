// File: pkg/combine/pipeline.go
package combine

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"repotext/pkg/config"
	"repotext/pkg/ignore"
	"repotext/pkg/scan"
)

// GitignoreFile is the ignore source read from the scan root.
const GitignoreFile = ".gitignore"

// ConfigProvider resolves the configuration for one run.
type ConfigProvider interface {
	Load(path string) (config.Config, error)
}

// Deps are the collaborators of a Pipeline.
type Deps struct {
	Root             string // Scan root; paths in the artifact are relative to it.
	Config           ConfigProvider
	Discoverer       scan.Discoverer
	FS               FileSystem
	GlobalIgnoreFile string // Optional ignore file applied before the root .gitignore.
	Logger           *zap.Logger
}

// Pipeline aggregates repository files into a single artifact.
type Pipeline struct {
	root         string
	config       ConfigProvider
	discoverer   scan.Discoverer
	fs           FileSystem
	globalIgnore string
	logger       *zap.Logger
}

// NewPipeline wires a Pipeline from its dependencies.
func NewPipeline(deps Deps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	fs := deps.FS
	if fs == nil {
		fs = OSFileSystem{}
	}
	discoverer := deps.Discoverer
	if discoverer == nil {
		discoverer = scan.NewWalker(deps.Root, logger)
	}
	provider := deps.Config
	if provider == nil {
		provider = config.NewLoader(deps.Root, false, logger)
	}
	return &Pipeline{
		root:         deps.Root,
		config:       provider,
		discoverer:   discoverer,
		fs:           fs,
		globalIgnore: deps.GlobalIgnoreFile,
		logger:       logger,
	}
}

// Plan resolves the configuration and output location for a run. The artifact is
// appended to the exclusions so that it never includes itself.
func (p *Pipeline) Plan(opts Options) (Plan, error) {
	cfg, err := p.config.Load(opts.ConfigPath)
	if err != nil {
		return Plan{}, fmt.Errorf("failed to load config: %w", err)
	}

	output := opts.Output
	if output == "" {
		output = cfg.Output.Path
	}
	if !filepath.IsAbs(output) {
		output = filepath.Join(p.root, output)
	}

	plan := Plan{
		Config:     cfg,
		OutputPath: output,
		Exclude:    append([]string(nil), cfg.Exclude...),
	}
	if rel, ok := p.relativeToRoot(output); ok {
		plan.OutputRel = rel
		plan.Exclude = lo.Uniq(append(plan.Exclude, rel, TempFilePattern(rel)))
	}
	return plan, nil
}

// Run regenerates the artifact from scratch and returns the path it was written to.
func (p *Pipeline) Run(ctx context.Context, opts Options) (string, error) {
	startTime := time.Now()

	plan, err := p.Plan(opts)
	if err != nil {
		return "", err
	}
	cfg := plan.Config

	filter, err := p.buildFilter(plan.Exclude)
	if err != nil {
		return "", fmt.Errorf("failed to load ignore patterns: %w", err)
	}

	candidates := opts.Files
	if candidates == nil {
		candidates, err = p.discoverer.Discover(ctx, cfg.Include, plan.Exclude)
		if err != nil {
			return "", fmt.Errorf("failed to discover files: %w", err)
		}
	}
	files := filterPaths(candidates, filter)
	p.logger.Debug("Filtered candidate files",
		zap.Int("candidates", len(candidates)),
		zap.Int("files", len(files)))

	var artifact strings.Builder
	if opts.IncludeTree || cfg.Tree.Enabled {
		artifact.WriteString(GenerateTree(files))
		artifact.WriteString("\n")
	}
	serializer := NewSerializer(p.fs, p.root, cfg.Output.MaxFileSizeKB, p.logger)
	artifact.WriteString(serializer.GenerateContent(files))

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := p.fs.WriteText(plan.OutputPath, artifact.String()); err != nil {
		p.logger.Error("Failed to write artifact", zap.String("file", plan.OutputPath), zap.Error(err))
		return "", fmt.Errorf("failed to write output: %w", err)
	}

	p.logger.Info("Wrote artifact",
		zap.String("outputFile", plan.OutputPath),
		zap.Int("totalFiles", len(files)),
		zap.String("size", humanize.Bytes(uint64(artifact.Len()))),
		zap.Duration("elapsed", time.Since(startTime)))
	return plan.OutputPath, nil
}

// Candidates lists the discoverable files for the current configuration with all
// exclusions applied. It is the input offered to interactive selection.
func (p *Pipeline) Candidates(ctx context.Context, opts Options) ([]string, error) {
	plan, err := p.Plan(opts)
	if err != nil {
		return nil, err
	}
	filter, err := p.buildFilter(plan.Exclude)
	if err != nil {
		return nil, fmt.Errorf("failed to load ignore patterns: %w", err)
	}
	candidates, err := p.discoverer.Discover(ctx, plan.Config.Include, plan.Exclude)
	if err != nil {
		return nil, fmt.Errorf("failed to discover files: %w", err)
	}
	return filterPaths(candidates, filter), nil
}

// buildFilter combines the global ignore file, the root .gitignore and the exclusions.
func (p *Pipeline) buildFilter(exclude []string) (*ignore.GitIgnore, error) {
	var sources []string
	for _, file := range []string{p.globalIgnore, filepath.Join(p.root, GitignoreFile)} {
		if file == "" || !p.fs.Exists(file) {
			continue
		}
		content, err := p.fs.ReadText(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		p.logger.Debug("Loaded ignore file", zap.String("file", file))
		sources = append(sources, content)
	}
	return ignore.NewFilter(strings.Join(sources, "\n"), exclude, p.logger), nil
}

// relativeToRoot returns target relative to the scan root when it lies inside it.
func (p *Pipeline) relativeToRoot(target string) (string, bool) {
	absRoot, err := filepath.Abs(p.root)
	if err != nil {
		return "", false
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(absRoot, absTarget)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// filterPaths drops excluded paths and returns the rest normalized, unique and sorted.
func filterPaths(candidates []string, filter *ignore.GitIgnore) []string {
	files := lo.FilterMap(candidates, func(c string, _ int) (string, bool) {
		c = strings.TrimPrefix(path.Clean(filepath.ToSlash(c)), "./")
		return c, c != "." && !filter.IsExcluded(c)
	})
	files = lo.Uniq(files)
	sort.Strings(files)
	return files
}
