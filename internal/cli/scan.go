package cli

import (
	"context"
	"fmt"
	"maps"
	"path/filepath"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/depinventory/internal/config"
	"github.com/matzehuels/depinventory/pkg/buildinfo"
	"github.com/matzehuels/depinventory/pkg/cache"
	pkgio "github.com/matzehuels/depinventory/pkg/io"
	"github.com/matzehuels/depinventory/pkg/manifest/ecosystems"
	"github.com/matzehuels/depinventory/pkg/walk"
)

// scanFlags holds command-line overrides for a scan.
type scanFlags struct {
	output        string
	workers       int
	skipDirs      []string
	nugetPackages []string
	maxFileSize   int64
	noCache       bool
	summary       bool
	quiet         bool
}

// scanCommand creates the scan command.
func (c *CLI) scanCommand() *cobra.Command {
	var flags scanFlags

	cmd := &cobra.Command{
		Use:   "scan [path...]",
		Short: "Inventory the dependencies declared under one or more directories",
		Long: `Scan walks each path, parses every recognised manifest and writes the
declared dependencies to a JSON array.

Files that cannot be read or parsed are reported and skipped. When several
paths are given, the second and later inventories get a -N suffix.`,
		Example: `  # Scan the current directory
  depinventory scan

  # Scan two checkouts in parallel with a per-source summary
  depinventory scan ./api ./web --workers 8 --summary -o out/deps.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			flags.apply(cmd, &cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return c.runScan(cmd.Context(), args, cfg, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default: <output_dir>/dependencies.json)")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "concurrent parsers (default: number of CPUs)")
	cmd.Flags().StringArrayVar(&flags.skipDirs, "skip-dir", nil, "additional directory name to skip (repeatable)")
	cmd.Flags().StringArrayVar(&flags.nugetPackages, "nuget-packages", nil, "NuGet global packages folder for license lookup (repeatable)")
	cmd.Flags().Int64Var(&flags.maxFileSize, "max-file-size", 0, "largest manifest to read, in bytes")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable the parse cache")
	cmd.Flags().BoolVar(&flags.summary, "summary", false, "print a table of dependencies per source")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "suppress the progress spinner")

	return cmd
}

// apply overrides cfg with the flags the user set explicitly.
func (f scanFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	set := cmd.Flags().Changed
	if set("output") {
		cfg.OutputDir, cfg.OutputFile = filepath.Dir(f.output), filepath.Base(f.output)
	}
	if set("workers") {
		cfg.Workers = f.workers
	}
	if set("skip-dir") {
		cfg.SkipDirs = append(cfg.SkipDirs, f.skipDirs...)
	}
	if set("nuget-packages") {
		cfg.NuGetPackages = f.nugetPackages
	}
	if set("max-file-size") {
		cfg.MaxFileSize = f.maxFileSize
	}
	if f.noCache {
		cfg.Cache.Enabled = false
	}
}

func (c *CLI) runScan(ctx context.Context, roots []string, cfg config.Config, flags scanFlags) error {
	runID := uuid.NewString()
	logger := loggerFromContext(ctx).With("run", runID[:8])

	parseCache := newCache(cfg.Cache, logger)
	defer parseCache.Close()

	opts := walk.Options{
		Registry:    ecosystems.Default(ecosystems.Options{NuGetPackages: cfg.NuGetPackages}),
		Workers:     cfg.Workers,
		SkipDirs:    cfg.SkipDirs,
		MaxFileSize: cfg.MaxFileSize,
		Cache:       parseCache,
		Keyer:       cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.CacheScope()),
		TTL:         cfg.Cache.TTL,
	}
	logger.Debug("starting scan", "roots", len(roots), "workers", opts.Workers, "cache", cfg.Cache.Enabled, "upload", cfg.Upload)

	for i, root := range roots {
		if err := c.scanRoot(ctx, root, cfg.OutputPath(i), logger, opts, flags); err != nil {
			return err
		}
	}
	return nil
}

func (c *CLI) scanRoot(ctx context.Context, root, output string, logger *log.Logger, opts walk.Options, flags scanFlags) error {
	stats := &scanStats{}
	restore := stats.install()
	defer restore()

	var spinner *Spinner
	if !flags.quiet && logger.GetLevel() > log.DebugLevel {
		spinner = newSpinnerWithContext(ctx, "Scanning "+root)
		stats.spinner = spinner
		spinner.Start()
	}

	prog := newProgress(logger)
	path, err := walk.Walk(ctx, root, output, walk.FromCharm(logger.With("root", root)), opts)
	if err != nil {
		switch {
		case spinner == nil:
		case spinner.Cancelled():
			spinner.Stop()
			printWarning("Scan of %s interrupted", root)
		default:
			spinner.StopWithError("Scan of " + root + " failed")
		}
		return fmt.Errorf("scan %s: %w", root, err)
	}

	summary := stats.Summary()
	prog.done(fmt.Sprintf("Scanned %s", root))

	if spinner != nil {
		spinner.StopWithSuccess("Inventoried " + root)
	} else {
		printSuccess("Inventoried %s", root)
	}
	printScanStats(summary)
	printFile(path)

	if summary.Failures > 0 {
		printWarning("%d manifests could not be parsed", summary.Failures)
		printNextStep("Show the skipped files", fmt.Sprintf("%s scan -v %s", appName, root))
	}
	if flags.summary {
		return printSourceSummary(path)
	}
	return nil
}

// printSourceSummary reads the written inventory back and tabulates it by
// source.
func printSourceSummary(path string) error {
	entries, err := pkgio.ImportJSON(path)
	if err != nil {
		return fmt.Errorf("read inventory: %w", err)
	}

	counts := map[string]int{}
	licensed := map[string]int{}
	for _, e := range entries {
		counts[e.Source()]++
		if e.License() != "" {
			licensed[e.Source()]++
		}
	}

	rows := make([][]string, 0, len(counts))
	for _, src := range slices.Sorted(maps.Keys(counts)) {
		rows = append(rows, []string{src, fmt.Sprint(counts[src]), fmt.Sprint(licensed[src])})
	}
	total := 0
	for _, n := range licensed {
		total += n
	}
	fmt.Fprintln(out, StyleTitle.Render("Dependencies by source"))
	fmt.Fprintln(out, renderTable([]string{"Source", "Entries", "With license"}, rows))
	printKeyValue("Total", fmt.Sprint(len(entries)))
	printKeyValue("Licensed", fmt.Sprint(total))
	return nil
}
