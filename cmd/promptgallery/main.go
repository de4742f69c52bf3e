// Package main is the promptgallery CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/promptgallery/internal/catalog"
	"github.com/hyperjump/promptgallery/internal/cli"
	"github.com/hyperjump/promptgallery/internal/config"
	"github.com/hyperjump/promptgallery/internal/ingest"
	"github.com/hyperjump/promptgallery/internal/keyword"
	"github.com/hyperjump/promptgallery/internal/metrics"
	"github.com/hyperjump/promptgallery/internal/models"
	"github.com/hyperjump/promptgallery/internal/server"
	"github.com/hyperjump/promptgallery/internal/sitemap"
	"github.com/hyperjump/promptgallery/internal/storage"
	"github.com/hyperjump/promptgallery/internal/tagging"
	"github.com/hyperjump/promptgallery/internal/watcher"
	"github.com/hyperjump/promptgallery/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/promptgallery/config.yaml"

// loadConfig loads config from path. When path is the default, config.yaml in the current
// directory wins if present; when neither exists the built-in defaults are used relative to
// the current directory. Returns the config and the path that was loaded ("" for defaults).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, "", err
		}
		fallback := filepath.Join(cwd, "config.yaml")
		if _, statErr := os.Stat(fallback); statErr == nil {
			cfg, loadErr := config.Load(fallback)
			if loadErr != nil {
				return nil, "", loadErr
			}
			return cfg, fallback, nil
		}
		if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
			return config.FromDefaults(cwd), "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	args := os.Args[2:]
	var err error
	switch command {
	case "generate":
		err = runGenerate(args)
	case "sitemap":
		err = runSitemap(args)
	case "serve", "server":
		err = runServe(args)
	case "watch":
		err = runWatch(args)
	case "search":
		err = runSearch(args)
	case "status":
		err = runStatus(args)
	case "init":
		err = runInit(args)
	case "version", "--version", "-v":
		fmt.Printf("promptgallery version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", command, err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`promptgallery builds and serves the bilingual AI image prompt gallery.

Usage: promptgallery <command> [flags]

Commands:
  generate   read the upstream sources, copy images and write <model>.<lang>.json
  sitemap    write sitemap.xml from the generated dataset
  serve      serve the read-only gallery API (use --watch to regenerate on source changes)
  watch      regenerate the dataset whenever the sources change
  search     full-text search over the generated dataset
  status     show case counts and dataset disk usage
  init       write a config file with the default settings
  version    print the version
  help       show this help

Run "promptgallery <command> -h" for command flags.
`)
}

// env is what every command needs after flag parsing.
type env struct {
	cfg        *config.Config
	configPath string
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

func setup(configPath string, debug bool) (*env, error) {
	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	debugMode := cfg.Debug || debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	logger.Debug("config loaded", zap.String("config_path", resolved), zap.Bool("debug", debugMode))
	return &env{cfg: cfg, configPath: resolved, logger: logger}, nil
}

func (e *env) fileStorage() *storage.FileStorage {
	return storage.NewFileStorage(e.cfg.Output.DataDir, e.cfg.Output.AssetsDir)
}

func (e *env) pipeline() *ingest.Pipeline {
	opts := ingest.Options{Sources: e.cfg.Sources, Output: e.cfg.Output}
	return ingest.New(opts, ingest.WithLogger(e.logger), ingest.WithStorage(e.fileStorage()))
}

// generate runs ingestion. A dry run builds the dataset without writing anything.
func (e *env) generate(ctx context.Context, dryRun bool) (*ingest.Report, error) {
	p := e.pipeline()
	if dryRun {
		result, err := p.Build(ctx)
		if err != nil {
			return nil, err
		}
		return result.Report, nil
	}
	return p.Run(ctx)
}

// writeSitemap loads the generated dataset and writes the sitemap file. Returns the URL count.
func (e *env) writeSitemap(ctx context.Context) (int, error) {
	cat, err := catalog.Load(ctx, e.fileStorage(), tagging.DefaultTaxonomy(), e.logger)
	if err != nil {
		return 0, err
	}
	site := sitemap.Site{BaseURL: e.cfg.Site.BaseURL, BlogPosts: e.cfg.Site.BlogPosts}
	urls := sitemap.URLs(site, cat)
	if err := sitemap.WriteFile(e.cfg.Site.SitemapPath, urls); err != nil {
		return 0, err
	}
	e.logger.Info("sitemap written", zap.String("path", e.cfg.Site.SitemapPath), zap.Int("urls", len(urls)))
	return len(urls), nil
}

// regenerate is the watcher callback: rebuild the dataset and sitemap, then hand the report on.
func (e *env) regenerate(onDone func(*ingest.Report)) watcher.ChangeFunc {
	return func(ctx context.Context, paths []string) {
		e.logger.Info("sources changed, regenerating", zap.Int("paths", len(paths)))
		report, err := e.generate(ctx, false)
		e.metrics.ObserveRun(report, err)
		if err != nil {
			e.logger.Error("regeneration failed", zap.Error(err))
			return
		}
		if _, err := e.writeSitemap(ctx); err != nil {
			e.logger.Error("sitemap failed", zap.Error(err))
		}
		if onDone != nil {
			onDone(report)
		}
	}
}

func (e *env) newWatcher(onDone func(*ingest.Report)) *watcher.Watcher {
	roots := []string{e.cfg.Sources.GPT4o.Root, e.cfg.Sources.NanoBanana.Root}
	return watcher.NewWatcher(roots, e.cfg.Watch.Extensions, e.regenerate(onDone),
		watcher.WithLogger(e.logger),
		watcher.WithDebounce(time.Duration(e.cfg.Watch.DebounceMillis)*time.Millisecond),
		watcher.WithIgnore(e.cfg.Output.DataDir, e.cfg.Output.AssetsDir),
	)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runGenerate(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	output := fs.String("output", "text", "report format: text or json")
	dryRun := fs.Bool("dry-run", false, "build and report without writing files")
	withSitemap := fs.Bool("sitemap", true, "also write sitemap.xml after a successful run")
	_ = fs.Parse(args)

	format, err := cli.ParseOutputFormat(*output)
	if err != nil {
		return err
	}
	e, err := setup(*configPath, *debug)
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	ctx, cancel := signalContext()
	defer cancel()
	report, err := e.generate(ctx, *dryRun)
	if err != nil {
		return err
	}
	if *withSitemap && report.Written {
		if _, err := e.writeSitemap(ctx); err != nil {
			return err
		}
	}
	return cli.WriteReport(os.Stdout, report, format)
}

func runSitemap(args []string) error {
	fs := flag.NewFlagSet("sitemap", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(args)

	e, err := setup(*configPath, *debug)
	if err != nil {
		return err
	}
	defer e.logger.Sync()
	n, err := e.writeSitemap(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %d URLs to %s\n", n, e.cfg.Site.SitemapPath)
	return nil
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	watch := fs.Bool("watch", false, "regenerate and reload when the sources change")
	withMetrics := fs.Bool("metrics", true, "serve Prometheus metrics at /metrics")
	_ = fs.Parse(args)

	e, err := setup(*configPath, *debug)
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	ctx, cancel := signalContext()
	defer cancel()

	var serverOpts []server.Option
	if *withMetrics {
		m, err := metrics.New()
		if err != nil {
			return err
		}
		e.metrics = m
		serverOpts = append(serverOpts, server.WithMetrics(m))
	}

	files := e.fileStorage()
	store := catalog.NewStore(files, catalog.WithLogger(e.logger))
	defer store.Close()
	reload := func() error {
		if err := store.Reload(ctx); err != nil {
			return err
		}
		counts := map[models.Language]int{}
		for _, lang := range models.Languages() {
			counts[lang] = store.Catalog().Len(lang)
		}
		e.metrics.ObserveCatalog(counts)
		return nil
	}
	if err := reload(); err != nil {
		return err
	}
	srv := server.NewServer(store, files, e.cfg, e.logger, serverOpts...)

	if *watch {
		w := e.newWatcher(func(report *ingest.Report) {
			srv.SetLastRun(report)
			if err := reload(); err != nil {
				e.logger.Error("catalog reload failed", zap.Error(err))
			}
		})
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}
	e.logger.Info("Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return srv.Stop(shutdownCtx)
}

func runWatch(args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	output := fs.String("output", "text", "report format: text or json")
	_ = fs.Parse(args)

	format, err := cli.ParseOutputFormat(*output)
	if err != nil {
		return err
	}
	e, err := setup(*configPath, *debug)
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	ctx, cancel := signalContext()
	defer cancel()
	w := e.newWatcher(func(report *ingest.Report) {
		_ = cli.WriteReport(os.Stdout, report, format)
	})
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Stop()
	e.logger.Info("watching sources", zap.Strings("roots", w.Roots()))
	<-ctx.Done()
	return nil
}

// buildSearchQuery joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// searchArgsReorder moves flags that appear after the query to the front so flag.Parse sees them.
// Go's flag package stops at the first non-flag argument.
func searchArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func runSearch(args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	lang := fs.String("lang", "en", "language to search: en or zh")
	limit := fs.Int("limit", 10, "maximum number of results")
	fuzzy := fs.Bool("fuzzy", false, "enable typo tolerance")
	output := fs.String("output", "text", "output format: text or json")
	serverURL := fs.String("server", "", "query a running server instead of the local dataset (e.g. http://localhost:8080)")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: promptgallery search [flags] <query>\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(searchArgsReorder(args))

	query := buildSearchQuery(fs.Args())
	if query == "" {
		fs.Usage()
		return errors.New("query is required")
	}
	format, err := cli.ParseOutputFormat(*output)
	if err != nil {
		return err
	}
	language, err := models.ParseLanguage(*lang)
	if err != nil {
		return err
	}

	var result *catalog.SearchResult
	if *serverURL != "" {
		result, err = searchViaHTTP(*serverURL, query, language, *limit, *fuzzy)
		if err != nil {
			return err
		}
		return cli.WriteSearchResults(os.Stdout, result, format)
	}

	e, err := setup(*configPath, *debug)
	if err != nil {
		return err
	}
	defer e.logger.Sync()
	ctx := context.Background()
	store := catalog.NewStore(e.fileStorage(), catalog.WithLogger(e.logger))
	defer store.Close()
	if err := store.Reload(ctx); err != nil {
		return err
	}
	opts := &keyword.SearchOptions{
		TitleBoost:   e.cfg.Search.TitleBoost,
		FuzzyEnabled: *fuzzy,
		Fuzziness:    e.cfg.Search.Fuzziness,
	}
	result, err = store.Search(ctx, language, query, *limit, opts)
	if err != nil {
		return err
	}
	return cli.WriteSearchResults(os.Stdout, result, format)
}

// searchURL builds the search endpoint URL of a running server.
func searchURL(serverURL, query string, lang models.Language, limit int, fuzzy bool) string {
	v := url.Values{}
	v.Set("q", query)
	v.Set("lang", string(lang))
	v.Set("limit", strconv.Itoa(limit))
	if fuzzy {
		v.Set("fuzzy", "true")
	}
	return strings.TrimSuffix(serverURL, "/") + "/api/v1/search?" + v.Encode()
}

func searchViaHTTP(serverURL, query string, lang models.Language, limit int, fuzzy bool) (*catalog.SearchResult, error) {
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(searchURL(serverURL, query, lang, limit, fuzzy))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		var body struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return nil, fmt.Errorf("server returned %s: %s", resp.Status, body.Error)
	}
	var result catalog.SearchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return &result, nil
}

func runStatus(args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	output := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(args)

	format, err := cli.ParseOutputFormat(*output)
	if err != nil {
		return err
	}
	e, err := setup(*configPath, *debug)
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	files := e.fileStorage()
	cat, err := catalog.Load(context.Background(), files, tagging.DefaultTaxonomy(), e.logger)
	if err != nil {
		return err
	}
	usage, err := files.Usage()
	if err != nil {
		return err
	}
	status := cli.Status{Cases: map[models.Language]int{}, Usage: usage}
	for _, lang := range models.Languages() {
		status.Cases[lang] = cat.Len(lang)
	}
	return cli.WriteStatus(os.Stdout, status, format)
}

func runInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	path := fs.String("path", "config.yaml", "where to write the config file")
	force := fs.Bool("force", false, "overwrite an existing file")
	_ = fs.Parse(args)

	if _, err := os.Stat(*path); err == nil && !*force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", *path)
	}
	var cfg config.Config
	config.ApplyDefaults(&cfg)
	if err := config.Save(*path, &cfg); err != nil {
		return err
	}
	fmt.Printf("Wrote default config to %s\n", *path)
	return nil
}
