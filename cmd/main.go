package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tidbyt.dev/departures"
	"tidbyt.dev/departures/config"
	"tidbyt.dev/departures/downloader"
	"tidbyt.dev/departures/logging"
	"tidbyt.dev/departures/stations"
	"tidbyt.dev/departures/storage"
)

const (
	exitOK        = 0
	exitFailure   = 1
	exitAmbiguous = 2
)

var rootCmd = &cobra.Command{
	Use:           "departures",
	Short:         "NJ Transit departures",
	Long:          "Reports upcoming NJ Transit trains and their status at preceding stops",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	configPath   string
	debug        bool
	debugServer  bool
	maxTrains    int
	concurrency  int
	cacheBackend string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Write debug information to the log")
	rootCmd.PersistentFlags().BoolVarP(&debugServer, "debug-server", "s", false, "Fetch documents from the alternate (debug) source")
	rootCmd.PersistentFlags().IntVarP(&maxTrains, "max-trains", "n", config.DefaultMaxRankedTrains, "Number of upcoming trains to report on")
	rootCmd.PersistentFlags().IntVarP(&concurrency, "concurrency", "j", config.DefaultFetchConcurrency, "Number of departure boards fetched at once")
	rootCmd.PersistentFlags().StringVarP(&cacheBackend, "cache", "", "", "Cache backend (file, memory, memory-storage, sqlite, postgres, redis)")

	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(stopsCmd)
	rootCmd.AddCommand(stationsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	os.Exit(exitCode(err))
}

// Reports err to the user and picks the process exit status.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}

	var disambiguation *departures.DisambiguationError
	if errors.As(err, &disambiguation) {
		fmt.Println("Multiple destinations found.")
		fmt.Println("Use --to and a station code from the list:")
		for _, st := range disambiguation.Candidates {
			fmt.Printf("%-40s %s\n", st.Name, st.Code)
		}
		return exitAmbiguous
	}

	fmt.Fprintln(os.Stderr, err)
	return exitFailure
}

// Config file settings, overridden by whichever flags were given.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return nil, err
		}
	}

	flags := rootCmd.PersistentFlags()
	if flags.Changed("debug") {
		cfg.Verbose = debug
		if debug && cfg.LogFile == "" {
			cfg.LogFile = filepath.Join(os.TempDir(), "departures-debug.log")
		}
	}
	if flags.Changed("debug-server") {
		cfg.UseAlternateSource = debugServer
	}
	if flags.Changed("max-trains") {
		cfg.MaxRankedTrains = maxTrains
	}
	if flags.Changed("concurrency") {
		cfg.FetchConcurrency = concurrency
	}
	if flags.Changed("cache") {
		cfg.Cache.Backend = cacheBackend
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Everything a command needs to answer queries.
type env struct {
	Config     *config.Config
	Logger     *zap.SugaredLogger
	Stations   *stations.Directory
	Downloader downloader.Downloader
	Resolver   *departures.Resolver

	closers []func()
}

func setup() (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, closeLogger, err := logging.New(logging.Options{
		Verbose: cfg.Verbose,
		File:    cfg.LogFile,
	})
	if err != nil {
		return nil, err
	}

	e := &env{
		Config:  cfg,
		Logger:  logger,
		closers: []func(){closeLogger},
	}

	e.Stations, err = stations.Default()
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("loading stations: %w", err)
	}

	e.Downloader, err = e.buildDownloader()
	if err != nil {
		e.Close()
		return nil, err
	}

	e.Resolver = departures.NewResolver(e.Downloader, e.Stations, cfg, logger)

	logger.Debugw("configured",
		"source", cfg.ActiveSource().StationURL,
		"cache", cfg.Cache.Backend,
		"maxTrains", cfg.MaxRankedTrains,
		"concurrency", cfg.FetchConcurrency,
	)

	return e, nil
}

func (e *env) buildDownloader() (downloader.Downloader, error) {
	cache := e.Config.Cache

	var s storage.Storage
	var err error

	switch strings.ToLower(cache.Backend) {
	case "file":
		fs, err := downloader.NewFilesystem(cache.Directory)
		if err != nil {
			return nil, err
		}
		return fs, nil
	case "memory":
		return downloader.NewMemory(cache.MemorySize), nil
	case "memory-storage":
		s = storage.NewMemoryStorage()
	case "sqlite":
		s, err = storage.NewSQLiteStorage(storage.SQLiteConfig{
			OnDisk:    true,
			Directory: cache.Directory,
		})
	case "postgres":
		s, err = storage.NewPSQLStorage(cache.Postgres, storage.DefaultPSQLTable, false)
	case "redis":
		s = storage.NewRedisStorage(cache.Redis, cache.RedisExpiry)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cache.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("creating %s storage: %w", cache.Backend, err)
	}

	e.closers = append(e.closers, func() {
		if err := s.Close(); err != nil {
			e.Logger.Warnw("closing storage", "error", err)
		}
	})

	return downloader.NewCached(s), nil
}

func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}
