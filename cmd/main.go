package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/richard-senior/soccerprediction/internal/logger"
	"github.com/richard-senior/soccerprediction/pkg/podds"
	"github.com/spf13/cobra"
)

// options holds the raw flag values. Only flags set on the command line override
// the file and environment layers.
type options struct {
	configFile string
	update     bool
	search     bool
	country    string
	league     string
	date       string
	path       string
	history    int
	cutoff     float64
	seed       int64
	sims       int
	workers    int
	testDays   int
	store      string
	renderer   string
	debug      bool
	logLevel   string
	logFile    string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	defaults := podds.DefaultPoddsConfig()

	cmd := &cobra.Command{
		Use:   "soccerprediction",
		Short: "Poisson match predictions for football competitions",
		Long: "Predicts the matches of a competition on a given date from the attack and defence\n" +
			"strengths of the teams over a window of recent results. With --test the history\n" +
			"length and cutoff are tuned against past results instead.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd, opts)
			if err != nil {
				logger.Error("Invalid configuration", err.Error())
				return err
			}
			if err := setupLogging(opts); err != nil {
				return err
			}
			var runErr error
			if cfg.Search {
				runErr = runSearch(cmd.Context(), cfg)
			} else {
				runErr = runPredict(cmd.Context(), cfg)
			}
			if runErr != nil {
				logger.Error(runErr.Error())
			}
			return runErr
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configFile, "config", "", "YAML file of configuration values")
	f.BoolVarP(&opts.update, "update", "u", false, "fetch the latest results before predicting")
	f.BoolVarP(&opts.search, "test", "t", false, "search for the best history and cutoff then validate them")
	f.StringVarP(&opts.country, "country", "c", defaults.Country, "country the competition is played in")
	f.StringVarP(&opts.league, "league", "l", defaults.Competition, "competition name")
	f.StringVarP(&opts.date, "date", "d", defaults.Date, "date of the matches to predict, YYYY-MM-DD")
	f.StringVarP(&opts.path, "path", "p", defaults.DataPath, "directory holding results tables")
	f.IntVarP(&opts.history, "history", "y", defaults.History, "played matches used to calibrate team strengths")
	f.Float64VarP(&opts.cutoff, "cutoff", "b", defaults.Cutoff, "report picks with a probability of at least this percentage")
	f.Int64Var(&opts.seed, "seed", defaults.Seed, "random seed, 0 seeds from the clock")
	f.IntVar(&opts.sims, "simulations", defaults.Simulations, "Monte Carlo trials per match")
	f.IntVar(&opts.workers, "workers", defaults.Workers, "concurrent forecast workers for --test")
	f.IntVar(&opts.testDays, "test-days", defaults.TestDays, "days in each of the search and validation windows")
	f.StringVar(&opts.store, "store", defaults.Store, "results store, csv or sqlite")
	f.StringVar(&opts.renderer, "renderer", defaults.Renderer, "page source, http or browser")
	f.BoolVar(&opts.debug, "debug", false, "enable debug logging, same as --log-level debug")
	f.StringVar(&opts.logLevel, "log-level", "info", "lowest level logged: debug, info, warn or error")
	f.StringVar(&opts.logFile, "log-file", "", "also write logs to this file")
	return cmd
}

// buildConfig layers defaults, the config file, the environment and finally any flags given
func buildConfig(cmd *cobra.Command, opts *options) (*podds.PoddsConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("Failed to load .env", err.Error())
	}

	cfg := podds.DefaultPoddsConfig()
	if opts.configFile != "" {
		if err := cfg.LoadConfigFile(opts.configFile); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	f := cmd.Flags()
	if f.Changed("update") {
		cfg.Update = opts.update
	}
	if f.Changed("test") {
		cfg.Search = opts.search
	}
	if f.Changed("country") {
		cfg.Country = opts.country
	}
	if f.Changed("league") {
		cfg.Competition = opts.league
	}
	if f.Changed("date") {
		cfg.Date = opts.date
	}
	if f.Changed("path") {
		cfg.DataPath = opts.path
	}
	if f.Changed("history") {
		cfg.History = opts.history
	}
	if f.Changed("cutoff") {
		cfg.Cutoff = opts.cutoff
	}
	if f.Changed("seed") {
		cfg.Seed = opts.seed
	}
	if f.Changed("simulations") {
		cfg.Simulations = opts.sims
	}
	if f.Changed("workers") {
		cfg.Workers = opts.workers
	}
	if f.Changed("test-days") {
		cfg.TestDays = opts.testDays
	}
	if f.Changed("store") {
		cfg.Store = opts.store
	}
	if f.Changed("renderer") {
		cfg.Renderer = opts.renderer
	}

	if err := podds.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setupLogging(opts *options) error {
	logger.SetShowDateTime(true)
	level, err := logger.ParseLevel(opts.logLevel)
	if err != nil {
		return err
	}
	if opts.debug {
		level = logger.DEBUG
	}
	logger.SetLevel(level)
	if opts.logFile != "" {
		logger.SetLogFile(opts.logFile)
		if err := logger.SetLogOutput('b'); err != nil {
			return err
		}
	}
	return nil
}

func openCompetition(cfg *podds.PoddsConfig) (podds.ResultsStore, podds.ResultsFetcher, error) {
	store, err := podds.NewStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	source, err := podds.NewPageSource(cfg.Renderer)
	if err != nil {
		return nil, nil, err
	}
	return store, podds.NewSoccerpunterFetcher(cfg, source), nil
}

// runPredict predicts the matches on the target date, prints the confident picks and
// saves the table with the predictions attached
func runPredict(ctx context.Context, cfg *podds.PoddsConfig) error {
	store, fetcher, err := openCompetition(cfg)
	if err != nil {
		return err
	}

	var table *podds.Table
	if cfg.Update {
		table, err = podds.RefreshCompetitionData(ctx, cfg, store, fetcher)
		var missing *podds.MissingUpdateDataError
		if errors.As(err, &missing) {
			logger.Warn("Some results could not be updated", err.Error())
			err = nil
		}
	} else {
		table, err = podds.GetCompetitionData(ctx, cfg, store, fetcher)
	}
	if err != nil {
		return err
	}

	target, err := cfg.TargetDate()
	if err != nil {
		return err
	}
	// matches that cannot be predicted are logged as they are met
	forecasts, _ := podds.NewPredictor(cfg).PredictOnly(table, target, cfg.History)
	if len(forecasts) == 0 {
		logger.Inform("No matches on", cfg.Date)
	}

	if cfg.Cutoff > 0 {
		if err := podds.WritePicks(os.Stdout, podds.ConfidentPicks(forecasts, cfg.Cutoff)); err != nil {
			return err
		}
	}
	return store.Save(table)
}

// runSearch tunes history and cutoff over the search window then scores the winner on
// the validation window. Nothing is saved.
func runSearch(ctx context.Context, cfg *podds.PoddsConfig) error {
	store, fetcher, err := openCompetition(cfg)
	if err != nil {
		return err
	}
	table, err := podds.GetCompetitionData(ctx, cfg, store, fetcher)
	if err != nil {
		return err
	}
	target, err := cfg.TargetDate()
	if err != nil {
		return err
	}

	searcher := podds.NewSearcher(cfg)
	window := podds.SearchWindow(target, cfg.LookbackDays, cfg.TestDays)
	logger.Info("Searching", window.String())
	result, err := searcher.Search(ctx, table, window)
	if err != nil {
		return fmt.Errorf("parameter search failed: %w", err)
	}

	validationWindow := podds.ValidationWindow(window)
	logger.Info("Validating", validationWindow.String())
	validation, err := searcher.Validate(ctx, table, result.HistoryLength, result.Cutoff, validationWindow)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return podds.WriteSearchReport(os.Stdout, cfg, result, validation)
}
