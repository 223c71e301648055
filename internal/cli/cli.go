package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/bvk-outages/internal/config"
	"github.com/pfrederiksen/bvk-outages/internal/dataset"
	"github.com/pfrederiksen/bvk-outages/internal/filter"
	"github.com/pfrederiksen/bvk-outages/internal/logger"
	"github.com/pfrederiksen/bvk-outages/internal/notifier"
	"github.com/pfrederiksen/bvk-outages/internal/outage"
	"github.com/pfrederiksen/bvk-outages/internal/scraper"
	"github.com/pfrederiksen/bvk-outages/internal/storage"
	"github.com/pfrederiksen/bvk-outages/internal/telegram"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagConfigFile     string
	flagEnvFile        string
	flagURL            string
	flagLogLevel       string
	flagMunicipalities []string
	flagStreets        []string
	flagFrom           string
	flagTo             string

	flagDryRun     bool
	flagNewOnly    bool
	flagDataDir    string
	flagDataset    string
	flagDatasetDir string
	flagTwitter    bool

	flagFormat  string
	flagSort    string
	flagVerbose bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bvk-outages",
		Short: "Report Belgrade water network outages to Telegram",
		Long: `A job that fetches the BVK "kvarovi na mreži" page, extracts the
announced water outages with their affected addresses, and sends them to a
Telegram chat as a single HTML report.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runJob,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flagConfigFile, "config", "", "Path to a YAML config file")
	pf.StringVar(&flagEnvFile, "env-file", "", "Path to a .env file (default: ./.env if present)")
	pf.StringVar(&flagURL, "url", "", "Outage page URL (or env: BVK_URL)")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn or error (or env: LOG_LEVEL)")
	pf.StringSliceVar(&flagMunicipalities, "municipality", nil, "Only records with addresses in these municipalities (Cyrillic or Latin)")
	pf.StringSliceVar(&flagStreets, "street", nil, "Only records with an address containing this text")
	pf.StringVar(&flagFrom, "from", "", "Only records dated on or after this day (13.11.2025, 2025-11-13, today)")
	pf.StringVar(&flagTo, "to", "", "Only records dated on or before this day")

	addRunFlags(cmd)

	cmd.AddCommand(newRunCmd(), newParseCmd(), newMessageCmd())

	return cmd
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print the message instead of sending it (or env: TELEGRAM_DRY_RUN)")
	cmd.Flags().BoolVar(&flagNewOnly, "new-only", false, "Only deliver records not seen in the previous run")
	cmd.Flags().StringVar(&flagDataDir, "data-dir", "", "Data directory for snapshots (or env: DATA_DIR)")
	cmd.Flags().StringVar(&flagDataset, "dataset", "", "Archive results: none, file or s3 (or env: DATASET_KIND)")
	cmd.Flags().StringVar(&flagDatasetDir, "dataset-dir", "", "Directory for the file dataset (or env: DATASET_DIR)")
	cmd.Flags().BoolVar(&flagTwitter, "twitter", false, "Also post each record to Twitter (or env: TWITTER_ENABLED)")
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch, parse and deliver the outage report (default)",
		Args:  cobra.NoArgs,
		RunE:  runJob,
	}
	addRunFlags(cmd)
	return cmd
}

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Parse an outage page and print the records",
		Long: `Parse a saved outage page (or stdin with "-") and print the extracted
records. Without an argument the live page is fetched.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runParse,
	}
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text, json or ics")
	cmd.Flags().StringVar(&flagSort, "sort", "page", "Sort order: page, date or title")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Show IDs, map links and details")
	return cmd
}

func newMessageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "message [file|-]",
		Short: "Print the Telegram message for an outage page",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMessage,
	}
}

// loadConfig reads config sources and applies flags that were set explicitly
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{
		ConfigFile: flagConfigFile,
		EnvFile:    flagEnvFile,
	})
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("url") {
		cfg.URL = flagURL
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
	if flags.Changed("municipality") {
		cfg.Filter.Municipalities = flagMunicipalities
	}
	if flags.Changed("street") {
		cfg.Filter.Streets = flagStreets
	}
	if flags.Changed("from") {
		cfg.Filter.From = flagFrom
	}
	if flags.Changed("to") {
		cfg.Filter.To = flagTo
	}
	if flags.Changed("dry-run") {
		cfg.Telegram.DryRun = flagDryRun
	}
	if flags.Changed("new-only") {
		cfg.NewOnly = flagNewOnly
	}
	if flags.Changed("data-dir") {
		cfg.DataDir = flagDataDir
	}
	if flags.Changed("dataset") {
		cfg.Dataset.Kind = flagDataset
	}
	if flags.Changed("dataset-dir") {
		cfg.Dataset.Dir = flagDatasetDir
	}
	if flags.Changed("twitter") {
		cfg.Twitter.Enabled = flagTwitter
	}

	logger.SetDefault(logger.New(logger.ParseLevel(cfg.LogLevel), cmd.ErrOrStderr()))

	return cfg, nil
}

func buildFilter(cfg *config.Config) (*filter.Filter, error) {
	f := filter.NewFilter()

	municipalities, err := filter.ParseMunicipalities(cfg.Filter.Municipalities)
	if err != nil {
		return nil, err
	}
	f.Municipalities = municipalities

	for _, street := range cfg.Filter.Streets {
		if street = strings.TrimSpace(street); street != "" {
			f.Streets = append(f.Streets, street)
		}
	}

	f.DateFrom, f.DateTo, err = filter.ParseDateRange(cfg.Filter.From, cfg.Filter.To)
	if err != nil {
		return nil, err
	}

	return f, nil
}

// buildNotifier returns the Telegram channel (or the dry-run printer) and the
// optional best-effort channels
func buildNotifier(cfg *config.Config, out io.Writer) (notifier.Notifier, notifier.Notifier, error) {
	if cfg.Telegram.DryRun {
		if cfg.Twitter.Enabled {
			logger.Info("Dry run enabled, Twitter posting skipped", nil)
		}
		return notifier.NewDryRunNotifier(out), nil, nil
	}

	client, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing Telegram client: %w", err)
	}
	primary := notifier.NewTelegramNotifier(client)

	var secondary notifier.Multi
	if cfg.Twitter.Enabled {
		tw, err := notifier.NewTwitterNotifier(notifier.TwitterCredentials{
			APIKey:       cfg.Twitter.APIKey,
			APISecret:    cfg.Twitter.APISecret,
			AccessToken:  cfg.Twitter.AccessToken,
			AccessSecret: cfg.Twitter.AccessSecret,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("initializing Twitter notifier: %w", err)
		}
		secondary = append(secondary, tw)
	}

	if len(secondary) == 0 {
		return primary, nil, nil
	}
	return primary, secondary, nil
}

func buildSink(cfg *config.Config) (dataset.Sink, error) {
	switch cfg.Dataset.Kind {
	case config.DatasetFile:
		dir, err := storage.ExpandHome(cfg.Dataset.Dir)
		if err != nil {
			return nil, err
		}
		return dataset.NewFileSink(dir)
	case config.DatasetS3:
		return dataset.NewS3Sink(cfg.Dataset.S3)
	default:
		return nil, nil
	}
}

// runJob is the main command logic
func runJob(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	f, err := buildFilter(cfg)
	if err != nil {
		return err
	}

	primary, secondary, err := buildNotifier(cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	sink, err := buildSink(cfg)
	if err != nil {
		return fmt.Errorf("initializing dataset: %w", err)
	}

	pipeline := &Pipeline{
		Source:    scraper.New(cfg.URL),
		Filter:    f,
		Notifier:  primary,
		Secondary: secondary,
		Sink:      sink,
	}

	if cfg.NewOnly {
		store, err := storage.New(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("initializing storage: %w", err)
		}
		pipeline.Store = store
	}

	result, err := pipeline.Run(cmd.Context())
	if err != nil {
		return err
	}

	logger.Info("run.completed", logger.Fields{
		"parsed":    result.Parsed,
		"matched":   result.Matched,
		"delivered": result.Delivered,
		"skipped":   result.Skipped,
		"dry_run":   cfg.Telegram.DryRun,
	})

	if result.SecondaryErr != nil {
		return fmt.Errorf("secondary delivery: %w", result.SecondaryErr)
	}

	return nil
}

// readRecords parses the page named by args: a file, "-" for stdin, or the live page
func readRecords(ctx context.Context, cmd *cobra.Command, args []string, pageURL string) ([]*outage.Record, string, error) {
	if len(args) == 0 {
		sc := scraper.New(pageURL)
		records, err := sc.FetchRecords(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("fetching records: %w", err)
		}
		return records, sc.URL(), nil
	}

	if args[0] == "-" {
		records, err := scraper.ParseReader(cmd.InOrStdin())
		if err != nil {
			return nil, "", fmt.Errorf("reading stdin: %w", err)
		}
		return records, "stdin", nil
	}

	f, err := os.Open(args[0])
	if err != nil {
		return nil, "", fmt.Errorf("opening page file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing file: %v\n", err)
		}
	}()

	records, err := scraper.ParseReader(f)
	if err != nil {
		return nil, "", fmt.Errorf("reading page file: %w", err)
	}
	return records, args[0], nil
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := ParseOutputFormat(flagFormat)
	if err != nil {
		return err
	}

	sortOrder := SortOrder(strings.ToLower(flagSort))
	if sortOrder != SortByPage && sortOrder != SortByDate && sortOrder != SortByTitle {
		return fmt.Errorf("invalid sort order: %s (must be 'page', 'date' or 'title')", flagSort)
	}

	records, source, err := loadRecords(cmd, args)
	if err != nil {
		return err
	}

	sortRecords(records, sortOrder)

	result := &OutputResult{
		CheckedAt:   time.Now().UTC(),
		Source:      source,
		Records:     records,
		RecordCount: len(records),
	}

	if err := WriteOutput(cmd.OutOrStdout(), result, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	return nil
}

func runMessage(cmd *cobra.Command, args []string) error {
	records, _, err := loadRecords(cmd, args)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), telegram.FormatResults(records))
	return err
}

// loadRecords reads and filters records for the offline subcommands
func loadRecords(cmd *cobra.Command, args []string) ([]*outage.Record, string, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, "", err
	}

	f, err := buildFilter(cfg)
	if err != nil {
		return nil, "", err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	records, source, err := readRecords(ctx, cmd, args, cfg.URL)
	if err != nil {
		return nil, "", err
	}

	return f.Apply(records), source, nil
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
