// Package config loads the job configuration.
//
// Sources, lowest precedence first: built-in defaults, an optional YAML file,
// a .env file (never overriding variables already set), and the process
// environment. Command-line flags are applied on top by the cli package
// before Validate is called.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/pfrederiksen/bvk-outages/internal/dataset"
	"github.com/pfrederiksen/bvk-outages/internal/scraper"
	"github.com/pfrederiksen/bvk-outages/internal/storage"
)

// DefaultEnvFile is read when no explicit .env path is given; it may be absent.
const DefaultEnvFile = ".env"

// Dataset sink kinds.
const (
	DatasetNone = "none"
	DatasetFile = "file"
	DatasetS3   = "s3"
)

// Configuration validation errors.
var (
	ErrInvalidURL          = errors.New("url must be an http(s) URL")
	ErrMissingBotToken     = errors.New("telegram.bot_token is required unless dry run is enabled")
	ErrMissingChatID       = errors.New("telegram.chat_id is required unless dry run is enabled")
	ErrInvalidDryRun       = errors.New(`TELEGRAM_DRY_RUN must be "true" or "false"`)
	ErrInvalidLogLevel     = errors.New("log_level must be one of: debug, info, warn, error")
	ErrMissingDataDir      = errors.New("data_dir is required")
	ErrInvalidDatasetKind  = errors.New("dataset.kind must be one of: none, file, s3")
	ErrMissingDatasetDir   = errors.New("dataset.dir is required for the file dataset")
	ErrMissingBucket       = errors.New("dataset.s3.bucket is required for the s3 dataset")
	ErrMissingTwitterCreds = errors.New("twitter credentials are required when twitter is enabled")
)

// Config represents the complete job configuration.
type Config struct {
	URL      string         `yaml:"url" validate:"required,http_url"`
	LogLevel string         `yaml:"log_level" validate:"oneof=debug info warn error"`
	DataDir  string         `yaml:"data_dir" validate:"required"`
	NewOnly  bool           `yaml:"new_only"`
	Telegram TelegramConfig `yaml:"telegram"`
	Twitter  TwitterConfig  `yaml:"twitter"`
	Dataset  DatasetConfig  `yaml:"dataset"`
	Filter   FilterConfig   `yaml:"filter"`
}

// TelegramConfig contains the delivery chat settings.
type TelegramConfig struct {
	BotToken string `yaml:"bot_token" validate:"required_unless=DryRun true"`
	ChatID   string `yaml:"chat_id" validate:"required_unless=DryRun true"`
	DryRun   bool   `yaml:"dry_run"`
}

// TwitterConfig contains the optional Twitter channel settings.
type TwitterConfig struct {
	Enabled      bool   `yaml:"enabled"`
	APIKey       string `yaml:"api_key"`
	APISecret    string `yaml:"api_secret"`
	AccessToken  string `yaml:"access_token"`
	AccessSecret string `yaml:"access_secret"`
}

// DatasetConfig selects where run results are archived.
type DatasetConfig struct {
	Kind string           `yaml:"kind" validate:"oneof=none file s3"`
	Dir  string           `yaml:"dir" validate:"required_if=Kind file"`
	S3   dataset.S3Config `yaml:"s3"`
}

// FilterConfig narrows the delivered records.
type FilterConfig struct {
	Municipalities []string `yaml:"municipalities"`
	Streets        []string `yaml:"streets"`
	From           string   `yaml:"from"`
	To             string   `yaml:"to"`
}

// LoadOptions names the optional files to read.
type LoadOptions struct {
	ConfigFile string // YAML file, skipped when empty
	EnvFile    string // .env file; DefaultEnvFile when empty, where a missing file is not an error
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		URL:      scraper.OutagesURL,
		LogLevel: "info",
		DataDir:  storage.DefaultDataDir,
		Dataset: DatasetConfig{
			Kind: DatasetNone,
		},
	}
}

// Load builds the configuration from defaults, the YAML file, the .env file
// and the environment. The result is not validated.
func Load(opts LoadOptions) (*Config, error) {
	cfg := Default()

	if opts.ConfigFile != "" {
		if err := cfg.loadFile(opts.ConfigFile); err != nil {
			return nil, err
		}
	}

	if err := loadEnvFile(opts.EnvFile); err != nil {
		return nil, err
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	return nil
}

func loadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultEnvFile
	}

	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read env file: %w", err)
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}

	return nil
}

// ApplyEnv overrides settings from environment variables.
// Empty values are treated as unset.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		value, ok := lookup(key)
		value = strings.TrimSpace(value)
		return value, ok && value != ""
	}

	strVars := map[string]*string{
		"BVK_URL":               &c.URL,
		"LOG_LEVEL":             &c.LogLevel,
		"DATA_DIR":              &c.DataDir,
		"TELEGRAM_BOT_TOKEN":    &c.Telegram.BotToken,
		"TELEGRAM_CHAT_ID":      &c.Telegram.ChatID,
		"TWITTER_API_KEY":       &c.Twitter.APIKey,
		"TWITTER_API_SECRET":    &c.Twitter.APISecret,
		"TWITTER_ACCESS_TOKEN":  &c.Twitter.AccessToken,
		"TWITTER_ACCESS_SECRET": &c.Twitter.AccessSecret,
		"DATASET_KIND":          &c.Dataset.Kind,
		"DATASET_DIR":           &c.Dataset.Dir,
		"DATASET_S3_BUCKET":     &c.Dataset.S3.Bucket,
		"DATASET_S3_PREFIX":     &c.Dataset.S3.Prefix,
		"DATASET_S3_REGION":     &c.Dataset.S3.Region,
		"DATASET_S3_ENDPOINT":   &c.Dataset.S3.Endpoint,
		"DATASET_S3_ACCESS_KEY": &c.Dataset.S3.AccessKey,
		"DATASET_S3_SECRET_KEY": &c.Dataset.S3.SecretKey,
	}
	for key, dst := range strVars {
		if value, ok := get(key); ok {
			*dst = value
		}
	}

	boolVars := map[string]struct {
		dst *bool
		err error
	}{
		"TELEGRAM_DRY_RUN":   {&c.Telegram.DryRun, ErrInvalidDryRun},
		"TWITTER_ENABLED":    {&c.Twitter.Enabled, errors.New(`TWITTER_ENABLED must be "true" or "false"`)},
		"NEW_ONLY":           {&c.NewOnly, errors.New(`NEW_ONLY must be "true" or "false"`)},
		"DATASET_S3_USE_SSL": {&c.Dataset.S3.UseSSL, errors.New(`DATASET_S3_USE_SSL must be "true" or "false"`)},
	}
	for key, v := range boolVars {
		value, ok := get(key)
		if !ok {
			continue
		}
		parsed, err := ParseBool(value)
		if err != nil {
			return v.err
		}
		*v.dst = parsed
	}

	return nil
}

// ParseBool accepts "true" or "false" in any case; an empty value is false.
func ParseBool(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return false, nil
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", value)
	}
}

// field namespaces reported by the validator, mapped to their errors
var fieldErrors = map[string]error{
	"Config.URL":               ErrInvalidURL,
	"Config.LogLevel":          ErrInvalidLogLevel,
	"Config.DataDir":           ErrMissingDataDir,
	"Config.Telegram.BotToken": ErrMissingBotToken,
	"Config.Telegram.ChatID":   ErrMissingChatID,
	"Config.Dataset.Kind":      ErrInvalidDatasetKind,
	"Config.Dataset.Dir":       ErrMissingDatasetDir,
}

var validate = validator.New()

// Validate normalizes and validates the configuration.
func (c *Config) Validate() error {
	c.URL = strings.TrimSpace(c.URL)
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.Dataset.Kind = strings.ToLower(strings.TrimSpace(c.Dataset.Kind))
	if c.Dataset.Kind == "" {
		c.Dataset.Kind = DatasetNone
	}

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			if sentinel, ok := fieldErrors[fe.StructNamespace()]; ok {
				return sentinel
			}
			return fmt.Errorf("invalid %s: failed %q check", fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("validating config: %w", err)
	}

	if c.Dataset.Kind == DatasetS3 && c.Dataset.S3.Bucket == "" {
		return ErrMissingBucket
	}

	if c.Twitter.Enabled && !c.TwitterCredentialsComplete() {
		return ErrMissingTwitterCreds
	}

	return nil
}

// TwitterCredentialsComplete reports whether all four Twitter keys are set.
func (c *Config) TwitterCredentialsComplete() bool {
	return c.Twitter.APIKey != "" && c.Twitter.APISecret != "" &&
		c.Twitter.AccessToken != "" && c.Twitter.AccessSecret != ""
}
