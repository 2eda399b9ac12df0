package config

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/olusolaa/stack-drift-notifier/internal/errors"
	"github.com/olusolaa/stack-drift-notifier/internal/log"
)

const (
	EnvPrefix      = "DRIFT"
	DefaultSubject = "CloudFormation Drift Detection Report"
	RegionsAll     = "all"
)

type Config struct {
	Settings     SettingsConfig     `mapstructure:"settings"`
	Notification NotificationConfig `mapstructure:"notification"`
	Detection    DetectionConfig    `mapstructure:"detection"`
	AWS          AWSConfig          `mapstructure:"aws"`
	Metrics      MetricsConfig      `mapstructure:"metrics"`
	Regions      []string           `mapstructure:"regions" validate:"required,min=1,dive,required"`
}

type SettingsConfig struct {
	LogLevel     log.Level  `mapstructure:"log_level" validate:"omitempty,oneof=debug info warn error"`
	LogFormat    log.Format `mapstructure:"log_format" validate:"omitempty,oneof=text json"`
	LogFile      string     `mapstructure:"log_file"`
	ReporterType string     `mapstructure:"reporter" validate:"omitempty,oneof=text json none"`
	NoColor      bool       `mapstructure:"no_color"`
	Parallel     bool       `mapstructure:"parallel"`
	// DryRun keeps critical lines local instead of publishing them.
	DryRun bool `mapstructure:"dry_run"`
}

type NotificationConfig struct {
	TopicARN string `mapstructure:"topic_arn" validate:"required_if=DryRun false,omitempty,startswith=arn:"`
	Subject  string `mapstructure:"subject" validate:"required,max=100"`
	// DryRun is copied from Settings before validation.
	DryRun bool `mapstructure:"-"`
}

type DetectionConfig struct {
	StalenessThreshold time.Duration `mapstructure:"staleness_threshold" validate:"gte=0"`
	MaxTries           int           `mapstructure:"max_tries" validate:"gte=0,lte=50"`
	Backoff            time.Duration `mapstructure:"backoff" validate:"gte=0"`
	PollConcurrency    int           `mapstructure:"poll_concurrency" validate:"gte=1,lte=100"`
}

type AWSConfig struct {
	Profile      string `mapstructure:"profile"`
	MaxAttempts  int    `mapstructure:"max_attempts" validate:"gte=1,lte=20"`
	RateLimitRPS int    `mapstructure:"rate_limit_rps" validate:"gte=0,lte=100"`
}

type MetricsConfig struct {
	// Textfile is a node_exporter textfile collector path; empty disables it.
	Textfile string `mapstructure:"textfile"`
}

// DefaultRegions is scanned when no regions are configured.
func DefaultRegions() []string {
	return []string{
		"us-east-1", "us-east-2", "us-west-1", "us-west-2",
		"ca-central-1", "sa-east-1",
		"eu-west-1", "eu-west-2", "eu-west-3", "eu-central-1", "eu-north-1",
		"ap-south-1", "ap-northeast-1", "ap-northeast-2", "ap-southeast-1", "ap-southeast-2",
	}
}

func DefaultConfig() *Config {
	return &Config{
		Settings: SettingsConfig{
			LogLevel:     log.LevelInfo,
			LogFormat:    log.FormatText,
			ReporterType: "text",
			Parallel:     true,
		},
		Notification: NotificationConfig{
			Subject: DefaultSubject,
		},
		Detection: DetectionConfig{
			StalenessThreshold: 60 * time.Second,
			MaxTries:           3,
			Backoff:            3 * time.Second,
			PollConcurrency:    10,
		},
		AWS: AWSConfig{
			MaxAttempts:  5,
			RateLimitRPS: 10,
		},
		Regions: DefaultRegions(),
	}
}

// SetDefaults registers every default on v so that environment variables
// bound through AutomaticEnv are picked up by Unmarshal.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("settings.log_level", string(d.Settings.LogLevel))
	v.SetDefault("settings.log_format", string(d.Settings.LogFormat))
	v.SetDefault("settings.log_file", d.Settings.LogFile)
	v.SetDefault("settings.reporter", d.Settings.ReporterType)
	v.SetDefault("settings.no_color", d.Settings.NoColor)
	v.SetDefault("settings.parallel", d.Settings.Parallel)
	v.SetDefault("settings.dry_run", d.Settings.DryRun)
	v.SetDefault("notification.topic_arn", "")
	v.SetDefault("notification.subject", d.Notification.Subject)
	v.SetDefault("detection.staleness_threshold", d.Detection.StalenessThreshold)
	v.SetDefault("detection.max_tries", d.Detection.MaxTries)
	v.SetDefault("detection.backoff", d.Detection.Backoff)
	v.SetDefault("detection.poll_concurrency", d.Detection.PollConcurrency)
	v.SetDefault("aws.profile", "")
	v.SetDefault("aws.max_attempts", d.AWS.MaxAttempts)
	v.SetDefault("aws.rate_limit_rps", d.AWS.RateLimitRPS)
	v.SetDefault("metrics.textfile", "")
	v.SetDefault("regions", d.Regions)
}

// NewViper returns a viper instance reading DRIFT_* environment variables.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load decodes and validates the configuration held by v.
func Load(ctx context.Context, v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()
	err := v.Unmarshal(cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		secondsToDurationHook(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeConfigParseError, "failed to unmarshal configuration")
	}

	cfg.Regions = NormalizeRegions(cfg.Regions)
	if err := cfg.Validate(ctx); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate runs struct validation and returns a user-facing error listing
// every failed field.
func (c *Config) Validate(ctx context.Context) error {
	c.Notification.DryRun = c.Settings.DryRun

	validate := validator.New(validator.WithRequiredStructEnabled())
	err := validate.StructCtx(ctx, c)
	if err == nil {
		return nil
	}

	var details strings.Builder
	details.WriteString("Configuration validation failed:")
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Wrap(err, errors.CodeConfigValidation, "configuration validation failed")
	}
	for _, fe := range validationErrors {
		details.WriteString(fmt.Sprintf("\n - Field '%s': Failed on '%s' validation (value: '%v')", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return errors.NewUserFacing(errors.CodeConfigValidation, details.String(), "Please check your configuration file, DRIFT_* environment variables or flags.")
}

// NormalizeRegions trims and de-duplicates regions, expanding "all" to the
// default region list.
func NormalizeRegions(regions []string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(regions))
	for _, r := range regions {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if strings.EqualFold(r, RegionsAll) {
			return DefaultRegions()
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

// secondsToDurationHook lets bare integers such as DRIFT_DETECTION_STALENESS_THRESHOLD=300
// be read as seconds.
func secondsToDurationHook() mapstructure.DecodeHookFuncType {
	durationType := reflect.TypeOf(time.Duration(0))
	return func(_ reflect.Type, to reflect.Type, data any) (any, error) {
		if to != durationType {
			return data, nil
		}
		switch v := data.(type) {
		case int:
			return time.Duration(v) * time.Second, nil
		case int64:
			return time.Duration(v) * time.Second, nil
		case float64:
			return time.Duration(v * float64(time.Second)), nil
		case string:
			if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
				return time.Duration(n) * time.Second, nil
			}
		}
		return data, nil
	}
}
