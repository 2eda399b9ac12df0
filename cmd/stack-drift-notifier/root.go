package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/olusolaa/stack-drift-notifier/internal/app"
	"github.com/olusolaa/stack-drift-notifier/internal/config"
	apperrors "github.com/olusolaa/stack-drift-notifier/internal/errors"
)

// configName is looked up as yaml in the working directory, then $HOME.
const configName = ".stack-drift-notifier"

var (
	v         = config.NewViper()
	cfgFile   string
	overrides app.Overrides
)

var rootCmd = &cobra.Command{
	Use:   "stack-drift-notifier",
	Short: "Detects drift on CloudFormation stacks across regions and notifies on it.",
	Long: `Stack Drift Notifier starts drift detection on every active CloudFormation
stack that has not been checked recently, waits for the detections to finish
and reports each stack's drift status. Drifted stacks and failed detections
are published to an SNS topic.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		app.ApplyOverrides(v, overrides)

		application, bootstrapErr := app.BuildApplicationFromViper(cmd.Context(), v)
		if bootstrapErr != nil {
			fmt.Fprintf(os.Stderr, "ERROR: Application initialization failed: %v\n", bootstrapErr)
			printUserFacing(bootstrapErr)
			return bootstrapErr
		}
		defer application.Close()

		summary, runErr := application.Run(cmd.Context())
		if runErr != nil {
			fmt.Fprintf(os.Stderr, "ERROR: drift audit failed in %d of %d regions: %v\n",
				len(summary.FailedRegions()), len(summary.Regions), summary.FailedRegions())
			printUserFacing(runErr)
			return runErr
		}
		return nil
	},
}

func printUserFacing(err error) {
	userMsg, suggestion, ok := apperrors.GetUserFacingMessage(err)
	if !ok {
		return
	}
	fmt.Fprintf(os.Stderr, "Error Details: %s\n", userMsg)
	if suggestion != "" {
		fmt.Fprintf(os.Stderr, "Suggestion: %s\n", suggestion)
	}
}

func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "Configuration file path (default is ./.stack-drift-notifier.yaml or $HOME/.stack-drift-notifier.yaml)")
	flags.StringP("profile", "p", "", "AWS shared config profile")
	flags.StringVarP(&overrides.Regions, "region", "r", "", "Comma separated regions to audit, or 'all'")
	flags.Int("staleness", 0, "Seconds since the last drift check below which a stack is not re-checked")
	flags.BoolVar(&overrides.Sequential, "sequential", false, "Audit regions one after another instead of in parallel")
	flags.StringP("output", "o", "", "Run summary format (text, json, none)")
	flags.String("topic-arn", "", "SNS topic receiving critical notifications")
	flags.Bool("dry-run", false, "Keep critical notifications in the local log")
	flags.String("log-level", "", "Override log level (debug, info, warn, error)")
	flags.String("log-format", "", "Override log format (text, json)")
	flags.String("log-file", "", "Also write logs to this file")
	flags.String("metrics-textfile", "", "Write run metrics to this Prometheus textfile")

	bindings := map[string]string{
		"aws.profile":                   "profile",
		"detection.staleness_threshold": "staleness",
		"settings.reporter":             "output",
		"notification.topic_arn":        "topic-arn",
		"settings.dry_run":              "dry-run",
		"settings.log_level":            "log-level",
		"settings.log_format":           "log-format",
		"settings.log_file":             "log-file",
		"metrics.textfile":              "metrics-textfile",
	}
	for key, name := range bindings {
		cobra.CheckErr(v.BindPFlag(key, flags.Lookup(name)))
	}
}

func initializeConfig(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return apperrors.Wrap(err, apperrors.CodeConfigReadError, "failed to read .env file")
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using configuration file:", v.ConfigFileUsed())
	} else {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return apperrors.Wrap(err, apperrors.CodeConfigReadError, "failed to read config file")
		}
	}
	return nil
}
