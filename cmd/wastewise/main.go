package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/Veraticus/wastewise/internal/cli"
	"github.com/Veraticus/wastewise/internal/common"
	"github.com/Veraticus/wastewise/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "wastewise",
		Short: "♻️  Report waste, collect it, get rewarded",
		Long: `wastewise: report waste with a photo, claim collection tasks, and earn
tokens when an AI model verifies the collection matches the report.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return initConfig(cfgFile)
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/wastewise/config.yaml)")
	cmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	cmd.PersistentFlags().String("user", "", "email of the acting user (overrides user.email)")
	cmd.PersistentFlags().String("db", "", "database path (overrides database.path)")

	// Bind flags to viper
	_ = viper.BindPFlag("logging.level", cmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", cmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("user.email", cmd.PersistentFlags().Lookup("user"))
	_ = viper.BindPFlag("database.path", cmd.PersistentFlags().Lookup("db"))

	cmd.AddCommand(userCmd())
	cmd.AddCommand(reportCmd())
	cmd.AddCommand(taskCmd())
	cmd.AddCommand(leaderboardCmd())
	cmd.AddCommand(impactCmd())
	cmd.AddCommand(migrateCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

func main() {
	interrupts := cli.NewInterruptHandler(os.Stderr)
	ctx, stop := interrupts.HandleInterrupts(context.Background(), "Anything already saved stays saved.")

	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(common.UserMessage(err)))
		os.Exit(1)
	}
}

func initConfig(cfgFile string) error {
	// API keys commonly live in a local .env file.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(config.Dir())
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("WASTEWISE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	return setupLogging()
}

func setupLogging() error {
	level := viper.GetString("logging.level")
	format := viper.GetString("logging.format")

	switch level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", level)
	}

	switch format {
	case "", "console":
		format = "text"
	case "json":
	default:
		return fmt.Errorf("invalid log format: %s", format)
	}

	common.SetupLogger(os.Stderr, common.ParseLevel(level), format)
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "wastewise %s\n", version)
		},
	}
}
