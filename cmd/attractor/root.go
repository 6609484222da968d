package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/hupe1980/attractor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "ATTRACTOR"

func newRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:   "attractor",
		Short: "Parametric terminal component decomposition",
		Long: `attractor finds the terminal strongly connected components of a graph whose
edges are enabled for subsets of a real parameter interval, and reports for
every component the parameter values under which it is terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(v)
		},
	}

	root.PersistentFlags().StringP("config", "c", "", "config file (YAML)")
	root.PersistentFlags().String("log.level", "info", "log level: debug, info, warn, error")
	root.PersistentFlags().String("log.format", "text", "log format: text or json")
	_ = v.BindPFlag("config", root.PersistentFlags().Lookup("config"))
	_ = v.BindPFlag("log.level", root.PersistentFlags().Lookup("log.level"))
	_ = v.BindPFlag("log.format", root.PersistentFlags().Lookup("log.format"))

	root.AddCommand(newDecomposeCmd(v))
	return root
}

func initConfig(v *viper.Viper) error {
	v.SetEnvPrefix(envPrefix)
	// ATTRACTOR_LOG_LEVEL for log.level
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile := v.GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

func newLogger(cmd *cobra.Command, v *viper.Viper) (*attractor.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(v.GetString("log.level"))); err != nil {
		return nil, fmt.Errorf("invalid log level %q", v.GetString("log.level"))
	}
	opts := &slog.HandlerOptions{Level: level}

	switch format := v.GetString("log.format"); format {
	case "text":
		return attractor.NewLogger(slog.NewTextHandler(cmd.ErrOrStderr(), opts)), nil
	case "json":
		return attractor.NewLogger(slog.NewJSONHandler(cmd.ErrOrStderr(), opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
}
