// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the research-agent CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/research-agent/internal/secrets"
	"github.com/pdiddy/research-agent/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// loadedSecrets holds API keys loaded from .secrets/ at startup.
	loadedSecrets map[string]string

	logger  = zap.NewNop()
	verbose bool
)

// rootCmd is the base command for the research-agent CLI.
var rootCmd = &cobra.Command{
	Use:   "research-agent",
	Short: "Generate research reports from live web search",
	Long: `research-agent turns a topic into a Markdown research report. A language
model proposes research questions, each question is searched on the web, and
the results are assembled into a report with one section per question.

Run "report" for a one-shot report in the terminal, "serve" for the browser
interface, and "history" to browse previously archived reports.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := config.Build()
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		logger = l

		if _, err := secrets.LoadEnvFile(".env"); err != nil {
			return err
		}
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug("loaded secrets", zap.Strings("keys", keys))
		}
		if f := viper.ConfigFileUsed(); f != "" {
			logger.Debug("using config file", zap.String("path", f))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./research-agent.yaml or ~/.config/research-agent/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	setDefaults(types.DefaultConfig())
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("research-agent")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "research-agent"))
		}
	}

	viper.SetEnvPrefix("RESEARCH_AGENT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			fmt.Fprintf(os.Stderr, "warning: could not read config file %s: %v\n", cfgFile, err)
		}
	}
}

// setDefaults registers every config key so environment variables can
// override keys that appear in no config file.
func setDefaults(d types.Config) {
	viper.SetDefault("llm.provider", string(d.LLM.Provider))
	viper.SetDefault("llm.model", d.LLM.Model)
	viper.SetDefault("llm.base_url", d.LLM.BaseURL)
	viper.SetDefault("llm.api_key", "")

	viper.SetDefault("search.backend", string(d.Search.Backend))
	viper.SetDefault("search.max_results", d.Search.MaxResults)
	viper.SetDefault("search.depth", d.Search.Depth)
	viper.SetDefault("search.timeout", d.Search.Timeout)
	viper.SetDefault("search.user_agent", d.Search.UserAgent)
	viper.SetDefault("search.api_key", "")

	viper.SetDefault("report.output_dir", d.Report.OutputDir)
	viper.SetDefault("archive.dir", d.Archive.Dir)
	viper.SetDefault("archive.max_results", d.Archive.MaxResults)
	viper.SetDefault("server.addr", d.Server.Addr)
	viper.SetDefault("server.request_timeout", d.Server.RequestTimeout)
}

// loadConfig builds the effective configuration through viper and resolves
// credentials.
func loadConfig() (types.Config, error) {
	cfg := types.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("reading configuration: %w", err)
	}

	cfg.LLM.APIKey = secrets.Resolve(secrets.OpenAI, cfg.LLM.APIKey, loadedSecrets)
	cfg.Search.APIKey = secrets.Resolve(secrets.Tavily, cfg.Search.APIKey, loadedSecrets)
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
