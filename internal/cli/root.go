package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/nlquery/internal/model"
)

// version is set at build time with -ldflags "-X .../internal/cli.version=..."
var version = "v0.1.0-dev"

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "nlquery",
	Short: "nlquery - read the structured intent of analytical questions",
	Long: `nlquery turns a natural-language analytical question such as
"Which countries had higher GDP than Germany in 2015?" into a structured
query intent: the kind of answer wanted, the time window, the places and
their roles, the comparisons and the ranking to apply.

Questions are annotated by a Stanford CoreNLP server, or read pre-annotated
from JSON files.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if viper.GetBool("output.verbose") {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "nlquery %s\n", version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.nlquery/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("annotator-url", "", "CoreNLP server URL")
	rootCmd.PersistentFlags().Int("current-year", 0, "year relative durations end at (0: this year)")
	rootCmd.PersistentFlags().Bool("no-cache", false, "do not cache annotator responses")

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads the config file and NLQUERY_* environment variables
func initConfig() {
	setDefaults(model.DefaultConfig())
	bindFlags()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(filepath.Join(home, ".nlquery"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("NLQUERY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

func bindFlags() {
	flags := rootCmd.PersistentFlags()
	_ = viper.BindPFlag("output.verbose", flags.Lookup("verbose"))
	_ = viper.BindPFlag("annotator.url", flags.Lookup("annotator-url"))
	_ = viper.BindPFlag("extract.current_year", flags.Lookup("current-year"))
}

// setDefaults registers every config key so environment variables and
// flags can override it
func setDefaults(cfg *model.Config) {
	defaults := map[string]any{
		"extract.current_year":          cfg.Extract.CurrentYear,
		"extract.earliest_year":         cfg.Extract.EarliestYear,
		"extract.gazetteer":             cfg.Extract.Gazetteer,
		"annotator.url":                 cfg.Annotator.URL,
		"annotator.timeout":             cfg.Annotator.Timeout,
		"annotator.requests_per_second": cfg.Annotator.RequestsPerSecond,
		"annotator.burst":               cfg.Annotator.Burst,
		"annotator.http_proxy":          cfg.Annotator.HTTPProxy,
		"annotator.https_proxy":         cfg.Annotator.HTTPSProxy,
		"cache.enabled":                 cfg.Cache.Enabled,
		"cache.dir":                     cfg.Cache.Dir,
		"cache.memory_ttl":              cfg.Cache.MemoryTTL,
		"cache.disk_ttl":                cfg.Cache.DiskTTL,
		"concurrency.workers":           cfg.Concurrency.Workers,
		"output.verbose":                cfg.Output.Verbose,
		"output.include_footer":         cfg.Output.IncludeFooter,
	}
	for k, v := range defaults {
		viper.SetDefault(k, v)
	}
}

// loadConfig returns the effective configuration: flags over environment
// over config file over defaults
func loadConfig(cmd *cobra.Command) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache {
		cfg.Cache.Enabled = false
	}
	return cfg, nil
}

func userAgent() string {
	return "nlquery/" + version + " (+https://github.com/ppiankov/nlquery)"
}
