package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ppiankov/wrangle/internal/logger"
	"github.com/ppiankov/wrangle/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is set at build time with -ldflags
var Version = "v0.1.0"

var (
	cfgFile  string
	verbose  bool
	logLevel string

	log = logger.NewLogger("info")
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "wrangle",
	Short: "Wrangle - reshape OpenStreetMap extracts and N-Q filing holdings",
	Long: `Wrangle cleans two kinds of messy public data.

  wrangle osm      streams OpenStreetMap XML into one JSON document per
                   node or way, normalizing street suffixes and venue names
  wrangle filings  pulls (company, shares) holdings out of the tables of
                   SEC N-Q filings and matches them to listed companies`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := viper.GetString("logging.level")
		if verbose {
			level = "debug"
		}
		log.SetLevel(level)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "wrangle %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.wrangle/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(filepath.Join(home, ".wrangle"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// WRANGLE_OSM_SUFFIX maps to osm.suffix
	viper.SetEnvPrefix("WRANGLE")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig layers the config file and environment over the defaults.
// Flags are applied afterwards by each command, which then validates.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	registerDefaults(viper.GetViper(), cfg)
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}
