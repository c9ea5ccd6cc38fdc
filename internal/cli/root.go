// Package cli implements the command-line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/hightemp/countrypick/internal/config"
	"github.com/hightemp/countrypick/internal/countries"
	"github.com/hightemp/countrypick/internal/logging"
)

var (
	// Version information (set at build time)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var (
	cfgFile  string
	settings *config.Settings
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "countrypick",
	Short: "Pick a country by typing its name",
	Long: `countrypick is an interactive country search. Type the beginning of a
country name, move through the suggestions and press enter. The chosen
ISO country code is printed and remembered.

Interactive selection:
  countrypick

One-shot search:
  countrypick search ger

Show the remembered selection:
  countrypick current`,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	PersistentPreRunE: initSettings,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: runPick,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", config.ConfigFile(config.Dir()), "config file")
	flags.Bool("debug", false, "enable debug logging")
	flags.StringP("output", "o", "text", "output format: text, json, yaml, or table")
	flags.String("source", string(config.SourceEmbedded), "country list source: embedded, file, or remote")
	flags.String("countries-file", "", "country list file (csv, json, or yaml)")
	flags.String("countries-url", config.DefaultRemoteURL, "country list URL for the remote source")
	flags.Duration("cache-ttl", config.DefaultRemoteCacheTTL, "how long a downloaded country list is reused")
	flags.Bool("offline", false, "offline mode (use only the cached remote list)")
	flags.String("state-file", "", "file remembering the selected country (default: next to the config file)")
	flags.Int("limit", config.DefaultLimit, "maximum number of suggestions")
	flags.Duration("debounce", config.DefaultDebounce, "input silence before suggestions refresh")

	// Add subcommands
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(currentCmd)
	rootCmd.AddCommand(versionCmd)
}

func initSettings(cmd *cobra.Command, args []string) error {
	v := viper.New()
	if err := config.Setup(v, cfgFile); err != nil {
		return err
	}
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return err
	}

	s, err := config.Load(v)
	if err != nil {
		return err
	}
	if err := logging.Init(s.Debug); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}

	logging.Debug("settings loaded",
		zap.String("config_dir", s.ConfigDir),
		zap.String("source", string(s.Source)),
		zap.String("state_file", s.StateFile),
		zap.Int("limit", s.Limit),
		zap.Duration("debounce", s.Debounce),
	)
	settings = s
	return nil
}

// newSource builds the country source selected by s.
func newSource(s *config.Settings) countries.Source {
	switch s.Source {
	case config.SourceFile:
		return countries.NewFileSource(s.CountriesFile)
	case config.SourceRemote:
		cache := countries.NewListCache(config.RemoteCachePath(s.CacheDir()), s.CacheTTL)
		return countries.NewRemoteSource(countries.NewClient(s.CountriesURL), cache, s.Offline)
	default:
		return countries.EmbeddedSource()
	}
}

// loadCountries waits for the single delivery of src.
func loadCountries(ctx context.Context, src countries.Source) ([]countries.Country, bool) {
	list, ok := <-src.Load(ctx)
	return list, ok
}

// ExitCode constants
const (
	ExitSuccess      = 0
	ExitInvalidInput = 2
	ExitNoSelection  = 3
	ExitNotFound     = 4
	ExitSourceFailed = 5
)

func exitWithCode(code int, msg string) {
	fmt.Fprintln(os.Stderr, msg)
	logging.Sync()
	os.Exit(code)
}
