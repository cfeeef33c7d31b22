// ABOUTME: Root command for the campus-events CLI
// ABOUTME: Handles global flags, configuration and logging setup

package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gursheyss/cs157a/internal/config"
	"github.com/gursheyss/cs157a/internal/logger"
)

var (
	apiURL     string
	jsonOutput bool
	configPath string
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "campus-events",
	Short: "Client for the campus event management API",
	Long: `campus-events browses campus events, manages registrations and, for
organizers, creates and edits events. Run "campus-events tui" for the
interactive interface.

Environment Variables:
  CAMPUS_EVENTS_API_URL   Backend API URL (default: http://localhost:8080)
  CAMPUS_EVENTS_TIMEOUT   Per-request timeout in seconds (default: 30)
  CAMPUS_EVENTS_DATA_DIR  Where the session cookie and debug log are kept
  LOG_LEVEL               debug, info, warn or error (default: info)
  LOG_FORMAT              text or json (default: text)`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			// Commands report the error themselves when they load config
			return
		}
		logger.Init(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format}, os.Stderr)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides CAMPUS_EVENTS_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/campus-events/config.toml)")
}

// loadConfig reads config and applies the --api-url flag
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath, "")
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.APIURL = config.NormalizeAPIURL(apiURL)
	}
	return cfg, nil
}

// GetAPIURL returns the API URL from flag, env/config, or default (in priority order)
func GetAPIURL() string {
	if apiURL != "" {
		return config.NormalizeAPIURL(apiURL)
	}
	cfg, err := config.Load(configPath, "")
	if err != nil {
		return config.DefaultAPIURL
	}
	return cfg.APIURL
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}
