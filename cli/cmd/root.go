// ABOUTME: Root command for the decoplan CLI
// ABOUTME: Global flags, config file, and environment binding through viper

package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arthurportas/tech-diving-app/cli/internal/tui/debuglog"
	"github.com/arthurportas/tech-diving-app/cli/internal/units"
)

const defaultAPIURL = "http://localhost:8080"

var cfgFile string

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "decoplan",
	Short: "Plan decompression dives with ZH-L16C and gradient factors",
	Long: `decoplan computes decompression schedules for single-level dives.

Plans are computed by the decoplan backend, or in-process with --local.

Configuration is read from $XDG_CONFIG_HOME/decoplan/config.yaml. Flags
override environment variables, which override the config file.

Environment Variables:
  DECOPLAN_API_URL  Backend API URL (default: http://localhost:8080)
  DECOPLAN_UNITS    metric or imperial (default: metric)
  DECOPLAN_LOCAL    Plan in-process instead of calling the backend`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (default is $XDG_CONFIG_HOME/decoplan/config.yaml)")
	flags.String("api-url", "", "Backend API URL (overrides DECOPLAN_API_URL)")
	flags.Bool("json", false, "Output JSON instead of human-readable text")
	flags.String("units", "", "Depth and rate units: metric or imperial (overrides DECOPLAN_UNITS)")
	flags.Bool("local", false, "Plan in-process instead of calling the backend")
}

// initConfig binds flags, env, and the config file. It is safe to call again
// after viper.Reset.
func initConfig() {
	if debuglog.EnabledByEnv() {
		_ = debuglog.Init(ConfigDir())
	}

	flags := rootCmd.PersistentFlags()
	_ = viper.BindPFlag("api_url", flags.Lookup("api-url"))
	_ = viper.BindPFlag("json", flags.Lookup("json"))
	_ = viper.BindPFlag("units", flags.Lookup("units"))
	_ = viper.BindPFlag("local", flags.Lookup("local"))

	viper.SetDefault("api_url", defaultAPIURL)
	viper.SetDefault("units", string(units.Metric))
	viper.SetDefault("local", false)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(ConfigDir())
	}

	viper.SetEnvPrefix("DECOPLAN")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			debuglog.Warn("config file ignored: %v", err)
		}
	}
}

// ConfigDir returns the decoplan config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "decoplan")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".decoplan"
	}
	return filepath.Join(home, ".config", "decoplan")
}

// GetAPIURL returns the API URL from flag, env, config file, or default (in priority order)
func GetAPIURL() string {
	if url := viper.GetString("api_url"); url != "" {
		return url
	}
	return defaultAPIURL
}

// GetUnits returns the configured unit system
func GetUnits() (units.System, error) {
	return units.Parse(viper.GetString("units"))
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return viper.GetBool("json")
}

// IsLocal returns whether plans are computed in-process
func IsLocal() bool {
	return viper.GetBool("local")
}
