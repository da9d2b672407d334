package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "wmgrd",
		Short: "wmgrd is a headless, programmable X11 window-manager core",
		Long: `wmgrd owns the X11 root event stream and exposes window state and
stacking control over a control-plane transport. It makes no layout
decisions itself: an external policy process enumerates windows,
assigns visibility and Z-order, and commits geometry changes.`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/wmgrd/config.yaml)")
	rootCmd.PersistentFlags().String("transport", "", "control-plane transport: stdio or http")
	rootCmd.PersistentFlags().String("listen-addr", "", "http transport bind address")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	viper.BindPFlag("transport", rootCmd.PersistentFlags().Lookup("transport"))
	viper.BindPFlag("listen_addr", rootCmd.PersistentFlags().Lookup("listen-addr"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// GetConfigFile returns the config file path passed via --config.
func GetConfigFile() string {
	return cfgFile
}
