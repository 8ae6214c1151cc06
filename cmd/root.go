package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bnema/hidgeneric/internal/config"
	"github.com/bnema/hidgeneric/internal/logger"
)

var (
	// Version is set during build
	Version = "0.1.0-dev"

	configPath string

	rootCmd = &cobra.Command{
		Use:   "hidgeneric",
		Short: "hidgeneric - generic HID driver tooling",
		Long: `hidgeneric is the fallback HID driver core with high-resolution
scroll wheel support, plus tooling to inspect captured capability-report
dumps and to replay wheel events through the event translator.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				config.SetConfigPath(configPath)
			}
			if err := config.Init(); err != nil {
				return err
			}
			if level := config.Get().Logging.LogLevel; level != "" {
				logger.SetLevel(level)
			}
			return nil
		},
	}
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s\n" .Version}}`)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
}
