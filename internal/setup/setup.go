// Package setup walks the user through creating an initial configuration.
package setup

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/viper"

	"github.com/bnema/hidgeneric/internal/config"
)

// Run asks for the basic driver settings and writes the config file.
func Run() error {
	cfg := config.Get()

	forceGeneric := cfg.Driver.ForceGeneric
	uinputName := cfg.Driver.UinputName
	logLevel := cfg.Logging.LogLevel
	if logLevel == "" {
		logLevel = "info"
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Force generic handling?").
				Description("Claim every device even when a specialized driver wants it").
				Value(&forceGeneric),
			huh.NewInput().
				Title("Virtual mouse name").
				Description("Name of the uinput device created for event injection").
				Value(&uinputName),
			huh.NewSelect[string]().
				Title("Log level").
				Options(
					huh.NewOption("debug", "debug"),
					huh.NewOption("info", "info"),
					huh.NewOption("warn", "warn"),
					huh.NewOption("error", "error"),
				).
				Value(&logLevel),
		),
	)

	if err := form.Run(); err != nil {
		return fmt.Errorf("setup aborted: %w", err)
	}

	viper.Set("driver.force_generic", forceGeneric)
	viper.Set("driver.uinput_name", uinputName)
	viper.Set("logging.log_level", logLevel)

	if err := config.Save(); err != nil {
		return err
	}

	fmt.Printf("Config written to %s\n", config.GetConfigPath())
	return nil
}
