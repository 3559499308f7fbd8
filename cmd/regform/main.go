package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"regform/internal/client"
	"regform/internal/config"
	"regform/internal/form"
	"regform/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	cfgPath string
	verbose bool
	baseURL string
	timeout time.Duration

	// Effective configuration, loaded before every command
	cfg = config.DefaultConfig()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "regform",
	Short: "regform - customer registration from the terminal",
	Long: `regform collects a customer registration, checks it field by field and
sends it to the registration service.

Entering a 10 digit phone number looks the customer up and prefills the form.
The location fields are filled from the host on request.

Run without arguments to start the interactive form.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		applyFlagOverrides(cmd, loaded)
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("invalid config %s: %w", cfgPath, err)
		}
		cfg = loaded

		if err := logging.Initialize(cfg.Logging.Logging()); err != nil {
			return err
		}
		logging.Boot("Config loaded",
			zap.String("path", cfgPath),
			zap.String("command", cmd.CommandPath()),
			zap.String("base_url", cfg.Client.BaseURL),
			zap.String("success_mode", cfg.Form.SuccessMode))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: runRegister,
}

func applyFlagOverrides(cmd *cobra.Command, c *config.Config) {
	if cmd.Flags().Changed("base-url") {
		c.Client.BaseURL = baseURL
	}
	if cmd.Flags().Changed("timeout") {
		c.Client.Timeout = timeout.String()
	}
	if verbose {
		c.Logging.Level = "debug"
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", config.DefaultPath, "Config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Registration service URL (overrides config)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "HTTP timeout (overrides config)")

	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(strengthCmd)
	rootCmd.AddCommand(locateCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// commandContext returns the command's context, or Background for commands
// invoked directly from tests.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// newClient builds the registration service client from cfg.
func newClient(c *config.Config) *client.Client {
	return client.New(c.Client.BaseURL, client.Options{
		Timeout:   c.GetClientTimeout(),
		UserAgent: "regform/" + version,
	})
}

// formOptions maps the form section onto reducer options.
func formOptions(c *config.Config) form.Options {
	return form.Options{
		SuccessMode:      form.SuccessMode(c.Form.SuccessMode),
		ResetAfterSubmit: c.Form.ResetAfterSubmit,
	}
}
