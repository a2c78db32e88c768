package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/foxzi/hackflow/internal/app"
	"github.com/foxzi/hackflow/internal/config"
)

var (
	cfgFile   string
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "hackflow",
	Short: "HackFlow - hackathon operations toolkit",
	Long: `HackFlow runs the hackathon host dashboard and the mail merge tool.
Contacts come from a CSV file; emails are personalised with {{placeholder}}
tokens and exported as a text bundle, an Outlook script, a CSV or a Word
merge template.`,
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web dashboard",
	Long:  `Start the HackFlow web dashboard and, when enabled, the metrics listener.`,
	RunE:  runServe,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration commands",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	RunE:  runConfigValidate,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "hackflow version %s\n", version)
		if commit != "unknown" {
			fmt.Fprintf(out, "  commit: %s\n", commit)
		}
		if buildTime != "unknown" {
			fmt.Fprintf(out, "  built:  %s\n", buildTime)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (defaults apply when empty)")

	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(serveCmd, configCmd, versionCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	application, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}

	return application.Run(context.Background())
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("configuration is invalid: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Configuration is valid\n")
	fmt.Fprintf(out, "  Listen: %s\n", cfg.Server.ListenAddr)
	fmt.Fprintf(out, "  Site: %s (%s)\n", cfg.Site.Name, cfg.Site.BaseURL)
	fmt.Fprintf(out, "  Max upload: %d bytes\n", cfg.Mailing.MaxUploadBytes)
	if cfg.SlowModeEnabled() {
		fmt.Fprintf(out, "  Slow mode: %d per %s\n", cfg.Moderation.SlowModeBurst, cfg.Moderation.SlowModeInterval)
	} else {
		fmt.Fprintf(out, "  Slow mode: disabled\n")
	}
	fmt.Fprintf(out, "  Worker: %d per %s\n", cfg.Worker.BatchSize, cfg.Worker.PollInterval)
	if cfg.Metrics.Enabled {
		fmt.Fprintf(out, "  Metrics: %s%s\n", cfg.Metrics.ListenAddr, cfg.Metrics.Path)
	} else {
		fmt.Fprintf(out, "  Metrics: disabled\n")
	}

	return nil
}
