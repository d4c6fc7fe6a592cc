package main

import (
	"fmt"
	"os"

	"github.com/clusterlens/api/app"
	"github.com/spf13/cobra"
)

var (
	configName string
	configPath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "console-api",
		Short: "Aggregation API over a Kubernetes control plane",
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the console API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := app.NewRestApp(configName, configPath)
			if err != nil {
				return fmt.Errorf("initialize application: %w", err)
			}
			application.Run()
			return nil
		},
	}
	serveCmd.Flags().StringVar(&configName, "config-name", "", "config file name without extension (default console_config)")
	serveCmd.Flags().StringVar(&configPath, "config-path", "", "additional directory to search for config files")

	rootCmd.AddCommand(serveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
