/*
PURPOSE:
  Defines the 'list-providers' subcommand.
  Helps debug credentials and provider availability.

REQUIREMENTS:
  User-specified:
  - List configured providers and whether each can run.

  Implementation-discovered:
  - Useful validation step before full run.

ARCHITECTURE INTEGRATION:
  - Calls: internal/provider.FromConfig, Provider.Available()

ERROR HANDLING:
  - Prints the availability error per provider instead of aborting.

IMPLEMENTATION RULES:
  - Simple output to stdout.

USAGE:
  sandbox-runner list-providers

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/provider/provider.go

MAINTENANCE:
  - None.
*/

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daryltucker/sandbox-runner/internal/config"
	"github.com/daryltucker/sandbox-runner/internal/provider"
)

var listProvidersCmd = &cobra.Command{
	Use:   "list-providers",
	Short: "List configured providers and their availability",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		if len(providersOverride) > 0 {
			cfg.Providers = providersOverride
		}

		providers, err := provider.FromConfig(cfg)
		if err != nil {
			return err
		}

		for _, p := range providers {
			if err := p.Available(); err != nil {
				fmt.Printf("- %-12s UNAVAILABLE: %v\n", p.Name(), err)
				continue
			}
			fmt.Printf("- %-12s ok\n", p.Name())
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(listProvidersCmd)
	listProvidersCmd.Flags().StringSliceVar(&providersOverride, "providers", nil, "Comma-separated list of providers to check")
}
