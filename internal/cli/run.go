/*
PURPOSE:
  Defines the 'run' subcommand.
  Executes the full benchmark suite.

REQUIREMENTS:
  User-specified:
  - Run the benchmarks.
  - specific flags for overrides.
  - Optional interactive provider selection.

  Implementation-discovered:
  - Need to load config first.
  - Apply flag overrides to config.

ARCHITECTURE INTEGRATION:
  - Calls: internal/engine.Run()
  - Uses: internal/config, internal/provider

ERROR HANDLING:
  - Returns error if config load fails or engine run fails.

IMPLEMENTATION RULES:
  - Setup flags in init().
  - Logic: Load Config -> Override -> Resolve providers -> Engine.Run.

USAGE:
  sandbox-runner run --providers local,docker --iterations 10

SELF-HEALING INSTRUCTIONS:
  - Check flag names match Config struct fields generally.

RELATED FILES:
  - internal/cli/root.go

MAINTENANCE:
  - Update when adding new CLI overrides.
*/

package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/daryltucker/sandbox-runner/internal/config"
	"github.com/daryltucker/sandbox-runner/internal/engine"
	"github.com/daryltucker/sandbox-runner/internal/provider"
)

var (
	providersOverride  []string
	iterationsOverride int
	outputOverride     string
	warmupOverride     bool
	interactive        bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the benchmark suite",
	Long: `Executes the full benchmark suite against the configured sandbox providers.
Each iteration follows a strict protocol:
1. Provisioning: Creates a fresh sandbox, bounded by the creation timeout.
2. First command: Runs a smoke command; its completion marks the sandbox
   interactive and fixes the TTI measurement.
3. Workload (optional): Runs the configured setup and workload commands.
4. Teardown: Destroys the sandbox; teardown failures never affect results.

Results are written as JSONL and CSV per iteration, plus a ranked JSON
summary. Output files carry a short run ID so repeated runs never clobber
each other.`,
	Example: `  # Run with defaults (uses sandbox_runner.yaml)
  sandbox-runner run

  # Benchmark specific providers for 10 iterations
  sandbox-runner run --providers local,docker --iterations 10

  # Pick providers interactively
  sandbox-runner run --interactive

  # Write results elsewhere
  sandbox-runner run -o ./benchmarks`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Load Config
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		// 2. Overrides
		if len(providersOverride) > 0 {
			cfg.Providers = providersOverride
		}
		if iterationsOverride > 0 {
			cfg.Iterations = iterationsOverride
		}
		if outputOverride != "" {
			cfg.OutputDir = outputOverride
		}
		if cmd.Flags().Changed("warmup") {
			cfg.Warmup = warmupOverride
		}

		if interactive {
			selected, err := selectProviders(cfg.Providers)
			if err != nil {
				return err
			}
			cfg.Providers = selected
		}

		// 3. Resolve backends and execute
		providers, err := provider.FromConfig(cfg)
		if err != nil {
			return err
		}

		_, err = engine.Run(cmd.Context(), cfg, providers)
		return err
	},
}

// selectProviders prompts for a subset of the configured providers.
func selectProviders(available []string) ([]string, error) {
	options := make([]huh.Option[string], 0, len(available))
	for _, name := range available {
		options = append(options, huh.NewOption(name, name).Selected(true))
	}

	var selected []string
	form := huh.NewForm(huh.NewGroup(
		huh.NewMultiSelect[string]().
			Title("Providers to benchmark").
			Options(options...).
			Value(&selected),
	))
	if err := form.Run(); err != nil {
		return nil, err
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("no providers selected")
	}
	return selected, nil
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringSliceVar(&providersOverride, "providers", nil, "Comma-separated list of providers to benchmark (local, docker, relay)")
	runCmd.Flags().IntVarP(&iterationsOverride, "iterations", "n", 0, "Number of timed iterations per provider")
	runCmd.Flags().StringVarP(&outputOverride, "output-dir", "o", "", "Output directory for results (JSONL/CSV/summary)")
	runCmd.Flags().BoolVar(&warmupOverride, "warmup", false, "Run one discarded warmup iteration per provider")
	runCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Select providers interactively")
}
