package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/risklab/xolsim/internal/analysis"
	"github.com/risklab/xolsim/internal/config"
	"github.com/risklab/xolsim/internal/report"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a treaty analysis from a config file",
		Long: `Run the baseline and inflation-stressed scenarios for the configured
treaty and print both metric sets. When the config lists layer_options,
every candidate layer is evaluated under the same portfolio assumptions.`,
		RunE: runAnalysisCmd,
	}
	addRunFlags(cmd.Flags())
	return cmd
}

func addRunFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Config file path (default: config/treaty.yaml if present)")
	fs.String("out", "", "Artifact output directory (overrides config)")
	fs.String("format", "", "Console output format: text|json (overrides config)")
	fs.Int("trials", 0, "Trial count override")
	fs.Int64("seed", 0, "Random seed override")
}

func runAnalysisCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(cfg.LayerOptions) > 0 {
		results, err := analysis.RunComparison(ctx, cfg.Simulation, cfg.LayerOptions)
		if err != nil {
			return err
		}
		fmt.Print(report.RenderComparisonText(results))
		return writeArtifacts(cfg, comparisonReports(results))
	}

	result, err := analysis.Run(ctx, cfg.Simulation)
	if err != nil {
		return err
	}

	if cfg.Output.Format == "json" {
		data, err := report.RenderJSON(result)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	} else {
		fmt.Print(report.RenderText(result))
	}
	return writeArtifacts(cfg, []*analysis.Report{result})
}

func loadRunConfig(cmd *cobra.Command) (*config.File, error) {
	path, _ := cmd.Flags().GetString("config")
	var cfg *config.File
	switch {
	case path != "":
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	default:
		if _, err := os.Stat(config.DefaultPath()); err == nil {
			loaded, err := config.Load(config.DefaultPath())
			if err != nil {
				return nil, err
			}
			cfg = loaded
		} else {
			log.Info().Msg("no config file found, using built-in example treaty")
			cfg = config.Default()
		}
	}

	if out, _ := cmd.Flags().GetString("out"); out != "" {
		cfg.Output.Dir = out
	}
	if format, _ := cmd.Flags().GetString("format"); format != "" {
		cfg.Output.Format = format
	}
	if trials, _ := cmd.Flags().GetInt("trials"); trials > 0 {
		cfg.Simulation.Trials = trials
	}
	if cmd.Flags().Changed("seed") {
		seed, _ := cmd.Flags().GetInt64("seed")
		cfg.Simulation.Seed = &seed
	}
	return cfg, nil
}

func writeArtifacts(cfg *config.File, reports []*analysis.Report) error {
	if cfg.Output.Dir == "" {
		return nil
	}
	writer := report.NewWriter(cfg.Output.Dir)
	for _, r := range reports {
		if _, err := writer.Write(r); err != nil {
			return err
		}
	}
	return nil
}

func comparisonReports(results []analysis.OptionResult) []*analysis.Report {
	reports := make([]*analysis.Report, 0, len(results))
	for _, res := range results {
		reports = append(reports, res.Report)
	}
	return reports
}
