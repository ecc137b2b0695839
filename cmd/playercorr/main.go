package main

import (
	"fmt"
	"os"

	"playercorr/adapters/excel"
	"playercorr/adapters/loader"
	"playercorr/adapters/markdown"
	"playercorr/adapters/render"
	"playercorr/adapters/stats/engine"
	"playercorr/app"
	"playercorr/domain/player"
	"playercorr/internal"
	"playercorr/internal/config"
	"playercorr/internal/errors"
	"playercorr/internal/report"

	"github.com/spf13/cobra"
)

// options are the flag overrides shared by every subcommand
type options struct {
	dataFile string
	minLevel float64
	minAPM   float64
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fail(err)
	}

	rootCmd := newRootCmd(cfg)
	if err := rootCmd.Execute(); err != nil {
		fail(usageError(err))
	}
}

// usageError classifies errors raised by cobra itself (unknown flags, bad
// arguments) as configuration errors; pipeline errors pass through.
func usageError(err error) error {
	if err == nil || errors.IsAppError(err) {
		return err
	}
	appErr := errors.New(errors.CodeConfigInvalid, err.Error())
	appErr.Stage = errors.StageConfig
	return appErr
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "%s (stage=%s): %v\n", errors.GetCode(err), stageOrUnknown(err), err)
	os.Exit(1)
}

func stageOrUnknown(err error) string {
	if s := errors.GetStage(err); s != "" {
		return s
	}
	return "unknown"
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "playercorr",
		Short:         "Correlate player kills, ascension level and APM",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.dataFile, "data", cfg.Paths.DataFile, "JSON file of [kills, level, apm] records")
	rootCmd.PersistentFlags().Float64Var(&opts.minLevel, "min-level", cfg.Filter.MinLevel, "keep records with level strictly above this")
	rootCmd.PersistentFlags().Float64Var(&opts.minAPM, "min-apm", cfg.Filter.MinAPM, "keep records with APM strictly above this")

	// With no subcommand the scatter report is produced, as the plain script did.
	scatterCmd := newScatterCmd(cfg, opts)
	rootCmd.Args = cobra.NoArgs
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return scatterCmd.RunE(cmd, args)
	}

	rootCmd.AddCommand(
		scatterCmd,
		newHeatmapCmd(cfg, opts),
		newAllCmd(cfg, opts),
		newSummaryCmd(cfg, opts),
	)
	return rootCmd
}

func newService(cfg *config.Config, opts *options) *app.CorrelationService {
	logger := internal.NewLogger(internal.ParseLogLevel(cfg.Log.Level))
	return app.NewCorrelationService(
		loader.NewJSONLoader(opts.dataFile),
		engine.NewStatsEngine(logger),
		render.NewScatterRenderer(cfg.Chart.PanelWidth, cfg.Chart.PanelHeight, logger),
		render.NewHeatmapRenderer(0, logger),
		player.Criteria{MinLevel: opts.minLevel, MinAPM: opts.minAPM},
		logger,
	)
}

func newScatterCmd(cfg *config.Config, opts *options) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "scatter",
		Short: "Render the three-panel scatter/regression report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pairs, err := newService(cfg, opts).ScatterReport(cmd.Context(), out)
			if err != nil {
				return err
			}
			for _, pr := range pairs {
				fmt.Fprintf(cmd.OutOrStdout(), "%-45s %s  %s\n", pr.Pair.Title,
					report.CorrelationLabel(pr.Result.Coefficient), report.PValueLabel(pr.Result.PValue))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", cfg.Paths.ScatterOutput, "output PNG path")
	return cmd
}

func newHeatmapCmd(cfg *config.Config, opts *options) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "heatmap",
		Short: "Render the 3x3 correlation heatmap",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := newService(cfg, opts).Heatmap(cmd.Context(), out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", cfg.Paths.HeatmapOutput, "output PNG path")
	return cmd
}

func newAllCmd(cfg *config.Config, opts *options) *cobra.Command {
	var scatterOut, heatmapOut string

	cmd := &cobra.Command{
		Use:   "all",
		Short: "Render both the scatter report and the heatmap",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := newService(cfg, opts).RenderAll(cmd.Context(), scatterOut, heatmapOut); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s and %s\n", scatterOut, heatmapOut)
			return nil
		},
	}
	cmd.Flags().StringVar(&scatterOut, "scatter-out", cfg.Paths.ScatterOutput, "scatter report PNG path")
	cmd.Flags().StringVar(&heatmapOut, "heatmap-out", cfg.Paths.HeatmapOutput, "heatmap PNG path")
	return cmd
}

func newSummaryCmd(cfg *config.Config, opts *options) *cobra.Command {
	var xlsxOut, htmlOut string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the statistics and optionally export them",
		Long: `Compute every statistic shown on the images without rendering them.

Example: playercorr summary --xlsx corr.xlsx --html corr.html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := newService(cfg, opts)
			summary, err := svc.Summary(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), markdown.Document(summary))

			if xlsxOut != "" {
				if err := svc.Export(excel.NewWorkbookExporter(), xlsxOut, summary); err != nil {
					return err
				}
			}
			if htmlOut != "" {
				if err := svc.Export(markdown.NewHTMLExporter(), htmlOut, summary); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&xlsxOut, "xlsx", "", "write the summary workbook to this path")
	cmd.Flags().StringVar(&htmlOut, "html", "", "write the HTML summary to this path")
	return cmd
}
