package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/imishinist/n8n-timings/internal/analysis"
	"github.com/imishinist/n8n-timings/internal/render"
	"github.com/imishinist/n8n-timings/internal/report"
	"github.com/imishinist/n8n-timings/internal/topology"
	"github.com/imishinist/n8n-timings/internal/view"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [execution-id]",
	Short: "Analyze node timings of an execution",
	Long: `Fetch an execution (or read it from a file) and report per-node execution
counts, summed/average/min/max durations and success rates.
Optionally write one chart per view or browse the views interactively.`,
	Args: cobra.MaximumNArgs(1),
	RunE: analyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	addSourceFlags(analyzeCmd)
	analyzeCmd.Flags().String("format", "text", "Output format (text/json/yaml)")
	analyzeCmd.Flags().String("where", "", "Keep only nodes matching an expression, e.g. 'executions > 1 && rate < 100'")
	analyzeCmd.Flags().String("chart-dir", "", "Write one PNG per view into this directory")
	analyzeCmd.Flags().Int("width", 0, "Chart width in pixels (default: sized by node count)")
	analyzeCmd.Flags().Int("height", 0, "Chart height in pixels (default: sized by node count)")
	analyzeCmd.Flags().BoolP("interactive", "i", false, "Browse the views on the terminal, one command per line")
	analyzeCmd.Flags().Bool("no-color", false, "Disable colored terminal output")
}

func analyze(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	formatFlag, _ := cmd.Flags().GetString("format")
	where, _ := cmd.Flags().GetString("where")
	chartDir, _ := cmd.Flags().GetString("chart-dir")
	width, _ := cmd.Flags().GetInt("width")
	height, _ := cmd.Flags().GetInt("height")
	interactive, _ := cmd.Flags().GetBool("interactive")
	noColor, _ := cmd.Flags().GetBool("no-color")

	format, err := report.ParseFormat(formatFlag)
	if err != nil {
		return fmt.Errorf("invalid --format: %w", err)
	}
	filter, err := report.CompileFilter(where)
	if err != nil {
		return fmt.Errorf("invalid --where: %w", err)
	}

	doc, err := loadExecution(cmd.Context(), cmd, args, cfg, logger)
	if err != nil {
		return err
	}

	result := analysis.NewAnalyzer(logger).Analyze(doc)
	for _, issue := range result.Issues {
		logger.Debug("analysis issue", "error", issue)
	}
	result, err = filter.Apply(result)
	if err != nil {
		return fmt.Errorf("failed to apply --where: %w", err)
	}

	topo := topology.Extract(result.Workflow)
	timeline := analysis.BuildTimeline(result, topo)

	switch format {
	case report.FormatText:
		if err := report.WriteSummary(os.Stdout, result); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
		if err := report.Issues(os.Stderr, result); err != nil {
			return err
		}
	default:
		if err := report.Export(os.Stdout, format, result, timeline); err != nil {
			return fmt.Errorf("failed to export analysis: %w", err)
		}
	}

	data := view.Data{Analysis: result, Timeline: timeline}

	if chartDir != "" {
		png, err := render.NewPNGRenderer(render.Options{Dir: chartDir, Width: width, Height: height}, logger)
		if err != nil {
			return err
		}
		machine := view.New(data, png)
		if err := machine.Start(); err != nil {
			return fmt.Errorf("failed to render charts: %w", err)
		}
		for i := 1; i < len(machine.Catalogue()); i++ {
			if err := machine.Advance(); err != nil {
				return fmt.Errorf("failed to render charts: %w", err)
			}
		}
		for _, f := range png.Files() {
			statusOK.Fprintf(os.Stderr, "Chart written: %s\n", f)
		}
	}

	if interactive {
		if noColor || !isatty.IsTerminal(os.Stdout.Fd()) {
			noColor = true
		}
		printControls()
		machine := view.New(data, render.NewTextRenderer(os.Stdout, noColor))
		if err := machine.Run(os.Stdin, logger); err != nil {
			return fmt.Errorf("interactive viewer failed: %w", err)
		}
	}

	return nil
}

func printControls() {
	statusInfo.Fprintln(os.Stderr, "NAVIGATION CONTROLS:")
	fmt.Fprintln(os.Stderr, "  next / right / d / n    next view")
	fmt.Fprintln(os.Stderr, "  prev / left / a / p     previous view")
	fmt.Fprintln(os.Stderr, "  1-5 or a view name      jump to a view")
	fmt.Fprintln(os.Stderr, "  q / quit / escape       exit")
}
