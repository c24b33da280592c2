package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/imishinist/n8n-timings/internal/analysis"
	"github.com/imishinist/n8n-timings/internal/topology"
)

var topologyCmd = &cobra.Command{
	Use:   "topology [execution-id]",
	Short: "Print the workflow graph in Graphviz DOT",
	Long: `Print the node graph of the execution's workflow definition in Graphviz DOT.
Nodes are coloured by their run outcome unless --no-runs is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: printTopology,
}

func init() {
	rootCmd.AddCommand(topologyCmd)

	addSourceFlags(topologyCmd)
	topologyCmd.Flags().Bool("no-runs", false, "Draw the static graph only")
}

func printTopology(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	noRuns, _ := cmd.Flags().GetBool("no-runs")

	doc, err := loadExecution(cmd.Context(), cmd, args, cfg, logger)
	if err != nil {
		return err
	}

	topo := topology.Extract(doc.Workflow)
	logger.Debug("topology extracted", "nodes", topo.Len(), "edges", topo.Edges())

	if noRuns {
		fmt.Fprint(cmd.OutOrStdout(), topology.DOT(topo, nil))
		return nil
	}
	result := analysis.NewAnalyzer(logger).Analyze(doc)
	fmt.Fprint(cmd.OutOrStdout(), topology.DOT(topo, result))
	return nil
}
