package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/imishinist/n8n-timings/internal/view"
)

var viewsCmd = &cobra.Command{
	Use:   "views",
	Short: "List the available views",
	Long:  "List the views in navigation order, as used by --chart-dir and --interactive",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "#\tID\tTITLE\tUNIT")
		for i, def := range view.DefaultCatalogue() {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i+1, def.ID, def.Title, def.Unit)
		}
		checkError(w.Flush())
	},
}

func init() {
	rootCmd.AddCommand(viewsCmd)
}
