package cmd

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/imishinist/n8n-timings/internal/config"
	"github.com/imishinist/n8n-timings/internal/logging"
	"github.com/imishinist/n8n-timings/internal/models"
	"github.com/imishinist/n8n-timings/internal/n8n"
	"github.com/imishinist/n8n-timings/internal/parser"
)

var (
	statusOK   = color.New(color.FgGreen)
	statusInfo = color.New(color.FgCyan)
)

// addSourceFlags registers the flags shared by every command that reads an
// execution.
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().String("from-file", "", "Read the execution from a JSON/YAML file instead of the API")
}

// setup builds the config and logger for a command.
func setup() (*config.Config, *slog.Logger, error) {
	cfg := config.New()
	if err := cfg.ValidateLogging(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, logging.New(cfg.LogFormat, cfg.Debug), nil
}

// loadExecution reads the execution named by args[0] from the API, or the
// --from-file document when given.
func loadExecution(ctx context.Context, cmd *cobra.Command, args []string, cfg *config.Config, logger *slog.Logger) (*models.ExecutionDocument, error) {
	fromFile, _ := cmd.Flags().GetString("from-file")
	if fromFile != "" {
		doc, err := parser.ParseFile(fromFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load execution file: %w", err)
		}
		logger.Debug("execution loaded from file", "path", fromFile, "nodes", len(doc.RunData))
		return doc, nil
	}

	if len(args) != 1 {
		return nil, fmt.Errorf("an execution ID or --from-file is required")
	}
	executionID := args[0]

	client, err := n8n.NewClient(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create n8n client: %w", err)
	}

	statusInfo.Fprintf(os.Stderr, "Fetching execution data for ID: %s\n", executionID)
	raw, err := client.FetchExecution(ctx, executionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch execution: %w", err)
	}
	statusOK.Fprintln(os.Stderr, "Execution data fetched successfully")

	doc, err := parser.ParseJSONExecution(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse execution: %w", err)
	}
	return doc, nil
}
