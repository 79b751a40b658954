// Command certfill fills the certificate template for a set of uploaded
// certificates and writes the zip archive, without running the MCP server.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/a3tai/mcp-docx-filler/internal/config"
	"github.com/a3tai/mcp-docx-filler/internal/service"
)

// errNothingFilled is returned when no input produced a filled document
var errNothingFilled = errors.New("no certificate could be filled")

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
	stop()

	if err != nil {
		if !errors.Is(err, errNothingFilled) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "certfill [flags] files...",
		Short: "Fill the marital status confirmation template for a batch of certificates",
		Long: `certfill extracts the fields of each marital status certificate (.docx or .pdf),
fills the confirmation template for every complete record and packages the
filled documents as a zip archive in the output directory.

Paths are resolved inside --dir (default: the current directory).`,
		Args:          cobra.MinimumNArgs(1),
		Version:       config.DefaultConfig().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromFlagSet(cmd.Flags())
			if err != nil {
				return err
			}
			return runBatch(cmd.Context(), cfg, args, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	config.DefineFlags(cmd.Flags())
	return cmd
}

// runBatch fills every file in one batch; errNothingFilled reports a run
// without any archive.
func runBatch(ctx context.Context, cfg *config.Config, files []string, stdout, stderr io.Writer) error {
	logger := log.New(io.Discard, "", 0)
	if cfg.IsDebug() {
		logger = log.New(stderr, "certfill: ", log.LstdFlags)
	}

	svc, err := service.NewService(cfg, service.WithLogger(logger))
	if err != nil {
		return err
	}

	result, err := svc.Batch(ctx, service.BatchRequest{Paths: files})
	if err != nil {
		return err
	}

	if err := outputResults(stdout, cfg.Format, result); err != nil {
		return fmt.Errorf("failed to output results: %w", err)
	}

	if result.ArchivePath == "" {
		return errNothingFilled
	}
	return nil
}

func outputResults(w io.Writer, format string, result *service.BatchResult) error {
	switch format {
	case config.FormatJSON:
		return outputJSON(w, result)
	case config.FormatText:
		return outputText(w, result)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func outputJSON(w io.Writer, result *service.BatchResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func outputText(w io.Writer, result *service.BatchResult) error {
	if result.ArchivePath == "" {
		fmt.Fprintln(w, "❌ No certificate could be filled")
	} else {
		fmt.Fprintf(w, "✅ Filled %d certificate(s)\n", len(result.Entries))
		fmt.Fprintf(w, "Archive: %s\n", result.ArchivePath)
		for i, name := range result.Entries {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, name)
		}
	}

	if len(result.Errors) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "⚠️  %d file(s) skipped:\n", len(result.Errors))
		for _, fe := range result.Errors {
			fmt.Fprintf(w, "  [%d] %s\n", fe.Index, fe.FileName)
			fmt.Fprintf(w, "      %s: %s\n", fe.Kind, fe.Detail)
		}
	}

	return nil
}
