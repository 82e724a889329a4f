package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"value-added-framework/internal/conversation"
	"value-added-framework/internal/transcript"
)

var (
	exportFormat string
	exportOutput string
)

// exportCmd prints a stored transcript
var exportCmd = &cobra.Command{
	Use:   "export <session-id>",
	Short: "Export a stored session transcript",
	Long: `Export a stored session transcript as Markdown, JSON or YAML.

Sessions only outlive the process with the sqlite store:
  vaf export <session-id> --store sqlite --dsn psychology_sessions.db --format yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := transcript.ParseFormat(exportFormat)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		e, err := newEngine(ctx, false)
		if err != nil {
			return err
		}
		defer e.Close()

		res, err := e.conv.Export(ctx, conversation.ExportInput{SessionID: args[0], Format: format})
		if err != nil {
			return err
		}

		if exportOutput == "" {
			_, err = cmd.OutOrStdout().Write(res.Content)
			return err
		}
		if err := os.WriteFile(exportOutput, res.Content, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", exportOutput, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Exported"), res.FileName, "to", exportOutput)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "md", "Output format: md, json or yaml")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to file instead of stdout")
}
