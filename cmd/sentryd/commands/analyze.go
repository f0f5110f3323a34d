package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhirendraxd/CyberSentry-sub000/internal/logs/model"
	"github.com/dhirendraxd/CyberSentry-sub000/internal/utils/fmtutil"
)

var (
	analyzeSinkID string
	analyzeExport bool
)

var AnalyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Run a one-shot analysis of a local log file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		p, err := buildPipeline(ctx)
		if err != nil {
			return err
		}

		path := args[0]
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		session := p.sessions.Session("cli")
		result, err := session.Analyze(ctx, filepath.Base(path), string(content), analyzeSinkID)
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		fmt.Printf("Analyzed %s (%s, %s records), highest threat level: %s\n",
			result.FileName,
			fmtutil.FormatBytes(uint64(result.FileSize)),
			fmtutil.FormatCount(uint64(len(result.Records))),
			model.HighestThreatLevel(result.Findings))

		if analyzeExport {
			exportName := fmt.Sprintf("log-analysis-%s.json", time.Now().UTC().Format("2006-01-02"))
			if err := os.WriteFile(exportName, out, 0644); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
			fmt.Printf("Report written to %s\n", exportName)
		}
		return nil
	},
}

func init() {
	AnalyzeCmd.Flags().StringVar(&analyzeSinkID, "sink", "", "Forward to the custom sink integration with this id")
	AnalyzeCmd.Flags().BoolVar(&analyzeExport, "export", false, "Write the full report to log-analysis-<date>.json")
}
