// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/research-agent/internal/archive"
	"github.com/pdiddy/research-agent/internal/pipeline"
	"github.com/pdiddy/research-agent/internal/report"
	"github.com/pdiddy/research-agent/pkg/types"
)

var reportCmd = &cobra.Command{
	Use:   "report [topic...]",
	Short: "Research a topic and print a Markdown report",
	Long: `Report generates research questions for a topic, runs one web search per
question, and compiles the results into a Markdown report. The report is
printed to stdout and saved as <output-dir>/<topic>_report.md.

Failures in question generation or search are shown as warnings; the report
is still produced from whatever data was gathered.`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().String("topic", "", "research topic (or pass it as arguments)")
	reportCmd.Flags().Bool("raw", false, "print the Markdown source instead of rendering it")
	reportCmd.Flags().String("style", "", "glamour style for terminal rendering (dark, light, notty; default auto)")
	reportCmd.Flags().Bool("no-save", false, "do not write the report file")
	reportCmd.Flags().Bool("json", false, "print the full result as JSON")
	reportCmd.Flags().Bool("archive", false, "store the report in the report archive")

	reportCmd.Flags().String("provider", "", "language model provider: openai or ollama")
	reportCmd.Flags().String("model", "", "language model identifier")
	reportCmd.Flags().String("backend", "", "search backend: tavily or duckduckgo")
	reportCmd.Flags().Int("max-results", 0, "search results per question")
	reportCmd.Flags().String("output-dir", "", "directory for saved reports")

	viper.BindPFlag("llm.provider", reportCmd.Flags().Lookup("provider"))
	viper.BindPFlag("llm.model", reportCmd.Flags().Lookup("model"))
	viper.BindPFlag("search.backend", reportCmd.Flags().Lookup("backend"))
	viper.BindPFlag("search.max_results", reportCmd.Flags().Lookup("max-results"))
	viper.BindPFlag("report.output_dir", reportCmd.Flags().Lookup("output-dir"))

	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	topic, _ := cmd.Flags().GetString("topic")
	if topic == "" {
		topic = strings.Join(args, " ")
	}
	if err := types.ValidateTopic(topic); err != nil {
		return fmt.Errorf("please enter a topic: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := buildStages(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	stderr := cmd.ErrOrStderr()
	p := st.pipeline(warnWriter{w: stderr})
	p.Progress = newSpinnerProgress(stderr)

	res, err := p.Run(ctx, topic)
	if err != nil {
		return err
	}

	for _, q := range res.Questions {
		fmt.Fprintf(stderr, "🔍 %s\n", q)
	}

	if save, _ := cmd.Flags().GetBool("archive"); save {
		if err := archiveReport(ctx, cfg.Archive, &res.Report); err != nil {
			fmt.Fprintf(stderr, "warning: report was not archived: %v\n", err)
		} else {
			fmt.Fprintf(stderr, "Archived as %s\n", res.Report.ID)
		}
	}

	if noSave, _ := cmd.Flags().GetBool("no-save"); !noSave {
		path, err := report.Save(cfg.Report.OutputDir, res.Report)
		if err != nil {
			return err
		}
		fmt.Fprintf(stderr, "%s %s\n", color.GreenString("Saved"), path)
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(out, res)
	}

	raw, _ := cmd.Flags().GetBool("raw")
	style, _ := cmd.Flags().GetString("style")
	return printReport(out, res.Report.Markdown, raw, style)
}

func archiveReport(ctx context.Context, cfg types.ArchiveConfig, r *types.Report) error {
	store, err := archive.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	saved, err := store.Save(ctx, *r)
	if err != nil {
		return err
	}
	*r = saved
	logger.Debug("report archived", zap.String("id", saved.ID))
	return nil
}

func printReport(w io.Writer, md string, raw bool, style string) error {
	if raw {
		_, err := fmt.Fprintln(w, md)
		return err
	}
	out, err := report.Terminal(md, style, 0)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Compile-time check.
var _ pipeline.Progress = (*spinnerProgress)(nil)
