// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-agent/internal/archive"
	"github.com/pdiddy/research-agent/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse archived reports (list, show, search, export)",
	Long: `History manages the local SQLite archive of generated reports. Reports are
added with "report --archive" or "serve --archive".`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived reports, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withArchive(func(ctx context.Context, s *archive.Store) error {
			limit, _ := cmd.Flags().GetInt("limit")
			reports, err := s.List(ctx, limit)
			if err != nil {
				return err
			}
			return formatHistory(cmd.OutOrStdout(), reports, jsonFlag(cmd))
		})
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print an archived report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withArchive(func(ctx context.Context, s *archive.Store) error {
			r, err := s.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if jsonFlag(cmd) {
				return writeJSON(cmd.OutOrStdout(), r)
			}
			raw, _ := cmd.Flags().GetBool("raw")
			return printReport(cmd.OutOrStdout(), r.Markdown, raw, "")
		})
	},
}

var historySearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over archived reports",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withArchive(func(ctx context.Context, s *archive.Store) error {
			limit, _ := cmd.Flags().GetInt("limit")
			reports, err := s.Search(ctx, strings.Join(args, " "), limit)
			if err != nil {
				return err
			}
			return formatHistory(cmd.OutOrStdout(), reports, jsonFlag(cmd))
		})
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a report from the archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withArchive(func(ctx context.Context, s *archive.Store) error {
			if err := s.Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		})
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the archive index as YAML or JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withArchive(func(ctx context.Context, s *archive.Store) error {
			format, _ := cmd.Flags().GetString("format")
			withBody, _ := cmd.Flags().GetBool("with-body")
			dir, _ := cmd.Flags().GetString("dir")
			if dir == "" {
				dir = s.Dir()
			}

			var path string
			var err error
			switch format {
			case "yaml":
				path, err = s.ExportYAML(ctx, dir, withBody)
			case "json":
				path, err = s.ExportJSON(ctx, dir, withBody)
			default:
				return fmt.Errorf("unsupported export format %q: use yaml or json", format)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
			return nil
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{historyListCmd, historySearchCmd} {
		c.Flags().Int("limit", 0, "maximum number of reports (default from archive.max_results)")
		c.Flags().Bool("json", false, "output as JSON")
	}
	historyShowCmd.Flags().Bool("json", false, "output as JSON")
	historyShowCmd.Flags().Bool("raw", false, "print the Markdown source instead of rendering it")
	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	historyExportCmd.Flags().Bool("with-body", false, "include report Markdown in the export")
	historyExportCmd.Flags().String("dir", "", "output directory (default: the archive directory)")

	historyCmd.AddCommand(historyListCmd, historyShowCmd, historySearchCmd, historyDeleteCmd, historyExportCmd)
	rootCmd.AddCommand(historyCmd)
}

func withArchive(fn func(context.Context, *archive.Store) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := archive.Open(cfg.Archive)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(context.Background(), s)
}

func jsonFlag(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func formatHistory(w io.Writer, reports []types.Report, asJSON bool) error {
	if asJSON {
		return writeJSON(w, reports)
	}
	if len(reports) == 0 {
		fmt.Fprintln(w, "No reports found.")
		return nil
	}

	fmt.Fprintf(w, "%-36s  %-20s  %-4s  %s\n", "ID", "Created", "Qs", "Topic")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for _, r := range reports {
		topic := r.Topic
		if runes := []rune(topic); len(runes) > 40 {
			topic = string(runes[:37]) + "..."
		}
		fmt.Fprintf(w, "%-36s  %-20s  %-4d  %s\n",
			r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04:05"), r.Questions, topic)
	}
	return nil
}
