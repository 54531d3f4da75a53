// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report composes the Markdown research report from a topic and its
// question-to-results map.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/research-agent/pkg/types"
)

const (
	introTemplate = "This report explores the topic \"%s\" through a series of structured research questions and answers."
	conclusion    = "This report compiles recent online resources and data to provide a well-rounded view of the topic."

	filenameSuffix = "_report.md"
)

// Compose renders the report for topic. Sections follow the insertion order
// of qna; each result becomes one bullet with its title, content, and a
// "Read More" link. Missing fields render as empty text. Compose never fails.
func Compose(topic string, qna *types.QnA) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Research Report: %s\n\n", topic)
	fmt.Fprintf(&b, "## Introduction\n"+introTemplate+"\n\n", topic)

	if qna != nil {
		for _, e := range qna.Entries() {
			fmt.Fprintf(&b, "## %s\n", e.Question)
			for _, r := range e.Results {
				fmt.Fprintf(&b, "- **%s**: %s\n  [Read More](%s)\n", r.Title, r.Content, r.URL)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("## Conclusion\n" + conclusion)
	return b.String()
}

// Filename derives the download name from topic: spaces become underscores
// and "_report.md" is appended. Path separators are also replaced so the
// name always stays inside the output directory.
func Filename(topic string) string {
	name := strings.NewReplacer(
		" ", "_",
		"/", "_",
		`\`, "_",
		"\x00", "_",
	).Replace(topic)
	return name + filenameSuffix
}

// New composes a Report value for topic.
func New(topic string, qna *types.QnA, now time.Time) types.Report {
	n := 0
	if qna != nil {
		n = qna.Len()
	}
	return types.Report{
		Topic:     topic,
		Markdown:  Compose(topic, qna),
		Filename:  Filename(topic),
		Questions: n,
		CreatedAt: now,
	}
}

// Save writes r.Markdown to dir/r.Filename, creating dir if needed, and
// returns the written path.
func Save(dir string, r types.Report) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	name := r.Filename
	if name == "" {
		name = Filename(r.Topic)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(r.Markdown), 0o644); err != nil {
		return "", fmt.Errorf("writing report %s: %w", path, err)
	}
	return path, nil
}
