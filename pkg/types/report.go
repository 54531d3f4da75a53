// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Report is the composed Markdown document for one topic.
type Report struct {
	// ID is assigned when the report is archived; empty otherwise.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// Topic is the research topic the report was generated for.
	Topic string `json:"topic" yaml:"topic"`

	// Markdown is the full report body.
	Markdown string `json:"markdown" yaml:"markdown"`

	// Filename is the suggested download name, e.g. "ocean_acidification_report.md".
	Filename string `json:"filename" yaml:"filename"`

	// Questions is the number of question sections in the report.
	Questions int `json:"questions" yaml:"questions"`

	// CreatedAt is when the report was composed.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}
