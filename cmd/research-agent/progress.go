// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/pdiddy/research-agent/internal/pipeline"
)

var stageLabels = map[pipeline.Stage]string{
	pipeline.StageQuestions: "Generating research questions...",
	pipeline.StageSearch:    "Searching the web...",
	pipeline.StageCompose:   "Compiling report...",
}

var stageDone = map[pipeline.Stage]string{
	pipeline.StageQuestions: "Questions generated!",
	pipeline.StageSearch:    "Search complete!",
	pipeline.StageCompose:   "Report compiled!",
}

// spinnerProgress shows one spinner per pipeline stage on out.
type spinnerProgress struct {
	out     io.Writer
	spinner *progressbar.ProgressBar
}

func newSpinnerProgress(out io.Writer) *spinnerProgress {
	return &spinnerProgress{out: out}
}

func (p *spinnerProgress) StageStarted(s pipeline.Stage) {
	p.spinner = progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionSetDescription(color.CyanString(stageLabels[s])),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(20),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func (p *spinnerProgress) Searching(q string) {
	if p.spinner == nil {
		return
	}
	p.spinner.Describe(color.CyanString("Searching: %s", q))
	p.spinner.Add(1)
}

func (p *spinnerProgress) StageDone(s pipeline.Stage) {
	if p.spinner != nil {
		p.spinner.Finish()
		p.spinner = nil
	}
	fmt.Fprintf(p.out, "\n%s\n", color.GreenString(stageDone[s]))
}

// warnWriter colors stage warnings before writing them to w.
type warnWriter struct {
	w io.Writer
}

func (ww warnWriter) Write(b []byte) (int, error) {
	if _, err := color.New(color.FgYellow).Fprint(ww.w, string(b)); err != nil {
		return 0, err
	}
	return len(b), nil
}
