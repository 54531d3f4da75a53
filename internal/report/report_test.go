// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/research-agent/pkg/types"
)

const (
	wantIntro      = "## Introduction\nThis report explores the topic \"%s\" through a series of structured research questions and answers."
	wantConclusion = "## Conclusion\nThis report compiles recent online resources and data to provide a well-rounded view of the topic."
)

func TestComposeContainsTopicInTitleAndIntroduction(t *testing.T) {
	for _, topic := range []string{"climate change", "x", "quantum computing & ethics", "日本の人口"} {
		t.Run(topic, func(t *testing.T) {
			got := Compose(topic, &types.QnA{})
			assert.True(t, strings.HasPrefix(got, "# Research Report: "+topic+"\n\n"))
			assert.Contains(t, got, strings.Replace(wantIntro, "%s", topic, 1))
		})
	}
}

func TestComposeEmptyQnA(t *testing.T) {
	want := "# Research Report: tides\n\n" +
		"## Introduction\nThis report explores the topic \"tides\" through a series of structured research questions and answers.\n\n" +
		wantConclusion

	assert.Equal(t, want, Compose("tides", &types.QnA{}))
	assert.Equal(t, want, Compose("tides", nil))
}

func TestComposeQuestionsWithoutResults(t *testing.T) {
	var qna types.QnA
	qna.Set("Cause?", nil)
	qna.Set("Effect?", []types.SearchResult{})

	got := Compose("climate change", &qna)

	want := "# Research Report: climate change\n\n" +
		"## Introduction\nThis report explores the topic \"climate change\" through a series of structured research questions and answers.\n\n" +
		"## Cause?\n\n" +
		"## Effect?\n\n" +
		wantConclusion
	assert.Equal(t, want, got)

	for _, line := range strings.Split(got, "\n") {
		assert.False(t, strings.HasPrefix(line, "- "), "unexpected bullet line %q", line)
	}
}

func TestComposeRendersResults(t *testing.T) {
	var qna types.QnA
	qna.Set("What is the pH trend?", []types.SearchResult{
		{Title: "NOAA", Content: "pH fell by 0.1", URL: "https://noaa.example"},
		{Title: "Wiki", Content: "Overview", URL: "https://wiki.example"},
	})

	got := Compose("ocean acidification", &qna)

	assert.Contains(t, got, "## What is the pH trend?\n"+
		"- **NOAA**: pH fell by 0.1\n  [Read More](https://noaa.example)\n"+
		"- **Wiki**: Overview\n  [Read More](https://wiki.example)\n\n"+
		"## Conclusion")
}

func TestComposeMissingURL(t *testing.T) {
	var qna types.QnA
	qna.Set("Q?", []types.SearchResult{{Title: "Only title", Content: "some content"}})

	got := Compose("topic", &qna)
	assert.Contains(t, got, "- **Only title**: some content\n  [Read More]()\n")
}

func TestComposeKeepsInsertionOrder(t *testing.T) {
	var qna types.QnA
	qna.Set("Zeta?", nil)
	qna.Set("Alpha?", nil)
	qna.Set("Zeta?", []types.SearchResult{{Title: "late"}})

	got := Compose("t", &qna)
	zeta := strings.Index(got, "## Zeta?")
	alpha := strings.Index(got, "## Alpha?")
	require.True(t, zeta >= 0 && alpha >= 0)
	assert.Less(t, zeta, alpha, "re-set question keeps its first position")
	assert.Equal(t, 1, strings.Count(got, "## Zeta?"))
	assert.Contains(t, got, "- **late**")
}

func TestFilename(t *testing.T) {
	tests := []struct {
		topic string
		want  string
	}{
		{"ocean acidification", "ocean_acidification_report.md"},
		{"climate", "climate_report.md"},
		{"a  b", "a__b_report.md"},
		{"../etc/passwd", ".._etc_passwd_report.md"},
		{`c:\temp`, "c:_temp_report.md"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Filename(tt.topic), "topic %q", tt.topic)
	}
}

func TestNew(t *testing.T) {
	var qna types.QnA
	qna.Set("Q1?", nil)
	qna.Set("Q2?", nil)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	r := New("sea level rise", &qna, now)
	assert.Equal(t, "sea level rise", r.Topic)
	assert.Equal(t, "sea_level_rise_report.md", r.Filename)
	assert.Equal(t, 2, r.Questions)
	assert.Equal(t, now, r.CreatedAt)
	assert.Equal(t, Compose("sea level rise", &qna), r.Markdown)
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	r := New("ocean acidification", &types.QnA{}, time.Now())

	path, err := Save(dir, r)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ocean_acidification_report.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, r.Markdown, string(data))
}

func TestSaveDerivesMissingFilename(t *testing.T) {
	dir := t.TempDir()
	path, err := Save(dir, types.Report{Topic: "tides", Markdown: "# x"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "tides_report.md"), path)
}
