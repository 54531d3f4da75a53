// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package question asks a language model for research questions about a
// topic and splits the free-text reply into one question per line.
package question

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/research-agent/internal/llm"
	"github.com/pdiddy/research-agent/pkg/types"
)

// bulletChars are stripped from both ends of each reply line.
const bulletChars = "- "

// Generator produces research questions for a topic.
type Generator struct {
	Provider llm.CompletionProvider

	// Warn receives user-visible warnings. Nil discards them.
	Warn io.Writer
}

// New returns a Generator backed by p that writes warnings to w.
func New(p llm.CompletionProvider, w io.Writer) *Generator {
	return &Generator{Provider: p, Warn: w}
}

// Generate asks the model for questions about topic. When the completion
// request fails the failure is written to Warn and Generate returns an empty,
// non-nil slice together with the error; callers may carry on with zero
// questions. No guarantee is made on the number or quality of questions.
func (g *Generator) Generate(ctx context.Context, topic string) ([]string, error) {
	if err := types.ValidateTopic(topic); err != nil {
		return []string{}, err
	}

	prompt, err := RenderPrompt(topic)
	if err != nil {
		return []string{}, fmt.Errorf("rendering prompt: %w", err)
	}

	content, err := g.Provider.Complete(ctx, prompt)
	if err != nil {
		g.warnf("warning: error with language model: %v\n", err)
		return []string{}, fmt.Errorf("generating questions: %w", err)
	}

	return ParseQuestions(content), nil
}

func (g *Generator) warnf(format string, args ...any) {
	if g.Warn != nil {
		fmt.Fprintf(g.Warn, format, args...)
	}
}

// ParseQuestions splits model output into questions. Blank lines are
// dropped. Every other line is kept: dashes and spaces are trimmed from
// both ends first, then any remaining whitespace. A line holding only a
// bullet therefore yields an empty question. Line order is preserved.
func ParseQuestions(content string) []string {
	questions := []string{}
	for _, line := range strings.Split(strings.TrimSpace(content), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		questions = append(questions, strings.TrimSpace(strings.Trim(line, bulletChars)))
	}
	return questions
}
