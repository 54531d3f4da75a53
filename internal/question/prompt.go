// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package question

import (
	"bytes"
	"text/template"
)

// questionPromptTmpl asks the model for a short list of research questions.
var questionPromptTmpl = template.Must(template.New("questions").Parse(
	`Generate 5-6 in-depth research questions about the topic: "{{.Topic}}".
Cover causes, effects, data, solutions, and controversies.
`))

// RenderPrompt executes the question prompt template for topic.
func RenderPrompt(topic string) (string, error) {
	var buf bytes.Buffer
	if err := questionPromptTmpl.Execute(&buf, struct{ Topic string }{Topic: topic}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
