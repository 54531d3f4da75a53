// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import "html/template"

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{if .Topic}}{{.Topic}} - {{end}}Web Research Agent</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 52rem; margin: 2rem auto; padding: 0 1rem; }
.warning { background: #fff4e5; border-left: 4px solid #f0a020; padding: .5rem 1rem; margin: .5rem 0; }
.status { color: #2a7a2a; }
.questions li { margin: .2rem 0; }
hr { margin: 2rem 0; }
</style>
</head>
<body>
<h1>Web Research Agent</h1>
<form method="post" action="/report">
  <label for="topic">Enter a research topic:</label>
  <input id="topic" name="topic" type="text" size="50" value="{{.Topic}}">
  <button type="submit">Generate Report</button>
</form>
{{range .Warnings}}<div class="warning">{{.}}</div>
{{end}}
{{if .ID}}
<p class="status">Questions generated!</p>
<ul class="questions">
{{range .Questions}}  <li>🔍 {{.}}</li>
{{end}}</ul>
<hr>
<article>{{.ReportHTML}}</article>
<p><a href="/reports/{{.ID}}.md" download="{{.Filename}}">📥 Download Report as Markdown</a></p>
{{end}}
</body>
</html>
`))

// pageData feeds pageTmpl.
type pageData struct {
	Topic      string
	Warnings   []string
	ID         string
	Questions  []string
	ReportHTML template.HTML
	Filename   string
}
