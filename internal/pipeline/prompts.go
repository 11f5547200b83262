package pipeline

import (
	"fmt"
	"strings"
	"text/template"
)

const (
	systemRewrite = "You are a professional editor who rewrites text for online storytelling channels. Reply with the rewritten text only."
	systemEdit    = "You are a senior story editor. Reply with the edited story only, with no commentary."
	systemAnalyze = "You are a story critic. Follow the requested output format exactly."
	systemWrite   = "You are a novelist writing long-form stories for narration. Reply with story text only."
)

var prompts = template.Must(template.New("prompts").Funcs(template.FuncMap{
	"trim": strings.TrimSpace,
}).Parse(`
{{define "rewrite"}}Rewrite part {{.Part}} of {{.Parts}} of the text below in {{.Language}}.
{{- if .Style}} Use this style: {{.Style}}.{{end}}
{{- if .TargetLength}} The complete rewrite should be about {{.TargetLength}} words, so size this part accordingly.{{end}}
Keep every event, name, and fact. Do not add a title or notes.

TEXT:
{{trim .Text}}{{end}}

{{define "polish"}}Polish the following {{.Language}} text. Fix grammar, smooth the joins between paragraphs, and remove repetition. Keep the meaning and the length.

TEXT:
{{trim .Text}}{{end}}

{{define "edit"}}Edit the story below in {{.Language}}. Fix plot holes, tighten pacing, and keep character names consistent.
{{- if .TargetLength}} Aim for about {{.TargetLength}} words.{{end}}

STORY:
{{trim .Text}}{{end}}

{{define "analyze"}}Analyze the edited story below. Answer in {{.Language}} using exactly these tags:
[SCORE]a whole number from 0 to 100[/SCORE]
[FACTOR]one strength or weakness[/FACTOR] (repeat for each factor, at least one)
[SUMMARY]two sentences on what changed[/SUMMARY]

STORY:
{{trim .Text}}{{end}}

{{define "section"}}You are writing a long story in {{.Language}} from this outline:
{{trim .Outline}}
{{if .Style}}
Style: {{.Style}}
{{end}}
{{- if .Previous}}
The story so far ends with:
{{.Previous}}
{{end}}
Write section {{.Part}} of {{.Parts}}: {{.Section}}
{{- if .TargetLength}}
Length: about {{.TargetLength}} words.{{end}}
Continue seamlessly. Do not repeat earlier text or write a heading.{{end}}
`))

type promptData struct {
	Text         string
	Language     string
	Style        string
	TargetLength int
	Part, Parts  int

	Outline  string
	Section  string
	Previous string
}

func render(name string, data promptData) (string, error) {
	var b strings.Builder
	if err := prompts.ExecuteTemplate(&b, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s prompt: %w", name, err)
	}
	return b.String(), nil
}
