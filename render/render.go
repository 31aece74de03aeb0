// Package render turns lookup results into Markdown, HTML pages and
// terminal output.
package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"

	"word_etymology/etymology"
	"word_etymology/history"
)

// Markdown formats one answer under the question it was asked for.
func Markdown(question string, rec etymology.Record) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## %s\n\n", escape(question)))
	sb.WriteString(fmt.Sprintf("**Modern meaning:** %s\n\n", escape(rec.ModernMeaning)))
	sb.WriteString(fmt.Sprintf("**Century of origin:** %s\n\n", escape(rec.CenturyOfOrigin)))
	sb.WriteString(fmt.Sprintf("**Etymology:** %s\n\n", escape(rec.DetailedEtymology)))
	sb.WriteString(fmt.Sprintf("**Fun fact:** %s\n", escape(rec.FunFact)))
	return sb.String()
}

// HistoryMarkdown formats a whole history list, newest first as given.
func HistoryMarkdown(entries []history.Entry) string {
	var sb strings.Builder
	sb.WriteString("# Lookup history\n\n")
	if len(entries) == 0 {
		sb.WriteString("_No lookups yet._\n")
		return sb.String()
	}
	for i, e := range entries {
		if i > 0 {
			sb.WriteString("\n---\n\n")
		}
		sb.WriteString(Markdown(e.Question, e.Answer))
		sb.WriteString(fmt.Sprintf("\n_%s_\n", e.UpdatedAt.UTC().Format("2006-01-02 15:04 MST")))
	}
	return sb.String()
}

// HTML converts Markdown to an HTML fragment. Raw HTML in the input is not
// passed through.
func HTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Page wraps an HTML fragment into a standalone document.
func Page(title, body string) string {
	return fmt.Sprintf(`<!doctype html>
<html lang="en"><head><meta charset="utf-8"><title>%s</title>
<style>body{font-family:Georgia,serif;max-width:46rem;margin:2rem auto;padding:0 1rem;line-height:1.5}</style>
</head><body>
%s</body></html>
`, html.EscapeString(title), body)
}

// Terminal renders Markdown for a terminal of the given width.
func Terminal(md string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

var mdEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"#", `\#`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
	"\n", " ",
)

// escape keeps model text from being read as Markdown structure.
func escape(s string) string {
	return mdEscaper.Replace(strings.TrimSpace(s))
}
