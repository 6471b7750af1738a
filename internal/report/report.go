package report

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/legistyr/termbench/internal/output"
)

// Generator renders run artifacts into a markdown summary and a standalone
// HTML page.
type Generator struct {
	OutputDir string
}

// NewGenerator creates a Generator writing into outputDir.
func NewGenerator(outputDir string) *Generator {
	return &Generator{OutputDir: outputDir}
}

// pageData holds the data passed to the HTML template.
type pageData struct {
	Title       string
	Content     template.HTML
	GeneratedAt string
}

// Generate writes both report files for the given run and returns their
// paths. source may be empty when the dataset is unknown.
func (g *Generator) Generate(model, source string, recs []output.Record) (mdPath, htmlPath string, err error) {
	if err := os.MkdirAll(g.OutputDir, 0o755); err != nil {
		return "", "", fmt.Errorf("creating report dir: %w", err)
	}

	base := output.BaseName(model)
	if source != "" {
		base += "_" + source
	}
	mdPath = filepath.Join(g.OutputDir, base+".md")
	htmlPath = filepath.Join(g.OutputDir, base+".html")

	markdown := BuildMarkdown(model, source, recs)
	if err := os.WriteFile(mdPath, []byte(markdown), 0o644); err != nil {
		return "", "", fmt.Errorf("writing markdown report: %w", err)
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)

	var htmlBuf bytes.Buffer
	if err := md.Convert([]byte(markdown), &htmlBuf); err != nil {
		return "", "", fmt.Errorf("converting markdown: %w", err)
	}

	tmpl, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return "", "", fmt.Errorf("parsing page template: %w", err)
	}

	data := pageData{
		Title:       "Translation report: " + model,
		Content:     template.HTML(htmlBuf.String()),
		GeneratedAt: time.Now().Format(time.DateTime),
	}

	f, err := os.Create(htmlPath)
	if err != nil {
		return "", "", fmt.Errorf("creating HTML report: %w", err)
	}
	defer f.Close()

	if err := tmpl.Execute(f, data); err != nil {
		return "", "", fmt.Errorf("rendering HTML report: %w", err)
	}
	return mdPath, htmlPath, nil
}

// BuildMarkdown assembles the report body: a metrics block, the translation
// table and the reasoning traces that came back with the answers.
func BuildMarkdown(model, source string, recs []output.Record) string {
	var failed int
	var totalCost float64
	var costKnown bool
	var reasoningTokens int
	for _, rec := range recs {
		if rec.Empty() {
			failed++
			continue
		}
		if rec.Cost != nil {
			totalCost += *rec.Cost
			costKnown = true
		}
		if rec.ReasoningTokens != nil {
			reasoningTokens += *rec.ReasoningTokens
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Translation report: %s\n\n", model)
	if source != "" {
		fmt.Fprintf(&b, "Dataset: `%s`\n\n", source)
	}

	b.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Rows | %d |\n", len(recs))
	fmt.Fprintf(&b, "| Succeeded | %d |\n", len(recs)-failed)
	fmt.Fprintf(&b, "| Failed | %d |\n", failed)
	if costKnown {
		fmt.Fprintf(&b, "| Reported cost | $%.6f |\n", totalCost)
	} else {
		b.WriteString("| Reported cost | not reported |\n")
	}
	if reasoningTokens > 0 {
		fmt.Fprintf(&b, "| Reasoning tokens | %d |\n", reasoningTokens)
	}
	b.WriteString("\n## Translations\n\n")

	b.WriteString("| # | Translation | Cost | Reasoning tokens |\n|---|---|---|---|\n")
	for _, rec := range recs {
		if rec.Empty() {
			fmt.Fprintf(&b, "| %d | (failed) | | |\n", rec.Index)
			continue
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %s |\n",
			rec.Index,
			escapeCell(output.CleanText(rec.Assistant)),
			formatCost(rec.Cost),
			formatTokens(rec.ReasoningTokens),
		)
	}

	var traced bool
	for _, rec := range recs {
		if rec.Reasoning == "" {
			continue
		}
		if !traced {
			b.WriteString("\n## Reasoning traces\n")
			traced = true
		}
		fmt.Fprintf(&b, "\n### Row %d\n\n```text\n%s\n```\n", rec.Index, strings.TrimSpace(rec.Reasoning))
	}

	return b.String()
}

// cellEscaper makes answer text safe inside a markdown table cell. The
// answers regularly carry '<...>' wrappers, which goldmark would otherwise
// swallow as raw HTML tags.
var cellEscaper = strings.NewReplacer(
	"|", "\\|",
	"<", "&lt;",
	">", "&gt;",
	"\n", " ",
)

func escapeCell(s string) string {
	return cellEscaper.Replace(s)
}

func formatCost(c *float64) string {
	if c == nil {
		return ""
	}
	return strconv.FormatFloat(*c, 'g', -1, 64)
}

func formatTokens(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}
