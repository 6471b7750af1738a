package report

// pageTemplate is the Go html/template for the standalone report page. The
// stylesheet is inlined so the file can be mailed around as-is.
const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
  <style>` + cssContent + `</style>
</head>
<body>
  <main class="content">
    <article class="page-content">
      {{.Content}}
    </article>
    <footer class="page-footer">Generated {{.GeneratedAt}}</footer>
  </main>
</body>
</html>`

// cssContent is the inline CSS for the report page.
const cssContent = `
:root {
  --bg: #ffffff;
  --text: #212529;
  --text-muted: #868e96;
  --border: #dee2e6;
  --accent: #228be6;
  --code-bg: #f1f3f5;
}

* { box-sizing: border-box; }

body {
  margin: 0;
  background: var(--bg);
  color: var(--text);
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
  line-height: 1.6;
}

.content {
  max-width: 920px;
  margin: 0 auto;
  padding: 2rem 1.5rem;
}

.page-content h1 {
  border-bottom: 2px solid var(--border);
  padding-bottom: 0.4rem;
}

.page-content table {
  border-collapse: collapse;
  width: 100%;
  margin: 1rem 0;
}

.page-content th, .page-content td {
  border: 1px solid var(--border);
  padding: 0.4rem 0.7rem;
  text-align: left;
  vertical-align: top;
}

.page-content th {
  background: var(--code-bg);
}

.page-content code {
  background: var(--code-bg);
  padding: 0.1rem 0.3rem;
  border-radius: 3px;
  font-size: 0.92em;
}

.page-content pre {
  background: var(--code-bg);
  padding: 0.8rem 1rem;
  border-radius: 6px;
  overflow-x: auto;
}

.page-content pre code {
  background: none;
  padding: 0;
}

.page-footer {
  margin-top: 2rem;
  padding-top: 0.8rem;
  border-top: 1px solid var(--border);
  color: var(--text-muted);
  font-size: 0.85rem;
}
`
