package output

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/legistyr/termbench/internal/dispatch"
)

// Record is one row of the structured artifact. A failed row keeps its slot
// with every value field empty, so row N of the artifact is always row N of
// the dataset.
type Record struct {
	Index           int
	Assistant       string
	Reasoning       string
	Cost            *float64
	ReasoningTokens *int
}

// Empty reports whether the record carries no data at all, which is how a
// failed row is marked in the artifacts.
func (r Record) Empty() bool {
	return r.Assistant == "" && r.Reasoning == "" && r.Cost == nil && r.ReasoningTokens == nil
}

// csvHeader is the column layout of the structured artifact.
var csvHeader = []string{"index", "assistant", "reasoning", "cost", "reasoning_tokens"}

// FromResults converts dispatcher results into artifact records, preserving
// order. Failures become empty-valued records.
func FromResults(results []dispatch.Result) []Record {
	recs := make([]Record, len(results))
	for i, r := range results {
		recs[i] = Record{Index: r.Index}
		if r.Failed() || r.Completion == nil {
			continue
		}
		recs[i].Assistant = r.Completion.Text
		recs[i].Reasoning = r.Completion.Reasoning
		recs[i].Cost = r.Completion.Cost
		recs[i].ReasoningTokens = r.Completion.ReasoningTokens
	}
	return recs
}

// BaseName derives the artifact base name from a model identifier. Slashes
// would otherwise split the name into directories.
func BaseName(model string) string {
	return strings.ReplaceAll(model, "/", "_")
}

// Writer persists both artifacts of a run.
type Writer struct {
	CSVDir string
	TXTDir string
}

// NewWriter creates a Writer rooted at the two artifact directories.
func NewWriter(csvDir, txtDir string) *Writer {
	return &Writer{CSVDir: csvDir, TXTDir: txtDir}
}

// Write stores the structured and plain-text artifacts for model, creating
// the directories if needed, and returns both paths.
func (w *Writer) Write(model string, results []dispatch.Result) (csvPath, txtPath string, err error) {
	if err := os.MkdirAll(w.CSVDir, 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create %s: %w", w.CSVDir, err)
	}
	if err := os.MkdirAll(w.TXTDir, 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create %s: %w", w.TXTDir, err)
	}

	recs := FromResults(results)
	base := BaseName(model)
	csvPath = filepath.Join(w.CSVDir, base+".csv")
	txtPath = filepath.Join(w.TXTDir, base+".txt")

	if err := WriteCSV(csvPath, recs); err != nil {
		return "", "", err
	}
	if err := WriteTXT(txtPath, recs); err != nil {
		return "", "", err
	}
	return csvPath, txtPath, nil
}

// WriteCSV writes the structured artifact: one row per record with the raw
// assistant text, reasoning and usage numbers.
func WriteCSV(path string, recs []Record) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, rec := range recs {
		record := []string{
			strconv.Itoa(rec.Index),
			rec.Assistant,
			rec.Reasoning,
			formatCost(rec.Cost),
			formatTokens(rec.ReasoningTokens),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", rec.Index, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteTXT writes the plain-text artifact: one cleaned answer per line, in
// dataset order. Failed rows leave their line empty so the file stays aligned
// with the input for downstream diffing.
func WriteTXT(path string, recs []Record) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create TXT file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, rec := range recs {
		if _, err := w.WriteString(CleanText(rec.Assistant) + "\n"); err != nil {
			return fmt.Errorf("failed to write TXT row %d: %w", rec.Index, err)
		}
	}
	return w.Flush()
}

// ReadCSV loads a structured artifact back into records.
func ReadCSV(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open artifact %s: %w", path, err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact header: %w", err)
	}
	if len(header) != len(csvHeader) || header[0] != csvHeader[0] {
		return nil, fmt.Errorf("unexpected artifact header: %v", header)
	}

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact rows: %w", err)
	}

	recs := make([]Record, 0, len(records))
	for _, record := range records {
		index, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("bad row index %q: %w", record[0], err)
		}
		rec := Record{
			Index:     index,
			Assistant: record[1],
			Reasoning: record[2],
		}
		if record[3] != "" {
			cost, err := strconv.ParseFloat(record[3], 64)
			if err != nil {
				return nil, fmt.Errorf("bad cost %q on row %d: %w", record[3], index, err)
			}
			rec.Cost = &cost
		}
		if record[4] != "" {
			tokens, err := strconv.Atoi(record[4])
			if err != nil {
				return nil, fmt.Errorf("bad reasoning_tokens %q on row %d: %w", record[4], index, err)
			}
			rec.ReasoningTokens = &tokens
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

var textCleaner = strings.NewReplacer(
	"<think>", "",
	"</think>", "",
	"\r\n", " ",
	"\n", " ",
	"\r", " ",
)

// CleanText normalizes a model answer for the one-line-per-row artifact:
// leaked think tags go away and line breaks collapse to spaces.
func CleanText(s string) string {
	return strings.TrimSpace(textCleaner.Replace(s))
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
