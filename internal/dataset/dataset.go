package dataset

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FilePrefix is the common file-name prefix of all LegISTyr dataset exports.
const FilePrefix = "LegISTyr__"

// Column names as they appear in the LegISTyr CSV exports. Header cells are
// trimmed on load, so stray padding in the export does not matter.
const (
	ColumnExample = "IT EXAMPLE"
	ColumnTerm    = "IT TERM"
	ColumnOptions = "OPTIONS"
	ColumnTarget  = "TARGET HYPOTHESIS (DE SOUTH TYROL)"
)

// Row is one translatable unit: an Italian example sentence, the term the
// terminological constraint applies to, and the candidate translations for
// that term. Index is the 0-based position in the source file and is carried
// through to the output artifacts unchanged.
type Row struct {
	Index   int
	Example string
	Term    string
	Options string
}

// FilePath returns the CSV path for the named dataset inside dataDir.
func FilePath(dataDir, name string) string {
	return filepath.Join(dataDir, FilePrefix+name+".csv")
}

// Load reads a semicolon-delimited LegISTyr CSV. optionsColumn selects which
// column feeds Row.Options; which column that is depends on the prompt
// template the dataset is paired with.
func Load(path, optionsColumn string) ([]Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset %s: %w", path, err)
	}
	return parse(data, optionsColumn)
}

func parse(data []byte, optionsColumn string) ([]Row, error) {
	r := csv.NewReader(bufio.NewReader(bytes.NewReader(stripBOM(data))))
	r.Comma = ';'
	// Exports are occasionally ragged; missing trailing cells read as empty.
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading dataset header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}

	required := []string{ColumnExample, ColumnTerm, optionsColumn}
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("dataset missing column %q (found: %s)", col, strings.Join(trimmed(header), ", "))
		}
	}

	var rows []Row
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading dataset row %d: %w", len(rows), err)
		}
		rows = append(rows, Row{
			Index:   len(rows),
			Example: field(rec, idx[ColumnExample]),
			Term:    field(rec, idx[ColumnTerm]),
			Options: field(rec, idx[optionsColumn]),
		})
	}
	return rows, nil
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func trimmed(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.TrimSpace(h)
	}
	return out
}

func stripBOM(b []byte) []byte {
	bom := []byte{0xEF, 0xBB, 0xBF}
	if len(b) >= 3 && bytes.Equal(b[:3], bom) {
		return b[3:]
	}
	return b
}
