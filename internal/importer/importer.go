// Package importer reads monthly statement exports from disk. Each file is
// wholly self-contained: one account, one month. Files are classified by name
// prefix; a directory with no recognized files is "no data", not an error.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Kind classifies a source file.
type Kind string

const (
	KindChecking  Kind = "checking"
	KindCredit    Kind = "credit"
	KindSavings   Kind = "savings"
	KindPositions Kind = "positions"
)

// FileInfo describes one recognized CSV file in the statements directory.
type FileInfo struct {
	Name string
	Path string
	Kind Kind
	Size int64
}

// kindPrefixes maps filename prefixes to kinds. "checking_2026-01.csv",
// "credit_2026-01.csv", "savings_2026-01.csv", "positions_2026-02-15.csv".
var kindPrefixes = []struct {
	prefix string
	kind   Kind
}{
	{"checking", KindChecking},
	{"debit", KindChecking},
	{"credit", KindCredit},
	{"savings", KindSavings},
	{"positions", KindPositions},
}

// Scan returns the recognized CSV files under dir, sorted by name. A missing
// directory yields no files.
func Scan(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading statements dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := strings.ToLower(e.Name())
		if !strings.HasSuffix(name, ".csv") {
			continue
		}
		kind, ok := classify(name)
		if !ok {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Kind: kind,
			Size: info.Size(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// LatestPositions returns the most recent positions snapshot among files, by
// name order, or false when there is none. Earlier snapshots are ignored;
// positions are replaced wholesale, never accumulated.
func LatestPositions(files []FileInfo) (FileInfo, bool) {
	var latest FileInfo
	found := false
	for _, f := range files {
		if f.Kind != KindPositions {
			continue
		}
		if !found || f.Name > latest.Name {
			latest = f
			found = true
		}
	}
	return latest, found
}

func classify(name string) (Kind, bool) {
	for _, kp := range kindPrefixes {
		if strings.HasPrefix(name, kp.prefix) {
			return kp.kind, true
		}
	}
	return "", false
}

// readRows reads a headered CSV into column-name to value maps. Rows with a
// field count different from the header are tolerated: extra fields are
// dropped, missing ones are absent from the map. Bank exports carry stray
// quotes in descriptions, so quoting is lazy and a row the csv package still
// rejects loses only itself. Only an unreadable stream is an error.
func readRows(r io.Reader) ([]map[string]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var (
		header []string
		rows   []map[string]string
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV: %w", err)
		}
		if header == nil {
			header = rec
			continue
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[strings.TrimSpace(col)] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
