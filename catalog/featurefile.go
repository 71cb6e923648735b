package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Feature files are CSV with a two-row header. The first row tags each
// column type (META for the identifier, CLASS for the label, PAR for
// every feature column); the second row carries the column names. One
// file is written per filter, the filter name embedded in the file
// name, and only enabled stars are written.
const (
	metaTag  = "META"
	classTag = "CLASS"
	paramTag = "PAR"
	idTag    = "ID"
	fileExt  = ".csv"
)

// FeatureFileName derives the per-filter file name from a base name:
// everything before the first dot, an underscore, the filter, ".csv".
func FeatureFileName(base, filterName string) string {
	if i := strings.Index(base, "."); i >= 0 {
		base = base[:i]
	}
	return base + "_" + filterName + fileExt
}

// FilterFromFileName extracts the filter name embedded between the last
// underscore and the last dot of a file name.
func FilterFromFileName(name string) (string, bool) {
	underscore := strings.LastIndex(name, "_")
	dot := strings.LastIndex(name, ".")
	if underscore < 0 || dot <= underscore+1 {
		return "", false
	}
	return name[underscore+1 : dot], true
}

// WriteFeatures persists the catalog's feature matrices, one CSV per
// filter. names holds the feature column names in matrix column order.
func WriteFeatures(base string, cat *Catalog, names []string) error {
	for _, filterName := range cat.Filters() {
		rows, err := cat.FilterFeatures(filterName)
		if err != nil {
			return err
		}
		path := FeatureFileName(base, filterName)
		if err := writeFilterFile(path, cat, rows, names); err != nil {
			return fmt.Errorf("failed to write features for filter %s: %w", filterName, err)
		}
	}
	return nil
}

func writeFilterFile(path string, cat *Catalog, rows [][]float64, names []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	meta := append([]string{metaTag, classTag}, repeat(paramTag, len(names))...)
	if err := w.Write(meta); err != nil {
		return err
	}
	header := append([]string{idTag, classTag}, names...)
	if err := w.Write(header); err != nil {
		return err
	}

	for i, row := range rows {
		if !cat.IsEnabled(i) {
			continue
		}
		record := make([]string, 0, len(row)+2)
		record = append(record, strconv.Itoa(cat.ID(i)), cat.Class(i))
		for _, v := range row {
			record = append(record, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// ReadFeatures rebuilds a catalog from previously persisted feature
// files. Files are discovered next to base by the name pattern
// FeatureFileName produces; star identifiers and classes come from the
// first file, every file contributes one filter. Returns the catalog
// and the feature column names.
func ReadFeatures(base string) (*Catalog, []string, error) {
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	matches, err := filepath.Glob(stem + "*" + fileExt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan for feature files: %w", err)
	}

	var cat *Catalog
	var names []string
	for _, path := range matches {
		filterName, ok := FilterFromFileName(filepath.Base(path))
		if !ok {
			continue
		}

		ids, classes, fileNames, rows, err := readFilterFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read feature file %s: %w", path, err)
		}

		if cat == nil {
			cat, err = New(ids, classes)
			if err != nil {
				return nil, nil, fmt.Errorf("bad star data in %s: %w", path, err)
			}
			names = fileNames
		} else if len(rows) != cat.Len() {
			return nil, nil, fmt.Errorf("feature file %s has %d rows, expected %d", path, len(rows), cat.Len())
		}

		cat.AddFilter(filterName)
		if err := cat.SetFilterFeatures(filterName, rows); err != nil {
			return nil, nil, err
		}
	}

	if cat == nil {
		return nil, nil, fmt.Errorf("no feature files found for %s", base)
	}
	return cat, names, nil
}

func readFilterFile(path string) (ids []int, classes []string, names []string, rows [][]float64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if len(records) < 2 {
		return nil, nil, nil, nil, fmt.Errorf("missing metaheader or header row")
	}

	meta, header := records[0], records[1]
	if len(meta) != len(header) {
		return nil, nil, nil, nil, fmt.Errorf("metaheader and header disagree on column count")
	}

	paramStart, paramEnd := -1, -1
	for i, tag := range meta {
		if tag == paramTag {
			if paramStart < 0 {
				paramStart = i
			}
			paramEnd = i
		}
	}
	if paramStart < 0 {
		return nil, nil, nil, nil, fmt.Errorf("no feature columns tagged %s", paramTag)
	}

	idCol, classCol := -1, -1
	for i, name := range header {
		switch name {
		case idTag:
			idCol = i
		case classTag:
			classCol = i
		}
	}
	if idCol < 0 {
		return nil, nil, nil, nil, fmt.Errorf("no column named %s", idTag)
	}
	if classCol < 0 {
		return nil, nil, nil, nil, fmt.Errorf("no column named %s", classTag)
	}

	names = append([]string(nil), header[paramStart:paramEnd+1]...)

	for n, record := range records[2:] {
		if len(record) <= paramEnd {
			return nil, nil, nil, nil, fmt.Errorf("row %d has %d fields, need %d", n+3, len(record), paramEnd+1)
		}
		id, err := strconv.Atoi(record[idCol])
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("row %d: bad identifier %q: %w", n+3, record[idCol], err)
		}

		row := make([]float64, 0, paramEnd-paramStart+1)
		for _, field := range record[paramStart : paramEnd+1] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, nil, nil, fmt.Errorf("row %d: bad feature value %q: %w", n+3, field, err)
			}
			row = append(row, v)
		}

		ids = append(ids, id)
		classes = append(classes, record[classCol])
		rows = append(rows, row)
	}
	return ids, classes, names, rows, nil
}

func repeat(s string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}
	return out
}
