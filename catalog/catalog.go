// Package catalog holds the star catalog of one classification run: the
// identifiers and class labels of the stars, their enabled state, and
// the per-filter feature matrices computed from their light curves.
// Catalogs are loaded either from a star-list CSV plus a photometry
// database, or from previously persisted feature files.
package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// Catalog is the mutable bookkeeping of a run. Star order is load
// order and never changes; feature matrices and the enabled flags are
// indexed by that order.
type Catalog struct {
	ids     []int
	classes []string
	unique  []string
	enabled []bool

	filters  []string
	features [][][]float64 // [filter][star][column]
}

// New builds a catalog from parallel identifier and class slices. Class
// labels may repeat; the unique class list preserves first appearance
// order. All stars start enabled.
func New(ids []int, classes []string) (*Catalog, error) {
	if len(ids) != len(classes) {
		return nil, fmt.Errorf("%d identifiers vs %d classes", len(ids), len(classes))
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("catalog must contain at least one star")
	}

	cat := &Catalog{
		ids:     append([]int(nil), ids...),
		classes: append([]string(nil), classes...),
		enabled: make([]bool, len(ids)),
	}
	for i := range cat.enabled {
		cat.enabled[i] = true
	}

	seen := make(map[string]bool, len(classes))
	for _, c := range cat.classes {
		if !seen[c] {
			seen[c] = true
			cat.unique = append(cat.unique, c)
		}
	}
	return cat, nil
}

// Load reads a star list CSV where each row is "identifier,class".
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open star list: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read star list: %w", err)
	}

	var ids []int
	var classes []string
	for n, row := range records {
		if len(row) < 2 {
			return nil, fmt.Errorf("star list row %d has %d fields, need 2", n+1, len(row))
		}
		id, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("star list row %d: bad identifier %q: %w", n+1, row[0], err)
		}
		ids = append(ids, id)
		classes = append(classes, row[1])
	}
	return New(ids, classes)
}

// Len returns the number of stars, enabled or not.
func (c *Catalog) Len() int {
	return len(c.ids)
}

// ID returns the identifier of the star at position i.
func (c *Catalog) ID(i int) int {
	return c.ids[i]
}

// Class returns the class label of the star at position i.
func (c *Catalog) Class(i int) string {
	return c.classes[i]
}

// IsEnabled reports whether the star at position i still takes part in
// training and evaluation.
func (c *Catalog) IsEnabled(i int) bool {
	return c.enabled[i]
}

// Disable excludes the star at position i from training and
// evaluation. Its position is kept so feature rows stay aligned.
func (c *Catalog) Disable(i int) {
	c.enabled[i] = false
}

// DisableStar disables a star by identifier. Unknown identifiers are
// ignored.
func (c *Catalog) DisableStar(id int) {
	for i, candidate := range c.ids {
		if candidate == id {
			c.enabled[i] = false
			return
		}
	}
}

// EnabledCount returns how many stars are still enabled.
func (c *Catalog) EnabledCount() int {
	count := 0
	for _, e := range c.enabled {
		if e {
			count++
		}
	}
	return count
}

// UniqueClasses returns the distinct class labels in first appearance
// order.
func (c *Catalog) UniqueClasses() []string {
	out := make([]string, len(c.unique))
	copy(out, c.unique)
	return out
}

// ClassID returns the position of a class label in the unique class
// list.
func (c *Catalog) ClassID(name string) (int, error) {
	for i, u := range c.unique {
		if u == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown class: %s", name)
}

// AddFilter registers a photometric filter and allocates a feature
// matrix slot for it. Re-adding a filter is a no-op.
func (c *Catalog) AddFilter(name string) {
	for _, f := range c.filters {
		if f == name {
			return
		}
	}
	c.filters = append(c.filters, name)
	c.features = append(c.features, nil)
}

// Filters returns the registered filter names in registration order.
func (c *Catalog) Filters() []string {
	out := make([]string, len(c.filters))
	copy(out, c.filters)
	return out
}

// SetFilterFeatures stores the feature matrix of a filter. The matrix
// must carry one row per star, disabled stars included (their rows are
// empty sentinels).
func (c *Catalog) SetFilterFeatures(name string, rows [][]float64) error {
	idx, err := c.filterIndex(name)
	if err != nil {
		return err
	}
	if len(rows) != c.Len() {
		return fmt.Errorf("filter %s: %d feature rows for %d stars", name, len(rows), c.Len())
	}
	c.features[idx] = rows
	return nil
}

// FilterFeatures returns the feature matrix of a filter.
func (c *Catalog) FilterFeatures(name string) ([][]float64, error) {
	idx, err := c.filterIndex(name)
	if err != nil {
		return nil, err
	}
	if c.features[idx] == nil {
		return nil, fmt.Errorf("filter %s has no features yet", name)
	}
	return c.features[idx], nil
}

func (c *Catalog) filterIndex(name string) (int, error) {
	for i, f := range c.filters {
		if f == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown filter: %s", name)
}
