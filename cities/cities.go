package cities

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// City is one row of the ciudades CSV. Label is the user-facing form
// "Ciudad - Departamento" that the booking form stores verbatim.
type City struct {
	Departamento string  `json:"departamento"`
	Ciudad       string  `json:"ciudad"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	Label        string  `json:"label"`
}

// Index holds the loaded city list plus a folded copy of every label
// so lookups ignore case and accents (Medellín matches "medellin").
type Index struct {
	mu     sync.RWMutex
	cities []City
	folded []string
}

var folder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases s and strips combining marks.
func Fold(s string) string {
	out, _, err := transform.String(folder, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// Load reads the CSV at path. The file has a header row with the
// columns departamento,ciudad,lat,lng.
func Load(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cities Load: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func Parse(r io.Reader) (*Index, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 4

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cities Parse: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("cities Parse: empty file")
	}

	idx := &Index{}
	for i, row := range rows {
		if i == 0 && strings.EqualFold(row[0], "departamento") {
			continue
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("cities Parse: row %d lat: %w", i+1, err)
		}
		lng, err := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
		if err != nil {
			return nil, fmt.Errorf("cities Parse: row %d lng: %w", i+1, err)
		}
		c := City{
			Departamento: strings.TrimSpace(row[0]),
			Ciudad:       strings.TrimSpace(row[1]),
			Lat:          lat,
			Lng:          lng,
		}
		c.Label = c.Ciudad + " - " + c.Departamento
		idx.cities = append(idx.cities, c)
		idx.folded = append(idx.folded, Fold(c.Label))
	}
	return idx, nil
}

// Grouped returns city names keyed by departamento, the shape the booking
// form's selector consumes.
func (idx *Index) Grouped() map[string][]string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make(map[string][]string)
	for _, c := range idx.cities {
		out[c.Departamento] = append(out[c.Departamento], c.Ciudad)
	}
	return out
}

// All returns every city in file order.
func (idx *Index) All() []City {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make([]City, len(idx.cities))
	copy(out, idx.cities)
	return out
}

// Search returns up to limit cities whose folded label contains the
// folded query. An empty query returns no results.
func (idx *Index) Search(q string, limit int) []City {
	q = Fold(strings.TrimSpace(q))
	if q == "" {
		return nil
	}
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var out []City
	for i, folded := range idx.folded {
		if strings.Contains(folded, q) {
			out = append(out, idx.cities[i])
			if len(out) >= limit {
				break
			}
		}
	}
	return out
}

// Lookup resolves an exact label (accents and case ignored).
func (idx *Index) Lookup(label string) (City, bool) {
	want := Fold(strings.TrimSpace(label))
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	for i, folded := range idx.folded {
		if folded == want {
			return idx.cities[i], true
		}
	}
	return City{}, false
}
