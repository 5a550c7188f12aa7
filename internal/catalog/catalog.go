// Package catalog holds the read-only list of SGS series offered for lookup.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

//go:embed series.yaml
var embedded []byte

// Series is one SGS time series.
type Series struct {
	Code        int    `yaml:"code" json:"code"`
	Description string `yaml:"description" json:"description"`
}

// Catalog indexes series by code and by normalized search text.
type Catalog struct {
	series []Series
	byCode map[int]Series
	keys   []string // normalized "code description", parallel to series
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Default returns the catalog compiled into the binary.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(embedded)
		if err != nil {
			panic(fmt.Sprintf("embedded series catalog: %v", err))
		}
		defaultCat = c
	})
	return defaultCat
}

// Load returns the catalog at path, or the embedded one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the user's own config
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return Parse(data)
}

// Parse builds a catalog from a YAML list of {code, description}.
func Parse(data []byte) (*Catalog, error) {
	var list []Series
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return New(list)
}

// New builds a catalog, rejecting non-positive and duplicate codes.
func New(list []Series) (*Catalog, error) {
	c := &Catalog{
		series: make([]Series, 0, len(list)),
		byCode: make(map[int]Series, len(list)),
	}
	for _, s := range list {
		if s.Code < 1 {
			return nil, fmt.Errorf("catalog: invalid code %d", s.Code)
		}
		if _, dup := c.byCode[s.Code]; dup {
			return nil, fmt.Errorf("catalog: duplicate code %d", s.Code)
		}
		s.Description = strings.TrimSpace(s.Description)
		c.byCode[s.Code] = s
		c.series = append(c.series, s)
	}

	sort.SliceStable(c.series, func(i, j int) bool { return c.series[i].Code < c.series[j].Code })
	c.keys = make([]string, len(c.series))
	for i, s := range c.series {
		c.keys[i] = Normalize(strconv.Itoa(s.Code) + " " + s.Description)
	}
	return c, nil
}

// All returns every series ordered by code.
func (c *Catalog) All() []Series {
	out := make([]Series, len(c.series))
	copy(out, c.series)
	return out
}

// Len returns the number of series.
func (c *Catalog) Len() int {
	return len(c.series)
}

// Lookup returns the series registered under code.
func (c *Catalog) Lookup(code int) (Series, bool) {
	s, ok := c.byCode[code]
	return s, ok
}

// Search returns series whose code or description contains query, ignoring
// case and accents. An empty query matches everything.
func (c *Catalog) Search(query string) []Series {
	q := Normalize(strings.TrimSpace(query))
	if q == "" {
		return c.All()
	}

	var out []Series
	for i, key := range c.keys {
		if strings.Contains(key, q) {
			out = append(out, c.series[i])
		}
	}
	return out
}

// Normalize lowercases s and strips combining diacritics ("Crédito" -> "credito").
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}
