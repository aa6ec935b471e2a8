package quote

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultCurrency is used for any country missing from the directory.
const DefaultCurrency = "USD"

//go:embed countries.yaml
var countriesYAML []byte

// Country is one selectable quote country.
type Country struct {
	Name     string   `yaml:"name" json:"name"`
	Code     string   `yaml:"code" json:"code"`
	Currency string   `yaml:"currency" json:"currency"`
	Aliases  []string `yaml:"aliases" json:"-"`
}

// Directory resolves countries to their local currency. It is immutable after loading.
type Directory struct {
	countries []Country
	index     map[string]string
}

// LoadDirectory parses a YAML country table.
func LoadDirectory(data []byte) (*Directory, error) {
	var doc struct {
		Countries []Country `yaml:"countries"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing country table: %w", err)
	}

	d := &Directory{index: make(map[string]string, len(doc.Countries)*2)}
	for _, c := range doc.Countries {
		c.Currency = strings.ToUpper(strings.TrimSpace(c.Currency))
		if c.Name == "" || len(c.Currency) != 3 {
			return nil, fmt.Errorf("invalid country entry %q (currency %q)", c.Name, c.Currency)
		}
		d.countries = append(d.countries, c)
		for _, key := range append([]string{c.Name, c.Code}, c.Aliases...) {
			if key = normalizeKey(key); key != "" {
				d.index[key] = c.Currency
			}
		}
	}
	sort.Slice(d.countries, func(i, j int) bool { return d.countries[i].Name < d.countries[j].Name })
	return d, nil
}

var (
	defaultDirOnce sync.Once
	defaultDir     *Directory
)

// DefaultDirectory returns the embedded country table, parsed once per process.
func DefaultDirectory() *Directory {
	defaultDirOnce.Do(func() {
		d, err := LoadDirectory(countriesYAML)
		if err != nil {
			panic(fmt.Sprintf("quote: embedded country table: %v", err))
		}
		defaultDir = d
	})
	return defaultDir
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// CurrencyFor returns the local currency of a country name or ISO code, or DefaultCurrency.
func (d *Directory) CurrencyFor(country string) string {
	if cur, ok := d.index[normalizeKey(country)]; ok {
		return cur
	}
	return DefaultCurrency
}

// Known reports whether the country is in the table.
func (d *Directory) Known(country string) bool {
	_, ok := d.index[normalizeKey(country)]
	return ok
}

// Countries returns the table sorted by name.
func (d *Directory) Countries() []Country {
	return append([]Country(nil), d.countries...)
}
