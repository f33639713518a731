package reference

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile overlays the YAML tables at path onto the bundled defaults. Map
// entries in the file add to or replace bundled entries; fields of the
// closing cost, financing default and mortgage rule sections override
// individually.
func LoadFile(path string) (*Tables, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reference tables: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	return Load(f)
}

// Load overlays YAML tables read from r onto the bundled defaults.
func Load(r io.Reader) (*Tables, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference tables: %w", err)
	}

	tables := Default()
	if len(bytes.TrimSpace(data)) > 0 {
		defaults := Default()

		// Decode the maps on their own so their keys can be normalized
		// before they are merged over the bundled entries.
		tables.Benchmarks = nil
		tables.ExpenseProfiles = nil
		tables.RenovationCosts = nil
		tables.ProvincialLandTransfer = nil
		tables.MunicipalLandTransfer = nil
		tables.PremiumSalesTax = nil
		if err := yaml.Unmarshal(data, tables); err != nil {
			return nil, fmt.Errorf("failed to parse reference tables: %w", err)
		}
		tables.normalize()

		tables.Benchmarks = merge(defaults.Benchmarks, tables.Benchmarks)
		tables.ExpenseProfiles = merge(defaults.ExpenseProfiles, tables.ExpenseProfiles)
		tables.RenovationCosts = merge(defaults.RenovationCosts, tables.RenovationCosts)
		tables.ProvincialLandTransfer = merge(defaults.ProvincialLandTransfer, tables.ProvincialLandTransfer)
		tables.MunicipalLandTransfer = merge(defaults.MunicipalLandTransfer, tables.MunicipalLandTransfer)
		tables.PremiumSalesTax = merge(defaults.PremiumSalesTax, tables.PremiumSalesTax)
	}

	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("invalid reference tables: %w", err)
	}
	return tables, nil
}

// Marshal renders the tables as YAML, suitable as a starting point for an
// override file.
func (t *Tables) Marshal() ([]byte, error) {
	return yaml.Marshal(t)
}

func merge[V any](base, overlay map[string]V) map[string]V {
	out := make(map[string]V, len(base)+len(overlay))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		out[k] = v
	}
	return out
}
