package listing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/iwvelando/deal-analyzer/internal/deal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when no listing has the requested MLS number.
var ErrNotFound = errors.New("listing not found")

// Listing is an MLS record. Zero values are unknown.
type Listing struct {
	MLSNumber        string  `yaml:"mlsNumber" json:"mls_number"`
	Status           string  `yaml:"status,omitempty" json:"status,omitempty"`
	Address          string  `yaml:"address" json:"address"`
	City             string  `yaml:"city" json:"city"`
	Province         string  `yaml:"province,omitempty" json:"province,omitempty"`
	PropertyType     string  `yaml:"propertyType,omitempty" json:"property_type,omitempty"`
	ListPrice        float64 `yaml:"listPrice" json:"list_price"`
	Bedrooms         int     `yaml:"bedrooms,omitempty" json:"bedrooms,omitempty"`
	Bathrooms        float64 `yaml:"bathrooms,omitempty" json:"bathrooms,omitempty"`
	SquareFeet       float64 `yaml:"squareFeet,omitempty" json:"square_feet,omitempty"`
	YearBuilt        int     `yaml:"yearBuilt,omitempty" json:"year_built,omitempty"`
	Units            int     `yaml:"units,omitempty" json:"units,omitempty"`
	AnnualTaxes      float64 `yaml:"annualTaxes,omitempty" json:"annual_taxes,omitempty"`
	CondoFeesMonthly float64 `yaml:"condoFeesMonthly,omitempty" json:"condo_fees_monthly,omitempty"`
	EstimatedRent    float64 `yaml:"estimatedRent,omitempty" json:"estimated_rent,omitempty"`
	DaysOnMarket     int     `yaml:"daysOnMarket,omitempty" json:"days_on_market,omitempty"`
}

// Inputs maps the listing onto deal inputs, leaving unknown values missing.
func (l Listing) Inputs() deal.PropertyInputs {
	in := deal.PropertyInputs{
		Address:  l.Address,
		City:     l.City,
		Province: l.Province,
	}
	if l.PropertyType != "" {
		in.PropertyType = PropertyTypeFromText(l.PropertyType)
		if in.PropertyType == "" {
			in.PropertyType = l.PropertyType
		}
	}
	in.PurchasePrice = positive(l.ListPrice)
	in.Bathrooms = positive(l.Bathrooms)
	in.SquareFeet = positive(l.SquareFeet)
	in.PropertyTaxAnnual = positive(l.AnnualTaxes)
	in.HOACondoFeesMonthly = positive(l.CondoFeesMonthly)
	in.MonthlyRent = positive(l.EstimatedRent)
	in.Bedrooms = positiveInt(l.Bedrooms)
	in.YearBuilt = positiveInt(l.YearBuilt)
	in.Units = positiveInt(l.Units)
	return in
}

// Lookup finds MLS listings.
type Lookup interface {
	Find(ctx context.Context, mlsNumber string) (Listing, error)
}

// Directory is an in-memory Lookup, typically loaded from a YAML export.
type Directory struct {
	logger   *zap.Logger
	listings map[string]Listing
}

type directoryFile struct {
	Listings []Listing `yaml:"listings"`
}

// NewDirectory indexes listings by MLS number. Duplicate numbers are an error.
func NewDirectory(logger *zap.Logger, listings []Listing) (*Directory, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Directory{logger: logger, listings: make(map[string]Listing, len(listings))}
	for i, l := range listings {
		key := NormalizeMLS(l.MLSNumber)
		if key == "" {
			return nil, fmt.Errorf("listing %d has no MLS number", i)
		}
		if _, exists := d.listings[key]; exists {
			return nil, fmt.Errorf("duplicate MLS number %s", key)
		}
		l.MLSNumber = key
		d.listings[key] = l
	}
	logger.Debug("listing directory indexed",
		zap.String("op", "listing.NewDirectory"),
		zap.Strings("mls", d.MLSNumbers()),
	)
	return d, nil
}

// LoadDirectory reads a YAML listing export from disk.
func LoadDirectory(logger *zap.Logger, path string) (*Directory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open listing directory %s: %w", path, err)
	}
	defer f.Close()

	d, err := ReadDirectory(logger, f)
	if err != nil {
		return nil, fmt.Errorf("failed to load listing directory %s: %w", path, err)
	}
	return d, nil
}

// ReadDirectory reads a YAML listing export.
func ReadDirectory(logger *zap.Logger, r io.Reader) (*Directory, error) {
	var file directoryFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode listings: %w", err)
	}
	return NewDirectory(logger, file.Listings)
}

// Find returns the listing with the MLS number.
func (d *Directory) Find(ctx context.Context, mlsNumber string) (Listing, error) {
	if err := ctx.Err(); err != nil {
		return Listing{}, err
	}
	key := NormalizeMLS(mlsNumber)
	l, ok := d.listings[key]
	if !ok {
		d.logger.Debug("listing lookup missed",
			zap.String("op", "listing.Find"),
			zap.String("mls", key),
		)
		return Listing{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return l, nil
}

// MLSNumbers lists the indexed MLS numbers in sorted order.
func (d *Directory) MLSNumbers() []string {
	numbers := make([]string, 0, len(d.listings))
	for k := range d.listings {
		numbers = append(numbers, k)
	}
	sort.Strings(numbers)
	return numbers
}

func positive(v float64) *float64 {
	if v <= 0 {
		return nil
	}
	return deal.Float(v)
}

func positiveInt(v int) *int {
	if v <= 0 {
		return nil
	}
	return deal.Int(v)
}
