// Package listing turns external listing data into partial deal inputs:
// saved listing pages parsed offline and MLS records looked up in a
// directory. Neither path performs network I/O.
package listing

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/iwvelando/deal-analyzer/internal/deal"
	"go.uber.org/zap"
)

// mlsField is the pseudo-field holding the listing's MLS number.
const mlsField = "mls_number"

// itemprops maps schema.org microdata properties to input fields.
var itemprops = map[string]string{
	"price":                  "purchase_price",
	"streetaddress":          "address",
	"addresslocality":        "city",
	"addressregion":          "province",
	"numberofbedrooms":       "bedrooms",
	"numberofrooms":          "bedrooms",
	"numberofbathroomstotal": "bathrooms",
	"floorsize":              "square_feet",
	"yearbuilt":              "year_built",
	"numberofunits":          "units",
}

// labels maps the captions used in listing detail tables to input fields.
var labels = map[string]string{
	"price":               "purchase_price",
	"list price":          "purchase_price",
	"asking price":        "purchase_price",
	"address":             "address",
	"street address":      "address",
	"city":                "city",
	"municipality":        "city",
	"province":            "province",
	"property type":       "property_type",
	"building type":       "property_type",
	"bedrooms":            "bedrooms",
	"beds":                "bedrooms",
	"bathrooms":           "bathrooms",
	"baths":               "bathrooms",
	"square feet":         "square_feet",
	"square footage":      "square_feet",
	"sq ft":               "square_feet",
	"living area":         "square_feet",
	"year built":          "year_built",
	"built in":            "year_built",
	"units":               "units",
	"number of units":     "units",
	"property taxes":      "property_tax_annual",
	"annual taxes":        "property_tax_annual",
	"taxes":               "property_tax_annual",
	"condo fees":          "hoa_condo_fees_monthly",
	"maintenance fees":    "hoa_condo_fees_monthly",
	"strata fees":         "hoa_condo_fees_monthly",
	"monthly rent":        "monthly_rent",
	"rent":                "monthly_rent",
	"estimated rent":      "monthly_rent",
	"mls":                 mlsField,
	"mls number":          mlsField,
	"mls#":                mlsField,
	"mls #":               mlsField,
	"mls® number":         mlsField,
	"listing id":          mlsField,
	"annual property tax": "property_tax_annual",
}

// propertyTypeWords maps words seen in listing property types to profiles.
// The first match wins, so the order matters.
var propertyTypeWords = []struct {
	Word         string
	PropertyType string
}{
	{"fourplex", "fourplex"},
	{"quadruplex", "fourplex"},
	{"4-plex", "fourplex"},
	{"triplex", "triplex"},
	{"3-plex", "triplex"},
	{"duplex", "duplex"},
	{"multi", "multi_family"},
	{"apartment building", "multi_family"},
	{"condo", "condo"},
	{"apartment", "condo"},
	{"strata", "condo"},
	{"town", "townhouse"},
	{"row", "townhouse"},
	{"semi", "semi_detached"},
	{"detached", "single_family"},
	{"single", "single_family"},
	{"house", "single_family"},
	{"bungalow", "single_family"},
}

// Page is what a listing page yielded.
type Page struct {
	SourceURL string              `json:"source_url,omitempty"`
	Title     string              `json:"title,omitempty"`
	MLSNumber string              `json:"mls_number,omitempty"`
	Inputs    deal.PropertyInputs `json:"inputs"`
	Fields    []string            `json:"fields"`
	Skipped   []deal.FieldError   `json:"skipped,omitempty"`
}

// Scraper extracts deal inputs from listing pages.
type Scraper struct {
	logger *zap.Logger
}

// NewScraper creates a Scraper.
func NewScraper(logger *zap.Logger) *Scraper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scraper{logger: logger}
}

// Parse reads a saved listing page. Values are taken from data-field
// attributes first, then schema.org microdata, then label/value rows in
// definition lists and tables. Values that cannot be coerced are skipped and
// reported on the Page rather than failing the parse.
func (s *Scraper) Parse(r io.Reader, sourceURL string) (Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Page{}, fmt.Errorf("failed to parse listing page: %w", err)
	}

	raw := make(map[string]interface{})
	set := func(field, value string) {
		value = stripAnnotation(strings.Join(strings.Fields(value), " "))
		if field == "" || value == "" {
			return
		}
		if _, exists := raw[field]; !exists {
			raw[field] = value
		}
	}

	doc.Find("[data-field]").Each(func(_ int, sel *goquery.Selection) {
		name, _ := sel.Attr("data-field")
		set(fieldFor(name), valueOf(sel))
	})

	doc.Find("[itemprop]").Each(func(_ int, sel *goquery.Selection) {
		name, _ := sel.Attr("itemprop")
		if field, ok := itemprops[strings.ToLower(strings.TrimSpace(name))]; ok {
			set(field, valueOf(sel))
		}
	})

	doc.Find("dl").Each(func(_ int, list *goquery.Selection) {
		list.Find("dt").Each(func(_ int, term *goquery.Selection) {
			if field, ok := labelField(term.Text()); ok {
				set(field, term.NextFiltered("dd").Text())
			}
		})
	})

	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("th, td")
		if cells.Length() != 2 {
			return
		}
		if field, ok := labelField(cells.First().Text()); ok {
			set(field, cells.Last().Text())
		}
	})

	page := Page{
		SourceURL: sourceURL,
		Title:     strings.TrimSpace(doc.Find("title").First().Text()),
	}
	if mls, ok := raw[mlsField].(string); ok {
		page.MLSNumber = NormalizeMLS(mls)
		delete(raw, mlsField)
	}
	if pt, ok := raw["property_type"].(string); ok {
		if mapped := PropertyTypeFromText(pt); mapped != "" {
			raw["property_type"] = mapped
		} else {
			page.Skipped = append(page.Skipped, deal.FieldError{Field: "property_type", Message: fmt.Sprintf("unrecognised property type %q", pt)})
			delete(raw, "property_type")
		}
	}

	inputs, skipped, err := decodeLenient(raw)
	if err != nil {
		return Page{}, err
	}
	page.Inputs = inputs
	page.Skipped = append(page.Skipped, skipped...)
	page.Fields = inputs.PresentFields()

	s.logger.Debug("parsed listing page",
		zap.String("op", "listing.Parse"),
		zap.String("source", sourceURL),
		zap.Strings("fields", page.Fields),
		zap.Int("skipped", len(page.Skipped)),
	)
	if len(page.Fields) == 0 {
		return page, fmt.Errorf("no listing fields found in page %s", sourceURL)
	}
	return page, nil
}

// decodeLenient decodes the raw values, dropping any field that cannot be
// coerced and reporting it as skipped.
func decodeLenient(raw map[string]interface{}) (deal.PropertyInputs, []deal.FieldError, error) {
	inputs, err := deal.DecodeInputs(raw)
	if err == nil {
		return inputs, nil, nil
	}

	var problems deal.ValidationErrors
	if !errors.As(err, &problems) {
		return deal.PropertyInputs{}, nil, err
	}
	for _, problem := range problems {
		delete(raw, problem.Field)
	}
	inputs, err = deal.DecodeInputs(raw)
	if err != nil {
		return deal.PropertyInputs{}, nil, fmt.Errorf("failed to decode listing fields: %w", err)
	}
	skipped := []deal.FieldError(problems)
	sort.SliceStable(skipped, func(i, j int) bool { return skipped[i].Field < skipped[j].Field })
	return inputs, skipped, nil
}

// PropertyTypeFromText maps listing wording such as "Semi-Detached House" or
// "Condo Apartment" to a property type, or "" when nothing matches.
func PropertyTypeFromText(text string) string {
	lower := strings.ToLower(text)
	for _, candidate := range propertyTypeWords {
		if strings.Contains(lower, candidate.Word) {
			return candidate.PropertyType
		}
	}
	return ""
}

// NormalizeMLS canonicalizes an MLS number for lookups.
func NormalizeMLS(mls string) string {
	return strings.ToUpper(strings.Join(strings.Fields(mls), ""))
}

func fieldFor(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if field, ok := labels[strings.ReplaceAll(name, "_", " ")]; ok {
		return field
	}
	return deal.CanonicalName(name)
}

func labelField(text string) (string, bool) {
	label := strings.ToLower(strings.Join(strings.Fields(text), " "))
	label = strings.TrimRight(label, ":")
	field, ok := labels[strings.TrimSpace(label)]
	return field, ok
}

// stripAnnotation drops a trailing parenthesised note such as the tax year in
// "$3,000 (2024)".
func stripAnnotation(value string) string {
	if i := strings.LastIndex(value, " ("); i > 0 && strings.HasSuffix(value, ")") {
		return strings.TrimSpace(value[:i])
	}
	return value
}

func valueOf(sel *goquery.Selection) string {
	if content, ok := sel.Attr("content"); ok {
		return content
	}
	if value, ok := sel.Attr("value"); ok {
		return value
	}
	return sel.Text()
}
