// Package cleaning implements the one-time normalization pass over the
// loaded dataset: header canonicalization, value standardization,
// malformed-row skipping and placeholder fill for optional fields.
package cleaning

import (
	"fmt"
	"strings"
	"unicode"

	"franmap/adapters/tabular"
	"franmap/domain/brand"
	"franmap/internal/errors"
)

// headerAliases maps lower-cased source headers onto canonical column
// names. Covers both the canonical headers and the legacy GFM export
// headers ("Group Name", "Brand Product Category", "Brand country of
// Origin").
var headerAliases = map[string]string{
	"brand name":              brand.ColBrandName,
	"franchise group":         brand.ColFranchiseGroup,
	"group name":              brand.ColFranchiseGroup,
	"country":                 brand.ColCountry,
	"product type":            brand.ColProductType,
	"brand product category":  brand.ColProductType,
	"group type":              brand.ColGroupType,
	"brand origin":            brand.ColBrandOrigin,
	"brand country of origin": brand.ColBrandOrigin,
}

// optionalColumns are filled with brand.Placeholder when absent or blank.
var optionalColumns = []string{brand.ColProductType, brand.ColGroupType, brand.ColBrandOrigin}

// Report summarizes a cleaning pass.
type Report struct {
	SourceColumns  []string `json:"sourceColumns"`
	RowsRead       int      `json:"rowsRead"`
	RowsKept       int      `json:"rowsKept"`
	RowsSkipped    int      `json:"rowsSkipped"`
	Duplicates     int      `json:"duplicates"`
	FilledColumns  []string `json:"filledColumns"`
	RenamedColumns []string `json:"renamedColumns"`
	Warnings       []string `json:"warnings"`
}

// Clean normalizes a raw table into Brand records.
//
// Canonical headers win over aliases when both are present. Rows blank in
// any required field are skipped and counted; exact duplicates (after
// standardization) are dropped. Optional columns missing from the source
// are added with the placeholder value, so every returned record has all
// six fields populated.
func Clean(table *tabular.Table) ([]brand.Brand, *Report, error) {
	if table == nil || len(table.Headers) == 0 {
		return nil, nil, errors.LoadFailed("source table has no columns")
	}

	report := &Report{SourceColumns: table.Headers}

	canonical, renamed := canonicalizeHeaders(table.Headers)
	report.RenamedColumns = renamed

	for _, required := range brand.RequiredColumns {
		if _, ok := canonical[required]; !ok {
			return nil, nil, errors.LoadFailed(fmt.Sprintf("required column %q missing from source", required))
		}
	}

	for _, optional := range optionalColumns {
		if _, ok := canonical[optional]; !ok {
			report.FilledColumns = append(report.FilledColumns, optional)
		}
	}

	seen := make(map[brand.Brand]bool, len(table.Rows))
	records := make([]brand.Brand, 0, len(table.Rows))

	report.RowsRead = len(table.Rows)
	for i, row := range table.Rows {
		rec, ok := cleanRow(row, canonical)
		if !ok {
			report.RowsSkipped++
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("row %d skipped: missing required field", i+2)) // +2: header row, 1-based
			continue
		}
		if seen[rec] {
			report.Duplicates++
			continue
		}
		seen[rec] = true
		records = append(records, rec)
	}
	report.RowsKept = len(records)

	if len(records) == 0 {
		return nil, nil, errors.LoadFailed("no valid rows after cleaning")
	}

	return records, report, nil
}

// canonicalizeHeaders resolves each canonical column to the source header
// that provides it. Returns the mapping and the list of renames applied.
// Renames are collected only after every winner is settled, so an alias
// later superseded by its canonical header is not reported.
func canonicalizeHeaders(headers []string) (map[string]string, []string) {
	canonical := make(map[string]string, len(headers))

	for _, header := range headers {
		target, ok := headerAliases[strings.ToLower(strings.TrimSpace(header))]
		if !ok {
			continue // columns outside the schema are ignored
		}
		if existing, taken := canonical[target]; taken {
			// An exact canonical header wins over an alias.
			if strings.EqualFold(existing, target) || !strings.EqualFold(header, target) {
				continue
			}
		}
		canonical[target] = header
	}

	var renamed []string
	for _, target := range brand.Columns {
		source, ok := canonical[target]
		if ok && !strings.EqualFold(source, target) {
			renamed = append(renamed, fmt.Sprintf("%s -> %s", source, target))
		}
	}

	return canonical, renamed
}

// cleanRow standardizes one row. ok is false when a required field is
// blank.
func cleanRow(row tabular.Row, canonical map[string]string) (brand.Brand, bool) {
	get := func(column string) string {
		source, ok := canonical[column]
		if !ok {
			return ""
		}
		return strings.TrimSpace(row[source])
	}

	rec := brand.Brand{
		Name:           get(brand.ColBrandName),
		FranchiseGroup: get(brand.ColFranchiseGroup),
		Country:        strings.ToUpper(get(brand.ColCountry)),
		ProductType:    titleCase(get(brand.ColProductType)),
		GroupType:      get(brand.ColGroupType),
		BrandOrigin:    get(brand.ColBrandOrigin),
	}

	if rec.Name == "" || rec.FranchiseGroup == "" || rec.Country == "" {
		return brand.Brand{}, false
	}

	if rec.ProductType == "" {
		rec.ProductType = brand.Placeholder
	}
	if rec.GroupType == "" {
		rec.GroupType = brand.Placeholder
	}
	if rec.BrandOrigin == "" {
		rec.BrandOrigin = brand.Placeholder
	}

	return rec, true
}

// titleCase upper-cases the first letter of each space-separated word and
// lower-cases the rest, matching how product categories are standardized.
func titleCase(s string) string {
	if s == "" {
		return ""
	}
	words := strings.Fields(s)
	for i, word := range words {
		runes := []rune(strings.ToLower(word))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
