// Package analytics computes the chart payloads the dashboard renders
// from the currently filtered records. All computation is synchronous and
// happens per filter change.
package analytics

import (
	"sort"

	"github.com/montanaflynn/stats"

	"franmap/domain/brand"
)

// Count is one labeled bucket of a value count.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// CountBy counts records per value of the keyed field, skipping empty
// keys. Results are ordered count descending, label ascending on ties, so
// chart output is deterministic.
func CountBy(records []brand.Brand, key func(brand.Brand) string) []Count {
	buckets := make(map[string]int)
	for _, rec := range records {
		if k := key(rec); k != "" {
			buckets[k]++
		}
	}

	counts := make([]Count, 0, len(buckets))
	for label, count := range buckets {
		counts = append(counts, Count{Label: label, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Label < counts[j].Label
	})
	return counts
}

// Top truncates a count list to its n largest buckets.
func Top(counts []Count, n int) []Count {
	if n > 0 && len(counts) > n {
		return counts[:n]
	}
	return counts
}

// withoutPlaceholder drops the placeholder bucket. Charts over optional
// dimensions hide unknown values, like the original report did for nulls;
// the table and filters still show them.
func withoutPlaceholder(counts []Count) []Count {
	out := counts[:0:0]
	for _, c := range counts {
		if c.Label != brand.Placeholder {
			out = append(out, c)
		}
	}
	return out
}

// CountryCounts returns brand counts per host country (all countries, for
// the choropleth).
func CountryCounts(records []brand.Brand) []Count {
	return CountBy(records, func(b brand.Brand) string { return b.Country })
}

// TopCountries returns the ten countries hosting the most brands.
func TopCountries(records []brand.Brand) []Count {
	return Top(CountryCounts(records), 10)
}

// TopProductTypes returns the five largest product categories.
func TopProductTypes(records []brand.Brand) []Count {
	counts := CountBy(records, func(b brand.Brand) string { return b.ProductType })
	return Top(withoutPlaceholder(counts), 5)
}

// ProductTreemap returns all product categories for the treemap view.
func ProductTreemap(records []brand.Brand) []Count {
	return withoutPlaceholder(CountBy(records, func(b brand.Brand) string { return b.ProductType }))
}

// TopOrigins returns the ten most common brand origin countries.
func TopOrigins(records []brand.Brand) []Count {
	counts := CountBy(records, func(b brand.Brand) string { return b.BrandOrigin })
	return Top(withoutPlaceholder(counts), 10)
}

// GroupConcentration returns the fifteen franchise groups holding the most
// brands.
func GroupConcentration(records []brand.Brand) []Count {
	return Top(CountBy(records, func(b brand.Brand) string { return b.FranchiseGroup }), 15)
}

// Heatmap is a dense origin x host-country matrix for the origin-vs-host
// analysis. Z[i][j] counts brands originating in Origins[i] operating in
// Hosts[j].
type Heatmap struct {
	Origins []string `json:"origins"`
	Hosts   []string `json:"hosts"`
	Z       [][]int  `json:"z"`
}

// OriginHostHeatmap cross-tabulates brand origin against host country.
// Rows with an unknown origin are excluded.
func OriginHostHeatmap(records []brand.Brand) Heatmap {
	type pair struct{ origin, host string }
	cells := make(map[pair]int)
	originSet := make(map[string]bool)
	hostSet := make(map[string]bool)

	for _, rec := range records {
		if rec.BrandOrigin == brand.Placeholder || rec.BrandOrigin == "" || rec.Country == "" {
			continue
		}
		cells[pair{rec.BrandOrigin, rec.Country}]++
		originSet[rec.BrandOrigin] = true
		hostSet[rec.Country] = true
	}

	origins := sortedKeys(originSet)
	hosts := sortedKeys(hostSet)

	z := make([][]int, len(origins))
	for i, origin := range origins {
		z[i] = make([]int, len(hosts))
		for j, host := range hosts {
			z[i][j] = cells[pair{origin, host}]
		}
	}

	return Heatmap{Origins: origins, Hosts: hosts, Z: z}
}

// Summary feeds the stat cards above the visualization tabs.
type Summary struct {
	TotalBrands     int     `json:"totalBrands"`
	Countries       int     `json:"countries"`
	FranchiseGroups int     `json:"franchiseGroups"`
	MeanPerGroup    float64 `json:"meanPerGroup"`
	MedianPerGroup  float64 `json:"medianPerGroup"`
}

// Summarize computes dataset-level stats for the filtered view.
func Summarize(records []brand.Brand) Summary {
	countries := make(map[string]bool)
	groups := make(map[string]int)
	for _, rec := range records {
		countries[rec.Country] = true
		groups[rec.FranchiseGroup]++
	}

	summary := Summary{
		TotalBrands:     len(records),
		Countries:       len(countries),
		FranchiseGroups: len(groups),
	}

	if len(groups) > 0 {
		sizes := make([]float64, 0, len(groups))
		for _, n := range groups {
			sizes = append(sizes, float64(n))
		}
		if mean, err := stats.Mean(sizes); err == nil {
			summary.MeanPerGroup = mean
		}
		if median, err := stats.Median(sizes); err == nil {
			summary.MedianPerGroup = median
		}
	}

	return summary
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
