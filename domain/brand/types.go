// Package brand defines the core record type of the franchise dataset and
// the canonical column schema every downstream consumer relies on.
package brand

// Canonical column headers after normalization. Source files may use the
// legacy export headers; normalization maps everything onto this set.
const (
	ColBrandName      = "Brand Name"
	ColFranchiseGroup = "Franchise Group"
	ColCountry        = "Country"
	ColProductType    = "Product Type"
	ColGroupType      = "Group Type"
	ColBrandOrigin    = "Brand Origin"
)

// Placeholder fills optional fields that are absent or blank in the source
// so filters never see a missing value.
const Placeholder = "Unknown"

// Columns is the normalized schema in display order. Exports and table
// views follow this order.
var Columns = []string{
	ColBrandName,
	ColFranchiseGroup,
	ColCountry,
	ColProductType,
	ColGroupType,
	ColBrandOrigin,
}

// RequiredColumns must be present in the source file; a missing one is an
// unrecoverable load error.
var RequiredColumns = []string{ColBrandName, ColFranchiseGroup, ColCountry}

// Brand is one row of the dataset: a single franchise brand.
type Brand struct {
	ID             int64  `db:"id" json:"-"`
	Name           string `db:"brand_name" json:"brandName"`
	FranchiseGroup string `db:"franchise_group" json:"franchiseGroup"`
	Country        string `db:"country" json:"country"`
	ProductType    string `db:"product_type" json:"productType"`
	GroupType      string `db:"group_type" json:"groupType"`
	BrandOrigin    string `db:"brand_origin" json:"brandOrigin"`
}

// Field returns the value for a canonical column header.
func (b Brand) Field(column string) string {
	switch column {
	case ColBrandName:
		return b.Name
	case ColFranchiseGroup:
		return b.FranchiseGroup
	case ColCountry:
		return b.Country
	case ColProductType:
		return b.ProductType
	case ColGroupType:
		return b.GroupType
	case ColBrandOrigin:
		return b.BrandOrigin
	}
	return ""
}

// Dimension identifies a filterable attribute of a Brand.
type Dimension string

const (
	DimCountry     Dimension = "country"
	DimProductType Dimension = "product_type"
	DimGroupType   Dimension = "group_type"
	DimBrandOrigin Dimension = "brand_origin"
)

// Dimensions lists the filterable dimensions in UI order.
var Dimensions = []Dimension{DimCountry, DimProductType, DimBrandOrigin, DimGroupType}

// Filter describes the currently selected filter values. Empty slices mean
// "no restriction on that dimension"; multiple dimensions intersect.
type Filter struct {
	Search       string   `json:"search"`
	Countries    []string `json:"countries"`
	ProductTypes []string `json:"productTypes"`
	GroupTypes   []string `json:"groupTypes"`
	BrandOrigins []string `json:"brandOrigins"`
}

// IsZero reports whether the filter selects the whole dataset.
func (f Filter) IsZero() bool {
	return f.Search == "" &&
		len(f.Countries) == 0 &&
		len(f.ProductTypes) == 0 &&
		len(f.GroupTypes) == 0 &&
		len(f.BrandOrigins) == 0
}

// Values returns the selected values for a dimension.
func (f Filter) Values(d Dimension) []string {
	switch d {
	case DimCountry:
		return f.Countries
	case DimProductType:
		return f.ProductTypes
	case DimGroupType:
		return f.GroupTypes
	case DimBrandOrigin:
		return f.BrandOrigins
	}
	return nil
}
