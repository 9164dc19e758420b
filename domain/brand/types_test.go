package brand

import (
	"testing"
)

func TestField_CoversEveryColumn(t *testing.T) {
	b := Brand{
		Name:           "Kidiliz",
		FranchiseGroup: "Kidiliz Group",
		Country:        "FRANCE",
		ProductType:    "Kids Fashion",
		GroupType:      "Master",
		BrandOrigin:    "France",
	}

	want := map[string]string{
		ColBrandName:      "Kidiliz",
		ColFranchiseGroup: "Kidiliz Group",
		ColCountry:        "FRANCE",
		ColProductType:    "Kids Fashion",
		ColGroupType:      "Master",
		ColBrandOrigin:    "France",
	}
	for _, column := range Columns {
		if got := b.Field(column); got != want[column] {
			t.Errorf("Field(%q) = %q, want %q", column, got, want[column])
		}
	}

	if got := b.Field("Not A Column"); got != "" {
		t.Errorf("Field on unknown column = %q, want empty", got)
	}
}

func TestFilter_IsZero(t *testing.T) {
	if !(Filter{}).IsZero() {
		t.Error("empty filter should be zero")
	}
	if (Filter{Search: "x"}).IsZero() {
		t.Error("search filter should not be zero")
	}
	if (Filter{Countries: []string{"FRANCE"}}).IsZero() {
		t.Error("country filter should not be zero")
	}
}

func TestFilter_Values(t *testing.T) {
	f := Filter{
		Countries:    []string{"FRANCE"},
		ProductTypes: []string{"Kids Fashion"},
		GroupTypes:   []string{"Master"},
		BrandOrigins: []string{"France"},
	}

	for _, dim := range Dimensions {
		if len(f.Values(dim)) != 1 {
			t.Errorf("Values(%q) should return one selection", dim)
		}
	}
	if f.Values(Dimension("bogus")) != nil {
		t.Error("unknown dimension should return nil")
	}
}
