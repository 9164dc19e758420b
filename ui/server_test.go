package ui

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	_ "modernc.org/sqlite"

	"franmap/adapters/store"
	"franmap/domain/brand"
	"franmap/internal/cleaning"
)

var testBrands = []brand.Brand{
	{Name: "Kidiliz", FranchiseGroup: "Kidiliz Group", Country: "FRANCE", ProductType: "Kids Fashion", GroupType: "Master", BrandOrigin: "France"},
	{Name: "Jacadi", FranchiseGroup: "IDKids", Country: "FRANCE", ProductType: "Kids Fashion", GroupType: "Direct", BrandOrigin: "France"},
	{Name: "Okaidi", FranchiseGroup: "IDKids", Country: "SPAIN", ProductType: "Kids Fashion", GroupType: "Master", BrandOrigin: "France"},
	{Name: "Costa Coffee", FranchiseGroup: "Costa", Country: "UNITED KINGDOM", ProductType: "Food & Drink", GroupType: "Master", BrandOrigin: "United Kingdom"},
	{Name: "Vapiano", FranchiseGroup: "Vapiano SE", Country: "GERMANY", ProductType: "Food & Drink", GroupType: brand.Placeholder, BrandOrigin: brand.Placeholder},
}

func newTestServer(t *testing.T, maxTableRows int) (*Server, string) {
	t.Helper()

	db, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := store.NewBrandStore(db)
	require.NoError(t, st.Init(context.Background()))

	report := &cleaning.Report{
		RowsRead:    len(testBrands) + 1,
		RowsKept:    len(testBrands),
		RowsSkipped: 1,
		Warnings:    []string{"row 4 skipped: missing required field"},
	}

	loadID, err := st.ReplaceAll(context.Background(), testBrands, "brands.xlsx", 1, 0)
	require.NoError(t, err)

	server, err := NewServer(Config{Port: "0", MaxTableRows: maxTableRows}, st, loadID, report)
	require.NoError(t, err)
	return server, loadID
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleIndex(t *testing.T) {
	s, _ := newTestServer(t, 0)

	rec := get(t, s, "/")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "Global Franchise Map Dashboard")
	assert.Contains(t, body, "FRANCE")
	assert.Contains(t, body, "Kids Fashion")
	assert.Contains(t, body, brand.Placeholder)
}

func TestHandleAbout(t *testing.T) {
	s, _ := newTestServer(t, 0)

	rec := get(t, s, "/about")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1")
}

func TestHandleStatus(t *testing.T) {
	s, loadID := newTestServer(t, 0)

	rec := get(t, s, "/api/status")
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		LoadID string            `json:"loadId"`
		Load   *store.LoadRecord `json:"load"`
		Report *cleaning.Report  `json:"report"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, loadID, payload.LoadID)
	require.NotNil(t, payload.Load)
	assert.Equal(t, len(testBrands), payload.Load.RowCount)
	require.NotNil(t, payload.Report)
	assert.Equal(t, 1, payload.Report.RowsSkipped)
}

func TestHandleFilters(t *testing.T) {
	s, _ := newTestServer(t, 0)

	rec := get(t, s, "/api/filters")
	require.Equal(t, http.StatusOK, rec.Code)

	var options map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &options))

	assert.Equal(t, []string{"FRANCE", "GERMANY", "SPAIN", "UNITED KINGDOM"}, options["country"])
	assert.Equal(t, []string{"Food & Drink", "Kids Fashion"}, options["product_type"])
	assert.Contains(t, options["brand_origin"], brand.Placeholder)
	assert.Contains(t, options["group_type"], "Master")
}

func decodeDashboard(t *testing.T, rec *httptest.ResponseRecorder) dashboardPayload {
	t.Helper()
	var payload dashboardPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload
}

func TestHandleDashboard_Unfiltered(t *testing.T) {
	s, _ := newTestServer(t, 0)

	rec := get(t, s, "/api/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decodeDashboard(t, rec)
	assert.Equal(t, brand.Columns, payload.Columns)
	assert.Len(t, payload.Rows, len(testBrands))
	assert.Equal(t, len(testBrands), payload.TotalRows)
	assert.False(t, payload.Truncated)
	assert.Equal(t, len(testBrands), payload.Summary.TotalBrands)
	assert.NotEmpty(t, payload.CountryMap)
	assert.NotEmpty(t, payload.Network.Nodes)
}

func TestHandleDashboard_Filtered(t *testing.T) {
	s, _ := newTestServer(t, 0)

	rec := get(t, s, "/api/dashboard?country=FRANCE")
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decodeDashboard(t, rec)
	assert.Equal(t, 2, payload.TotalRows)
	assert.Equal(t, 2, payload.Summary.TotalBrands)
	for _, row := range payload.Rows {
		assert.Equal(t, "FRANCE", row.Country)
	}
	// Charts reflect the filtered set, not the whole dataset.
	require.Len(t, payload.CountryBars, 1)
	assert.Equal(t, "FRANCE", payload.CountryBars[0].Label)
}

func TestHandleDashboard_FilterIntersection(t *testing.T) {
	s, _ := newTestServer(t, 0)

	rec := get(t, s, "/api/dashboard?country=FRANCE&country=SPAIN&group_type=Master")
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decodeDashboard(t, rec)
	assert.Equal(t, 2, payload.TotalRows)
}

func TestHandleDashboard_SearchFilter(t *testing.T) {
	s, _ := newTestServer(t, 0)

	rec := get(t, s, "/api/dashboard?q=coffee")
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decodeDashboard(t, rec)
	require.Equal(t, 1, payload.TotalRows)
	assert.Equal(t, "Costa Coffee", payload.Rows[0].Name)
}

func TestHandleDashboard_EmptyResult(t *testing.T) {
	s, _ := newTestServer(t, 0)

	rec := get(t, s, "/api/dashboard?country=NOWHERE")
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decodeDashboard(t, rec)
	assert.Equal(t, 0, payload.TotalRows)
	assert.Equal(t, 0, payload.Summary.TotalBrands)
	assert.Empty(t, payload.Network.Nodes)
}

func TestHandleDashboard_TruncatesTableRows(t *testing.T) {
	s, _ := newTestServer(t, 2)

	rec := get(t, s, "/api/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decodeDashboard(t, rec)
	assert.Len(t, payload.Rows, 2)
	assert.True(t, payload.Truncated)
	// Analytics still cover the full filtered set.
	assert.Equal(t, len(testBrands), payload.TotalRows)
	assert.Equal(t, len(testBrands), payload.Summary.TotalBrands)
}

func TestHandleExport_CSV(t *testing.T) {
	s, _ := newTestServer(t, 0)

	rec := get(t, s, "/export?format=csv&country=FRANCE")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "gfm_export.csv")

	rows, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus one row per filtered record")
	assert.Equal(t, brand.Columns, rows[0])
	assert.Equal(t, "Jacadi", rows[1][0])
	assert.Equal(t, "Kidiliz", rows[2][0])
}

func TestHandleExport_CSVIsDefaultFormat(t *testing.T) {
	s, _ := newTestServer(t, 0)

	rec := get(t, s, "/export")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
}

func TestHandleExport_XLSX(t *testing.T) {
	s, _ := newTestServer(t, 0)

	rec := get(t, s, "/export?format=xlsx")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "gfm_export.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, len(testBrands)+1)
	assert.Equal(t, brand.Columns, rows[0])
}

func TestHandleExport_UnknownFormat(t *testing.T) {
	s, _ := newTestServer(t, 0)

	rec := get(t, s, "/export?format=pdf")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParseFilter(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard?"+url.Values{
		"q":            {"  coffee "},
		"country":      {"FRANCE", "SPAIN"},
		"product_type": {"Food & Drink"},
		"brand_origin": {"France"},
		"group_type":   {"Master"},
	}.Encode(), nil)

	f := parseFilter(req)
	assert.Equal(t, "coffee", f.Search)
	assert.Equal(t, []string{"FRANCE", "SPAIN"}, f.Countries)
	assert.Equal(t, []string{"Food & Drink"}, f.ProductTypes)
	assert.Equal(t, []string{"France"}, f.BrandOrigins)
	assert.Equal(t, []string{"Master"}, f.GroupTypes)
}

func TestNormalizeFormat(t *testing.T) {
	cases := map[string]string{
		"":      formatCSV,
		"csv":   formatCSV,
		"CSV":   formatCSV,
		"xlsx":  formatXLSX,
		"excel": formatXLSX,
		"xls":   formatXLSX,
		" xlsx": formatXLSX,
		"pdf":   "",
	}
	for in, want := range cases {
		assert.Equal(t, want, normalizeFormat(in), "input %q", in)
	}
}

func TestStaticAssetsServed(t *testing.T) {
	s, _ := newTestServer(t, 0)

	rec := get(t, s, "/static/app.js")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "dashboard"))
}
