package tabular

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "brands.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewDataReader_FileTypeDetection(t *testing.T) {
	cases := []struct {
		path     string
		fileType string
	}{
		{"brands.csv", "csv"},
		{"brands.CSV", "csv"},
		{"brands.xlsx", "xlsx"},
		{"data/brands.XLSX", "xlsx"},
		{"brands.txt", "xlsx"},
	}

	for _, tc := range cases {
		reader := NewDataReader(tc.path)
		assert.Equal(t, tc.fileType, reader.fileType, "path %s", tc.path)
	}
}

func TestReadData_CSV(t *testing.T) {
	path := writeTempCSV(t, "Brand Name, Country \nKidiliz,FRANCE\nOrchestra,France\n")

	reader := NewDataReader(path)
	table, err := reader.ReadData()
	require.NoError(t, err)

	assert.Equal(t, []string{"Brand Name", "Country"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Kidiliz", table.Rows[0]["Brand Name"])
	assert.Equal(t, "FRANCE", table.Rows[0]["Country"])
	assert.Equal(t, "France", table.Rows[1]["Country"])
}

func TestReadData_CSV_TrimsCells(t *testing.T) {
	path := writeTempCSV(t, "Brand Name,Country\n  Kidiliz  ,  France \n")

	reader := NewDataReader(path)
	table, err := reader.ReadData()
	require.NoError(t, err)

	assert.Equal(t, "Kidiliz", table.Rows[0]["Brand Name"])
	assert.Equal(t, "France", table.Rows[0]["Country"])
}

func TestReadData_CSV_RaggedRows(t *testing.T) {
	// Rows shorter than the header row map only the cells present.
	path := writeTempCSV(t, "Brand Name,Country,Group Type\nKidiliz,France\n")

	reader := NewDataReader(path)
	table, err := reader.ReadData()
	require.NoError(t, err)

	require.Len(t, table.Rows, 1)
	assert.Equal(t, "France", table.Rows[0]["Country"])
	assert.Equal(t, "", table.Rows[0]["Group Type"])
}

func TestReadData_CSV_HeaderOnly(t *testing.T) {
	path := writeTempCSV(t, "Brand Name,Country\n")

	reader := NewDataReader(path)
	_, err := reader.ReadData()
	assert.Error(t, err)
}

func TestReadData_NotAWorkbook(t *testing.T) {
	// Unknown extensions fall through to the Excel path and fail to open.
	path := filepath.Join(t.TempDir(), "brands.txt")
	require.NoError(t, os.WriteFile(path, []byte("not a workbook"), 0o644))

	reader := NewDataReader(path)
	_, err := reader.ReadData()
	assert.Error(t, err)
}

func TestReadData_MissingFile(t *testing.T) {
	reader := NewDataReader(filepath.Join(t.TempDir(), "nope.csv"))
	_, err := reader.ReadData()
	assert.Error(t, err)
}

func TestReadData_Excel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brands.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Brand Name", "Country"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"Kidiliz", "France"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"Jacadi", "France"}))
	require.NoError(t, f.SaveAs(path))

	reader := NewDataReader(path)
	table, err := reader.ReadData()
	require.NoError(t, err)

	assert.Equal(t, []string{"Brand Name", "Country"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Jacadi", table.Rows[1]["Brand Name"])
}
