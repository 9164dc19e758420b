package ui

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"

	"github.com/xuri/excelize/v2"

	"franmap/domain/brand"
	"franmap/internal/errors"
)

// Export formats.
const (
	formatCSV  = "csv"
	formatXLSX = "xlsx"
)

// normalizeFormat coerces format values into known aliases with the
// default applied.
func normalizeFormat(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", formatCSV:
		return formatCSV
	case formatXLSX, "excel", "xls":
		return formatXLSX
	default:
		return ""
	}
}

// handleExport downloads the currently filtered rows. The file carries the
// normalized schema columns and exactly the filtered record set.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := normalizeFormat(r.URL.Query().Get("format"))
	if format == "" {
		s.writeError(w, http.StatusBadRequest, "unsupported export format")
		return
	}

	filter := parseFilter(r)
	records, err := s.store.List(r.Context(), filter, 0)
	if err != nil {
		s.log.Error("Export query failed: %v", err)
		s.writeError(w, http.StatusInternalServerError, "failed to query dataset")
		return
	}

	switch format {
	case formatCSV:
		err = s.exportCSV(w, records)
	case formatXLSX:
		err = s.exportXLSX(w, records)
	}
	if err != nil {
		// Headers are already out; log instead of rewriting the response.
		s.log.Error("Export failed: %v", errors.ExportFailed("filtered view export", err))
	}
}

// exportCSV streams the filtered view as CSV.
func (s *Server) exportCSV(w http.ResponseWriter, records []brand.Brand) error {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="gfm_export.csv"`)

	writer := csv.NewWriter(w)
	if err := writer.Write(brand.Columns); err != nil {
		return err
	}
	for _, rec := range records {
		row := make([]string, len(brand.Columns))
		for i, column := range brand.Columns {
			row[i] = rec.Field(column)
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// exportXLSX writes the filtered view as an Excel workbook.
func (s *Server) exportXLSX(w http.ResponseWriter, records []brand.Brand) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	header := make([]interface{}, len(brand.Columns))
	for i, column := range brand.Columns {
		header[i] = column
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := make([]interface{}, len(brand.Columns))
		for j, column := range brand.Columns {
			row[j] = rec.Field(column)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "gfm_export.xlsx"))
	return f.Write(w)
}
