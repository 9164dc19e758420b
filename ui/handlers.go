package ui

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"franmap/domain/brand"
	"franmap/internal/analytics"
)

// parseFilter reads the filter selection from query parameters. Dimension
// parameters repeat for multi-select (?country=US&country=FR).
func parseFilter(r *http.Request) brand.Filter {
	q := r.URL.Query()
	return brand.Filter{
		Search:       strings.TrimSpace(q.Get("q")),
		Countries:    q["country"],
		ProductTypes: q["product_type"],
		BrandOrigins: q["brand_origin"],
		GroupTypes:   q["group_type"],
	}
}

// handleIndex renders the dashboard page with the filter panel populated.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	options := make(map[string][]string, len(brand.Dimensions))
	for _, dim := range brand.Dimensions {
		values, err := s.store.Distinct(r.Context(), dim)
		if err != nil {
			s.log.Error("Failed to load %s options: %v", dim, err)
			http.Error(w, "Failed to load filter options", http.StatusInternalServerError)
			return
		}
		options[string(dim)] = values
	}

	s.renderTemplate(w, "dashboard.html", map[string]interface{}{
		"Title":          "Global Franchise Map Dashboard",
		"CountryOptions": options[string(brand.DimCountry)],
		"ProductOptions": options[string(brand.DimProductType)],
		"OriginOptions":  options[string(brand.DimBrandOrigin)],
		"GroupOptions":   options[string(brand.DimGroupType)],
	})
}

// handleAbout renders the embedded markdown description of the dashboard.
func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	src, err := embeddedFiles.ReadFile("about.md")
	if err != nil {
		s.log.Error("About page source missing: %v", err)
		http.Error(w, "About page unavailable", http.StatusInternalServerError)
		return
	}

	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	rendered := markdown.ToHTML(src, p, renderer)

	s.renderTemplate(w, "about.html", map[string]interface{}{
		"Title": "About",
		"Body":  template.HTML(rendered),
	})
}

// handleStatus reports the startup load: snapshot id, row counts and any
// cleaning warnings.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	load, err := s.store.LastLoad(r.Context())
	if err != nil {
		s.writeError(w, http.StatusServiceUnavailable, "dataset not loaded")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"loadId": s.loadID,
		"load":   load,
		"report": s.loadReport,
	})
}

// handleFilters returns the option lists for every filter dimension.
func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	options := make(map[string][]string, len(brand.Dimensions))
	for _, dim := range brand.Dimensions {
		values, err := s.store.Distinct(r.Context(), dim)
		if err != nil {
			s.log.Error("Failed to load %s options: %v", dim, err)
			s.writeError(w, http.StatusInternalServerError, "failed to load filter options")
			return
		}
		options[string(dim)] = values
	}
	s.writeJSON(w, http.StatusOK, options)
}

// dashboardPayload is everything one filter change redraws.
type dashboardPayload struct {
	Columns            []string          `json:"columns"`
	Rows               []brand.Brand     `json:"rows"`
	TotalRows          int               `json:"totalRows"`
	Truncated          bool              `json:"truncated"`
	Summary            analytics.Summary `json:"summary"`
	CountryBars        []analytics.Count `json:"countryBars"`
	CountryMap         []analytics.Count `json:"countryMap"`
	ProductPie         []analytics.Count `json:"productPie"`
	OriginBars         []analytics.Count `json:"originBars"`
	Treemap            []analytics.Count `json:"treemap"`
	GroupConcentration []analytics.Count `json:"groupConcentration"`
	Heatmap            analytics.Heatmap `json:"heatmap"`
	Network            analytics.Network `json:"network"`
}

// handleDashboard recomputes the filtered view and every chart payload.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	filter := parseFilter(r)

	records, err := s.store.List(r.Context(), filter, 0)
	if err != nil {
		s.log.Error("Filter query failed: %v", err)
		s.writeError(w, http.StatusInternalServerError, "failed to query dataset")
		return
	}

	rows := records
	truncated := false
	if len(rows) > s.maxTableRows {
		rows = rows[:s.maxTableRows]
		truncated = true
	}

	s.writeJSON(w, http.StatusOK, dashboardPayload{
		Columns:            brand.Columns,
		Rows:               rows,
		TotalRows:          len(records),
		Truncated:          truncated,
		Summary:            analytics.Summarize(records),
		CountryBars:        analytics.TopCountries(records),
		CountryMap:         analytics.CountryCounts(records),
		ProductPie:         analytics.TopProductTypes(records),
		OriginBars:         analytics.TopOrigins(records),
		Treemap:            analytics.ProductTreemap(records),
		GroupConcentration: analytics.GroupConcentration(records),
		Heatmap:            analytics.OriginHostHeatmap(records),
		Network:            analytics.BuildNetwork(records),
	})
}
