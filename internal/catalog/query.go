package catalog

import (
	"context"
	"net/http"
	"strconv"
	"strings"
)

const DefaultPageSize = 4

// QueryParams is the raw listing request. All fields are optional; Page
// below 1 behaves as page 1.
type QueryParams struct {
	Page        int
	Name        string
	Brand       string
	Description string
}

// ParamsFromRequest reads the listing query string. Bad or missing page
// values coerce to 1, never to an error.
func ParamsFromRequest(r *http.Request) QueryParams {
	q := r.URL.Query()

	p := QueryParams{
		Page:        1,
		Name:        q.Get("name"),
		Brand:       q.Get("brand"),
		Description: q.Get("description"),
	}
	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
		p.Page = v
	}
	return p
}

type QueryResult struct {
	Data  []JoinedProduct `json:"data"`
	Total int             `json:"total"`
}

// QueryEngine produces the filtered, paginated, brand-joined product view.
// Results keep the store's insertion order; no sorting happens here.
type QueryEngine struct {
	Store    Store
	PageSize int
}

// Query joins every product to its brand, applies the filters, counts the
// survivors, then slices out the requested page. Total is the filtered
// count regardless of page, and an out-of-range page yields empty data
// with the total unchanged.
func (e *QueryEngine) Query(ctx context.Context, params QueryParams) (QueryResult, error) {
	products, err := e.Store.ListProducts(ctx)
	if err != nil {
		return QueryResult{}, err
	}
	brands, err := e.Store.ListBrands(ctx)
	if err != nil {
		return QueryResult{}, err
	}

	byID := make(map[string]Brand, len(brands))
	for _, b := range brands {
		byID[b.ID] = b
	}

	joined := make([]JoinedProduct, 0, len(products))
	for _, p := range products {
		jp := JoinedProduct{Product: p}
		if b, ok := byID[p.BrandID]; ok {
			jp.Brand = &b
		}
		joined = append(joined, jp)
	}

	filtered := filterProducts(joined, params)
	total := len(filtered)

	size := e.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	page := params.Page
	if page < 1 {
		page = 1
	}

	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	return QueryResult{Data: filtered[start:end], Total: total}, nil
}

// filterProducts applies the three filters as AND conditions. The name
// term is a general search over product name, description and brand name;
// the brand and description terms each match their own field only. All
// matching is case-insensitive substring; blank terms are no-ops.
func filterProducts(products []JoinedProduct, params QueryParams) []JoinedProduct {
	nameTerm := strings.ToLower(strings.TrimSpace(params.Name))
	brandTerm := strings.ToLower(strings.TrimSpace(params.Brand))
	descTerm := strings.ToLower(strings.TrimSpace(params.Description))

	out := make([]JoinedProduct, 0, len(products))
	for _, p := range products {
		if nameTerm != "" && !matchesSearch(p, nameTerm) {
			continue
		}
		if brandTerm != "" && (p.Brand == nil || !containsFold(p.Brand.Name, brandTerm)) {
			continue
		}
		if descTerm != "" && (p.Description == "" || !containsFold(p.Description, descTerm)) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesSearch(p JoinedProduct, term string) bool {
	if containsFold(p.Name, term) {
		return true
	}
	if p.Description != "" && containsFold(p.Description, term) {
		return true
	}
	return p.Brand != nil && containsFold(p.Brand.Name, term)
}

func containsFold(s, lowerTerm string) bool {
	return strings.Contains(strings.ToLower(s), lowerTerm)
}
