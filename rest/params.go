package rest

import (
	"net/url"
	"strconv"
)

// Dialect selects the list-endpoint parameter and response shape. The
// legacy endpoints follow json-server conventions (underscore-prefixed
// params, array body, X-Total-Count header); the newer ones take bare
// page/limit/search and wrap the list in a data envelope.
type Dialect int

const (
	DialectJSONServer Dialect = iota
	DialectEnvelope
)

type Sort struct {
	Key   string
	Order string // "asc" | "desc"
}

// ListOptions are the pagination/sort/search parameters of a list fetch.
type ListOptions struct {
	Page    int
	PerPage int
	Sort    Sort
	Search  string
}

// WithDefaults fills unset fields: first page, 10 items, newest id first.
func (o ListOptions) WithDefaults() ListOptions {
	if o.Page == 0 {
		o.Page = 1
	}
	if o.PerPage == 0 {
		o.PerPage = 10
	}
	if o.PerPage < 0 {
		o.PerPage = 0
	}
	if o.Sort.Key == "" {
		o.Sort = Sort{Key: "id", Order: "desc"}
	}
	return o
}

// Values renders the options in the given dialect.
func (o ListOptions) Values(d Dialect) url.Values {
	o = o.WithDefaults()
	vals := make(url.Values)
	switch d {
	case DialectEnvelope:
		vals.Set("page", strconv.Itoa(o.Page))
		vals.Set("limit", strconv.Itoa(o.PerPage))
		vals.Set("search", o.Search)
	default:
		vals.Set("_sort", o.Sort.Key)
		vals.Set("_order", o.Sort.Order)
		vals.Set("_page", strconv.Itoa(o.Page))
		vals.Set("_limit", strconv.Itoa(o.PerPage))
		vals.Set("q", o.Search)
	}
	return vals
}
