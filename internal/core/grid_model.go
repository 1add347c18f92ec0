package core

import "context"

// GridParams is a listing request as sent by a server-side data table.
type GridParams struct {
	Search string
	// OrderColumn indexes into the table's grid field list.
	OrderColumn int
	Desc        bool
	Start       int
	// Length <= 0 returns every row.
	Length int
}

// GridRow is one listing row with its action affordances.
type GridRow struct {
	Values    map[string]any `json:"values"`
	Editable  bool           `json:"editable"`
	Deletable bool           `json:"deletable"`
	Status    *StatusInfo    `json:"status,omitempty"`
}

// GridPage is one page of a listing.
type GridPage struct {
	Fields   []string  `json:"fields"`
	Records  []GridRow `json:"records"`
	Total    int64     `json:"total"`
	Filtered int64     `json:"filtered"`
}

// GridService serves the paged listings of the workflow tables.
type GridService interface {
	// FetchPage lists table by its SQL name. Tables without grid fields are not listable.
	FetchPage(ctx context.Context, table string, p GridParams) (*GridPage, error)
	// Listable returns the names of every listable table.
	Listable() []string
}
