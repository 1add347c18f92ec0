package core

import (
	"context"

	"minigold/internal/store"
)

type gridService struct {
	store store.Querier
	opts  Options
}

// NewGridService constructs a GridService.
func NewGridService(q store.Querier, opts Options) GridService {
	return &gridService{store: q, opts: opts.withDefaults()}
}

func (s *gridService) Listable() []string {
	var names []string
	for _, t := range store.Tables() {
		if len(store.SchemaOf(t).GridFields) > 0 {
			names = append(names, t.String())
		}
	}
	return names
}

func (s *gridService) FetchPage(ctx context.Context, table string, p GridParams) (*GridPage, error) {
	t, ok := store.TableByName(table)
	if !ok {
		return nil, notFoundf("unknown table %q", table)
	}
	schema := store.SchemaOf(t)
	if len(schema.GridFields) == 0 {
		return nil, notFoundf("table %q is not listable", table)
	}

	order := schema.GridFields[0]
	if p.OrderColumn >= 0 && p.OrderColumn < len(schema.GridFields) {
		order = schema.GridFields[p.OrderColumn]
	}
	if p.Start < 0 {
		p.Start = 0
	}
	page, err := s.store.FetchPage(ctx, t, store.PageParams{
		Search:  p.Search,
		OrderBy: order,
		Desc:    p.Desc,
		Offset:  p.Start,
		Limit:   p.Length,
	})
	if err != nil {
		return nil, persistence(s.opts.Logger, "grid.fetch_page", err, "table", table)
	}

	out := &GridPage{
		Fields:   schema.GridFields,
		Records:  make([]GridRow, 0, len(page.Records)),
		Total:    page.Total,
		Filtered: page.Filtered,
	}
	for _, r := range page.Records {
		row := GridRow{Values: make(map[string]any, len(schema.GridFields)), Editable: true, Deletable: true}
		for _, f := range schema.GridFields {
			row.Values[f] = gridValue(r, f)
		}
		if schema.StatusField != "" {
			info := Status(r.Int64(schema.StatusField)).Info()
			row.Status = &info
			locked := info.Code.Locked()
			row.Editable, row.Deletable = !locked, !locked
		}
		out.Records = append(out.Records, row)
	}
	return out, nil
}

// gridValue renders numeric columns as strings so decimals keep their precision in JSON.
func gridValue(r store.Row, field string) any {
	switch v := store.Normalize(r[field]).(type) {
	case nil:
		return nil
	case int64, string, bool:
		return v
	default:
		return r.String(field)
	}
}
