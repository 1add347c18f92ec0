package store

import (
	"context"
	"database/sql"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type querier struct {
	db *gorm.DB
}

// NewQuerier implements every Querier primitive on a gorm handle.
// Backends wrap their connection and each transaction handle with it.
func NewQuerier(db *gorm.DB) Querier {
	return &querier{db: db}
}

// Transact runs fn inside one gorm transaction on db.
func Transact(ctx context.Context, db *gorm.DB, fn func(q Querier) error) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewQuerier(tx))
	})
}

func (q *querier) Insert(ctx context.Context, t Table, fields Row) (int64, error) {
	s := SchemaOf(t)
	if len(fields) == 0 {
		return 0, fmt.Errorf("store: insert into %s without fields", s.Name)
	}
	row, err := values(s, fields)
	if err != nil {
		return 0, err
	}
	res := q.db.WithContext(ctx).Table(s.Name).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: s.IDField}}}).
		Create(row)
	if res.Error != nil {
		return 0, fmt.Errorf("insert into %s: %w", t, res.Error)
	}
	id := Row(row).NullInt64(s.IDField)
	if id == nil {
		return 0, fmt.Errorf("insert into %s: no %s returned", t, s.IDField)
	}
	return *id, nil
}

func (q *querier) InsertIfAbsent(ctx context.Context, t Table, fields Row, unique ...string) (int64, error) {
	s := SchemaOf(t)
	if len(fields) == 0 || len(unique) == 0 {
		return 0, fmt.Errorf("store: insert into %s needs fields and a unique key", s.Name)
	}
	row, err := values(s, fields)
	if err != nil {
		return 0, err
	}
	cols := make([]clause.Column, len(unique))
	for i, u := range unique {
		if !s.HasColumn(u) {
			return 0, fmt.Errorf("store: unknown column %q for table %s", u, s.Name)
		}
		cols[i] = clause.Column{Name: u}
	}
	res := q.db.WithContext(ctx).Table(s.Name).
		Clauses(clause.OnConflict{Columns: cols, DoNothing: true}).
		Create(row)
	if res.Error != nil {
		return 0, fmt.Errorf("insert into %s: %w", t, res.Error)
	}
	return res.RowsAffected, nil
}

func (q *querier) Update(ctx context.Context, t Table, fields Row, conds ...Cond) (int64, error) {
	s := SchemaOf(t)
	if len(fields) == 0 {
		return 0, fmt.Errorf("store: update of %s without fields", s.Name)
	}
	if len(conds) == 0 {
		return 0, fmt.Errorf("store: update of %s without condition", s.Name)
	}
	set, err := values(s, fields)
	if err != nil {
		return 0, err
	}
	w, err := where(s, nil, conds, false)
	if err != nil {
		return 0, err
	}
	res := q.db.WithContext(ctx).Table(s.Name).Clauses(w).Updates(set)
	if res.Error != nil {
		return 0, fmt.Errorf("update %s: %w", t, res.Error)
	}
	return res.RowsAffected, nil
}

func (q *querier) Delete(ctx context.Context, t Table, conds ...Cond) (int64, error) {
	s := SchemaOf(t)
	if len(conds) == 0 {
		return 0, fmt.Errorf("store: delete from %s without condition", s.Name)
	}
	w, err := where(s, nil, conds, false)
	if err != nil {
		return 0, err
	}
	res := q.db.WithContext(ctx).Table(s.Name).Clauses(w).Delete(map[string]any{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete from %s: %w", t, res.Error)
	}
	return res.RowsAffected, nil
}

func (q *querier) SelectByID(ctx context.Context, t Table, fields []string, id int64) (Row, error) {
	rows, err := q.SelectWhere(ctx, t, Select{
		Fields: fieldsOrAll(t, fields),
		Where:  []Cond{Eq(SchemaOf(t).IDField, id)},
		Limit:  1,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s id=%d: %w", t, id, ErrNotFound)
	}
	return rows[0], nil
}

func (q *querier) SelectByIDs(ctx context.Context, t Table, fields []string, ids []int64) ([]Row, error) {
	s := SchemaOf(t)
	return q.SelectWhere(ctx, t, Select{
		Fields:  fieldsOrAll(t, fields),
		Where:   []Cond{InIDs(s.IDField, ids)},
		OrderBy: s.IDField,
	})
}

func (q *querier) SelectWhere(ctx context.Context, t Table, sel Select) ([]Row, error) {
	tx, err := selectQuery(q.db.WithContext(ctx), SchemaOf(t), sel)
	if err != nil {
		return nil, err
	}
	rows, err := collect(tx)
	if err != nil {
		return nil, fmt.Errorf("select from %s: %w", t, err)
	}
	return rows, nil
}

func (q *querier) FetchPage(ctx context.Context, t Table, p PageParams) (*Page, error) {
	s := SchemaOf(t)
	if len(s.GridFields) == 0 {
		return nil, fmt.Errorf("store: table %s is not listable", s.Name)
	}
	from := s.Name + " " + mainAlias

	var total int64
	if err := q.db.WithContext(ctx).Table(from).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count %s: %w", t, err)
	}
	filtered := total
	filter, searching := search(s, p.Search)
	if searching {
		if err := q.db.WithContext(ctx).Table(from).Clauses(filter).Count(&filtered).Error; err != nil {
			return nil, fmt.Errorf("count %s: %w", t, err)
		}
	}

	cols := make([]string, len(s.GridFields))
	order := s.GridFields[0]
	for i, f := range s.GridFields {
		cols[i] = mainAlias + "." + f
		if f == p.OrderBy {
			order = f
		}
	}
	tx := q.db.WithContext(ctx).Table(from).Select(cols)
	if searching {
		tx = tx.Clauses(filter)
	}
	tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Table: mainAlias, Name: order}, Desc: p.Desc})
	rows, err := collect(paged(tx, p.Limit, p.Offset))
	if err != nil {
		return nil, fmt.Errorf("fetch page of %s: %w", t, err)
	}
	return &Page{Records: rows, Total: total, Filtered: filtered}, nil
}

// collect runs tx and scans every row into a Row of normalized values.
func collect(tx *gorm.DB) ([]Row, error) {
	rows, err := tx.Rows()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanRows(rows)
}

func scanRows(rows *sql.Rows) ([]Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var out []Row
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		r := make(Row, len(cols))
		for i, c := range cols {
			r[c] = Normalize(vals[i])
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func fieldsOrAll(t Table, fields []string) []string {
	if len(fields) > 0 {
		return fields
	}
	return SchemaOf(t).Columns
}
