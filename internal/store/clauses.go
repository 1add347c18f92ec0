package store

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// mainAlias is the alias of the primary table in every SELECT.
const mainAlias = "ta"

// column resolves field against the main or joined table. qualify=false
// returns bare column names for UPDATE and DELETE statements.
func column(s TableSchema, j *Join, field string, qualify bool) (clause.Column, error) {
	if alias, col, ok := strings.Cut(field, "."); ok {
		switch {
		case alias == mainAlias && s.HasColumn(col):
			if !qualify {
				return clause.Column{Name: col}, nil
			}
			return clause.Column{Table: mainAlias, Name: col}, nil
		case j != nil && alias == j.Alias && SchemaOf(j.Table).HasColumn(col):
			return clause.Column{Table: alias, Name: col}, nil
		}
		return clause.Column{}, fmt.Errorf("store: unknown column %q for table %s", field, s.Name)
	}
	if !s.HasColumn(field) {
		return clause.Column{}, fmt.Errorf("store: unknown column %q for table %s", field, s.Name)
	}
	if qualify {
		return clause.Column{Table: mainAlias, Name: field}, nil
	}
	return clause.Column{Name: field}, nil
}

// rawRef renders a validated column as alias.name for raw SELECT, GROUP BY and
// ORDER BY fragments.
func rawRef(c clause.Column) string {
	if c.Table == "" {
		return c.Name
	}
	return c.Table + "." + c.Name
}

func escapeLike(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(term)) + "%"
}

// likeExpr is a case-insensitive substring match that renders the same on
// Postgres and SQLite.
func likeExpr(c clause.Column, term string) clause.Expression {
	return clause.Expr{
		SQL:  `LOWER(CAST(? AS TEXT)) LIKE ? ESCAPE '\'`,
		Vars: []any{c, escapeLike(term)},
	}
}

// where translates conds into one AND-ed gorm WHERE clause.
func where(s TableSchema, j *Join, conds []Cond, qualify bool) (clause.Where, error) {
	exprs := make([]clause.Expression, 0, len(conds))
	for _, c := range conds {
		col, err := column(s, j, c.Field, qualify)
		if err != nil {
			return clause.Where{}, err
		}
		switch c.Op {
		case OpEq:
			exprs = append(exprs, clause.Eq{Column: col, Value: c.Value})
		case OpIn:
			vals, _ := c.Value.([]any)
			exprs = append(exprs, clause.IN{Column: col, Values: vals})
		case OpIsNull:
			exprs = append(exprs, clause.Eq{Column: col, Value: nil})
		case OpNotNull:
			exprs = append(exprs, clause.Neq{Column: col, Value: nil})
		case OpLike:
			term, _ := c.Value.(string)
			exprs = append(exprs, likeExpr(col, term))
		default:
			return clause.Where{}, fmt.Errorf("store: unsupported operator %d", c.Op)
		}
	}
	return clause.Where{Exprs: exprs}, nil
}

// search is the OR-group used by grid searches. ok is false when there is
// nothing to filter on.
func search(s TableSchema, term string) (w clause.Where, ok bool) {
	if term == "" || len(s.SearchFields) == 0 {
		return clause.Where{}, false
	}
	likes := make([]clause.Expression, len(s.SearchFields))
	for i, f := range s.SearchFields {
		likes[i] = likeExpr(clause.Column{Table: mainAlias, Name: f}, term)
	}
	if len(likes) == 1 {
		return clause.Where{Exprs: likes}, true
	}
	return clause.Where{Exprs: []clause.Expression{clause.Or(likes...)}}, true
}

// values validates fields against the table and returns the plain map gorm
// expects. Increment values become column arithmetic.
func values(s TableSchema, fields Row) (map[string]any, error) {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if !s.HasColumn(k) {
			return nil, fmt.Errorf("store: unknown column %q for table %s", k, s.Name)
		}
		if inc, ok := v.(Increment); ok {
			v = gorm.Expr("? + ?", clause.Column{Name: k}, inc.Delta)
		}
		out[k] = v
	}
	return out, nil
}

// selectQuery chains sel onto db: columns, an optional LEFT JOIN, conditions,
// grouping, ordering and paging.
func selectQuery(db *gorm.DB, s TableSchema, sel Select) (*gorm.DB, error) {
	j := sel.Join
	var cols []string
	for _, f := range sel.Fields {
		c, err := column(s, j, f, true)
		if err != nil {
			return nil, err
		}
		cols = append(cols, rawRef(c))
	}
	if j != nil {
		js := SchemaOf(j.Table)
		for _, f := range j.Fields {
			if !js.HasColumn(f) {
				return nil, fmt.Errorf("store: unknown column %q for table %s", f, js.Name)
			}
			cols = append(cols, j.Alias+"."+f)
		}
	}
	for _, a := range sel.Aggregates {
		c, err := column(s, j, a.Field, true)
		if err != nil {
			return nil, err
		}
		cols = append(cols, fmt.Sprintf("%s(%s) AS %s", a.Func, rawRef(c), a.Alias))
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("store: select from %s without columns", s.Name)
	}

	tx := db.Table(s.Name + " " + mainAlias).Select(cols)
	if j != nil {
		if !s.HasColumn(j.LocalField) || !SchemaOf(j.Table).HasColumn(j.ForeignField) {
			return nil, fmt.Errorf("store: invalid join %s.%s = %s.%s", s.Name, j.LocalField, j.Table, j.ForeignField)
		}
		tx = tx.Joins(fmt.Sprintf("LEFT JOIN %s %s ON %s.%s = %s.%s",
			SchemaOf(j.Table).Name, j.Alias, mainAlias, j.LocalField, j.Alias, j.ForeignField))
	}
	if len(sel.Where) > 0 {
		w, err := where(s, j, sel.Where, true)
		if err != nil {
			return nil, err
		}
		tx = tx.Clauses(w)
	}
	for _, g := range sel.GroupBy {
		c, err := column(s, j, g, true)
		if err != nil {
			return nil, err
		}
		tx = tx.Clauses(clause.GroupBy{Columns: []clause.Column{{Name: rawRef(c), Raw: true}}})
	}
	if sel.OrderBy != "" {
		c, err := column(s, j, sel.OrderBy, true)
		if err != nil {
			return nil, err
		}
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: rawRef(c), Raw: true}, Desc: sel.Desc})
	}
	return paged(tx, sel.Limit, sel.Offset), nil
}

func paged(tx *gorm.DB, limit, offset int) *gorm.DB {
	if limit <= 0 {
		return tx
	}
	if offset < 0 {
		offset = 0
	}
	return tx.Limit(limit).Offset(offset)
}
