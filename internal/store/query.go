package store

// Op is a condition operator.
type Op int

const (
	OpEq Op = iota
	OpIn
	OpIsNull
	OpNotNull
	OpLike
)

// Cond is a single predicate. Conditions passed together are AND-ed.
// Field may be qualified with a join alias ("p.gramasi"); unqualified fields
// belong to the main table.
type Cond struct {
	Field string
	Op    Op
	Value any
}

// Eq matches field = value.
func Eq(field string, value any) Cond { return Cond{Field: field, Op: OpEq, Value: value} }

// InIDs matches field IN (ids...). An empty list matches nothing.
func InIDs(field string, ids []int64) Cond {
	vals := make([]any, len(ids))
	for i, id := range ids {
		vals[i] = id
	}
	return Cond{Field: field, Op: OpIn, Value: vals}
}

// IsNull matches field IS NULL.
func IsNull(field string) Cond { return Cond{Field: field, Op: OpIsNull} }

// NotNull matches field IS NOT NULL.
func NotNull(field string) Cond { return Cond{Field: field, Op: OpNotNull} }

// Like matches field case-insensitively against %term%.
func Like(field, term string) Cond { return Cond{Field: field, Op: OpLike, Value: term} }

// Increment, used as an Update value, adds Delta to the column's current value
// inside the UPDATE statement itself.
type Increment struct {
	Delta int64
}

// Join describes a single LEFT JOIN from the main table (alias "ta").
type Join struct {
	Table Table
	Alias string
	// LocalField is the main-table column, ForeignField the joined-table column.
	LocalField   string
	ForeignField string
	// Fields are selected from the joined table.
	Fields []string
}

// AggFunc is an aggregate function.
type AggFunc string

const (
	AggSum   AggFunc = "SUM"
	AggCount AggFunc = "COUNT"
)

// Aggregate renders as FUNC(ta.Field) AS Alias.
type Aggregate struct {
	Func  AggFunc
	Field string
	Alias string
}

// Select is the input of SelectWhere.
type Select struct {
	Fields     []string
	Where      []Cond
	Join       *Join
	Aggregates []Aggregate
	GroupBy    []string
	OrderBy    string
	Desc       bool
	Limit      int
	Offset     int
}

// PageParams drives FetchPage.
type PageParams struct {
	Search  string
	OrderBy string
	Desc    bool
	Offset  int
	// Limit <= 0 returns every row.
	Limit int
}

// Page is one slice of a listing grid.
type Page struct {
	Records  []Row
	Total    int64
	Filtered int64
}
