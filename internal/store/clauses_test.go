package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/clause"
)

func TestColumnQualifiesAndValidates(t *testing.T) {
	s := SchemaOf(TableRequestAdminDetail)
	j := &Join{Table: TableProduct, Alias: "p", LocalField: "id_product", ForeignField: "product_id"}

	c, err := column(s, j, "qty_request", true)
	require.NoError(t, err)
	assert.Equal(t, clause.Column{Table: "ta", Name: "qty_request"}, c)

	c, err = column(s, j, "ta.qty_request", false)
	require.NoError(t, err)
	assert.Equal(t, clause.Column{Name: "qty_request"}, c)

	c, err = column(s, j, "p.gramasi", true)
	require.NoError(t, err)
	assert.Equal(t, "p.gramasi", rawRef(c))

	for _, bad := range []string{"nope", "p.nope", "x.gramasi", "gramasi", "qty; DROP TABLE product"} {
		_, err := column(s, j, bad, true)
		assert.Error(t, err, bad)
	}
}

func TestWhereTranslatesOperators(t *testing.T) {
	s := SchemaOf(TableProduct)
	w, err := where(s, nil, []Cond{
		Eq("brand", "Minigold"),
		InIDs("product_id", []int64{1, 2}),
		IsNull("finishing"),
		NotNull("gramasi"),
		Like("product_name", "Bar"),
	}, true)
	require.NoError(t, err)
	require.Len(t, w.Exprs, 5)
	assert.Equal(t, clause.Eq{Column: clause.Column{Table: "ta", Name: "brand"}, Value: "Minigold"}, w.Exprs[0])
	assert.Equal(t, clause.IN{Column: clause.Column{Table: "ta", Name: "product_id"}, Values: []any{int64(1), int64(2)}}, w.Exprs[1])
	assert.Equal(t, clause.Eq{Column: clause.Column{Table: "ta", Name: "finishing"}}, w.Exprs[2])
	assert.Equal(t, clause.Neq{Column: clause.Column{Table: "ta", Name: "gramasi"}}, w.Exprs[3])
	like, ok := w.Exprs[4].(clause.Expr)
	require.True(t, ok)
	assert.Equal(t, "%bar%", like.Vars[1])

	_, err = where(s, nil, []Cond{Eq("bogus", 1)}, true)
	assert.Error(t, err)
	_, err = where(s, nil, []Cond{{Field: "brand", Op: Op(99)}}, true)
	assert.Error(t, err)
}

func TestEscapeLikeLowersAndEscapes(t *testing.T) {
	assert.Equal(t, `%a\_b\%c\\%`, escapeLike(`A_b%C\`))
}

func TestSearchGroupsFieldsWithOr(t *testing.T) {
	_, ok := search(SchemaOf(TableProduct), "")
	assert.False(t, ok)

	w, ok := search(SchemaOf(TableProduct), "gold")
	require.True(t, ok)
	require.Len(t, w.Exprs, 1)
	or, isOr := w.Exprs[0].(clause.OrConditions)
	require.True(t, isOr)
	assert.Len(t, or.Exprs, len(SchemaOf(TableProduct).SearchFields))
}

func TestValuesRejectUnknownColumnsAndRenderIncrements(t *testing.T) {
	_, err := values(SchemaOf(TableProduct), Row{"product_name": "x", "bogus": 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")

	set, err := values(SchemaOf(TableProductStock), Row{"qty": Increment{Delta: 5}, "uid_changed": int64(7)})
	require.NoError(t, err)
	expr, ok := set["qty"].(clause.Expr)
	require.True(t, ok)
	assert.Equal(t, "? + ?", expr.SQL)
	assert.Equal(t, []any{clause.Column{Name: "qty"}, int64(5)}, expr.Vars)
	assert.Equal(t, int64(7), set["uid_changed"])
}
