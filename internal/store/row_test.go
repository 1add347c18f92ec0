package store

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRowAccessorsNormalizeDriverValues(t *testing.T) {
	var num pgtype.Numeric
	if err := num.Scan("12.500"); err != nil {
		t.Fatalf("scan numeric: %v", err)
	}
	r := Row{
		"i32":   int32(7),
		"bytes": []byte("hello"),
		"num":   num,
		"text":  "3.75",
		"ts":    "2026-01-02 03:04:05+00:00",
		"nil":   nil,
		"flag":  int64(1),
	}

	assert.EqualValues(t, 7, r.Int64("i32"))
	assert.Equal(t, "hello", r.String("bytes"))
	assert.True(t, decimal.RequireFromString("12.5").Equal(r.Decimal("num")))
	assert.True(t, decimal.RequireFromString("3.75").Equal(r.Decimal("text")))
	assert.EqualValues(t, 3, r.Int64("text"))
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), r.Time("ts").UTC())
	assert.Nil(t, r.NullInt64("nil"))
	assert.Nil(t, r.NullString("nil"))
	assert.Nil(t, r.NullTime("nil"))
	assert.True(t, r.Bool("flag"))
	assert.True(t, r.Decimal("missing").IsZero())
}

func TestNullable(t *testing.T) {
	var p *int64
	assert.Nil(t, Nullable(p))
	v := int64(4)
	assert.Equal(t, int64(4), Nullable(&v))
}
