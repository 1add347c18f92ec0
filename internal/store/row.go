package store

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Row is one record keyed by column name.
type Row map[string]any

// Normalize converts driver-specific values into the small set of types Row
// accessors understand: int64, float64, string, bool, time.Time, decimal.Decimal and nil.
func Normalize(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case []byte:
		return string(x)
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case int16:
		return int64(x)
	case float32:
		return float64(x)
	case int64, float64, string, bool, time.Time, decimal.Decimal:
		return x
	case driver.Valuer:
		dv, err := x.Value()
		if err != nil {
			return nil
		}
		return Normalize(dv)
	default:
		return x
	}
}

// Int64 returns the integer value of field, or 0 when NULL or unparsable.
func (r Row) Int64(field string) int64 {
	p := r.NullInt64(field)
	if p == nil {
		return 0
	}
	return *p
}

// NullInt64 returns nil for NULL.
func (r Row) NullInt64(field string) *int64 {
	var n int64
	switch v := Normalize(r[field]).(type) {
	case nil:
		return nil
	case int64:
		n = v
	case float64:
		n = int64(v)
	case bool:
		if v {
			n = 1
		}
	case decimal.Decimal:
		n = v.IntPart()
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return nil
		}
		n = d.IntPart()
	default:
		return nil
	}
	return &n
}

// String returns the text value of field ("" for NULL).
func (r Row) String(field string) string {
	p := r.NullString(field)
	if p == nil {
		return ""
	}
	return *p
}

// NullString returns nil for NULL.
func (r Row) NullString(field string) *string {
	var s string
	switch v := Normalize(r[field]).(type) {
	case nil:
		return nil
	case string:
		s = v
	case int64:
		s = strconv.FormatInt(v, 10)
	case time.Time:
		s = v.Format(time.RFC3339)
	default:
		s = fmt.Sprint(v)
	}
	return &s
}

// Bool interprets integer and boolean columns.
func (r Row) Bool(field string) bool {
	switch v := Normalize(r[field]).(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	}
	return false
}

// Decimal returns the numeric value of field (zero for NULL).
func (r Row) Decimal(field string) decimal.Decimal {
	switch v := Normalize(r[field]).(type) {
	case decimal.Decimal:
		return v
	case int64:
		return decimal.NewFromInt(v)
	case float64:
		return decimal.NewFromFloat(v)
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return decimal.Zero
		}
		return d
	}
	return decimal.Zero
}

// NullDecimal returns nil for NULL.
func (r Row) NullDecimal(field string) *decimal.Decimal {
	if Normalize(r[field]) == nil {
		return nil
	}
	d := r.Decimal(field)
	return &d
}

// Time returns the timestamp value of field (zero time for NULL).
func (r Row) Time(field string) time.Time {
	p := r.NullTime(field)
	if p == nil {
		return time.Time{}
	}
	return *p
}

var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NullTime returns nil for NULL. SQLite hands timestamps back as text, so
// several layouts are tried.
func (r Row) NullTime(field string) *time.Time {
	switch v := Normalize(r[field]).(type) {
	case time.Time:
		return &v
	case string:
		s := strings.TrimSpace(v)
		if i := strings.Index(s, " m="); i > 0 {
			s = s[:i]
		}
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return &t
			}
		}
	case int64:
		t := time.Unix(v, 0).UTC()
		return &t
	}
	return nil
}

// Nullable turns a nil pointer into an untyped nil suitable for a Row value.
func Nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
