package core

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

// Weight classes are stored as grams so they group and sort numerically.
// Operators read and write them as labels such as "5g" or "2.5g".

// WeightLabel renders grams as a weight-class label.
func WeightLabel(grams decimal.Decimal) string {
	return grams.String() + "g"
}

// ParseWeightClass accepts "5g", "5 g" or a bare "5" and returns the grams.
func ParseWeightClass(label string) (decimal.Decimal, error) {
	s := strings.TrimSpace(strings.ToLower(label))
	s = strings.TrimSpace(strings.TrimSuffix(s, "g"))
	grams, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, validationf("invalid weight class %q", label)
	}
	if grams.IsNegative() {
		return decimal.Zero, validationf("weight class %q must not be negative", label)
	}
	return grams, nil
}

// Product is a finished minigold product from the product master.
type Product struct {
	ID          int64           `json:"id"`
	Brand       string          `json:"brand"`
	Finest      string          `json:"finest"`
	Series      string          `json:"series"`
	ReleaseYear string          `json:"tahun_release"`
	Name        string          `json:"product_name"`
	WeightClass decimal.Decimal `json:"gramasi"`
	Size        string          `json:"ukuran"`
	Finishing   string          `json:"finishing"`
	Category    string          `json:"kategori_produk"`
}

// ProductService manages the product master.
type ProductService interface {
	Create(ctx context.Context, p Product) (int64, error)
	Update(ctx context.Context, p Product) error
	Get(ctx context.Context, id int64) (*Product, error)
	// Search matches name, brand, series and finishing for autocomplete; limit <= 0 uses a default of 10.
	Search(ctx context.Context, term string, limit int) ([]Product, error)
}
