package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"minigold/internal/store"
)

const defaultSearchLimit = 10

type productService struct {
	store store.Store
	opts  Options
}

// NewProductService constructs a ProductService.
func NewProductService(st store.Store, opts Options) ProductService {
	return &productService{store: st, opts: opts.withDefaults()}
}

func validateProduct(p Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return validationf("product name is required")
	}
	if p.WeightClass.IsNegative() {
		return validationf("gramasi must not be negative")
	}
	return nil
}

func productRow(p Product) store.Row {
	return store.Row{
		"brand":           p.Brand,
		"finest":          p.Finest,
		"series":          p.Series,
		"tahun_release":   p.ReleaseYear,
		"product_name":    strings.TrimSpace(p.Name),
		"gramasi":         p.WeightClass,
		"ukuran":          p.Size,
		"finishing":       p.Finishing,
		"kategori_produk": p.Category,
	}
}

func (s *productService) Create(ctx context.Context, p Product) (int64, error) {
	if err := validateProduct(p); err != nil {
		return 0, err
	}
	id, err := s.store.Insert(ctx, store.TableProduct, productRow(p))
	if err != nil {
		return 0, persistence(s.opts.Logger, "product.create", err)
	}
	return id, nil
}

func (s *productService) Update(ctx context.Context, p Product) error {
	if p.ID <= 0 {
		return validationf("product id is required")
	}
	if err := validateProduct(p); err != nil {
		return err
	}
	n, err := s.store.Update(ctx, store.TableProduct, productRow(p), store.Eq("product_id", p.ID))
	if err != nil {
		return persistence(s.opts.Logger, "product.update", err, "product_id", p.ID)
	}
	if n == 0 {
		return notFoundf("product %d", p.ID)
	}
	return nil
}

func (s *productService) Get(ctx context.Context, id int64) (*Product, error) {
	row, err := s.store.SelectByID(ctx, store.TableProduct, nil, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFoundf("product %d", id)
	}
	if err != nil {
		return nil, persistence(s.opts.Logger, "product.get", err)
	}
	p := productFromRow(row)
	return &p, nil
}

func (s *productService) Search(ctx context.Context, term string, limit int) ([]Product, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	page, err := s.store.FetchPage(ctx, store.TableProduct, store.PageParams{
		Search:  strings.TrimSpace(term),
		OrderBy: "product_name",
		Limit:   limit,
	})
	if err != nil {
		return nil, persistence(s.opts.Logger, "product.search", fmt.Errorf("search %q: %w", term, err))
	}
	out := make([]Product, 0, len(page.Records))
	for _, r := range page.Records {
		out = append(out, productFromRow(r))
	}
	return out, nil
}

func productFromRow(r store.Row) Product {
	return Product{
		ID:          r.Int64("product_id"),
		Brand:       r.String("brand"),
		Finest:      r.String("finest"),
		Series:      r.String("series"),
		ReleaseYear: r.String("tahun_release"),
		Name:        r.String("product_name"),
		WeightClass: r.Decimal("gramasi"),
		Size:        r.String("ukuran"),
		Finishing:   r.String("finishing"),
		Category:    r.String("kategori_produk"),
	}
}
