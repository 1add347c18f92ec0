package core

import (
	"context"
	"fmt"
	"time"

	"minigold/internal/store"
)

type stockLedger struct {
	store store.Store
	opts  Options
}

// NewStockLedger constructs a StockLedger.
func NewStockLedger(st store.Store, opts Options) StockLedger {
	return &stockLedger{store: st, opts: opts.withDefaults()}
}

// ── TX-scoped operations ──────────────────────────────────────────────────────

func (l *stockLedger) PostTx(ctx context.Context, q store.Querier, actor Actor, now time.Time, p StockPosting) (*StockMovement, error) {
	if p.Qty < 0 {
		return nil, validationf("negative stock posting %d for product %d", p.Qty, p.ProductID)
	}
	if p.Qty == 0 {
		return nil, nil
	}

	// The row is created once and then added to in place. qty_after is read
	// back after the UPDATE, which holds the row lock until commit.
	if _, err := q.InsertIfAbsent(ctx, store.TableProductStock, store.Row{
		"id_product":  p.ProductID,
		"qty":         int64(0),
		"uid_changed": actor.UserID,
		"changed":     now,
	}, "id_product"); err != nil {
		return nil, fmt.Errorf("open stock of product %d: %w", p.ProductID, err)
	}
	if _, err := q.Update(ctx, store.TableProductStock, store.Row{
		"qty":         store.Increment{Delta: p.Qty},
		"uid_changed": actor.UserID,
		"changed":     now,
	}, store.Eq("id_product", p.ProductID)); err != nil {
		return nil, fmt.Errorf("post stock of product %d: %w", p.ProductID, err)
	}
	rows, err := q.SelectWhere(ctx, store.TableProductStock, store.Select{
		Fields: []string{"qty"},
		Where:  []store.Cond{store.Eq("id_product", p.ProductID)},
		Limit:  1,
	})
	if err != nil {
		return nil, fmt.Errorf("load stock of product %d: %w", p.ProductID, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("load stock of product %d: %w", p.ProductID, store.ErrNotFound)
	}
	after := rows[0].Int64("qty")

	m := &StockMovement{
		ProductID:       p.ProductID,
		PackagingID:     p.PackagingID,
		PackagingLineID: p.PackagingLineID,
		Qty:             p.Qty,
		QtyAfter:        after,
		CreatedBy:       actor.UserID,
		Created:         now,
	}
	m.ID, err = q.Insert(ctx, store.TableStockMovement, store.Row{
		"id_product":                  m.ProductID,
		"id_request_packaging":        m.PackagingID,
		"id_request_packaging_detail": m.PackagingLineID,
		"qty":                         m.Qty,
		"qty_after":                   m.QtyAfter,
		"uid_created":                 m.CreatedBy,
		"created":                     m.Created,
	})
	if err != nil {
		return nil, fmt.Errorf("record stock movement of product %d: %w", p.ProductID, err)
	}
	return m, nil
}

// ── Standalone operations ─────────────────────────────────────────────────────

var stockJoin = &store.Join{
	Table: store.TableProduct, Alias: "p",
	LocalField: "id_product", ForeignField: "product_id",
	Fields: []string{"product_name"},
}

func (l *stockLedger) GetStock(ctx context.Context, productID int64) (*ProductStock, error) {
	rows, err := l.store.SelectWhere(ctx, store.TableProductStock, store.Select{
		Fields: store.SchemaOf(store.TableProductStock).Columns,
		Join:   stockJoin,
		Where:  []store.Cond{store.Eq("id_product", productID)},
		Limit:  1,
	})
	if err != nil {
		return nil, persistence(l.opts.Logger, "stock.get", err, "id_product", productID)
	}
	if len(rows) == 0 {
		return nil, notFoundf("no stock for product %d", productID)
	}
	s := stockFromRow(rows[0])
	return &s, nil
}

func (l *stockLedger) ListStock(ctx context.Context) ([]ProductStock, error) {
	rows, err := l.store.SelectWhere(ctx, store.TableProductStock, store.Select{
		Fields:  store.SchemaOf(store.TableProductStock).Columns,
		Join:    stockJoin,
		OrderBy: "id_product",
	})
	if err != nil {
		return nil, persistence(l.opts.Logger, "stock.list", err)
	}
	out := make([]ProductStock, 0, len(rows))
	for _, r := range rows {
		out = append(out, stockFromRow(r))
	}
	return out, nil
}

func (l *stockLedger) ListMovements(ctx context.Context, productID int64) ([]StockMovement, error) {
	rows, err := l.store.SelectWhere(ctx, store.TableStockMovement, store.Select{
		Fields:  store.SchemaOf(store.TableStockMovement).Columns,
		Where:   []store.Cond{store.Eq("id_product", productID)},
		OrderBy: "id_stock_movement",
	})
	if err != nil {
		return nil, persistence(l.opts.Logger, "stock.movements", err, "id_product", productID)
	}
	out := make([]StockMovement, 0, len(rows))
	for _, r := range rows {
		out = append(out, StockMovement{
			ID:              r.Int64("id_stock_movement"),
			ProductID:       r.Int64("id_product"),
			PackagingID:     r.Int64("id_request_packaging"),
			PackagingLineID: r.Int64("id_request_packaging_detail"),
			Qty:             r.Int64("qty"),
			QtyAfter:        r.Int64("qty_after"),
			CreatedBy:       r.Int64("uid_created"),
			Created:         r.Time("created"),
		})
	}
	return out, nil
}

func stockFromRow(r store.Row) ProductStock {
	return ProductStock{
		ID:          r.Int64("id_product_stock"),
		ProductID:   r.Int64("id_product"),
		ProductName: r.String("product_name"),
		Qty:         r.Int64("qty"),
		ChangedBy:   r.Int64("uid_changed"),
		Changed:     r.Time("changed"),
	}
}
