package core_test

import (
	"context"
	"testing"

	"minigold/internal/core"
	"minigold/internal/store"
)

func TestStockLedger_PostTx(t *testing.T) {
	f := newFixture(t)
	p1 := f.product(t, "Minigold Classic 5g", "5")

	post := func(qty int64) (*core.StockMovement, error) {
		var m *core.StockMovement
		err := f.store.WithTx(f.ctx, func(q store.Querier) error {
			var err error
			m, err = f.ledger.PostTx(f.ctx, q, f.actor, testNow, core.StockPosting{ProductID: p1, Qty: qty})
			return err
		})
		return m, err
	}

	m, err := post(0)
	if err != nil || m != nil {
		t.Fatalf("Expected zero posting to be skipped, got %v / %v", m, err)
	}
	if n := f.count(t, store.TableProductStock); n != 0 {
		t.Errorf("Expected no stock row for a zero posting, got %d", n)
	}

	_, err = post(-3)
	assertKind(t, err, core.KindValidation)

	m, err = post(4)
	if err != nil {
		t.Fatalf("PostTx failed: %v", err)
	}
	if m.QtyAfter != 4 || m.Qty != 4 {
		t.Errorf("Expected qty 4 after 4, got %d after %d", m.Qty, m.QtyAfter)
	}
	m, err = post(6)
	if err != nil {
		t.Fatalf("PostTx failed: %v", err)
	}
	if m.QtyAfter != 10 {
		t.Errorf("Expected qty_after 10, got %d", m.QtyAfter)
	}

	stock, err := f.ledger.GetStock(f.ctx, p1)
	if err != nil {
		t.Fatalf("GetStock failed: %v", err)
	}
	if stock.Qty != 10 || stock.ProductName != "Minigold Classic 5g" {
		t.Errorf("Unexpected stock %+v", stock)
	}
	if stock.ChangedBy != f.actor.UserID {
		t.Errorf("Expected uid_changed %d, got %d", f.actor.UserID, stock.ChangedBy)
	}

	all, err := f.ledger.ListStock(f.ctx)
	if err != nil {
		t.Fatalf("ListStock failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("Expected 1 stock row, got %d", len(all))
	}
}

func TestStockLedger_GetStockUnknownProduct(t *testing.T) {
	f := newFixture(t)
	_, err := f.ledger.GetStock(context.Background(), 77)
	assertKind(t, err, core.KindNotFound)
}

// interleavingQuerier lands another delivery of the same product right before
// the first stock update of the transaction, as a concurrent commit would.
type interleavingQuerier struct {
	store.Querier
	delta int64
	done  bool
}

func (q *interleavingQuerier) Update(ctx context.Context, t store.Table, fields store.Row, conds ...store.Cond) (int64, error) {
	if t == store.TableProductStock && !q.done {
		q.done = true
		if _, err := q.Querier.Update(ctx, t, store.Row{"qty": store.Increment{Delta: q.delta}}, conds...); err != nil {
			return 0, err
		}
	}
	return q.Querier.Update(ctx, t, fields, conds...)
}

func TestStockLedger_PostTxKeepsInterleavedDelivery(t *testing.T) {
	f := newFixture(t)
	p1 := f.product(t, "Minigold Classic 5g", "5")

	post := func(q store.Querier, qty int64) *core.StockMovement {
		t.Helper()
		m, err := f.ledger.PostTx(f.ctx, q, f.actor, testNow, core.StockPosting{ProductID: p1, Qty: qty})
		if err != nil {
			t.Fatalf("PostTx failed: %v", err)
		}
		return m
	}
	if err := f.store.WithTx(f.ctx, func(q store.Querier) error { post(q, 10); return nil }); err != nil {
		t.Fatalf("WithTx failed: %v", err)
	}

	var m *core.StockMovement
	if err := f.store.WithTx(f.ctx, func(q store.Querier) error {
		m = post(&interleavingQuerier{Querier: q, delta: 3}, 5)
		return nil
	}); err != nil {
		t.Fatalf("WithTx failed: %v", err)
	}
	if m.QtyAfter != 18 {
		t.Errorf("Expected qty_after 18 (10 + 3 interleaved + 5), got %d", m.QtyAfter)
	}
	stock, err := f.ledger.GetStock(f.ctx, p1)
	if err != nil {
		t.Fatalf("GetStock failed: %v", err)
	}
	if stock.Qty != 18 {
		t.Errorf("Expected stock 18, got %d", stock.Qty)
	}
}
