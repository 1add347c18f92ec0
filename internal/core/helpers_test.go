package core_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"minigold/internal/attachment"
	"minigold/internal/core"
	"minigold/internal/store"
	"minigold/internal/store/sqlite/sqlitetest"
)

var testNow = time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

type fixture struct {
	ctx      context.Context
	store    store.Store
	files    *attachment.Memory
	admin    core.RequestAdminService
	workflow core.WorkflowService
	ledger   core.StockLedger
	products core.ProductService
	grid     core.GridService
	users    core.UserService
	actor    core.Actor
}

// newFixture opens a fresh SQLite store. wrap, when given, decorates the store
// handed to the services (used to inject failures).
func newFixture(t *testing.T, wrap ...func(store.Store) store.Store) *fixture {
	t.Helper()
	var st store.Store = sqlitetest.New(t)
	for _, w := range wrap {
		st = w(st)
	}
	opts := core.Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Clock:  func() time.Time { return testNow },
	}
	files := attachment.NewMemory()
	ledger := core.NewStockLedger(st, opts)
	return &fixture{
		ctx:      context.Background(),
		store:    st,
		files:    files,
		admin:    core.NewRequestAdminService(st, files, opts),
		workflow: core.NewWorkflowService(st, ledger, opts),
		ledger:   ledger,
		products: core.NewProductService(st, opts),
		grid:     core.NewGridService(st, opts),
		users:    core.NewUserService(st, opts),
		actor:    core.Actor{UserID: 7, Role: core.RoleAdmin},
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func (f *fixture) product(t *testing.T, name, gramasi string) int64 {
	t.Helper()
	id, err := f.products.Create(f.ctx, core.Product{Brand: "Minigold", Name: name, WeightClass: dec(gramasi)})
	if err != nil {
		t.Fatalf("create product %s: %v", name, err)
	}
	return id
}

func upload(name string) *core.AttachmentUpload {
	return &core.AttachmentUpload{FileName: name, ContentType: "application/pdf", Content: strings.NewReader("%PDF-1.7 " + name)}
}

func (f *fixture) requestAdmin(t *testing.T, orderer string, lines ...core.LineInput) int64 {
	t.Helper()
	id, err := f.admin.Save(f.ctx, f.actor, core.SaveRequestAdminInput{
		RequestNumber: "REQ-" + orderer,
		OrdererName:   orderer,
		Lines:         lines,
		Attachment:    upload(orderer + ".pdf"),
	})
	if err != nil {
		t.Fatalf("save request admin %s: %v", orderer, err)
	}
	return id
}

func line(productID int64, qty string) core.LineInput {
	return core.LineInput{ProductID: productID, Qty: dec(qty)}
}

// startRun creates a production run for adminIDs and returns it.
func (f *fixture) startRun(t *testing.T, adminIDs ...int64) *core.ProductionRun {
	t.Helper()
	if _, err := f.workflow.CreateProductionRun(f.ctx, f.actor, core.ProductionRunInput{
		AdminIDs:    adminIDs,
		RequestDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("CreateProductionRun failed: %v", err)
	}
	a, err := f.admin.Get(f.ctx, adminIDs[0])
	if err != nil {
		t.Fatalf("get request admin: %v", err)
	}
	if a.ProductionProcessID == nil {
		t.Fatalf("request admin %d not linked to a process", adminIDs[0])
	}
	run, err := f.workflow.GetProductionRun(f.ctx, *a.ProductionProcessID)
	if err != nil {
		t.Fatalf("GetProductionRun failed: %v", err)
	}
	return run
}

func stageUpdate(rec *core.StageRecord, status core.Status) core.StageUpdate {
	u := core.StageUpdate{ID: rec.ID, ProcessID: rec.ProcessID, Status: status, Notes: "ok"}
	for _, l := range rec.Lines {
		u.Lines = append(u.Lines, core.LineQty{LineID: l.ID, Qty: l.QtyRequest})
	}
	return u
}

// toPackaging advances both stages of run to OnPackaging and returns the packaging record.
func (f *fixture) toPackaging(t *testing.T, run *core.ProductionRun) *core.Packaging {
	t.Helper()
	if _, err := f.workflow.AdvanceProduction(f.ctx, f.actor, stageUpdate(run.Produksi, core.StatusOnPackaging)); err != nil {
		t.Fatalf("AdvanceProduction failed: %v", err)
	}
	if _, err := f.workflow.AdvanceKemasan(f.ctx, f.actor, stageUpdate(run.Kemasan, core.StatusOnPackaging)); err != nil {
		t.Fatalf("AdvanceKemasan failed: %v", err)
	}
	refreshed, err := f.workflow.GetProductionRun(f.ctx, run.Process.ID)
	if err != nil {
		t.Fatalf("GetProductionRun failed: %v", err)
	}
	if refreshed.Packaging == nil {
		t.Fatalf("no packaging for process %d", run.Process.ID)
	}
	return refreshed.Packaging
}

func (f *fixture) count(t *testing.T, table store.Table, where ...store.Cond) int64 {
	t.Helper()
	id := store.SchemaOf(table).IDField
	rows, err := f.store.SelectWhere(f.ctx, table, store.Select{
		Aggregates: []store.Aggregate{{Func: store.AggCount, Field: id, Alias: "n"}},
		Where:      where,
	})
	if err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return rows[0].Int64("n")
}

func assertKind(t *testing.T, err error, want core.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	if got := core.KindOf(err); got != want {
		t.Fatalf("expected %s error, got %s: %v", want, got, err)
	}
}

var errInjected = errors.New("injected failure")

// failOn returns a wrapper whose transactions fail on the first write to table.
func failOn(table store.Table) func(store.Store) store.Store {
	return func(s store.Store) store.Store { return &failingStore{Store: s, table: table} }
}

type failingStore struct {
	store.Store
	table store.Table
}

func (s *failingStore) WithTx(ctx context.Context, fn func(q store.Querier) error) error {
	return s.Store.WithTx(ctx, func(q store.Querier) error {
		return fn(&failingQuerier{Querier: q, table: s.table})
	})
}

type failingQuerier struct {
	store.Querier
	table store.Table
}

func (q *failingQuerier) Insert(ctx context.Context, t store.Table, fields store.Row) (int64, error) {
	if t == q.table {
		return 0, errInjected
	}
	return q.Querier.Insert(ctx, t, fields)
}

func (q *failingQuerier) Update(ctx context.Context, t store.Table, fields store.Row, conds ...store.Cond) (int64, error) {
	if t == q.table {
		return 0, errInjected
	}
	return q.Querier.Update(ctx, t, fields, conds...)
}
