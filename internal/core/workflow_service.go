package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"minigold/internal/store"
)

type workflowService struct {
	store  store.Store
	ledger StockLedger
	opts   Options
}

// NewWorkflowService constructs a WorkflowService. Stock postings on delivery go through ledger.
func NewWorkflowService(st store.Store, ledger StockLedger, opts Options) WorkflowService {
	return &workflowService{store: st, ledger: ledger, opts: opts.withDefaults()}
}

// ── Production run ────────────────────────────────────────────────────────────

func validateProductionRun(in ProductionRunInput) ([]int64, error) {
	if len(in.AdminIDs) == 0 {
		return nil, validationf("no request admin selected")
	}
	ids := make([]int64, 0, len(in.AdminIDs))
	seen := make(map[int64]bool, len(in.AdminIDs))
	for _, id := range in.AdminIDs {
		if id <= 0 {
			return nil, validationf("invalid request admin id %d", id)
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, w := range in.WeightClasses {
		if !w.Qty.IsPositive() {
			return nil, validationf("kepingan %s: quantity must be positive", WeightLabel(w.WeightClass))
		}
	}
	for _, p := range in.Products {
		if p.ProductID <= 0 {
			return nil, validationf("kemasan line: product is required")
		}
		if !p.Qty.IsPositive() {
			return nil, validationf("product %d: quantity must be positive", p.ProductID)
		}
	}
	return ids, nil
}

func (s *workflowService) CreateProductionRun(ctx context.Context, actor Actor, in ProductionRunInput) ([]int64, error) {
	const op = "workflow.create_production_run"
	ids, err := validateProductionRun(in)
	if err != nil {
		return nil, s.opts.observe(op, err)
	}
	now := s.opts.Clock()
	if in.RequestDate.IsZero() {
		in.RequestDate = now
	}

	var processID int64
	err = s.store.WithTx(ctx, func(q store.Querier) error {
		admins, err := q.SelectByIDs(ctx, store.TableRequestAdmin, requestAdminFields, ids)
		if err != nil {
			return fmt.Errorf("load request admins: %w", err)
		}
		byID := make(map[int64]*RequestAdmin, len(admins))
		for _, row := range admins {
			a := requestAdminFromRow(row)
			byID[a.ID] = a
		}
		for _, id := range ids {
			a, ok := byID[id]
			if !ok {
				return notFoundf("request admin %d", id)
			}
			if a.Locked() {
				return stateViolationf("request admin %d is already in production (status %s)", id, a.Status)
			}
		}

		weights, products := in.WeightClasses, in.Products
		if len(weights) == 0 && len(products) == 0 {
			plan, err := summarize(ctx, q, ids)
			if err != nil {
				return err
			}
			weights, products = plan.WeightClasses, plan.Products
		}
		if len(weights) == 0 || len(products) == 0 {
			return validationf("production run needs at least one kepingan and one kemasan line")
		}

		processID, err = q.Insert(ctx, store.TableProductionProcess, store.Row{
			"tgl_start":   in.RequestDate,
			"uid_created": actor.UserID,
			"uid_changed": actor.UserID,
			"created":     now,
			"changed":     now,
		})
		if err != nil {
			return fmt.Errorf("insert production process: %w", err)
		}

		produksiID, err := s.insertStageHeader(ctx, q, produksiStage, processID, in.RequestDate, in.ProductionNotes, actor, now)
		if err != nil {
			return err
		}
		for _, w := range weights {
			_, err := q.Insert(ctx, store.TableRequestProduksiDetail, stamp(store.Row{
				"id_request_produksi": produksiID,
				"satuan":              "keping",
				"kepingan":            w.WeightClass,
				"qty_request":         w.Qty,
				"qty_produksi":        w.Qty,
			}, actor, now))
			if err != nil {
				return fmt.Errorf("insert produksi line: %w", err)
			}
		}
		if err := linkAdmins(ctx, q, produksiStage, produksiID, ids); err != nil {
			return err
		}

		kemasanID, err := s.insertStageHeader(ctx, q, kemasanStage, processID, in.RequestDate, in.KemasanNotes, actor, now)
		if err != nil {
			return err
		}
		for _, p := range products {
			_, err := q.Insert(ctx, store.TableRequestKemasanDetail, stamp(store.Row{
				"id_request_kemasan": kemasanID,
				"id_product":         p.ProductID,
				"qty_request":        p.Qty,
				"qty_kemasan":        p.Qty,
			}, actor, now))
			if err != nil {
				return fmt.Errorf("insert kemasan line: %w", err)
			}
		}
		if err := linkAdmins(ctx, q, kemasanStage, kemasanID, ids); err != nil {
			return err
		}

		_, err = q.Update(ctx, store.TableRequestAdmin, stamp(store.Row{
			"status_request":        int64(StatusOnProcess),
			"id_production_process": processID,
		}, actor, now), store.InIDs("id_request_admin", ids))
		if err != nil {
			return fmt.Errorf("link request admins: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, s.opts.observe(op, persistence(s.opts.Logger, op, err, "request_admin_ids", ids))
	}
	s.opts.Recorder.StatusChanged(string(StageProduksi), StatusOnProcess)
	s.opts.Recorder.StatusChanged(string(StageKemasan), StatusOnProcess)
	s.opts.Logger.Info("production run created", "id_production_process", processID, "request_admin_ids", ids, "uid", actor.UserID)
	return ids, s.opts.observe(op, nil)
}

func (s *workflowService) insertStageHeader(ctx context.Context, q store.Querier, d stageDescriptor,
	processID int64, date time.Time, notes string, actor Actor, now time.Time) (int64, error) {
	id, err := q.Insert(ctx, d.header, stamp(store.Row{
		"tgl_request":           date,
		"keterangan":            notes,
		d.statusField:           int64(StatusOnProcess),
		"id_production_process": processID,
		"created":               now,
	}, actor, now))
	if err != nil {
		return 0, fmt.Errorf("insert %s: %w", d.stage, err)
	}
	return id, nil
}

func linkAdmins(ctx context.Context, q store.Querier, d stageDescriptor, stageID int64, adminIDs []int64) error {
	for _, adminID := range adminIDs {
		if _, err := q.Insert(ctx, d.join, store.Row{"id_request_admin": adminID, d.idField: stageID}); err != nil {
			return fmt.Errorf("link request admin %d to %s: %w", adminID, d.stage, err)
		}
	}
	return nil
}

// ── Stage advance ─────────────────────────────────────────────────────────────

func (s *workflowService) AdvanceProduction(ctx context.Context, actor Actor, in StageUpdate) (int64, error) {
	return s.advance(ctx, produksiStage, actor, in)
}

func (s *workflowService) AdvanceKemasan(ctx context.Context, actor Actor, in StageUpdate) (int64, error) {
	return s.advance(ctx, kemasanStage, actor, in)
}

func validateStageUpdate(in StageUpdate) error {
	if in.ID <= 0 || in.ProcessID <= 0 {
		return validationf("record and production process ids are required")
	}
	if !in.Status.Valid() {
		return validationf("unknown status code %d", int(in.Status))
	}
	if in.Status == StatusDelivered {
		return validationf("status %s is set by packaging finalization only", in.Status)
	}
	for _, l := range in.Lines {
		if l.Qty.IsNegative() {
			return validationf("line %d: quantity must not be negative", l.LineID)
		}
	}
	return nil
}

func (s *workflowService) advance(ctx context.Context, d stageDescriptor, actor Actor, in StageUpdate) (int64, error) {
	op := "workflow.advance_" + string(d.stage)
	if err := validateStageUpdate(in); err != nil {
		return 0, s.opts.observe(op, err)
	}
	now := s.opts.Clock()

	var packagingID int64
	err := s.store.WithTx(ctx, func(q store.Querier) error {
		row, err := q.SelectByID(ctx, d.header, store.SchemaOf(d.header).Columns, in.ID)
		if errors.Is(err, store.ErrNotFound) {
			return notFoundf("%s %d", d.stage, in.ID)
		}
		if err != nil {
			return err
		}
		current := d.recordFromRow(row)
		if current.ProcessID != in.ProcessID {
			return validationf("%s %d does not belong to production process %d", d.stage, in.ID, in.ProcessID)
		}
		if current.Status == StatusDelivered {
			return stateViolationf("%s %d is already delivered", d.stage, in.ID)
		}

		_, err = q.Update(ctx, d.header, stamp(store.Row{
			"keterangan":  in.Notes,
			d.statusField: int64(in.Status),
		}, actor, now), store.Eq(d.idField, in.ID))
		if err != nil {
			return fmt.Errorf("update %s: %w", d.stage, err)
		}

		if err := s.updateStageLines(ctx, q, d, in, actor, now); err != nil {
			return err
		}

		if in.Status == StatusOnPackaging {
			packagingID, err = s.triggerPackaging(ctx, q, d, in, actor, now)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, s.opts.observe(op, persistence(s.opts.Logger, op, err, d.idField, in.ID))
	}
	s.opts.Recorder.StatusChanged(string(d.stage), in.Status)
	s.opts.Logger.Info(string(d.stage)+" advanced", d.idField, in.ID, "status", in.Status.String(),
		"id_request_packaging", packagingID, "uid", actor.UserID)
	return in.ID, s.opts.observe(op, nil)
}

func (s *workflowService) updateStageLines(ctx context.Context, q store.Querier, d stageDescriptor,
	in StageUpdate, actor Actor, now time.Time) error {
	if len(in.Lines) == 0 {
		return nil
	}
	rows, err := q.SelectWhere(ctx, d.detail, store.Select{
		Fields: []string{d.lineIDField},
		Where:  []store.Cond{store.Eq(d.idField, in.ID)},
	})
	if err != nil {
		return fmt.Errorf("load %s lines: %w", d.stage, err)
	}
	owned := make(map[int64]bool, len(rows))
	for _, r := range rows {
		owned[r.Int64(d.lineIDField)] = true
	}
	for _, l := range in.Lines {
		if !owned[l.LineID] {
			return notFoundf("%s line %d of %s %d", d.stage, l.LineID, d.stage, in.ID)
		}
		_, err := q.Update(ctx, d.detail, stamp(store.Row{
			"qty_request":  l.Qty,
			d.actualField: l.Qty,
		}, actor, now), store.Eq(d.lineIDField, l.LineID))
		if err != nil {
			return fmt.Errorf("update %s line %d: %w", d.stage, l.LineID, err)
		}
	}
	return nil
}

// triggerPackaging finds or creates the process's packaging record and replaces
// this stage's packaging lines with the stage's current lines.
func (s *workflowService) triggerPackaging(ctx context.Context, q store.Querier, d stageDescriptor,
	in StageUpdate, actor Actor, now time.Time) (int64, error) {
	existing, err := q.SelectWhere(ctx, store.TableRequestPackaging, store.Select{
		Fields: []string{"id_request_packaging", "status_packaging"},
		Where:  []store.Cond{store.Eq("id_production_process", in.ProcessID)},
		Limit:  1,
	})
	if err != nil {
		return 0, fmt.Errorf("find packaging: %w", err)
	}

	var packagingID int64
	if len(existing) == 0 {
		packagingID, err = q.Insert(ctx, store.TableRequestPackaging, stamp(store.Row{
			"id_production_process": in.ProcessID,
			d.packagingRef:          in.ID,
			d.packagingDate:         now,
			"status_packaging":      int64(StatusPending),
			"keterangan":            "",
			"created":               now,
		}, actor, now))
		if err != nil {
			return 0, fmt.Errorf("insert packaging: %w", err)
		}
	} else {
		packagingID = existing[0].Int64("id_request_packaging")
		if Status(existing[0].Int64("status_packaging")) == StatusDelivered {
			return 0, stateViolationf("packaging %d is already delivered", packagingID)
		}
		_, err = q.Update(ctx, store.TableRequestPackaging, stamp(store.Row{
			d.packagingRef:  in.ID,
			d.packagingDate: now,
		}, actor, now), store.Eq("id_request_packaging", packagingID))
		if err != nil {
			return 0, fmt.Errorf("update packaging: %w", err)
		}
	}

	lines, err := q.SelectWhere(ctx, d.detail, store.Select{
		Fields:  store.SchemaOf(d.detail).Columns,
		Where:   []store.Cond{store.Eq(d.idField, in.ID)},
		OrderBy: d.lineIDField,
	})
	if err != nil {
		return 0, fmt.Errorf("load %s lines: %w", d.stage, err)
	}
	seeded := make([]store.Row, len(lines))
	for i, l := range lines {
		seeded[i] = stamp(d.packagingLine(l), actor, now)
	}
	err = store.ReplaceChildren(ctx, q, store.TableRequestPackagingDetail,
		store.Eq("id_request_packaging", packagingID), seeded, d.packagingScope)
	if err != nil {
		return 0, fmt.Errorf("seed packaging lines from %s: %w", d.stage, err)
	}

	_, err = q.Update(ctx, d.header, store.Row{"id_request_packaging": packagingID}, store.Eq(d.idField, in.ID))
	if err != nil {
		return 0, fmt.Errorf("link %s to packaging: %w", d.stage, err)
	}
	return packagingID, nil
}

// ── Packaging ─────────────────────────────────────────────────────────────────

func validatePackagingUpdate(in PackagingUpdate) error {
	if in.ID <= 0 {
		return validationf("packaging id is required")
	}
	if !in.Status.Valid() {
		return validationf("unknown status code %d", int(in.Status))
	}
	for _, l := range in.Lines {
		if l.FinalQty.IsNegative() {
			return validationf("packaging line %d: final quantity must not be negative", l.LineID)
		}
	}
	return nil
}

func (s *workflowService) FinalizePackaging(ctx context.Context, actor Actor, in PackagingUpdate) (int64, error) {
	const op = "workflow.finalize_packaging"
	if err := validatePackagingUpdate(in); err != nil {
		return 0, s.opts.observe(op, err)
	}
	now := s.opts.Clock()

	var movements []*StockMovement
	err := s.store.WithTx(ctx, func(q store.Querier) error {
		movements = nil
		row, err := q.SelectByID(ctx, store.TableRequestPackaging, store.SchemaOf(store.TableRequestPackaging).Columns, in.ID)
		if errors.Is(err, store.ErrNotFound) {
			return notFoundf("packaging %d", in.ID)
		}
		if err != nil {
			return err
		}
		current := packagingFromRow(row)
		if current.Status == StatusDelivered {
			return stateViolationf("packaging %d is already delivered", in.ID)
		}
		if in.Status == StatusDelivered && (current.ProduksiID == nil || current.KemasanID == nil) {
			return stateViolationf("packaging %d cannot be delivered before both produksi and kemasan hand over", in.ID)
		}

		_, err = q.Update(ctx, store.TableRequestPackaging, stamp(store.Row{
			"keterangan":       in.Notes,
			"status_packaging": int64(in.Status),
		}, actor, now), store.Eq("id_request_packaging", in.ID))
		if err != nil {
			return fmt.Errorf("update packaging: %w", err)
		}

		lines, err := loadPackagingLines(ctx, q, in.ID)
		if err != nil {
			return err
		}
		byID := make(map[int64]*PackagingLine, len(lines))
		for i := range lines {
			byID[lines[i].ID] = &lines[i]
		}
		for _, u := range in.Lines {
			line, ok := byID[u.LineID]
			if !ok {
				return notFoundf("packaging line %d of packaging %d", u.LineID, in.ID)
			}
			_, err := q.Update(ctx, store.TableRequestPackagingDetail, stamp(store.Row{
				"final_qty_product": u.FinalQty,
			}, actor, now), store.Eq("id_request_packaging_detail", u.LineID))
			if err != nil {
				return fmt.Errorf("update packaging line %d: %w", u.LineID, err)
			}
			line.FinalQty = u.FinalQty
		}

		if in.Status != StatusDelivered {
			return nil
		}
		for _, line := range lines {
			if line.ProductID == nil {
				continue
			}
			m, err := s.ledger.PostTx(ctx, q, actor, now, StockPosting{
				ProductID:       *line.ProductID,
				PackagingID:     in.ID,
				PackagingLineID: line.ID,
				Qty:             line.FinalQty.IntPart(),
			})
			if err != nil {
				return err
			}
			if m != nil {
				movements = append(movements, m)
			}
		}
		return deliverProcess(ctx, q, current.ProcessID, actor, now)
	})
	if err != nil {
		return 0, s.opts.observe(op, persistence(s.opts.Logger, op, err, "id_request_packaging", in.ID))
	}
	for _, m := range movements {
		s.opts.Recorder.StockPosted(m.ProductID, m.Qty)
	}
	s.opts.Recorder.StatusChanged(string(StagePackaging), in.Status)
	s.opts.Logger.Info("packaging updated", "id_request_packaging", in.ID, "status", in.Status.String(),
		"stock_postings", len(movements), "uid", actor.UserID)
	return in.ID, s.opts.observe(op, nil)
}

// deliverProcess cascades Delivered to every record of the process and closes it.
func deliverProcess(ctx context.Context, q store.Querier, processID int64, actor Actor, now time.Time) error {
	byProcess := store.Eq("id_production_process", processID)
	delivered := int64(StatusDelivered)
	cascades := []struct {
		table store.Table
		field string
	}{
		{store.TableRequestAdmin, "status_request"},
		{store.TableRequestProduksi, "status_produksi"},
		{store.TableRequestKemasan, "status_kemasan"},
	}
	for _, c := range cascades {
		if _, err := q.Update(ctx, c.table, stamp(store.Row{c.field: delivered}, actor, now), byProcess); err != nil {
			return fmt.Errorf("deliver %s: %w", c.table, err)
		}
	}
	if _, err := q.Update(ctx, store.TableProductionProcess, stamp(store.Row{"tgl_end": now}, actor, now), byProcess); err != nil {
		return fmt.Errorf("close production process %d: %w", processID, err)
	}
	return nil
}

func (s *workflowService) DeletePackaging(ctx context.Context, actor Actor, id int64) error {
	const op = "workflow.delete_packaging"
	now := s.opts.Clock()
	err := s.store.WithTx(ctx, func(q store.Querier) error {
		row, err := q.SelectByID(ctx, store.TableRequestPackaging, []string{"id_request_packaging", "status_packaging"}, id)
		if errors.Is(err, store.ErrNotFound) {
			return notFoundf("packaging %d", id)
		}
		if err != nil {
			return err
		}
		if Status(row.Int64("status_packaging")) == StatusDelivered {
			return stateViolationf("packaging %d is already delivered", id)
		}
		byPackaging := store.Eq("id_request_packaging", id)
		if _, err := q.Delete(ctx, store.TableRequestPackagingDetail, byPackaging); err != nil {
			return fmt.Errorf("delete packaging lines: %w", err)
		}
		for _, d := range []stageDescriptor{produksiStage, kemasanStage} {
			_, err := q.Update(ctx, d.header, stamp(store.Row{
				d.statusField:          int64(StatusOnProcess),
				"id_request_packaging": nil,
			}, actor, now), byPackaging)
			if err != nil {
				return fmt.Errorf("reset %s: %w", d.stage, err)
			}
		}
		if _, err := q.Delete(ctx, store.TableRequestPackaging, byPackaging); err != nil {
			return fmt.Errorf("delete packaging: %w", err)
		}
		return nil
	})
	if err != nil {
		return s.opts.observe(op, persistence(s.opts.Logger, op, err, "id_request_packaging", id))
	}
	s.opts.Logger.Info("packaging deleted", "id_request_packaging", id, "uid", actor.UserID)
	return s.opts.observe(op, nil)
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func (s *workflowService) GetProduksi(ctx context.Context, id int64) (*StageRecord, error) {
	r, err := loadStage(ctx, s.store, produksiStage, id)
	return r, persistence(s.opts.Logger, "workflow.get_produksi", err)
}

func (s *workflowService) GetKemasan(ctx context.Context, id int64) (*StageRecord, error) {
	r, err := loadStage(ctx, s.store, kemasanStage, id)
	return r, persistence(s.opts.Logger, "workflow.get_kemasan", err)
}

func (s *workflowService) GetPackaging(ctx context.Context, id int64) (*Packaging, error) {
	p, err := loadPackaging(ctx, s.store, store.Eq("id_request_packaging", id))
	if err == nil && p == nil {
		err = notFoundf("packaging %d", id)
	}
	if err != nil {
		return nil, persistence(s.opts.Logger, "workflow.get_packaging", err)
	}
	return p, nil
}

func (s *workflowService) GetProductionRun(ctx context.Context, processID int64) (*ProductionRun, error) {
	const op = "workflow.get_production_run"
	row, err := s.store.SelectByID(ctx, store.TableProductionProcess, store.SchemaOf(store.TableProductionProcess).Columns, processID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFoundf("production process %d", processID)
	}
	if err != nil {
		return nil, persistence(s.opts.Logger, op, err)
	}
	run := &ProductionRun{Process: processFromRow(row)}

	admins, err := s.store.SelectWhere(ctx, store.TableRequestAdmin, store.Select{
		Fields:  []string{"id_request_admin"},
		Where:   []store.Cond{store.Eq("id_production_process", processID)},
		OrderBy: "id_request_admin",
	})
	if err != nil {
		return nil, persistence(s.opts.Logger, op, err)
	}
	for _, a := range admins {
		run.AdminIDs = append(run.AdminIDs, a.Int64("id_request_admin"))
	}

	for _, d := range []stageDescriptor{produksiStage, kemasanStage} {
		rows, err := s.store.SelectWhere(ctx, d.header, store.Select{
			Fields: []string{d.idField},
			Where:  []store.Cond{store.Eq("id_production_process", processID)},
			Limit:  1,
		})
		if err != nil {
			return nil, persistence(s.opts.Logger, op, err)
		}
		if len(rows) == 0 {
			continue
		}
		rec, err := loadStage(ctx, s.store, d, rows[0].Int64(d.idField))
		if err != nil {
			return nil, persistence(s.opts.Logger, op, err)
		}
		if d.stage == StageProduksi {
			run.Produksi = rec
		} else {
			run.Kemasan = rec
		}
	}

	run.Packaging, err = loadPackaging(ctx, s.store, store.Eq("id_production_process", processID))
	if err != nil {
		return nil, persistence(s.opts.Logger, op, err)
	}
	return run, nil
}

func loadStage(ctx context.Context, q store.Querier, d stageDescriptor, id int64) (*StageRecord, error) {
	row, err := q.SelectByID(ctx, d.header, store.SchemaOf(d.header).Columns, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFoundf("%s %d", d.stage, id)
	}
	if err != nil {
		return nil, err
	}
	rec := d.recordFromRow(row)

	lines, err := q.SelectWhere(ctx, d.detail, store.Select{
		Fields:  store.SchemaOf(d.detail).Columns,
		Where:   []store.Cond{store.Eq(d.idField, id)},
		OrderBy: d.lineIDField,
	})
	if err != nil {
		return nil, err
	}
	for _, l := range lines {
		rec.Lines = append(rec.Lines, d.lineFromRow(l))
	}

	links, err := q.SelectWhere(ctx, d.join, store.Select{
		Fields:  []string{"id_request_admin"},
		Where:   []store.Cond{store.Eq(d.idField, id)},
		OrderBy: "id_request_admin",
	})
	if err != nil {
		return nil, err
	}
	for _, l := range links {
		rec.AdminIDs = append(rec.AdminIDs, l.Int64("id_request_admin"))
	}
	return rec, nil
}

// loadPackaging returns nil without error when no packaging matches.
func loadPackaging(ctx context.Context, q store.Querier, match store.Cond) (*Packaging, error) {
	rows, err := q.SelectWhere(ctx, store.TableRequestPackaging, store.Select{
		Fields: store.SchemaOf(store.TableRequestPackaging).Columns,
		Where:  []store.Cond{match},
		Limit:  1,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	p := packagingFromRow(rows[0])
	p.Lines, err = loadPackagingLines(ctx, q, p.ID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func loadPackagingLines(ctx context.Context, q store.Querier, packagingID int64) ([]PackagingLine, error) {
	rows, err := q.SelectWhere(ctx, store.TableRequestPackagingDetail, store.Select{
		Fields:  store.SchemaOf(store.TableRequestPackagingDetail).Columns,
		Where:   []store.Cond{store.Eq("id_request_packaging", packagingID)},
		OrderBy: "id_request_packaging_detail",
	})
	if err != nil {
		return nil, fmt.Errorf("load packaging lines: %w", err)
	}
	lines := make([]PackagingLine, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, packagingLineFromRow(r))
	}
	return lines, nil
}
