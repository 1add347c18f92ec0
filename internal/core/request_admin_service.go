package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"minigold/internal/attachment"
	"minigold/internal/store"
)

type requestAdminService struct {
	store store.Store
	files attachment.Store
	opts  Options
}

// NewRequestAdminService constructs a RequestAdminService.
func NewRequestAdminService(st store.Store, files attachment.Store, opts Options) RequestAdminService {
	return &requestAdminService{store: st, files: files, opts: opts.withDefaults()}
}

var requestAdminFields = store.SchemaOf(store.TableRequestAdmin).Columns

func validateRequestAdmin(in SaveRequestAdminInput) error {
	if strings.TrimSpace(in.OrdererName) == "" {
		return validationf("nama pemesan is required")
	}
	if len(in.Lines) == 0 {
		return validationf("at least one product line is required")
	}
	for i, l := range in.Lines {
		if l.ProductID <= 0 {
			return validationf("line %d: product is required", i+1)
		}
		if !l.Qty.IsPositive() {
			return validationf("line %d: quantity must be positive", i+1)
		}
	}
	if in.ID == 0 && in.Attachment == nil {
		return validationf("attachment is required for a new request")
	}
	if in.Attachment != nil && strings.TrimSpace(in.Attachment.FileName) == "" {
		return validationf("attachment file name is required")
	}
	return nil
}

func (s *requestAdminService) Save(ctx context.Context, actor Actor, in SaveRequestAdminInput) (int64, error) {
	const op = "request_admin.save"
	if err := validateRequestAdmin(in); err != nil {
		return 0, s.opts.observe(op, err)
	}
	now := s.opts.Clock()
	if in.RequestDate.IsZero() {
		in.RequestDate = now
	}

	var newKey string
	if in.Attachment != nil {
		newKey = attachment.NewKey(now, in.Attachment.FileName)
		_, err := s.files.Put(ctx, newKey, in.Attachment.Content, attachment.PutOptions{
			FileName:    in.Attachment.FileName,
			ContentType: in.Attachment.ContentType,
		})
		if err != nil {
			return 0, s.opts.observe(op, persistence(s.opts.Logger, op, fmt.Errorf("store attachment: %w", err)))
		}
	}

	id := in.ID
	var replacedKey string
	err := s.store.WithTx(ctx, func(q store.Querier) error {
		if err := checkProductsExist(ctx, q, in.Lines); err != nil {
			return err
		}
		header := store.Row{
			"no_request":   in.RequestNumber,
			"tgl_request":  in.RequestDate,
			"nama_pemesan": strings.TrimSpace(in.OrdererName),
			"keterangan":   in.Description,
			"uid_changed":  actor.UserID,
			"changed":      now,
		}
		if newKey != "" {
			header["file_attachment"] = in.Attachment.FileName
			header["file_id"] = newKey
		}

		if id == 0 {
			header["uid_request"] = actor.UserID
			header["status_request"] = int64(StatusPending)
			header["created"] = now
			newID, err := q.Insert(ctx, store.TableRequestAdmin, header)
			if err != nil {
				return fmt.Errorf("insert request admin: %w", err)
			}
			id = newID
		} else {
			current, err := loadRequestAdminHeader(ctx, q, id)
			if err != nil {
				return err
			}
			if current.Locked() {
				return stateViolationf("request admin %d is locked (status %s)", id, current.Status)
			}
			if newKey != "" {
				replacedKey = current.FileKey
			}
			if _, err := q.Update(ctx, store.TableRequestAdmin, header, store.Eq("id_request_admin", id)); err != nil {
				return fmt.Errorf("update request admin: %w", err)
			}
		}

		lines := make([]store.Row, len(in.Lines))
		for i, l := range in.Lines {
			lines[i] = store.Row{
				"id_product":  l.ProductID,
				"qty_request": l.Qty,
				"status":      int64(StatusPending),
			}
		}
		return store.ReplaceChildren(ctx, q, store.TableRequestAdminDetail, store.Eq("id_request_admin", id), lines)
	})
	if err != nil {
		if newKey != "" {
			s.removeAttachment(ctx, newKey)
		}
		return 0, s.opts.observe(op, persistence(s.opts.Logger, op, err, "id_request_admin", in.ID))
	}
	if replacedKey != "" {
		s.removeAttachment(ctx, replacedKey)
	}
	s.opts.Logger.Info("request admin saved", "id_request_admin", id, "lines", len(in.Lines), "uid", actor.UserID)
	return id, s.opts.observe(op, nil)
}

func (s *requestAdminService) Delete(ctx context.Context, actor Actor, id int64) error {
	const op = "request_admin.delete"
	var fileKey string
	err := s.store.WithTx(ctx, func(q store.Querier) error {
		current, err := loadRequestAdminHeader(ctx, q, id)
		if err != nil {
			return err
		}
		if current.Locked() {
			return stateViolationf("request admin %d is locked (status %s)", id, current.Status)
		}
		fileKey = current.FileKey
		if _, err := q.Delete(ctx, store.TableRequestAdminDetail, store.Eq("id_request_admin", id)); err != nil {
			return fmt.Errorf("delete request admin lines: %w", err)
		}
		if _, err := q.Delete(ctx, store.TableRequestAdmin, store.Eq("id_request_admin", id)); err != nil {
			return fmt.Errorf("delete request admin: %w", err)
		}
		return nil
	})
	if err != nil {
		return s.opts.observe(op, persistence(s.opts.Logger, op, err, "id_request_admin", id))
	}
	if fileKey != "" {
		s.removeAttachment(ctx, fileKey)
	}
	s.opts.Logger.Info("request admin deleted", "id_request_admin", id, "uid", actor.UserID)
	return s.opts.observe(op, nil)
}

func (s *requestAdminService) removeAttachment(ctx context.Context, key string) {
	if _, err := s.files.Delete(ctx, key); err != nil {
		s.opts.Logger.Warn("attachment cleanup failed", "key", key, "error", err)
	}
}

func (s *requestAdminService) Get(ctx context.Context, id int64) (*RequestAdmin, error) {
	r, err := loadRequestAdminHeader(ctx, s.store, id)
	if err != nil {
		return nil, persistence(s.opts.Logger, "request_admin.get", err)
	}
	rows, err := s.store.SelectWhere(ctx, store.TableRequestAdminDetail, store.Select{
		Fields:  store.SchemaOf(store.TableRequestAdminDetail).Columns,
		Where:   []store.Cond{store.Eq("id_request_admin", id)},
		OrderBy: "id_request_admin_detail",
	})
	if err != nil {
		return nil, persistence(s.opts.Logger, "request_admin.get", err)
	}
	for _, row := range rows {
		r.Lines = append(r.Lines, RequestAdminLine{
			ID:        row.Int64("id_request_admin_detail"),
			ProductID: row.Int64("id_product"),
			Qty:       row.Decimal("qty_request"),
			Status:    Status(row.Int64("status")),
		})
	}
	return r, nil
}

func (s *requestAdminService) Summarize(ctx context.Context, ids []int64) (*ProductionPlan, error) {
	if len(ids) == 0 {
		return nil, validationf("no request admin selected")
	}
	plan, err := summarize(ctx, s.store, ids)
	if err != nil {
		return nil, persistence(s.opts.Logger, "request_admin.summarize", err)
	}
	return plan, nil
}

func (s *requestAdminService) OpenAttachment(ctx context.Context, id int64) (attachment.Info, io.ReadCloser, error) {
	r, err := loadRequestAdminHeader(ctx, s.store, id)
	if err != nil {
		return attachment.Info{}, nil, persistence(s.opts.Logger, "request_admin.attachment", err)
	}
	if r.FileKey == "" {
		return attachment.Info{}, nil, notFoundf("request admin %d has no attachment", id)
	}
	info, rc, err := s.files.Get(ctx, r.FileKey)
	if errors.Is(err, attachment.ErrNotFound) {
		return attachment.Info{}, nil, notFoundf("attachment of request admin %d", id)
	}
	if err != nil {
		return attachment.Info{}, nil, persistence(s.opts.Logger, "request_admin.attachment", err, "key", r.FileKey)
	}
	if info.FileName == "" {
		info.FileName = r.FileName
	}
	return info, rc, nil
}

func loadRequestAdminHeader(ctx context.Context, q store.Querier, id int64) (*RequestAdmin, error) {
	row, err := q.SelectByID(ctx, store.TableRequestAdmin, requestAdminFields, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFoundf("request admin %d", id)
	}
	if err != nil {
		return nil, err
	}
	return requestAdminFromRow(row), nil
}

func requestAdminFromRow(row store.Row) *RequestAdmin {
	return &RequestAdmin{
		ID:                  row.Int64("id_request_admin"),
		RequestNumber:       row.String("no_request"),
		RequestDate:         row.Time("tgl_request"),
		RequesterID:         row.Int64("uid_request"),
		OrdererName:         row.String("nama_pemesan"),
		Description:         row.String("keterangan"),
		Status:              Status(row.Int64("status_request")),
		FileName:            row.String("file_attachment"),
		FileKey:             row.String("file_id"),
		ProductionProcessID: row.NullInt64("id_production_process"),
		ChangedBy:           row.Int64("uid_changed"),
		Created:             row.Time("created"),
		Changed:             row.Time("changed"),
	}
}

func checkProductsExist(ctx context.Context, q store.Querier, lines []LineInput) error {
	ids := make([]int64, 0, len(lines))
	seen := make(map[int64]bool, len(lines))
	for _, l := range lines {
		if !seen[l.ProductID] {
			seen[l.ProductID] = true
			ids = append(ids, l.ProductID)
		}
	}
	rows, err := q.SelectByIDs(ctx, store.TableProduct, []string{"product_id"}, ids)
	if err != nil {
		return fmt.Errorf("load products: %w", err)
	}
	found := make(map[int64]bool, len(rows))
	for _, r := range rows {
		found[r.Int64("product_id")] = true
	}
	for _, id := range ids {
		if !found[id] {
			return validationf("unknown product %d", id)
		}
	}
	return nil
}

// summarize aggregates the line items of the given intake requests.
func summarize(ctx context.Context, q store.Querier, ids []int64) (*ProductionPlan, error) {
	where := []store.Cond{store.InIDs("id_request_admin", ids)}
	total := []store.Aggregate{{Func: store.AggSum, Field: "qty_request", Alias: "total_qty"}}

	byWeight, err := q.SelectWhere(ctx, store.TableRequestAdminDetail, store.Select{
		Join: &store.Join{
			Table: store.TableProduct, Alias: "p",
			LocalField: "id_product", ForeignField: "product_id",
			Fields: []string{"gramasi"},
		},
		Aggregates: total,
		Where:      where,
		GroupBy:    []string{"p.gramasi"},
		OrderBy:    "p.gramasi",
	})
	if err != nil {
		return nil, fmt.Errorf("sum by weight class: %w", err)
	}
	byProduct, err := q.SelectWhere(ctx, store.TableRequestAdminDetail, store.Select{
		Fields: []string{"id_product"},
		Join: &store.Join{
			Table: store.TableProduct, Alias: "p",
			LocalField: "id_product", ForeignField: "product_id",
			Fields: []string{"product_name"},
		},
		Aggregates: total,
		Where:      where,
		GroupBy:    []string{"id_product", "p.product_name"},
		OrderBy:    "id_product",
	})
	if err != nil {
		return nil, fmt.Errorf("sum by product: %w", err)
	}

	plan := &ProductionPlan{}
	for _, r := range byWeight {
		plan.WeightClasses = append(plan.WeightClasses, WeightClassQty{
			WeightClass: r.Decimal("gramasi"),
			Qty:         r.Decimal("total_qty"),
		})
	}
	for _, r := range byProduct {
		plan.Products = append(plan.Products, ProductQty{
			ProductID:   r.Int64("id_product"),
			ProductName: r.String("product_name"),
			Qty:         r.Decimal("total_qty"),
		})
	}
	return plan, nil
}
