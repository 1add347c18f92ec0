package core

import (
	"context"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"minigold/internal/attachment"
)

// RequestAdmin is an intake request entered by an admin operator.
type RequestAdmin struct {
	ID                  int64              `json:"id"`
	RequestNumber       string             `json:"no_request"`
	RequestDate         time.Time          `json:"tgl_request"`
	RequesterID         int64              `json:"uid_request"`
	OrdererName         string             `json:"nama_pemesan"`
	Description         string             `json:"keterangan"`
	Status              Status             `json:"status"`
	FileName            string             `json:"file_attachment"`
	FileKey             string             `json:"file_id"`
	ProductionProcessID *int64             `json:"id_production_process,omitempty"`
	ChangedBy           int64              `json:"uid_changed"`
	Created             time.Time          `json:"created"`
	Changed             time.Time          `json:"changed"`
	Lines               []RequestAdminLine `json:"lines,omitempty"`
}

// Locked reports whether the request can no longer be edited or deleted.
func (r *RequestAdmin) Locked() bool {
	return r.Status.Locked() || r.ProductionProcessID != nil
}

// RequestAdminLine is one product line of an intake request.
type RequestAdminLine struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"id_product"`
	Qty       decimal.Decimal `json:"qty"`
	Status    Status          `json:"status"`
}

// LineInput is a product line submitted with an intake request.
type LineInput struct {
	ProductID int64           `json:"id_product"`
	Qty       decimal.Decimal `json:"qty"`
}

// AttachmentUpload is the file submitted with an intake request.
type AttachmentUpload struct {
	FileName    string    `json:"file_attachment"`
	ContentType string    `json:"content_type"`
	Content     io.Reader `json:"-"`
}

// SaveRequestAdminInput creates a request when ID is zero and edits it otherwise.
type SaveRequestAdminInput struct {
	ID            int64       `json:"id"`
	RequestNumber string      `json:"no_request"`
	RequestDate   time.Time   `json:"tgl_request"`
	OrdererName   string      `json:"nama_pemesan"`
	Description   string      `json:"keterangan"`
	Lines         []LineInput `json:"lines,omitempty"`
	// Attachment is required on create and replaces the stored file on edit.
	Attachment *AttachmentUpload `json:"attachment,omitempty"`
}

// WeightClassQty is a production line: a quantity of blanks of one weight class (gramasi).
type WeightClassQty struct {
	WeightClass decimal.Decimal `json:"gramasi"`
	Qty         decimal.Decimal `json:"qty"`
}

// ProductQty is a kemasan line: a quantity of one finished product.
type ProductQty struct {
	ProductID   int64           `json:"id_product"`
	ProductName string          `json:"product_name"`
	Qty         decimal.Decimal `json:"qty"`
}

// ProductionPlan is the aggregate of the line items of a set of intake requests.
type ProductionPlan struct {
	WeightClasses []WeightClassQty `json:"kepingan,omitempty"`
	Products      []ProductQty     `json:"products,omitempty"`
}

// RequestAdminService manages intake requests.
type RequestAdminService interface {
	Save(ctx context.Context, actor Actor, in SaveRequestAdminInput) (int64, error)
	// Delete removes an unlocked request with its lines and attachment.
	Delete(ctx context.Context, actor Actor, id int64) error
	Get(ctx context.Context, id int64) (*RequestAdmin, error)
	// Summarize sums the line quantities of the given requests per weight class and per product.
	Summarize(ctx context.Context, ids []int64) (*ProductionPlan, error)
	OpenAttachment(ctx context.Context, id int64) (attachment.Info, io.ReadCloser, error)
}
