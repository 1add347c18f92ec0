package app

import (
	"github.com/shopspring/decimal"

	"minigold/internal/core"
)

// dateLayout is the wire format of request dates.
const dateLayout = "2006-01-02"

// CreateUserRequest is the input for registering an operator.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"required,oneof=admin produksi packaging"`
}

// GridRequest is a server-side data-table request.
type GridRequest struct {
	Table       string `validate:"required"`
	Draw        int    `validate:"min=0"`
	Search      string `validate:"max=255"`
	OrderColumn int    `validate:"min=0"`
	Desc        bool
	Start       int `validate:"min=0"`
	// Length -1 returns every row.
	Length int `validate:"min=-1,max=1000"`
}

// ProductRequest is the input for creating or updating a product.
type ProductRequest struct {
	ID          int64           `json:"id" validate:"min=0"`
	Brand       string          `json:"brand" validate:"max=255"`
	Finest      string          `json:"finest" validate:"max=255"`
	Series      string          `json:"series" validate:"max=255"`
	ReleaseYear string          `json:"tahun_release" validate:"max=16"`
	Name        string          `json:"product_name" validate:"required,max=255"`
	WeightClass decimal.Decimal `json:"gramasi"`
	Size        string          `json:"ukuran" validate:"max=64"`
	Finishing   string          `json:"finishing" validate:"max=255"`
	Category    string          `json:"kategori_produk" validate:"max=255"`
}

// SaveRequestAdminRequest is the input for creating (ID zero) or editing an intake request.
type SaveRequestAdminRequest struct {
	ID            int64         `json:"id" validate:"min=0"`
	RequestNumber string        `json:"no_request" validate:"max=64"`
	RequestDate   string        `json:"tgl_request" validate:"omitempty,datetime=2006-01-02"`
	OrdererName   string        `json:"nama_pemesan" validate:"required,max=255"`
	Description   string        `json:"keterangan"`
	Lines         []RequestLine `json:"lines" validate:"required,min=1,dive"`
	// Attachment is set by the adapter from the uploaded file.
	Attachment *core.AttachmentUpload `json:"-"`
}

// RequestLine is a product line of an intake request.
type RequestLine struct {
	ProductID int64           `json:"id_product" validate:"required,gt=0"`
	Qty       decimal.Decimal `json:"qty"`
}

// CreateProductionRunRequest selects intake requests for a production run. Kepingan and
// Products carry the reviewed plan; when both are empty the plan is computed.
type CreateProductionRunRequest struct {
	AdminIDs        []int64           `json:"request_admin_ids" validate:"required,min=1,dive,gt=0"`
	RequestDate     string            `json:"tgl_request" validate:"omitempty,datetime=2006-01-02"`
	ProductionNotes string            `json:"keterangan_produksi"`
	KemasanNotes    string            `json:"keterangan_kemasan"`
	Kepingan        []WeightClassLine `json:"kepingan" validate:"dive"`
	Products        []ProductLine     `json:"products" validate:"dive"`
}

// WeightClassLine is a reviewed produksi line.
type WeightClassLine struct {
	WeightClass decimal.Decimal `json:"gramasi"`
	Qty         decimal.Decimal `json:"qty"`
}

// ProductLine is a reviewed kemasan line.
type ProductLine struct {
	ProductID int64           `json:"id_product" validate:"required,gt=0"`
	Qty       decimal.Decimal `json:"qty"`
}

// StageUpdateRequest advances a produksi or kemasan record. ID comes from the URL.
type StageUpdateRequest struct {
	ID        int64              `json:"-" validate:"required,gt=0"`
	ProcessID int64              `json:"id_production_process" validate:"required,gt=0"`
	Status    int                `json:"status" validate:"min=0,max=5"`
	Notes     string             `json:"keterangan"`
	Lines     []StageLineRequest `json:"lines" validate:"dive"`
}

// StageLineRequest revises one stage line.
type StageLineRequest struct {
	LineID int64           `json:"id" validate:"required,gt=0"`
	Qty    decimal.Decimal `json:"qty"`
}

// PackagingUpdateRequest finalizes a packaging record. ID comes from the URL.
type PackagingUpdateRequest struct {
	ID     int64                  `json:"-" validate:"required,gt=0"`
	Status int                    `json:"status" validate:"min=0,max=5"`
	Notes  string                 `json:"keterangan"`
	Lines  []PackagingLineRequest `json:"lines" validate:"dive"`
}

// PackagingLineRequest sets the final quantity of one packaging line.
type PackagingLineRequest struct {
	LineID   int64           `json:"id" validate:"required,gt=0"`
	FinalQty decimal.Decimal `json:"final_qty_product"`
}
