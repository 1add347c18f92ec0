package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Stage names the two parallel stages fed by a production run.
type Stage string

const (
	StageProduksi  Stage = "produksi"
	StageKemasan   Stage = "kemasan"
	StagePackaging Stage = "packaging"
)

// ProductionRunInput selects pending intake requests for one production run.
// WeightClasses and Products carry the operator-reviewed aggregate; when both are
// empty they are computed from the selected requests.
type ProductionRunInput struct {
	AdminIDs        []int64          `json:"request_admin_ids,omitempty"`
	RequestDate     time.Time        `json:"tgl_request"`
	ProductionNotes string           `json:"keterangan_produksi"`
	KemasanNotes    string           `json:"keterangan_kemasan"`
	WeightClasses   []WeightClassQty `json:"kepingan,omitempty"`
	Products        []ProductQty     `json:"products,omitempty"`
}

// ProductionProcess is the envelope of one produksi, one kemasan and one packaging record.
type ProductionProcess struct {
	ID        int64      `json:"id"`
	StartAt   time.Time  `json:"tgl_start"`
	EndAt     *time.Time `json:"tgl_end,omitempty"`
	CreatedBy int64      `json:"uid_created"`
	ChangedBy int64      `json:"uid_changed"`
	Created   time.Time  `json:"created"`
	Changed   time.Time  `json:"changed"`
}

// StageRecord is a produksi or kemasan header with its lines.
type StageRecord struct {
	Stage       Stage       `json:"stage"`
	ID          int64       `json:"id"`
	ProcessID   int64       `json:"id_production_process"`
	RequestDate time.Time   `json:"tgl_request"`
	Notes       string      `json:"keterangan"`
	Status      Status      `json:"status"`
	PackagingID *int64      `json:"id_request_packaging,omitempty"`
	ChangedBy   int64       `json:"uid_changed"`
	Created     time.Time   `json:"created"`
	Changed     time.Time   `json:"changed"`
	AdminIDs    []int64     `json:"request_admin_ids,omitempty"`
	Lines       []StageLine `json:"lines,omitempty"`
}

// StageLine is a produksi line (weight class) or a kemasan line (product).
type StageLine struct {
	ID int64 `json:"id"`
	// ProductID is set on kemasan lines.
	ProductID int64 `json:"id_product"`
	// Unit and WeightClass are set on produksi lines.
	Unit        string          `json:"satuan"`
	WeightClass decimal.Decimal `json:"gramasi"`
	QtyRequest  decimal.Decimal `json:"qty_request"`
	QtyActual   decimal.Decimal `json:"qty_actual"`
}

// LineQty revises the quantity of one stage line.
type LineQty struct {
	LineID int64           `json:"line_id"`
	Qty    decimal.Decimal `json:"qty"`
}

// StageUpdate advances a produksi or kemasan record.
type StageUpdate struct {
	ID        int64     `json:"id"`
	ProcessID int64     `json:"id_production_process"`
	Lines     []LineQty `json:"lines,omitempty"`
	Notes     string    `json:"keterangan"`
	Status    Status    `json:"status"`
}

// Packaging is the merge point of a production run.
type Packaging struct {
	ID             int64           `json:"id"`
	ProcessID      int64           `json:"id_production_process"`
	ProduksiID     *int64          `json:"id_request_produksi,omitempty"`
	KemasanID      *int64          `json:"id_request_kemasan,omitempty"`
	FromKemasanAt  *time.Time      `json:"tgl_request_from_kemasan,omitempty"`
	FromProduksiAt *time.Time      `json:"tgl_request_from_produksi,omitempty"`
	Status         Status          `json:"status"`
	Notes          string          `json:"keterangan"`
	ChangedBy      int64           `json:"uid_changed"`
	Created        time.Time       `json:"created"`
	Changed        time.Time       `json:"changed"`
	Lines          []PackagingLine `json:"lines,omitempty"`
}

// PackagingLine is seeded from a produksi line (WeightClass set) or a kemasan line (ProductID set).
type PackagingLine struct {
	ID          int64            `json:"id"`
	ProductID   *int64           `json:"id_product,omitempty"`
	WeightClass *decimal.Decimal `json:"gramasi,omitempty"`
	QtyProduct  decimal.Decimal  `json:"qty_product"`
	QtyKeping   decimal.Decimal  `json:"qty_keping"`
	FinalQty    decimal.Decimal  `json:"final_qty_product"`
}

// PackagingLineQty sets the final quantity of one packaging line.
type PackagingLineQty struct {
	LineID   int64           `json:"line_id"`
	FinalQty decimal.Decimal `json:"final_qty_product"`
}

// PackagingUpdate finalizes a packaging record.
type PackagingUpdate struct {
	ID     int64              `json:"id"`
	Lines  []PackagingLineQty `json:"lines,omitempty"`
	Notes  string             `json:"keterangan"`
	Status Status             `json:"status"`
}

// ProductionRun is the full read view of a production process.
type ProductionRun struct {
	Process   ProductionProcess `json:"process"`
	AdminIDs  []int64           `json:"request_admin_ids,omitempty"`
	Produksi  *StageRecord      `json:"produksi,omitempty"`
	Kemasan   *StageRecord      `json:"kemasan,omitempty"`
	Packaging *Packaging        `json:"packaging,omitempty"`
}

// WorkflowService drives a production run from intake to stock.
type WorkflowService interface {
	// CreateProductionRun fans the selected requests out into one process with a
	// produksi and a kemasan record and returns the linked request ids.
	CreateProductionRun(ctx context.Context, actor Actor, in ProductionRunInput) ([]int64, error)
	AdvanceProduction(ctx context.Context, actor Actor, in StageUpdate) (int64, error)
	AdvanceKemasan(ctx context.Context, actor Actor, in StageUpdate) (int64, error)
	// FinalizePackaging updates packaging; on Delivered it posts stock and closes the run.
	FinalizePackaging(ctx context.Context, actor Actor, in PackagingUpdate) (int64, error)
	// DeletePackaging removes an undelivered packaging and returns its stages to OnProcess.
	DeletePackaging(ctx context.Context, actor Actor, id int64) error

	GetProduksi(ctx context.Context, id int64) (*StageRecord, error)
	GetKemasan(ctx context.Context, id int64) (*StageRecord, error)
	GetPackaging(ctx context.Context, id int64) (*Packaging, error)
	GetProductionRun(ctx context.Context, processID int64) (*ProductionRun, error)
}
