package core

import (
	"context"
	"time"

	"minigold/internal/store"
)

// ProductStock is the on-hand quantity of a finished product.
type ProductStock struct {
	ID          int64     `json:"id"`
	ProductID   int64     `json:"id_product"`
	ProductName string    `json:"product_name"`
	Qty         int64     `json:"qty"`
	ChangedBy   int64     `json:"uid_changed"`
	Changed     time.Time `json:"changed"`
}

// StockPosting is one delivered packaging line to be added to stock.
type StockPosting struct {
	ProductID       int64 `json:"id_product"`
	PackagingID     int64 `json:"id_request_packaging"`
	PackagingLineID int64 `json:"id_request_packaging_detail"`
	Qty             int64 `json:"qty"`
}

// StockMovement is the audit record written for every posting.
type StockMovement struct {
	ID              int64     `json:"id"`
	ProductID       int64     `json:"id_product"`
	PackagingID     int64     `json:"id_request_packaging"`
	PackagingLineID int64     `json:"id_request_packaging_detail"`
	Qty             int64     `json:"qty"`
	QtyAfter        int64     `json:"qty_after"`
	CreatedBy       int64     `json:"uid_created"`
	Created         time.Time `json:"created"`
}

// StockLedger maintains product stock.
type StockLedger interface {
	// PostTx adds p.Qty to the product's stock inside the caller's transaction,
	// creating the stock row on first delivery. A zero quantity posts nothing and returns nil.
	PostTx(ctx context.Context, q store.Querier, actor Actor, now time.Time, p StockPosting) (*StockMovement, error)
	GetStock(ctx context.Context, productID int64) (*ProductStock, error)
	ListStock(ctx context.Context) ([]ProductStock, error)
	ListMovements(ctx context.Context, productID int64) ([]StockMovement, error)
}
