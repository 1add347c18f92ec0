package app

import (
	"context"
	"io"

	"minigold/internal/attachment"
	"minigold/internal/core"
)

// ApplicationService is the single interface all adapters (CLI, Web) call.
// It decouples presentation from the workflow services: request types are
// validated here, and results carry no display logic.
type ApplicationService interface {
	// AuthenticateUser verifies credentials and returns a session on success.
	AuthenticateUser(ctx context.Context, username, password string) (*UserSession, error)

	// GetUser returns the operator profile by ID.
	GetUser(ctx context.Context, userID int64) (*UserResult, error)

	// CreateUser registers an operator account.
	CreateUser(ctx context.Context, req CreateUserRequest) (*UserResult, error)

	// Statuses returns the status taxonomy in code order.
	Statuses() []core.StatusInfo

	// FetchGrid returns one page of a listing table in data-table shape.
	FetchGrid(ctx context.Context, req GridRequest) (*GridResult, error)

	SearchProducts(ctx context.Context, term string, limit int) ([]core.Product, error)

	// SaveProduct creates the product when req.ID is zero and updates it otherwise.
	SaveProduct(ctx context.Context, req ProductRequest) (*core.Product, error)

	// SaveRequestAdmin creates or edits an intake request. A new request needs an attachment.
	SaveRequestAdmin(ctx context.Context, actor core.Actor, req SaveRequestAdminRequest) (*core.RequestAdmin, error)

	DeleteRequestAdmin(ctx context.Context, actor core.Actor, id int64) error

	GetRequestAdmin(ctx context.Context, id int64) (*core.RequestAdmin, error)

	// OpenAttachment streams the file uploaded with an intake request. The caller closes the reader.
	OpenAttachment(ctx context.Context, id int64) (attachment.Info, io.ReadCloser, error)

	// SummarizeRequests previews the production plan of the selected intake requests.
	SummarizeRequests(ctx context.Context, ids []int64) (*core.ProductionPlan, error)

	// CreateProductionRun starts production for the selected intake requests.
	CreateProductionRun(ctx context.Context, actor core.Actor, req CreateProductionRunRequest) (*core.ProductionRun, error)

	GetProductionRun(ctx context.Context, processID int64) (*core.ProductionRun, error)

	// AdvanceStage updates a produksi or kemasan record; On Packaging hands it to packaging.
	AdvanceStage(ctx context.Context, actor core.Actor, stage core.Stage, req StageUpdateRequest) (*core.StageRecord, error)

	GetStage(ctx context.Context, stage core.Stage, id int64) (*core.StageRecord, error)

	// FinalizePackaging updates packaging; Delivered posts stock and closes the run.
	FinalizePackaging(ctx context.Context, actor core.Actor, req PackagingUpdateRequest) (*core.Packaging, error)

	GetPackaging(ctx context.Context, id int64) (*core.Packaging, error)

	DeletePackaging(ctx context.Context, actor core.Actor, id int64) error

	ListStock(ctx context.Context) ([]core.ProductStock, error)

	ListStockMovements(ctx context.Context, productID int64) ([]core.StockMovement, error)
}
