package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"minigold/internal/attachment"
	"minigold/internal/core"
)

// Services groups the core services the application facade delegates to.
type Services struct {
	Users        core.UserService
	Products     core.ProductService
	RequestAdmin core.RequestAdminService
	Workflow     core.WorkflowService
	Stock        core.StockLedger
	Grid         core.GridService
}

type appService struct {
	Services
	validate *validator.Validate
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(svc Services) ApplicationService {
	return &appService{
		Services: svc,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// check runs the struct validator and reports failures as core validation errors.
func (s *appService) check(req any) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", core.ErrValidation, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", core.ErrValidation, strings.Join(msgs, "; "))
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", core.ErrValidation, s)
	}
	return t, nil
}

// ── Operators ─────────────────────────────────────────────────────────────────

func (s *appService) AuthenticateUser(ctx context.Context, username, password string) (*UserSession, error) {
	u, err := s.Users.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return &UserSession{UserID: u.ID, Username: u.Username, Role: u.Role}, nil
}

func (s *appService) GetUser(ctx context.Context, userID int64) (*UserResult, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return userResult(u), nil
}

func (s *appService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserResult, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	u, err := s.Users.Create(ctx, req.Username, req.Password, req.Role)
	if err != nil {
		return nil, err
	}
	return userResult(u), nil
}

func userResult(u *core.User) *UserResult {
	return &UserResult{UserID: u.ID, Username: u.Username, Role: u.Role, IsActive: u.IsActive}
}

// ── Listings and products ─────────────────────────────────────────────────────

func (s *appService) Statuses() []core.StatusInfo {
	return core.Statuses()
}

func (s *appService) FetchGrid(ctx context.Context, req GridRequest) (*GridResult, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	page, err := s.Grid.FetchPage(ctx, req.Table, core.GridParams{
		Search:      strings.TrimSpace(req.Search),
		OrderColumn: req.OrderColumn,
		Desc:        req.Desc,
		Start:       req.Start,
		Length:      req.Length,
	})
	if err != nil {
		return nil, err
	}
	return &GridResult{
		Draw:            req.Draw,
		RecordsTotal:    page.Total,
		RecordsFiltered: page.Filtered,
		Fields:          page.Fields,
		Data:            page.Records,
	}, nil
}

func (s *appService) SearchProducts(ctx context.Context, term string, limit int) ([]core.Product, error) {
	return s.Products.Search(ctx, term, limit)
}

func (s *appService) SaveProduct(ctx context.Context, req ProductRequest) (*core.Product, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	p := core.Product{
		ID:          req.ID,
		Brand:       req.Brand,
		Finest:      req.Finest,
		Series:      req.Series,
		ReleaseYear: req.ReleaseYear,
		Name:        req.Name,
		WeightClass: req.WeightClass,
		Size:        req.Size,
		Finishing:   req.Finishing,
		Category:    req.Category,
	}
	if p.ID == 0 {
		id, err := s.Products.Create(ctx, p)
		if err != nil {
			return nil, err
		}
		p.ID = id
	} else if err := s.Products.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.Products.Get(ctx, p.ID)
}

// ── Intake ────────────────────────────────────────────────────────────────────

func (s *appService) SaveRequestAdmin(ctx context.Context, actor core.Actor, req SaveRequestAdminRequest) (*core.RequestAdmin, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	date, err := parseDate(req.RequestDate)
	if err != nil {
		return nil, err
	}
	in := core.SaveRequestAdminInput{
		ID:            req.ID,
		RequestNumber: req.RequestNumber,
		RequestDate:   date,
		OrdererName:   req.OrdererName,
		Description:   req.Description,
		Attachment:    req.Attachment,
	}
	for _, l := range req.Lines {
		in.Lines = append(in.Lines, core.LineInput{ProductID: l.ProductID, Qty: l.Qty})
	}
	id, err := s.RequestAdmin.Save(ctx, actor, in)
	if err != nil {
		return nil, err
	}
	return s.RequestAdmin.Get(ctx, id)
}

func (s *appService) DeleteRequestAdmin(ctx context.Context, actor core.Actor, id int64) error {
	return s.RequestAdmin.Delete(ctx, actor, id)
}

func (s *appService) GetRequestAdmin(ctx context.Context, id int64) (*core.RequestAdmin, error) {
	return s.RequestAdmin.Get(ctx, id)
}

func (s *appService) OpenAttachment(ctx context.Context, id int64) (attachment.Info, io.ReadCloser, error) {
	return s.RequestAdmin.OpenAttachment(ctx, id)
}

func (s *appService) SummarizeRequests(ctx context.Context, ids []int64) (*core.ProductionPlan, error) {
	return s.RequestAdmin.Summarize(ctx, ids)
}

// ── Workflow ──────────────────────────────────────────────────────────────────

func (s *appService) CreateProductionRun(ctx context.Context, actor core.Actor, req CreateProductionRunRequest) (*core.ProductionRun, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	date, err := parseDate(req.RequestDate)
	if err != nil {
		return nil, err
	}
	in := core.ProductionRunInput{
		AdminIDs:        req.AdminIDs,
		RequestDate:     date,
		ProductionNotes: req.ProductionNotes,
		KemasanNotes:    req.KemasanNotes,
	}
	for _, k := range req.Kepingan {
		in.WeightClasses = append(in.WeightClasses, core.WeightClassQty{WeightClass: k.WeightClass, Qty: k.Qty})
	}
	for _, p := range req.Products {
		in.Products = append(in.Products, core.ProductQty{ProductID: p.ProductID, Qty: p.Qty})
	}
	ids, err := s.Workflow.CreateProductionRun(ctx, actor, in)
	if err != nil {
		return nil, err
	}
	admin, err := s.RequestAdmin.Get(ctx, ids[0])
	if err != nil {
		return nil, err
	}
	if admin.ProductionProcessID == nil {
		return nil, fmt.Errorf("%w: request admin %d was not linked", core.ErrPersistence, admin.ID)
	}
	return s.Workflow.GetProductionRun(ctx, *admin.ProductionProcessID)
}

func (s *appService) GetProductionRun(ctx context.Context, processID int64) (*core.ProductionRun, error) {
	return s.Workflow.GetProductionRun(ctx, processID)
}

func (s *appService) AdvanceStage(ctx context.Context, actor core.Actor, stage core.Stage, req StageUpdateRequest) (*core.StageRecord, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	status, err := core.ParseStatus(int64(req.Status))
	if err != nil {
		return nil, err
	}
	in := core.StageUpdate{ID: req.ID, ProcessID: req.ProcessID, Notes: req.Notes, Status: status}
	for _, l := range req.Lines {
		in.Lines = append(in.Lines, core.LineQty{LineID: l.LineID, Qty: l.Qty})
	}
	switch stage {
	case core.StageProduksi:
		_, err = s.Workflow.AdvanceProduction(ctx, actor, in)
	case core.StageKemasan:
		_, err = s.Workflow.AdvanceKemasan(ctx, actor, in)
	default:
		return nil, fmt.Errorf("%w: stage %q cannot be advanced", core.ErrValidation, stage)
	}
	if err != nil {
		return nil, err
	}
	return s.GetStage(ctx, stage, req.ID)
}

func (s *appService) GetStage(ctx context.Context, stage core.Stage, id int64) (*core.StageRecord, error) {
	switch stage {
	case core.StageProduksi:
		return s.Workflow.GetProduksi(ctx, id)
	case core.StageKemasan:
		return s.Workflow.GetKemasan(ctx, id)
	}
	return nil, fmt.Errorf("%w: unknown stage %q", core.ErrNotFound, stage)
}

func (s *appService) FinalizePackaging(ctx context.Context, actor core.Actor, req PackagingUpdateRequest) (*core.Packaging, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	status, err := core.ParseStatus(int64(req.Status))
	if err != nil {
		return nil, err
	}
	in := core.PackagingUpdate{ID: req.ID, Notes: req.Notes, Status: status}
	for _, l := range req.Lines {
		in.Lines = append(in.Lines, core.PackagingLineQty{LineID: l.LineID, FinalQty: l.FinalQty})
	}
	if _, err := s.Workflow.FinalizePackaging(ctx, actor, in); err != nil {
		return nil, err
	}
	return s.Workflow.GetPackaging(ctx, req.ID)
}

func (s *appService) GetPackaging(ctx context.Context, id int64) (*core.Packaging, error) {
	return s.Workflow.GetPackaging(ctx, id)
}

func (s *appService) DeletePackaging(ctx context.Context, actor core.Actor, id int64) error {
	return s.Workflow.DeletePackaging(ctx, actor, id)
}

// ── Stock ─────────────────────────────────────────────────────────────────────

func (s *appService) ListStock(ctx context.Context) ([]core.ProductStock, error) {
	return s.Stock.ListStock(ctx)
}

func (s *appService) ListStockMovements(ctx context.Context, productID int64) ([]core.StockMovement, error) {
	return s.Stock.ListMovements(ctx, productID)
}
