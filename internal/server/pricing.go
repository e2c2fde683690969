package server

import (
	"context"
	"fmt"
	"net/http"

	"git.appkode.ru/pub/go/failure"
	"github.com/samber/lo"

	"melidash/internal/domain"
	"melidash/internal/domain/entity"
	"melidash/internal/domain/value"
	"melidash/internal/worker"
	"melidash/pkg/errcodes"
	"melidash/pkg/httpx/reply"
	"melidash/pkg/httpx/req"
	"melidash/pkg/rest"
)

type pricingService interface {
	ListProducts(ctx context.Context) ([]entity.Product, error)
	ListRules(ctx context.Context) []entity.PricingRule
	GetRule(ctx context.Context, id string) (entity.PricingRule, error)
	CreateRule(ctx context.Context, rule entity.PricingRule) (entity.PricingRule, error)
	UpdateRule(ctx context.Context, id string, rule entity.PricingRule) (entity.PricingRule, error)
	DeleteRule(ctx context.Context, id string) error
	ToggleRule(ctx context.Context, id string) (entity.PricingRule, error)
	PreviewRule(ctx context.Context, ruleID, productID string) (entity.PreviewResult, error)
	RunAutomation(ctx context.Context, productIDs []string) ([]entity.PricingExecution, error)
	GetExecutionHistory(ctx context.Context, filter entity.ExecutionFilter) []entity.PricingExecution
	GetAlerts(ctx context.Context, onlyUnacknowledged bool) []entity.PricingAlert
	AcknowledgeAlert(ctx context.Context, id string) (entity.PricingAlert, error)
	GetStats(ctx context.Context) entity.PricingStats
	GetCompetitorData(ctx context.Context, productID string, refresh bool) ([]entity.CompetitorData, error)
}

type scheduler interface {
	Start(ctx context.Context) error
	Stop()
	Status() worker.SchedulerStatus
}

type taskQueue interface {
	EnqueueRun(ctx context.Context, productIDs []string) (string, error)
}

type PricingServer struct {
	pricingService pricingService
	scheduler      scheduler
	taskQueue      taskQueue
}

// NewPricingServer accepts a nil task queue when Redis is not configured.
func NewPricingServer(pricingService pricingService, scheduler scheduler, taskQueue taskQueue) PricingServer {
	return PricingServer{
		pricingService: pricingService,
		scheduler:      scheduler,
		taskQueue:      taskQueue,
	}
}

func (s PricingServer) getProducts(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	products, err := s.pricingService.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("pricingService.ListProducts: %w", err)
	}

	reply.Success(ctx, w, http.StatusOK, lo.Map(products, func(p entity.Product, _ int) rest.Product {
		return newRESTProduct(p)
	}))

	return nil
}

func (s PricingServer) getRules(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	rules := s.pricingService.ListRules(ctx)

	reply.Success(ctx, w, http.StatusOK, lo.Map(rules, func(rule entity.PricingRule, _ int) rest.PricingRule {
		return newRESTRule(rule)
	}))

	return nil
}

func (s PricingServer) getRule(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	rule, err := s.pricingService.GetRule(ctx, r.PathValue("id"))
	if err != nil {
		return fmt.Errorf("pricingService.GetRule: %w", err)
	}

	reply.Success(ctx, w, http.StatusOK, newRESTRule(rule))

	return nil
}

func (s PricingServer) postRule(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	rule, err := readRule(r)
	if err != nil {
		return err
	}

	created, err := s.pricingService.CreateRule(ctx, rule)
	if err != nil {
		return fmt.Errorf("pricingService.CreateRule: %w", err)
	}

	reply.Success(ctx, w, http.StatusCreated, newRESTRule(created))

	return nil
}

func (s PricingServer) putRule(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	rule, err := readRule(r)
	if err != nil {
		return err
	}

	updated, err := s.pricingService.UpdateRule(ctx, r.PathValue("id"), rule)
	if err != nil {
		return fmt.Errorf("pricingService.UpdateRule: %w", err)
	}

	reply.Success(ctx, w, http.StatusOK, newRESTRule(updated))

	return nil
}

func (s PricingServer) deleteRule(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	if err := s.pricingService.DeleteRule(ctx, r.PathValue("id")); err != nil {
		return fmt.Errorf("pricingService.DeleteRule: %w", err)
	}

	reply.NoContent(w)

	return nil
}

func (s PricingServer) postToggleRule(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	rule, err := s.pricingService.ToggleRule(ctx, r.PathValue("id"))
	if err != nil {
		return fmt.Errorf("pricingService.ToggleRule: %w", err)
	}

	reply.Success(ctx, w, http.StatusOK, newRESTRule(rule))

	return nil
}

func (s PricingServer) postPreviewRule(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.PreviewRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	preview, err := s.pricingService.PreviewRule(ctx, r.PathValue("id"), request.ProductID)
	if err != nil {
		return fmt.Errorf("pricingService.PreviewRule: %w", err)
	}

	reply.Success(ctx, w, http.StatusOK, newRESTPreview(preview))

	return nil
}

func (s PricingServer) postRun(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	request, err := readRunRequest(r)
	if err != nil {
		return err
	}

	executions, err := s.pricingService.RunAutomation(ctx, request.ProductIDs)
	if err != nil {
		return fmt.Errorf("pricingService.RunAutomation: %w", err)
	}

	reply.Success(ctx, w, http.StatusOK, newRESTRunResult(executions))

	return nil
}

func (s PricingServer) postRunAsync(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	if s.taskQueue == nil {
		return domain.NewError(errcodes.Unavailable, "task queue is not configured")
	}

	request, err := readRunRequest(r)
	if err != nil {
		return err
	}

	taskID, err := s.taskQueue.EnqueueRun(ctx, request.ProductIDs)
	if err != nil {
		return fmt.Errorf("taskQueue.EnqueueRun: %w", err)
	}

	reply.Success(ctx, w, http.StatusAccepted, rest.AsyncRunResult{TaskID: taskID, Queue: worker.QueuePricing})

	return nil
}

func (s PricingServer) getExecutions(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	query := r.URL.Query()

	limit, err := req.QueryInt(r, "limit", 0)
	if err != nil {
		return fmt.Errorf("req.QueryInt: %w", err)
	}

	status := value.ExecutionStatus(query.Get("status"))
	if status != "" && !lo.Contains([]value.ExecutionStatus{
		value.ExecutionSuccess, value.ExecutionFailed, value.ExecutionSkipped,
	}, status) {
		return failure.NewInvalidArgumentError(
			"invalid status",
			failure.WithCode(errcodes.ValidationError),
			failure.WithDescription(fmt.Sprintf("unknown execution status %q", status)),
		)
	}

	executions := s.pricingService.GetExecutionHistory(ctx, entity.ExecutionFilter{
		RuleID:    query.Get("ruleId"),
		ProductID: query.Get("productId"),
		Status:    status,
		Limit:     limit,
	})

	reply.Success(ctx, w, http.StatusOK, lo.Map(executions, func(e entity.PricingExecution, _ int) rest.PricingExecution {
		return newRESTExecution(e)
	}))

	return nil
}

func (s PricingServer) getAlerts(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	unacknowledged, err := req.QueryBool(r, "unacknowledged")
	if err != nil {
		return fmt.Errorf("req.QueryBool: %w", err)
	}

	alerts := s.pricingService.GetAlerts(ctx, lo.FromPtr(unacknowledged))

	reply.Success(ctx, w, http.StatusOK, lo.Map(alerts, func(a entity.PricingAlert, _ int) rest.PricingAlert {
		return newRESTAlert(a)
	}))

	return nil
}

func (s PricingServer) postAcknowledgeAlert(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	alert, err := s.pricingService.AcknowledgeAlert(ctx, r.PathValue("id"))
	if err != nil {
		return fmt.Errorf("pricingService.AcknowledgeAlert: %w", err)
	}

	reply.Success(ctx, w, http.StatusOK, newRESTAlert(alert))

	return nil
}

func (s PricingServer) getStats(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	reply.Success(ctx, w, http.StatusOK, newRESTStats(s.pricingService.GetStats(ctx)))

	return nil
}

func (s PricingServer) getCompetitors(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	refresh, err := req.QueryBool(r, "refresh")
	if err != nil {
		return fmt.Errorf("req.QueryBool: %w", err)
	}

	data, err := s.pricingService.GetCompetitorData(ctx, r.PathValue("productId"), lo.FromPtr(refresh))
	if err != nil {
		return fmt.Errorf("pricingService.GetCompetitorData: %w", err)
	}

	reply.Success(ctx, w, http.StatusOK, lo.Map(data, func(c entity.CompetitorData, _ int) rest.CompetitorData {
		return newRESTCompetitorData(c)
	}))

	return nil
}

func (s PricingServer) getScheduler(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	reply.Success(ctx, w, http.StatusOK, newRESTSchedulerStatus(s.scheduler.Status()))

	return nil
}

func (s PricingServer) postSchedulerStart(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	if err := s.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("scheduler.Start: %w", err)
	}

	reply.Success(ctx, w, http.StatusOK, newRESTSchedulerStatus(s.scheduler.Status()))

	return nil
}

func (s PricingServer) postSchedulerStop(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	s.scheduler.Stop()

	reply.Success(ctx, w, http.StatusOK, newRESTSchedulerStatus(s.scheduler.Status()))

	return nil
}

func readRule(r *http.Request) (entity.PricingRule, error) {
	var request rest.PricingRuleInput

	if err := req.Read(r, &request); err != nil {
		return entity.PricingRule{}, fmt.Errorf("req.Read: %w", err)
	}

	rule, err := newDomainRule(request)
	if err != nil {
		return entity.PricingRule{}, failure.NewInvalidArgumentErrorFromError(
			fmt.Errorf("newDomainRule: %w", err),
			failure.WithCode(errcodes.InvalidRule),
			failure.WithDescription(err.Error()),
		)
	}

	return rule, nil
}

// An empty body runs every product.
func readRunRequest(r *http.Request) (rest.RunRequest, error) {
	var request rest.RunRequest

	if r.ContentLength == 0 {
		return request, nil
	}

	if err := req.Read(r, &request); err != nil {
		return rest.RunRequest{}, fmt.Errorf("req.Read: %w", err)
	}

	return request, nil
}
