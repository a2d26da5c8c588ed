// Package agent orchestrates the query pipeline: classify the operator's
// free-text query, run the matching read-only inventory operation, and render
// the result as markdown chat text.
package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/opsdesk/aws-agent/models"
	"github.com/opsdesk/aws-agent/render"
	"github.com/opsdesk/aws-agent/services"
	"github.com/opsdesk/aws-agent/services/intent"
)

// Cloud is the read-only inventory surface the agent dispatches to. The AWS
// provider implements it; tests substitute a mock.
type Cloud interface {
	AccountID() string
	Identity(ctx context.Context) (*models.Identity, error)
	ListInstances(ctx context.Context) ([]models.Instance, error)
	FindInstanceByName(ctx context.Context, name string) (*models.Instance, error)
	InstanceHealth(ctx context.Context, inst models.Instance) (*models.InstanceHealth, error)
	InstanceMetrics(ctx context.Context, instanceID string, lookback time.Duration) ([]models.MetricSeries, error)
	ListVPCs(ctx context.Context) ([]models.VPC, error)
	ListAddresses(ctx context.Context) ([]models.Address, error)
	ListDatabases(ctx context.Context) ([]models.DBInstance, error)
	ListBuckets(ctx context.Context) ([]models.Bucket, error)
	ListLoadBalancers(ctx context.Context) ([]models.LoadBalancer, error)
	ListClusters(ctx context.Context) ([]models.Cluster, error)
	ListIAMUsers(ctx context.Context) ([]models.IAMUser, error)
	CostSummary(ctx context.Context) (*models.CostSummary, error)
	ListResourceGroups(ctx context.Context) ([]models.ResourceGroup, error)
	QueryResourcesByType(ctx context.Context, resourceType string) ([]models.Resource, error)
	ResourceTypeCatalog(ctx context.Context) ([]string, error)
}

// Recorder persists processed queries for audit. Implementations must never
// fail the request; errors are theirs to log and drop.
type Recorder interface {
	Record(ctx context.Context, rec *models.QueryRecord)
}

// RequestMeta carries per-request context into the audit trail.
type RequestMeta struct {
	RequestID string
	IPAddress string
	UserAgent string
}

// Result is the outcome of one processed query. Text is always populated:
// cloud failures are reported as chat text, the way an assistant would answer.
type Result struct {
	Text    string
	Match   intent.Match
	Outcome models.QueryOutcome
	Err     error
}

// Service runs the classify → dispatch → render pipeline.
type Service struct {
	cloud          Cloud
	classifier     *intent.Classifier
	recorder       Recorder
	metricLookback time.Duration
	logger         *zap.Logger
}

// NewService creates the agent service. recorder may be nil when auditing is
// not configured.
func NewService(cloud Cloud, classifier *intent.Classifier, recorder Recorder, metricLookback time.Duration, logger *zap.Logger) *Service {
	if metricLookback <= 0 {
		metricLookback = time.Hour
	}
	return &Service{
		cloud:          cloud,
		classifier:     classifier,
		recorder:       recorder,
		metricLookback: metricLookback,
		logger:         logger,
	}
}

// ProcessQuery classifies query, runs the matched operation, and returns the
// rendered chat text. Only an empty query is an error; everything downstream
// is reported in Result.Text so the chat front end always gets an answer.
func (s *Service) ProcessQuery(ctx context.Context, query string, meta RequestMeta) (*Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, services.ErrEmptyQuery
	}

	start := time.Now()
	match := s.classifier.Classify(ctx, query)

	s.logger.Info("processing query",
		zap.String("request_id", meta.RequestID),
		zap.String("intent", match.Kind.String()),
		zap.String("rule", match.Rule))

	result := s.dispatch(ctx, match)
	result.Match = match

	if s.recorder != nil {
		rec := models.NewQueryRecord(query)
		rec.RequestID = meta.RequestID
		rec.Intent = match.Kind.String()
		rec.Outcome = result.Outcome
		if result.Err != nil {
			rec.Error = result.Err.Error()
		}
		rec.LatencyMs = int(time.Since(start).Milliseconds())
		rec.IPAddress = meta.IPAddress
		rec.UserAgent = meta.UserAgent
		s.recorder.Record(ctx, rec)
	}

	s.logger.Info("query processed",
		zap.String("request_id", meta.RequestID),
		zap.String("intent", match.Kind.String()),
		zap.String("outcome", string(result.Outcome)),
		zap.Duration("latency", time.Since(start)))

	return result, nil
}

// dispatch runs the operation selected by match and renders its result.
func (s *Service) dispatch(ctx context.Context, match intent.Match) *Result {
	switch match.Kind {
	case intent.ListInstances:
		instances, err := s.cloud.ListInstances(ctx)
		if err != nil {
			return s.cloudError("instances", err)
		}
		return ok(render.Instances(s.cloud.AccountID(), instances))

	case intent.InstanceStatus:
		return s.instanceStatus(ctx, match.Target)

	case intent.Metrics:
		return s.instanceMetrics(ctx, match.Target)

	case intent.ListResourceGroups:
		groups, err := s.cloud.ListResourceGroups(ctx)
		if err != nil {
			return s.cloudError("resource groups", err)
		}
		return ok(render.ResourceGroups(groups))

	case intent.ListNetworks:
		vpcs, err := s.cloud.ListVPCs(ctx)
		if err != nil {
			return s.cloudError("VPCs", err)
		}
		return ok(render.VPCs(s.cloud.AccountID(), vpcs))

	case intent.ListAddresses:
		addresses, err := s.cloud.ListAddresses(ctx)
		if err != nil {
			return s.cloudError("Elastic IPs", err)
		}
		return ok(render.Addresses(s.cloud.AccountID(), addresses))

	case intent.ListDatabases:
		databases, err := s.cloud.ListDatabases(ctx)
		if err != nil {
			return s.cloudError("databases", err)
		}
		return ok(render.Databases(databases))

	case intent.ListBuckets:
		buckets, err := s.cloud.ListBuckets(ctx)
		if err != nil {
			return s.cloudError("buckets", err)
		}
		return ok(render.Buckets(buckets))

	case intent.ListLoadBalancers:
		balancers, err := s.cloud.ListLoadBalancers(ctx)
		if err != nil {
			return s.cloudError("load balancers", err)
		}
		return ok(render.LoadBalancers(balancers))

	case intent.ListClusters:
		clusters, err := s.cloud.ListClusters(ctx)
		if err != nil {
			return s.cloudError("clusters", err)
		}
		return ok(render.Clusters(clusters))

	case intent.Costs:
		summary, err := s.cloud.CostSummary(ctx)
		if err != nil {
			return s.cloudError("costs", err)
		}
		return ok(render.Costs(*summary))

	case intent.ListIAMUsers:
		users, err := s.cloud.ListIAMUsers(ctx)
		if err != nil {
			return s.cloudError("IAM users", err)
		}
		return ok(render.IAMUsers(users))

	case intent.Identity:
		ident, err := s.cloud.Identity(ctx)
		if err != nil {
			return s.cloudError("caller identity", err)
		}
		return ok(render.Identity(*ident))

	case intent.Discover:
		resources, err := s.cloud.QueryResourcesByType(ctx, match.ResourceType)
		if err != nil {
			return s.cloudError(match.Keyword+" resources", err)
		}
		return ok(render.Resources(match.Keyword, resources))

	default:
		return &Result{Text: render.Help(), Outcome: models.QueryOutcomeUnmatched}
	}
}

// instanceStatus resolves the named instance and renders its health view.
func (s *Service) instanceStatus(ctx context.Context, name string) *Result {
	inst, err := s.cloud.FindInstanceByName(ctx, name)
	if err != nil {
		return s.cloudError("status for `"+name+"`", err)
	}
	if inst == nil {
		return ok(fmt.Sprintf("Could not find an instance named `%s` in the account.", name))
	}

	health, err := s.cloud.InstanceHealth(ctx, *inst)
	if err != nil {
		return s.cloudError("status for `"+name+"`", err)
	}
	return ok(render.InstanceHealth(*health))
}

// instanceMetrics resolves the named instance and renders its latest CPU
// datapoints.
func (s *Service) instanceMetrics(ctx context.Context, name string) *Result {
	inst, err := s.cloud.FindInstanceByName(ctx, name)
	if err != nil {
		return s.cloudError("metrics for `"+name+"`", err)
	}
	if inst == nil {
		return ok(fmt.Sprintf("Could not find an instance named `%s` to fetch metrics.", name))
	}

	series, err := s.cloud.InstanceMetrics(ctx, inst.InstanceID, s.metricLookback)
	if err != nil {
		return s.cloudError("metrics for `"+name+"`", err)
	}
	return ok(render.Metrics(inst.DisplayName(), series))
}

// cloudError wraps a provider failure as chat text. The HTTP layer still
// returns 200: cloud errors surface inside the assistant message, not as
// transport failures.
func (s *Service) cloudError(what string, err error) *Result {
	s.logger.Error("cloud query failed", zap.String("what", what), zap.Error(err))
	return &Result{
		Text:    fmt.Sprintf("Error fetching %s: %v", what, err),
		Outcome: models.QueryOutcomeError,
		Err:     services.WrapExternal("fetch "+what, err),
	}
}

func ok(text string) *Result {
	return &Result{Text: text, Outcome: models.QueryOutcomeOK}
}
