package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/opsdesk/aws-agent/app"
	"github.com/opsdesk/aws-agent/config"
	"github.com/opsdesk/aws-agent/middleware"
	"github.com/opsdesk/aws-agent/models"
	"github.com/opsdesk/aws-agent/services/agent"
	"github.com/opsdesk/aws-agent/services/intent"
)

// routeCloud is a minimal agent.Cloud for routing tests.
type routeCloud struct{}

func (routeCloud) AccountID() string { return "123456789012" }

func (routeCloud) Identity(ctx context.Context) (*models.Identity, error) {
	return &models.Identity{AccountID: "123456789012"}, nil
}

func (routeCloud) ListInstances(ctx context.Context) ([]models.Instance, error) { return nil, nil }

func (routeCloud) FindInstanceByName(ctx context.Context, name string) (*models.Instance, error) {
	return nil, nil
}

func (routeCloud) InstanceHealth(ctx context.Context, inst models.Instance) (*models.InstanceHealth, error) {
	return nil, nil
}

func (routeCloud) InstanceMetrics(ctx context.Context, instanceID string, lookback time.Duration) ([]models.MetricSeries, error) {
	return nil, nil
}

func (routeCloud) ListVPCs(ctx context.Context) ([]models.VPC, error)         { return nil, nil }
func (routeCloud) ListAddresses(ctx context.Context) ([]models.Address, error) { return nil, nil }

func (routeCloud) ListDatabases(ctx context.Context) ([]models.DBInstance, error) {
	return nil, nil
}

func (routeCloud) ListBuckets(ctx context.Context) ([]models.Bucket, error) { return nil, nil }

func (routeCloud) ListLoadBalancers(ctx context.Context) ([]models.LoadBalancer, error) {
	return nil, nil
}

func (routeCloud) ListClusters(ctx context.Context) ([]models.Cluster, error) { return nil, nil }
func (routeCloud) ListIAMUsers(ctx context.Context) ([]models.IAMUser, error) { return nil, nil }

func (routeCloud) CostSummary(ctx context.Context) (*models.CostSummary, error) {
	return &models.CostSummary{}, nil
}

func (routeCloud) ListResourceGroups(ctx context.Context) ([]models.ResourceGroup, error) {
	return nil, nil
}

func (routeCloud) QueryResourcesByType(ctx context.Context, resourceType string) ([]models.Resource, error) {
	return nil, nil
}

func (routeCloud) ResourceTypeCatalog(ctx context.Context) ([]string, error) { return nil, nil }

func newRouter(t *testing.T, auth config.AuthConfig) http.Handler {
	t.Helper()

	logger := zap.NewNop()
	cloud := routeCloud{}
	classifier := intent.NewClassifier(cloud)
	deps := &app.Dependencies{
		Config: &config.Config{
			CORS: config.CORSConfig{AllowedOrigins: []string{"*"}},
		},
		Logger:         logger,
		Cloud:          cloud,
		Agent:          agent.NewService(cloud, classifier, nil, time.Hour, logger),
		AuthMiddleware: middleware.NewAuthMiddleware(auth, logger),
	}
	return SetupRoutes(deps)
}

func TestHealthEndpoints(t *testing.T) {
	router := newRouter(t, config.AuthConfig{})

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestChatEndpointOpenWhenAuthDisabled(t *testing.T) {
	router := newRouter(t, config.AuthConfig{})

	body := strings.NewReader(`{"messages":[{"role":"user","content":"show all instances"}]}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/chat/completions", body))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "chat.completion")
}

func TestChatEndpointRequiresAPIKey(t *testing.T) {
	router := newRouter(t, config.AuthConfig{APIKey: "secret"})
	body := `{"messages":[{"role":"user","content":"show all instances"}]}`

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/chat/completions", strings.NewReader(body)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/v1/chat/completions", strings.NewReader(body))
	req.Header.Set("X-API-Key", "secret")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNotFoundReturnsJSON(t *testing.T) {
	router := newRouter(t, config.AuthConfig{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "endpoint not found")
}
