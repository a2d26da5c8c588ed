package aws

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	ce "github.com/aws/aws-sdk-go-v2/service/costexplorer"
	cetypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/aws/aws-sdk-go-v2/service/eks"
	ekstypes "github.com/aws/aws-sdk-go-v2/service/eks/types"
	elbv2svc "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	elbv2types "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"
	iamsvc "github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	rdssvc "github.com/aws/aws-sdk-go-v2/service/rds"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"
	"github.com/aws/aws-sdk-go-v2/service/resourcegroups"
	rgtypes "github.com/aws/aws-sdk-go-v2/service/resourcegroups/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListDatabases(t *testing.T) {
	clients := emptyClients()
	clients.RDS = &mockRDS{out: &rdssvc.DescribeDBInstancesOutput{
		DBInstances: []rdstypes.DBInstance{
			{
				DBInstanceIdentifier: aws.String("orders-db"),
				Engine:               aws.String("postgres"),
				EngineVersion:        aws.String("15.4"),
				DBInstanceClass:      aws.String("db.t3.medium"),
				DBInstanceStatus:     aws.String("available"),
				MultiAZ:              aws.Bool(true),
				Endpoint:             &rdstypes.Endpoint{Address: aws.String("orders.abc.rds.amazonaws.com")},
			},
		},
	}}
	svc := newTestService(clients)

	databases, err := svc.ListDatabases(context.Background())
	require.NoError(t, err)
	require.Len(t, databases, 1)
	assert.Equal(t, "orders-db", databases[0].Identifier)
	assert.Equal(t, "postgres", databases[0].Engine)
	assert.Equal(t, "orders.abc.rds.amazonaws.com", databases[0].Endpoint)
	assert.True(t, databases[0].MultiAZ)
}

func TestListBuckets(t *testing.T) {
	created := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	clients := emptyClients()
	clients.S3 = &mockS3{out: &s3.ListBucketsOutput{
		Buckets: []s3types.Bucket{
			{Name: aws.String("backups"), CreationDate: aws.Time(created)},
		},
	}}
	svc := newTestService(clients)

	buckets, err := svc.ListBuckets(context.Background())
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assert.Equal(t, "backups", buckets[0].Name)
	assert.Equal(t, created, buckets[0].CreatedAt)
}

func TestListLoadBalancers(t *testing.T) {
	clients := emptyClients()
	clients.ELBv2 = &mockELBv2{out: &elbv2svc.DescribeLoadBalancersOutput{
		LoadBalancers: []elbv2types.LoadBalancer{
			{
				LoadBalancerName: aws.String("api"),
				Type:             elbv2types.LoadBalancerTypeEnumApplication,
				Scheme:           elbv2types.LoadBalancerSchemeEnumInternetFacing,
				State:            &elbv2types.LoadBalancerState{Code: elbv2types.LoadBalancerStateEnumActive},
				DNSName:          aws.String("api-123.elb.amazonaws.com"),
			},
		},
	}}
	svc := newTestService(clients)

	balancers, err := svc.ListLoadBalancers(context.Background())
	require.NoError(t, err)
	require.Len(t, balancers, 1)
	assert.Equal(t, "api", balancers[0].Name)
	assert.Equal(t, "application", balancers[0].Type)
	assert.Equal(t, "internet-facing", balancers[0].Scheme)
	assert.Equal(t, "active", balancers[0].State)
}

func TestListClusters(t *testing.T) {
	clients := emptyClients()
	clients.EKS = &mockEKS{
		listOut: &eks.ListClustersOutput{Clusters: []string{"prod", "staging"}},
		describeOut: map[string]*eks.DescribeClusterOutput{
			"prod": {Cluster: &ekstypes.Cluster{
				Version: aws.String("1.29"),
				Status:  ekstypes.ClusterStatusActive,
			}},
		},
	}
	svc := newTestService(clients)

	clusters, err := svc.ListClusters(context.Background())
	require.NoError(t, err)
	require.Len(t, clusters, 2)
	assert.Equal(t, "prod", clusters[0].Name)
	assert.Equal(t, "1.29", clusters[0].Version)
	assert.Equal(t, "ACTIVE", clusters[0].Status)
	assert.Equal(t, "staging", clusters[1].Name)
	assert.Empty(t, clusters[1].Version)
}

func TestListIAMUsers(t *testing.T) {
	lastUsed := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	clients := emptyClients()
	clients.IAM = &mockIAM{out: &iamsvc.ListUsersOutput{
		Users: []iamtypes.User{
			{
				UserName:         aws.String("deploy-bot"),
				Arn:              aws.String("arn:aws:iam::123456789012:user/deploy-bot"),
				PasswordLastUsed: aws.Time(lastUsed),
			},
			{UserName: aws.String("auditor")},
		},
	}}
	svc := newTestService(clients)

	users, err := svc.ListIAMUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "deploy-bot", users[0].Name)
	require.NotNil(t, users[0].PasswordLastUsed)
	assert.Equal(t, lastUsed, *users[0].PasswordLastUsed)
	assert.Nil(t, users[1].PasswordLastUsed)
}

func TestCostSummary(t *testing.T) {
	clients := emptyClients()
	clients.CostExplorer = &mockCostExplorer{out: &ce.GetCostAndUsageOutput{
		ResultsByTime: []cetypes.ResultByTime{
			{Groups: []cetypes.Group{
				{
					Keys:    []string{"Amazon Elastic Compute Cloud - Compute"},
					Metrics: map[string]cetypes.MetricValue{"UnblendedCost": {Amount: aws.String("12.50"), Unit: aws.String("USD")}},
				},
				{
					Keys:    []string{"Amazon Simple Storage Service"},
					Metrics: map[string]cetypes.MetricValue{"UnblendedCost": {Amount: aws.String("40.00"), Unit: aws.String("USD")}},
				},
				{
					Keys:    []string{"AWS Cost Explorer"},
					Metrics: map[string]cetypes.MetricValue{"UnblendedCost": {Amount: aws.String("not-a-number"), Unit: aws.String("USD")}},
				},
			}},
		},
	}}
	svc := newTestService(clients)

	summary, err := svc.CostSummary(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, 52.50, summary.Total, 0.001)
	assert.Equal(t, "USD", summary.Unit)
	require.Len(t, summary.ByService, 2)
	// Sorted by descending spend.
	assert.Equal(t, "Amazon Simple Storage Service", summary.ByService[0].Service)
	assert.Equal(t, "Amazon Elastic Compute Cloud - Compute", summary.ByService[1].Service)
}

func TestListResourceGroups(t *testing.T) {
	clients := emptyClients()
	clients.ResourceGroups = &mockResourceGroups{out: &resourcegroups.ListGroupsOutput{
		GroupIdentifiers: []rgtypes.GroupIdentifier{
			{
				GroupName: aws.String("prod-web"),
				GroupArn:  aws.String("arn:aws:resource-groups:us-east-1:123456789012:group/prod-web"),
			},
		},
	}}
	svc := newTestService(clients)

	groups, err := svc.ListResourceGroups(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "prod-web", groups[0].Name)
}
