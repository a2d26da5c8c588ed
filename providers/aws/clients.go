package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	ce "github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/eks"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/resourcegroups"
	tagging "github.com/aws/aws-sdk-go-v2/service/resourcegroupstaggingapi"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// Per-service client interfaces. Each covers only the operations this service
// uses; narrow interfaces keep unit-test mocks small and avoid importing the
// SDK in test doubles.

// EC2Client is the subset of EC2 operations used by the inventory.
type EC2Client interface {
	DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
	DescribeInstanceStatus(ctx context.Context, params *ec2.DescribeInstanceStatusInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstanceStatusOutput, error)
	DescribeVpcs(ctx context.Context, params *ec2.DescribeVpcsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeVpcsOutput, error)
	DescribeAddresses(ctx context.Context, params *ec2.DescribeAddressesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeAddressesOutput, error)
}

// CloudWatchClient covers the metric read used for CPU queries.
type CloudWatchClient interface {
	GetMetricStatistics(ctx context.Context, params *cloudwatch.GetMetricStatisticsInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.GetMetricStatisticsOutput, error)
}

// RDSClient covers the database listing operation.
type RDSClient interface {
	DescribeDBInstances(ctx context.Context, params *rds.DescribeDBInstancesInput, optFns ...func(*rds.Options)) (*rds.DescribeDBInstancesOutput, error)
}

// S3Client covers the bucket listing operation.
type S3Client interface {
	ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
}

// ELBv2Client covers the load balancer listing operation.
type ELBv2Client interface {
	DescribeLoadBalancers(ctx context.Context, params *elbv2.DescribeLoadBalancersInput, optFns ...func(*elbv2.Options)) (*elbv2.DescribeLoadBalancersOutput, error)
}

// EKSClient covers the cluster listing operations.
type EKSClient interface {
	ListClusters(ctx context.Context, params *eks.ListClustersInput, optFns ...func(*eks.Options)) (*eks.ListClustersOutput, error)
	DescribeCluster(ctx context.Context, params *eks.DescribeClusterInput, optFns ...func(*eks.Options)) (*eks.DescribeClusterOutput, error)
}

// IAMClient covers the user listing operation.
type IAMClient interface {
	ListUsers(ctx context.Context, params *iam.ListUsersInput, optFns ...func(*iam.Options)) (*iam.ListUsersOutput, error)
}

// CostExplorerClient covers the cost summary operation.
type CostExplorerClient interface {
	GetCostAndUsage(ctx context.Context, params *ce.GetCostAndUsageInput, optFns ...func(*ce.Options)) (*ce.GetCostAndUsageOutput, error)
}

// STSClient resolves the caller identity.
type STSClient interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// ResourceGroupsClient covers the group listing operation.
type ResourceGroupsClient interface {
	ListGroups(ctx context.Context, params *resourcegroups.ListGroupsInput, optFns ...func(*resourcegroups.Options)) (*resourcegroups.ListGroupsOutput, error)
}

// TaggingClient covers the tagged-resource inventory queries.
type TaggingClient interface {
	GetResources(ctx context.Context, params *tagging.GetResourcesInput, optFns ...func(*tagging.Options)) (*tagging.GetResourcesOutput, error)
}

// ClientSet holds initialised service clients for one account and region.
// All fields are interfaces so tests can substitute canned-data mocks.
type ClientSet struct {
	EC2            EC2Client
	CloudWatch     CloudWatchClient
	RDS            RDSClient
	S3             S3Client
	ELBv2          ELBv2Client
	EKS            EKSClient
	IAM            IAMClient
	CostExplorer   CostExplorerClient
	STS            STSClient
	ResourceGroups ResourceGroupsClient
	Tagging        TaggingClient
}

// ClientFactory creates a ClientSet from an aws.Config. Swap this in tests to
// inject mocks.
type ClientFactory func(cfg aws.Config) *ClientSet

// NewClientSet is the production ClientFactory. Cost Explorer is a global
// service only reachable in us-east-1, so its client is pinned there.
func NewClientSet(cfg aws.Config) *ClientSet {
	ceCfg := cfg
	ceCfg.Region = "us-east-1"

	return &ClientSet{
		EC2:            ec2.NewFromConfig(cfg),
		CloudWatch:     cloudwatch.NewFromConfig(cfg),
		RDS:            rds.NewFromConfig(cfg),
		S3:             s3.NewFromConfig(cfg),
		ELBv2:          elbv2.NewFromConfig(cfg),
		EKS:            eks.NewFromConfig(cfg),
		IAM:            iam.NewFromConfig(cfg),
		CostExplorer:   ce.NewFromConfig(ceCfg),
		STS:            sts.NewFromConfig(cfg),
		ResourceGroups: resourcegroups.NewFromConfig(cfg),
		Tagging:        tagging.NewFromConfig(cfg),
	}
}
