package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	ce "github.com/aws/aws-sdk-go-v2/service/costexplorer"
	ec2svc "github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/eks"
	elbv2svc "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	iamsvc "github.com/aws/aws-sdk-go-v2/service/iam"
	rdssvc "github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/resourcegroups"
	tagging "github.com/aws/aws-sdk-go-v2/service/resourcegroupstaggingapi"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// Canned-data mocks for the narrow client interfaces. Each returns its fixed
// output, or err when set. Single-page outputs are enough for the paginators
// because every pagination token is left nil.

type mockEC2 struct {
	instancesOut *ec2svc.DescribeInstancesOutput
	statusOut    *ec2svc.DescribeInstanceStatusOutput
	vpcsOut      *ec2svc.DescribeVpcsOutput
	addressesOut *ec2svc.DescribeAddressesOutput
	err          error
}

func (m *mockEC2) DescribeInstances(ctx context.Context, params *ec2svc.DescribeInstancesInput, optFns ...func(*ec2svc.Options)) (*ec2svc.DescribeInstancesOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.instancesOut == nil {
		return &ec2svc.DescribeInstancesOutput{}, nil
	}
	return m.instancesOut, nil
}

func (m *mockEC2) DescribeInstanceStatus(ctx context.Context, params *ec2svc.DescribeInstanceStatusInput, optFns ...func(*ec2svc.Options)) (*ec2svc.DescribeInstanceStatusOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.statusOut == nil {
		return &ec2svc.DescribeInstanceStatusOutput{}, nil
	}
	return m.statusOut, nil
}

func (m *mockEC2) DescribeVpcs(ctx context.Context, params *ec2svc.DescribeVpcsInput, optFns ...func(*ec2svc.Options)) (*ec2svc.DescribeVpcsOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.vpcsOut == nil {
		return &ec2svc.DescribeVpcsOutput{}, nil
	}
	return m.vpcsOut, nil
}

func (m *mockEC2) DescribeAddresses(ctx context.Context, params *ec2svc.DescribeAddressesInput, optFns ...func(*ec2svc.Options)) (*ec2svc.DescribeAddressesOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.addressesOut == nil {
		return &ec2svc.DescribeAddressesOutput{}, nil
	}
	return m.addressesOut, nil
}

type mockCloudWatch struct {
	out *cloudwatch.GetMetricStatisticsOutput
	err error
}

func (m *mockCloudWatch) GetMetricStatistics(ctx context.Context, params *cloudwatch.GetMetricStatisticsInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.GetMetricStatisticsOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.out == nil {
		return &cloudwatch.GetMetricStatisticsOutput{}, nil
	}
	return m.out, nil
}

type mockRDS struct {
	out *rdssvc.DescribeDBInstancesOutput
	err error
}

func (m *mockRDS) DescribeDBInstances(ctx context.Context, params *rdssvc.DescribeDBInstancesInput, optFns ...func(*rdssvc.Options)) (*rdssvc.DescribeDBInstancesOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.out == nil {
		return &rdssvc.DescribeDBInstancesOutput{}, nil
	}
	return m.out, nil
}

type mockS3 struct {
	out *s3.ListBucketsOutput
	err error
}

func (m *mockS3) ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.out == nil {
		return &s3.ListBucketsOutput{}, nil
	}
	return m.out, nil
}

type mockELBv2 struct {
	out *elbv2svc.DescribeLoadBalancersOutput
	err error
}

func (m *mockELBv2) DescribeLoadBalancers(ctx context.Context, params *elbv2svc.DescribeLoadBalancersInput, optFns ...func(*elbv2svc.Options)) (*elbv2svc.DescribeLoadBalancersOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.out == nil {
		return &elbv2svc.DescribeLoadBalancersOutput{}, nil
	}
	return m.out, nil
}

type mockEKS struct {
	listOut     *eks.ListClustersOutput
	describeOut map[string]*eks.DescribeClusterOutput
	err         error
}

func (m *mockEKS) ListClusters(ctx context.Context, params *eks.ListClustersInput, optFns ...func(*eks.Options)) (*eks.ListClustersOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.listOut == nil {
		return &eks.ListClustersOutput{}, nil
	}
	return m.listOut, nil
}

func (m *mockEKS) DescribeCluster(ctx context.Context, params *eks.DescribeClusterInput, optFns ...func(*eks.Options)) (*eks.DescribeClusterOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	if out, ok := m.describeOut[*params.Name]; ok {
		return out, nil
	}
	return &eks.DescribeClusterOutput{}, nil
}

type mockIAM struct {
	out *iamsvc.ListUsersOutput
	err error
}

func (m *mockIAM) ListUsers(ctx context.Context, params *iamsvc.ListUsersInput, optFns ...func(*iamsvc.Options)) (*iamsvc.ListUsersOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.out == nil {
		return &iamsvc.ListUsersOutput{}, nil
	}
	return m.out, nil
}

type mockCostExplorer struct {
	out *ce.GetCostAndUsageOutput
	err error
}

func (m *mockCostExplorer) GetCostAndUsage(ctx context.Context, params *ce.GetCostAndUsageInput, optFns ...func(*ce.Options)) (*ce.GetCostAndUsageOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.out == nil {
		return &ce.GetCostAndUsageOutput{}, nil
	}
	return m.out, nil
}

type mockSTS struct {
	out *sts.GetCallerIdentityOutput
	err error
}

func (m *mockSTS) GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.out == nil {
		return &sts.GetCallerIdentityOutput{}, nil
	}
	return m.out, nil
}

type mockResourceGroups struct {
	out *resourcegroups.ListGroupsOutput
	err error
}

func (m *mockResourceGroups) ListGroups(ctx context.Context, params *resourcegroups.ListGroupsInput, optFns ...func(*resourcegroups.Options)) (*resourcegroups.ListGroupsOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.out == nil {
		return &resourcegroups.ListGroupsOutput{}, nil
	}
	return m.out, nil
}

type mockTagging struct {
	out *tagging.GetResourcesOutput
	err error
}

func (m *mockTagging) GetResources(ctx context.Context, params *tagging.GetResourcesInput, optFns ...func(*tagging.Options)) (*tagging.GetResourcesOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.out == nil {
		return &tagging.GetResourcesOutput{}, nil
	}
	return m.out, nil
}

// emptyClients returns a ClientSet where every call succeeds with no data.
func emptyClients() *ClientSet {
	return &ClientSet{
		EC2:            &mockEC2{},
		CloudWatch:     &mockCloudWatch{},
		RDS:            &mockRDS{},
		S3:             &mockS3{},
		ELBv2:          &mockELBv2{},
		EKS:            &mockEKS{},
		IAM:            &mockIAM{},
		CostExplorer:   &mockCostExplorer{},
		STS:            &mockSTS{},
		ResourceGroups: &mockResourceGroups{},
		Tagging:        &mockTagging{},
	}
}
