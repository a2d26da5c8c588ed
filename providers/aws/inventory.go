package aws

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	ec2svc "github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"go.uber.org/zap"

	"github.com/opsdesk/aws-agent/models"
)

// metricTailPoints is how many of the most recent datapoints a metrics query
// reports, matching the "last 5 readings" the chat response shows.
const metricTailPoints = 5

// Service is the read-only inventory client. Every method issues describe or
// list calls only; no mutation API is referenced anywhere in this package.
type Service struct {
	region    string
	accountID string
	clients   *ClientSet
	logger    *zap.Logger
}

// Region returns the region this service is bound to.
func (s *Service) Region() string { return s.region }

// AccountID returns the resolved account ID, or "" when credentials could not
// be verified at startup.
func (s *Service) AccountID() string { return s.accountID }

// Identity resolves the caller identity via STS.
func (s *Service) Identity(ctx context.Context) (*models.Identity, error) {
	account, arn, userID, err := resolveIdentity(ctx, s.clients.STS)
	if err != nil {
		return nil, err
	}
	return &models.Identity{AccountID: account, ARN: arn, UserID: userID}, nil
}

// ListInstances pages through every EC2 instance in the region and converts
// each to the internal model.
func (s *Service) ListInstances(ctx context.Context) ([]models.Instance, error) {
	paginator := ec2svc.NewDescribeInstancesPaginator(s.clients.EC2, &ec2svc.DescribeInstancesInput{})

	var instances []models.Instance
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("DescribeInstances page: %w", err)
		}
		for _, reservation := range page.Reservations {
			for _, inst := range reservation.Instances {
				instances = append(instances, toInstance(inst))
			}
		}
	}
	return instances, nil
}

// FindInstanceByName returns the instance whose Name tag or instance ID
// matches name case-insensitively, or nil when none does.
func (s *Service) FindInstanceByName(ctx context.Context, name string) (*models.Instance, error) {
	instances, err := s.ListInstances(ctx)
	if err != nil {
		return nil, err
	}
	for i := range instances {
		if strings.EqualFold(instances[i].Name, name) || strings.EqualFold(instances[i].InstanceID, name) {
			return &instances[i], nil
		}
	}
	return nil, nil
}

// InstanceHealth returns the detailed status of inst, including the system
// and instance status checks. IncludeAllInstances covers stopped instances,
// which otherwise report no status at all.
func (s *Service) InstanceHealth(ctx context.Context, inst models.Instance) (*models.InstanceHealth, error) {
	out, err := s.clients.EC2.DescribeInstanceStatus(ctx, &ec2svc.DescribeInstanceStatusInput{
		InstanceIds:         []string{inst.InstanceID},
		IncludeAllInstances: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("DescribeInstanceStatus %s: %w", inst.InstanceID, err)
	}

	health := &models.InstanceHealth{Instance: inst}
	for _, st := range out.InstanceStatuses {
		if aws.ToString(st.InstanceId) != inst.InstanceID {
			continue
		}
		if st.InstanceState != nil {
			health.State = string(st.InstanceState.Name)
		}
		if st.SystemStatus != nil {
			health.SystemStatus = string(st.SystemStatus.Status)
		}
		if st.InstanceStatus != nil {
			health.InstanceStatus = string(st.InstanceStatus.Status)
		}
	}
	return health, nil
}

// InstanceMetrics fetches average CPUUtilization for instanceID over the
// lookback window at 1-minute granularity and keeps the most recent
// datapoints. CloudWatch has no agentless memory metric, so CPU is the whole
// metric set this returns.
func (s *Service) InstanceMetrics(ctx context.Context, instanceID string, lookback time.Duration) ([]models.MetricSeries, error) {
	if lookback <= 0 {
		lookback = time.Hour
	}
	end := time.Now().UTC()
	start := end.Add(-lookback)

	out, err := s.clients.CloudWatch.GetMetricStatistics(ctx, &cloudwatch.GetMetricStatisticsInput{
		Namespace:  aws.String("AWS/EC2"),
		MetricName: aws.String("CPUUtilization"),
		Dimensions: []cwtypes.Dimension{
			{Name: aws.String("InstanceId"), Value: aws.String(instanceID)},
		},
		StartTime:  aws.Time(start),
		EndTime:    aws.Time(end),
		Period:     aws.Int32(60),
		Statistics: []cwtypes.Statistic{cwtypes.StatisticAverage},
	})
	if err != nil {
		return nil, fmt.Errorf("GetMetricStatistics %s: %w", instanceID, err)
	}

	points := make([]models.MetricPoint, 0, len(out.Datapoints))
	var unit string
	for _, dp := range out.Datapoints {
		if dp.Timestamp == nil || dp.Average == nil {
			continue
		}
		points = append(points, models.MetricPoint{
			Timestamp: *dp.Timestamp,
			Average:   *dp.Average,
		})
		unit = string(dp.Unit)
	}
	// CloudWatch returns datapoints in no particular order.
	sort.Slice(points, func(i, j int) bool { return points[i].Timestamp.Before(points[j].Timestamp) })
	if len(points) > metricTailPoints {
		points = points[len(points)-metricTailPoints:]
	}

	return []models.MetricSeries{{
		Metric:     "CPUUtilization",
		Unit:       unit,
		Datapoints: points,
	}}, nil
}

// ListVPCs pages through the region's VPCs with their CIDR blocks.
func (s *Service) ListVPCs(ctx context.Context) ([]models.VPC, error) {
	paginator := ec2svc.NewDescribeVpcsPaginator(s.clients.EC2, &ec2svc.DescribeVpcsInput{})

	var vpcs []models.VPC
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("DescribeVpcs page: %w", err)
		}
		for _, v := range page.Vpcs {
			vpcs = append(vpcs, toVPC(v))
		}
	}
	return vpcs, nil
}

// ListAddresses returns the region's Elastic IP addresses.
func (s *Service) ListAddresses(ctx context.Context) ([]models.Address, error) {
	out, err := s.clients.EC2.DescribeAddresses(ctx, &ec2svc.DescribeAddressesInput{})
	if err != nil {
		return nil, fmt.Errorf("DescribeAddresses: %w", err)
	}

	addresses := make([]models.Address, 0, len(out.Addresses))
	for _, a := range out.Addresses {
		associated := aws.ToString(a.InstanceId)
		if associated == "" {
			associated = aws.ToString(a.NetworkInterfaceId)
		}
		addresses = append(addresses, models.Address{
			Name:          tagValue(a.Tags, "Name"),
			PublicIP:      aws.ToString(a.PublicIp),
			AllocationID:  aws.ToString(a.AllocationId),
			AssociatedTo:  associated,
			NetworkBorder: aws.ToString(a.NetworkBorderGroup),
		})
	}
	return addresses, nil
}

// toInstance converts an SDK instance to the internal model.
func toInstance(inst ec2types.Instance) models.Instance {
	var state string
	if inst.State != nil {
		state = string(inst.State.Name)
	}
	var az string
	if inst.Placement != nil {
		az = aws.ToString(inst.Placement.AvailabilityZone)
	}
	platform := string(inst.Platform)
	if platform == "" {
		platform = "linux"
	}
	var launch time.Time
	if inst.LaunchTime != nil {
		launch = *inst.LaunchTime
	}

	return models.Instance{
		Name:             tagValue(inst.Tags, "Name"),
		InstanceID:       aws.ToString(inst.InstanceId),
		InstanceType:     string(inst.InstanceType),
		State:            state,
		AvailabilityZone: az,
		Platform:         platform,
		PrivateIP:        aws.ToString(inst.PrivateIpAddress),
		PublicIP:         aws.ToString(inst.PublicIpAddress),
		LaunchTime:       launch,
	}
}

// toVPC converts an SDK VPC to the internal model.
func toVPC(v ec2types.Vpc) models.VPC {
	var cidrs []string
	for _, assoc := range v.CidrBlockAssociationSet {
		if cidr := aws.ToString(assoc.CidrBlock); cidr != "" {
			cidrs = append(cidrs, cidr)
		}
	}
	if len(cidrs) == 0 {
		if cidr := aws.ToString(v.CidrBlock); cidr != "" {
			cidrs = append(cidrs, cidr)
		}
	}

	return models.VPC{
		Name:       tagValue(v.Tags, "Name"),
		VPCID:      aws.ToString(v.VpcId),
		CIDRBlocks: cidrs,
		State:      string(v.State),
		IsDefault:  aws.ToBool(v.IsDefault),
	}
}

// tagValue returns the value of the named EC2 tag, or "".
func tagValue(tags []ec2types.Tag, key string) string {
	for _, t := range tags {
		if aws.ToString(t.Key) == key {
			return aws.ToString(t.Value)
		}
	}
	return ""
}
