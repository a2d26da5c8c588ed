package aws

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	ce "github.com/aws/aws-sdk-go-v2/service/costexplorer"
	cetypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/aws/aws-sdk-go-v2/service/eks"
	elbv2svc "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	iamsvc "github.com/aws/aws-sdk-go-v2/service/iam"
	rdssvc "github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/resourcegroups"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/opsdesk/aws-agent/models"
)

// ListDatabases pages through the region's RDS database instances.
func (s *Service) ListDatabases(ctx context.Context) ([]models.DBInstance, error) {
	paginator := rdssvc.NewDescribeDBInstancesPaginator(s.clients.RDS, &rdssvc.DescribeDBInstancesInput{})

	var databases []models.DBInstance
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("DescribeDBInstances page: %w", err)
		}
		for _, db := range page.DBInstances {
			var endpoint string
			if db.Endpoint != nil {
				endpoint = aws.ToString(db.Endpoint.Address)
			}
			databases = append(databases, models.DBInstance{
				Identifier:    aws.ToString(db.DBInstanceIdentifier),
				Engine:        aws.ToString(db.Engine),
				EngineVersion: aws.ToString(db.EngineVersion),
				Class:         aws.ToString(db.DBInstanceClass),
				Status:        aws.ToString(db.DBInstanceStatus),
				MultiAZ:       aws.ToBool(db.MultiAZ),
				Endpoint:      endpoint,
			})
		}
	}
	return databases, nil
}

// ListBuckets returns the account's S3 buckets. Bucket listing is global, not
// regional.
func (s *Service) ListBuckets(ctx context.Context) ([]models.Bucket, error) {
	out, err := s.clients.S3.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, fmt.Errorf("ListBuckets: %w", err)
	}

	buckets := make([]models.Bucket, 0, len(out.Buckets))
	for _, b := range out.Buckets {
		var created time.Time
		if b.CreationDate != nil {
			created = *b.CreationDate
		}
		buckets = append(buckets, models.Bucket{
			Name:      aws.ToString(b.Name),
			CreatedAt: created,
		})
	}
	return buckets, nil
}

// ListLoadBalancers pages through the region's ELBv2 load balancers.
func (s *Service) ListLoadBalancers(ctx context.Context) ([]models.LoadBalancer, error) {
	paginator := elbv2svc.NewDescribeLoadBalancersPaginator(s.clients.ELBv2, &elbv2svc.DescribeLoadBalancersInput{})

	var balancers []models.LoadBalancer
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("DescribeLoadBalancers page: %w", err)
		}
		for _, lb := range page.LoadBalancers {
			var state string
			if lb.State != nil {
				state = string(lb.State.Code)
			}
			balancers = append(balancers, models.LoadBalancer{
				Name:    aws.ToString(lb.LoadBalancerName),
				Type:    string(lb.Type),
				Scheme:  string(lb.Scheme),
				State:   state,
				DNSName: aws.ToString(lb.DNSName),
			})
		}
	}
	return balancers, nil
}

// ListClusters pages through the region's EKS clusters and describes each for
// version and status.
func (s *Service) ListClusters(ctx context.Context) ([]models.Cluster, error) {
	paginator := eks.NewListClustersPaginator(s.clients.EKS, &eks.ListClustersInput{})

	var clusters []models.Cluster
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("ListClusters page: %w", err)
		}
		for _, name := range page.Clusters {
			out, err := s.clients.EKS.DescribeCluster(ctx, &eks.DescribeClusterInput{
				Name: aws.String(name),
			})
			if err != nil {
				return nil, fmt.Errorf("DescribeCluster %s: %w", name, err)
			}
			cluster := models.Cluster{Name: name}
			if out.Cluster != nil {
				cluster.Version = aws.ToString(out.Cluster.Version)
				cluster.Status = string(out.Cluster.Status)
			}
			clusters = append(clusters, cluster)
		}
	}
	return clusters, nil
}

// ListIAMUsers pages through the account's IAM users.
func (s *Service) ListIAMUsers(ctx context.Context) ([]models.IAMUser, error) {
	paginator := iamsvc.NewListUsersPaginator(s.clients.IAM, &iamsvc.ListUsersInput{})

	var users []models.IAMUser
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("ListUsers page: %w", err)
		}
		for _, u := range page.Users {
			var created time.Time
			if u.CreateDate != nil {
				created = *u.CreateDate
			}
			users = append(users, models.IAMUser{
				Name:             aws.ToString(u.UserName),
				ARN:              aws.ToString(u.Arn),
				CreatedAt:        created,
				PasswordLastUsed: u.PasswordLastUsed,
			})
		}
	}
	return users, nil
}

// CostSummary returns month-to-date unblended spend grouped by service,
// sorted by descending amount.
func (s *Service) CostSummary(ctx context.Context) (*models.CostSummary, error) {
	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	// Cost Explorer's end date is exclusive and must be after the start, so
	// on the 1st of the month this still covers one day.
	end := start.AddDate(0, 0, 1)
	if now.After(end) {
		end = now
	}

	out, err := s.clients.CostExplorer.GetCostAndUsage(ctx, &ce.GetCostAndUsageInput{
		TimePeriod: &cetypes.DateInterval{
			Start: aws.String(start.Format("2006-01-02")),
			End:   aws.String(end.Format("2006-01-02")),
		},
		Granularity: cetypes.GranularityMonthly,
		Metrics:     []string{"UnblendedCost"},
		GroupBy: []cetypes.GroupDefinition{
			{Type: cetypes.GroupDefinitionTypeDimension, Key: aws.String("SERVICE")},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("GetCostAndUsage: %w", err)
	}

	summary := &models.CostSummary{
		Start: start.Format("2006-01-02"),
		End:   end.Format("2006-01-02"),
	}
	for _, result := range out.ResultsByTime {
		for _, group := range result.Groups {
			if len(group.Keys) == 0 {
				continue
			}
			metric, ok := group.Metrics["UnblendedCost"]
			if !ok {
				continue
			}
			amount, err := strconv.ParseFloat(aws.ToString(metric.Amount), 64)
			if err != nil {
				continue
			}
			unit := aws.ToString(metric.Unit)
			summary.ByService = append(summary.ByService, models.CostLine{
				Service: group.Keys[0],
				Amount:  amount,
				Unit:    unit,
			})
			summary.Total += amount
			if summary.Unit == "" {
				summary.Unit = unit
			}
		}
	}
	sort.Slice(summary.ByService, func(i, j int) bool {
		return summary.ByService[i].Amount > summary.ByService[j].Amount
	})
	return summary, nil
}

// ListResourceGroups pages through the account's resource groups.
func (s *Service) ListResourceGroups(ctx context.Context) ([]models.ResourceGroup, error) {
	paginator := resourcegroups.NewListGroupsPaginator(s.clients.ResourceGroups, &resourcegroups.ListGroupsInput{})

	var groups []models.ResourceGroup
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("ListGroups page: %w", err)
		}
		for _, g := range page.GroupIdentifiers {
			groups = append(groups, models.ResourceGroup{
				Name: aws.ToString(g.GroupName),
				ARN:  aws.ToString(g.GroupArn),
			})
		}
	}
	return groups, nil
}
