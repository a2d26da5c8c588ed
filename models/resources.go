package models

import "time"

// Instance is an EC2 instance as rendered to the operator. Name comes from
// the Name tag and may be empty.
type Instance struct {
	Name             string
	InstanceID       string
	InstanceType     string
	State            string
	AvailabilityZone string
	Platform         string
	PrivateIP        string
	PublicIP         string
	LaunchTime       time.Time
}

// DisplayName returns the Name tag when present, otherwise the instance ID.
func (i Instance) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	return i.InstanceID
}

// InstanceHealth is the detailed status view of a single instance, including
// the two EC2 status checks.
type InstanceHealth struct {
	Instance
	SystemStatus   string
	InstanceStatus string
}

// MetricPoint is a single CloudWatch datapoint.
type MetricPoint struct {
	Timestamp time.Time
	Average   float64
}

// MetricSeries holds the datapoints returned for one metric name.
type MetricSeries struct {
	Metric     string
	Unit       string
	Datapoints []MetricPoint
}

// VPC is a virtual network with its CIDR blocks.
type VPC struct {
	Name       string
	VPCID      string
	CIDRBlocks []string
	State      string
	IsDefault  bool
}

// Address is an Elastic IP address.
type Address struct {
	Name          string
	PublicIP      string
	AllocationID  string
	AssociatedTo  string // instance ID or network interface, empty when unassociated
	NetworkBorder string
}

// ResourceGroup is an AWS Resource Groups group.
type ResourceGroup struct {
	Name string
	ARN  string
}

// DBInstance is an RDS database instance.
type DBInstance struct {
	Identifier    string
	Engine        string
	EngineVersion string
	Class         string
	Status        string
	MultiAZ       bool
	Endpoint      string
}

// Bucket is an S3 bucket.
type Bucket struct {
	Name      string
	CreatedAt time.Time
}

// LoadBalancer is an ELBv2 load balancer.
type LoadBalancer struct {
	Name    string
	Type    string
	Scheme  string
	State   string
	DNSName string
}

// Cluster is an EKS cluster.
type Cluster struct {
	Name    string
	Version string
	Status  string
}

// IAMUser is an IAM user record.
type IAMUser struct {
	Name             string
	ARN              string
	CreatedAt        time.Time
	PasswordLastUsed *time.Time
}

// CostLine is month-to-date spend attributed to one service.
type CostLine struct {
	Service string
	Amount  float64
	Unit    string
}

// CostSummary is the account-level cost breakdown for a period.
type CostSummary struct {
	Start     string
	End       string
	Total     float64
	Unit      string
	ByService []CostLine
}

// Resource is a generic entry from the tagged-resource inventory. Type uses
// the vendor's "service:resourceType" form (e.g. "ec2:instance").
type Resource struct {
	ARN    string
	Name   string
	Type   string
	Region string
	Tags   map[string]string
}

// Identity is the caller identity resolved via STS.
type Identity struct {
	AccountID string
	ARN       string
	UserID    string
}
