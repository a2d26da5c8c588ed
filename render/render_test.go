package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/opsdesk/aws-agent/models"
)

func TestInstances(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		out := Instances("123456789012", nil)
		assert.Equal(t, "No instances found in the current account.", out)
	})

	t.Run("table", func(t *testing.T) {
		out := Instances("123456789012", []models.Instance{
			{Name: "web-01", InstanceID: "i-0abc", InstanceType: "t3.micro", State: "running", AvailabilityZone: "us-east-1a", Platform: "linux"},
			{InstanceID: "i-0def", InstanceType: "m5.large", State: "stopped", AvailabilityZone: "us-east-1b", Platform: "windows"},
		})
		assert.Contains(t, out, "### Instances (Account: `123456789012`)")
		assert.Contains(t, out, "| web-01 | i-0abc | t3.micro | running | us-east-1a | linux |")
		// Falls back to the instance ID when the Name tag is missing.
		assert.Contains(t, out, "| i-0def | i-0def |")
	})
}

func TestInstanceHealth(t *testing.T) {
	out := InstanceHealth(models.InstanceHealth{
		Instance: models.Instance{
			Name:             "web-01",
			InstanceID:       "i-0abc",
			InstanceType:     "t3.micro",
			State:            "running",
			AvailabilityZone: "us-east-1a",
		},
		SystemStatus:   "ok",
		InstanceStatus: "ok",
	})
	assert.Contains(t, out, "### Health Status: `web-01`")
	assert.Contains(t, out, "- **State:** running")
	assert.Contains(t, out, "- **System Status:** ok")
	assert.Contains(t, out, "- **Instance Status:** ok")
}

func TestMetrics(t *testing.T) {
	t.Run("no data", func(t *testing.T) {
		out := Metrics("web-01", []models.MetricSeries{{Metric: "CPUUtilization"}})
		assert.Contains(t, out, "No metric data available")
	})

	t.Run("datapoints", func(t *testing.T) {
		out := Metrics("web-01", []models.MetricSeries{
			{
				Metric: "CPUUtilization",
				Unit:   "Percent",
				Datapoints: []models.MetricPoint{
					{Average: 12.351},
					{Average: 8.1},
				},
			},
		})
		assert.Contains(t, out, "### Latest Metrics for `web-01`")
		assert.Contains(t, out, "**CPUUtilization:** 12.35%, 8.10% (last 2 readings)")
	})
}

func TestVPCs(t *testing.T) {
	out := VPCs("123456789012", []models.VPC{
		{Name: "main", VPCID: "vpc-0abc", State: "available", CIDRBlocks: []string{"10.0.0.0/16", "10.1.0.0/16"}, IsDefault: true},
	})
	assert.Contains(t, out, "| main | vpc-0abc | available | 10.0.0.0/16, 10.1.0.0/16 | yes |")

	assert.Equal(t, "No VPCs found in the current account.", VPCs("123456789012", nil))
}

func TestAddresses(t *testing.T) {
	out := Addresses("123456789012", []models.Address{
		{PublicIP: "54.1.2.3", AllocationID: "eipalloc-0abc", AssociatedTo: "i-0abc"},
	})
	assert.Contains(t, out, "| - | 54.1.2.3 | eipalloc-0abc | i-0abc |")
}

func TestDatabases(t *testing.T) {
	out := Databases([]models.DBInstance{
		{Identifier: "orders-db", Engine: "postgres", EngineVersion: "15.4", Class: "db.t3.medium", Status: "available", MultiAZ: true},
	})
	assert.Contains(t, out, "| orders-db | postgres 15.4 | db.t3.medium | available | yes |")
}

func TestCosts(t *testing.T) {
	t.Run("lines below a cent are folded", func(t *testing.T) {
		out := Costs(models.CostSummary{
			Start: "2026-08-01",
			End:   "2026-08-31",
			Total: 42.5,
			Unit:  "USD",
			ByService: []models.CostLine{
				{Service: "Amazon EC2", Amount: 40.0, Unit: "USD"},
				{Service: "AWS Lambda", Amount: 0.004, Unit: "USD"},
			},
		})
		assert.Contains(t, out, "**Total: 42.50 USD**")
		assert.Contains(t, out, "| Amazon EC2 | 40.00 USD |")
		assert.NotContains(t, out, "AWS Lambda")
	})

	t.Run("no per-service lines", func(t *testing.T) {
		out := Costs(models.CostSummary{Start: "2026-08-01", End: "2026-08-31", Unit: "USD"})
		assert.Contains(t, out, "No per-service spend recorded yet this month.")
	})
}

func TestResources(t *testing.T) {
	t.Run("empty names the keyword", func(t *testing.T) {
		out := Resources("lambda", nil)
		assert.Equal(t, "No `lambda` resources found in the current account.", out)
	})

	t.Run("table", func(t *testing.T) {
		out := Resources("nat gateway", []models.Resource{
			{Name: "nat-main", Type: "ec2:natgateway", Region: "us-east-1"},
		})
		assert.Contains(t, out, "### Nat Gateway Resources")
		assert.Contains(t, out, "| nat-main | natgateway | us-east-1 |")
	})
}

func TestIAMUsers(t *testing.T) {
	created := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	out := IAMUsers([]models.IAMUser{
		{Name: "deploy-bot", CreatedAt: created},
	})
	assert.Contains(t, out, "| deploy-bot | 2025-03-01 09:30 | never |")
}

func TestIdentity(t *testing.T) {
	out := Identity(models.Identity{
		AccountID: "123456789012",
		ARN:       "arn:aws:iam::123456789012:user/ops",
		UserID:    "AIDAEXAMPLE",
	})
	assert.Contains(t, out, "- **Account:** 123456789012")
	assert.Contains(t, out, "arn:aws:iam::123456789012:user/ops")
}

func TestHelpListsExamples(t *testing.T) {
	out := Help()
	assert.Contains(t, out, "Show all instances")
	assert.Contains(t, out, "Status of instance web-01")
	assert.Contains(t, out, "costs this month")
}

func TestShortType(t *testing.T) {
	assert.Equal(t, "natgateway", shortType("ec2:natgateway"))
	assert.Equal(t, "s3", shortType("s3"))
}
