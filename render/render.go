// Package render turns inventory records into the markdown chat responses.
// It is a pure presentation layer: no classification logic and no cloud API
// calls.
package render

import (
	"fmt"
	"strings"

	"github.com/opsdesk/aws-agent/models"
)

const timeLayout = "2006-01-02 15:04"

// Instances renders the instance listing table.
func Instances(accountID string, instances []models.Instance) string {
	if len(instances) == 0 {
		return "No instances found in the current account."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "### Instances (Account: `%s`)\n\n", accountID)
	b.WriteString("| Name | Instance ID | Type | State | AZ | Platform |\n")
	b.WriteString("| :--- | :--- | :--- | :--- | :--- | :--- |\n")
	for _, inst := range instances {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			inst.DisplayName(), inst.InstanceID, inst.InstanceType,
			inst.State, inst.AvailabilityZone, inst.Platform)
	}
	return b.String()
}

// InstanceHealth renders the detailed status view of one instance.
func InstanceHealth(h models.InstanceHealth) string {
	var b strings.Builder
	fmt.Fprintf(&b, "### Health Status: `%s`\n\n", h.DisplayName())
	fmt.Fprintf(&b, "- **State:** %s\n", orDash(h.State))
	fmt.Fprintf(&b, "- **System Status:** %s\n", orDash(h.SystemStatus))
	fmt.Fprintf(&b, "- **Instance Status:** %s\n", orDash(h.InstanceStatus))
	fmt.Fprintf(&b, "- **Instance ID:** %s\n", h.InstanceID)
	fmt.Fprintf(&b, "- **Type:** %s\n", h.InstanceType)
	fmt.Fprintf(&b, "- **AZ:** %s", h.AvailabilityZone)
	return b.String()
}

// Metrics renders the latest datapoints per metric. Values are averages.
func Metrics(name string, series []models.MetricSeries) string {
	var b strings.Builder
	fmt.Fprintf(&b, "### Latest Metrics for `%s`\n\n", name)

	var any bool
	for _, s := range series {
		if len(s.Datapoints) == 0 {
			continue
		}
		any = true
		values := make([]string, 0, len(s.Datapoints))
		for _, dp := range s.Datapoints {
			values = append(values, fmt.Sprintf("%.2f%%", dp.Average))
		}
		fmt.Fprintf(&b, "- **%s:** %s (last %d readings)\n",
			s.Metric, strings.Join(values, ", "), len(s.Datapoints))
	}
	if !any {
		b.WriteString("No metric data available for this resource in the last hour.")
	}
	return b.String()
}

// ResourceGroups renders the resource group bullet list.
func ResourceGroups(groups []models.ResourceGroup) string {
	if len(groups) == 0 {
		return "No resource groups found in the current account."
	}

	var b strings.Builder
	b.WriteString("### Resource Groups\n\n")
	for _, g := range groups {
		fmt.Fprintf(&b, "- `%s`\n", g.Name)
	}
	return b.String()
}

// VPCs renders the virtual network table.
func VPCs(accountID string, vpcs []models.VPC) string {
	if len(vpcs) == 0 {
		return "No VPCs found in the current account."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "### VPCs (Account: `%s`)\n\n", accountID)
	b.WriteString("| Name | VPC ID | State | CIDR Blocks | Default |\n")
	b.WriteString("| :--- | :--- | :--- | :--- | :--- |\n")
	for _, v := range vpcs {
		def := ""
		if v.IsDefault {
			def = "yes"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			orDash(v.Name), v.VPCID, v.State, strings.Join(v.CIDRBlocks, ", "), def)
	}
	return b.String()
}

// Addresses renders the Elastic IP table.
func Addresses(accountID string, addresses []models.Address) string {
	if len(addresses) == 0 {
		return "No Elastic IP addresses found in the current account."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "### Elastic IP Addresses (Account: `%s`)\n\n", accountID)
	b.WriteString("| Name | IP Address | Allocation ID | Associated To |\n")
	b.WriteString("| :--- | :--- | :--- | :--- |\n")
	for _, a := range addresses {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			orDash(a.Name), a.PublicIP, a.AllocationID, orDash(a.AssociatedTo))
	}
	return b.String()
}

// Databases renders the RDS instance table.
func Databases(databases []models.DBInstance) string {
	if len(databases) == 0 {
		return "No database instances found in the current account."
	}

	var b strings.Builder
	b.WriteString("### Database Instances\n\n")
	b.WriteString("| Identifier | Engine | Class | Status | Multi-AZ |\n")
	b.WriteString("| :--- | :--- | :--- | :--- | :--- |\n")
	for _, db := range databases {
		multiAZ := "no"
		if db.MultiAZ {
			multiAZ = "yes"
		}
		engine := db.Engine
		if db.EngineVersion != "" {
			engine = fmt.Sprintf("%s %s", db.Engine, db.EngineVersion)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			db.Identifier, engine, db.Class, db.Status, multiAZ)
	}
	return b.String()
}

// Buckets renders the S3 bucket table.
func Buckets(buckets []models.Bucket) string {
	if len(buckets) == 0 {
		return "No buckets found in the current account."
	}

	var b strings.Builder
	b.WriteString("### Buckets\n\n")
	b.WriteString("| Name | Created |\n")
	b.WriteString("| :--- | :--- |\n")
	for _, bucket := range buckets {
		fmt.Fprintf(&b, "| %s | %s |\n", bucket.Name, bucket.CreatedAt.Format(timeLayout))
	}
	return b.String()
}

// LoadBalancers renders the load balancer table.
func LoadBalancers(balancers []models.LoadBalancer) string {
	if len(balancers) == 0 {
		return "No load balancers found in the current account."
	}

	var b strings.Builder
	b.WriteString("### Load Balancers\n\n")
	b.WriteString("| Name | Type | Scheme | State | DNS Name |\n")
	b.WriteString("| :--- | :--- | :--- | :--- | :--- |\n")
	for _, lb := range balancers {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			lb.Name, lb.Type, lb.Scheme, lb.State, lb.DNSName)
	}
	return b.String()
}

// Clusters renders the Kubernetes cluster table.
func Clusters(clusters []models.Cluster) string {
	if len(clusters) == 0 {
		return "No Kubernetes clusters found in the current account."
	}

	var b strings.Builder
	b.WriteString("### Kubernetes Clusters\n\n")
	b.WriteString("| Name | Version | Status |\n")
	b.WriteString("| :--- | :--- | :--- |\n")
	for _, c := range clusters {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", c.Name, orDash(c.Version), c.Status)
	}
	return b.String()
}

// IAMUsers renders the IAM user table.
func IAMUsers(users []models.IAMUser) string {
	if len(users) == 0 {
		return "No IAM users found in the current account."
	}

	var b strings.Builder
	b.WriteString("### IAM Users\n\n")
	b.WriteString("| Name | Created | Password Last Used |\n")
	b.WriteString("| :--- | :--- | :--- |\n")
	for _, u := range users {
		lastUsed := "never"
		if u.PasswordLastUsed != nil {
			lastUsed = u.PasswordLastUsed.Format(timeLayout)
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", u.Name, u.CreatedAt.Format(timeLayout), lastUsed)
	}
	return b.String()
}

// Costs renders the month-to-date spend breakdown. Lines below one cent are
// folded into the total only.
func Costs(summary models.CostSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "### Month-to-Date Costs (%s to %s)\n\n", summary.Start, summary.End)
	fmt.Fprintf(&b, "**Total: %.2f %s**\n\n", summary.Total, summary.Unit)

	var any bool
	for _, line := range summary.ByService {
		if line.Amount < 0.01 {
			continue
		}
		if !any {
			b.WriteString("| Service | Cost |\n")
			b.WriteString("| :--- | :--- |\n")
			any = true
		}
		fmt.Fprintf(&b, "| %s | %.2f %s |\n", line.Service, line.Amount, line.Unit)
	}
	if !any {
		b.WriteString("No per-service spend recorded yet this month.")
	}
	return b.String()
}

// Resources renders a generic discovery result for one resource type.
func Resources(keyword string, resources []models.Resource) string {
	if len(resources) == 0 {
		return fmt.Sprintf("No `%s` resources found in the current account.", keyword)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "### %s Resources\n\n", titleWords(keyword))
	b.WriteString("| Name | Type | Region |\n")
	b.WriteString("| :--- | :--- | :--- |\n")
	for _, r := range resources {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", r.Name, shortType(r.Type), orDash(r.Region))
	}
	return b.String()
}

// Identity renders the caller identity bullet list.
func Identity(ident models.Identity) string {
	var b strings.Builder
	b.WriteString("### Caller Identity\n\n")
	fmt.Fprintf(&b, "- **Account:** %s\n", ident.AccountID)
	fmt.Fprintf(&b, "- **ARN:** %s\n", ident.ARN)
	fmt.Fprintf(&b, "- **User ID:** %s", ident.UserID)
	return b.String()
}

// Help is the fallback response when no matcher recognizes the query.
func Help() string {
	return "I'm sorry, I couldn't determine the specific action for that query.\n\n" +
		"Try asking things like:\n" +
		"- 'Show all instances'\n" +
		"- 'Status of instance web-01'\n" +
		"- 'CPU for web-01'\n" +
		"- 'List VPCs'\n" +
		"- 'Show buckets'\n" +
		"- 'What are my costs this month?'"
}

// shortType keeps only the portion after the service prefix; full type
// strings are long and the table already names the service in its title.
func shortType(resourceType string) string {
	if idx := strings.LastIndex(resourceType, ":"); idx >= 0 {
		return resourceType[idx+1:]
	}
	return resourceType
}

// titleWords uppercases the first letter of each word in the keyword.
func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// orDash substitutes "-" for empty table cells.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
