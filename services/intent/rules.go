package intent

import "regexp"

var (
	// instanceStatusRe captures the instance name from queries like
	// "status of instance web-01" or "health of vm db-02".
	instanceStatusRe = regexp.MustCompile(`(?:status|health|state) of (?:vm|instance|virtual machine|server) ([\w.-]+)`)

	// metricsRe captures the metric keyword and the resource name from
	// queries like "cpu for web-01" or "metrics of db-02".
	metricsRe = regexp.MustCompile(`(cpu|memory|metrics) (?:for|of) ([\w.-]+)`)
)

// typeAlias maps a query keyword to the vendor resource type it discovers.
// Evaluated in declared order; the table is a slice so matching stays
// deterministic.
type typeAlias struct {
	Keyword      string
	ResourceType string
}

// typeAliases covers the commonly asked-about service vocabulary that has no
// dedicated handler. Broad keywords sit below specific ones so that e.g.
// "internet gateway" is not swallowed by "gateway".
var typeAliases = []typeAlias{
	// Aliases whose keyword contains, or is contained by, a broader keyword
	// further down. These must come first: "step functions" would otherwise be
	// swallowed by "function", and "secrets" by "ecr".
	{"step function", "states:stateMachine"},
	{"state machine", "states:stateMachine"},
	{"secret", "secretsmanager:secret"},

	// Compute
	{"lambda", "lambda:function"},
	{"function", "lambda:function"},
	{"ecs", "ecs:cluster"},
	{"fargate", "ecs:cluster"},
	{"ecr", "ecr:repository"},
	{"container registry", "ecr:repository"},
	{"auto scaling", "autoscaling:autoScalingGroup"},
	{"asg", "autoscaling:autoScalingGroup"},
	{"lightsail", "lightsail"},

	// Storage & data
	{"ebs", "ec2:volume"},
	{"volume", "ec2:volume"},
	{"snapshot", "ec2:snapshot"},
	{"efs", "elasticfilesystem:file-system"},
	{"file system", "elasticfilesystem:file-system"},
	{"glacier", "glacier:vault"},
	{"dynamo", "dynamodb:table"},
	{"dynamodb", "dynamodb:table"},
	{"redshift", "redshift:cluster"},
	{"elasticache", "elasticache:cluster"},
	{"redis", "elasticache:cluster"},
	{"memcached", "elasticache:cluster"},
	{"aurora", "rds:cluster"},
	{"backup vault", "backup:backup-vault"},

	// Networking
	{"subnet", "ec2:subnet"},
	{"security group", "ec2:security-group"},
	{"nat gateway", "ec2:natgateway"},
	{"internet gateway", "ec2:internet-gateway"},
	{"route table", "ec2:route-table"},
	{"vpn", "ec2:vpn-connection"},
	{"route53", "route53:hostedzone"},
	{"hosted zone", "route53:hostedzone"},
	{"dns", "route53:hostedzone"},
	{"cloudfront", "cloudfront:distribution"},
	{"cdn", "cloudfront:distribution"},
	{"api gateway", "apigateway:restapis"},

	// Security & management
	{"kms", "kms:key"},
	{"encryption key", "kms:key"},
	{"certificate", "acm:certificate"},
	{"acm", "acm:certificate"},
	{"waf", "wafv2:webacl"},
	{"cloudtrail", "cloudtrail:trail"},
	{"trail", "cloudtrail:trail"},
	{"alarm", "cloudwatch:alarm"},
	{"log group", "logs:log-group"},
	{"parameter", "ssm:parameter"},
	{"ssm", "ssm:parameter"},

	// Integration & analytics
	{"sqs", "sqs"},
	{"queue", "sqs"},
	{"sns", "sns"},
	{"topic", "sns"},
	{"kinesis", "kinesis:stream"},
	{"stream", "kinesis:stream"},
	{"event bus", "events:event-bus"},
	{"eventbridge", "events:event-bus"},
	{"glue", "glue"},
	{"athena", "athena:workgroup"},
	{"emr", "elasticmapreduce:cluster"},
	{"opensearch", "es:domain"},
	{"elasticsearch", "es:domain"},
	{"sagemaker", "sagemaker"},
	{"bedrock", "bedrock"},
}

// defaultRules is the ordered matcher list. Order is load-bearing: regex
// matchers sit above the keyword sets that could shadow their vocabulary, and
// the alias table comes last before the fuzzy fallback.
func defaultRules() []rule {
	return []rule{
		{
			Name: "list-instances",
			Match: func(q string) (Match, bool) {
				if containsAny(q,
					"list vms", "show vms", "show all vms", "get vms", "all vms",
					"list instances", "show instances", "show all instances",
					"get instances", "all instances", "list ec2", "show ec2") {
					return Match{Kind: ListInstances}, true
				}
				return Match{}, false
			},
		},
		{
			Name: "instance-status",
			Match: func(q string) (Match, bool) {
				if m := instanceStatusRe.FindStringSubmatch(q); m != nil {
					return Match{Kind: InstanceStatus, Target: m[1]}, true
				}
				return Match{}, false
			},
		},
		{
			Name: "metrics",
			Match: func(q string) (Match, bool) {
				if m := metricsRe.FindStringSubmatch(q); m != nil {
					return Match{Kind: Metrics, Metric: m[1], Target: m[2]}, true
				}
				return Match{}, false
			},
		},
		{
			Name: "resource-groups",
			Match: func(q string) (Match, bool) {
				if containsAny(q, "resource groups", "resource group", "list rgs", "show rgs") {
					return Match{Kind: ListResourceGroups}, true
				}
				return Match{}, false
			},
		},
		{
			Name: "networks",
			Match: func(q string) (Match, bool) {
				if containsAny(q, "vpcs", "vpc", "vnets", "networks", "virtual network") {
					return Match{Kind: ListNetworks}, true
				}
				return Match{}, false
			},
		},
		{
			Name: "addresses",
			Match: func(q string) (Match, bool) {
				if containsAny(q, "public ips", "elastic ips", "eips", "ip addresses", "ips") {
					return Match{Kind: ListAddresses}, true
				}
				return Match{}, false
			},
		},
		{
			Name: "databases",
			Match: func(q string) (Match, bool) {
				if containsAny(q, "databases", "database", "rds", "sql", "postgres", "mysql") {
					return Match{Kind: ListDatabases}, true
				}
				return Match{}, false
			},
		},
		{
			Name: "buckets",
			Match: func(q string) (Match, bool) {
				if containsAny(q, "buckets", "bucket", "s3", "storage") {
					return Match{Kind: ListBuckets}, true
				}
				return Match{}, false
			},
		},
		{
			Name: "load-balancers",
			Match: func(q string) (Match, bool) {
				if containsAny(q, "load balancers", "load balancer", "elb", "alb", "nlb") {
					return Match{Kind: ListLoadBalancers}, true
				}
				return Match{}, false
			},
		},
		{
			Name: "clusters",
			Match: func(q string) (Match, bool) {
				if containsAny(q, "eks", "kubernetes", "k8s", "aks") {
					return Match{Kind: ListClusters}, true
				}
				// A bare "clusters" means EKS only when the query names no
				// other clustered service ("redshift clusters", "ecs
				// clusters" belong to the alias table).
				if containsAny(q, "clusters", "cluster") {
					if _, ok := matchAlias(q); !ok {
						return Match{Kind: ListClusters}, true
					}
				}
				return Match{}, false
			},
		},
		{
			Name: "costs",
			Match: func(q string) (Match, bool) {
				if containsAny(q, "cost", "spend", "billing", "bill") {
					return Match{Kind: Costs}, true
				}
				return Match{}, false
			},
		},
		{
			Name: "iam-users",
			Match: func(q string) (Match, bool) {
				if containsAny(q, "iam users", "list users", "show users", "iam") {
					return Match{Kind: ListIAMUsers}, true
				}
				return Match{}, false
			},
		},
		{
			Name: "identity",
			Match: func(q string) (Match, bool) {
				if containsAny(q, "who am i", "whoami", "caller identity", "account id", "identity") {
					return Match{Kind: Identity}, true
				}
				return Match{}, false
			},
		},
		{
			Name: "alias-discovery",
			Match: matchAlias,
		},
	}
}

// matchAlias scans the alias table in declared order and returns a Discover
// match for the first keyword contained in q.
func matchAlias(q string) (Match, bool) {
	for _, alias := range typeAliases {
		if containsAny(q, alias.Keyword) {
			return Match{
				Kind:         Discover,
				ResourceType: alias.ResourceType,
				Keyword:      alias.Keyword,
			}, true
		}
	}
	return Match{}, false
}

// AliasResourceTypes returns the distinct resource types the alias table can
// dispatch to. The fuzzy fallback merges these with the live catalog so it
// works even against an empty account.
func AliasResourceTypes() []string {
	seen := make(map[string]bool, len(typeAliases))
	types := make([]string, 0, len(typeAliases))
	for _, alias := range typeAliases {
		if !seen[alias.ResourceType] {
			seen[alias.ResourceType] = true
			types = append(types, alias.ResourceType)
		}
	}
	return types
}
