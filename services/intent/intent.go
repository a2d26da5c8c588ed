// Package intent classifies free-text operator queries into a fixed set of
// read-only inventory operations. Classification is an ordered sequence of
// matchers: substring keyword sets, regular expressions, an alias table of
// resource-type keywords, and a final fuzzy search against the account's live
// resource-type catalog. The first match wins.
package intent

import (
	"context"
	"strings"
)

const unknownStr = "unknown"

// Kind identifies the operation a query resolves to.
type Kind int

const (
	// Help is the zero value: no matcher recognized the query, so the
	// response is usage guidance rather than an error.
	Help Kind = iota

	ListInstances
	InstanceStatus
	Metrics
	ListResourceGroups
	ListNetworks
	ListAddresses
	ListDatabases
	ListBuckets
	ListLoadBalancers
	ListClusters
	Costs
	ListIAMUsers
	Identity

	// Discover is a generic resource-graph query for one resource type,
	// reached through the alias table or the fuzzy fallback.
	Discover
)

// String returns the kind's wire/log representation.
func (k Kind) String() string {
	switch k {
	case Help:
		return "help"
	case ListInstances:
		return "list_instances"
	case InstanceStatus:
		return "instance_status"
	case Metrics:
		return "metrics"
	case ListResourceGroups:
		return "list_resource_groups"
	case ListNetworks:
		return "list_networks"
	case ListAddresses:
		return "list_addresses"
	case ListDatabases:
		return "list_databases"
	case ListBuckets:
		return "list_buckets"
	case ListLoadBalancers:
		return "list_load_balancers"
	case ListClusters:
		return "list_clusters"
	case Costs:
		return "costs"
	case ListIAMUsers:
		return "list_iam_users"
	case Identity:
		return "identity"
	case Discover:
		return "discover"
	default:
		return unknownStr
	}
}

// Match is the outcome of classifying one query.
type Match struct {
	Kind Kind

	// Target is the resource name captured by the status and metrics
	// regexes.
	Target string

	// Metric is the metric keyword ("cpu", "memory", "metrics") captured by
	// the metrics regex.
	Metric string

	// ResourceType is the vendor type a Discover match queries for.
	ResourceType string

	// Keyword is the alias or fuzzy token that produced a Discover match.
	Keyword string

	// Rule names the matcher that fired, for logs and the audit trail.
	Rule string
}

// Catalog supplies the account's live resource-type catalog for the fuzzy
// fallback. The inventory service implements it.
type Catalog interface {
	ResourceTypeCatalog(ctx context.Context) ([]string, error)
}

// Classifier routes queries through the ordered matcher list.
type Classifier struct {
	catalog Catalog
	rules   []rule
}

// rule is one entry in the ordered matcher list.
type rule struct {
	// Name is a short identifier for the matcher (e.g. "list-instances").
	Name string

	// Match inspects the lowercased query and reports whether it fired.
	Match func(query string) (Match, bool)
}

// NewClassifier returns a classifier backed by catalog. A nil catalog
// disables the fuzzy fallback; every other matcher still runs.
func NewClassifier(catalog Catalog) *Classifier {
	return &Classifier{
		catalog: catalog,
		rules:   defaultRules(),
	}
}

// Classify lowercases query and evaluates the matchers in order, falling
// through to the fuzzy catalog search and finally to Help.
func (c *Classifier) Classify(ctx context.Context, query string) Match {
	q := strings.ToLower(strings.TrimSpace(query))

	for _, r := range c.rules {
		if m, ok := r.Match(q); ok {
			m.Rule = r.Name
			return m
		}
	}

	if m, ok := c.fuzzyMatch(ctx, q); ok {
		return m
	}

	return Match{Kind: Help, Rule: "fallback-help"}
}

// containsAny reports whether q contains any of the keywords.
func containsAny(q string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}
