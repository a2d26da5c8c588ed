package aws

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	tagging "github.com/aws/aws-sdk-go-v2/service/resourcegroupstaggingapi"
	taggingtypes "github.com/aws/aws-sdk-go-v2/service/resourcegroupstaggingapi/types"

	"github.com/opsdesk/aws-agent/models"
)

// QueryResourcesByType runs a resource-graph query: it pages through the
// tagged-resource inventory filtered to one resource type, in the vendor's
// "service:resourceType" form (e.g. "ec2:instance", "rds:db").
func (s *Service) QueryResourcesByType(ctx context.Context, resourceType string) ([]models.Resource, error) {
	paginator := tagging.NewGetResourcesPaginator(s.clients.Tagging, &tagging.GetResourcesInput{
		ResourceTypeFilters: []string{resourceType},
		ResourcesPerPage:    aws.Int32(100),
	})

	var resources []models.Resource
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("GetResources(%s) page: %w", resourceType, err)
		}
		for _, m := range page.ResourceTagMappingList {
			resources = append(resources, toResource(m))
		}
	}
	return resources, nil
}

// ResourceTypeCatalog returns the distinct resource types present in the
// account's tagged-resource inventory, sorted. The intent matcher's fuzzy
// fallback searches this catalog.
func (s *Service) ResourceTypeCatalog(ctx context.Context) ([]string, error) {
	paginator := tagging.NewGetResourcesPaginator(s.clients.Tagging, &tagging.GetResourcesInput{
		ResourcesPerPage: aws.Int32(100),
	})

	seen := make(map[string]bool)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("GetResources catalog page: %w", err)
		}
		for _, m := range page.ResourceTagMappingList {
			if t := typeFromARN(aws.ToString(m.ResourceARN)); t != "" {
				seen[t] = true
			}
		}
	}

	types := make([]string, 0, len(seen))
	for t := range seen {
		types = append(types, t)
	}
	sort.Strings(types)
	return types, nil
}

// toResource converts a tag mapping to the internal model. The display name
// prefers the Name tag and falls back to the last ARN segment.
func toResource(m taggingtypes.ResourceTagMapping) models.Resource {
	arn := aws.ToString(m.ResourceARN)

	tags := make(map[string]string, len(m.Tags))
	for _, t := range m.Tags {
		tags[aws.ToString(t.Key)] = aws.ToString(t.Value)
	}

	name := tags["Name"]
	if name == "" {
		name = nameFromARN(arn)
	}

	return models.Resource{
		ARN:    arn,
		Name:   name,
		Type:   typeFromARN(arn),
		Region: regionFromARN(arn),
		Tags:   tags,
	}
}

// typeFromARN derives the "service:resourceType" string from an ARN.
// arn:aws:ec2:us-east-1:123456789012:instance/i-abc → "ec2:instance";
// arn:aws:s3:::my-bucket → "s3" (S3 ARNs carry no resource type segment).
func typeFromARN(arn string) string {
	parts := strings.SplitN(arn, ":", 6)
	if len(parts) < 6 {
		return ""
	}
	service := parts[2]
	resource := parts[5]

	var resourceType string
	if idx := strings.IndexAny(resource, "/:"); idx > 0 {
		resourceType = resource[:idx]
	}
	if resourceType == "" {
		return service
	}
	return service + ":" + resourceType
}

// nameFromARN returns the final path segment of an ARN's resource part.
func nameFromARN(arn string) string {
	parts := strings.SplitN(arn, ":", 6)
	if len(parts) < 6 {
		return arn
	}
	resource := parts[5]
	if idx := strings.LastIndexAny(resource, "/:"); idx >= 0 {
		return resource[idx+1:]
	}
	return resource
}

// regionFromARN extracts the region field; empty for global services.
func regionFromARN(arn string) string {
	parts := strings.SplitN(arn, ":", 6)
	if len(parts) < 6 {
		return ""
	}
	return parts[3]
}
