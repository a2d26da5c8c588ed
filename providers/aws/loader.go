package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"go.uber.org/zap"
)

// LoadOptions selects which AWS account and region the service talks to.
// Empty fields defer to the SDK default credential and region chain.
type LoadOptions struct {
	Profile string
	Region  string
}

// NewService loads the AWS SDK configuration and returns a Service bound to
// the resolved account. Credentials come from the standard chain (env vars,
// shared config, instance role); never the aws CLI.
func NewService(ctx context.Context, opts LoadOptions, logger *zap.Logger) (*Service, error) {
	return newServiceWithFactory(ctx, opts, NewClientSet, logger)
}

// newServiceWithFactory is the injection point for tests: pass a factory that
// returns mock clients.
func newServiceWithFactory(ctx context.Context, opts LoadOptions, factory ClientFactory, logger *zap.Logger) (*Service, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if opts.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(opts.Profile))
	}
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	// Fall back to us-east-1 when no region is configured anywhere so that
	// all SDK clients can still be constructed.
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	svc := &Service{
		region:  cfg.Region,
		clients: factory(cfg),
		logger:  logger,
	}

	// Resolve the account eagerly so misconfigured credentials surface at
	// startup as a warning rather than on the first operator query.
	if ident, err := svc.Identity(ctx); err != nil {
		logger.Warn("AWS credentials could not be verified; cloud queries will fail until resolved",
			zap.String("region", cfg.Region),
			zap.Error(err))
	} else {
		svc.accountID = ident.AccountID
		logger.Info("AWS account resolved",
			zap.String("account_id", ident.AccountID),
			zap.String("region", cfg.Region))
	}

	return svc, nil
}

// NewServiceFromClients builds a Service directly from a ClientSet. Tests use
// this to skip credential loading entirely.
func NewServiceFromClients(clients *ClientSet, region, accountID string, logger *zap.Logger) *Service {
	return &Service{
		region:    region,
		accountID: accountID,
		clients:   clients,
		logger:    logger,
	}
}

// resolveIdentity calls STS GetCallerIdentity for the loaded credentials.
func resolveIdentity(ctx context.Context, client STSClient) (string, string, string, error) {
	out, err := client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", "", "", fmt.Errorf("STS GetCallerIdentity: %w", err)
	}
	return aws.ToString(out.Account), aws.ToString(out.Arn), aws.ToString(out.UserId), nil
}
