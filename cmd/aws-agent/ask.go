package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/opsdesk/aws-agent/providers/aws"
	"github.com/opsdesk/aws-agent/services/agent"
	"github.com/opsdesk/aws-agent/services/intent"
)

func newAskCmd() *cobra.Command {
	var (
		profile  string
		region   string
		lookback string
	)

	cmd := &cobra.Command{
		Use:          "ask [query...]",
		Short:        "Answer a single query from the command line",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			query := strings.Join(args, " ")

			logger := zap.NewNop()
			cloud, err := aws.NewService(ctx, aws.LoadOptions{
				Profile: profile,
				Region:  region,
			}, logger)
			if err != nil {
				return fmt.Errorf("load AWS configuration: %w", err)
			}

			var metricLookback time.Duration
			if lookback != "" {
				metricLookback, err = time.ParseDuration(lookback)
				if err != nil {
					return fmt.Errorf("invalid lookback %q: %w", lookback, err)
				}
			}

			classifier := intent.NewClassifier(cloud)
			svc := agent.NewService(cloud, classifier, nil, metricLookback, logger)

			result, err := svc.ProcessQuery(ctx, query, agent.RequestMeta{})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), result.Text)
			return nil
		},
	}

	cmd.Flags().StringVar(&profile, "profile", "", "AWS profile name (default: uses environment / default profile)")
	cmd.Flags().StringVar(&region, "region", "", "AWS region (default: from profile or us-east-1)")
	cmd.Flags().StringVar(&lookback, "lookback", "", "Metric lookback window, e.g. 2h (default: 1h)")

	return cmd
}
