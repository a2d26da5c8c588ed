package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/opsdesk/aws-agent/config"
	"github.com/opsdesk/aws-agent/providers/aws"
	"github.com/opsdesk/aws-agent/repositories/postgres"
)

// DoctorResult is the structured output of aws-agent doctor. It can be
// serialised to JSON via --format=json or rendered as a table (default).
type DoctorResult struct {
	AWS struct {
		Profile     string `json:"profile,omitempty"`
		Credentials bool   `json:"credentials_ok"`
		AccountID   string `json:"account_id,omitempty"`
		Region      string `json:"region,omitempty"`
		Error       string `json:"error,omitempty"`
	} `json:"aws"`

	AuditDB struct {
		Configured bool   `json:"configured"`
		Reachable  bool   `json:"reachable"`
		Error      string `json:"error,omitempty"`
	} `json:"audit_db"`

	OverallHealthy bool `json:"overall_healthy"`
}

// errDoctorUnhealthy makes the process exit non-zero on an unhealthy result
// without cutting RunE short the way a direct os.Exit would.
var errDoctorUnhealthy = errors.New("environment unhealthy")

func newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "doctor",
		Short:         "Run environment diagnostics",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			profile, _ := cmd.Flags().GetString("profile")
			result := collectDoctorResult(cmd.Context(), profile)
			return runDoctor(cmd.OutOrStdout(), format, result)
		},
	}
	cmd.Flags().String("format", "table", `Output format: "table" or "json"`)
	cmd.Flags().String("profile", "", "AWS profile to use (default: credential chain)")
	return cmd
}

// runDoctor renders result to w in the requested format and returns
// errDoctorUnhealthy when any check failed.
func runDoctor(w io.Writer, format string, result DoctorResult) error {
	switch format {
	case "json":
		if err := json.NewEncoder(w).Encode(result); err != nil {
			return fmt.Errorf("encode doctor result: %w", err)
		}
	default:
		renderDoctorTable(result, w)
	}

	if !result.OverallHealthy {
		return errDoctorUnhealthy
	}
	return nil
}

// collectDoctorResult runs all environment checks and populates a DoctorResult.
func collectDoctorResult(ctx context.Context, profile string) DoctorResult {
	var result DoctorResult

	cfg, err := config.New()
	if err != nil {
		result.AWS.Error = err.Error()
		return result
	}
	if profile == "" {
		profile = cfg.AWS.Profile
	}
	if profile != "" {
		result.AWS.Profile = profile
	}

	// AWS: credential chain → STS caller identity.
	cloud, err := aws.NewService(ctx, aws.LoadOptions{
		Profile: profile,
		Region:  cfg.AWS.Region,
	}, zap.NewNop())
	if err != nil {
		result.AWS.Error = err.Error()
	} else {
		result.AWS.Region = cloud.Region()
		ident, err := cloud.Identity(ctx)
		if err != nil {
			result.AWS.Error = err.Error()
		} else {
			result.AWS.Credentials = true
			result.AWS.AccountID = ident.AccountID
		}
	}

	// Audit DB: connect and ping (optional).
	if cfg.AuditDatabase != nil {
		result.AuditDB.Configured = true
		db, err := postgres.NewDB(*cfg.AuditDatabase, zap.NewNop())
		if err != nil {
			result.AuditDB.Error = err.Error()
		} else {
			result.AuditDB.Reachable = true
			_ = db.Close()
		}
	}

	result.OverallHealthy = result.AWS.Credentials &&
		(!result.AuditDB.Configured || result.AuditDB.Reachable)

	return result
}

// renderDoctorTable writes the human-readable diagnostic output to w.
func renderDoctorTable(result DoctorResult, w io.Writer) {
	fmt.Fprintln(w, "Environment Diagnostics")

	if result.AWS.Profile != "" {
		fmt.Fprintf(w, "\nAWS (profile: %s):\n", result.AWS.Profile)
	} else {
		fmt.Fprintln(w, "\nAWS:")
	}
	if !result.AWS.Credentials {
		doctorPrint(w, "Credentials", "FAIL", result.AWS.Error)
		doctorPrint(w, "STS Identity", "FAIL", "skipped")
	} else {
		doctorPrint(w, "Credentials", "OK", "")
		doctorPrint(w, "STS Identity", "OK", "Account: "+result.AWS.AccountID)
		doctorPrint(w, "Region", "OK", result.AWS.Region)
	}

	fmt.Fprintln(w, "\nAudit Database:")
	if !result.AuditDB.Configured {
		doctorPrint(w, "Configured", "Not configured (optional)", "")
	} else if result.AuditDB.Reachable {
		doctorPrint(w, "Reachable", "OK", "")
	} else {
		doctorPrint(w, "Reachable", "FAIL", result.AuditDB.Error)
	}
}

// doctorPrint writes a single diagnostic check line to w.
// When detail is non-empty it is appended in parentheses.
func doctorPrint(w io.Writer, label, status, detail string) {
	if detail != "" {
		fmt.Fprintf(w, "  %s: %s (%s)\n", label, status, detail)
	} else {
		fmt.Fprintf(w, "  %s: %s\n", label, status)
	}
}
