package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"studyhub/feature/integrity"
	"studyhub/feature/integrity/checks"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Perform integrity checks on local data and backup storage",
	Long:  `Runs every integrity check: live data invariants, the collections table schema and, for the bucket target, the backup bucket.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, l, err := integrityService(cmd.Context())
		if err != nil {
			return err
		}
		startTime := time.Now()
		report := svc.RunAll(cmd.Context())

		if report.Data != nil {
			logDataReport(l, report.Data)
		}
		if report.Schema != nil {
			logSchemaReport(l, report.Schema)
		}
		if report.Bucket != nil {
			l.Info("Backup bucket", zap.String("bucket", report.Bucket.Bucket), zap.String("status", report.Bucket.Status))
		}
		for name, msg := range report.Errors {
			l.Error("Check failed", zap.String("check", name), zap.String("error", msg))
		}

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			filename := fmt.Sprintf("integrity_%d.json", time.Now().Unix())
			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal JSON: %w", err)
			}
			if err := os.WriteFile(filename, data, 0644); err != nil {
				return fmt.Errorf("failed to save JSON file: %w", err)
			}
			l.Info("Detailed JSON report saved", zap.String("file", filename))
		}

		l.Info("Integrity check completed", zap.Duration("execution_time", time.Since(startTime)))
		return nil
	},
}

// dataCmd represents the integrity data command
var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Check and fix live data invariants",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, l, err := integrityService(cmd.Context())
		if err != nil {
			return err
		}

		var report *checks.DataReport
		if fixFlag {
			l.Info("Repairing data issues...")
			report, err = svc.FixData(cmd.Context())
		} else {
			report, err = svc.CheckData(cmd.Context())
		}
		if err != nil {
			return err
		}
		logDataReport(l, report)
		if report.Status == "issues" && !fixFlag {
			l.Info("Run with --fix to repair fixable issues.")
		}
		return nil
	},
}

// schemaCmd represents the integrity schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Check the collections table schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, l, err := integrityService(cmd.Context())
		if err != nil {
			return err
		}
		report, err := svc.CheckSchema()
		if err != nil {
			return err
		}
		logSchemaReport(l, report)
		return nil
	},
}

// bucketCmd represents the integrity bucket command
var bucketCmd = &cobra.Command{
	Use:   "bucket",
	Short: "Check and fix the backup bucket",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, l, err := integrityService(cmd.Context())
		if err != nil {
			return err
		}
		report, err := svc.CheckBucket(cmd.Context())
		if err != nil {
			return err
		}
		if report.Status == "ok" {
			l.Info("Backup bucket is intact.", zap.String("bucket", report.Bucket))
			return nil
		}

		l.Warn("Backup bucket incomplete", zap.Bool("exists", report.Exists), zap.Bool("prefix_exists", report.PrefixExists))
		if !fixFlag {
			l.Info("Run with --fix to create the bucket.")
			return nil
		}
		if err := svc.FixBucket(cmd.Context()); err != nil {
			return err
		}
		l.Info("Backup bucket fixed successfully.")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(dataCmd, schemaCmd, bucketCmd)

	integrityCmd.Flags().Bool("json", false, "Save the detailed report as JSON")
	dataCmd.Flags().BoolVar(&fixFlag, "fix", false, "Repair fixable issues")
	bucketCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create the bucket and export prefix")
}

func integrityService(ctx context.Context) (*integrity.Service, *zap.Logger, error) {
	e, err := setup(ctx)
	if err != nil {
		return nil, nil, err
	}
	// No EnsureBucket here: a missing bucket is what the check reports
	client, err := e.storageClient()
	if err != nil {
		return nil, nil, err
	}
	f := integrity.NewFeature(e.store, e.store.DB(), client, e.cfg.Storage, e.cfg.Backup.BucketPrefix, e.logger)
	return f.Service(), e.logger, nil
}

func logDataReport(l *zap.Logger, report *checks.DataReport) {
	if len(report.Issues) == 0 {
		l.Info("Data is consistent.", zap.String("status", report.Status))
		return
	}
	l.Warn("Data issues detected", zap.String("status", report.Status), zap.Int("issues", len(report.Issues)))
	for _, issue := range report.Issues {
		l.Warn("Issue",
			zap.String("check", issue.Check),
			zap.String("collection", issue.Collection),
			zap.String("id", issue.ID),
			zap.String("detail", issue.Detail),
			zap.Bool("fixable", issue.Fixable),
		)
	}
}

func logSchemaReport(l *zap.Logger, report *checks.SchemaReport) {
	if report.Matched {
		l.Info("Schema matches expected definition.", zap.String("table", report.Table))
		return
	}
	l.Warn("Missing Columns", zap.String("table", report.Table), zap.Strings("columns", report.MissingColumns))
}
