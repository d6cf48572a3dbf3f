package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"studyhub/core/metrics"
	"studyhub/core/reconcile"
	"studyhub/feature/backup"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for backup import commands
	importName string
	yesConfirm bool
)

// backupCmd is the parent command for all backup operations.
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Export and import StudyHub snapshots",
	Long: `Export the live data to a snapshot, or import a snapshot back.

Imports either merge into the existing data (existing records win) or replace it
entirely. A snapshot that fails validation changes nothing.`,
}

var backupExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a snapshot of the live data to the backup target",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, l, err := backupService(cmd.Context())
		if err != nil {
			return err
		}
		res, err := svc.Export(cmd.Context())
		if err != nil {
			return err
		}
		l.Info("Backup written", zap.String("location", res.Location), zap.Int("bytes", res.Bytes))
		return nil
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshots in the backup target",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := backupService(cmd.Context())
		if err != nil {
			return err
		}
		names, err := svc.List(cmd.Context())
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return nil
	},
}

var backupImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a snapshot (merge or replace)",
}

var backupImportMergeCmd = &cobra.Command{
	Use:   "merge [file]",
	Short: "Merge a snapshot into the live data",
	Long: `Merge a snapshot into the live data. Records that already exist are kept;
new records are added. Stats keep the higher counters.

Examples:
  # Merge a file from disk
  backup import merge ./studyhub-backup-2025-03-01T09-30-15-250Z.json

  # Merge a snapshot stored in the backup target
  backup import merge --name studyhub-backup-2025-03-01T09-30-15-250Z.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd.Context(), reconcile.StrategyMerge, args)
	},
}

var backupImportReplaceCmd = &cobra.Command{
	Use:   "replace [file]",
	Short: "Replace the live data with a snapshot",
	Long: `Replace every collection with the snapshot's content. Data not in the
snapshot is lost.

Examples:
  # Replace with interactive confirmation
  backup import replace ./backup.json

  # Replace with auto-confirm (non-interactive)
  backup import replace --name backup.json --yes`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd.Context(), reconcile.StrategyReplace, args)
	},
}

func init() {
	backupImportCmd.AddCommand(backupImportMergeCmd, backupImportReplaceCmd)
	backupCmd.AddCommand(backupExportCmd, backupListCmd, backupImportCmd)

	for _, c := range []*cobra.Command{backupImportMergeCmd, backupImportReplaceCmd} {
		c.Flags().StringVar(&importName, "name", "", "Read the snapshot from the backup target instead of a file")
	}
	backupImportReplaceCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm replacing all data (non-interactive)")

	RootCmd.AddCommand(backupCmd)
}

func backupService(ctx context.Context) (*backup.Service, *zap.Logger, error) {
	e, err := setup(ctx)
	if err != nil {
		return nil, nil, err
	}
	target, _, err := e.backupTarget(ctx)
	if err != nil {
		return nil, nil, err
	}
	f := backup.NewFeature(e.store, target, e.cfg.Backup.Prefix, metrics.NewNop(), e.logger)
	return f.Service(), e.logger, nil
}

func runImport(ctx context.Context, strategy reconcile.Strategy, args []string) error {
	if (len(args) == 0) == (importName == "") {
		return fmt.Errorf("give either a file or --name")
	}

	svc, l, err := backupService(ctx)
	if err != nil {
		return err
	}

	var raw []byte
	if importName != "" {
		raw, err = svc.Read(ctx, importName)
	} else {
		raw, err = afero.ReadFile(afero.NewOsFs(), args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	var res reconcile.Result
	if strategy == reconcile.StrategyReplace {
		if !confirmDestructiveAction() {
			l.Warn("Operation cancelled by user. No changes were made.")
			return nil
		}
		res, err = svc.ImportReplace(ctx, raw)
	} else {
		res, err = svc.ImportMerge(ctx, raw)
	}
	if err != nil {
		return err
	}

	printImportReport(l, res)
	return nil
}

// printImportReport prints the import result using logger.
func printImportReport(l *zap.Logger, res reconcile.Result) {
	l.Info("Import report",
		zap.String("strategy", string(res.Strategy)),
		zap.Int("tasks", res.TasksImported),
		zap.Int("groups", res.GroupsImported),
		zap.Int("friends", res.FriendsImported),
		zap.Bool("user_updated", res.UserUpdated),
		zap.Bool("stats_updated", res.StatsUpdated),
	)

	// Show sample of warnings (max 5 for logger)
	maxShow := min(len(res.Warnings), 5)
	for _, w := range res.Warnings[:maxShow] {
		l.Warn("Skipped record", zap.String("warning", w.String()))
	}
	if len(res.Warnings) > maxShow {
		l.Warn("Additional warnings not shown", zap.Int("count", len(res.Warnings)-maxShow))
	}
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  This replaces all local data. Type 'yes' to confirm: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}
