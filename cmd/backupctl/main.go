package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"backupctl/internal/app"
	"backupctl/internal/config"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config file (falling back to built-in defaults if absent)
// and opens the store at dbPath, wiring a fully usable App. The caller must
// defer a.Close().
func newApp(operation, dbPath string) (*app.App, error) {
	defaults := app.GetDefaults()

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		cfg = config.Default()
	}

	if dbPath == "" {
		dbPath = defaults["db_path"]
	}

	a, err := app.New(cfg, dbPath, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

var rootCmd = &cobra.Command{
	Use:   "backupctl",
	Short: "Content-addressed incremental backup engine",
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults := app.GetDefaults()
		cfg := config.Default()

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults := app.GetDefaults()

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			cfg = config.Default()
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Max Content Size: %d\n", cfg.MaxContentSize)
		fmt.Printf("Log Dir:          %s\n", cfg.LogDir)
		fmt.Printf("Default DB Path:  %s\n", cfg.DefaultDBPath)
		return nil
	},
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Capture a point-in-time snapshot of a directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		targetDir, _ := cmd.Flags().GetString("target-directory")
		dbPath, _ := cmd.Flags().GetString("db-path")

		a, err := newApp("snapshot", dbPath)
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.Snapshot(context.Background(), targetDir)
		if err != nil {
			return fmt.Errorf("snapshot failed: %w", err)
		}

		for _, w := range result.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %v\n", w.Err)
		}
		fmt.Printf("Created snapshot #%d\n", result.SnapshotID)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshots and their size figures",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, _ := cmd.Flags().GetString("db-path")

		a, err := newApp("list", dbPath)
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.List(context.Background())
		if err != nil {
			return fmt.Errorf("list failed: %w", err)
		}

		if len(result.Rows) == 0 {
			fmt.Println("No snapshots.")
			return nil
		}

		for _, row := range result.Rows {
			fmt.Printf("#%-5d %s  size=%d  distinct_size=%d\n",
				row.ID, row.TakenAt.Format("2006-01-02 15:04:05"), row.Size, row.DistinctSize)
		}
		fmt.Printf("\ntotal_size=%d\n", result.TotalSize)
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore a snapshot into a directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		snapshotNumber, _ := cmd.Flags().GetInt64("snapshot-number")
		outputDir, _ := cmd.Flags().GetString("output-directory")
		dbPath, _ := cmd.Flags().GetString("db-path")

		a, err := newApp("restore", dbPath)
		if err != nil {
			return err
		}
		defer a.Close()

		written, err := a.Restore(context.Background(), snapshotNumber, outputDir)
		if err != nil {
			return fmt.Errorf("restore failed: %w", err)
		}

		fmt.Printf("Restored %d file(s) to %s\n", len(written), outputDir)
		return nil
	},
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete a snapshot and reclaim its unreferenced content",
	RunE: func(cmd *cobra.Command, args []string) error {
		snapshotNumber, _ := cmd.Flags().GetInt64("snapshot")
		dbPath, _ := cmd.Flags().GetString("db-path")

		a, err := newApp("prune", dbPath)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Prune(context.Background(), snapshotNumber); err != nil {
			return fmt.Errorf("prune failed: %w", err)
		}

		fmt.Printf("Pruned snapshot #%d\n", snapshotNumber)
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify stored content against its recorded hashes",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, _ := cmd.Flags().GetString("db-path")

		a, err := newApp("check", dbPath)
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := a.Check(context.Background())
		if err != nil {
			return fmt.Errorf("check failed: %w", err)
		}

		if report.StructuralError != nil {
			fmt.Printf("structural error: %v\n", report.StructuralError)
		}
		for _, h := range report.CorruptHashes {
			fmt.Printf("corrupt: %s\n", h)
		}
		for _, h := range report.MissingHashes {
			fmt.Printf("missing: %s\n", h)
		}

		if report.Healthy() {
			fmt.Println("Store is healthy.")
			return nil
		}
		return fmt.Errorf("store has %d corrupt and %d missing content row(s)",
			len(report.CorruptHashes), len(report.MissingHashes))
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View the operation audit trail",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		dbPath, _ := cmd.Flags().GetString("db-path")

		a, err := newApp("history", dbPath)
		if err != nil {
			return err
		}
		defer a.Close()

		ops, err := a.History(context.Background(), limit)
		if err != nil {
			return fmt.Errorf("history failed: %w", err)
		}

		if len(ops) == 0 {
			fmt.Println("No operations recorded.")
			return nil
		}

		for _, op := range ops {
			duration := ""
			if op.FinishedAt != nil {
				d := op.FinishedAt.Sub(op.StartedAt)
				duration = d.Truncate(time.Millisecond).String()
			}
			fmt.Printf("#%-5d %-10s %s  %-8s  %s\n",
				op.ID, op.Name, op.StartedAt.Format("2006-01-02 15:04:05"), op.Status, duration)
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)

	snapshotCmd.Flags().String("target-directory", "", "directory to snapshot (required)")
	snapshotCmd.Flags().String("db-path", "", "path to the backup database")
	snapshotCmd.MarkFlagRequired("target-directory")
	rootCmd.AddCommand(snapshotCmd)

	listCmd.Flags().String("db-path", "", "path to the backup database")
	rootCmd.AddCommand(listCmd)

	restoreCmd.Flags().Int64("snapshot-number", 0, "id of the snapshot to restore (required)")
	restoreCmd.Flags().String("output-directory", "", "directory to restore into (required)")
	restoreCmd.Flags().String("db-path", "", "path to the backup database")
	restoreCmd.MarkFlagRequired("snapshot-number")
	restoreCmd.MarkFlagRequired("output-directory")
	rootCmd.AddCommand(restoreCmd)

	pruneCmd.Flags().Int64("snapshot", 0, "id of the snapshot to prune (required)")
	pruneCmd.Flags().String("db-path", "", "path to the backup database")
	pruneCmd.MarkFlagRequired("snapshot")
	rootCmd.AddCommand(pruneCmd)

	checkCmd.Flags().String("db-path", "", "path to the backup database")
	rootCmd.AddCommand(checkCmd)

	historyCmd.Flags().IntP("limit", "n", 50, "maximum number of operations to show")
	historyCmd.Flags().String("db-path", "", "path to the backup database")
	rootCmd.AddCommand(historyCmd)
}
