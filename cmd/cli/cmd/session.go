package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"cloudbasket/core/basket"
	"cloudbasket/core/output"
	"cloudbasket/core/session"
	"cloudbasket/core/ui"
	"cloudbasket/internal/config"
)

var (
	exportFormat string
	exportDir    string
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage saved sessions",
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved sessions, most recent first",
	Args:  cobra.NoArgs,
	RunE: withSessions(func(cmd *cobra.Command, store *session.Store, args []string) error {
		sessions, err := store.List(context.Background())
		if err != nil {
			return err
		}

		w := ui.NewWriter(cmd.OutOrStdout(), noColor)
		if len(sessions) == 0 {
			w.Println("No saved sessions.")
			return nil
		}
		table := w.NewTable("ID", "NAME", "ITEMS", "$/HOUR", "MODIFIED").AlignRight(2, 3)
		for _, s := range sessions {
			table.AddRow(s.ID, truncate(s.Name, 32), strconv.Itoa(len(s.Items)), s.TotalCost.StringFixed(4),
				s.DateModified.Local().Format("2006-01-02 15:04"))
		}
		table.Render()
		return nil
	}),
}

var sessionShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a saved session",
	Args:  cobra.ExactArgs(1),
	RunE: withSessions(func(cmd *cobra.Command, store *session.Store, args []string) error {
		ctx := context.Background()
		s, err := store.Get(ctx, args[0])
		if err != nil {
			return err
		}
		items, err := store.Load(ctx, s.ID)
		if err != nil {
			return err
		}

		cfg := config.Get()
		engine := basket.NewEngine(basketOptions(cfg, nil), nil)
		engine.Restore(items)

		w := ui.NewWriter(cmd.OutOrStdout(), noColor)
		w.Println("Session:  %s (%s)", s.Name, s.ID)
		w.Println("Created:  %s", s.DateCreated.Local().Format("2006-01-02 15:04:05"))
		w.Println("Modified: %s", s.DateModified.Local().Format("2006-01-02 15:04:05"))
		w.Println("")
		printBasket(w, engine)
		return nil
	}),
}

var sessionDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved session",
	Args:  cobra.ExactArgs(1),
	RunE: withSessions(func(cmd *cobra.Command, store *session.Store, args []string) error {
		if err := store.Delete(context.Background(), args[0]); err != nil {
			return err
		}
		ui.NewWriter(cmd.OutOrStdout(), noColor).Success("Deleted session %s", args[0])
		return nil
	}),
}

var sessionExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a saved session as JSON, CSV or XLSX",
	Long: `Export a saved session.

The file is named <session-name>-<YYYY-MM-DD>.<format> and written to the
export directory.

Examples:
  cloudbasket session export 6f1c... --format csv
  cloudbasket session export 6f1c... --format xlsx --out ./reports`,
	Args: cobra.ExactArgs(1),
	RunE: withSessions(runSessionExport),
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionDeleteCmd)
	sessionCmd.AddCommand(sessionExportCmd)

	sessionExportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "export format (json, csv, xlsx)")
	sessionExportCmd.Flags().StringVarP(&exportDir, "out", "o", "", "output directory (default from config)")
}

// withSessions opens the session backend around a command
func withSessions(fn func(cmd *cobra.Command, store *session.Store, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		store, backend, err := openSessions(config.Get())
		if err != nil {
			return err
		}
		defer backend.Close()
		return fn(cmd, store, args)
	}
}

func runSessionExport(cmd *cobra.Command, store *session.Store, args []string) error {
	cfg := config.Get()

	format, err := output.ParseFormat(exportFormat)
	if err != nil {
		return err
	}

	s, err := store.Get(context.Background(), args[0])
	if err != nil {
		return err
	}

	payload, err := output.Export(output.DefaultRegistry(), format, output.FromSession(s), output.Options{
		Environment: cfg.Export.Environment,
		Tags:        cfg.Export.Tags,
	})
	if err != nil {
		return err
	}

	dir := exportDir
	if dir == "" {
		dir = cfg.Export.Directory
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(dir, payload.Filename)
	if err := os.WriteFile(path, payload.Data, 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	ui.NewWriter(cmd.OutOrStdout(), noColor).Success("Exported %s to %s", s.Name, path)
	return nil
}
