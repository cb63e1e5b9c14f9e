package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cloudbasket/core/pricing"
	"cloudbasket/core/types"
	"cloudbasket/core/ui"
	"cloudbasket/internal/config"
)

var catalogKind string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse the compute, volume and database catalogs",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog entries with their normalized prices",
	Long: `List catalog entries.

Compute and database entries show their hourly rate; volumes show their
price per GB-month and the hourly rate of one GB.

Examples:
  cloudbasket catalog list
  cloudbasket catalog list --kind volume`,
	RunE: runCatalogList,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogListCmd)

	catalogListCmd.Flags().StringVarP(&catalogKind, "kind", "k", "", "only list one kind (compute, volume, database)")
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	kind := types.Kind(catalogKind)
	if catalogKind != "" && !kind.Valid() {
		return fmt.Errorf("unknown kind %q (use compute, volume or database)", catalogKind)
	}

	cat, err := loadCatalog(context.Background(), config.Get())
	if err != nil {
		return err
	}

	w := ui.NewWriter(cmd.OutOrStdout(), noColor)
	if kind == "" || kind == types.KindCompute {
		printCompute(w, cat.Compute)
	}
	if kind == "" || kind == types.KindVolume {
		printVolumes(w, cat.Volumes)
	}
	if kind == "" || kind == types.KindDatabase {
		printDatabases(w, cat.Databases)
	}
	return nil
}

func printCompute(w *ui.Writer, items []types.Compute) {
	w.Header("COMPUTE")
	table := w.NewTable("TYPE", "VCPU", "MEMORY", "STORAGE", "$/HOUR").AlignRight(1, 2, 4)
	for _, c := range items {
		table.AddRow(c.InstanceType, strconv.Itoa(c.VCPU), gib(c.MemoryGiB), truncate(c.Storage, 20),
			pricing.CatalogHourly(c).StringFixed(4))
	}
	table.Render()
}

func printVolumes(w *ui.Writer, items []types.Volume) {
	w.Header("VOLUMES")
	table := w.NewTable("TYPE", "IOPS", "THROUGHPUT", "$/GB-MONTH", "$/GB-HOUR").AlignRight(3, 4)
	for _, v := range items {
		table.AddRow(v.VolumeType, v.IOPS, v.Throughput,
			v.PricePerGBMonth.StringFixed(3), pricing.CatalogHourly(v).StringFixed(6))
	}
	table.Render()
}

func printDatabases(w *ui.Writer, items []types.Database) {
	w.Header("DATABASES")
	table := w.NewTable("TYPE", "ENGINE", "VCPU", "MEMORY", "$/HOUR").AlignRight(2, 3, 4)
	for _, d := range items {
		table.AddRow(d.InstanceType, d.Engine, strconv.Itoa(d.VCPU), gib(d.MemoryGiB),
			pricing.CatalogHourly(d).StringFixed(4))
	}
	table.Render()
}

func gib(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + " GiB"
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
