package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cloudbasket/core/basket"
	"cloudbasket/core/plan"
	"cloudbasket/core/pricing"
	"cloudbasket/core/types"
	"cloudbasket/core/ui"
	"cloudbasket/internal/config"
)

var basketName string

var basketCmd = &cobra.Command{
	Use:   "basket",
	Short: "Build and price baskets from plan files",
	Long: `Build a basket from an HCL plan file.

A plan lists catalog entries in the order they are added:

  name = "prod"
  compute "m5.large" {
    quantity = 2
    storage "gp3" { size = 100 }
  }
  volume "gp2" { size = 50 }
  database "db.t3.micro" {}

Compute that needs block storage and declares neither storage nor
skip_storage gets the configured default volume.`,
}

var basketPriceCmd = &cobra.Command{
	Use:   "price <plan.hcl>",
	Short: "Price a plan without saving it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, engine, err := buildBasket(context.Background(), args[0])
		if err != nil {
			return err
		}
		printBasket(ui.NewWriter(cmd.OutOrStdout(), noColor), engine)
		return nil
	},
}

var basketSaveCmd = &cobra.Command{
	Use:   "save <plan.hcl>",
	Short: "Price a plan and save it as a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runBasketSave,
}

func init() {
	rootCmd.AddCommand(basketCmd)
	basketCmd.AddCommand(basketPriceCmd)
	basketCmd.AddCommand(basketSaveCmd)

	basketSaveCmd.Flags().StringVarP(&basketName, "name", "n", "", "session name (defaults to the plan's name)")
}

func buildBasket(ctx context.Context, path string) (*plan.Plan, *basket.Engine, error) {
	cfg := config.Get()

	p, err := plan.ParseFile(path)
	if err != nil {
		return nil, nil, err
	}
	cat, err := loadCatalog(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	engine, err := plan.NewBuilder(cat, basketOptions(cfg, cat)).Build(p)
	if err != nil {
		return nil, nil, err
	}
	return p, engine, nil
}

func runBasketSave(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	p, engine, err := buildBasket(ctx, args[0])
	if err != nil {
		return err
	}

	name := basketName
	if name == "" {
		name = p.Name
	}

	store, backend, err := openSessions(config.Get())
	if err != nil {
		return err
	}
	defer backend.Close()

	saved, err := store.Save(ctx, name, engine.Snapshot())
	if err != nil {
		return err
	}

	w := ui.NewWriter(cmd.OutOrStdout(), noColor)
	printBasket(w, engine)
	w.Success("Saved session %q (%s)", saved.Name, saved.ID)
	return nil
}

func printBasket(w *ui.Writer, engine *basket.Engine) {
	items := engine.Items()
	table := w.NewTable("QTY", "KIND", "ITEM", "NOTE", "$/HOUR", "$/MONTH").AlignRight(0, 4, 5)
	for _, li := range items {
		label := li.Identity()
		if li.Kind() == types.KindVolume {
			label = fmt.Sprintf("%s %dGiB", label, li.SizeGB)
		}
		if li.IsAttached() {
			label = "└─ " + label
		}
		line := pricing.LineTotal(li)
		table.AddRow(strconv.Itoa(li.Quantity), li.Kind().String(), label, truncate(li.Note, 36),
			line.StringFixed(4), pricing.Monthly(line).StringFixed(2))
	}
	table.Render()

	total := engine.Total()
	summary := w.NewCostSummary("Basket Total")
	summary.Hourly = "$" + total.StringFixed(4)
	summary.Monthly = "$" + pricing.Monthly(total).StringFixed(2)
	summary.Yearly = "$" + pricing.Yearly(total).StringFixed(2)
	if reserved := engine.ReservedTotal(); reserved.LessThan(total) {
		summary.Reserved = "$" + pricing.Monthly(reserved).StringFixed(2) + "/mo"
	}
	summary.Lines = len(items)
	summary.Render()
}
