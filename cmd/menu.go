package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/chrisdamba/kioskorder/internal/customize"
	"github.com/chrisdamba/kioskorder/internal/models"
	"github.com/chrisdamba/kioskorder/internal/pricing"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Show the cached menu",
	RunE: func(cmd *cobra.Command, args []string) error {
		k, err := restoredKiosk()
		if err != nil {
			return err
		}
		if refresh, _ := cmd.Flags().GetBool("refresh"); refresh {
			if err := k.RefreshCatalog(cmd.Context(), nil); err != nil {
				return userError(err)
			}
		}
		snap, err := k.Catalog()
		if err != nil {
			return userError(err)
		}
		only, _ := cmd.Flags().GetString("category")
		policy := pricing.NewPolicy(cfg.Pricing)

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, category := range snap.Categories {
			if only != "" && category.ID != only {
				continue
			}
			fmt.Fprintf(w, "%s\n", strings.ToUpper(category.Name))
			for _, item := range snap.ItemsByCategory(category.ID) {
				item := item
				fmt.Fprintf(w, "  %s\t%s\t%s\n", item.ID, item.Name, itemPrice(policy, &item))
				for _, group := range customize.New(&item, policy.BasePrice).Groups() {
					fmt.Fprintf(w, "    %s\t%s\t%s\n", group.GroupName, groupRule(group), optionList(group.Options))
				}
			}
		}
		return w.Flush()
	},
}

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List the tables orders can be placed for",
	RunE: func(cmd *cobra.Command, args []string) error {
		k, err := restoredKiosk()
		if err != nil {
			return err
		}
		snap, err := k.Catalog()
		if err != nil {
			return userError(err)
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TABLE\tID\tTITLE")
		for _, table := range snap.Tables {
			fmt.Fprintf(w, "%s\t%s\t%s\n", table.TableNo, table.ID, table.Title)
		}
		return w.Flush()
	},
}

func itemPrice(policy *pricing.Policy, item *models.MenuItem) string {
	price := policy.BasePrice(item)
	if price.IsZero() {
		return "complimentary"
	}
	return "₹" + pricing.Money(price)
}

func groupRule(group models.VariationGroup) string {
	rule := "pick one"
	if group.Type == models.SelectionMultiple {
		rule = "pick any"
		if group.MaxSelect > 0 {
			rule = fmt.Sprintf("pick up to %d", group.MaxSelect)
		}
	}
	if group.Required {
		rule += ", required"
	}
	return rule
}

func optionList(options []models.VariationOption) string {
	parts := make([]string, 0, len(options))
	for _, option := range options {
		if option.Price > 0 {
			parts = append(parts, fmt.Sprintf("%s (+₹%s)", option.Name, pricing.Money(decimal.NewFromFloat(option.Price))))
		} else {
			parts = append(parts, option.Name)
		}
	}
	return strings.Join(parts, ", ")
}

func init() {
	menuCmd.Flags().Bool("refresh", false, "refetch the menu from the backend first")
	menuCmd.Flags().String("category", "", "only show one category")
	rootCmd.AddCommand(menuCmd, tablesCmd)
}
