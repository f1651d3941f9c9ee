package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/chrisdamba/kioskorder/internal/customize"
	"github.com/chrisdamba/kioskorder/internal/kiosk"
	"github.com/chrisdamba/kioskorder/internal/models"
	"github.com/chrisdamba/kioskorder/internal/pricing"
	"github.com/chrisdamba/kioskorder/internal/receipts"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// orderFile is the YAML description of one guest's order.
type orderFile struct {
	Table    string `yaml:"table"`
	Coupon   string `yaml:"coupon"`
	Customer struct {
		Name   string `yaml:"name"`
		Mobile string `yaml:"mobile"`
	} `yaml:"customer"`
	Lines []orderLine `yaml:"lines"`
}

type orderLine struct {
	ItemID       string `yaml:"item_id"`
	Quantity     int    `yaml:"quantity"`
	Instructions string `yaml:"instructions"`
	// Options maps a group name to option ids or names.
	Options map[string][]string `yaml:"options"`
}

func readOrderFile(path string) (*orderFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read order file: %w", err)
	}
	var order orderFile
	if err := yaml.Unmarshal(data, &order); err != nil {
		return nil, fmt.Errorf("parse order file %s: %w", path, err)
	}
	if len(order.Lines) == 0 {
		return nil, fmt.Errorf("order file %s has no lines", path)
	}
	return &order, nil
}

// lineError ties a failure to a line of the order file.
type lineError struct {
	line int
	err  error
}

func (e *lineError) Error() string { return fmt.Sprintf("line %d: %v", e.line, e.err) }

func (e *lineError) Unwrap() error { return e.err }

// apply fills the kiosk cart the way a guest would at the screen.
func (o *orderFile) apply(k *kiosk.Kiosk) error {
	for i, line := range o.Lines {
		sel, err := k.Customize(line.ItemID)
		if err != nil {
			return &lineError{line: i + 1, err: err}
		}
		for groupRef, refs := range line.Options {
			group, ok := findGroup(sel.Groups(), groupRef)
			if !ok {
				return &lineError{line: i + 1, err: fmt.Errorf("%w: %s", customize.ErrUnknownGroup, groupRef)}
			}
			for _, ref := range refs {
				optionID := resolveOption(group.Options, ref)
				if sel.IsSelected(group.GroupName, optionID) {
					continue
				}
				if err := sel.Select(group.GroupName, optionID); err != nil {
					return &lineError{line: i + 1, err: err}
				}
			}
		}
		if line.Quantity > 0 {
			sel.SetQuantity(line.Quantity)
		}
		sel.SetInstructions(line.Instructions)
		if _, err := k.AddToCart(sel); err != nil {
			return &lineError{line: i + 1, err: err}
		}
	}

	if o.Coupon != "" {
		if _, err := k.ApplyCoupon(o.Coupon); err != nil {
			return err
		}
	}
	if o.Table != "" {
		if err := k.SelectTable(o.Table); err != nil {
			return err
		}
	}
	return k.SetCustomer(o.Customer.Name, o.Customer.Mobile)
}

func findGroup(groups []models.VariationGroup, ref string) (models.VariationGroup, bool) {
	for _, group := range groups {
		if strings.EqualFold(group.GroupName, ref) {
			return group, true
		}
	}
	return models.VariationGroup{}, false
}

// resolveOption maps an option id or display name to its id. Unknown refs are
// returned as is so the selector reports them.
func resolveOption(options []models.VariationOption, ref string) string {
	for _, option := range options {
		if option.ID == ref {
			return ref
		}
	}
	for _, option := range options {
		if strings.EqualFold(option.Name, ref) {
			return option.ID
		}
	}
	return ref
}

func printCart(out io.Writer, k *kiosk.Kiosk) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	for _, line := range k.CartItems() {
		name := line.Name
		if len(line.Variations) > 0 {
			name += " (" + strings.Join(line.Variations, ", ") + ")"
		}
		fmt.Fprintf(w, "%d x\t%s\t₹%s\t\n", line.Quantity, name, pricing.Money(line.LineTotal()))
	}
	totals := k.Totals()
	fmt.Fprintf(w, "\tSubtotal\t₹%s\t\n", pricing.Money(totals.Subtotal))
	if totals.CouponCode != "" {
		fmt.Fprintf(w, "\tDiscount (%s)\t-₹%s\t\n", totals.CouponCode, pricing.Money(totals.Discount))
	}
	fmt.Fprintf(w, "\tCGST\t₹%s\t\n", pricing.Money(totals.CGST))
	fmt.Fprintf(w, "\tSGST\t₹%s\t\n", pricing.Money(totals.SGST))
	fmt.Fprintf(w, "\tTotal\t₹%s\t\n", pricing.Money(totals.GrandTotal))
	return w.Flush()
}

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Price an order file without placing it",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		order, err := readOrderFile(file)
		if err != nil {
			return err
		}
		k, err := restoredKiosk()
		if err != nil {
			return err
		}
		if err := order.apply(k); err != nil {
			return userError(err)
		}
		return printCart(cmd.OutOrStdout(), k)
	},
}

var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Place an order file for a table",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		order, err := readOrderFile(file)
		if err != nil {
			return err
		}

		var opts []kiosk.Option
		publisher, err := receipts.Open(cmd.Context(), cfg.Receipts)
		if err != nil {
			return err
		}
		defer func() {
			if err := publisher.Close(); err != nil {
				log.WithError(err).Warn("closing receipt destinations")
			}
		}()
		if publisher.Len() > 0 {
			opts = append(opts, kiosk.WithReceipts(publisher))
		}

		k, err := restoredKiosk(opts...)
		if err != nil {
			return err
		}
		if err := order.apply(k); err != nil {
			return userError(err)
		}
		if err := printCart(cmd.OutOrStdout(), k); err != nil {
			return err
		}
		confirmation, err := k.PlaceOrder(cmd.Context())
		if err != nil {
			return userError(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Order %s placed for table %s. Total ₹%s.\n",
			confirmation.OrderID, confirmation.TableNumber, confirmation.GrandTotal)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{quoteCmd, orderCmd} {
		c.Flags().StringP("file", "f", "", "YAML order file")
		cobra.CheckErr(c.MarkFlagRequired("file"))
	}
	rootCmd.AddCommand(quoteCmd, orderCmd)
}
