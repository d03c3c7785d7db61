package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	ordersJSON bool
	exportDir  string
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List past orders",
	Args:  cobra.NoArgs,
	RunE:  runOrders,
}

var ordersExportCmd = &cobra.Command{
	Use:   "export [order-id]",
	Short: "Download the photos of an order",
	Long: `Writes every photo of an order as a JPEG named after its size,
e.g. 35-x-45-mm-quickpass-1.jpg.`,
	Args: cobra.ExactArgs(1),
	RunE: runOrdersExport,
}

func init() {
	ordersCmd.Flags().BoolVar(&ordersJSON, "json", false, "output orders as JSON")
	ordersExportCmd.Flags().StringVarP(&exportDir, "dir", "d", ".", "directory to write photos into")
	ordersCmd.AddCommand(ordersExportCmd)
	rootCmd.AddCommand(ordersCmd)
}

// orderSummary is the JSON shape of an order without image data.
type orderSummary struct {
	ID      string `json:"id"`
	Date    string `json:"date"`
	Status  string `json:"status"`
	Total   string `json:"total"`
	Service string `json:"service"`
	Items   int    `json:"items"`
}

func runOrders(cmd *cobra.Command, _ []string) error {
	if cartService == nil {
		return errors.New("cart service not configured")
	}

	orders := cartService.Orders()
	if ordersJSON {
		out := make([]orderSummary, 0, len(orders))
		for i := range orders {
			o := &orders[i]
			out = append(out, orderSummary{
				ID: o.ID, Date: o.CreatedDate, Status: string(o.Status),
				Total: o.Total.String(), Service: o.Summary, Items: len(o.Items),
			})
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal orders: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(orders) == 0 {
		cmd.Println("No orders yet.")
		return nil
	}

	cmd.Println("Orders:")
	cmd.Println()
	for i := range orders {
		o := &orders[i]
		cmd.Printf("  %-40s %s  %-9s $%-7s %s\n", o.ID, o.CreatedDate, o.Status, o.Total, o.Summary)
	}
	return nil
}

func runOrdersExport(cmd *cobra.Command, args []string) error {
	if cartService == nil || wired.ExportOrder == nil {
		return errors.New("order export not configured")
	}

	order, err := cartService.Order(args[0])
	if err != nil {
		return err
	}

	paths, err := wired.ExportOrder(order, exportDir)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	for _, p := range paths {
		cmd.Println(p)
	}
	if len(paths) < len(order.Items) {
		cmd.PrintErrf("warning: %d of %d photos had no image data\n", len(order.Items)-len(paths), len(order.Items))
	}
	return nil
}
