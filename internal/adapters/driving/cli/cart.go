package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quickpass/internal/core/domain"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Show the cart",
	Args:  cobra.NoArgs,
	RunE:  runCart,
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove [position]",
	Short: "Remove an item from the cart",
	Long:  `Removes the item at the given 1-based position, as listed by 'quickpass cart'.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCartRemove,
}

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Pay for the cart and create an order",
	Long: `Runs the simulated payment and turns the cart into a completed order.
The cart is cleared only once payment succeeds.`,
	Args: cobra.NoArgs,
	RunE: runCheckout,
}

func init() {
	cartCmd.AddCommand(cartRemoveCmd)
	rootCmd.AddCommand(cartCmd)
	rootCmd.AddCommand(checkoutCmd)
}

func runCart(cmd *cobra.Command, _ []string) error {
	if cartService == nil {
		return errors.New("cart service not configured")
	}

	items := cartService.Cart()
	if len(items) == 0 {
		cmd.Println("Your cart is empty.")
		return nil
	}

	cmd.Println("Cart:")
	cmd.Println()
	for i := range items {
		it := &items[i]
		cmd.Printf("  [%d] %-24s %-12s $%s\n", i+1, it.Name, it.SizeLabel, it.Price)
		if it.CountryHint != "" {
			cmd.Printf("      for %s\n", it.CountryHint)
		}
	}
	cmd.Println()
	cmd.Printf("Total: $%s\n", cartService.CartTotal())
	return nil
}

func runCartRemove(cmd *cobra.Command, args []string) error {
	if cartService == nil {
		return errors.New("cart service not configured")
	}

	pos, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: position %q is not a number", domain.ErrInvalidInput, args[0])
	}

	removed, save := cartService.RemoveFromCart(cmd.Context(), pos-1)
	if !removed {
		return fmt.Errorf("%w: no item at position %d", domain.ErrNotFound, pos)
	}
	reportSave(cmd, save)

	cmd.Printf("Removed item %d. %d left, total $%s\n", pos, len(cartService.Cart()), cartService.CartTotal())
	return nil
}

func runCheckout(cmd *cobra.Command, _ []string) error {
	if cartService == nil || wired.NewSession == nil {
		return errors.New("checkout not configured")
	}

	session, err := wired.NewSession(nil)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.Close()

	type outcome struct {
		order *domain.Order
		save  domain.SaveResult
		err   error
	}
	done := make(chan outcome, 1)

	total := cartService.CartTotal()
	err = session.StartCheckout(cmd.Context(), func(order *domain.Order, save domain.SaveResult, err error) {
		done <- outcome{order: order, save: save, err: err}
	})
	if err != nil {
		return fmt.Errorf("checkout failed: %w", err)
	}

	cmd.Printf("Processing payment of $%s...\n", total)
	res := <-done
	if res.err != nil {
		return fmt.Errorf("checkout failed: %w", res.err)
	}
	reportSave(cmd, res.save)

	o := res.order
	cmd.Printf("Order %s placed on %s: %s, total $%s\n", o.ID, o.CreatedDate, o.Summary, o.Total)
	return nil
}
