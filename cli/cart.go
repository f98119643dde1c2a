package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/Kariqs/amexan-eats/auth"
	"github.com/Kariqs/amexan-eats/cart"
	"github.com/Kariqs/amexan-eats/catalog"
	"github.com/Kariqs/amexan-eats/checkout"
	"github.com/Kariqs/amexan-eats/models"
	"github.com/spf13/cobra"
)

func NewCartCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ClientOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "View and change the signed-in user's cart",
	}
	addClientFlags(cmd, opts)

	cmd.AddCommand(
		newCartListCommand(opts),
		newCartAddCommand(opts),
		newCartSetCommand(opts),
		newCartRemoveCommand(opts),
		newCartClearCommand(opts),
		newCheckoutCommand(opts),
		newOrdersCommand(opts),
		newLoginCommand(opts),
	)
	return cmd
}

type cartView struct {
	Items      []models.CartItem `json:"items"`
	TotalItems int               `json:"total_items"`
	TotalPrice string            `json:"total_price"`
}

func printCart(w io.Writer, format string, engine *cart.Engine) error {
	items := engine.Items()
	view := cartView{
		Items:      items,
		TotalItems: cart.TotalItems(items),
		TotalPrice: cart.TotalPrice(items).StringFixed(2),
	}
	if format == "json" {
		return writeJSON(w, view)
	}

	if len(items) == 0 {
		fmt.Fprintln(w, "Your cart is empty.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ITEM\tFOOD\tQTY\tPRICE")
	for _, item := range items {
		name, price := item.FoodID, "-"
		if item.Food != nil {
			name = item.Food.Name
			price = item.Food.Price.StringFixed(2)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", item.ID, name, item.Quantity, price)
	}
	fmt.Fprintf(tw, "\t\t%d\t%s\n", view.TotalItems, view.TotalPrice)
	return tw.Flush()
}

// cartCommand opens the cart, runs fn and prints the resulting cart.
func cartCommand(opts *ClientOptions, fn func(cmd *cobra.Command, args []string, c *cartClient) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		c, err := opts.openCart(cmd.Context(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		if fn != nil {
			if err := fn(cmd, args, c); err != nil {
				return err
			}
		}
		return printCart(cmd.OutOrStdout(), opts.Format, c.engine)
	}
}

func newCartListCommand(opts *ClientOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the cart",
		Args:  cobra.NoArgs,
		RunE:  cartCommand(opts, nil),
	}
}

func newCartAddCommand(opts *ClientOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <food-id>",
		Short: "Add one unit of a food",
		Args:  exactArgs(1, "amexan cart add <food-id>"),
		RunE: cartCommand(opts, func(cmd *cobra.Command, args []string, c *cartClient) error {
			food, err := catalog.NewService(c.remote).Food(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.engine.AddToCart(cmd.Context(), food)
		}),
	}
}

func newCartSetCommand(opts *ClientOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <item-id> <quantity>",
		Short: "Set the quantity of a line; 0 removes it",
		Args:  exactArgs(2, "amexan cart set <item-id> <quantity>"),
		RunE: cartCommand(opts, func(cmd *cobra.Command, args []string, c *cartClient) error {
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
			return c.engine.UpdateQuantity(cmd.Context(), args[0], qty)
		}),
	}
}

func newCartRemoveCommand(opts *ClientOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <item-id>",
		Short: "Remove a line",
		Args:  exactArgs(1, "amexan cart remove <item-id>"),
		RunE: cartCommand(opts, func(cmd *cobra.Command, args []string, c *cartClient) error {
			return c.engine.RemoveFromCart(cmd.Context(), args[0])
		}),
	}
}

func newCartClearCommand(opts *ClientOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every line",
		Args:  cobra.NoArgs,
		RunE: cartCommand(opts, func(cmd *cobra.Command, args []string, c *cartClient) error {
			return c.engine.ClearCart(cmd.Context())
		}),
	}
}

func newCheckoutCommand(opts *ClientOptions) *cobra.Command {
	var details checkout.Details
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.openCart(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			order, err := checkout.NewService(c.remote, c.engine).PlaceOrder(cmd.Context(), details)
			if err != nil {
				return err
			}
			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), order)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Order %s placed: %s (%s)\n", order.ID, order.TotalPrice.StringFixed(2), order.Status)
			return nil
		},
	}
	cmd.Flags().StringVar(&details.Name, "name", "", "name for the delivery")
	cmd.Flags().StringVar(&details.Address, "address", "", "delivery address")
	return cmd
}

func newOrdersCommand(opts *ClientOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "orders",
		Short: "List past orders, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.openCart(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			orders, err := checkout.NewService(c.remote, c.engine).History(cmd.Context())
			if err != nil {
				return err
			}
			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), orders)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ORDER\tPLACED\tSTATUS\tITEMS\tTOTAL")
			for _, o := range orders {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", o.ID, o.CreatedAt.Local().Format("2006-01-02 15:04"),
					o.Status, len(o.OrderItems), o.TotalPrice.StringFixed(2))
			}
			return tw.Flush()
		},
	}
}

func newLoginCommand(opts *ClientOptions) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and print a session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.resolve()
			token, err := auth.NewClient(opts.APIURL).Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "export %s=%s\n", tokenEnv, token)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}
