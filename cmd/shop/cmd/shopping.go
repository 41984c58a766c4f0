package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/jrsteele09/go-shop-client/cart"
	"github.com/jrsteele09/go-shop-client/preferences"
	"github.com/jrsteele09/go-shop-client/services"
	"github.com/spf13/cobra"
)

var (
	category string
	amount   int
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List products, optionally of one category",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}
		var products []services.Product
		if category != "" {
			p, err := shop.Catalog.ByCategory(cmd.Context(), category)
			if err != nil {
				return err
			}
			products = p
		} else {
			if err := shop.Catalog.Refresh(cmd.Context()); err != nil {
				return err
			}
			products = shop.Catalog.Products()
		}
		printProducts(cmd.OutOrStdout(), products, shop.Preferences)
		return nil
	},
}

var wishlistCmd = &cobra.Command{
	Use:   "wishlist",
	Short: "Show or change the wishlist",
}

var wishlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the wishlist",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}
		profile, err := shop.Client.Users.Profile(cmd.Context())
		if err != nil {
			return err
		}
		products, err := shop.Catalog.Resolve(cmd.Context(), profile.WishlistIDs())
		if err != nil {
			return err
		}
		printProducts(cmd.OutOrStdout(), products, shop.Preferences)
		return nil
	},
}

var wishlistAddCmd = &cobra.Command{
	Use:   "add <product-id>",
	Short: "Add a product to the wishlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}
		return shop.Preferences.AddToWishlist(cmd.Context(), args[0])
	},
}

var wishlistRemoveCmd = &cobra.Command{
	Use:   "remove <product-id>",
	Short: "Remove a product from the wishlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}
		return shop.Preferences.RemoveFromWishlist(cmd.Context(), args[0])
	},
}

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Show or change the cart and place orders",
}

var cartShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the cart and its total",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}
		if err := shop.Cart.Refresh(cmd.Context()); err != nil {
			return err
		}
		printCart(cmd.OutOrStdout(), shop.Cart.Items())
		return nil
	},
}

var cartAddCmd = &cobra.Command{
	Use:   "add <product-id>",
	Short: "Add a product to the cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}
		return shop.Preferences.AddToCart(cmd.Context(), args[0], amount)
	},
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove <product-id>",
	Short: "Remove a product from the cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}
		return shop.Preferences.RemoveFromCart(cmd.Context(), args[0])
	},
}

var cartOrderCmd = &cobra.Command{
	Use:   "order",
	Short: "Place an order for everything in the cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}
		if err := shop.Cart.Refresh(cmd.Context()); err != nil {
			return err
		}
		items := shop.Cart.Items()
		if err := shop.Cart.PlaceOrder(cmd.Context(), items); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Order placed, total %s\n", cart.ComputeTotal(items))
		return nil
	},
}

func init() {
	productsCmd.Flags().StringVar(&category, "category", "", "Only list this category")
	cartAddCmd.Flags().IntVar(&amount, "amount", 1, "Quantity to add")

	wishlistCmd.AddCommand(wishlistListCmd, wishlistAddCmd, wishlistRemoveCmd)
	cartCmd.AddCommand(cartShowCmd, cartAddCmd, cartRemoveCmd, cartOrderCmd)
	rootCmd.AddCommand(productsCmd, wishlistCmd, cartCmd)
}

func printProducts(w io.Writer, products []services.Product, prefs *preferences.Cache) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK\tMARKS")
	for _, p := range products {
		marks := ""
		if prefs.Contains(preferences.Wishlist, p.ID) {
			marks += "W"
		}
		if prefs.Contains(preferences.Cart, p.ID) {
			marks += "C"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%d\t%s\n", p.ID, p.Name, p.Type, p.Price, p.Stock, marks)
	}
	_ = tw.Flush()
}

func printCart(w io.Writer, items []cart.LineItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, "Your cart is empty")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tAMOUNT")
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%d\n", item.Product.ID, item.Product.Name, item.Product.Price, item.Amount)
	}
	fmt.Fprintf(tw, "\t\tTOTAL\t%s\n", cart.ComputeTotal(items))
	_ = tw.Flush()
}
