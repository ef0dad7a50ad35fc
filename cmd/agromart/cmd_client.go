package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/agromart/app/models"
	"github.com/shashiranjanraj/agromart/app/storefront"
	"github.com/shashiranjanraj/agromart/config"
	"github.com/shashiranjanraj/agromart/pkg/kv"
	"github.com/shashiranjanraj/agromart/pkg/logger"
)

// client is the storefront side: catalog cache, cart and limiter sharing
// one persistent kv.Store.
type client struct {
	data    *storefront.DataCache
	cart    *storefront.Cart
	limiter *storefront.ActionLimiter
}

// withClient opens the client state and loads the catalog once. A failed
// fetch is reported but not fatal; the last saved or demo catalog is used.
func withClient(cmd *cobra.Command, fn func(ctx context.Context, c *client) error) error {
	ctx, stop := signalContext()
	defer stop()

	if err := config.Load(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger.Setup(config.AppEnv(), os.Stderr)

	store, err := kv.Open(ctx, kv.Options{
		Driver:        config.ClientKV(),
		Dir:           config.ClientStateDir(),
		RedisAddr:     config.RedisAddr(),
		RedisPassword: config.RedisPassword(),
	})
	if err != nil {
		return err
	}
	if cl, ok := store.(io.Closer); ok {
		defer cl.Close()
	}

	c := &client{
		data:    storefront.NewDataCache(storefront.NewHTTPFetcher(config.APIBaseURL(), 0, nil), store),
		cart:    storefront.NewCart(ctx, store),
		limiter: storefront.NewActionLimiter(store),
	}
	if res, err := c.data.Initialize(ctx); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "⚠️  Catalog not refreshed (%s): %v\n", res, err)
	}
	if c.cart.Degraded() {
		fmt.Fprintln(cmd.ErrOrStderr(), "⚠️  Cart storage unavailable; changes will not be saved.")
	}
	return fn(ctx, c)
}

var (
	catalogCategory string
	catalogSearch   string
	catalogBest     bool
	cartVariant     int
)

// agromart catalog
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List products from the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(_ context.Context, c *client) error {
			snap := c.data.Read()
			products := snap.ProductsByCategory(catalogCategory)
			if catalogSearch != "" {
				products = intersect(products, snap.Search(catalogSearch))
			}
			if catalogBest {
				products = intersect(products, snap.BestSelling())
			}
			return printProducts(cmd.OutOrStdout(), products)
		})
	},
}

// agromart cart …
var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Manage the shopping cart",
}

var cartAddCmd = &cobra.Command{
	Use:   "add <product-id>",
	Short: "Add one item to the cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := productID(args[0])
		if err != nil {
			return err
		}
		return withClient(cmd, func(ctx context.Context, c *client) error {
			p, ok := c.data.ProductByID(id)
			if !ok {
				return fmt.Errorf("product %d not found", id)
			}
			variant := variantFlag(cmd)
			c.cart.Add(ctx, id, variant)
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s to cart.\n", p.DisplayName(variant))
			return printSummary(cmd.OutOrStdout(), c)
		})
	},
}

var cartSetCmd = &cobra.Command{
	Use:   "set <product-id> <quantity>",
	Short: "Change the quantity of a cart line (0 removes it)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := productID(args[0])
		if err != nil {
			return err
		}
		qty, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[1])
		}
		return withClient(cmd, func(ctx context.Context, c *client) error {
			c.cart.SetQuantity(ctx, id, variantFlag(cmd), qty)
			return printCart(cmd.OutOrStdout(), c)
		})
	},
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove <product-id>",
	Short: "Remove a product (every variant unless --variant is given)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := productID(args[0])
		if err != nil {
			return err
		}
		return withClient(cmd, func(ctx context.Context, c *client) error {
			c.cart.Remove(ctx, id, variantFlag(cmd))
			return printCart(cmd.OutOrStdout(), c)
		})
	},
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *client) error {
			c.cart.Clear(ctx)
			fmt.Fprintln(cmd.OutOrStdout(), "Cart cleared.")
			return nil
		})
	},
}

var cartShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the cart priced against the current catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(_ context.Context, c *client) error {
			return printCart(cmd.OutOrStdout(), c)
		})
	},
}

// agromart order
var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Print the WhatsApp order message and link for the cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *client) error {
			order, err := storefront.PlaceOrder(ctx, c.cart, c.data.Read(), c.limiter)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, order.Message)
			fmt.Fprintln(out)
			fmt.Fprintln(out, order.URL)
			return nil
		})
	},
}

// agromart chat
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Print the WhatsApp link for a product inquiry",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *client) error {
			link, err := storefront.InquiryLink(ctx, c.data.Settings().WhatsAppNumber, c.limiter)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), link)
			return nil
		})
	},
}

func init() {
	catalogCmd.Flags().StringVarP(&catalogCategory, "category", "c", "", "Only products in this category id")
	catalogCmd.Flags().StringVarP(&catalogSearch, "search", "s", "", "Search name, description, category and details")
	catalogCmd.Flags().BoolVar(&catalogBest, "best", false, "Only best-selling products")

	for _, c := range []*cobra.Command{cartAddCmd, cartSetCmd, cartRemoveCmd} {
		c.Flags().IntVarP(&cartVariant, "variant", "v", 0, "Variant index")
	}
	cartCmd.AddCommand(cartAddCmd, cartSetCmd, cartRemoveCmd, cartClearCmd, cartShowCmd)
}

// variantFlag is nil unless --variant was passed.
func variantFlag(cmd *cobra.Command) *int {
	if !cmd.Flags().Changed("variant") {
		return nil
	}
	return models.IntPtr(cartVariant)
}

func productID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid product id %q", arg)
	}
	return id, nil
}

func intersect(a, b []models.Product) []models.Product {
	keep := make(map[int]bool, len(b))
	for _, p := range b {
		keep[p.ID] = true
	}
	out := []models.Product{}
	for _, p := range a {
		if keep[p.ID] {
			out = append(out, p)
		}
	}
	return out
}

func printProducts(out io.Writer, products []models.Product) error {
	if len(products) == 0 {
		fmt.Fprintln(out, "No products found.")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\tDISCOUNT\tVARIANTS")
	fmt.Fprintln(w, "--\t----\t--------\t-----\t--------\t--------")
	for _, p := range products {
		price := float64(p.OfferPrice)
		if v, ok := p.MainVariant(); ok {
			price = v.Price
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t₹%s\t%d%%\t%d\n",
			p.ID, p.Name, p.Category, strconv.FormatFloat(price, 'f', -1, 64), p.EffectiveDiscount(), len(p.Variants))
	}
	return w.Flush()
}

func printCart(out io.Writer, c *client) error {
	items := c.cart.Items(c.data.Read())
	if len(items) == 0 {
		fmt.Fprintln(out, "Your cart is empty.")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tITEM\tQTY\tUNIT\tSUBTOTAL")
	for _, it := range items {
		fmt.Fprintf(w, "%d\t%s\t%d\t₹%s\t₹%s\n", it.ProductID, it.Name, it.Quantity,
			strconv.FormatFloat(it.UnitPrice, 'f', -1, 64), strconv.FormatFloat(it.Subtotal, 'f', -1, 64))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return printSummary(out, c)
}

func printSummary(out io.Writer, c *client) error {
	s := c.cart.Summary(c.data.Read())
	_, err := fmt.Fprintf(out, "%d item(s), total ₹%s\n", s.Count, strconv.FormatFloat(s.Total, 'f', -1, 64))
	return err
}
