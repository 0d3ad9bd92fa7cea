package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/yungbote/shopgraph-backend/internal/app"
	"github.com/yungbote/shopgraph-backend/internal/domain"
	"github.com/yungbote/shopgraph-backend/internal/platform/apperr"
	"github.com/yungbote/shopgraph-backend/internal/services"
)

// Console storefront: a thin presentation collaborator over the tracker and
// the recommendation engine. Empty recommendation lists render as "no
// recommendations yet", never as an error.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx)
	if err != nil {
		fmt.Printf("failed to start: %v\n", err)
		os.Exit(1)
	}
	defer application.Close(context.Background())

	console := &console{app: application, in: bufio.NewScanner(os.Stdin)}
	console.run(ctx)
}

type console struct {
	app  *app.App
	in   *bufio.Scanner
	user *domain.User
	cart []services.CheckoutItem
}

func (c *console) run(ctx context.Context) {
	fmt.Println("shopgraph console. Type 'help' for commands.")
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Print("> ")
		if !c.in.Scan() {
			return
		}
		fields := strings.Fields(c.in.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "help":
			c.help()
		case "quit", "exit":
			return
		case "register":
			c.register(ctx, args)
		case "login":
			c.login(ctx, args)
		case "products":
			c.listProducts(ctx, "")
		case "search":
			c.listProducts(ctx, strings.Join(args, " "))
		case "addproduct":
			c.addProduct(ctx, args)
		case "editproduct":
			c.editProduct(ctx, args)
		case "delproduct":
			c.deleteProduct(ctx, args)
		case "profile":
			c.updateProfile(ctx, args)
		case "view":
			c.view(ctx, args)
		case "like":
			c.track(ctx, args, "liked", c.app.Services.Tracker.TrackLike)
		case "cart":
			c.addToCart(ctx, args)
		case "checkout":
			c.checkout(ctx)
		case "buy":
			c.buy(ctx, args)
		case "recs":
			c.recommendations(ctx)
		case "activity":
			c.activity(ctx)
		case "backfill":
			if err := c.app.Services.Reconciler.Backfill(ctx); err != nil {
				fmt.Printf("backfill failed: %v\n", err)
			}
		case "metrics":
			for k, v := range c.app.Metrics.Snapshot() {
				fmt.Printf("  %s = %d\n", k, v)
			}
		default:
			fmt.Printf("unknown command %q; try 'help'\n", cmd)
		}
	}
}

func (c *console) help() {
	fmt.Println(`commands:
  register <name> <email> <password>
  login <email> <password>
  products               list the catalog
  search <query>         search by name or category
  profile <name>         update your display name
  addproduct <id> <price> <category> <tags,csv|-> <name...>   (admin)
  editproduct <id> <name|category|price|image|tags> <value...> (admin)
  delproduct <id>        remove a product and its graph node     (admin)
  view <product-id>      view a product (tracked) and show similar items
  like <product-id>      like a product
  cart <product-id>      add a product to the cart
  checkout               purchase everything in the cart as one order
  buy <product-id> [qty] purchase a single product directly
  recs                   personalized recommendations
  activity               purchase/view history and preferences
  backfill               replay raw interactions into the graph
  metrics                counter snapshot
  quit`)
}

func (c *console) register(ctx context.Context, args []string) {
	if len(args) < 3 {
		fmt.Println("usage: register <name> <email> <password>")
		return
	}
	user, err := c.app.Services.Identity.Register(ctx, services.RegisterInput{
		Name:     args[0],
		Email:    args[1],
		Password: args[2],
	})
	if err != nil {
		fmt.Printf("register failed: %v\n", err)
		return
	}
	c.user = user
	fmt.Printf("welcome, %s\n", user.Name)
}

func (c *console) login(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Println("usage: login <email> <password>")
		return
	}
	user, err := c.app.Services.Identity.Login(ctx, args[0], args[1])
	if err != nil {
		fmt.Printf("login failed: %v\n", err)
		return
	}
	c.user = user
	fmt.Printf("welcome back, %s\n", user.Name)
}

func (c *console) listProducts(ctx context.Context, query string) {
	products, err := c.app.Services.Catalog.SearchProducts(ctx, query)
	if err != nil {
		fmt.Printf("catalog unavailable: %v\n", err)
		return
	}
	if len(products) == 0 {
		fmt.Println("no products found")
		return
	}
	for _, p := range products {
		fmt.Printf("  [%d] %s (%s) $%.2f\n", p.CatalogID, p.Name, p.Category, p.Price)
	}
}

func (c *console) view(ctx context.Context, args []string) {
	if c.user == nil || len(args) < 1 {
		fmt.Println("log in first; usage: view <product-id>")
		return
	}
	pid := args[0]
	if err := c.app.Services.Tracker.TrackView(ctx, c.user.UserID, pid, nil); err != nil {
		fmt.Printf("view failed: %v\n", err)
		return
	}

	if similar, err := c.app.Services.Recommendations.SimilarProducts(ctx, pid, 0); err == nil && len(similar) > 0 {
		fmt.Println("people who viewed this also viewed:")
		for _, row := range similar {
			fmt.Printf("  [%s] %s (%d shared viewers)\n", row.ProductID, row.ProductName, row.CommonUsers)
		}
	}
	if together, err := c.app.Services.Recommendations.FrequentlyBoughtTogether(ctx, pid, 0); err == nil && len(together) > 0 {
		fmt.Println("frequently bought together:")
		for _, row := range together {
			fmt.Printf("  [%s] %s $%.2f (bought together %d times)\n", row.ProductID, row.Name, row.Price, row.Frequency)
		}
	}
	if matches, err := c.app.Services.Recommendations.ContentSimilar(ctx, pid, 0); err == nil && len(matches) > 0 {
		fmt.Println("more like this:")
		for _, row := range matches {
			fmt.Printf("  [%s] %s $%.2f (%d shared tags)\n", row.ProductID, row.Name, row.Price, row.SharedTags)
		}
	}
}

func (c *console) track(ctx context.Context, args []string, verb string, fn func(context.Context, string, string, map[string]any) error) {
	if c.user == nil || len(args) < 1 {
		fmt.Printf("log in first; usage: <command> <product-id>\n")
		return
	}
	if err := fn(ctx, c.user.UserID, args[0], nil); err != nil {
		fmt.Printf("failed: %v\n", err)
		return
	}
	fmt.Printf("%s product %s\n", verb, args[0])
}

func (c *console) admin() bool {
	if c.user == nil || c.user.Role != domain.RoleAdmin {
		fmt.Println("requires an admin login")
		return false
	}
	return true
}

func (c *console) addProduct(ctx context.Context, args []string) {
	if !c.admin() {
		return
	}
	if len(args) < 5 {
		fmt.Println("usage: addproduct <id> <price> <category> <tags,csv|-> <name...>")
		return
	}
	catalogID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Printf("bad product id %q\n", args[0])
		return
	}
	price, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		fmt.Printf("bad price %q\n", args[1])
		return
	}
	var tags []string
	if args[3] != "-" {
		tags = strings.Split(args[3], ",")
	}
	product := &domain.Product{
		CatalogID: catalogID,
		Name:      strings.Join(args[4:], " "),
		Category:  args[2],
		Tags:      tags,
		Price:     price,
	}
	if err := c.app.Services.Catalog.CreateProduct(ctx, product); err != nil {
		fmt.Printf("create failed: %v\n", err)
		return
	}
	fmt.Printf("added [%d] %s\n", product.CatalogID, product.Name)
}

func (c *console) editProduct(ctx context.Context, args []string) {
	if !c.admin() {
		return
	}
	if len(args) < 3 {
		fmt.Println("usage: editproduct <id> <name|category|price|image|tags> <value...>")
		return
	}
	catalogID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Printf("bad product id %q\n", args[0])
		return
	}

	var update services.ProductUpdate
	value := strings.Join(args[2:], " ")
	switch args[1] {
	case "name":
		update.Name = &value
	case "category":
		update.Category = &value
	case "image":
		update.Image = &value
	case "price":
		price, err := strconv.ParseFloat(value, 64)
		if err != nil {
			fmt.Printf("bad price %q\n", value)
			return
		}
		update.Price = &price
	case "tags":
		tags := strings.Split(value, ",")
		update.Tags = &tags
	default:
		fmt.Printf("unknown field %q\n", args[1])
		return
	}
	if err := c.app.Services.Catalog.UpdateProduct(ctx, catalogID, update); err != nil {
		fmt.Printf("update failed: %v\n", err)
		return
	}
	fmt.Printf("updated [%d] %s\n", catalogID, args[1])
}

func (c *console) deleteProduct(ctx context.Context, args []string) {
	if !c.admin() {
		return
	}
	if len(args) < 1 {
		fmt.Println("usage: delproduct <id>")
		return
	}
	catalogID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Printf("bad product id %q\n", args[0])
		return
	}
	if err := c.app.Services.Catalog.DeleteProduct(ctx, catalogID); err != nil {
		fmt.Printf("delete failed: %v\n", err)
		return
	}
	fmt.Printf("removed [%d]\n", catalogID)
}

func (c *console) updateProfile(ctx context.Context, args []string) {
	if c.user == nil || len(args) < 1 {
		fmt.Println("log in first; usage: profile <name>")
		return
	}
	name := strings.Join(args, " ")
	if err := c.app.Services.Identity.UpdateProfile(ctx, c.user.UserID, services.ProfileUpdate{Name: &name}); err != nil {
		fmt.Printf("profile update failed: %v\n", err)
		return
	}
	c.user.Name = name
	fmt.Printf("profile updated, %s\n", c.user.Name)
}

func (c *console) addToCart(ctx context.Context, args []string) {
	if c.user == nil || len(args) < 1 {
		fmt.Println("log in first; usage: cart <product-id>")
		return
	}
	if err := c.app.Services.Tracker.TrackAddToCart(ctx, c.user.UserID, args[0], nil); err != nil {
		fmt.Printf("failed: %v\n", err)
		return
	}
	c.cart = append(c.cart, services.CheckoutItem{ProductID: args[0], Quantity: 1})
	fmt.Printf("added to cart (%d items)\n", len(c.cart))
}

func (c *console) checkout(ctx context.Context) {
	if c.user == nil {
		fmt.Println("log in first")
		return
	}
	if len(c.cart) == 0 {
		fmt.Println("cart is empty")
		return
	}
	order, err := c.app.Services.Tracker.Checkout(ctx, c.user.UserID, c.cart)
	if err != nil {
		fmt.Printf("checkout failed: %v\n", err)
		return
	}
	c.cart = nil
	fmt.Printf("order %s placed: %d items, $%.2f\n", order.OrderID, len(order.Items), order.TotalAmount)
}

func (c *console) buy(ctx context.Context, args []string) {
	if c.user == nil || len(args) < 1 {
		fmt.Println("log in first; usage: buy <product-id> [qty]")
		return
	}
	var qty int64 = 1
	if len(args) > 1 {
		if n, err := strconv.ParseInt(args[1], 10, 64); err == nil && n > 0 {
			qty = n
		}
	}
	purchase, err := c.app.Services.Tracker.TrackPurchase(ctx, c.user.UserID, args[0], services.PurchaseInput{Quantity: qty})
	if err != nil {
		fmt.Printf("purchase failed: %v\n", err)
		return
	}
	fmt.Printf("bought %dx %s for $%.2f (purchase %s)\n", purchase.Quantity, purchase.ProductName, purchase.TotalAmount, purchase.PurchaseID)
}

func (c *console) recommendations(ctx context.Context) {
	if c.user == nil {
		fmt.Println("log in first")
		return
	}
	rows, err := c.app.Services.Recommendations.PersonalizedRecommendations(ctx, c.user.UserID, 0)
	if err != nil {
		if apperr.IsCode(err, apperr.CodeRecommendationsUnavailable) {
			fmt.Println("recommendations unavailable right now")
		} else {
			fmt.Printf("failed: %v\n", err)
		}
		return
	}
	if len(rows) == 0 {
		fmt.Println("no recommendations yet; browse some products first")
		return
	}
	for _, row := range rows {
		fmt.Printf("  [%s] %s (%d co-viewers)\n", row.ProductID, row.ProductName, row.ViewCount)
	}
}

func (c *console) activity(ctx context.Context) {
	if c.user == nil {
		fmt.Println("log in first")
		return
	}
	activity, err := c.app.Services.Tracker.UserActivity(ctx, c.user.UserID)
	if err != nil {
		fmt.Printf("failed: %v\n", err)
		return
	}
	fmt.Printf("purchases: %d, views: %d, orders: %d\n", len(activity.Purchases), len(activity.Views), len(activity.Orders))
	for _, p := range activity.Purchases {
		fmt.Printf("  %s: %dx %s $%.2f\n", p.PurchaseDate.Format("2006-01-02"), p.Quantity, p.ProductName, p.TotalAmount)
	}
	for _, o := range activity.Orders {
		fmt.Printf("  order %s (%s): %d items $%.2f\n", o.OrderID, o.Status, len(o.Items), o.TotalAmount)
	}
}
