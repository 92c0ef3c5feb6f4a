package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"foodzone/storefront/internal/apiclient"
	"foodzone/storefront/internal/cart"
	"foodzone/storefront/internal/checkout"
	"foodzone/storefront/internal/session"
)

type command struct {
	usage string
	run   func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"signup":         {"signup --email E --password P [--name N]", runSignUp},
	"login":          {"login --email E --password P | login --google-token T", runLogin},
	"logout":         {"logout", runLogout},
	"whoami":         {"whoami", runWhoAmI},
	"restaurants":    {"restaurants", runRestaurants},
	"menu":           {"menu --restaurant ID", runMenu},
	"popular":        {"popular", runPopular},
	"add":            {"add --restaurant ID --item ID [--qty N]", runAdd},
	"cart":           {"cart", runCart},
	"update":         {"update --line ID --qty N", runUpdate},
	"remove":         {"remove --line ID", runRemove},
	"clear":          {"clear", runClear},
	"checkout":       {"checkout --name N --phone P --address A [--payment cod|online]", runCheckout},
	"orders":         {"orders", runOrders},
	"profile":        {"profile [--name N] [--photo URL] [--phone P] [--address A]", runProfile},
	"request-seller": {"request-seller", runRequestSeller},
	"seller-orders":  {"seller-orders", runSellerOrders},
	"order-status":   {"order-status --order ID --status S", runOrderStatus},

	"users":             {"users", runUsers},
	"set-role":          {"set-role --email E --role admin|seller|user", runSetRole},
	"add-restaurant":    {"add-restaurant --name N --cuisine C --address A [--phone P] [--image URL]", runAddRestaurant},
	"my-restaurants":    {"my-restaurants", runMyRestaurants},
	"delete-restaurant": {"delete-restaurant --restaurant ID", runDeleteRestaurant},
	"add-menu":          {"add-menu --restaurant ID --name N --price P [--category C] [--description D] [--image URL]", runAddMenu},
	"my-menu":           {"my-menu", runMyMenu},
	"update-menu":       {"update-menu --item ID [--name N] [--price P] [--category C] [--description D] [--image URL]", runUpdateMenu},
	"delete-menu":       {"delete-menu --item ID", runDeleteMenu},
}

func usage() {
	fmt.Fprintf(os.Stderr, "FoodZone storefront\n\n")
	fmt.Fprintf(os.Stderr, "Usage:\n")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(os.Stderr, "  storefront %s\n", commands[name].usage)
	}
}

func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of storefront %s:\n", name)
		fs.PrintDefaults()
	}
	return fs
}

func table() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func runSignUp(ctx context.Context, a *app, args []string) error {
	fs := newFlags("signup")
	email := fs.String("email", "", "Account email")
	password := fs.String("password", "", "Account password")
	name := fs.String("name", "", "Display name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return errors.New("email and password are required")
	}

	a.stop = a.guard.Start(ctx)
	if _, err := a.provider.SignUp(ctx, *email, *password); err != nil {
		return err
	}
	if *name != "" {
		if err := a.provider.UpdateProfile(ctx, *name, ""); err != nil {
			return err
		}
	}
	return reportSession(a)
}

func runLogin(ctx context.Context, a *app, args []string) error {
	fs := newFlags("login")
	email := fs.String("email", "", "Account email")
	password := fs.String("password", "", "Account password")
	googleToken := fs.String("google-token", "", "Google ID token for federated sign-in")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a.stop = a.guard.Start(ctx)
	var err error
	switch {
	case *googleToken != "":
		_, err = a.provider.SignInWithProvider(ctx, "google.com", *googleToken)
	case *email != "" && *password != "":
		_, err = a.provider.SignIn(ctx, *email, *password)
	default:
		return errors.New("email and password, or a google token, are required")
	}
	if err != nil {
		return err
	}
	return reportSession(a)
}

func reportSession(a *app) error {
	s := a.guard.Session()
	if s == nil {
		return session.ErrNoSession
	}
	fmt.Printf("Signed in as %s\n", s.Email)
	return nil
}

func runLogout(ctx context.Context, a *app, _ []string) error {
	if err := a.guard.Logout(ctx); err != nil {
		return err
	}
	fmt.Println("Signed out")
	return nil
}

func runWhoAmI(ctx context.Context, a *app, _ []string) error {
	if err := a.ensureSession(ctx); err != nil {
		return err
	}
	s := a.guard.Session()
	role, err := a.roles.Resolve(ctx, s.Email)
	if err != nil {
		return err
	}
	fmt.Printf("Email:   %s\nRole:    %s\n", s.Email, role)
	if exp, ok := s.ExpiresAt(); ok {
		fmt.Printf("Expires: %s\n", exp.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func runRestaurants(ctx context.Context, a *app, _ []string) error {
	restaurants, err := a.api.PublicRestaurants(ctx)
	if err != nil {
		return err
	}
	w := table()
	fmt.Fprintln(w, "ID\tNAME\tCUISINE\tADDRESS")
	for _, r := range restaurants {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", r.ID, r.Name, r.Cuisine, r.Address)
	}
	return w.Flush()
}

func runMenu(ctx context.Context, a *app, args []string) error {
	fs := newFlags("menu")
	restaurantID := fs.Int("restaurant", 0, "Restaurant id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	menu, err := a.api.RestaurantMenu(ctx, *restaurantID)
	if err != nil {
		return err
	}
	fmt.Printf("%s (%s)\n\n", menu.Name, menu.Cuisine)
	w := table()
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE")
	for _, m := range menu.Menu {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", m.ID, m.Name, m.Category, m.Price.StringFixed(2))
	}
	return w.Flush()
}

func runPopular(ctx context.Context, a *app, _ []string) error {
	items, err := a.api.Popular(ctx)
	if err != nil {
		return err
	}
	w := table()
	fmt.Fprintln(w, "ID\tNAME\tORDERS\tPRICE")
	for _, m := range items {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", m.ID, m.Name, m.OrderCount, m.Price.StringFixed(2))
	}
	return w.Flush()
}

func runAdd(ctx context.Context, a *app, args []string) error {
	fs := newFlags("add")
	restaurantID := fs.Int("restaurant", 0, "Restaurant id")
	itemID := fs.Int("item", 0, "Menu item id")
	qty := fs.Int("qty", 1, "Quantity")
	if err := fs.Parse(args); err != nil {
		return err
	}

	menu, err := a.api.RestaurantMenu(ctx, *restaurantID)
	if err != nil {
		return err
	}
	for _, m := range menu.Menu {
		if m.ID == *itemID {
			a.cart.AddItem(m.Product(), *qty, m.OwnerEmail)
			fmt.Printf("Added %s. Cart total %s\n", m.Name, a.cart.Total().StringFixed(2))
			return nil
		}
	}
	return fmt.Errorf("item %d is not on the menu of restaurant %d", *itemID, *restaurantID)
}

func runCart(_ context.Context, a *app, _ []string) error {
	lines, total := a.cart.Snapshot()
	if len(lines) == 0 {
		fmt.Println("Cart is empty")
		return nil
	}
	w := table()
	fmt.Fprintln(w, "LINE\tNAME\tQTY\tPRICE\tSUBTOTAL")
	for _, l := range lines {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", l.Key(), l.Name, l.Quantity, l.Price.StringFixed(2), l.Subtotal().StringFixed(2))
	}
	fmt.Fprintf(w, "\t\t\tTOTAL\t%s\n", total.StringFixed(2))
	return w.Flush()
}

func runUpdate(_ context.Context, a *app, args []string) error {
	fs := newFlags("update")
	line := fs.String("line", "", "Cart line id")
	qty := fs.Int("qty", 1, "New quantity")
	if err := fs.Parse(args); err != nil {
		return err
	}
	a.cart.UpdateQuantity(cart.LineID(*line), *qty)
	return runCart(context.Background(), a, nil)
}

func runRemove(_ context.Context, a *app, args []string) error {
	fs := newFlags("remove")
	line := fs.String("line", "", "Cart line id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	a.cart.RemoveItem(cart.LineID(*line))
	return runCart(context.Background(), a, nil)
}

func runClear(_ context.Context, a *app, _ []string) error {
	a.cart.Clear()
	fmt.Println("Cart cleared")
	return nil
}

func runCheckout(ctx context.Context, a *app, args []string) error {
	fs := newFlags("checkout")
	name := fs.String("name", "", "Recipient name")
	phone := fs.String("phone", "", "Contact phone")
	address := fs.String("address", "", "Delivery address")
	payment := fs.String("payment", checkout.PaymentCOD, "Payment method: cod or online")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.ensureSession(ctx); err != nil {
		return err
	}

	order, err := a.checkout.PlaceOrder(ctx, checkout.Details{
		Email:         a.guard.Session().Email,
		Name:          *name,
		Phone:         *phone,
		Address:       *address,
		PaymentMethod: strings.ToLower(*payment),
	})
	if err != nil {
		return err
	}
	fmt.Printf("Order %d placed. Tracking %s, payment %s\n", order.ID, order.TrackingID, order.PaymentStatus)
	return nil
}

func runOrders(ctx context.Context, a *app, _ []string) error {
	if err := requireRole(ctx, a, session.RoleUser); err != nil {
		return err
	}
	orders, err := a.api.UserOrders(ctx, a.guard.Session().Email)
	if err != nil {
		return err
	}
	w := table()
	fmt.Fprintln(w, "ID\tPLACED\tSTATUS\tPAYMENT\tTOTAL")
	for _, o := range orders {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", o.ID, o.CreatedAt.Local().Format("2006-01-02 15:04"), o.OrderStatus, o.PaymentStatus, o.Total.StringFixed(2))
	}
	return w.Flush()
}

func runProfile(ctx context.Context, a *app, args []string) error {
	fs := newFlags("profile")
	name := fs.String("name", "", "Display name")
	photo := fs.String("photo", "", "Photo URL")
	phone := fs.String("phone", "", "Phone")
	address := fs.String("address", "", "Address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.ensureSession(ctx); err != nil {
		return err
	}
	email := a.guard.Session().Email

	if fs.NFlag() == 0 {
		u, err := a.api.User(ctx, email)
		if err != nil {
			return err
		}
		fmt.Printf("Name:    %s\nEmail:   %s\nPhone:   %s\nAddress: %s\nRole:    %s\n", u.Name, u.Email, u.Phone, u.Address, u.Role)
		return nil
	}

	u, err := a.api.UpdateUser(ctx, email, apiclient.ProfileUpdate{
		Name:    *name,
		Photo:   *photo,
		Phone:   *phone,
		Address: *address,
	})
	if err != nil {
		return err
	}
	if *name != "" || *photo != "" {
		if err := a.provider.UpdateProfile(ctx, *name, *photo); err != nil {
			return err
		}
	}
	fmt.Printf("Profile updated for %s\n", u.Email)
	return nil
}

func runRequestSeller(ctx context.Context, a *app, _ []string) error {
	if err := requireRole(ctx, a, session.RoleUser); err != nil {
		return err
	}
	already, err := a.api.RequestSeller(ctx, a.guard.Session().Email)
	if err != nil {
		return err
	}
	if already {
		fmt.Println("A seller request is already pending")
		return nil
	}
	fmt.Println("Seller request sent")
	return nil
}

// requireRole opens a session and passes it through the role gate for want.
func requireRole(ctx context.Context, a *app, want session.Role) error {
	if err := a.ensureSession(ctx); err != nil {
		return err
	}
	if d := a.roles.Gate(ctx, want); !d.Allowed {
		return fmt.Errorf("%s access required, redirected to %s", want, d.Redirect)
	}
	return nil
}

func runSellerOrders(ctx context.Context, a *app, _ []string) error {
	if err := requireRole(ctx, a, session.RoleSeller); err != nil {
		return err
	}
	orders, err := a.api.SellerOrders(ctx, a.guard.Session().Email)
	if err != nil {
		return err
	}
	w := table()
	fmt.Fprintln(w, "ID\tCUSTOMER\tSTATUS\tPAYMENT\tYOUR TOTAL")
	for _, o := range orders {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", o.ID, o.UserEmail, o.OrderStatus, o.PaymentStatus, o.Total.StringFixed(2))
	}
	return w.Flush()
}

func runOrderStatus(ctx context.Context, a *app, args []string) error {
	fs := newFlags("order-status")
	orderID := fs.Int("order", 0, "Order id")
	status := fs.String("status", "", "New status")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *status == "" {
		return errors.New("status is required")
	}
	if err := requireRole(ctx, a, session.RoleSeller); err != nil {
		return err
	}
	if err := a.api.UpdateOrderStatus(ctx, *orderID, *status); err != nil {
		return err
	}
	fmt.Printf("Order %d is now %s\n", *orderID, *status)
	return nil
}
