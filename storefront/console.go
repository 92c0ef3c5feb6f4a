package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"foodzone/storefront/internal/apiclient"
	"foodzone/storefront/internal/session"

	"github.com/shopspring/decimal"
)

func runUsers(ctx context.Context, a *app, _ []string) error {
	if err := requireRole(ctx, a, session.RoleAdmin); err != nil {
		return err
	}
	users, err := a.api.Users(ctx, a.guard.Session().Email)
	if err != nil {
		return err
	}
	w := table()
	fmt.Fprintln(w, "EMAIL\tNAME\tROLE\tSTATUS")
	for _, u := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.Email, u.Name, u.Role, u.Status)
	}
	fmt.Fprintf(w, "\t\t\t%d users\n", len(users))
	return w.Flush()
}

func runSetRole(ctx context.Context, a *app, args []string) error {
	fs := newFlags("set-role")
	email := fs.String("email", "", "Account email")
	role := fs.String("role", "", "New role: admin, seller or user")
	if err := fs.Parse(args); err != nil {
		return err
	}
	want := session.Role(strings.ToLower(*role))
	if *email == "" || !want.Valid() {
		return errors.New("an email and a valid role are required")
	}
	if err := requireRole(ctx, a, session.RoleAdmin); err != nil {
		return err
	}
	u, err := a.api.UpdateRole(ctx, *email, string(want))
	if err != nil {
		return err
	}
	if u != nil {
		fmt.Printf("%s is now %s\n", u.Email, u.Role)
		return nil
	}
	fmt.Printf("%s is now %s\n", *email, want)
	return nil
}

func runAddRestaurant(ctx context.Context, a *app, args []string) error {
	fs := newFlags("add-restaurant")
	name := fs.String("name", "", "Restaurant name")
	cuisine := fs.String("cuisine", "", "Cuisine")
	address := fs.String("address", "", "Address")
	phone := fs.String("phone", "", "Phone")
	image := fs.String("image", "", "Image URL")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" || *address == "" {
		return errors.New("name and address are required")
	}
	if err := requireRole(ctx, a, session.RoleSeller); err != nil {
		return err
	}
	email := a.guard.Session().Email
	r, err := a.api.CreateRestaurant(ctx, apiclient.Restaurant{
		Name:    *name,
		Cuisine: *cuisine,
		Address: *address,
		Phone:   *phone,
		Image:   *image,
		Email:   email,
		Owner:   email,
	})
	if err != nil {
		return err
	}
	if r == nil {
		fmt.Printf("Restaurant %s added\n", *name)
		return nil
	}
	fmt.Printf("Restaurant %d (%s) added\n", r.ID, r.Name)
	return nil
}

func runMyRestaurants(ctx context.Context, a *app, _ []string) error {
	if err := requireRole(ctx, a, session.RoleSeller); err != nil {
		return err
	}
	restaurants, err := a.api.OwnerRestaurants(ctx, a.guard.Session().Email)
	if err != nil {
		return err
	}
	if len(restaurants) == 0 {
		fmt.Println("No restaurants yet")
		return nil
	}
	w := table()
	fmt.Fprintln(w, "ID\tNAME\tCUISINE\tADDRESS")
	for _, r := range restaurants {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", r.ID, r.Name, r.Cuisine, r.Address)
	}
	return w.Flush()
}

func runDeleteRestaurant(ctx context.Context, a *app, args []string) error {
	fs := newFlags("delete-restaurant")
	id := fs.Int("restaurant", 0, "Restaurant id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireRole(ctx, a, session.RoleSeller); err != nil {
		return err
	}
	if err := a.api.DeleteRestaurant(ctx, *id); err != nil {
		return err
	}
	fmt.Printf("Restaurant %d deleted\n", *id)
	return nil
}

func runAddMenu(ctx context.Context, a *app, args []string) error {
	fs := newFlags("add-menu")
	restaurantID := fs.Int("restaurant", 0, "Restaurant id")
	name := fs.String("name", "", "Dish name")
	price := fs.String("price", "", "Price")
	category := fs.String("category", "", "Category")
	description := fs.String("description", "", "Description")
	image := fs.String("image", "", "Image URL")
	if err := fs.Parse(args); err != nil {
		return err
	}
	amount, err := decimal.NewFromString(*price)
	if err != nil || *name == "" || *restaurantID == 0 {
		return errors.New("restaurant, name and a numeric price are required")
	}
	if err := requireRole(ctx, a, session.RoleSeller); err != nil {
		return err
	}
	item, err := a.api.CreateMenuItem(ctx, apiclient.MenuItem{
		Name:         *name,
		Description:  *description,
		Price:        amount,
		Category:     *category,
		Image:        *image,
		RestaurantID: *restaurantID,
		OwnerEmail:   a.guard.Session().Email,
	})
	if err != nil {
		return err
	}
	if item == nil {
		fmt.Printf("Added %s\n", *name)
		return nil
	}
	fmt.Printf("Added menu item %d (%s)\n", item.ID, item.Name)
	return nil
}

func runMyMenu(ctx context.Context, a *app, _ []string) error {
	if err := requireRole(ctx, a, session.RoleSeller); err != nil {
		return err
	}
	items, err := a.api.OwnerMenu(ctx, a.guard.Session().Email)
	if err != nil {
		return err
	}
	w := table()
	fmt.Fprintln(w, "ID\tNAME\tRESTAURANT\tCATEGORY\tPRICE")
	for _, m := range items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", m.ID, m.Name, m.RestaurantName, m.Category, m.Price.StringFixed(2))
	}
	return w.Flush()
}

func runUpdateMenu(ctx context.Context, a *app, args []string) error {
	fs := newFlags("update-menu")
	id := fs.Int("item", 0, "Menu item id")
	name := fs.String("name", "", "Dish name")
	price := fs.String("price", "", "Price")
	category := fs.String("category", "", "Category")
	description := fs.String("description", "", "Description")
	image := fs.String("image", "", "Image URL")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var patch apiclient.MenuPatch
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["name"] {
		patch.Name = name
	}
	if set["category"] {
		patch.Category = category
	}
	if set["description"] {
		patch.Description = description
	}
	if set["image"] {
		patch.Image = image
	}
	if set["price"] {
		amount, err := decimal.NewFromString(*price)
		if err != nil {
			return fmt.Errorf("invalid price %q", *price)
		}
		patch.Price = &amount
	}
	if patch == (apiclient.MenuPatch{}) {
		return errors.New("nothing to update")
	}

	if err := requireRole(ctx, a, session.RoleSeller); err != nil {
		return err
	}
	item, err := a.api.UpdateMenuItem(ctx, *id, patch)
	if err != nil {
		return err
	}
	fmt.Printf("Menu item %d: %s, %s\n", item.ID, item.Name, item.Price.StringFixed(2))
	return nil
}

func runDeleteMenu(ctx context.Context, a *app, args []string) error {
	fs := newFlags("delete-menu")
	id := fs.Int("item", 0, "Menu item id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireRole(ctx, a, session.RoleSeller); err != nil {
		return err
	}
	if err := a.api.DeleteMenuItem(ctx, *id); err != nil {
		return err
	}
	fmt.Printf("Menu item %d deleted\n", *id)
	return nil
}
