package apiclient

import (
	"context"
	"net/http"
)

// ExchangeToken trades a signed-in identity for a session token.
func (c *Client) ExchangeToken(ctx context.Context, email, uid, idToken string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	body := map[string]string{"email": email, "uid": uid}
	if idToken != "" {
		body["idToken"] = idToken
	}
	if err := c.do(ctx, c.public, http.MethodPost, "/jwt", body, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

// RegisterUser records a first sign-in. An already registered email comes
// back as a 400.
func (c *Client) RegisterUser(ctx context.Context, email, displayName, photoURL string) error {
	return c.do(ctx, c.public, http.MethodPost, "/users", map[string]string{
		"email":       email,
		"displayName": displayName,
		"photoURL":    photoURL,
	}, nil)
}

func (c *Client) Role(ctx context.Context, email string) (string, error) {
	var out struct {
		Role string `json:"role"`
	}
	if err := c.do(ctx, c.secure, http.MethodGet, "/users/role/"+escape(email), nil, &out); err != nil {
		return "", err
	}
	return out.Role, nil
}

func (c *Client) User(ctx context.Context, email string) (*User, error) {
	var out struct {
		Success bool  `json:"success"`
		User    *User `json:"user"`
	}
	if err := c.do(ctx, c.secure, http.MethodGet, "/users/"+escape(email), nil, &out); err != nil {
		return nil, err
	}
	if out.User == nil {
		return nil, &Error{Status: http.StatusNotFound, Message: "user not found"}
	}
	return out.User, nil
}

func (c *Client) UpdateUser(ctx context.Context, email string, update ProfileUpdate) (*User, error) {
	var out struct {
		Success bool  `json:"success"`
		User    *User `json:"user"`
	}
	if err := c.do(ctx, c.secure, http.MethodPatch, "/users/"+escape(email), update, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// RequestSeller asks an admin for the seller role.
func (c *Client) RequestSeller(ctx context.Context, email string) (alreadyRequested bool, err error) {
	var out struct {
		AlreadyRequested bool `json:"alreadyRequested"`
	}
	if err := c.do(ctx, c.secure, http.MethodPatch, "/users/status/"+escape(email), nil, &out); err != nil {
		return false, err
	}
	return out.AlreadyRequested, nil
}

func (c *Client) PublicRestaurants(ctx context.Context) ([]Restaurant, error) {
	var out []Restaurant
	if err := c.do(ctx, c.public, http.MethodGet, "/api/public/restaurants", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) RestaurantMenu(ctx context.Context, restaurantID int) (*RestaurantMenu, error) {
	var out RestaurantMenu
	if err := c.do(ctx, c.public, http.MethodGet, "/api/public/restaurant/"+itoa(restaurantID)+"/menu", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Popular(ctx context.Context) ([]MenuItem, error) {
	var out []MenuItem
	if err := c.do(ctx, c.public, http.MethodGet, "/api/public/popular", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) PlaceOrder(ctx context.Context, order OrderRequest) (*Order, error) {
	var out struct {
		Success bool   `json:"success"`
		Order   *Order `json:"order"`
	}
	if err := c.do(ctx, c.secure, http.MethodPost, "/api/order", order, &out); err != nil {
		return nil, err
	}
	return out.Order, nil
}

func (c *Client) UserOrders(ctx context.Context, email string) ([]Order, error) {
	var out struct {
		Orders []Order `json:"orders"`
	}
	if err := c.do(ctx, c.secure, http.MethodGet, "/api/orders/user/"+escape(email), nil, &out); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

func (c *Client) SellerOrders(ctx context.Context, email string) ([]Order, error) {
	var out struct {
		Orders []Order `json:"orders"`
	}
	if err := c.do(ctx, c.secure, http.MethodGet, "/api/orders/seller/"+escape(email), nil, &out); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, orderID int, status string) error {
	return c.do(ctx, c.secure, http.MethodPatch, "/api/orders/"+itoa(orderID)+"/status",
		map[string]string{"status": status}, nil)
}

// Users lists every account except the calling admin.
func (c *Client) Users(ctx context.Context, adminEmail string) ([]User, error) {
	var out struct {
		Users      []User `json:"users"`
		TotalUsers int    `json:"totalUsers"`
	}
	if err := c.do(ctx, c.secure, http.MethodGet, "/users/admin/"+escape(adminEmail), nil, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

func (c *Client) UpdateRole(ctx context.Context, email, role string) (*User, error) {
	var out struct {
		Success bool  `json:"success"`
		User    *User `json:"user"`
	}
	if err := c.do(ctx, c.secure, http.MethodPatch, "/users/update-role/"+escape(email),
		map[string]string{"role": role}, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

func (c *Client) CreateRestaurant(ctx context.Context, r Restaurant) (*Restaurant, error) {
	var out struct {
		Success    bool        `json:"success"`
		Restaurant *Restaurant `json:"restaurant"`
	}
	if err := c.do(ctx, c.secure, http.MethodPost, "/restaurants", r, &out); err != nil {
		return nil, err
	}
	return out.Restaurant, nil
}

// OwnerRestaurants lists a seller's restaurants. A seller with none gets a
// 404 from the API, which comes back here as an empty list.
func (c *Client) OwnerRestaurants(ctx context.Context, email string) ([]Restaurant, error) {
	var out struct {
		Restaurants []Restaurant `json:"restaurants"`
	}
	err := c.do(ctx, c.secure, http.MethodGet, "/restaurants/owner/"+escape(email), nil, &out)
	if StatusOf(err) == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return out.Restaurants, nil
}

func (c *Client) DeleteRestaurant(ctx context.Context, id int) error {
	return c.do(ctx, c.secure, http.MethodDelete, "/restaurants/"+itoa(id), nil, nil)
}

func (c *Client) CreateMenuItem(ctx context.Context, item MenuItem) (*MenuItem, error) {
	var out struct {
		Success bool      `json:"success"`
		Item    *MenuItem `json:"item"`
	}
	if err := c.do(ctx, c.secure, http.MethodPost, "/menu", item, &out); err != nil {
		return nil, err
	}
	return out.Item, nil
}

func (c *Client) OwnerMenu(ctx context.Context, email string) ([]SellerMenuItem, error) {
	var out []SellerMenuItem
	if err := c.do(ctx, c.secure, http.MethodGet, "/menu/"+escape(email), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateMenuItem(ctx context.Context, id int, patch MenuPatch) (*MenuItem, error) {
	var out MenuItem
	if err := c.do(ctx, c.secure, http.MethodPatch, "/menu/"+itoa(id), patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteMenuItem(ctx context.Context, id int) error {
	return c.do(ctx, c.secure, http.MethodDelete, "/menu/"+itoa(id), nil, nil)
}
