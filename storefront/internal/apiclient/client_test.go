package apiclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"foodzone/storefront/internal/apiclient"
	"foodzone/storefront/internal/cart"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingClient records which of the two transports a call used.
type countingClient struct {
	base  *http.Client
	calls int
}

func (c *countingClient) Do(req *http.Request) (*http.Response, error) {
	c.calls++
	return c.base.Do(req)
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	r := mux.NewRouter()
	r.HandleFunc("/jwt", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		json.NewEncoder(w).Encode(map[string]string{"token": "t-" + body["email"]})
	}).Methods(http.MethodPost)
	r.HandleFunc("/users/role/{email}", func(w http.ResponseWriter, r *http.Request) {
		if mux.Vars(r)["email"] != "a+b@x.com" {
			http.Error(w, `{"message":"forbidden access"}`, http.StatusForbidden)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"role": "seller"})
	}).Methods(http.MethodGet)
	r.HandleFunc("/api/public/restaurant/{id}/menu", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":3,"name":"Roma","menu":[{"id":9,"name":"Pizza","price":"9.50","owner_email":"chef@x.com"}]}`))
	}).Methods(http.MethodGet)
	r.HandleFunc("/api/order", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.JSONEq(t, `"cod"`, string(body["paymentMethod"]))
		assert.Contains(t, string(body["cart"]), `"ownerEmail":"chef@x.com"`)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"success":true,"order":{"id":11,"payment_status":"pending","order_status":"pending","total":"19"}}`))
	}).Methods(http.MethodPost)
	r.HandleFunc("/api/orders/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "order not found", http.StatusNotFound)
	}).Methods(http.MethodPatch)
	r.HandleFunc("/api/orders/user/{email}", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"unauthorized access"}`, http.StatusUnauthorized)
	}).Methods(http.MethodGet)
	return httptest.NewServer(r)
}

func TestClient_PublicAndSecureTransports(t *testing.T) {
	ts := newServer(t)
	defer ts.Close()
	public := &countingClient{base: ts.Client()}
	secure := &countingClient{base: ts.Client()}
	c := apiclient.New(ts.URL+"/", public, secure)

	token, err := c.ExchangeToken(context.Background(), "ana@x.com", "uid", "")
	require.NoError(t, err)
	assert.Equal(t, "t-ana@x.com", token)

	role, err := c.Role(context.Background(), "a+b@x.com")
	require.NoError(t, err)
	assert.Equal(t, "seller", role)

	assert.Equal(t, 1, public.calls)
	assert.Equal(t, 1, secure.calls)
}

func TestClient_AuthFailureIsTyped(t *testing.T) {
	ts := newServer(t)
	defer ts.Close()
	c := apiclient.New(ts.URL, ts.Client(), ts.Client())

	tests := []struct {
		name    string
		call    func() error
		status  int
		message string
	}{
		{
			name: "forbidden",
			call: func() error {
				_, err := c.Role(context.Background(), "other@x.com")
				return err
			},
			status:  http.StatusForbidden,
			message: "forbidden access",
		},
		{
			name: "unauthorized",
			call: func() error {
				_, err := c.UserOrders(context.Background(), "ana@x.com")
				return err
			},
			status:  http.StatusUnauthorized,
			message: "unauthorized access",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			err := testCase.call()

			require.Error(t, err)
			assert.True(t, apiclient.IsAuthFailure(err))
			assert.Equal(t, testCase.status, apiclient.StatusOf(err))
			assert.Contains(t, err.Error(), testCase.message)
		})
	}
}

func TestClient_RestaurantMenuToCart(t *testing.T) {
	ts := newServer(t)
	defer ts.Close()
	c := apiclient.New(ts.URL, ts.Client(), ts.Client())

	menu, err := c.RestaurantMenu(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Roma", menu.Name)
	require.Len(t, menu.Menu, 1)

	item := menu.Menu[0]
	assert.True(t, decimal.RequireFromString("9.5").Equal(item.Price))
	assert.Equal(t, cart.Product{ID: 9, Name: "Pizza", Price: item.Price}, item.Product())
}

func TestClient_PlaceOrder(t *testing.T) {
	ts := newServer(t)
	defer ts.Close()
	c := apiclient.New(ts.URL, ts.Client(), ts.Client())

	line := cart.Line{ID: 9, OwnerEmail: "chef@x.com", Name: "Pizza", Price: decimal.RequireFromString("9.50"), Quantity: 2}
	order, err := c.PlaceOrder(context.Background(), apiclient.OrderRequest{
		UserEmail:     "ana@x.com",
		Cart:          []cart.Line{line},
		Total:         line.Subtotal(),
		PaymentMethod: "cod",
	})
	require.NoError(t, err)
	assert.Equal(t, 11, order.ID)
	assert.Equal(t, "pending", order.PaymentStatus)
}

func TestClient_PlainTextError(t *testing.T) {
	ts := newServer(t)
	defer ts.Close()
	c := apiclient.New(ts.URL, ts.Client(), ts.Client())

	err := c.UpdateOrderStatus(context.Background(), 5, "delivered")

	var apiErr *apiclient.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "order not found", apiErr.Message)
	assert.False(t, apiclient.IsAuthFailure(err))
}

func newConsoleServer(t *testing.T) *httptest.Server {
	t.Helper()
	r := mux.NewRouter()
	r.HandleFunc("/users/admin/{email}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "boss@x.com", mux.Vars(r)["email"])
		w.Write([]byte(`{"users":[{"email":"ana@x.com","role":"user","status":"requested"}],"totalUsers":1}`))
	}).Methods(http.MethodGet)
	r.HandleFunc("/users/update-role/{email}", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Write([]byte(`{"success":true,"user":{"email":"` + mux.Vars(r)["email"] + `","role":"` + body["role"] + `"}}`))
	}).Methods(http.MethodPatch)
	r.HandleFunc("/restaurants", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "chef@x.com", body["owner"])
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"success":true,"restaurant":{"id":4,"name":"Roma"}}`))
	}).Methods(http.MethodPost)
	r.HandleFunc("/restaurants/owner/{email}", func(w http.ResponseWriter, r *http.Request) {
		if mux.Vars(r)["email"] != "chef@x.com" {
			http.Error(w, `{"message":"No restaurants found for this email"}`, http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"restaurants":[{"id":4,"name":"Roma"}]}`))
	}).Methods(http.MethodGet)
	r.HandleFunc("/restaurants/{id}", func(w http.ResponseWriter, r *http.Request) {
		if mux.Vars(r)["id"] != "4" {
			http.Error(w, `{"message":"restaurant not found"}`, http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"success":true}`))
	}).Methods(http.MethodDelete)
	r.HandleFunc("/menu", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.JSONEq(t, `"12.5"`, string(body["price"]))
		w.Write([]byte(`{"success":true,"item":{"id":20,"name":"Lasagna","price":"12.5"}}`))
	}).Methods(http.MethodPost)
	r.HandleFunc("/menu/{email}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":20,"name":"Lasagna","price":"12.5","food_name":"Lasagna","restaurant_name":"Roma"}]`))
	}).Methods(http.MethodGet)
	r.HandleFunc("/menu/{id}", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{"price"}, keys(body))
		w.Write([]byte(`{"id":20,"name":"Lasagna","price":` + string(body["price"]) + `}`))
	}).Methods(http.MethodPatch)
	r.HandleFunc("/menu/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true}`))
	}).Methods(http.MethodDelete)
	return httptest.NewServer(r)
}

func keys(m map[string]json.RawMessage) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestClient_AdminConsole(t *testing.T) {
	ts := newConsoleServer(t)
	defer ts.Close()
	c := apiclient.New(ts.URL, ts.Client(), ts.Client())
	ctx := context.Background()

	users, err := c.Users(ctx, "boss@x.com")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "requested", users[0].Status)

	u, err := c.UpdateRole(ctx, "ana@x.com", "seller")
	require.NoError(t, err)
	assert.Equal(t, "ana@x.com", u.Email)
	assert.Equal(t, "seller", u.Role)
}

func TestClient_SellerRestaurants(t *testing.T) {
	ts := newConsoleServer(t)
	defer ts.Close()
	c := apiclient.New(ts.URL, ts.Client(), ts.Client())
	ctx := context.Background()

	created, err := c.CreateRestaurant(ctx, apiclient.Restaurant{Name: "Roma", Owner: "chef@x.com"})
	require.NoError(t, err)
	assert.Equal(t, 4, created.ID)

	tests := []struct {
		name  string
		email string
		want  int
	}{
		{name: "owner with restaurants", email: "chef@x.com", want: 1},
		{name: "owner without restaurants", email: "new@x.com", want: 0},
	}
	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			restaurants, err := c.OwnerRestaurants(ctx, testCase.email)
			require.NoError(t, err)
			assert.Len(t, restaurants, testCase.want)
		})
	}

	require.NoError(t, c.DeleteRestaurant(ctx, 4))
	err = c.DeleteRestaurant(ctx, 5)
	assert.Equal(t, http.StatusNotFound, apiclient.StatusOf(err))
}

func TestClient_SellerMenu(t *testing.T) {
	ts := newConsoleServer(t)
	defer ts.Close()
	c := apiclient.New(ts.URL, ts.Client(), ts.Client())
	ctx := context.Background()

	item, err := c.CreateMenuItem(ctx, apiclient.MenuItem{Name: "Lasagna", Price: decimal.RequireFromString("12.5"), RestaurantID: 4})
	require.NoError(t, err)
	assert.Equal(t, 20, item.ID)

	menu, err := c.OwnerMenu(ctx, "chef@x.com")
	require.NoError(t, err)
	require.Len(t, menu, 1)
	assert.Equal(t, "Roma", menu[0].RestaurantName)

	price := decimal.RequireFromString("14")
	updated, err := c.UpdateMenuItem(ctx, 20, apiclient.MenuPatch{Price: &price})
	require.NoError(t, err)
	assert.True(t, price.Equal(updated.Price))

	assert.NoError(t, c.DeleteMenuItem(ctx, 20))
}
