package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"foodzone/api-svc/internal/domain"
	"foodzone/api-svc/internal/service"

	"github.com/gorilla/mux"
)

type Handler struct {
	Users       service.UserServiceInterface
	Restaurants service.RestaurantServiceInterface
	Menu        service.MenuServiceInterface
	Orders      service.OrderServiceInterface
	Tokens      service.TokenServiceInterface
	Feeds       *OrderHub
}

func NewHandler(
	users service.UserServiceInterface,
	restaurants service.RestaurantServiceInterface,
	menu service.MenuServiceInterface,
	orders service.OrderServiceInterface,
	tokens service.TokenServiceInterface,
	feeds *OrderHub,
) *Handler {
	return &Handler{
		Users:       users,
		Restaurants: restaurants,
		Menu:        menu,
		Orders:      orders,
		Tokens:      tokens,
		Feeds:       feeds,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")
	r.HandleFunc("/jwt", h.issueToken).Methods("POST")

	r.HandleFunc("/users", h.createUser).Methods("POST")
	r.Handle("/users/admin/{email}", h.admin(h.listUsers)).Methods("GET")
	r.Handle("/users/update-role/{email}", h.admin(h.updateRole)).Methods("PATCH")
	r.Handle("/users/role/{email}", h.secure(h.getRole)).Methods("GET")
	r.Handle("/users/status/{email}", h.secure(h.requestSeller)).Methods("PATCH")
	r.Handle("/users/{email}", h.secure(h.getUser)).Methods("GET")
	r.Handle("/users/{email}", h.secure(h.updateUser)).Methods("PATCH")

	r.Handle("/restaurants", h.secure(h.createRestaurant)).Methods("POST")
	r.Handle("/restaurants/owner/{email}", h.secure(h.ownerRestaurants)).Methods("GET")
	r.Handle("/restaurants/{id:[0-9]+}", h.secure(h.deleteRestaurant)).Methods("DELETE")

	r.HandleFunc("/api/public/restaurants", h.publicRestaurants).Methods("GET")
	r.HandleFunc("/api/public/restaurant/{id:[0-9]+}/menu", h.restaurantMenu).Methods("GET")
	r.HandleFunc("/api/public/popular", h.popularMenu).Methods("GET")

	r.Handle("/menu", h.secure(h.createMenuItem)).Methods("POST")
	r.Handle("/menu/item/{id:[0-9]+}", h.secure(h.getMenuItem)).Methods("GET")
	r.Handle("/menu/{email}", h.secure(h.ownerMenu)).Methods("GET")
	r.Handle("/menu/{id:[0-9]+}", h.secure(h.updateMenuItem)).Methods("PATCH")
	r.Handle("/menu/{id:[0-9]+}", h.secure(h.deleteMenuItem)).Methods("DELETE")

	r.Handle("/api/order", h.secure(h.placeOrder)).Methods("POST")
	r.Handle("/api/orders/user/{email}", h.secure(h.userOrders)).Methods("GET")
	r.Handle("/api/orders/seller/{email}", h.secure(h.sellerOrders)).Methods("GET")
	r.Handle("/api/orders/seller/{email}/export", h.secure(h.exportSellerOrders)).Methods("GET")
	r.Handle("/api/orders/{id:[0-9]+}/status", h.secure(h.updateOrderStatus)).Methods("PATCH")
	r.HandleFunc("/api/orders/{id:[0-9]+}/qrcode", h.getOrderQRCode).Methods("GET")

	if h.Feeds != nil {
		r.Handle("/ws/orders/seller/{email}", h.secureFeed(h.Feeds.ServeSeller)).Methods("GET")
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{"success": false, "message": message})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUserExists), errors.Is(err, domain.ErrMissingFields):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("[api-svc] %s %s failed id=%s: %v", r.Method, r.URL.Path, RequestIDFrom(r.Context()), err)
		writeError(w, status, "Internal server error")
		return
	}
	writeError(w, status, err.Error())
}

func pathID(r *http.Request) int {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	return id
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "api-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) issueToken(w http.ResponseWriter, r *http.Request) {
	var req domain.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	token, err := h.Tokens.Issue(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req domain.NewUser
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	user, err := h.Users.Register(r.Context(), req)
	if errors.Is(err, domain.ErrUserExists) {
		writeError(w, http.StatusBadRequest, "User already exists")
		return
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "User created successfully",
		"data":    user,
	})
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.ListExcept(mux.Vars(r)["email"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"users": users, "totalUsers": len(users)})
}

func (h *Handler) updateRole(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	user, err := h.Users.UpdateRole(r.Context(), mux.Vars(r)["email"], body.Role)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "User updated successfully",
		"user":    user,
	})
}

func (h *Handler) getRole(w http.ResponseWriter, r *http.Request) {
	role, err := h.Users.Role(r.Context(), mux.Vars(r)["email"])
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "User not found or error retrieving role")
		return
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"role": role})
}

func (h *Handler) requestSeller(w http.ResponseWriter, r *http.Request) {
	already, err := h.Users.RequestSeller(mux.Vars(r)["email"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	message := "Request submitted successfully"
	if already {
		message = "Request already submitted"
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": message, "alreadyRequested": already})
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.Users.Get(mux.Vars(r)["email"])
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "user": user})
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	var update domain.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	user, err := h.Users.UpdateProfile(mux.Vars(r)["email"], update)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "User updated successfully",
		"user":    user,
	})
}

func (h *Handler) createRestaurant(w http.ResponseWriter, r *http.Request) {
	var rest domain.Restaurant
	if err := json.NewDecoder(r.Body).Decode(&rest); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Restaurants.Create(&rest); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success":    true,
		"message":    "Restaurant added successfully",
		"restaurant": rest,
	})
}

func (h *Handler) ownerRestaurants(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.Restaurants.ListByOwner(mux.Vars(r)["email"])
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "No restaurants found for this email")
		return
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"restaurants": restaurants})
}

func (h *Handler) deleteRestaurant(w http.ResponseWriter, r *http.Request) {
	if err := h.Restaurants.Delete(pathID(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Restaurant deleted"})
}

func (h *Handler) publicRestaurants(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.Restaurants.List()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, restaurants)
}

func (h *Handler) restaurantMenu(w http.ResponseWriter, r *http.Request) {
	menu, err := h.Restaurants.Menu(pathID(r))
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Restaurant not found")
		return
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, menu)
}

func (h *Handler) popularMenu(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	items, err := h.Menu.Popular(r.Context(), limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) createMenuItem(w http.ResponseWriter, r *http.Request) {
	var item domain.MenuItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Menu.Create(&item); err != nil {
		if errors.Is(err, domain.ErrMissingFields) {
			writeError(w, http.StatusBadRequest, "Missing required fields.")
			return
		}
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Menu item added successfully!",
		"item":    item,
	})
}

func (h *Handler) getMenuItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.Menu.Get(pathID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) ownerMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.Menu.ListByOwner(mux.Vars(r)["email"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) updateMenuItem(w http.ResponseWriter, r *http.Request) {
	var patch domain.MenuPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	item, err := h.Menu.Update(pathID(r), patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) deleteMenuItem(w http.ResponseWriter, r *http.Request) {
	if err := h.Menu.Delete(pathID(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Menu item deleted"})
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req domain.PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}
	order, err := h.Orders.Place(r.Context(), req)
	if errors.Is(err, domain.ErrMissingFields) {
		writeError(w, http.StatusBadRequest, "Missing required fields.")
		return
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Order placed successfully",
		"order":   order,
	})
}

func (h *Handler) userOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.ListByUser(mux.Vars(r)["email"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "orders": orders})
}

func (h *Handler) sellerOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.ListBySeller(mux.Vars(r)["email"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "orders": orders})
}

func (h *Handler) exportSellerOrders(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.Orders.ExportSeller(mux.Vars(r)["email"], &buf); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=orders.xlsx")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Orders.UpdateStatus(pathID(r), body.Status); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Order status updated successfully"})
}

func (h *Handler) getOrderQRCode(w http.ResponseWriter, r *http.Request) {
	qrCode, err := h.Orders.GetQRCode(pathID(r))
	if errors.Is(err, domain.ErrNotFound) {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if len(qrCode) == 0 {
		http.Error(w, "QR code not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(qrCode)
}
