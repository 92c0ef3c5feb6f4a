package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"foodzone/api-svc/internal/domain"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

const userColumns = `id, email, COALESCE(name, ''), COALESCE(photo, ''), COALESCE(phone, ''),
	COALESCE(address, ''), COALESCE(role, 'user'), COALESCE(status, ''), created_at, updated_at, last_sign_in`

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Photo, &u.Phone, &u.Address,
		&u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt, &u.LastSignIn); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PostgresRepository) CreateUser(user *domain.User) error {
	return r.DB.QueryRow(`
		INSERT INTO users (email, name, photo, role, created_at, last_sign_in)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		user.Email, user.Name, user.Photo, user.Role, user.CreatedAt, user.LastSignIn,
	).Scan(&user.ID)
}

func (r *PostgresRepository) GetUser(email string) (*domain.User, error) {
	u, err := scanUser(r.DB.QueryRow("SELECT "+userColumns+" FROM users WHERE email = $1", email))
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (r *PostgresRepository) ListUsersExcept(email string) ([]domain.User, error) {
	rows, err := r.DB.Query("SELECT "+userColumns+" FROM users WHERE email <> $1 ORDER BY created_at DESC", email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			continue
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *PostgresRepository) GetRole(email string) (string, error) {
	var role string
	if err := r.DB.QueryRow("SELECT COALESCE(role, 'user') FROM users WHERE email = $1", email).Scan(&role); err != nil {
		return "", notFound(err)
	}
	return role, nil
}

func (r *PostgresRepository) UpdateRole(email, role string) (*domain.User, error) {
	u, err := scanUser(r.DB.QueryRow(`
		UPDATE users SET role = $1, status = 'approved', updated_at = NOW()
		WHERE email = $2
		RETURNING `+userColumns, role, email))
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (r *PostgresRepository) GetStatus(email string) (string, error) {
	var status string
	if err := r.DB.QueryRow("SELECT COALESCE(status, '') FROM users WHERE email = $1", email).Scan(&status); err != nil {
		return "", notFound(err)
	}
	return status, nil
}

func (r *PostgresRepository) SetStatus(email, status string) error {
	_, err := r.DB.Exec("UPDATE users SET status = $1, updated_at = NOW() WHERE email = $2", status, email)
	return err
}

func (r *PostgresRepository) UpdateProfile(email string, update domain.ProfileUpdate) (*domain.User, error) {
	u, err := scanUser(r.DB.QueryRow(`
		UPDATE users SET name = $1, photo = $2, phone = $3, address = $4, updated_at = NOW()
		WHERE email = $5
		RETURNING `+userColumns,
		update.Name, update.Photo, update.Phone, update.Address, email))
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

const restaurantColumns = `id, name, COALESCE(owner, ''), COALESCE(phone, ''), COALESCE(address, ''),
	COALESCE(cuisine, ''), COALESCE(image, ''), COALESCE(email, ''), created_at`

func scanRestaurant(row rowScanner) (*domain.Restaurant, error) {
	var rest domain.Restaurant
	if err := row.Scan(&rest.ID, &rest.Name, &rest.Owner, &rest.Phone, &rest.Address,
		&rest.Cuisine, &rest.Image, &rest.Email, &rest.CreatedAt); err != nil {
		return nil, err
	}
	return &rest, nil
}

func (r *PostgresRepository) CreateRestaurant(rest *domain.Restaurant) error {
	return r.DB.QueryRow(`
		INSERT INTO restaurants (name, owner, phone, address, cuisine, image, email)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		rest.Name, rest.Owner, rest.Phone, rest.Address, rest.Cuisine, rest.Image, rest.Email,
	).Scan(&rest.ID, &rest.CreatedAt)
}

func (r *PostgresRepository) listRestaurants(query string, args ...interface{}) ([]domain.Restaurant, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	restaurants := []domain.Restaurant{}
	for rows.Next() {
		rest, err := scanRestaurant(rows)
		if err != nil {
			continue
		}
		restaurants = append(restaurants, *rest)
	}
	return restaurants, rows.Err()
}

func (r *PostgresRepository) ListRestaurants() ([]domain.Restaurant, error) {
	return r.listRestaurants("SELECT " + restaurantColumns + " FROM restaurants ORDER BY created_at DESC")
}

func (r *PostgresRepository) ListRestaurantsByOwner(email string) ([]domain.Restaurant, error) {
	return r.listRestaurants("SELECT "+restaurantColumns+" FROM restaurants WHERE email = $1 ORDER BY created_at DESC", email)
}

func (r *PostgresRepository) GetRestaurantMenu(id int) (*domain.RestaurantMenu, error) {
	rest, err := scanRestaurant(r.DB.QueryRow("SELECT "+restaurantColumns+" FROM restaurants WHERE id = $1", id))
	if err != nil {
		return nil, notFound(err)
	}

	items, err := r.listMenu("SELECT "+menuColumns+" FROM menu WHERE restaurant_id = $1 ORDER BY id", id)
	if err != nil {
		return nil, err
	}
	return &domain.RestaurantMenu{Restaurant: *rest, Menu: items}, nil
}

func (r *PostgresRepository) DeleteRestaurant(id int) (int64, error) {
	result, err := r.DB.Exec("DELETE FROM restaurants WHERE id = $1", id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const menuColumns = `id, name, COALESCE(description, ''), price, COALESCE(category, ''), COALESCE(image, ''),
	restaurant_id, COALESCE(owner_email, ''), order_count, created_at`

func scanMenuItem(row rowScanner) (*domain.MenuItem, error) {
	var m domain.MenuItem
	if err := row.Scan(&m.ID, &m.Name, &m.Description, &m.Price, &m.Category, &m.Image,
		&m.RestaurantID, &m.OwnerEmail, &m.OrderCount, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PostgresRepository) listMenu(query string, args ...interface{}) ([]domain.MenuItem, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.MenuItem{}
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			continue
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) CreateMenuItem(item *domain.MenuItem) error {
	return r.DB.QueryRow(`
		INSERT INTO menu (name, description, price, category, image, restaurant_id, owner_email)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		item.Name, item.Description, item.Price, item.Category, item.Image, item.RestaurantID, item.OwnerEmail,
	).Scan(&item.ID, &item.CreatedAt)
}

func (r *PostgresRepository) GetMenuItem(id int) (*domain.MenuItem, error) {
	m, err := scanMenuItem(r.DB.QueryRow("SELECT "+menuColumns+" FROM menu WHERE id = $1", id))
	if err != nil {
		return nil, notFound(err)
	}
	return m, nil
}

func (r *PostgresRepository) ListMenuByOwner(email string) ([]domain.SellerMenuItem, error) {
	rows, err := r.DB.Query(`
		SELECT m.id, m.name, COALESCE(m.description, ''), m.price, COALESCE(m.category, ''), COALESCE(m.image, ''),
			m.restaurant_id, COALESCE(m.owner_email, ''), m.order_count, m.created_at, COALESCE(r.name, 'Unknown')
		FROM menu m
		LEFT JOIN restaurants r ON r.id = m.restaurant_id
		WHERE m.owner_email = $1
		ORDER BY m.id`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.SellerMenuItem{}
	for rows.Next() {
		var it domain.SellerMenuItem
		if err := rows.Scan(&it.ID, &it.Name, &it.Description, &it.Price, &it.Category, &it.Image,
			&it.RestaurantID, &it.OwnerEmail, &it.OrderCount, &it.CreatedAt, &it.RestaurantName); err != nil {
			continue
		}
		it.FoodName = it.Name
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) UpdateMenuItem(id int, patch domain.MenuPatch) (*domain.MenuItem, error) {
	m, err := scanMenuItem(r.DB.QueryRow(`
		UPDATE menu SET
			name = COALESCE($1, name),
			description = COALESCE($2, description),
			price = COALESCE($3, price),
			category = COALESCE($4, category),
			image = COALESCE($5, image)
		WHERE id = $6
		RETURNING `+menuColumns,
		patch.Name, patch.Description, patch.Price, patch.Category, patch.Image, id))
	if err != nil {
		return nil, notFound(err)
	}
	return m, nil
}

func (r *PostgresRepository) DeleteMenuItem(id int) (int64, error) {
	result, err := r.DB.Exec("DELETE FROM menu WHERE id = $1", id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *PostgresRepository) TopMenuItems(limit int) ([]domain.MenuItem, error) {
	return r.listMenu("SELECT "+menuColumns+" FROM menu ORDER BY order_count DESC, id LIMIT $1", limit)
}

func (r *PostgresRepository) MenuItemsByID(ids []int) ([]domain.MenuItem, error) {
	keys := make([]int64, len(ids))
	for i, id := range ids {
		keys[i] = int64(id)
	}
	return r.listMenu("SELECT "+menuColumns+" FROM menu WHERE id = ANY($1)", pq.Array(keys))
}

const orderColumns = `id, user_email, COALESCE(user_name, ''), COALESCE(user_phone, ''), COALESCE(user_address, ''),
	items, total, payment_method, payment_status, order_status, COALESCE(tracking_id::text, ''), created_at`

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		o     domain.Order
		items []byte
	)
	if err := row.Scan(&o.ID, &o.UserEmail, &o.UserName, &o.UserPhone, &o.UserAddress,
		&items, &o.Total, &o.PaymentMethod, &o.PaymentStatus, &o.OrderStatus, &o.TrackingID, &o.CreatedAt); err != nil {
		return nil, err
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return nil, fmt.Errorf("order %d items: %w", o.ID, err)
		}
	}
	return &o, nil
}

func (r *PostgresRepository) CreateOrder(order *domain.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return err
	}
	return r.DB.QueryRow(`
		INSERT INTO orders (user_email, user_name, user_phone, user_address, items, total,
			payment_method, payment_status, order_status, tracking_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`,
		order.UserEmail, order.UserName, order.UserPhone, order.UserAddress, items, order.Total,
		order.PaymentMethod, order.PaymentStatus, order.OrderStatus, order.TrackingID,
	).Scan(&order.ID, &order.CreatedAt)
}

func (r *PostgresRepository) SaveQRCode(orderID int, qr []byte) error {
	_, err := r.DB.Exec("UPDATE orders SET qr_code = $1 WHERE id = $2", qr, orderID)
	return err
}

func (r *PostgresRepository) GetQRCode(orderID int) ([]byte, error) {
	var qr []byte
	if err := r.DB.QueryRow("SELECT qr_code FROM orders WHERE id = $1", orderID).Scan(&qr); err != nil {
		return nil, notFound(err)
	}
	return qr, nil
}

func (r *PostgresRepository) GetOrder(orderID int) (*domain.Order, error) {
	o, err := scanOrder(r.DB.QueryRow("SELECT "+orderColumns+" FROM orders WHERE id = $1", orderID))
	if err != nil {
		return nil, notFound(err)
	}
	return o, nil
}

func (r *PostgresRepository) listOrders(query string, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			continue
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func (r *PostgresRepository) ListOrders() ([]domain.Order, error) {
	return r.listOrders("SELECT " + orderColumns + " FROM orders ORDER BY created_at DESC")
}

func (r *PostgresRepository) ListOrdersByUser(email string) ([]domain.Order, error) {
	return r.listOrders("SELECT "+orderColumns+" FROM orders WHERE user_email = $1 ORDER BY created_at DESC", email)
}

func (r *PostgresRepository) UpdateOrderStatus(orderID int, orderStatus, paymentStatus string) error {
	result, err := r.DB.Exec("UPDATE orders SET order_status = $1, payment_status = $2 WHERE id = $3",
		orderStatus, paymentStatus, orderID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) EnsureSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			name TEXT,
			photo TEXT,
			phone TEXT,
			address TEXT,
			role TEXT NOT NULL DEFAULT 'user',
			status TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ,
			last_sign_in TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS restaurants (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			owner TEXT,
			phone TEXT,
			address TEXT,
			cuisine TEXT,
			image TEXT,
			email TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS menu (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			price NUMERIC(10, 2) NOT NULL,
			category TEXT,
			image TEXT,
			restaurant_id INTEGER NOT NULL REFERENCES restaurants(id) ON DELETE CASCADE,
			owner_email TEXT,
			order_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id SERIAL PRIMARY KEY,
			user_email TEXT NOT NULL,
			user_name TEXT,
			user_phone TEXT,
			user_address TEXT,
			items JSONB NOT NULL DEFAULT '[]',
			total NUMERIC(12, 2) NOT NULL,
			payment_method TEXT NOT NULL,
			payment_status TEXT NOT NULL,
			order_status TEXT NOT NULL,
			tracking_id UUID,
			qr_code BYTEA,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		"CREATE INDEX IF NOT EXISTS idx_menu_owner_email ON menu (owner_email)",
		"CREATE INDEX IF NOT EXISTS idx_orders_user_email ON orders (user_email)",
	}
	for _, stmt := range statements {
		if _, err := r.DB.Exec(stmt); err != nil {
			return fmt.Errorf("ensure schema `%s`: %w", stmt, err)
		}
	}
	return nil
}
