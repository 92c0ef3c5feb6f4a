package tests

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"foodzone/api-svc/internal/domain"
	"foodzone/api-svc/internal/mocks"
	"foodzone/api-svc/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

func TestUserService_Register(t *testing.T) {
	tests := []struct {
		name         string
		input        domain.NewUser
		prepareMocks func(repo *mocks.UserRepository)
		wantErr      error
	}{
		{
			name:  "new user",
			input: domain.NewUser{Email: "ann@example.com", DisplayName: "Ann", PhotoURL: "p.png"},
			prepareMocks: func(repo *mocks.UserRepository) {
				repo.On("GetUser", "ann@example.com").Return(nil, domain.ErrNotFound).Once()
				repo.On("CreateUser", mock.MatchedBy(func(u *domain.User) bool {
					return u.Email == "ann@example.com" && u.Name == "Ann" && u.Role == domain.RoleUser && u.LastSignIn != nil
				})).Return(nil).Once()
			},
		},
		{
			name:  "existing user",
			input: domain.NewUser{Email: "ann@example.com"},
			prepareMocks: func(repo *mocks.UserRepository) {
				repo.On("GetUser", "ann@example.com").Return(&domain.User{Email: "ann@example.com"}, nil).Once()
			},
			wantErr: domain.ErrUserExists,
		},
		{
			name:         "missing email",
			input:        domain.NewUser{DisplayName: "Nobody"},
			prepareMocks: func(repo *mocks.UserRepository) {},
			wantErr:      domain.ErrMissingFields,
		},
		{
			name:  "lookup failure",
			input: domain.NewUser{Email: "ann@example.com"},
			prepareMocks: func(repo *mocks.UserRepository) {
				repo.On("GetUser", "ann@example.com").Return(nil, assert.AnError).Once()
			},
			wantErr: assert.AnError,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo := mocks.NewUserRepository(t)
			testCase.prepareMocks(repo)
			svc := service.NewUserService(repo, nil)

			user, err := svc.Register(context.Background(), testCase.input)

			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.RoleUser, user.Role)
		})
	}
}

func TestUserService_RoleReadsThroughCache(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit", func(t *testing.T) {
		repo := mocks.NewUserRepository(t)
		cache := mocks.NewRoleCache(t)
		cache.On("GetRole", ctx, "s@example.com").Return(domain.RoleSeller, true, nil).Once()

		role, err := service.NewUserService(repo, cache).Role(ctx, "s@example.com")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleSeller, role)
	})

	t.Run("cache miss fills cache", func(t *testing.T) {
		repo := mocks.NewUserRepository(t)
		cache := mocks.NewRoleCache(t)
		cache.On("GetRole", ctx, "s@example.com").Return("", false, nil).Once()
		repo.On("GetRole", "s@example.com").Return(domain.RoleAdmin, nil).Once()
		cache.On("SetRole", ctx, "s@example.com", domain.RoleAdmin).Return(nil).Once()

		role, err := service.NewUserService(repo, cache).Role(ctx, "s@example.com")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, role)
	})

	t.Run("cache error falls back to database", func(t *testing.T) {
		repo := mocks.NewUserRepository(t)
		cache := mocks.NewRoleCache(t)
		cache.On("GetRole", ctx, "s@example.com").Return("", false, assert.AnError).Once()
		repo.On("GetRole", "s@example.com").Return(domain.RoleUser, nil).Once()
		cache.On("SetRole", ctx, "s@example.com", domain.RoleUser).Return(assert.AnError).Once()

		role, err := service.NewUserService(repo, cache).Role(ctx, "s@example.com")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleUser, role)
	})

	t.Run("unknown user", func(t *testing.T) {
		repo := mocks.NewUserRepository(t)
		repo.On("GetRole", "ghost@example.com").Return("", domain.ErrNotFound).Once()

		_, err := service.NewUserService(repo, nil).Role(ctx, "ghost@example.com")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestUserService_UpdateRole(t *testing.T) {
	ctx := context.Background()

	t.Run("invalidates cached role", func(t *testing.T) {
		repo := mocks.NewUserRepository(t)
		cache := mocks.NewRoleCache(t)
		repo.On("UpdateRole", "s@example.com", domain.RoleSeller).
			Return(&domain.User{Email: "s@example.com", Role: domain.RoleSeller, Status: domain.StatusApproved}, nil).Once()
		cache.On("InvalidateRole", ctx, "s@example.com").Return(nil).Once()

		user, err := service.NewUserService(repo, cache).UpdateRole(ctx, "s@example.com", domain.RoleSeller)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusApproved, user.Status)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		repo := mocks.NewUserRepository(t)
		_, err := service.NewUserService(repo, nil).UpdateRole(ctx, "s@example.com", "owner")
		assert.ErrorIs(t, err, domain.ErrMissingFields)
	})
}

func TestUserService_RequestSeller(t *testing.T) {
	tests := []struct {
		name        string
		status      string
		statusErr   error
		expectSet   bool
		wantAlready bool
	}{
		{name: "first request", status: "", expectSet: true},
		{name: "already requested", status: domain.StatusRequested, wantAlready: true},
		{name: "approved earlier", status: domain.StatusApproved, expectSet: true},
		{name: "unknown user", statusErr: domain.ErrNotFound, expectSet: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo := mocks.NewUserRepository(t)
			repo.On("GetStatus", "u@example.com").Return(testCase.status, testCase.statusErr).Once()
			if testCase.expectSet {
				repo.On("SetStatus", "u@example.com", domain.StatusRequested).Return(nil).Once()
			}

			already, err := service.NewUserService(repo, nil).RequestSeller("u@example.com")
			require.NoError(t, err)
			assert.Equal(t, testCase.wantAlready, already)
		})
	}
}

func TestRestaurantService(t *testing.T) {
	t.Run("create requires name and email", func(t *testing.T) {
		repo := mocks.NewRestaurantRepository(t)
		err := service.NewRestaurantService(repo).Create(&domain.Restaurant{Name: "Cafe"})
		assert.ErrorIs(t, err, domain.ErrMissingFields)
	})

	t.Run("owner with no restaurants", func(t *testing.T) {
		repo := mocks.NewRestaurantRepository(t)
		repo.On("ListRestaurantsByOwner", "s@example.com").Return([]domain.Restaurant{}, nil).Once()

		_, err := service.NewRestaurantService(repo).ListByOwner("s@example.com")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("delete missing restaurant", func(t *testing.T) {
		repo := mocks.NewRestaurantRepository(t)
		repo.On("DeleteRestaurant", 9).Return(int64(0), nil).Once()

		err := service.NewRestaurantService(repo).Delete(9)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestMenuService_Create(t *testing.T) {
	valid := func() *domain.MenuItem {
		return &domain.MenuItem{
			Name: "Pizza", Description: "Cheese", Price: decimal.RequireFromString("9.50"),
			Category: "Mains", Image: "pizza.png", RestaurantID: 3, OwnerEmail: "s@example.com",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*domain.MenuItem)
		repoErr error
		wantErr error
	}{
		{name: "valid item", mutate: func(*domain.MenuItem) {}},
		{name: "zero price", mutate: func(m *domain.MenuItem) { m.Price = decimal.Zero }, wantErr: domain.ErrMissingFields},
		{name: "missing image", mutate: func(m *domain.MenuItem) { m.Image = " " }, wantErr: domain.ErrMissingFields},
		{name: "missing restaurant", mutate: func(m *domain.MenuItem) { m.RestaurantID = 0 }, wantErr: domain.ErrMissingFields},
		{name: "database error", mutate: func(*domain.MenuItem) {}, repoErr: assert.AnError, wantErr: assert.AnError},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo := mocks.NewMenuRepository(t)
			item := valid()
			testCase.mutate(item)
			if testCase.wantErr == nil || testCase.repoErr != nil {
				repo.On("CreateMenuItem", item).Return(testCase.repoErr).Once()
			}

			err := service.NewMenuService(repo, nil).Create(item)
			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMenuService_UpdateRejectsEmptyPatch(t *testing.T) {
	repo := mocks.NewMenuRepository(t)
	_, err := service.NewMenuService(repo, nil).Update(1, domain.MenuPatch{})
	assert.ErrorIs(t, err, domain.ErrMissingFields)
}

func TestMenuService_Popular(t *testing.T) {
	ctx := context.Background()
	items := []domain.MenuItem{{ID: 1, Name: "Soup"}, {ID: 2, Name: "Pizza"}, {ID: 3, Name: "Cake"}}

	t.Run("leaderboard order wins", func(t *testing.T) {
		repo := mocks.NewMenuRepository(t)
		popular := mocks.NewPopularityCache(t)
		popular.On("TopMenuIDs", ctx, 3).Return([]int{2, 3, 1}, nil).Once()
		repo.On("MenuItemsByID", []int{2, 3, 1}).Return(items, nil).Once()

		got, err := service.NewMenuService(repo, popular).Popular(ctx, 3)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, []int{2, 3, 1}, []int{got[0].ID, got[1].ID, got[2].ID})
	})

	t.Run("empty leaderboard falls back to database", func(t *testing.T) {
		repo := mocks.NewMenuRepository(t)
		popular := mocks.NewPopularityCache(t)
		popular.On("TopMenuIDs", ctx, 10).Return([]int{}, nil).Once()
		repo.On("TopMenuItems", 10).Return(items, nil).Once()

		got, err := service.NewMenuService(repo, popular).Popular(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("cache error falls back to database", func(t *testing.T) {
		repo := mocks.NewMenuRepository(t)
		popular := mocks.NewPopularityCache(t)
		popular.On("TopMenuIDs", ctx, 5).Return(nil, assert.AnError).Once()
		repo.On("TopMenuItems", 5).Return(items[:1], nil).Once()

		got, err := service.NewMenuService(repo, popular).Popular(ctx, 5)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}

func validOrderRequest() domain.PlaceOrderRequest {
	total := decimal.RequireFromString("25.00")
	return domain.PlaceOrderRequest{
		UserEmail:   "buyer@example.com",
		UserName:    "Buyer",
		UserPhone:   "555-0100",
		UserAddress: "1 Main St",
		Cart: []domain.OrderLine{
			{ID: 1, OwnerEmail: "s1@example.com", Name: "Soup", Price: decimal.RequireFromString("5.00"), Quantity: 3},
			{ID: 2, OwnerEmail: "s2@example.com", Name: "Pizza", Price: decimal.RequireFromString("10.00"), Quantity: 1},
		},
		Total:         &total,
		PaymentMethod: domain.PaymentCOD,
	}
}

func TestOrderService_Place(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewOrderRepository(t)
	qr := mocks.NewQRGenerator(t)
	publisher := mocks.NewEventPublisher(t)
	notifier := mocks.NewOrderNotifier(t)

	repo.On("CreateOrder", mock.MatchedBy(func(o *domain.Order) bool {
		return o.PaymentStatus == domain.PaymentPending && o.OrderStatus == domain.OrderPending && o.TrackingID != ""
	})).Run(func(args mock.Arguments) {
		args.Get(0).(*domain.Order).ID = 7
	}).Return(nil).Once()
	qr.On("Generate", 7).Return([]byte("png"), nil).Once()
	repo.On("SaveQRCode", 7, []byte("png")).Return(nil).Once()
	publisher.On("PublishOrderPlaced", ctx, mock.MatchedBy(func(e domain.OrderEvent) bool {
		return e.Type == domain.EventOrderPlaced && e.OrderID == 7 && len(e.Items) == 2 &&
			e.Items[0] == domain.OrderEventItem{MenuID: 1, Quantity: 3}
	})).Return(assert.AnError).Once()
	notifier.On("NotifyOrder", mock.MatchedBy(func(o domain.Order) bool { return o.ID == 7 })).Once()

	order, err := service.NewOrderService(repo, qr, publisher, notifier).Place(ctx, validOrderRequest())

	require.NoError(t, err)
	assert.Equal(t, 7, order.ID)
	assert.Equal(t, "/api/orders/7/qrcode", order.QRCode)
}

func TestOrderService_PlacePaymentStatus(t *testing.T) {
	repo := mocks.NewOrderRepository(t)
	repo.On("CreateOrder", mock.Anything).Return(nil).Once()

	req := validOrderRequest()
	req.PaymentMethod = "card"
	order, err := service.NewOrderService(repo, nil, nil, nil).Place(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, order.PaymentStatus)
}

func TestOrderService_PlaceValidation(t *testing.T) {
	zero := decimal.Zero
	tests := []struct {
		name   string
		mutate func(*domain.PlaceOrderRequest)
	}{
		{name: "missing email", mutate: func(r *domain.PlaceOrderRequest) { r.UserEmail = "" }},
		{name: "missing phone", mutate: func(r *domain.PlaceOrderRequest) { r.UserPhone = " " }},
		{name: "missing cart", mutate: func(r *domain.PlaceOrderRequest) { r.Cart = nil }},
		{name: "missing total", mutate: func(r *domain.PlaceOrderRequest) { r.Total = nil }},
		{name: "zero total", mutate: func(r *domain.PlaceOrderRequest) { r.Total = &zero }},
		{name: "missing payment method", mutate: func(r *domain.PlaceOrderRequest) { r.PaymentMethod = "" }},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo := mocks.NewOrderRepository(t)
			req := validOrderRequest()
			testCase.mutate(&req)

			_, err := service.NewOrderService(repo, nil, nil, nil).Place(context.Background(), req)
			assert.ErrorIs(t, err, domain.ErrMissingFields)
		})
	}
}

func TestOrderService_ListBySeller(t *testing.T) {
	repo := mocks.NewOrderRepository(t)
	req := validOrderRequest()
	repo.On("ListOrders").Return([]domain.Order{
		{ID: 1, Items: req.Cart, Total: *req.Total},
		{ID: 2, Items: req.Cart[1:], Total: decimal.RequireFromString("10.00")},
	}, nil).Once()

	orders, err := service.NewOrderService(repo, nil, nil, nil).ListBySeller("S1@example.com")

	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, 1, orders[0].ID)
	assert.Len(t, orders[0].Items, 1)
	assert.True(t, decimal.RequireFromString("15.00").Equal(orders[0].Total))
}

func TestOrderService_UpdateStatus(t *testing.T) {
	tests := []struct {
		name        string
		order       domain.Order
		status      string
		wantPayment string
	}{
		{
			name:        "cod delivered becomes paid",
			order:       domain.Order{ID: 4, PaymentMethod: domain.PaymentCOD, PaymentStatus: domain.PaymentPending},
			status:      domain.OrderDelivered,
			wantPayment: domain.PaymentPaid,
		},
		{
			name:        "cod shipped stays pending",
			order:       domain.Order{ID: 4, PaymentMethod: domain.PaymentCOD, PaymentStatus: domain.PaymentPending},
			status:      "shipped",
			wantPayment: domain.PaymentPending,
		},
		{
			name:        "online order keeps payment",
			order:       domain.Order{ID: 4, PaymentMethod: "card", PaymentStatus: domain.PaymentPaid},
			status:      domain.OrderDelivered,
			wantPayment: domain.PaymentPaid,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo := mocks.NewOrderRepository(t)
			order := testCase.order
			repo.On("GetOrder", 4).Return(&order, nil).Once()
			repo.On("UpdateOrderStatus", 4, testCase.status, testCase.wantPayment).Return(nil).Once()

			err := service.NewOrderService(repo, nil, nil, nil).UpdateStatus(4, testCase.status)
			assert.NoError(t, err)
		})
	}
}

func TestOrderService_GetQRCodeRegenerates(t *testing.T) {
	repo := mocks.NewOrderRepository(t)
	qr := mocks.NewQRGenerator(t)
	repo.On("GetQRCode", 5).Return([]byte(nil), nil).Once()
	qr.On("Generate", 5).Return([]byte("fresh"), nil).Once()
	repo.On("SaveQRCode", 5, []byte("fresh")).Return(nil).Once()

	got, err := service.NewOrderService(repo, qr, nil, nil).GetQRCode(5)

	require.NoError(t, err)
	assert.Equal(t, []byte("fresh"), got)
}

func TestDefaultQRGenerator(t *testing.T) {
	png, err := service.DefaultQRGenerator{BaseURL: "http://localhost:5173/"}.Generate(12)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}

func TestOrderService_ExportSeller(t *testing.T) {
	repo := mocks.NewOrderRepository(t)
	req := validOrderRequest()
	repo.On("ListOrders").Return([]domain.Order{
		{ID: 3, UserName: "Buyer", Items: req.Cart, Total: *req.Total, PaymentMethod: domain.PaymentCOD},
	}, nil).Once()

	var buf bytes.Buffer
	err := service.NewOrderService(repo, nil, nil, nil).ExportSeller("s2@example.com", &buf)
	require.NoError(t, err)

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	sheet := file.Sheet["Orders"]
	require.NotNil(t, sheet)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, "Order ID", sheet.Rows[0].Cells[0].String())
	assert.Equal(t, "Pizza x1", sheet.Rows[1].Cells[6].String())
	assert.Equal(t, "10.00", sheet.Rows[1].Cells[7].String())
}

func TestOrderService_ExportSellerPropagatesErrors(t *testing.T) {
	repo := mocks.NewOrderRepository(t)
	repo.On("ListOrders").Return(nil, errors.New("db down")).Once()

	err := service.NewOrderService(repo, nil, nil, nil).ExportSeller("s@example.com", &bytes.Buffer{})
	assert.EqualError(t, err, "db down")
}
