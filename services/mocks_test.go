package services_test

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront-api/models"
	"storefront-api/notification"
	"storefront-api/pdf"
	"storefront-api/repository"
)

// --- Mock repositories ---

type mockUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (m *mockUserRepo) Create(_ context.Context, u *models.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	var out []models.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *mockUserRepo) FindAll(_ context.Context) ([]models.User, error) {
	var out []models.User
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *mockUserRepo) Update(_ context.Context, u *models.User) error {
	if _, ok := m.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	u.UpdatedAt = time.Now()
	copied := *u
	m.users[u.ID] = &copied
	return nil
}

func (m *mockUserRepo) DeleteByID(_ context.Context, id primitive.ObjectID) error {
	if _, ok := m.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) DeleteByEmail(_ context.Context, email string) error {
	for id, u := range m.users {
		if u.Email == email {
			delete(m.users, id)
			return nil
		}
	}
	return repository.ErrNotFound
}

type mockProductRepo struct {
	products     map[primitive.ObjectID]*models.Product
	decrementErr error
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[primitive.ObjectID]*models.Product)}
}

func (m *mockProductRepo) Create(_ context.Context, p *models.Product) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.products[p.ID] = p
	return nil
}

func (m *mockProductRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *mockProductRepo) FindAll(_ context.Context) ([]models.Product, error) {
	var out []models.Product
	for _, p := range m.products {
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockProductRepo) FindByCategory(_ context.Context, category string) ([]models.Product, error) {
	var out []models.Product
	for _, p := range m.products {
		if p.Category == category {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockProductRepo) DistinctCategories(_ context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, p := range m.products {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out, nil
}

func (m *mockProductRepo) Update(_ context.Context, p *models.Product) error {
	if _, ok := m.products[p.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *p
	m.products[p.ID] = &copied
	return nil
}

func (m *mockProductRepo) DeleteByID(_ context.Context, id primitive.ObjectID) error {
	if _, ok := m.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepo) DeleteByCategory(_ context.Context, category string) (int64, error) {
	var deleted int64
	for id, p := range m.products {
		if p.Category == category {
			delete(m.products, id)
			deleted++
		}
	}
	return deleted, nil
}

func (m *mockProductRepo) DecrementStock(_ context.Context, id primitive.ObjectID, quantity int) error {
	if m.decrementErr != nil {
		return m.decrementErr
	}
	p, ok := m.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Stock -= quantity
	return nil
}

type mockCartRepo struct {
	carts   map[primitive.ObjectID]*models.Cart
	saveErr error
}

func newMockCartRepo() *mockCartRepo {
	return &mockCartRepo{carts: make(map[primitive.ObjectID]*models.Cart)}
}

func (m *mockCartRepo) FindByUser(_ context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	cart, ok := m.carts[userID]
	if !ok {
		return nil, nil
	}
	copied := *cart
	copied.Items = append([]models.CartItem(nil), cart.Items...)
	return &copied, nil
}

func (m *mockCartRepo) Save(_ context.Context, cart *models.Cart) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	if cart.ID.IsZero() {
		cart.ID = primitive.NewObjectID()
	}
	copied := *cart
	copied.Items = append([]models.CartItem(nil), cart.Items...)
	m.carts[cart.User] = &copied
	return nil
}

type mockOrderRepo struct {
	orders    map[primitive.ObjectID]*models.Order
	createErr error
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[primitive.ObjectID]*models.Order)}
}

func (m *mockOrderRepo) Create(_ context.Context, order *models.Order) error {
	if m.createErr != nil {
		return m.createErr
	}
	order.ID = primitive.NewObjectID()
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	copied := *order
	m.orders[order.ID] = &copied
	return nil
}

func (m *mockOrderRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *order
	return &copied, nil
}

func (m *mockOrderRepo) FindAll(_ context.Context) ([]models.Order, error) {
	var out []models.Order
	for _, o := range m.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (m *mockOrderRepo) FindByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	var out []models.Order
	for _, o := range m.orders {
		if o.User == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *mockOrderRepo) Update(_ context.Context, order *models.Order) error {
	if _, ok := m.orders[order.ID]; !ok {
		return repository.ErrNotFound
	}
	order.UpdatedAt = time.Now()
	copied := *order
	m.orders[order.ID] = &copied
	return nil
}

func (m *mockOrderRepo) CountCreatedBetween(_ context.Context, from, to time.Time) (int64, error) {
	var count int64
	for _, o := range m.orders {
		if !o.CreatedAt.Before(from) && o.CreatedAt.Before(to) {
			count++
		}
	}
	return count, nil
}

// --- Mock PDF generator and notifier ---

type mockPDFGen struct {
	invoiceErr error
	cartErr    error
	invoices   int
	cartPDFs   int
}

func (m *mockPDFGen) GenerateInvoice(order *models.Order) (*pdf.Result, error) {
	if m.invoiceErr != nil {
		return nil, m.invoiceErr
	}
	m.invoices++
	return &pdf.Result{Success: true, FilePath: "/tmp/" + pdf.InvoiceFileName(order), FileName: pdf.InvoiceFileName(order)}, nil
}

func (m *mockPDFGen) GenerateCartPDF(items []models.OrderItem, totalItems int, user *models.User) (*pdf.Result, error) {
	if m.cartErr != nil {
		return nil, m.cartErr
	}
	m.cartPDFs++
	return &pdf.Result{Success: true, FilePath: "/tmp/cart.pdf", FileName: "cart.pdf"}, nil
}

type mockNotifier struct {
	confirmationFail bool
	summaryFail      bool
	smsFail          bool
	confirmations    []string
	summaries        []string
	smsMessages      []string
}

func (m *mockNotifier) SendOrderConfirmation(_ context.Context, order *models.Order, pdfPath string) notification.Result {
	if m.confirmationFail {
		return notification.Result{Success: false, Error: "smtp unavailable"}
	}
	m.confirmations = append(m.confirmations, order.InvoiceNumber)
	return notification.Result{Success: true, MessageID: "msg-1"}
}

func (m *mockNotifier) SendCartSummary(_ context.Context, email string, _ *models.User, _ []models.OrderItem, _ string) notification.Result {
	if m.summaryFail {
		return notification.Result{Success: false, Error: "smtp unavailable"}
	}
	m.summaries = append(m.summaries, email)
	return notification.Result{Success: true, MessageID: "msg-2"}
}

func (m *mockNotifier) SendSMSNotification(_ context.Context, phone, message string) notification.Result {
	if m.smsFail {
		return notification.Result{Success: false, Error: "sms unavailable"}
	}
	m.smsMessages = append(m.smsMessages, message)
	return notification.Result{Success: true, MessageID: "msg-3"}
}

var errBoom = errors.New("boom")
