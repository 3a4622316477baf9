package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"restaurant_pos_backend/internal/models"
	"restaurant_pos_backend/internal/repositories"
	"restaurant_pos_backend/internal/storage"
)

// --- users ---

type fakeUserRepo struct {
	users  map[int64]*models.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*models.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) (int64, error) {
	for _, u := range r.users {
		if u.Username == user.Username {
			return 0, repositories.ErrDuplicateKey
		}
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	r.users[user.ID] = &cp
	return user.ID, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) List(_ context.Context) ([]models.User, error) {
	out := []models.User{}
	for _, u := range r.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.users[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

// --- categories ---

type fakeCategoryRepo struct {
	categories map[int64]*models.Category
	products   map[int64]int
	nextID     int64
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: map[int64]*models.Category{}, products: map[int64]int{}}
}

func (r *fakeCategoryRepo) add(name string) *models.Category {
	c := &models.Category{Name: name}
	r.Create(context.Background(), c)
	return c
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *models.Category) (int64, error) {
	r.nextID++
	category.ID = r.nextID
	cp := *category
	r.categories[category.ID] = &cp
	return category.ID, nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id int64) (*models.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCategoryRepo) GetByName(_ context.Context, name string) (*models.Category, error) {
	for _, c := range r.categories {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeCategoryRepo) List(_ context.Context) ([]models.Category, error) {
	out := []models.Category{}
	for _, c := range r.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, category *models.Category) error {
	if _, ok := r.categories[category.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *category
	r.categories[category.ID] = &cp
	return nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.categories[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.categories, id)
	return nil
}

func (r *fakeCategoryRepo) CountProducts(_ context.Context, id int64) (int, error) {
	return r.products[id], nil
}

// --- products ---

type fakeProductRepo struct {
	products   map[int64]*models.Product
	orderItems map[int64]int
	nextID     int64
	failWrites error
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[int64]*models.Product{}, orderItems: map[int64]int{}}
}

func (r *fakeProductRepo) add(p models.Product) *models.Product {
	r.nextID++
	p.ID = r.nextID
	r.products[p.ID] = &p
	return &p
}

func (r *fakeProductRepo) Create(_ context.Context, product *models.Product) (int64, error) {
	if r.failWrites != nil {
		return 0, r.failWrites
	}
	r.nextID++
	product.ID = r.nextID
	cp := *product
	r.products[product.ID] = &cp
	return product.ID, nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id int64) (*models.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) List(_ context.Context, filters models.ProductFilters) ([]models.Product, error) {
	out := []models.Product{}
	for _, p := range r.products {
		if filters.CategoryID != nil && p.CategoryID != *filters.CategoryID {
			continue
		}
		if filters.Available != nil && p.Available != *filters.Available {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeProductRepo) Update(_ context.Context, product *models.Product) error {
	if r.failWrites != nil {
		return r.failWrites
	}
	if _, ok := r.products[product.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *product
	r.products[product.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.products[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) CountOrderItems(_ context.Context, id int64) (int, error) {
	return r.orderItems[id], nil
}

// --- tables ---

type fakeTableRepo struct {
	tables map[int64]*models.Table
	orders map[int64]int
	nextID int64
}

func newFakeTableRepo() *fakeTableRepo {
	return &fakeTableRepo{tables: map[int64]*models.Table{}, orders: map[int64]int{}}
}

func (r *fakeTableRepo) add(number, capacity int) *models.Table {
	t := &models.Table{Number: number, Capacity: capacity, Status: models.TableStatusFree}
	r.Create(context.Background(), t)
	return t
}

func (r *fakeTableRepo) Create(_ context.Context, table *models.Table) (int64, error) {
	r.nextID++
	table.ID = r.nextID
	cp := *table
	r.tables[table.ID] = &cp
	return table.ID, nil
}

func (r *fakeTableRepo) GetByID(_ context.Context, id int64) (*models.Table, error) {
	t, ok := r.tables[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTableRepo) GetByNumber(_ context.Context, number int) (*models.Table, error) {
	for _, t := range r.tables {
		if t.Number == number {
			cp := *t
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeTableRepo) List(_ context.Context, status *string) ([]models.Table, error) {
	out := []models.Table{}
	for _, t := range r.tables {
		if status != nil && string(t.Status) != *status {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func (r *fakeTableRepo) Update(_ context.Context, table *models.Table) error {
	if _, ok := r.tables[table.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *table
	r.tables[table.ID] = &cp
	return nil
}

func (r *fakeTableRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.tables[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.tables, id)
	return nil
}

func (r *fakeTableRepo) CountOrders(_ context.Context, id int64) (int, error) {
	return r.orders[id], nil
}

// --- orders ---

type fakeOrderRepo struct {
	orders       map[int64]models.Order
	items        map[int64]models.OrderItem
	nextOrderID  int64
	nextItemID   int64
	failItemOnce bool
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[int64]models.Order{}, items: map[int64]models.OrderItem{}}
}

func (r *fakeOrderRepo) snapshot() *fakeOrderRepo {
	cp := &fakeOrderRepo{orders: map[int64]models.Order{}, items: map[int64]models.OrderItem{}, nextOrderID: r.nextOrderID, nextItemID: r.nextItemID}
	for k, v := range r.orders {
		cp.orders[k] = v
	}
	for k, v := range r.items {
		cp.items[k] = v
	}
	return cp
}

func (r *fakeOrderRepo) restore(from *fakeOrderRepo) {
	r.orders, r.items = from.orders, from.items
	r.nextOrderID, r.nextItemID = from.nextOrderID, from.nextItemID
}

func (r *fakeOrderRepo) Create(_ context.Context, _ repositories.SQLExecutor, order *models.Order) (int64, error) {
	r.nextOrderID++
	order.ID = r.nextOrderID
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	r.orders[order.ID] = *order
	return order.ID, nil
}

func (r *fakeOrderRepo) CreateItem(_ context.Context, _ repositories.SQLExecutor, item *models.OrderItem) (int64, error) {
	if r.failItemOnce {
		r.failItemOnce = false
		return 0, fmt.Errorf("%w: simulated failure", repositories.ErrDatabaseError)
	}
	r.nextItemID++
	item.ID = r.nextItemID
	r.items[item.ID] = *item
	return item.ID, nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id int64) (*models.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	o.OrderItems = r.itemsOf(id)
	return &o, nil
}

func (r *fakeOrderRepo) itemsOf(orderID int64) []models.OrderItem {
	out := []models.OrderItem{}
	for _, it := range r.items {
		if it.OrderID == orderID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakeOrderRepo) List(_ context.Context, filters models.OrderFilters) ([]models.Order, error) {
	out := []models.Order{}
	for _, o := range r.orders {
		if filters.TableID != nil && o.TableID != *filters.TableID {
			continue
		}
		if filters.Status != nil && string(o.Status) != *filters.Status {
			continue
		}
		o.OrderItems = r.itemsOf(o.ID)
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeOrderRepo) Update(_ context.Context, order *models.Order) error {
	o, ok := r.orders[order.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	o.Status = order.Status
	o.Notes = order.Notes
	r.orders[order.ID] = o
	return nil
}

func (r *fakeOrderRepo) UpdateItemStatus(_ context.Context, orderID, itemID int64, status models.OrderItemStatus) error {
	it, ok := r.items[itemID]
	if !ok || it.OrderID != orderID {
		return repositories.ErrNotFound
	}
	it.Status = status
	r.items[itemID] = it
	return nil
}

func (r *fakeOrderRepo) DeleteItemsByOrderID(_ context.Context, _ repositories.SQLExecutor, orderID int64) (int64, error) {
	var n int64
	for id, it := range r.items {
		if it.OrderID == orderID {
			delete(r.items, id)
			n++
		}
	}
	return n, nil
}

func (r *fakeOrderRepo) Delete(_ context.Context, _ repositories.SQLExecutor, id int64) error {
	if _, ok := r.orders[id]; !ok {
		return repositories.ErrNotFound
	}
	for _, it := range r.items {
		if it.OrderID == id {
			return repositories.ErrForeignKey
		}
	}
	delete(r.orders, id)
	return nil
}

// fakeTransactor rolls the order repository back when fn fails.
type fakeTransactor struct {
	orders    *fakeOrderRepo
	commits   int
	rollbacks int
}

func (t *fakeTransactor) WithinTransaction(_ context.Context, fn func(exec repositories.SQLExecutor) error) error {
	saved := t.orders.snapshot()
	if err := fn(nil); err != nil {
		t.orders.restore(saved)
		t.rollbacks++
		return err
	}
	t.commits++
	return nil
}

// --- images ---

type fakeImageStore struct {
	files   map[string][]byte
	deleted []string
	n       int
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{files: map[string][]byte{}}
}

func (s *fakeImageStore) Save(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", storage.ErrEmptyImage
	}
	if string(data) == "not an image" {
		return "", fmt.Errorf("%w: text/plain", storage.ErrUnsupportedImage)
	}
	s.n++
	name := fmt.Sprintf("img-%d.png", s.n)
	s.files[name] = data
	return name, nil
}

func (s *fakeImageStore) Delete(name string) error {
	if _, ok := s.files[name]; !ok {
		return errors.New("no such image")
	}
	delete(s.files, name)
	s.deleted = append(s.deleted, name)
	return nil
}
