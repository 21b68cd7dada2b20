package impl

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"storefront/config"
	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// The fakes below are in-memory repository implementations sharing one
// store, so multi-repository transactions observe each other's writes the
// same way transaction-bound GORM repositories would.

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Auth = &config.AuthConfig{
		BcryptCost:          4,
		RefreshTokenTTLDays: 7,
		DefaultPhoneRegion:  "US",
	}
	cfg.Orders = &config.OrdersConfig{CodePrefix: "ORD", CodeMaxAttempts: 3}

	return cfg
}

// fakeHasher uses a reversible marker digest so tests stay fast.
type fakeHasher struct{}

func (fakeHasher) Hash(plaintext string) (string, error) { return "digest:" + plaintext, nil }

func (fakeHasher) Check(plaintext, digest string) bool { return "digest:"+plaintext == digest }

// fakeTokenService signs transparent tokens carrying the user id.
type fakeTokenService struct{}

func (fakeTokenService) SignAccessToken(userID uuid.UUID, role entity.Role) (string, error) {
	return "access:" + userID.String() + ":" + role.String(), nil
}

func (fakeTokenService) ValidateAccessToken(tokenString string) (*service.AccessClaims, error) {
	parts := strings.Split(tokenString, ":")
	userID, err := uuid.Parse(parts[1])
	if err != nil {
		return nil, err
	}

	return &service.AccessClaims{UserID: userID, Role: entity.Role(parts[2])}, nil
}

func (fakeTokenService) AccessTokenTTL() time.Duration { return 15 * time.Minute }

// memStore is the shared backing state for all fake repositories.
type memStore struct {
	mu sync.Mutex

	users        map[uuid.UUID]*entity.User
	loginMethods map[uuid.UUID]*entity.LoginMethod
	sessions     map[uuid.UUID]*entity.Session
	products     map[uuid.UUID]*entity.Product
	categories   map[uuid.UUID]*entity.Category
	carts        map[uuid.UUID]*entity.Cart
	cartItems    map[uuid.UUID]*entity.CartItem
	orders       map[uuid.UUID]*entity.Order
	wishlist     map[uuid.UUID]*entity.WishlistItem
}

func newMemStore() *memStore {
	return &memStore{
		users:        make(map[uuid.UUID]*entity.User),
		loginMethods: make(map[uuid.UUID]*entity.LoginMethod),
		sessions:     make(map[uuid.UUID]*entity.Session),
		products:     make(map[uuid.UUID]*entity.Product),
		categories:   make(map[uuid.UUID]*entity.Category),
		carts:        make(map[uuid.UUID]*entity.Cart),
		cartItems:    make(map[uuid.UUID]*entity.CartItem),
		orders:       make(map[uuid.UUID]*entity.Order),
		wishlist:     make(map[uuid.UUID]*entity.WishlistItem),
	}
}

// snapshot deep-copies the store so Execute can roll back to it when the
// transaction body fails.
func (s *memStore) snapshot() *memStore {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := newMemStore()
	for id, user := range s.users {
		copied := *user
		copied.LoginMethods = append([]entity.LoginMethod(nil), user.LoginMethods...)
		out.users[id] = &copied
	}
	for id, method := range s.loginMethods {
		copied := *method
		out.loginMethods[id] = &copied
	}
	for id, session := range s.sessions {
		copied := *session
		out.sessions[id] = &copied
	}
	for id, product := range s.products {
		copied := *product
		copied.Images = append([]entity.ProductImage(nil), product.Images...)
		out.products[id] = &copied
	}
	for id, category := range s.categories {
		copied := *category
		copied.Children = append([]entity.Category(nil), category.Children...)
		out.categories[id] = &copied
	}
	for id, cart := range s.carts {
		copied := *cart
		copied.Items = append([]entity.CartItem(nil), cart.Items...)
		out.carts[id] = &copied
	}
	for id, item := range s.cartItems {
		copied := *item
		out.cartItems[id] = &copied
	}
	for id, order := range s.orders {
		copied := *order
		copied.Items = append([]entity.OrderItem(nil), order.Items...)
		out.orders[id] = &copied
	}
	for id, item := range s.wishlist {
		copied := *item
		out.wishlist[id] = &copied
	}

	return out
}

// restore swaps the live maps back to the snapshot's.
func (s *memStore) restore(snap *memStore) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = snap.users
	s.loginMethods = snap.loginMethods
	s.sessions = snap.sessions
	s.products = snap.products
	s.categories = snap.categories
	s.carts = snap.carts
	s.cartItems = snap.cartItems
	s.orders = snap.orders
	s.wishlist = snap.wishlist
}

// fakeFactory hands out repositories bound to the shared store. It doubles
// as the transaction manager: a failing body restores the pre-transaction
// snapshot, so all-or-nothing semantics hold in tests.
type fakeFactory struct {
	store *memStore
}

func newFakeFactory() *fakeFactory { return &fakeFactory{store: newMemStore()} }

func (f *fakeFactory) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	snap := f.store.snapshot()
	if err := fn(f); err != nil {
		f.store.restore(snap)

		return err
	}

	return nil
}

func (f *fakeFactory) UserRepo() repository.UserRepository { return &fakeUserRepo{f.store} }

func (f *fakeFactory) LoginMethodRepo() repository.LoginMethodRepository {
	return &fakeLoginMethodRepo{f.store}
}

func (f *fakeFactory) SessionRepo() repository.SessionRepository { return &fakeSessionRepo{f.store} }

func (f *fakeFactory) ProductRepo() repository.ProductRepository { return &fakeProductRepo{f.store} }

func (f *fakeFactory) CartRepo() repository.CartRepository { return &fakeCartRepo{f.store} }

func (f *fakeFactory) OrderRepo() repository.OrderRepository { return &fakeOrderRepo{f.store} }

func (f *fakeFactory) CategoryRepo() repository.CategoryRepository {
	return &fakeCategoryRepo{f.store}
}

func (f *fakeFactory) WishlistRepo() repository.WishlistRepository {
	return &fakeWishlistRepo{f.store}
}

// --- users ---

type fakeUserRepo struct{ store *memStore }

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user, ok := r.store.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return r.withMethods(user), nil
}

func (r *fakeUserRepo) withMethods(user *entity.User) *entity.User {
	out := *user
	out.LoginMethods = nil
	for _, method := range r.store.loginMethods {
		if method.UserID == user.ID {
			out.LoginMethods = append(out.LoginMethods, *method)
		}
	}

	return &out
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, user := range r.store.users {
		if user.Email == email && email != "" {
			return r.withMethods(user), nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) FindByPhone(_ context.Context, phone string) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, user := range r.store.users {
		if user.Phone == phone && phone != "" {
			return r.withMethods(user), nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) FindByLoginIdentifier(_ context.Context, identifier string) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if identifier == "" {
		return nil, repository.ErrUserNotFound
	}
	for _, user := range r.store.users {
		if user.Email == identifier || user.Phone == identifier {
			return r.withMethods(user), nil
		}
	}
	for _, method := range r.store.loginMethods {
		if method.ProviderUserID == identifier {
			if user, ok := r.store.users[method.UserID]; ok {
				return r.withMethods(user), nil
			}
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	copied := *user
	r.store.users[user.ID] = &copied

	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	copied := *user
	r.store.users[user.ID] = &copied

	return nil
}

// --- login methods ---

type fakeLoginMethodRepo struct{ store *memStore }

func (r *fakeLoginMethodRepo) Create(_ context.Context, method *entity.LoginMethod) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	copied := *method
	r.store.loginMethods[method.ID] = &copied

	return nil
}

func (r *fakeLoginMethodRepo) FindByProvider(_ context.Context, provider entity.Provider, providerUserID string) (*entity.LoginMethod, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, method := range r.store.loginMethods {
		if method.Provider == provider && method.ProviderUserID == providerUserID {
			copied := *method

			return &copied, nil
		}
	}

	return nil, repository.ErrLoginMethodNotFound
}

func (r *fakeLoginMethodRepo) ListByUserID(_ context.Context, userID uuid.UUID) ([]entity.LoginMethod, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []entity.LoginMethod
	for _, method := range r.store.loginMethods {
		if method.UserID == userID {
			out = append(out, *method)
		}
	}

	return out, nil
}

// --- sessions ---

type fakeSessionRepo struct{ store *memStore }

func (r *fakeSessionRepo) Create(_ context.Context, session *entity.Session) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	copied := *session
	r.store.sessions[session.ID] = &copied

	return nil
}

func (r *fakeSessionRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Session, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	session, ok := r.store.sessions[id]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	copied := *session

	return &copied, nil
}

func (r *fakeSessionRepo) ListActive(_ context.Context) ([]*entity.Session, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := time.Now()
	var out []*entity.Session
	for _, session := range r.store.sessions {
		if session.ExpiresAt.After(now) {
			copied := *session
			out = append(out, &copied)
		}
	}

	return out, nil
}

func (r *fakeSessionRepo) ListActiveByUserID(_ context.Context, userID uuid.UUID) ([]*entity.Session, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := time.Now()
	var out []*entity.Session
	for _, session := range r.store.sessions {
		if session.UserID == userID && session.ExpiresAt.After(now) {
			copied := *session
			out = append(out, &copied)
		}
	}

	return out, nil
}

func (r *fakeSessionRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.sessions[id]; !ok {
		return repository.ErrSessionNotFound
	}
	delete(r.store.sessions, id)

	return nil
}

func (r *fakeSessionRepo) DeleteByUserID(_ context.Context, userID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, session := range r.store.sessions {
		if session.UserID == userID {
			delete(r.store.sessions, id)
		}
	}

	return nil
}

func (r *fakeSessionRepo) DeleteExpired(_ context.Context) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := time.Now()
	for id, session := range r.store.sessions {
		if !session.ExpiresAt.After(now) {
			delete(r.store.sessions, id)
		}
	}

	return nil
}

// --- products ---

type fakeProductRepo struct{ store *memStore }

func (r *fakeProductRepo) Create(_ context.Context, product *entity.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.products {
		if existing.Slug == product.Slug {
			return repository.ErrSlugTaken
		}
	}
	copied := *product
	r.store.products[product.ID] = &copied

	return nil
}

func (r *fakeProductRepo) Update(_ context.Context, product *entity.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.products[product.ID]; !ok {
		return repository.ErrProductNotFound
	}
	copied := *product
	r.store.products[product.ID] = &copied

	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(r.store.products, id)

	return nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	product, ok := r.store.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	copied := *product

	return &copied, nil
}

func (r *fakeProductRepo) FindBySlug(_ context.Context, slug string) (*entity.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, product := range r.store.products {
		if product.Slug == slug {
			copied := *product

			return &copied, nil
		}
	}

	return nil, repository.ErrProductNotFound
}

func (r *fakeProductRepo) List(_ context.Context, query repository.ProductQuery) ([]*entity.Product, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var matched []*entity.Product
	for _, product := range r.store.products {
		if query.ActiveOnly && !product.IsActive {
			continue
		}
		if query.Search != "" && !strings.Contains(strings.ToLower(product.Name), strings.ToLower(query.Search)) {
			continue
		}
		if query.CategoryID != nil && (product.CategoryID == nil || *product.CategoryID != *query.CategoryID) {
			continue
		}
		if query.MinPrice != "" {
			if min, err := decimal.NewFromString(query.MinPrice); err == nil && product.Price.LessThan(min) {
				continue
			}
		}
		if query.MaxPrice != "" {
			if max, err := decimal.NewFromString(query.MaxPrice); err == nil && product.Price.GreaterThan(max) {
				continue
			}
		}
		copied := *product
		matched = append(matched, &copied)
	}

	switch query.Sort {
	case repository.ProductSortPriceAsc:
		sort.Slice(matched, func(i, j int) bool { return matched[i].Price.LessThan(matched[j].Price) })
	case repository.ProductSortPriceDesc:
		sort.Slice(matched, func(i, j int) bool { return matched[j].Price.LessThan(matched[i].Price) })
	case repository.ProductSortRating:
		sort.Slice(matched, func(i, j int) bool { return matched[i].Rating > matched[j].Rating })
	default:
		sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	}

	total := int64(len(matched))
	offset := (query.Page - 1) * query.PageSize
	if offset < 0 {
		offset = 0
	}
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + query.PageSize
	if query.PageSize <= 0 || end > len(matched) {
		end = len(matched)
	}

	return matched[offset:end], total, nil
}

func (r *fakeProductRepo) DecrementStock(_ context.Context, id uuid.UUID, qty int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	product, ok := r.store.products[id]
	if !ok {
		return repository.ErrProductNotFound
	}
	if product.Stock < qty {
		return repository.ErrInsufficientStock
	}
	product.Stock -= qty

	return nil
}

func (r *fakeProductRepo) SetStock(_ context.Context, id uuid.UUID, stock int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if stock < 0 {
		return repository.ErrNegativeStock
	}
	product, ok := r.store.products[id]
	if !ok {
		return repository.ErrProductNotFound
	}
	product.Stock = stock

	return nil
}

func (r *fakeProductRepo) AddImage(_ context.Context, image *entity.ProductImage) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	product, ok := r.store.products[image.ProductID]
	if !ok {
		return repository.ErrProductNotFound
	}
	product.Images = append(product.Images, *image)

	return nil
}

func (r *fakeProductRepo) DeleteImage(_ context.Context, productID, imageID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	product, ok := r.store.products[productID]
	if !ok {
		return repository.ErrProductNotFound
	}
	for i := range product.Images {
		if product.Images[i].ID == imageID {
			product.Images = append(product.Images[:i], product.Images[i+1:]...)

			return nil
		}
	}

	return nil
}

// --- categories ---

type fakeCategoryRepo struct{ store *memStore }

func (r *fakeCategoryRepo) Create(_ context.Context, category *entity.Category) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	copied := *category
	r.store.categories[category.ID] = &copied

	return nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, category *entity.Category) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.categories[category.ID]; !ok {
		return repository.ErrCategoryNotFound
	}
	copied := *category
	r.store.categories[category.ID] = &copied

	return nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.categories[id]; !ok {
		return repository.ErrCategoryNotFound
	}
	delete(r.store.categories, id)

	return nil
}

func (r *fakeCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Category, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	category, ok := r.store.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	copied := *category

	return &copied, nil
}

func (r *fakeCategoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*entity.Category
	for _, category := range r.store.categories {
		copied := *category
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out, nil
}

// --- carts ---

type fakeCartRepo struct{ store *memStore }

func (r *fakeCartRepo) FindOpenByUserID(_ context.Context, userID uuid.UUID) (*entity.Cart, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, cart := range r.store.carts {
		if cart.UserID == userID && cart.Status == entity.CartStatusOpen {
			return r.withItems(cart), nil
		}
	}

	return nil, repository.ErrCartNotFound
}

func (r *fakeCartRepo) withItems(cart *entity.Cart) *entity.Cart {
	out := *cart
	out.Items = r.itemsOf(cart.ID)

	return &out
}

func (r *fakeCartRepo) itemsOf(cartID uuid.UUID) []entity.CartItem {
	var items []entity.CartItem
	for _, item := range r.store.cartItems {
		if item.CartID == cartID {
			line := *item
			if product, ok := r.store.products[item.ProductID]; ok {
				copied := *product
				line.Product = &copied
			}
			items = append(items, line)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })

	return items
}

func (r *fakeCartRepo) Create(_ context.Context, cart *entity.Cart) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.carts {
		if existing.UserID == cart.UserID && existing.Status == entity.CartStatusOpen {
			return repository.ErrOpenCartExists
		}
	}
	copied := *cart
	r.store.carts[cart.ID] = &copied

	return nil
}

func (r *fakeCartRepo) UpsertItem(_ context.Context, item *entity.CartItem) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.cartItems {
		if existing.CartID == item.CartID && existing.ProductID == item.ProductID {
			existing.Qty += item.Qty

			return nil
		}
	}
	copied := *item
	copied.CreatedAt = time.Now()
	r.store.cartItems[item.ID] = &copied

	return nil
}

func (r *fakeCartRepo) SetItemQty(_ context.Context, cartID, productID uuid.UUID, qty int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.cartItems {
		if existing.CartID == cartID && existing.ProductID == productID {
			existing.Qty = qty

			return nil
		}
	}

	return repository.ErrCartItemNotFound
}

func (r *fakeCartRepo) DeleteItem(_ context.Context, cartID, productID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, existing := range r.store.cartItems {
		if existing.CartID == cartID && existing.ProductID == productID {
			delete(r.store.cartItems, id)

			return nil
		}
	}

	return nil
}

func (r *fakeCartRepo) DeleteItems(_ context.Context, cartID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, existing := range r.store.cartItems {
		if existing.CartID == cartID {
			delete(r.store.cartItems, id)
		}
	}

	return nil
}

func (r *fakeCartRepo) ListItems(_ context.Context, cartID uuid.UUID) ([]entity.CartItem, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.itemsOf(cartID), nil
}

func (r *fakeCartRepo) UpdateTotals(_ context.Context, cartID uuid.UUID, totals repository.CartTotals) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	cart, ok := r.store.carts[cartID]
	if !ok {
		return repository.ErrCartNotFound
	}
	cart.Subtotal = totals.Subtotal
	cart.Discount = totals.Discount
	cart.DeliveryFee = totals.DeliveryFee
	cart.Total = totals.Total

	return nil
}

func (r *fakeCartRepo) MarkCheckedOut(_ context.Context, cartID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	cart, ok := r.store.carts[cartID]
	if !ok || cart.Status != entity.CartStatusOpen {
		return repository.ErrCartNotOpen
	}
	cart.Status = entity.CartStatusCheckedOut

	return nil
}

// --- orders ---

type fakeOrderRepo struct{ store *memStore }

func (r *fakeOrderRepo) Create(_ context.Context, order *entity.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.orders {
		if existing.Code == order.Code {
			return repository.ErrOrderCodeTaken
		}
	}
	copied := *order
	copied.Items = append([]entity.OrderItem(nil), order.Items...)
	r.store.orders[order.ID] = &copied

	return nil
}

func (r *fakeOrderRepo) ListByUserID(_ context.Context, userID uuid.UUID, offset, limit int) ([]*entity.Order, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var matched []*entity.Order
	for _, order := range r.store.orders {
		if order.UserID == userID {
			copied := *order
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(matched) {
		end = len(matched)
	}

	return matched[offset:end], total, nil
}

func (r *fakeOrderRepo) FindByIDForUser(_ context.Context, id, userID uuid.UUID) (*entity.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	order, ok := r.store.orders[id]
	if !ok || order.UserID != userID {
		return nil, repository.ErrOrderNotFound
	}
	copied := *order

	return &copied, nil
}

// --- wishlist ---

type fakeWishlistRepo struct{ store *memStore }

func (r *fakeWishlistRepo) ListByUserID(_ context.Context, userID uuid.UUID) ([]*entity.WishlistItem, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*entity.WishlistItem
	for _, item := range r.store.wishlist {
		if item.UserID == userID {
			copied := *item
			if product, ok := r.store.products[item.ProductID]; ok {
				productCopy := *product
				copied.Product = &productCopy
			}
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	return out, nil
}

func (r *fakeWishlistRepo) Find(_ context.Context, userID, productID uuid.UUID) (*entity.WishlistItem, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, item := range r.store.wishlist {
		if item.UserID == userID && item.ProductID == productID {
			copied := *item

			return &copied, nil
		}
	}

	return nil, repository.ErrWishlistItemNotFound
}

func (r *fakeWishlistRepo) Create(_ context.Context, item *entity.WishlistItem) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	copied := *item
	copied.CreatedAt = time.Now()
	r.store.wishlist[item.ID] = &copied

	return nil
}

func (r *fakeWishlistRepo) Delete(_ context.Context, userID, productID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, item := range r.store.wishlist {
		if item.UserID == userID && item.ProductID == productID {
			delete(r.store.wishlist, id)

			return nil
		}
	}

	return repository.ErrWishlistItemNotFound
}
