package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"bricks-api/internal/cache"
	"bricks-api/internal/domain"
)

type mockPropertyRepo struct {
	properties  map[string]domain.Property
	searchCalls int
	getCalls    int
}

func newMockPropertyRepo() *mockPropertyRepo {
	return &mockPropertyRepo{properties: make(map[string]domain.Property)}
}

func (m *mockPropertyRepo) Create(_ context.Context, property domain.Property) error {
	m.properties[property.ID] = property
	return nil
}

func (m *mockPropertyRepo) GetByID(_ context.Context, id string) (domain.Property, error) {
	m.getCalls++
	property, ok := m.properties[id]
	if !ok {
		return domain.Property{}, pgx.ErrNoRows
	}
	return property, nil
}

func (m *mockPropertyRepo) Search(_ context.Context, filter domain.PropertyFilter) (domain.PropertyPage, error) {
	m.searchCalls++
	items := make([]domain.Property, 0, len(m.properties))
	for _, property := range m.properties {
		items = append(items, property)
	}
	return domain.PropertyPage{
		Items:  items,
		Total:  len(items),
		Offset: filter.Offset,
		Limit:  filter.Limit,
	}, nil
}

type mockCategoryRepo struct {
	bySlug map[string]domain.Category
}

func newMockCategoryRepo() *mockCategoryRepo {
	return &mockCategoryRepo{bySlug: make(map[string]domain.Category)}
}

func (m *mockCategoryRepo) Create(_ context.Context, category domain.Category) error {
	m.bySlug[category.Slug] = category
	return nil
}

func (m *mockCategoryRepo) GetBySlug(_ context.Context, slug string) (domain.Category, error) {
	category, ok := m.bySlug[slug]
	if !ok {
		return domain.Category{}, pgx.ErrNoRows
	}
	return category, nil
}

func (m *mockCategoryRepo) List(_ context.Context) ([]domain.Category, error) {
	out := make([]domain.Category, 0, len(m.bySlug))
	for _, category := range m.bySlug {
		out = append(out, category)
	}
	return out, nil
}

type mockAddressRepo struct {
	addresses []domain.Address
}

func (m *mockAddressRepo) Create(_ context.Context, address domain.Address) error {
	m.addresses = append(m.addresses, address)
	return nil
}

func (m *mockAddressRepo) Find(_ context.Context, street, city, state string, zip int) (domain.Address, error) {
	for _, address := range m.addresses {
		if address.Street == street && address.City == city && address.State == state && address.Zip == zip {
			return address, nil
		}
	}
	return domain.Address{}, pgx.ErrNoRows
}

type propertyFixture struct {
	svc        *PropertyService
	properties *mockPropertyRepo
	categories *mockCategoryRepo
	addresses  *mockAddressRepo
}

func newPropertyFixture(t *testing.T) *propertyFixture {
	t.Helper()
	srv, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(srv.Close)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	properties := newMockPropertyRepo()
	categories := newMockCategoryRepo()
	addresses := &mockAddressRepo{}
	svc := NewPropertyService(zap.NewNop(), properties, categories, addresses,
		cache.New(client, zap.NewNop()), nil)
	return &propertyFixture{svc: svc, properties: properties, categories: categories, addresses: addresses}
}

func testCreateInput() CreatePropertyInput {
	return CreatePropertyInput{
		Title:    "Casa en el centro",
		Price:    120000,
		Size:     84.5,
		Category: "Casa Quinta",
		Address:  domain.Address{Street: "Av. Siempreviva 742", City: "Springfield", State: "BA", Zip: 1406},
	}
}

func TestPropertyService_CreateResolvesCategoryAndAddress(t *testing.T) {
	f := newPropertyFixture(t)
	ctx := context.Background()

	property, err := f.svc.CreateProperty(ctx, testCreateInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if property.Category == nil || property.Category.Slug != "casa-quinta" {
		t.Fatalf("category not resolved: %+v", property.Category)
	}
	if property.Address == nil || property.Address.ID == "" {
		t.Fatalf("address not resolved: %+v", property.Address)
	}

	// La misma categoria y direccion se reutilizan en la segunda alta.
	second, err := f.svc.CreateProperty(ctx, testCreateInput())
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if second.CategoryID != property.CategoryID {
		t.Fatalf("category duplicated")
	}
	if second.AddressID != property.AddressID {
		t.Fatalf("address duplicated")
	}
	if len(f.addresses.addresses) != 1 || len(f.categories.bySlug) != 1 {
		t.Fatalf("expected one address and one category")
	}
}

func TestPropertyService_SearchIsCached(t *testing.T) {
	f := newPropertyFixture(t)
	ctx := context.Background()

	if _, err := f.svc.CreateProperty(ctx, testCreateInput()); err != nil {
		t.Fatalf("create: %v", err)
	}

	filter := domain.PropertyFilter{Limit: 10}
	for i := 0; i < 3; i++ {
		page, err := f.svc.SearchProperties(ctx, filter)
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if page.Total != 1 {
			t.Fatalf("expected one property, got %d", page.Total)
		}
	}
	if f.properties.searchCalls != 1 {
		t.Fatalf("repeated search must hit the cache, got %d repo calls", f.properties.searchCalls)
	}

	// Filtros distintos usan claves distintas.
	sold := true
	if _, err := f.svc.SearchProperties(ctx, domain.PropertyFilter{Limit: 10, Sold: &sold}); err != nil {
		t.Fatalf("filtered search: %v", err)
	}
	if f.properties.searchCalls != 2 {
		t.Fatalf("different filter must miss the cache, got %d repo calls", f.properties.searchCalls)
	}
}

func TestPropertyService_CreateInvalidatesSearchCache(t *testing.T) {
	f := newPropertyFixture(t)
	ctx := context.Background()

	filter := domain.PropertyFilter{Limit: 10}
	if _, err := f.svc.SearchProperties(ctx, filter); err != nil {
		t.Fatalf("search: %v", err)
	}

	if _, err := f.svc.CreateProperty(ctx, testCreateInput()); err != nil {
		t.Fatalf("create: %v", err)
	}

	page, err := f.svc.SearchProperties(ctx, filter)
	if err != nil {
		t.Fatalf("search after create: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("search after create must see the new property, got %d", page.Total)
	}
	if f.properties.searchCalls != 2 {
		t.Fatalf("expected a cache miss after invalidation, got %d repo calls", f.properties.searchCalls)
	}
}

func TestPropertyService_GetPropertyNotFound(t *testing.T) {
	f := newPropertyFixture(t)
	if _, err := f.svc.GetProperty(context.Background(), "missing"); !errors.Is(err, ErrPropertyNotFound) {
		t.Fatalf("expected ErrPropertyNotFound, got %v", err)
	}
}

func TestPropertyService_GetPropertyIsCached(t *testing.T) {
	f := newPropertyFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateProperty(ctx, testCreateInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for i := 0; i < 3; i++ {
		got, err := f.svc.GetProperty(ctx, created.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.ID != created.ID {
			t.Fatalf("unexpected property: %+v", got)
		}
	}
	if f.properties.getCalls != 1 {
		t.Fatalf("repeated get must hit the cache, got %d repo calls", f.properties.getCalls)
	}
}

func TestPropertyService_WorksWithoutCache(t *testing.T) {
	properties := newMockPropertyRepo()
	svc := NewPropertyService(zap.NewNop(), properties, newMockCategoryRepo(), &mockAddressRepo{}, nil, nil)
	ctx := context.Background()

	if _, err := svc.CreateProperty(ctx, testCreateInput()); err != nil {
		t.Fatalf("create without cache: %v", err)
	}
	if _, err := svc.SearchProperties(ctx, domain.PropertyFilter{}); err != nil {
		t.Fatalf("search without cache: %v", err)
	}
	if _, err := svc.SearchProperties(ctx, domain.PropertyFilter{}); err != nil {
		t.Fatalf("second search without cache: %v", err)
	}
	if properties.searchCalls != 2 {
		t.Fatalf("disabled cache must always hit the repo, got %d calls", properties.searchCalls)
	}
}
