package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"bricks-api/internal/cache"
	"bricks-api/internal/domain"
	"bricks-api/internal/repository"
)

// propertyCacheFamily agrupa todas las variantes cacheadas de
// propiedades; una escritura invalida la familia completa.
const propertyCacheFamily = "property"

const propertyCacheTTL = 2 * time.Minute

// PropertyService resuelve lecturas de propiedades a traves del cache y
// escrituras con invalidacion por familia.
type PropertyService struct {
	logger     *zap.Logger
	properties repository.PropertyRepository
	categories repository.CategoryRepository
	addresses  repository.AddressRepository
	cache      *cache.Cache
	clock      Clock
}

func NewPropertyService(
	logger *zap.Logger,
	properties repository.PropertyRepository,
	categories repository.CategoryRepository,
	addresses repository.AddressRepository,
	c *cache.Cache,
	clock Clock,
) *PropertyService {
	if clock == nil {
		clock = SystemClock()
	}
	return &PropertyService{
		logger:     logger,
		properties: properties,
		categories: categories,
		addresses:  addresses,
		cache:      c,
		clock:      clock,
	}
}

type CreatePropertyInput struct {
	Title       string
	Description string
	Price       float64
	Size        float64
	Sold        bool
	Category    string
	Address     domain.Address
}

// CreateProperty resuelve direccion y categoria (get-or-create), inserta
// la propiedad e invalida la familia de cache. Un mismatch de
// invalidacion se devuelve junto con la propiedad ya creada: la escritura
// no se revierte.
func (s *PropertyService) CreateProperty(ctx context.Context, input CreatePropertyInput) (domain.Property, error) {
	address, err := s.getOrCreateAddress(ctx, input.Address)
	if err != nil {
		return domain.Property{}, err
	}
	category, err := s.getOrCreateCategory(ctx, input.Category)
	if err != nil {
		return domain.Property{}, err
	}

	now := s.clock.Now()
	property := domain.Property{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Size:        input.Size,
		Sold:        input.Sold,
		CategoryID:  category.ID,
		AddressID:   address.ID,
		Category:    &category,
		Address:     &address,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.properties.Create(ctx, property); err != nil {
		return domain.Property{}, err
	}

	if err := s.cache.InvalidatePattern(ctx, propertyCacheFamily+":*"); err != nil {
		s.logger.Warn("property cache invalidation failed", zap.Error(err))
		if errors.Is(err, cache.ErrInvalidationMismatch) {
			return property, err
		}
	}
	return property, nil
}

// GetProperty devuelve una propiedad por id, cacheada.
func (s *PropertyService) GetProperty(ctx context.Context, id string) (domain.Property, error) {
	key := cache.Key(propertyCacheFamily, "id", id)
	return cache.GetOrCompute(ctx, s.cache, key, propertyCacheTTL, func(ctx context.Context) (domain.Property, error) {
		property, err := s.properties.GetByID(ctx, id)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Property{}, ErrPropertyNotFound
		}
		return property, err
	})
}

// SearchProperties devuelve una pagina de propiedades, cacheada bajo una
// clave que incluye todos los parametros que afectan el resultado.
func (s *PropertyService) SearchProperties(ctx context.Context, filter domain.PropertyFilter) (domain.PropertyPage, error) {
	if filter.Limit <= 0 {
		filter.Limit = 10
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	key := searchCacheKey(filter)
	return cache.GetOrCompute(ctx, s.cache, key, propertyCacheTTL, func(ctx context.Context) (domain.PropertyPage, error) {
		return s.properties.Search(ctx, filter)
	})
}

// ListCategories devuelve las categorias, cacheadas bajo la misma familia
// de propiedades porque crear una propiedad puede crear una categoria.
func (s *PropertyService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	key := cache.Key(propertyCacheFamily, "categories")
	return cache.GetOrCompute(ctx, s.cache, key, propertyCacheTTL, func(ctx context.Context) ([]domain.Category, error) {
		return s.categories.List(ctx)
	})
}

func searchCacheKey(filter domain.PropertyFilter) string {
	sold := "any"
	if filter.Sold != nil {
		sold = strconv.FormatBool(*filter.Sold)
	}
	return cache.Key(propertyCacheFamily, "list",
		strconv.Itoa(filter.Offset),
		strconv.Itoa(filter.Limit),
		strings.Join(filter.Categories, ","),
		sold,
	)
}

func (s *PropertyService) getOrCreateAddress(ctx context.Context, input domain.Address) (domain.Address, error) {
	address, err := s.addresses.Find(ctx, input.Street, input.City, input.State, input.Zip)
	if err == nil {
		return address, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Address{}, err
	}

	input.ID = uuid.NewString()
	input.CreatedAt = s.clock.Now()
	if err := s.addresses.Create(ctx, input); err != nil {
		return domain.Address{}, err
	}
	return input, nil
}

func (s *PropertyService) getOrCreateCategory(ctx context.Context, name string) (domain.Category, error) {
	slug := slugify(name)
	category, err := s.categories.GetBySlug(ctx, slug)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Category{}, err
	}

	category = domain.Category{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Slug:      slug,
		CreatedAt: s.clock.Now(),
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return domain.Category{}, err
	}
	return category, nil
}
