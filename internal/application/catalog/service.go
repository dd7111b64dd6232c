// Package catalog serves product browsing on top of the catalog gateway:
// category filter, title search and fixed-size pages.
package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/Igorseven/Ecommerce-Web/internal/domain/cart"
	"github.com/Igorseven/Ecommerce-Web/internal/domain/shared"
	"github.com/Igorseven/Ecommerce-Web/internal/domain/shared/valueobject"
	"github.com/Igorseven/Ecommerce-Web/internal/infrastructure/telemetry"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Service handles catalog browsing
type Service struct {
	gateway  CatalogGateway
	pageSize int
}

// NewService creates a new Service. pageSize <= 0 uses DefaultPageSize.
func NewService(gateway CatalogGateway, pageSize int) *Service {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Service{
		gateway:  gateway,
		pageSize: pageSize,
	}
}

// Browse returns one page of products, optionally limited to a category and
// to titles containing the search text (case-insensitive). Pages below 1
// clamp to 1 and pages past the end clamp to the last page.
func (s *Service) Browse(ctx context.Context, q Query) (*ProductPage, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "browse",
		telemetry.WithAttribute(telemetry.SpanAttrCategory, q.Category),
		telemetry.WithAttribute(telemetry.SpanAttrPage, q.Page),
	)
	defer span.End()

	var (
		products []cart.Product
		err      error
	)
	if category := strings.TrimSpace(q.Category); category != "" {
		products, err = s.gateway.ListProductsByCategory(ctx, category)
	} else {
		products, err = s.gateway.ListProducts(ctx)
	}
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, mapGatewayError(err)
	}

	page := s.paginate(filterByTitle(products, q.Search), q.Page)
	telemetry.SetOK(span)
	return &page, nil
}

// Categories lists the catalog categories with display titles
func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	slugs, err := s.gateway.ListCategories(ctx)
	if err != nil {
		return nil, mapGatewayError(err)
	}

	// a Caser is stateful and cannot be shared between requests
	titler := cases.Title(language.English)
	categories := make([]Category, 0, len(slugs))
	for _, slug := range slugs {
		categories = append(categories, Category{
			Slug:  slug,
			Title: titler.String(slug),
		})
	}
	return categories, nil
}

// Product returns a single product
func (s *Service) Product(ctx context.Context, id valueobject.ExternalID) (*cart.Product, error) {
	if id.IsZero() {
		return nil, cart.ErrProductIDRequired
	}
	product, err := s.gateway.GetProduct(ctx, id)
	if err != nil {
		return nil, mapGatewayError(err)
	}
	return product, nil
}

// Overview fetches the first product page and the categories concurrently
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	var (
		page       *ProductPage
		categories []Category
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		page, err = s.Browse(ctx, Query{Page: 1})
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.Categories(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Overview{Page: *page, Categories: categories}, nil
}

func (s *Service) paginate(products []cart.Product, page int) ProductPage {
	total := len(products)
	totalPages := (total + s.pageSize - 1) / s.pageSize

	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}

	start := (page - 1) * s.pageSize
	end := start + s.pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	items := make([]cart.Product, end-start)
	copy(items, products[start:end])

	return ProductPage{
		Products:   items,
		Page:       page,
		PageSize:   s.pageSize,
		TotalPages: totalPages,
		Total:      total,
	}
}

func filterByTitle(products []cart.Product, search string) []cart.Product {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return products
	}
	filtered := make([]cart.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Title), needle) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func mapGatewayError(err error) error {
	if errors.Is(err, ErrProductNotFound) {
		return shared.NewNotFoundError("product not found").WithCause(err)
	}
	return shared.NewLookupError("the catalog is unavailable, please try again", err)
}
