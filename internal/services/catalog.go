package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fleetplus/internal/core"
)

// ProductCatalog is the slice of the repository the resolver needs.
type ProductCatalog interface {
	GetProduct(ctx context.Context, id int64) (core.Product, error)
	GetComponentType(ctx context.Context, id int64) (core.ComponentType, error)
}

// CatalogResolver resolves a product identifier to its lifespan attributes.
// Pure lookup, no side effects.
type CatalogResolver struct {
	catalog ProductCatalog
}

func NewCatalogResolver(catalog ProductCatalog) *CatalogResolver {
	return &CatalogResolver{catalog: catalog}
}

// ResolveLifespan returns the distance and time life of a product, each
// present or absent independently, plus the display label report rows use.
// Returns core.ErrNotFound when the product no longer exists; callers treat
// that as "lifespan unknown", not as a fatal condition.
func (r *CatalogResolver) ResolveLifespan(ctx context.Context, productID int64) (core.Lifespan, error) {
	product, err := r.catalog.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.Lifespan{}, core.ErrNotFound
		}
		return core.Lifespan{}, fmt.Errorf("get product %d: %w", productID, err)
	}

	typeName := ""
	if ct, err := r.catalog.GetComponentType(ctx, product.ComponentTypeID); err == nil {
		typeName = ct.Name
	}

	return core.Lifespan{
		DistanceKm: product.DistanceLifeKm,
		TimeMonths: product.TimeLifeMonths,
		Label:      productLabel(typeName, product),
	}, nil
}

// productLabel renders "component type - make model (subtype)", omitting the
// pieces that are empty.
func productLabel(typeName string, p core.Product) string {
	name := strings.TrimSpace(strings.TrimSpace(p.Make) + " " + strings.TrimSpace(p.Model))
	if name == "" {
		name = "product"
	}
	label := name
	if typeName != "" {
		label = typeName + " - " + name
	}
	if sub := strings.TrimSpace(p.SubType); sub != "" {
		label += " (" + sub + ")"
	}
	return label
}
