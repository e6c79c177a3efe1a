package options

import (
	"context"
	"log/slog"
	"time"

	"github.com/ravi-parthasarathy/retune/pkg/fields"
)

const (
	// DefaultTTL bounds how long resolved option lists and schemas stay fresh.
	DefaultTTL = 5 * time.Minute

	defaultResolveTimeout = 10 * time.Second
)

// CatalogLister lists the file names of one catalog ("checkpoints", "loras",
// "vae", "input", …). May return empty.
type CatalogLister interface {
	List(ctx context.Context, catalog string) ([]string, error)
}

// SchemaSource returns the published field metadata for one declared node
// type. May be unavailable; callers treat failure as absence.
type SchemaSource interface {
	NodeSchema(ctx context.Context, declaredType string) (map[string]fields.SchemaField, error)
}

// Provider resolves option lists for dropdown-shaped fields. Static shapes
// answer immediately; remote shapes go through the schema source, then the
// catalog listing, behind a TTL cache. Every failure path degrades to an
// empty list so the field can fall back to free-text entry.
type Provider struct {
	cache    *Cache
	catalogs CatalogLister
	schema   SchemaSource
	timeout  time.Duration
}

// NewProvider wires a provider. Either source may be nil.
func NewProvider(cache *Cache, catalogs CatalogLister, schema SchemaSource) *Provider {
	if cache == nil {
		cache = NewCache(DefaultTTL, nil)
	}
	return &Provider{cache: cache, catalogs: catalogs, schema: schema, timeout: defaultResolveTimeout}
}

// SetResolveTimeout overrides how long one resolution attempt may take.
func (p *Provider) SetResolveTimeout(d time.Duration) { p.timeout = d }

// Options returns the choices for one classified field. Never errors and
// never blocks past the resolution timeout.
func (p *Provider) Options(ctx context.Context, f fields.Field) []string {
	if f.Shape.Kind == fields.ShapeStaticDropdown {
		return f.Shape.Options
	}
	if f.Shape.Kind != fields.ShapeRemoteDropdown {
		return nil
	}

	key := f.DeclaredType + "/" + f.Name + "/" + f.Shape.Catalog
	if opts, ok := p.cache.Get(key); ok {
		return opts
	}

	rctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	opts := p.resolve(rctx, f)
	p.cache.Put(key, opts)
	return opts
}

// Invalidate drops the cached options for one field.
func (p *Provider) Invalidate(f fields.Field) {
	p.cache.Expire(f.DeclaredType + "/" + f.Name + "/" + f.Shape.Catalog)
}

func (p *Provider) resolve(ctx context.Context, f fields.Field) []string {
	// Published enumeration first: the engine's own schema knows exactly
	// which values a node accepts.
	if p.schema != nil {
		meta, err := p.schema.NodeSchema(ctx, f.DeclaredType)
		if err != nil {
			slog.Debug("schema lookup failed, trying catalog", "type", f.DeclaredType, "error", err)
		} else if m, ok := meta[f.Name]; ok && len(m.Options) > 0 {
			return m.Options
		}
	}

	if p.catalogs != nil && f.Shape.Catalog != "" {
		names, err := p.catalogs.List(ctx, f.Shape.Catalog)
		if err != nil {
			slog.Warn("catalog listing failed, field degrades to free text",
				"catalog", f.Shape.Catalog, "error", err)
			return nil
		}
		return names
	}
	return nil
}
