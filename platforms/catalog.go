package platforms

import (
	"errors"
	"slices"
	"time"
)

var ErrPlatformNotFound = errors.New("platform not found")

// List is a filtered, priority ordered view of the catalog
type List struct {
	Platforms   []Platform `json:"platforms"`
	TotalCount  int        `json:"totalCount"`
	LastUpdated time.Time  `json:"lastUpdated"`
}

// Catalog is a read-only set of platforms. It is safe for concurrent use.
type Catalog struct {
	platforms []Platform
	nowTime   func() time.Time
}

// CatalogOption defines a function type to modify the Catalog instance.
type CatalogOption func(*Catalog)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) CatalogOption {
	return func(c *Catalog) {
		c.nowTime = nowFunc
	}
}

// NewCatalog creates a catalog over platforms, ordered by priority
func NewCatalog(platforms []Platform, options ...CatalogOption) *Catalog {
	c := &Catalog{
		platforms: make([]Platform, 0, len(platforms)),
		nowTime:   time.Now,
	}
	for _, p := range platforms {
		c.platforms = append(c.platforms, p.clone())
	}
	slices.SortStableFunc(c.platforms, func(a, b Platform) int {
		return a.Priority - b.Priority
	})
	for _, opt := range options {
		opt(c)
	}
	return c
}

// NewDefaultCatalog creates the catalog of supported platforms
func NewDefaultCatalog(options ...CatalogOption) *Catalog {
	return NewCatalog(DefaultPlatforms(), options...)
}

// All returns every platform
func (c *Catalog) All() List {
	return c.list(func(Platform) bool { return true })
}

// Enabled returns the platforms users can sign in with today
func (c *Catalog) Enabled() List {
	return c.list(func(p Platform) bool { return p.IsEnabled })
}

// Available returns enabled platforms and the ones announced as coming soon
func (c *Catalog) Available() List {
	return c.list(func(p Platform) bool { return p.IsEnabled || p.ComingSoon })
}

// ByID looks a platform up by its id
func (c *Catalog) ByID(id string) (Platform, error) {
	for _, p := range c.platforms {
		if p.ID == id {
			return p.clone(), nil
		}
	}
	return Platform{}, ErrPlatformNotFound
}

func (c *Catalog) list(keep func(Platform) bool) List {
	out := make([]Platform, 0, len(c.platforms))
	for _, p := range c.platforms {
		if keep(p) {
			out = append(out, p.clone())
		}
	}
	return List{
		Platforms:   out,
		TotalCount:  len(out),
		LastUpdated: c.nowTime().UTC(),
	}
}
