package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"

	"game-recommendation-service/internal/domain"
	"game-recommendation-service/internal/metrics"
)

var (
	// ErrNoCatalogs is returned when discovery runs without any catalog provider.
	ErrNoCatalogs = errors.New("no catalog provider configured")
	// ErrCatalogsUnavailable is returned when every catalog provider failed.
	ErrCatalogsUnavailable = errors.New("all catalog providers failed")
)

const discoveryCachePrefix = "discover:"

// DiscoveryConfig holds discovery settings.
type DiscoveryConfig struct {
	PageSize int           // candidates requested per catalog
	Timeout  time.Duration // bound on the whole fan-out
	CacheTTL time.Duration
}

// DiscoveryService scores catalog games against a preference bag.
type DiscoveryService struct {
	catalogs []domain.CatalogProvider
	cache    domain.Cache // nil disables caching
	cfg      DiscoveryConfig
	metrics  *metrics.Recorder
	logger   *zap.Logger
	now      func() time.Time
}

// NewDiscoveryService creates a new DiscoveryService. Catalogs are listed in
// priority order: when two return the same game, the earlier one wins.
func NewDiscoveryService(
	catalogs []domain.CatalogProvider,
	cache domain.Cache,
	cfg DiscoveryConfig,
	rec *metrics.Recorder,
	logger *zap.Logger,
) *DiscoveryService {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 40
	}
	return &DiscoveryService{
		catalogs: catalogs,
		cache:    cache,
		cfg:      cfg,
		metrics:  rec,
		logger:   logger,
		now:      time.Now,
	}
}

// Discover queries every catalog concurrently and ranks the merged candidates.
// A failing catalog only shrinks the candidate pool; the call fails when all
// of them fail.
func (s *DiscoveryService) Discover(ctx context.Context, req domain.DiscoverRequest) (*domain.DiscoveryResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if len(s.catalogs) == 0 {
		return nil, ErrNoCatalogs
	}
	start := time.Now()

	query := req.Query(s.cfg.PageSize)
	items, err := s.candidates(ctx, query)
	if err != nil {
		return nil, err
	}

	result, err := domain.RankDiscovery(items, req, s.now().UTC())
	if err != nil {
		return nil, err
	}

	logSkipped(s.logger, "discovery", result.Skipped)
	s.metrics.ObserveRanking("discovery", "", len(result.Items), len(result.Skipped), time.Since(start))

	return result, nil
}

// candidates returns the merged catalog page for query, from cache when possible.
func (s *DiscoveryService) candidates(ctx context.Context, query domain.CatalogQuery) ([]*domain.CatalogItem, error) {
	key := discoveryCachePrefix + query.CacheKey()

	if items, ok := s.fromCache(ctx, key); ok {
		return items, nil
	}

	items, complete, err := s.fetchAll(ctx, query)
	if err != nil {
		return nil, err
	}

	// Partial pages are served but never cached.
	if complete {
		s.toCache(ctx, key, items)
	}

	return items, nil
}

func (s *DiscoveryService) fetchAll(ctx context.Context, query domain.CatalogQuery) ([]*domain.CatalogItem, bool, error) {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	pages := make([][]*domain.CatalogItem, len(s.catalogs))
	errs := make([]error, len(s.catalogs))

	var g errgroup.Group
	for i, catalog := range s.catalogs {
		g.Go(func() error {
			items, err := catalog.Search(ctx, query)
			s.metrics.ProviderCall(catalog.Name(), err)
			if err != nil {
				s.logger.Warn("catalog search failed",
					zap.String("provider", catalog.Name()),
					zap.Error(err),
				)
				errs[i] = fmt.Errorf("%s: %w", catalog.Name(), err)
				return nil
			}
			pages[i] = items
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}
	if failed == len(s.catalogs) {
		return nil, false, fmt.Errorf("%w: %w", ErrCatalogsUnavailable, errors.Join(errs...))
	}

	merged := mergeCatalogPages(pages)

	s.logger.Debug("catalog candidates fetched",
		zap.Int("catalogs", len(s.catalogs)),
		zap.Int("failed", failed),
		zap.Int("candidates", len(merged)),
	)

	return merged, failed == 0, nil
}

// mergeCatalogPages concatenates pages in priority order, dropping games whose
// normalized name was already seen.
func mergeCatalogPages(pages [][]*domain.CatalogItem) []*domain.CatalogItem {
	var merged []*domain.CatalogItem
	seen := make(map[string]struct{})
	for _, page := range pages {
		for _, item := range page {
			if item == nil {
				continue
			}
			name := normalizeName(item.Name)
			if name == "" {
				merged = append(merged, item)
				continue
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			merged = append(merged, item)
		}
	}
	return merged
}

// normalizeName folds a title to lowercase letters and digits so that
// "DOOM Eternal™" and "Doom: Eternal" compare equal. Accents are composed
// first and compatibility forms such as full-width letters are folded last.
func normalizeName(name string) string {
	name = norm.NFC.String(name)

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return strings.ToLower(norm.NFKC.String(b.String()))
}

func (s *DiscoveryService) fromCache(ctx context.Context, key string) ([]*domain.CatalogItem, bool) {
	if s.cache == nil {
		return nil, false
	}

	data, err := s.cache.Get(ctx, key)
	if err != nil || data == nil {
		s.metrics.CacheLookup(false)
		return nil, false
	}

	var items []*domain.CatalogItem
	if err := json.Unmarshal(data, &items); err != nil {
		s.logger.Warn("discarding unreadable cache entry", zap.String("key", key), zap.Error(err))
		_ = s.cache.Delete(ctx, key)
		s.metrics.CacheLookup(false)
		return nil, false
	}

	s.metrics.CacheLookup(true)
	return items, true
}

func (s *DiscoveryService) toCache(ctx context.Context, key string, items []*domain.CatalogItem) {
	if s.cache == nil || s.cfg.CacheTTL <= 0 {
		return
	}

	data, err := json.Marshal(items)
	if err != nil {
		s.logger.Warn("encoding cache entry failed", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("caching catalog page failed", zap.String("key", key), zap.Error(err))
	}
}
