package usecase

import (
	"context"
	"log"
	"time"

	"github.com/etarang/garba-desk/internal/cache"
	"github.com/etarang/garba-desk/internal/entity"
)

const (
	entriesCacheKey = "entries"
	entriesCacheTTL = 30 * time.Second
)

const (
	CacheHit  = "HIT"
	CacheMiss = "MISS"

	SourceLive = "live"
	SourceMock = "mock"
)

// EntrySet is what the cache holds: the full fetched dataset plus its origin.
type EntrySet struct {
	Entries []entity.Entry
	Total   int
	Source  string
}

type ListEntriesInput struct {
	Page       int
	PageSize   int
	Revalidate bool
}

type ListEntriesOutput struct {
	Entries    []entity.Entry `json:"entries"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
	Cache      string         `json:"cache"`
	Source     string         `json:"source,omitempty"`
}

type EntryLister struct {
	Store           RowStore // live or xlsx backend; nil when only the mock is configured
	Mock            RowStore
	Mirror          EntryMirror // optional
	Cache           *cache.Cache[EntrySet]
	DefaultPageSize int
	UseMock         bool
}

func NewEntryLister(store, mock RowStore, mirror EntryMirror, c *cache.Cache[EntrySet], defaultPageSize int, useMock bool) *EntryLister {
	if defaultPageSize <= 0 {
		defaultPageSize = 50
	}
	return &EntryLister{
		Store:           store,
		Mock:            mock,
		Mirror:          mirror,
		Cache:           c,
		DefaultPageSize: defaultPageSize,
		UseMock:         useMock,
	}
}

// List serves one page, preferring the TTL cache. A forced refresh bypasses
// the cache read but still repopulates it after the fetch.
func (l *EntryLister) List(ctx context.Context, input ListEntriesInput) (*ListEntriesOutput, error) {
	page := input.Page
	if page <= 0 {
		page = 1
	}
	pageSize := input.PageSize
	if pageSize <= 0 {
		pageSize = l.DefaultPageSize
	}

	if !input.Revalidate {
		if set, ok := l.Cache.Get(entriesCacheKey); ok {
			return l.pageOf(set, page, pageSize, CacheHit), nil
		}
	}

	set, err := l.fetch(ctx)
	if err != nil {
		return nil, err
	}

	l.Cache.Set(entriesCacheKey, set, entriesCacheTTL)

	if l.Mirror != nil && set.Source == SourceLive {
		if err := l.Mirror.UpsertEntries(ctx, set.Entries); err != nil {
			// The mirror is best effort; a page load never fails because of it.
			log.Printf("⚠️ mirror upsert failed: %v", err)
		}
	}

	return l.pageOf(set, page, pageSize, CacheMiss), nil
}

// RefreshCache drops the cached entry set so the next read hits the store.
func (l *EntryLister) RefreshCache() string {
	l.Cache.Clear(entriesCacheKey)
	return entriesCacheKey
}

func (l *EntryLister) fetch(ctx context.Context) (EntrySet, error) {
	if l.UseMock || l.Store == nil {
		return l.fetchMock(ctx)
	}

	snap, err := l.Store.ReadAll(ctx)
	if err != nil {
		// A configured mock dataset is the fallback for a failed live fetch.
		if l.Mock != nil {
			log.Printf("⚠️ live fetch failed, falling back to mock dataset: %v", err)
			return l.fetchMock(ctx)
		}
		return EntrySet{}, &TechnicalError{
			Code:    "STORE_READ_FAILED",
			Message: "fetch entries: " + err.Error(),
		}
	}

	return EntrySet{Entries: snap.Entries, Total: snap.Total, Source: SourceLive}, nil
}

func (l *EntryLister) fetchMock(ctx context.Context) (EntrySet, error) {
	if l.Mock == nil {
		return EntrySet{}, &DomainError{
			Code:    "MOCK_NOT_CONFIGURED",
			Message: "mock dataset requested but none is configured",
		}
	}
	snap, err := l.Mock.ReadAll(ctx)
	if err != nil {
		return EntrySet{}, err
	}
	return EntrySet{Entries: snap.Entries, Total: snap.Total, Source: SourceMock}, nil
}

func (l *EntryLister) pageOf(set EntrySet, page, pageSize int, cacheState string) *ListEntriesOutput {
	out := &ListEntriesOutput{
		Entries:    paginate(set.Entries, page, pageSize),
		Total:      set.Total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(set.Total, pageSize),
		Cache:      cacheState,
	}
	if cacheState == CacheMiss {
		out.Source = set.Source
	}
	return out
}

// paginate slices page p (1-based) out of the full list, clamped: an
// out-of-range page yields an empty list, not an error.
func paginate(entries []entity.Entry, page, pageSize int) []entity.Entry {
	start := (page - 1) * pageSize
	if start >= len(entries) {
		return []entity.Entry{}
	}
	end := start + pageSize
	if end > len(entries) {
		end = len(entries)
	}
	return entries[start:end]
}

func totalPages(total, pageSize int) int {
	pages := (total + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}
