package media

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/framecut/framecut/internal/timeline"
)

// ErrUnresolvable is returned when an asset has neither a cached local
// URL nor a remote URL.
var ErrUnresolvable = errors.New("asset has no playable URL")

// ResolvedURL is a currently-playable location for an asset.
type ResolvedURL struct {
	URL   string
	Local bool
}

// Resolver maps an asset to a playable URL, preferring a locally
// cached one over the remote URL.
type Resolver interface {
	Resolve(ctx context.Context, asset *timeline.Asset) (ResolvedURL, error)
}

// ProbeFunc checks whether a previously-issued local URL is still
// usable. Hosts may evict cached blobs at any time.
type ProbeFunc func(url string) bool

// CachingResolver keeps a local URL per asset id and revalidates it on
// every resolve, falling back to the remote URL (and dropping the stale
// cache entry) when the probe fails.
type CachingResolver struct {
	mu     sync.Mutex
	local  map[string]string
	probe  ProbeFunc
	logger *slog.Logger
}

func NewCachingResolver(probe ProbeFunc, logger *slog.Logger) *CachingResolver {
	return &CachingResolver{
		local:  map[string]string{},
		probe:  probe,
		logger: logger,
	}
}

// PutLocal records a freshly cached local URL for an asset.
func (r *CachingResolver) PutLocal(assetID, url string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.local[assetID] = url
}

// DropLocal forgets the cached URL for an asset.
func (r *CachingResolver) DropLocal(assetID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.local, assetID)
}

func (r *CachingResolver) Resolve(ctx context.Context, asset *timeline.Asset) (ResolvedURL, error) {
	r.mu.Lock()
	url, ok := r.local[asset.ID]
	r.mu.Unlock()

	if ok {
		if r.probe == nil || r.probe(url) {
			return ResolvedURL{URL: url, Local: true}, nil
		}
		if r.logger != nil {
			r.logger.Info("cached asset URL no longer usable, reloading", "asset_id", asset.ID)
		}
		r.DropLocal(asset.ID)
	}

	if asset.RemoteURL != "" {
		return ResolvedURL{URL: asset.RemoteURL}, nil
	}
	return ResolvedURL{}, ErrUnresolvable
}
