package profile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/anantaclub/ananta/internal/client/client"
	"github.com/anantaclub/ananta/internal/common"
	"github.com/anantaclub/ananta/internal/logging"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultTTL         = 30 * time.Second
	DefaultWaitTimeout = 5 * time.Second
)

// fetchKey is the only singleflight key: one profile per process.
const fetchKey = "profile"

// Fetch outcomes reported to the Recorder besides the ErrorKind values.
const (
	OutcomeNetwork    = "network"
	OutcomeCache      = "cache"
	OutcomeStaleCache = "stale_cache"
)

// API is the subset of client.Client the resolver needs.
type API interface {
	GetProfile(ctx context.Context, token string) ([]byte, error)
	UpdateProfile(ctx context.Context, token string, update client.ProfileUpdate) error
}

// TokenStore reads the persisted credential record.
type TokenStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
}

// Recorder receives one outcome per Fetch.
type Recorder interface {
	RecordFetch(outcome string)
}

type Options struct {
	// TTL is how long a fetched profile is served without a request.
	TTL time.Duration
	// WaitTimeout bounds how long a caller waits on a request someone else
	// already started.
	WaitTimeout time.Duration
	Logger      logging.Logger
	Recorder    Recorder
	// Now is the clock; time.Now when nil.
	Now func() time.Time
}

// Resolver fetches, normalizes and caches the current user's profile. One
// Resolver is shared by every consumer in the process.
type Resolver struct {
	api    API
	tokens TokenStore
	ttl    time.Duration
	wait   time.Duration
	log    logging.Logger
	rec    Recorder
	now    func() time.Time

	group singleflight.Group

	mu        sync.RWMutex
	cached    *Profile
	fetchedAt time.Time
	// generation changes on ClearCache so requests started before it do not
	// repopulate the cache.
	generation uint64
}

func NewResolver(api API, tokens TokenStore, opts Options) *Resolver {
	r := &Resolver{
		api:    api,
		tokens: tokens,
		ttl:    opts.TTL,
		wait:   opts.WaitTimeout,
		rec:    opts.Recorder,
		now:    opts.Now,
	}
	if r.ttl <= 0 {
		r.ttl = DefaultTTL
	}
	if r.wait <= 0 {
		r.wait = DefaultWaitTimeout
	}
	if r.now == nil {
		r.now = time.Now
	}
	var log logging.Logger = logging.NewNop()
	if opts.Logger != nil {
		log = opts.Logger
	}
	r.log = log.With("component", "profile")
	return r
}

// Fetch returns the current profile. A cached profile younger than the TTL is
// returned as is unless force is set. Concurrent calls share one request;
// a caller joining a running request waits at most WaitTimeout and then
// falls back to the cache (stale or not) or ErrTimeout.
func (r *Resolver) Fetch(ctx context.Context, force bool) (Result, error) {
	if !force {
		if p, ok := r.fresh(); ok {
			r.record(OutcomeCache)
			r.log.Debug(ctx, "profile served from cache")
			return Result{Profile: p, FromCache: true}, nil
		}
	}

	// Only the caller whose closure runs executes the request. Every other
	// caller, however close behind, is a joiner bounded by r.wait.
	var executing atomic.Bool
	ch := r.group.DoChan(fetchKey, func() (any, error) {
		executing.Store(true)
		// The request outlives callers that give up waiting on it.
		return r.load(context.WithoutCancel(ctx))
	})

	t := time.NewTimer(r.wait)
	defer t.Stop()
	timeout := t.C

	for {
		select {
		case res := <-ch:
			if res.Err != nil {
				if !executing.Load() {
					if p, ok := r.Cached(); ok {
						r.record(OutcomeStaleCache)
						return Result{Profile: p, FromCache: true}, nil
					}
				}
				r.record(string(Kind(res.Err)))
				return Result{}, res.Err
			}
			r.record(OutcomeNetwork)
			return Result{Profile: res.Val.(Profile)}, nil
		case <-timeout:
			if executing.Load() {
				// The request is ours; it is bounded by the HTTP timeout.
				timeout = nil
				continue
			}
			return r.fallback(ctx, ErrTimeout)
		case <-ctx.Done():
			return r.fallback(ctx, fmt.Errorf("%w: %w", ErrTimeout, ctx.Err()))
		}
	}
}

// fallback serves whatever is cached after giving up on a request.
func (r *Resolver) fallback(ctx context.Context, err error) (Result, error) {
	if p, ok := r.Cached(); ok {
		r.record(OutcomeStaleCache)
		r.log.Warn(ctx, "profile request still running, serving cached profile")
		return Result{Profile: p, FromCache: true}, nil
	}
	r.record(string(KindTimeout))
	r.log.Warn(ctx, "profile request still running, nothing cached")
	return Result{}, err
}

// load reads the token, requests the profile and caches it on success.
func (r *Resolver) load(ctx context.Context) (Profile, error) {
	gen := r.currentGeneration()

	token, err := r.token(ctx)
	if err != nil {
		return Profile{}, err
	}

	body, err := r.api.GetProfile(ctx, token)
	if errors.Is(err, client.ErrInvalidResponse) {
		r.log.Warn(ctx, "profile response is not JSON")
		return Profile{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if err != nil {
		r.log.Warn(ctx, "profile request failed", "error", err)
		return Profile{}, fmt.Errorf("%w: %w", ErrNetwork, err)
	}

	p, err := Normalize(body)
	if err != nil {
		r.log.Warn(ctx, "profile response has no user object")
		return Profile{}, err
	}

	if !r.store(p, gen) {
		r.log.Debug(ctx, "cache cleared during request, result not cached")
	}
	r.log.Info(ctx, "profile fetched", "membership", p.ActiveMembershipID, "kyc", p.KYCStatus)
	return p, nil
}

func (r *Resolver) token(ctx context.Context) (string, error) {
	token, ok, err := r.tokens.Get(ctx, common.TokenKey)
	if err != nil {
		return "", fmt.Errorf("%w: read token: %w", ErrNoToken, err)
	}
	if !ok || token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// Update sends the editable fields to the server and patches the cache on
// success. Empty fields in u are filled from the cached profile so a partial
// edit does not blank the others.
func (r *Resolver) Update(ctx context.Context, u client.ProfileUpdate) error {
	token, err := r.token(ctx)
	if err != nil {
		return err
	}

	if cur, ok := r.Cached(); ok {
		if u.Name == "" {
			u.Name = cur.Name
		}
		if u.Email == "" {
			u.Email = cur.Email
		}
		if u.ProfilePhotoURL == "" {
			u.ProfilePhotoURL = cur.ProfilePhotoURL
		}
	}

	if err := r.api.UpdateProfile(ctx, token, u); err != nil {
		r.log.Warn(ctx, "profile update failed", "error", err)
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	}

	r.UpdateOptimistic(Patch{Name: &u.Name, Email: &u.Email, ProfilePhotoURL: &u.ProfilePhotoURL})
	r.log.Info(ctx, "profile updated")
	return nil
}

// UpdateOptimistic merges patch into the cached profile without a request
// and without refreshing its age. Returns false when nothing is cached.
func (r *Resolver) UpdateOptimistic(patch Patch) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cached == nil {
		return false
	}
	merged := r.cached.apply(patch)
	r.cached = &merged
	return true
}

// ClearCache forgets the cached profile. Safe to call repeatedly.
func (r *Resolver) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cached = nil
	r.fetchedAt = time.Time{}
	r.generation++
}

// Cached returns the cached profile regardless of age.
func (r *Resolver) Cached() (Profile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.cached == nil {
		return Profile{}, false
	}
	return *r.cached, true
}

func (r *Resolver) fresh() (Profile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.cached == nil || r.now().Sub(r.fetchedAt) >= r.ttl {
		return Profile{}, false
	}
	return *r.cached, true
}

func (r *Resolver) store(p Profile, gen uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if gen != r.generation {
		return false
	}
	r.cached = &p
	r.fetchedAt = r.now()
	return true
}

func (r *Resolver) currentGeneration() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.generation
}

func (r *Resolver) record(outcome string) {
	if r.rec != nil && outcome != "" {
		r.rec.RecordFetch(outcome)
	}
}
