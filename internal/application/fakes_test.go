package application

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"shopsight-gateway/internal/domain"
)

// memStoreRepo is an in-memory StoreRepository keyed by domain.
type memStoreRepo struct {
	mu     sync.Mutex
	stores map[string]*domain.Store
	err    error
}

func newMemStoreRepo() *memStoreRepo {
	return &memStoreRepo{stores: map[string]*domain.Store{}}
}

func (r *memStoreRepo) Save(ctx context.Context, store *domain.Store) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	copied := *store
	r.stores[store.Domain] = &copied
	return nil
}

func (r *memStoreRepo) GetByDomain(ctx context.Context, shopDomain string) (*domain.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	store, ok := r.stores[shopDomain]
	if !ok {
		return nil, nil
	}
	copied := *store
	return &copied, nil
}

func (r *memStoreRepo) Delete(ctx context.Context, shopDomain string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	delete(r.stores, shopDomain)
	return nil
}

func (r *memStoreRepo) List(ctx context.Context) ([]*domain.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	domains := make([]string, 0, len(r.stores))
	for d := range r.stores {
		domains = append(domains, d)
	}
	sort.Strings(domains)

	stores := make([]*domain.Store, 0, len(domains))
	for _, d := range domains {
		copied := *r.stores[d]
		stores = append(stores, &copied)
	}
	return stores, nil
}

// memStateStore is an in-memory StateStore with real expiry.
type memStateStore struct {
	mu      sync.Mutex
	entries map[string]stateEntry
}

type stateEntry struct {
	shopDomain string
	expiresAt  time.Time
}

func newMemStateStore() *memStateStore {
	return &memStateStore{entries: map[string]stateEntry{}}
}

func (s *memStateStore) Put(ctx context.Context, state, shopDomain string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[state] = stateEntry{shopDomain: shopDomain, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *memStateStore) Take(ctx context.Context, state string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[state]
	delete(s.entries, state)
	if !ok || time.Now().After(entry.expiresAt) {
		return "", nil
	}
	return entry.shopDomain, nil
}

// expire forces an entry past its deadline without waiting.
func (s *memStateStore) expire(state string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.entries[state]; ok {
		entry.expiresAt = time.Now().Add(-time.Minute)
		s.entries[state] = entry
	}
}

// fakeOAuthClient returns a fixed grant or error and records the exchange.
type fakeOAuthClient struct {
	grant *domain.TokenGrant
	err   error

	exchanges int
	lastShop  string
	lastCode  string
}

func (c *fakeOAuthClient) AuthorizationURL(shop string, scopes []string, redirectURI, state string) string {
	return fmt.Sprintf("https://%s/admin/oauth/authorize?state=%s", shop, state)
}

func (c *fakeOAuthClient) ExchangeToken(ctx context.Context, shop, code, redirectURI string) (*domain.TokenGrant, error) {
	c.exchanges++
	c.lastShop = shop
	c.lastCode = code
	if c.err != nil {
		return nil, c.err
	}
	return c.grant, nil
}

// fakeCommerceClient records the dispatched document.
type fakeCommerceClient struct {
	result *domain.QueryResult
	err    error

	lastDocument  string
	lastVariables map[string]interface{}
	lastToken     string
}

func (c *fakeCommerceClient) Execute(ctx context.Context, shop, accessToken, document string, variables map[string]interface{}) (*domain.QueryResult, error) {
	c.lastDocument = document
	c.lastVariables = variables
	c.lastToken = accessToken
	if c.err != nil {
		return nil, c.err
	}
	return c.result, nil
}

// fakeInsightsClient returns a fixed response or error.
type fakeInsightsClient struct {
	resp    *domain.AnalyzeResponse
	err     error
	healthy bool

	calls   int
	lastReq *domain.AnalyzeRequest
}

func (c *fakeInsightsClient) Analyze(ctx context.Context, req *domain.AnalyzeRequest) (*domain.AnalyzeResponse, error) {
	c.calls++
	c.lastReq = req
	if c.err != nil {
		return nil, c.err
	}
	return c.resp, nil
}

func (c *fakeInsightsClient) Healthy(ctx context.Context) bool {
	return c.healthy
}

// memLogRepo is an in-memory RequestLogRepository. Writes signal the done
// channel so tests can wait for the async audit goroutines.
type memLogRepo struct {
	mu          sync.Mutex
	entries     map[string]*domain.RequestLog
	insertErr   error
	attachErr   error
	insertDelay time.Duration
	done        chan string
}

func newMemLogRepo() *memLogRepo {
	return &memLogRepo{
		entries: map[string]*domain.RequestLog{},
		done:    make(chan string, 16),
	}
}

func (r *memLogRepo) signal(op string) {
	select {
	case r.done <- op:
	default:
	}
}

func (r *memLogRepo) Insert(ctx context.Context, entry *domain.RequestLog) error {
	if r.insertDelay > 0 {
		time.Sleep(r.insertDelay)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	defer r.signal("insert")
	if r.insertErr != nil {
		return r.insertErr
	}
	copied := *entry
	r.entries[entry.ID] = &copied
	return nil
}

func (r *memLogRepo) AttachAnswer(ctx context.Context, id string, result *domain.AnswerResult, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	defer r.signal("attach")
	if r.attachErr != nil {
		return r.attachErr
	}
	entry, ok := r.entries[id]
	if !ok || entry.RespondedAt != nil {
		return fmt.Errorf("no unanswered entry with id %s", id)
	}
	entry.Answer = result.Answer
	entry.Confidence = result.Confidence
	entry.ProcessingTimeMs = result.ProcessingTimeMs
	entry.RespondedAt = &at
	return nil
}

func (r *memLogRepo) ListRecent(ctx context.Context, storeDomain string, limit int64) ([]*domain.RequestLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var entries []*domain.RequestLog
	for _, entry := range r.entries {
		if entry.StoreDomain == storeDomain {
			copied := *entry
			entries = append(entries, &copied)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	if int64(len(entries)) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (r *memLogRepo) DeleteByStore(ctx context.Context, storeDomain string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, entry := range r.entries {
		if entry.StoreDomain == storeDomain {
			delete(r.entries, id)
		}
	}
	return nil
}

func (r *memLogRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *memLogRepo) get(id string) *domain.RequestLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[id]
	if !ok {
		return nil
	}
	copied := *entry
	return &copied
}
