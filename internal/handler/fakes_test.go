package handler

import (
	"context"
	"sort"
	"sync"

	"github.com/mintgate/merchant-gateway/internal/model"
	"github.com/mintgate/merchant-gateway/internal/repository"
)

// In-memory fakes backing the handler tests. fakeMerchantStore satisfies
// both the handler-side store and the auth-side one, so a single instance
// can feed handlers, the resolver and the issuer.

type fakeMerchantStore struct {
	mu   sync.Mutex
	byID map[string]*model.Merchant
}

func newFakeMerchantStore(ms ...*model.Merchant) *fakeMerchantStore {
	f := &fakeMerchantStore{byID: map[string]*model.Merchant{}}
	for _, m := range ms {
		f.byID[m.ID] = m
	}
	return f
}

func (f *fakeMerchantStore) Create(_ context.Context, m *model.Merchant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ex := range f.byID {
		if ex.Email == m.Email {
			return repository.ErrEmailExists
		}
		if ex.UniqueID == m.UniqueID {
			return repository.ErrUIDExists
		}
	}
	cp := *m
	f.byID[m.ID] = &cp
	return nil
}

func (f *fakeMerchantStore) GetByID(_ context.Context, id string) (*model.Merchant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.byID[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeMerchantStore) GetByEmail(_ context.Context, email string) (*model.Merchant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.byID {
		if m.Email == email {
			cp := *m
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeMerchantStore) List(_ context.Context) ([]model.Merchant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Merchant, 0, len(f.byID))
	for _, m := range f.byID {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeMerchantStore) Update(_ context.Context, m *model.Merchant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[m.ID]; !ok {
		return repository.ErrNotFound
	}
	for id, ex := range f.byID {
		if id != m.ID && ex.Email == m.Email {
			return repository.ErrEmailExists
		}
	}
	cp := *m
	f.byID[m.ID] = &cp
	return nil
}

func (f *fakeMerchantStore) SetProviders(_ context.Context, merchantID string, providerIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.byID[merchantID]
	if !ok {
		return repository.ErrNotFound
	}
	m.ProviderIDs = append([]string(nil), providerIDs...)
	return nil
}

func (f *fakeMerchantStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeMerchantStore) UniqueIDExists(_ context.Context, code string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.byID {
		if m.UniqueID == code {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeMerchantStore) SetRefreshToken(_ context.Context, id, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	m.RefreshToken = token
	return nil
}

func (f *fakeMerchantStore) ClearRefreshToken(ctx context.Context, id string) error {
	return f.SetRefreshToken(ctx, id, "")
}

type fakeAdminStore struct {
	mu   sync.Mutex
	byID map[string]*model.Admin
}

func newFakeAdminStore(as ...*model.Admin) *fakeAdminStore {
	f := &fakeAdminStore{byID: map[string]*model.Admin{}}
	for _, a := range as {
		f.byID[a.ID] = a
	}
	return f
}

func (f *fakeAdminStore) GetByID(_ context.Context, id string) (*model.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.byID[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeAdminStore) GetByEmail(_ context.Context, email string) (*model.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byID {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeAdminStore) Create(_ context.Context, a *model.Admin) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *a
	f.byID[a.ID] = &cp
	return nil
}

func (f *fakeAdminStore) SetRefreshToken(_ context.Context, id, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.RefreshToken = token
	return nil
}

func (f *fakeAdminStore) ClearRefreshToken(ctx context.Context, id string) error {
	return f.SetRefreshToken(ctx, id, "")
}

type fakeUserStore struct {
	mu   sync.Mutex
	byID map[string]*model.User
}

func newFakeUserStore(us ...*model.User) *fakeUserStore {
	f := &fakeUserStore{byID: map[string]*model.User{}}
	for _, u := range us {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserStore) GetByEmailOrUsername(_ context.Context, email, username string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if (email != "" && u.Email == email) || (username != "" && u.Username == username) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserStore) SetRefreshToken(_ context.Context, id, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.RefreshToken = token
	return nil
}

func (f *fakeUserStore) ClearRefreshToken(ctx context.Context, id string) error {
	return f.SetRefreshToken(ctx, id, "")
}

type fakeProviderStore struct {
	providers []model.PaymentProvider
}

func (f *fakeProviderStore) List(_ context.Context) ([]model.PaymentProvider, error) {
	return append([]model.PaymentProvider(nil), f.providers...), nil
}

func (f *fakeProviderStore) GetByID(_ context.Context, id string) (*model.PaymentProvider, error) {
	for _, p := range f.providers {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeUIDStore struct {
	mu     sync.Mutex
	seq    uint64
	byCode map[string]*model.PublicUID
	// failCreates forces the next N Create calls to report a code collision.
	failCreates int
}

func newFakeUIDStore() *fakeUIDStore {
	return &fakeUIDStore{byCode: map[string]*model.PublicUID{}}
}

func (f *fakeUIDStore) NextSeq(_ context.Context) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	return f.seq, nil
}

func (f *fakeUIDStore) Create(_ context.Context, u *model.PublicUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreates > 0 {
		f.failCreates--
		return repository.ErrUIDExists
	}
	if _, ok := f.byCode[u.Code]; ok {
		return repository.ErrUIDExists
	}
	cp := *u
	f.byCode[u.Code] = &cp
	return nil
}

func (f *fakeUIDStore) ListByCreator(_ context.Context, merchantID string) ([]model.PublicUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.PublicUID
	for _, u := range f.byCode {
		if u.CreatedBy == merchantID {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq > out[j].Seq })
	return out, nil
}

func (f *fakeUIDStore) GetByCode(_ context.Context, code string) (*model.PublicUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byCode[code]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

type publishedEvent struct {
	Type    string
	Payload any
}

func (f *fakePublisher) Publish(_ context.Context, eventType string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, publishedEvent{Type: eventType, Payload: payload})
	return nil
}

func (f *fakePublisher) byType(eventType string) []publishedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []publishedEvent
	for _, ev := range f.events {
		if ev.Type == eventType {
			out = append(out, ev)
		}
	}
	return out
}
