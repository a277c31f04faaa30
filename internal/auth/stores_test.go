package auth

import (
	"context"
	"sync"

	"github.com/mintgate/merchant-gateway/internal/model"
	"github.com/mintgate/merchant-gateway/internal/repository"
)

// In-memory store fakes shared by the auth package tests.

type fakeMerchants struct {
	mu   sync.Mutex
	byID map[string]*model.Merchant
}

func newFakeMerchants(ms ...*model.Merchant) *fakeMerchants {
	f := &fakeMerchants{byID: map[string]*model.Merchant{}}
	for _, m := range ms {
		f.byID[m.ID] = m
	}
	return f
}

func (f *fakeMerchants) GetByID(_ context.Context, id string) (*model.Merchant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.byID[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeMerchants) GetByEmail(_ context.Context, email string) (*model.Merchant, error) {
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

func (f *fakeMerchants) SetRefreshToken(_ context.Context, id, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	m.RefreshToken = token
	return nil
}

func (f *fakeMerchants) ClearRefreshToken(ctx context.Context, id string) error {
	return f.SetRefreshToken(ctx, id, "")
}

type fakeAdmins struct {
	mu   sync.Mutex
	byID map[string]*model.Admin
}

func newFakeAdmins(as ...*model.Admin) *fakeAdmins {
	f := &fakeAdmins{byID: map[string]*model.Admin{}}
	for _, a := range as {
		f.byID[a.ID] = a
	}
	return f
}

func (f *fakeAdmins) GetByID(_ context.Context, id string) (*model.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.byID[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeAdmins) GetByEmail(_ context.Context, email string) (*model.Admin, error) {
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

func (f *fakeAdmins) Create(_ context.Context, a *model.Admin) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[a.ID] = a
	return nil
}

func (f *fakeAdmins) SetRefreshToken(_ context.Context, id, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.RefreshToken = token
	return nil
}

func (f *fakeAdmins) ClearRefreshToken(ctx context.Context, id string) error {
	return f.SetRefreshToken(ctx, id, "")
}

type fakeUsers struct {
	mu   sync.Mutex
	byID map[string]*model.User
}

func newFakeUsers(us ...*model.User) *fakeUsers {
	f := &fakeUsers{byID: map[string]*model.User{}}
	for _, u := range us {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) GetByEmailOrUsername(_ context.Context, email, username string) (*model.User, error) {
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

func (f *fakeUsers) SetRefreshToken(_ context.Context, id, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.RefreshToken = token
	return nil
}

func (f *fakeUsers) ClearRefreshToken(ctx context.Context, id string) error {
	return f.SetRefreshToken(ctx, id, "")
}

type fakeUIDs struct {
	byCode map[string]*model.PublicUID
}

func newFakeUIDs(us ...*model.PublicUID) *fakeUIDs {
	f := &fakeUIDs{byCode: map[string]*model.PublicUID{}}
	for _, u := range us {
		f.byCode[u.Code] = u
	}
	return f
}

func (f *fakeUIDs) GetByCode(_ context.Context, code string) (*model.PublicUID, error) {
	if u, ok := f.byCode[code]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func testStores(m *fakeMerchants, a *fakeAdmins, u *fakeUsers, uid *fakeUIDs) Stores {
	if m == nil {
		m = newFakeMerchants()
	}
	if a == nil {
		a = newFakeAdmins()
	}
	if u == nil {
		u = newFakeUsers()
	}
	if uid == nil {
		uid = newFakeUIDs()
	}
	return Stores{Merchants: m, Admins: a, Users: u, UIDs: uid}
}
