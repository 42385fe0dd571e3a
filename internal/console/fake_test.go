package console

import (
	"context"
	"fmt"
	"sync"

	"github.com/wgadmin/wgadmin/internal/api"
)

// fakeAPI is a scriptable APIClient for tests that need precise control over
// timing. Unset hooks succeed with empty results.
type fakeAPI struct {
	mu    sync.Mutex
	calls map[string]int

	list   func(n int) ([]api.Client, error)
	create func(name string) (*api.CreateClientResponse, error)
	del    func(id api.ClientID) error
	sync   func() (*api.SyncResponse, error)
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{calls: map[string]int{}}
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) inc(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	return f.calls[name]
}

func (f *fakeAPI) Login(ctx context.Context, username, password string) (*api.LoginResponse, error) {
	f.inc("login")
	return &api.LoginResponse{TokenType: "Bearer", Token: "abc", ExpiresIn: "1h"}, nil
}

func (f *fakeAPI) ListClients(ctx context.Context, token string) ([]api.Client, error) {
	n := f.inc("list")
	if f.list != nil {
		return f.list(n)
	}
	return []api.Client{}, nil
}

func (f *fakeAPI) CreateClient(ctx context.Context, token, name string) (*api.CreateClientResponse, error) {
	f.inc("create")
	if f.create != nil {
		return f.create(name)
	}
	return &api.CreateClientResponse{Client: api.Client{ID: "1", Name: name}}, nil
}

func (f *fakeAPI) CreateClientWithKey(ctx context.Context, token, name, publicKey string) (*api.CreateClientResponse, error) {
	f.inc("create-keyed")
	return &api.CreateClientResponse{Client: api.Client{ID: "1", Name: name, PublicKey: publicKey}}, nil
}

func (f *fakeAPI) DeleteClient(ctx context.Context, token string, id api.ClientID) error {
	f.inc("delete")
	if f.del != nil {
		return f.del(id)
	}
	return nil
}

func (f *fakeAPI) Sync(ctx context.Context, token string) (*api.SyncResponse, error) {
	f.inc("sync")
	if f.sync != nil {
		return f.sync()
	}
	return &api.SyncResponse{OK: true}, nil
}

func (f *fakeAPI) CheckHealth(ctx context.Context) (*api.HealthResponse, error) {
	f.inc("health")
	return &api.HealthResponse{OK: true}, nil
}

// makeClients builds n clients named prefix-1..prefix-n
func makeClients(prefix string, n int) []api.Client {
	out := make([]api.Client, n)
	for i := range out {
		out[i] = api.Client{
			ID:        api.ClientID(fmt.Sprintf("%s%d", prefix, i+1)),
			Name:      fmt.Sprintf("%s-%d", prefix, i+1),
			PublicKey: fmt.Sprintf("KEY%03d=", i+1),
			IP:        fmt.Sprintf("10.9.0.%d", i+2),
		}
	}
	return out
}
