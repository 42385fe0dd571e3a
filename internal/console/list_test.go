package console

import (
	"reflect"
	"testing"

	"github.com/wgadmin/wgadmin/internal/api"
)

func TestFilterClients(t *testing.T) {
	clients := []api.Client{
		{ID: "1", Name: "Alice-Phone", IP: "10.0.0.2", PublicKey: "AbCdEf="},
		{ID: "2", Name: "bob-laptop", IP: "10.0.0.3", PublicKey: "xyz="},
		{ID: "3", Name: "router", IP: "10.0.0.23", PublicKey: "QWERTY="},
	}

	tests := []struct {
		term string
		want []api.ClientID
	}{
		{"", []api.ClientID{"1", "2", "3"}},
		{"alice", []api.ClientID{"1"}},
		{"PHONE", []api.ClientID{"1"}},
		{"10.0.0.2", []api.ClientID{"1", "3"}},
		{"qwerty", []api.ClientID{"3"}},
		{"abcdef", []api.ClientID{"1"}},
		{"nomatch", []api.ClientID{}},
		{"bob-laptop", []api.ClientID{"2"}},
		{"laptop ", []api.ClientID{}},
		{" router", []api.ClientID{}},
		{" ", []api.ClientID{}},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			got := FilterClients(clients, tt.term)
			ids := make([]api.ClientID, 0, len(got))
			for _, c := range got {
				ids = append(ids, c.ID)
			}
			if !reflect.DeepEqual(ids, tt.want) {
				t.Errorf("FilterClients(%q) = %v, want %v", tt.term, ids, tt.want)
			}

			again := FilterClients(got, tt.term)
			if !reflect.DeepEqual(again, got) {
				t.Errorf("FilterClients(%q) is not idempotent", tt.term)
			}
		})
	}
}

func TestPageCount(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{0, 0},
		{1, 1},
		{8, 1},
		{9, 2},
		{16, 2},
		{17, 3},
	}
	for _, tt := range tests {
		if got := PageCount(tt.n); got != tt.want {
			t.Errorf("PageCount(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestPaginate_Partitions(t *testing.T) {
	for n := 0; n <= 25; n++ {
		clients := makeClients("c", n)
		pages := PageCount(n)

		var seen []api.Client
		for p := 1; p <= pages; p++ {
			page := Paginate(clients, p)
			if len(page) == 0 || len(page) > PageSize {
				t.Fatalf("n=%d page %d has %d entries", n, p, len(page))
			}
			if p < pages && len(page) != PageSize {
				t.Errorf("n=%d page %d has %d entries, want %d", n, p, len(page), PageSize)
			}
			seen = append(seen, page...)
		}
		if len(seen) != n {
			t.Errorf("n=%d pages cover %d entries", n, len(seen))
		}
		if len(Paginate(clients, pages+1)) != 0 {
			t.Errorf("n=%d page past the end should be empty", n)
		}
	}
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		page, total, want int
	}{
		{1, 0, 1},
		{3, 1, 1},
		{0, 3, 1},
		{2, 3, 2},
		{5, 3, 3},
	}
	for _, tt := range tests {
		if got := ClampPage(tt.page, tt.total); got != tt.want {
			t.Errorf("ClampPage(%d, %d) = %d, want %d", tt.page, tt.total, got, tt.want)
		}
	}
}

func TestComputeStats(t *testing.T) {
	clients := []api.Client{{ID: "1"}, {ID: "2", Revoked: 1}, {ID: "3"}}
	got := ComputeStats(clients)
	if got.Total != 3 || got.Active != 2 {
		t.Errorf("ComputeStats() = %+v, want total 3 active 2", got)
	}
}

func TestRemoveClient(t *testing.T) {
	clients := makeClients("c", 4)
	got := removeClient(clients, "c2")
	if len(got) != 3 {
		t.Fatalf("removeClient() left %d entries, want 3", len(got))
	}
	for _, c := range got {
		if c.ID == "c2" {
			t.Error("removeClient() kept the removed id")
		}
	}
	if len(clients) != 4 {
		t.Error("removeClient() mutated its input")
	}
}
