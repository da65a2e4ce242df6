package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	cerrors "coinly/cli/internal/errors"
	"coinly/cli/internal/tokenstore"
	"coinly/cli/internal/users"
)

const meBody = `{"data":{"_id":"1","firstName":"A","lastName":"B","username":"ab","email":"a@b.com","profilePicture":"","plan":"free","coinsAmount":5}}`

var alice = users.Profile{ID: "1", FirstName: "A", LastName: "B", Username: "ab", Email: "a@b.com", Plan: "free", CoinsAmount: 5}

type fakeIdentity struct {
	mu           sync.Mutex
	me           func(token string) (users.Profile, error)
	refresh      func(token string) (users.Profile, error)
	meCalls      int
	refreshCalls []string
}

func (f *fakeIdentity) Me(_ context.Context, token string) (users.Profile, error) {
	f.mu.Lock()
	f.meCalls++
	fn := f.me
	f.mu.Unlock()
	if fn == nil {
		return users.Profile{}, cerrors.Rejected(http.StatusUnauthorized, "GET /me: 401")
	}
	return fn(token)
}

func (f *fakeIdentity) RefreshMe(_ context.Context, token string) (users.Profile, error) {
	f.mu.Lock()
	f.refreshCalls = append(f.refreshCalls, token)
	fn := f.refresh
	f.mu.Unlock()
	if fn == nil {
		return users.Profile{}, cerrors.Rejected(http.StatusUnauthorized, "POST /me: 401")
	}
	return fn(token)
}

func newStore(t *testing.T, token string) *tokenstore.Store {
	t.Helper()
	s := tokenstore.New("memory", tokenstore.NewMemory())
	if token != "" {
		if err := s.SaveToken(token); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func persisted(t *testing.T, s *tokenstore.Store) string {
	t.Helper()
	tok, err := s.LoadToken()
	if errors.Is(err, tokenstore.ErrNotFound) {
		return ""
	}
	if err != nil {
		t.Fatalf("LoadToken() error = %v", err)
	}
	return tok
}

func assertLoggedOut(t *testing.T, st State) {
	t.Helper()
	if st.IsAuthenticated || st.User != nil || st.Token != "" || st.IsLoading {
		t.Fatalf("state = %+v, want logged out", st)
	}
}

func TestInitializeWithoutTokenLogsOut(t *testing.T) {
	store := newStore(t, "")
	id := &fakeIdentity{}
	m := New(store, id)
	defer m.Close()

	assertLoggedOut(t, m.Initialize(context.Background()))
	if id.meCalls != 0 {
		t.Errorf("identity called %d times without a token", id.meCalls)
	}
}

func TestInitializeAgainstIdentityService(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantAuth  bool
		wantToken string
	}{
		{name: "accepted", status: http.StatusOK, body: meBody, wantAuth: true, wantToken: "abc"},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"message":"expired"}`},
		{name: "server error", status: http.StatusInternalServerError},
		{name: "undecodable body", status: http.StatusOK, body: `<html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet || r.URL.Path != "/api/users/me" {
					t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
				}
				if got := r.Header.Get("Authorization"); got != "Bearer abc" {
					t.Errorf("Authorization = %q", got)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			store := newStore(t, "abc")
			m := New(store, users.New(srv.URL+"/api/users"))
			defer m.Close()

			st := m.Initialize(context.Background())
			if st.IsAuthenticated != tt.wantAuth || st.Token != tt.wantToken {
				t.Fatalf("state = %+v", st)
			}
			if got := persisted(t, store); got != tt.wantToken {
				t.Errorf("persisted token = %q, want %q", got, tt.wantToken)
			}
			if tt.wantAuth {
				if *st.User != alice {
					t.Errorf("user = %+v, want %+v", *st.User, alice)
				}
			} else {
				assertLoggedOut(t, st)
			}
		})
	}
}

func TestInitializeRunsOnce(t *testing.T) {
	id := &fakeIdentity{me: func(string) (users.Profile, error) { return alice, nil }}
	m := New(newStore(t, "abc"), id)
	defer m.Close()

	m.Initialize(context.Background())
	m.Logout()
	st := m.Initialize(context.Background())

	if id.meCalls != 1 {
		t.Errorf("Me called %d times, want 1", id.meCalls)
	}
	assertLoggedOut(t, st)
}

func transportFailure(string) (users.Profile, error) {
	return users.Profile{}, cerrors.Wrap(cerrors.KindTransport, "GET /me", errors.New("connection refused"))
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestInitializeTransportFailureDefersLogout(t *testing.T) {
	store := newStore(t, "abc")
	m := New(store, &fakeIdentity{me: transportFailure}, WithLogoutDelay(30*time.Millisecond))
	defer m.Close()

	st := m.Initialize(context.Background())
	if !st.IsLoading || st.IsAuthenticated {
		t.Fatalf("state right after transport failure = %+v, want initial", st)
	}
	if !m.LogoutPending() {
		t.Fatal("no deferred logout scheduled")
	}
	if got := persisted(t, store); got != "abc" {
		t.Fatalf("token removed before the delay elapsed: %q", got)
	}

	waitFor(t, func() bool { return !m.LogoutPending() })
	assertLoggedOut(t, m.State())
	if got := persisted(t, store); got != "" {
		t.Errorf("persisted token = %q after deferred logout", got)
	}
}

func TestLoginCancelsDeferredLogout(t *testing.T) {
	store := newStore(t, "abc")
	delay := 30 * time.Millisecond
	m := New(store, &fakeIdentity{me: transportFailure}, WithLogoutDelay(delay))
	defer m.Close()

	m.Initialize(context.Background())
	m.Login(alice, "fresh")
	if m.LogoutPending() {
		t.Fatal("Login left the deferred logout pending")
	}

	time.Sleep(4 * delay)
	st := m.State()
	if !st.IsAuthenticated || st.Token != "fresh" {
		t.Fatalf("deferred logout fired after Login: %+v", st)
	}
	if got := persisted(t, store); got != "fresh" {
		t.Errorf("persisted token = %q", got)
	}
}

func TestLoginRacingDeferredLogoutWins(t *testing.T) {
	for i := 0; i < 200; i++ {
		store := newStore(t, "abc")
		m := New(store, &fakeIdentity{me: transportFailure}, WithLogoutDelay(200*time.Microsecond))

		m.Initialize(context.Background())
		time.Sleep(time.Duration(i%5) * 100 * time.Microsecond)
		m.Login(alice, "fresh")
		time.Sleep(time.Millisecond)

		st := m.State()
		if !st.IsAuthenticated || st.Token != "fresh" {
			t.Fatalf("iteration %d: deferred logout overwrote a later Login: %+v", i, st)
		}
		if got := persisted(t, store); got != "fresh" {
			t.Fatalf("iteration %d: persisted token = %q, want fresh", i, got)
		}
		m.Close()
	}
}

func TestCloseCancelsDeferredLogout(t *testing.T) {
	store := newStore(t, "abc")
	delay := 20 * time.Millisecond
	m := New(store, &fakeIdentity{me: transportFailure}, WithLogoutDelay(delay))

	m.Initialize(context.Background())
	m.Close()

	time.Sleep(4 * delay)
	if got := persisted(t, store); got != "abc" {
		t.Errorf("persisted token = %q, want abc kept after Close", got)
	}
}

func TestInitializeCancelledContextLeavesState(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	id := &fakeIdentity{me: func(string) (users.Profile, error) {
		cancel()
		return users.Profile{}, cerrors.Wrap(cerrors.KindTransport, "GET /me", context.Canceled)
	}}
	store := newStore(t, "abc")
	m := New(store, id, WithLogoutDelay(time.Millisecond))
	defer m.Close()

	st := m.Initialize(ctx)
	if !st.IsLoading {
		t.Errorf("state = %+v, want initial", st)
	}
	if m.LogoutPending() {
		t.Errorf("cancelled rehydration scheduled a logout")
	}
	if got := persisted(t, store); got != "abc" {
		t.Errorf("persisted token = %q", got)
	}
}

func TestLoginThenLogout(t *testing.T) {
	store := newStore(t, "")
	m := New(store, &fakeIdentity{})
	defer m.Close()

	m.Login(alice, "t")
	st := m.State()
	if !st.IsAuthenticated || *st.User != alice || st.Token != "t" || st.IsLoading {
		t.Fatalf("after Login state = %+v", st)
	}
	if got := persisted(t, store); got != "t" {
		t.Fatalf("persisted token = %q, want t", got)
	}

	m.Logout()
	assertLoggedOut(t, m.State())
	if got := persisted(t, store); got != "" {
		t.Fatalf("persisted token = %q after Logout", got)
	}
}

func TestStateReturnsCopy(t *testing.T) {
	m := New(newStore(t, ""), &fakeIdentity{})
	defer m.Close()

	m.Login(alice, "t")
	st := m.State()
	st.User.Email = "mallory@example.com"
	if m.State().User.Email != alice.Email {
		t.Fatal("caller mutated the manager's snapshot")
	}
}

func TestSubscribe(t *testing.T) {
	m := New(newStore(t, ""), &fakeIdentity{})
	ch, stop := m.Subscribe()
	defer stop()

	m.Login(alice, "t1")
	m.Login(alice, "t2")

	select {
	case st := <-ch:
		if st.Token != "t2" {
			t.Errorf("latest snapshot token = %q, want t2", st.Token)
		}
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered")
	}

	m.Close()
	if _, ok := <-ch; ok {
		t.Error("channel still open after Close")
	}
	stop()

	late, _ := m.Subscribe()
	if _, ok := <-late; ok {
		t.Error("subscription after Close should be closed")
	}
}
