package transport

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
)

func TestAuthorizer_AttachesBearerToken(t *testing.T) {
	var got string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
	}))
	defer ts.Close()

	a := NewAuthorizer(nil)
	a.SetToken("abc")
	client := &http.Client{Transport: a}

	resp, err := client.Get(ts.URL)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if got != "Bearer abc" {
		t.Fatalf("Authorization = %q, want %q", got, "Bearer abc")
	}
}

func TestAuthorizer_NoHeaderWithoutToken(t *testing.T) {
	var got string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
	}))
	defer ts.Close()

	client := &http.Client{Transport: NewAuthorizer(nil)}
	resp, err := client.Get(ts.URL)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if got != "" {
		t.Fatalf("unexpected Authorization header %q", got)
	}
}

func TestAuthorizer_SwapAffectsNextRequest(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Header.Get("Authorization"))
		mu.Unlock()
	}))
	defer ts.Close()

	a := NewAuthorizer(nil)
	client := &http.Client{Transport: a}

	a.SetToken("first")
	if resp, err := client.Get(ts.URL); err != nil {
		t.Fatalf("request failed: %v", err)
	} else {
		resp.Body.Close()
	}

	a.SetToken("second")
	if resp, err := client.Get(ts.URL); err != nil {
		t.Fatalf("request failed: %v", err)
	} else {
		resp.Body.Close()
	}

	a.ClearToken()
	if resp, err := client.Get(ts.URL); err != nil {
		t.Fatalf("request failed: %v", err)
	} else {
		resp.Body.Close()
	}

	want := []string{"Bearer first", "Bearer second", ""}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("request %d sent %q, want %q", i, seen[i], want[i])
		}
	}
}

func TestAuthorizer_UnauthorizedFiresCallback(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	a := NewAuthorizer(nil)
	var fired atomic.Int64
	a.OnUnauthorized(func() { fired.Add(1) })
	client := &http.Client{Transport: a}

	resp, err := client.Get(ts.URL)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("response not propagated, status %d", resp.StatusCode)
	}
	if fired.Load() != 1 {
		t.Fatalf("callback fired %d times, want 1", fired.Load())
	}
}

func TestAuthorizer_ReregisterReplacesCallback(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	a := NewAuthorizer(nil)
	var old, fired atomic.Int64
	a.OnUnauthorized(func() { old.Add(1) })
	a.OnUnauthorized(func() { fired.Add(1) })
	client := &http.Client{Transport: a}

	resp, err := client.Get(ts.URL)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if old.Load() != 0 {
		t.Fatalf("replaced callback still fired %d times", old.Load())
	}
	if fired.Load() != 1 {
		t.Fatalf("callback fired %d times, want 1", fired.Load())
	}
}

func TestAuthorizer_ClearCallback(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	a := NewAuthorizer(nil)
	var fired atomic.Int64
	a.OnUnauthorized(func() { fired.Add(1) })
	a.ClearOnUnauthorized()
	client := &http.Client{Transport: a}

	resp, err := client.Get(ts.URL)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if fired.Load() != 0 {
		t.Fatalf("cleared callback fired %d times", fired.Load())
	}
}

func TestAuthorizer_DoesNotMutateRequest(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer ts.Close()

	a := NewAuthorizer(nil)
	a.SetToken("abc")

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}

	resp, err := a.RoundTrip(req)
	if err != nil {
		t.Fatalf("round trip: %v", err)
	}
	resp.Body.Close()

	if got := req.Header.Get("Authorization"); got != "" {
		t.Fatalf("caller's request mutated: Authorization = %q", got)
	}
}
