package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestBackoffDelay(t *testing.T) {
	b := backoff{InitialDelay: 100 * time.Millisecond, MaxDelay: 350 * time.Millisecond, Multiplier: 2}
	want := []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond, 350 * time.Millisecond, 350 * time.Millisecond}
	for i, w := range want {
		if got := b.delay(i+1, nil); got != w {
			t.Fatalf("attempt %d: expected %v, got %v", i+1, w, got)
		}
	}
	b.Jitter = true
	if got := b.delay(2, nil); got != 50*time.Millisecond {
		t.Fatalf("expected fixed half jitter without rng, got %v", got)
	}
}

type flakyTransport struct {
	failures int32
	calls    atomic.Int32
	next     http.RoundTripper
}

func (f *flakyTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	if f.calls.Add(1) <= f.failures {
		return nil, errors.New("connection refused")
	}
	return f.next.RoundTrip(r)
}

func TestBackoffRetriesTransportErrorsOnly(t *testing.T) {
	var served atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer ts.Close()

	transport := &flakyTransport{failures: 2, next: http.DefaultTransport}
	client := &http.Client{Transport: transport}
	b := backoff{Attempts: 3, InitialDelay: time.Millisecond, Multiplier: 1}
	newReq := func() (*http.Request, error) { return http.NewRequest(http.MethodGet, ts.URL, nil) }

	resp, err := b.do(context.Background(), client, newReq)
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	resp.Body.Close()
	if transport.calls.Load() != 3 || served.Load() != 1 {
		t.Fatalf("expected 3 attempts and 1 served, got %d/%d", transport.calls.Load(), served.Load())
	}

	transport = &flakyTransport{failures: 5, next: http.DefaultTransport}
	client.Transport = transport
	if _, err := b.do(context.Background(), client, newReq); err == nil {
		t.Fatalf("expected error once attempts are exhausted")
	}
	if transport.calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", transport.calls.Load())
	}
}
