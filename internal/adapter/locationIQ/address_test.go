package locationIQ

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGetAddress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/v1/reverse" || q.Get("key") != "k" || q.Get("lat") != "3.139" || q.Get("lon") != "101.6869" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"display_name":"Jalan Raja Chulan, Kuala Lumpur"}`))
	}))
	defer srv.Close()

	c := New("k", srv.URL, time.Second)
	got, err := c.GetAddress(context.Background(), 101.6869, 3.139)
	if err != nil {
		t.Fatal(err)
	}
	if got != "Jalan Raja Chulan, Kuala Lumpur" {
		t.Errorf("address = %q", got)
	}
}

func TestGetAddressUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	if _, err := New("k", srv.URL, time.Second).GetAddress(context.Background(), 0, 0); err == nil {
		t.Error("expected an error")
	}
}
