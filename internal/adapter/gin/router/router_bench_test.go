package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
)

func setupBenchmarkServer(b *testing.B) *httptest.Server {
	srv := httptest.NewServer(newRouter(b, Config{}, nil, zap.NewNop()))
	b.Cleanup(srv.Close)
	return srv
}

func createUser(b *testing.B, baseURL, name, email string) int64 {
	body, _ := json.Marshal(map[string]string{"name": name, "email": email})
	resp, err := http.Post(baseURL+"/api/users", "application/json", bytes.NewReader(body))
	if err != nil {
		b.Fatalf("create user: %v", err)
	}
	defer resp.Body.Close()

	var created struct {
		Data struct {
			ID int64 `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		b.Fatalf("decode create response: %v", err)
	}
	return created.Data.ID
}

func BenchmarkRouter_CreateUser(b *testing.B) {
	srv := setupBenchmarkServer(b)

	var counter int64
	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(p *testing.PB) {
		for p.Next() {
			id := atomic.AddInt64(&counter, 1)
			body := fmt.Sprintf(`{"name":"User_%d","email":"user_%d@example.com"}`, id, id)

			resp, err := http.Post(srv.URL+"/api/users", "application/json", bytes.NewBufferString(body))
			if err != nil {
				b.Errorf("request failed: %v", err)
				continue
			}
			resp.Body.Close()

			if resp.StatusCode != http.StatusCreated {
				b.Errorf("expected status 201, got %d", resp.StatusCode)
			}
		}
	})
}

func BenchmarkRouter_GetUser(b *testing.B) {
	srv := setupBenchmarkServer(b)
	url := fmt.Sprintf("%s/api/users/%d", srv.URL, createUser(b, srv.URL, "Test User", "test@example.com"))

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(p *testing.PB) {
		for p.Next() {
			resp, err := http.Get(url)
			if err != nil {
				b.Errorf("request failed: %v", err)
				continue
			}
			resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				b.Errorf("expected status 200, got %d", resp.StatusCode)
			}
		}
	})
}

func BenchmarkRouter_ListUsers(b *testing.B) {
	srv := setupBenchmarkServer(b)
	for i := 0; i < 100; i++ {
		createUser(b, srv.URL, fmt.Sprintf("User_%d", i), fmt.Sprintf("user_%d@example.com", i))
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		resp, err := http.Get(srv.URL + "/api/users")
		if err != nil {
			b.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
	}
}
