// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

package embedding

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestPlaceText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, cuisine, want string
	}{
		{"Joe's Pizza", "pizza", "Joe's Pizza serving pizza food"},
		{"Corner Bar", "", "Corner Bar"},
	}
	for _, tt := range tests {
		if got := PlaceText(tt.name, tt.cuisine); got != tt.want {
			t.Errorf("PlaceText(%q, %q) = %q, want %q", tt.name, tt.cuisine, got, tt.want)
		}
	}
}

func newOpenAIServer(t *testing.T, handler func(req map[string]interface{}) (int, string)) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		var req map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		status, body := handler(req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestOpenAIEmbedder_Embed(t *testing.T) {
	t.Parallel()

	var gotModel string
	var gotInput []interface{}
	server := newOpenAIServer(t, func(req map[string]interface{}) (int, string) {
		gotModel, _ = req["model"].(string)
		gotInput, _ = req["input"].([]interface{})
		return http.StatusOK, `{"object":"list","model":"text-embedding-3-small",
			"data":[{"object":"embedding","index":0,"embedding":[0.25,-0.5,1]}],
			"usage":{"prompt_tokens":3,"total_tokens":3}}`
	})

	e := NewOpenAIEmbedder(OpenAIConfig{APIKey: "sk-test", BaseURL: server.URL + "/v1"})
	vec, err := e.Embed(context.Background(), "Joe's Pizza serving pizza food")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(vec) != 3 || vec[0] != 0.25 || vec[1] != -0.5 || vec[2] != 1 {
		t.Errorf("Embed() = %v, want [0.25 -0.5 1]", vec)
	}
	if gotModel != DefaultModel {
		t.Errorf("model = %q, want %q", gotModel, DefaultModel)
	}
	if len(gotInput) != 1 || gotInput[0] != "Joe's Pizza serving pizza food" {
		t.Errorf("input = %v", gotInput)
	}
}

func TestOpenAIEmbedder_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"api error", http.StatusUnauthorized, `{"error":{"message":"bad key","type":"invalid_request_error"}}`},
		{"empty data", http.StatusOK, `{"object":"list","data":[]}`},
		{"empty vector", http.StatusOK, `{"object":"list","data":[{"object":"embedding","index":0,"embedding":[]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			server := newOpenAIServer(t, func(map[string]interface{}) (int, string) {
				return tt.status, tt.body
			})
			e := NewOpenAIEmbedder(OpenAIConfig{APIKey: "sk-test", BaseURL: server.URL + "/v1"})
			if _, err := e.Embed(context.Background(), "x"); !errors.Is(err, ErrEmbeddingUnavailable) {
				t.Errorf("err = %v, want ErrEmbeddingUnavailable", err)
			}
		})
	}
}

func TestHTTPEmbedder_Embed(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.Header.Get("Authorization") != "Bearer anon-key" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text != "sushi" {
			t.Errorf("request = %+v, err = %v", req, err)
		}
		_, _ = w.Write([]byte(`{"embedding":[1,2,3]}`))
	}))
	defer server.Close()

	e := NewHTTPEmbedder(HTTPConfig{Endpoint: server.URL, AuthToken: "anon-key"})
	vec, err := e.Embed(context.Background(), "sushi")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(vec) != 3 || vec[2] != 3 {
		t.Errorf("Embed() = %v, want [1 2 3]", vec)
	}
}

func TestHTTPEmbedder_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
		}},
		{"missing embedding", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}},
		{"malformed", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"embedding":[1,`))
		}},
		{"slow", func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			e := NewHTTPEmbedder(HTTPConfig{Endpoint: server.URL, Timeout: 100 * time.Millisecond})
			if _, err := e.Embed(context.Background(), "x"); !errors.Is(err, ErrEmbeddingUnavailable) {
				t.Errorf("err = %v, want ErrEmbeddingUnavailable", err)
			}
		})
	}
}
