package forge

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(url string) *Client {
	return NewClient(Config{WebhookURL: url, Timeout: 5 * time.Second})
}

func TestGenerate_Success(t *testing.T) {
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected json content type, got %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(Result{
			Status:   "success",
			ImageURL: "https://cdn.example.com/out.png",
		})
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).Generate(context.Background(), "a fox in the snow", "futuristic")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ImageURL != "https://cdn.example.com/out.png" {
		t.Errorf("unexpected image url %q", result.ImageURL)
	}
	if gotBody["mode"] != ModeGenerate {
		t.Errorf("expected mode=generate, got %q", gotBody["mode"])
	}
	if gotBody["idea"] != "a fox in the snow" || gotBody["style"] != "futuristic" {
		t.Errorf("unexpected payload %v", gotBody)
	}
}

func TestGenerate_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Generate(context.Background(), "idea", "futuristic")
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestGenerate_MissingImageURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Result{Status: "error", Message: "upstream model unavailable"})
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Generate(context.Background(), "idea", "futuristic")
	if err == nil {
		t.Fatal("expected error when imageUrl is absent")
	}
	if !strings.Contains(err.Error(), "imageUrl") {
		t.Errorf("expected imageUrl mentioned in error, got %v", err)
	}
}

func TestEdit_MultipartBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("mode"); got != ModeEdit {
			t.Errorf("expected mode=edit, got %q", got)
		}
		if got := r.FormValue("instruction"); got != "make it night" {
			t.Errorf("unexpected instruction %q", got)
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		if header.Filename != "photo.png" {
			t.Errorf("unexpected filename %q", header.Filename)
		}
		json.NewEncoder(w).Encode(Result{
			Status:   "success",
			ImageURL: "https://cdn.example.com/edited.png",
		})
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).Edit(
		context.Background(), "make it night", "photo.png", strings.NewReader("fake-image-bytes"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ImageURL != "https://cdn.example.com/edited.png" {
		t.Errorf("unexpected image url %q", result.ImageURL)
	}
}

func TestDo_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newTestClient(server.URL).Generate(ctx, "idea", "futuristic")
	if err == nil {
		t.Fatal("expected error on cancelled context")
	}
}
