package extract

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFetch_ReturnsTitleAndText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Article</title></head>
		<body><script>skip()</script><p>Body text here.</p></body></html>`))
	}))
	defer srv.Close()

	page, err := NewFetcher(5*time.Second).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Title != "Article" {
		t.Fatalf("Title = %q", page.Title)
	}
	if !strings.Contains(page.Text, "Body text here.") {
		t.Fatalf("Text = %q", page.Text)
	}
	if strings.Contains(page.Text, "skip()") {
		t.Fatal("script content leaked into text")
	}
}

func TestFetch_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	if _, err := NewFetcher(5*time.Second).Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for 404")
	}
}

func TestFetch_EmptyPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><script>nothing()</script></body></html>`))
	}))
	defer srv.Close()

	_, err := NewFetcher(5*time.Second).Fetch(context.Background(), srv.URL)
	if !errors.Is(err, ErrNoContent) {
		t.Fatalf("err = %v, want ErrNoContent", err)
	}
}
