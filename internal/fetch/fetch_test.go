package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
<title>Recipe of the Day</title>
<script>var tracking = true;</script>
<style>body { color: red; }</style>
</head>
<body>
<nav>Home | About | Contact</nav>
<article>
<h1>Ratatouille</h1>
<p>Slice the vegetables thinly and layer them in a dish.</p>
<ul><li>aubergine</li><li>courgette</li></ul>
</article>
<footer>Copyright 2026</footer>
</body>
</html>`

func TestFetchHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	result, err := New().Fetch(context.Background(), srv.URL, 0)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if result.Title != "Recipe of the Day" {
		t.Errorf("title = %q", result.Title)
	}
	if !strings.Contains(result.Content, "Slice the vegetables") {
		t.Errorf("content missing article text:\n%s", result.Content)
	}
	if !strings.Contains(result.Content, "aubergine") {
		t.Errorf("content missing list items:\n%s", result.Content)
	}
	for _, boilerplate := range []string{"tracking", "color: red", "Home | About", "Copyright"} {
		if strings.Contains(result.Content, boilerplate) {
			t.Errorf("content includes boilerplate %q:\n%s", boilerplate, result.Content)
		}
	}
	if result.StatusCode != http.StatusOK {
		t.Errorf("status = %d", result.StatusCode)
	}
}

func TestFetchPlainText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("just plain text"))
	}))
	defer srv.Close()

	result, err := New().Fetch(context.Background(), srv.URL, 0)
	if err != nil {
		t.Fatal(err)
	}
	if result.Content != "just plain text" {
		t.Errorf("content = %q", result.Content)
	}
}

func TestFetchTruncation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte(strings.Repeat("a", 500)))
	}))
	defer srv.Close()

	result, err := New().Fetch(context.Background(), srv.URL, 100)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Truncated {
		t.Error("expected truncation")
	}
	if len(result.Content) != 100 {
		t.Errorf("content length = %d", len(result.Content))
	}
}

func TestFetchBinaryContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write([]byte{0xff, 0xfe, 0x00, 0x01})
	}))
	defer srv.Close()

	result, err := New().Fetch(context.Background(), srv.URL, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(result.Content, "Binary content") {
		t.Errorf("content = %q", result.Content)
	}
}

func TestFetchEmptyURL(t *testing.T) {
	if _, err := New().Fetch(context.Background(), "", 0); err == nil {
		t.Fatal("expected error for empty URL")
	}
}

func TestTruncateUTF8(t *testing.T) {
	s := "héllo wörld"
	got := truncateUTF8(s, 6)
	if !strings.HasPrefix(s, got) {
		t.Errorf("truncateUTF8 broke the string: %q", got)
	}
	for _, r := range got {
		if r == '\uFFFD' {
			t.Errorf("truncateUTF8 split a rune: %q", got)
		}
	}
}

func TestCleanWhitespace(t *testing.T) {
	got := cleanWhitespace("a   b\n\n\n\nc")
	if got != "a b\n\nc" {
		t.Errorf("cleanWhitespace = %q", got)
	}
}
