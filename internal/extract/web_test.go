package extract

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
  <title>Release Notes — v2.1</title>
  <style>body { color: red; }</style>
  <script>console.log("tracking");</script>
</head>
<body>
  <header>Site Header</header>
  <nav>Home | About</nav>
  <h1>Release Notes</h1>


  <p>The parser is faster now.</p>



  <p>Bug fixes included.</p>
  <footer>Copyright</footer>
</body>
</html>`

func TestWebExtractContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	w := NewWeb()
	text, err := w.ExtractContent(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("ExtractContent: %v", err)
	}

	for _, banned := range []string{"tracking", "color: red", "Site Header", "Home | About", "Copyright"} {
		if strings.Contains(text, banned) {
			t.Errorf("stripped element leaked into output: %q", banned)
		}
	}
	if !strings.Contains(text, "Release Notes") || !strings.Contains(text, "parser is faster") {
		t.Errorf("expected page content in output, got %q", text)
	}
	if strings.Contains(text, "\n\n\n") {
		t.Errorf("blank line runs not collapsed: %q", text)
	}

	if got := w.DocumentName(context.Background(), srv.URL, text); got != "Release Notes — v2.1" {
		t.Errorf("DocumentName() = %q", got)
	}
}

func TestWebNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	w := NewWeb()
	_, err := w.ExtractContent(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error")
	}
	if kind := extractKind(t, err); kind != KindNetworkFailure {
		t.Errorf("kind = %q, want %q", kind, KindNetworkFailure)
	}
}

func TestWebEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	w := NewWeb()
	_, err := w.ExtractContent(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error")
	}
	if kind := extractKind(t, err); kind != KindNoExtractableText {
		t.Errorf("kind = %q, want %q", kind, KindNoExtractableText)
	}
}

func TestWebUnreachableHost(t *testing.T) {
	w := NewWeb()
	_, err := w.ExtractContent(context.Background(), "http://127.0.0.1:1")
	if err == nil {
		t.Fatal("expected error")
	}
	if kind := extractKind(t, err); kind != KindNetworkFailure {
		t.Errorf("kind = %q, want %q", kind, KindNetworkFailure)
	}
}

func TestWebDocumentNameFallsBackToHost(t *testing.T) {
	w := NewWeb()
	if got := w.DocumentName(context.Background(), "https://example.org/page", ""); got != "example.org" {
		t.Errorf("DocumentName() = %q, want example.org", got)
	}
}
