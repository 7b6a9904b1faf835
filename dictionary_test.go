package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const dudenFixture = `<!DOCTYPE html>
<html><body>
<article>
  <dl class="tuple">
    <dt class="tuple__key">Wortart:</dt>
    <dd class="tuple__val">schwaches Verb</dd>
  </dl>
  <div id="bedeutungen">
    <ol>
      <li>der Meinung sein, annehmen</li>
      <li>f&uuml;r wahr halten
        <ul class="note__list">
          <li>ich glaube ihm kein Wort</li>
          <li>das glaube ich gern</li>
        </ul>
      </li>
    </ol>
  </div>
</body></html>`

func newDudenTestServer(t *testing.T, handler http.HandlerFunc) *DudenClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return newDudenClient(srv.URL, 2*time.Second)
}

func TestLookupParsesEntry(t *testing.T) {
	var gotPath, gotUA string
	dc := newDudenTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprint(w, dudenFixture)
	})

	entry, err := dc.Lookup(context.Background(), " Glauben ")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if gotPath != "/rechtschreibung/glauben" {
		t.Errorf("path = %s, want lowercased trimmed word", gotPath)
	}
	if gotUA == "" {
		t.Error("lookup must send a user agent")
	}
	if entry.Word != "glauben" {
		t.Errorf("word = %q", entry.Word)
	}
	if entry.WordType != "schwaches Verb" {
		t.Errorf("word type = %q", entry.WordType)
	}
	if !strings.Contains(entry.Definition, "der Meinung sein") {
		t.Errorf("definition = %q", entry.Definition)
	}
	if len(entry.Examples) == 0 || entry.Examples[0] != "ich glaube ihm kein Wort" {
		t.Errorf("examples = %v", entry.Examples)
	}
	if !strings.HasSuffix(entry.SourceURL, "/rechtschreibung/glauben") {
		t.Errorf("source url = %q", entry.SourceURL)
	}
}

func TestLookupNotFound(t *testing.T) {
	dc := newDudenTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	if _, err := dc.Lookup(context.Background(), "xyzzy"); err == nil {
		t.Error("404 should surface as an error")
	}
}

func TestLookupWithoutDefinitionFails(t *testing.T) {
	dc := newDudenTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><p>Keine Treffer</p></body></html>`)
	})
	if _, err := dc.Lookup(context.Background(), "wort"); err == nil {
		t.Error("page without a definition block should be an error")
	}
}

func TestLookupHonorsContext(t *testing.T) {
	dc := newDudenTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		fmt.Fprint(w, dudenFixture)
	})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := dc.Lookup(ctx, "wort"); err == nil {
		t.Error("cancelled context should abort the lookup")
	}
}
