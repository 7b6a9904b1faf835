package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// DudenClient looks a word up on duden.de for the long-press popup. Lookup
// failure is never fatal: the caller renders a fixed fallback message.
type DudenClient struct {
	BaseURL string
	Client  *http.Client
}

func newDudenClient(baseURL string, timeout time.Duration) *DudenClient {
	return &DudenClient{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: timeout},
	}
}

// Lookup fetches and parses the entry page for a word.
func (dc *DudenClient) Lookup(ctx context.Context, word string) (*DictEntry, error) {
	clean := strings.ToLower(strings.TrimSpace(word))
	url := dc.BaseURL + "/rechtschreibung/" + clean

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; satzbau/1.0)")

	resp, err := dc.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duden returned status %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, err
	}

	entry := &DictEntry{Word: clean, SourceURL: url}
	entry.WordType = firstText(doc, func(n *html.Node) bool {
		return attrContains(n, "class", "tuple__val") || attrContains(n, "class", "wortart")
	})
	meanings := collectText(doc, 3, func(n *html.Node) bool {
		return n.Data == "li" && hasAncestor(n, func(a *html.Node) bool {
			return attrContains(a, "id", "bedeutung") || attrContains(a, "class", "bedeutung")
		})
	})
	entry.Definition = strings.Join(meanings, "; ")
	if entry.Definition == "" {
		entry.Definition = firstText(doc, func(n *html.Node) bool {
			return attrContains(n, "id", "bedeutung")
		})
	}
	entry.Examples = collectText(doc, 3, func(n *html.Node) bool {
		return n.Data == "li" && hasAncestor(n, func(a *html.Node) bool {
			return attrContains(a, "class", "note__list") || attrContains(a, "class", "beispiel")
		})
	})

	if entry.Definition == "" {
		return nil, fmt.Errorf("no definition found for %q", clean)
	}
	return entry, nil
}

// attrContains reports whether an element attribute contains a substring,
// mirroring a [attr*=value] selector.
func attrContains(n *html.Node, key, substr string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, a := range n.Attr {
		if a.Key == key && strings.Contains(strings.ToLower(a.Val), substr) {
			return true
		}
	}
	return false
}

func hasAncestor(n *html.Node, match func(*html.Node) bool) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if match(p) {
			return true
		}
	}
	return false
}

// firstText returns the trimmed text of the first matching element.
func firstText(doc *html.Node, match func(*html.Node) bool) string {
	found := collectText(doc, 1, match)
	if len(found) == 0 {
		return ""
	}
	return found[0]
}

// collectText walks the tree and gathers the text of up to limit matches.
func collectText(doc *html.Node, limit int, match func(*html.Node) bool) []string {
	var out []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if len(out) >= limit {
			return
		}
		if n.Type == html.ElementNode && match(n) {
			if t := strings.TrimSpace(nodeText(n)); t != "" {
				out = append(out, t)
			}
			// Matches are leaves for our purposes; nested matches would
			// duplicate their parent's text.
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
