package fetch

import (
	"strings"

	"golang.org/x/net/html"
)

// Small node-walking helpers over x/net/html parse trees. The manufacturer
// pages are server-rendered and stable, so plain traversal beats pulling in
// a CSS selector engine.

func walk(n *html.Node, fn func(*html.Node) bool) bool {
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attrVal(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func isElement(n *html.Node, tag string) bool {
	return n.Type == html.ElementNode && n.Data == tag
}

// elementsBy collects elements matching the predicate in document order.
func elementsBy(root *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

func firstElement(root *html.Node, match func(*html.Node) bool) *html.Node {
	var found *html.Node
	walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && match(n) {
			found = n
			return false
		}
		return true
	})
	return found
}

// textContent concatenates all text beneath n, trimmed.
func textContent(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
		return true
	})
	return strings.TrimSpace(sb.String())
}

// tableAfterID finds the first <table> that follows the element carrying
// the given id, scanning its later siblings and their subtrees. This is the
// "#spec ~ table" shape the spec pages use.
func tableAfterID(root *html.Node, id string) *html.Node {
	anchor := firstElement(root, func(n *html.Node) bool {
		return attrVal(n, "id") == id
	})
	if anchor == nil {
		return nil
	}
	for sib := anchor.NextSibling; sib != nil; sib = sib.NextSibling {
		if sib.Type != html.ElementNode {
			continue
		}
		if isElement(sib, "table") {
			return sib
		}
		if t := firstElement(sib, func(n *html.Node) bool { return isElement(n, "table") }); t != nil {
			return t
		}
	}
	return nil
}

// tableRows extracts (key, value) cell pairs from a spec table. With
// keyTag "th" the row shape is th/td; with "td" the first cell is the key
// and the last the value. Rows that do not reduce to one key and one value
// are skipped.
func tableRows(table *html.Node, keyTag string) [][2]string {
	var pairs [][2]string
	for _, tr := range elementsBy(table, func(n *html.Node) bool { return isElement(n, "tr") }) {
		ths := elementsBy(tr, func(n *html.Node) bool { return isElement(n, "th") })
		tds := elementsBy(tr, func(n *html.Node) bool { return isElement(n, "td") })

		var key, val *html.Node
		switch keyTag {
		case "th":
			if len(ths) == 1 && len(tds) >= 1 {
				key, val = ths[0], tds[len(tds)-1]
			}
		case "td":
			if len(tds) >= 2 {
				key, val = tds[0], tds[len(tds)-1]
			}
		}
		if key != nil {
			pairs = append(pairs, [2]string{textContent(key), textContent(val)})
		}
	}
	return pairs
}
