package normalize

import (
	"bytes"

	"golang.org/x/net/html"

	"pagemap/pmerrors"
)

// DefaultMaxHTMLBytes bounds the raw HTML accepted before any parsing
// is attempted, so a pathological page fails fast with a typed error
// rather than burning CPU on a multi-hundred-megabyte document.
const DefaultMaxHTMLBytes = 5 * 1024 * 1024

// DefaultMaxDOMNodes bounds the number of nodes the parsed tree may
// contain, checked during the walk so a node-bomb (deeply nested or
// extremely wide markup) is caught before downstream passes run.
const DefaultMaxDOMNodes = 50_000

// ParseOptions configures Parse's resource ceilings.
type ParseOptions struct {
	MaxHTMLBytes int
	MaxDOMNodes  int
}

func (o ParseOptions) defaults() ParseOptions {
	if o.MaxHTMLBytes <= 0 {
		o.MaxHTMLBytes = DefaultMaxHTMLBytes
	}
	if o.MaxDOMNodes <= 0 {
		o.MaxDOMNodes = DefaultMaxDOMNodes
	}
	return o
}

// Parse parses raw into a DOM tree, enforcing the byte and node-count
// ceilings in opts. Returns pmerrors.InputTooLargeError,
// pmerrors.ResourceExhaustedError, or pmerrors.MalformedHTMLError on
// failure.
func Parse(raw []byte, opts ParseOptions) (*html.Node, error) {
	opts = opts.defaults()
	if len(raw) > opts.MaxHTMLBytes {
		return nil, &pmerrors.InputTooLargeError{Bytes: len(raw), Limit: opts.MaxHTMLBytes}
	}

	doc, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, &pmerrors.MalformedHTMLError{Cause: err}
	}

	count := 0
	var exceeded bool
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if exceeded {
			return
		}
		count++
		if count > opts.MaxDOMNodes {
			exceeded = true
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
			if exceeded {
				return
			}
		}
	}
	walk(doc)
	if exceeded {
		return nil, &pmerrors.ResourceExhaustedError{Reason: "dom_nodes"}
	}

	return doc, nil
}
