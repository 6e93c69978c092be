// Package xmlpath parses LCI XML responses and looks fields up by
// slash-separated child paths such as "currentInstance/string".
package xmlpath

import (
	"github.com/antchfx/xmlquery"
	"github.com/pkg/errors"
	"io"
	"regexp"
	"strings"
)

var (
	ErrBadPath = errors.New("malformed xml path")
	ErrNoRoot  = errors.New("xml document has no root element")
)

var nameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.\-]*(:[A-Za-z_][A-Za-z0-9_.\-]*)?$`)

// Parse reads a whole XML document and returns its root element.
func Parse(r io.Reader) (*xmlquery.Node, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, errors.Wrap(err, "parsing xml")
	}

	for n := doc.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == xmlquery.ElementNode {
			return n, nil
		}
	}

	return nil, errors.WithStack(ErrNoRoot)
}

// Find returns the first element, in document order, reached from node by
// following path one child level per segment. It returns nil when nothing
// matches.
func Find(node *xmlquery.Node, path string) (*xmlquery.Node, error) {
	segments, err := split(path)
	if err != nil {
		return nil, err
	}

	return find(node, segments), nil
}

// String returns the text of the element at path, or "" when the element is
// missing or doesn't start with text.
func String(node *xmlquery.Node, path string) (string, error) {
	n, err := Find(node, path)
	if err != nil || n == nil {
		return "", err
	}

	return leadingText(n), nil
}

// Children returns the immediate child elements of node called name.
func Children(node *xmlquery.Node, name string) []*xmlquery.Node {
	var out []*xmlquery.Node
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && nodeName(c) == name {
			out = append(out, c)
		}
	}
	return out
}

// FirstText returns the text carried by the first significant child of node:
// either that child's own text or, when the child is an element, the text it
// starts with.
func FirstText(node *xmlquery.Node) string {
	c := firstSignificant(node)
	if c == nil {
		return ""
	}

	if c.Type == xmlquery.ElementNode {
		return leadingText(c)
	}

	return textOf(c)
}

func split(path string) ([]string, error) {
	if path == "" {
		return nil, errors.Wrap(ErrBadPath, "empty path")
	}

	segments := strings.Split(path, "/")
	for _, s := range segments {
		if !nameRe.MatchString(s) {
			return nil, errors.Wrapf(ErrBadPath, "%q has invalid segment %q", path, s)
		}
	}

	return segments, nil
}

func find(node *xmlquery.Node, segments []string) *xmlquery.Node {
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode || nodeName(c) != segments[0] {
			continue
		}

		if len(segments) == 1 {
			return c
		}

		if found := find(c, segments[1:]); found != nil {
			return found
		}
	}

	return nil
}

func leadingText(n *xmlquery.Node) string {
	return textOf(firstSignificant(n))
}

func textOf(n *xmlquery.Node) string {
	if n == nil {
		return ""
	}

	switch n.Type {
	case xmlquery.TextNode, xmlquery.CharDataNode:
		return n.Data
	default:
		return ""
	}
}

// firstSignificant skips comments and whitespace-only text, the same nodes an
// XML DOM drops when it doesn't preserve whitespace.
func firstSignificant(n *xmlquery.Node) *xmlquery.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case xmlquery.CommentNode:
			continue
		case xmlquery.TextNode:
			if strings.TrimSpace(c.Data) == "" {
				continue
			}
		}
		return c
	}

	return nil
}

func nodeName(n *xmlquery.Node) string {
	if n.Prefix != "" {
		return n.Prefix + ":" + n.Data
	}
	return n.Data
}
