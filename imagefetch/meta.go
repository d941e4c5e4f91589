package imagefetch

import (
	"encoding/json"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// FindImage parses an HTML document and returns the best preview image,
// resolved against base. JSON-LD wins over og:image, which wins over
// twitter:image. Placeholder JSON-LD images are ignored.
func FindImage(r io.Reader, base *url.URL) (string, bool) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", false
	}

	var jsonLD, og, twitter string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "meta":
				key := strings.ToLower(attr(n, "property"))
				if key == "" {
					key = strings.ToLower(attr(n, "name"))
				}
				content := strings.TrimSpace(attr(n, "content"))
				switch {
				case key == "og:image" && og == "":
					og = content
				case key == "twitter:image" && twitter == "":
					twitter = content
				}
			case "script":
				if jsonLD == "" && strings.EqualFold(attr(n, "type"), "application/ld+json") && n.FirstChild != nil {
					jsonLD = jsonLDImage(n.FirstChild.Data)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if strings.Contains(strings.ToLower(jsonLD), "placeholder") {
		jsonLD = ""
	}
	for _, candidate := range []string{jsonLD, og, twitter} {
		if candidate == "" {
			continue
		}
		ref, err := url.Parse(candidate)
		if err != nil {
			continue
		}
		return base.ResolveReference(ref).String(), true
	}
	return "", false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func jsonLDImage(raw string) string {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return ""
	}
	return findLDImage(v)
}

// findLDImage searches a decoded JSON-LD value for the first "image" entry or
// ImageObject url
func findLDImage(v any) string {
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if img := findLDImage(item); img != "" {
				return img
			}
		}
	case map[string]any:
		if typ, _ := t["@type"].(string); typ == "ImageObject" {
			if u, _ := t["url"].(string); u != "" {
				return u
			}
		}
		if img, ok := t["image"]; ok {
			if found := imageValue(img); found != "" {
				return found
			}
		}
		for k, child := range t {
			if k == "image" {
				continue
			}
			if img := findLDImage(child); img != "" {
				return img
			}
		}
	}
	return ""
}

func imageValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		for _, item := range t {
			if s := imageValue(item); s != "" {
				return s
			}
		}
	case map[string]any:
		if u, _ := t["url"].(string); u != "" {
			return u
		}
	}
	return ""
}
