package epub

import (
	"bytes"
	"encoding/xml"
	"strings"

	"golang.org/x/net/html"
)

// parseTOC normalizes whichever TOC source the package carries into one
// NavPoint forest. EPUB 3 packages prefer the navigation document and fall
// back to NCX; EPUB 2 packages only have NCX. A package with no usable
// source yields an empty forest, which is not an error.
func (a *Archive) parseTOC(pkg *opfPackage) []NavPoint {
	if strings.HasPrefix(pkg.Version, "3") {
		if toc, ok := a.parseNavDoc(pkg); ok {
			return toc
		}
	}
	if toc, ok := a.parseNCX(pkg); ok {
		return toc
	}
	return []NavPoint{}
}

// parseNCX reads the NCX file referenced by the spine's toc attribute.
func (a *Archive) parseNCX(pkg *opfPackage) ([]NavPoint, bool) {
	tocID := pkg.Spine.Toc
	if tocID == "" {
		return nil, false
	}
	res, ok := a.resources[tocID]
	if !ok {
		return nil, false
	}
	f, ok := a.zipIndex[res.Path]
	if !ok {
		return nil, false
	}
	data, err := readZipEntry(f)
	if err != nil {
		return nil, false
	}

	var doc ncxDocument
	if err := xml.Unmarshal(stripBOM(normalizeEntities(data)), &doc); err != nil {
		return nil, false
	}

	return convertNCXPoints(doc.NavMap.NavPoints, res.Path), true
}

// convertNCXPoints recursively converts navPoint elements, resolving each
// content src relative to the NCX file's location.
func convertNCXPoints(points []ncxNavPoint, ncxPath string) []NavPoint {
	if len(points) == 0 {
		return nil
	}
	out := make([]NavPoint, 0, len(points))
	for _, np := range points {
		nav := NavPoint{
			Label: strings.TrimSpace(np.Label.Text),
			Href:  resolveRelative(ncxPath, np.Content.Src),
		}
		nav.Children = convertNCXPoints(np.Children, ncxPath)
		out = append(out, nav)
	}
	return out
}

// parseNavDoc finds the manifest item with the "nav" property and parses it
// as an XHTML navigation document.
func (a *Archive) parseNavDoc(pkg *opfPackage) ([]NavPoint, bool) {
	var navPath string
	for _, item := range pkg.Manifest.Items {
		for _, prop := range strings.Fields(item.Properties) {
			if prop == "nav" {
				navPath = a.resolveOPFPath(item.Href)
				break
			}
		}
		if navPath != "" {
			break
		}
	}
	if navPath == "" {
		return nil, false
	}

	f, ok := a.zipIndex[navPath]
	if !ok {
		return nil, false
	}
	data, err := readZipEntry(f)
	if err != nil {
		return nil, false
	}

	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, false
	}

	tocNav := findTOCNav(doc)
	if tocNav == nil {
		return nil, false
	}
	ol := findChildElement(tocNav, "ol")
	if ol == nil {
		return nil, false
	}
	return parseNavList(ol, navPath), true
}

// findTOCNav locates the <nav epub:type="toc"> element.
func findTOCNav(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "nav" {
		for _, t := range strings.Fields(nodeAttr(n, "epub:type")) {
			if t == "toc" {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findTOCNav(c); found != nil {
			return found
		}
	}
	return nil
}

// parseNavList converts an <ol> element's <li> children into NavPoints.
func parseNavList(ol *html.Node, basePath string) []NavPoint {
	var out []NavPoint
	for c := ol.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "li" {
			out = append(out, parseNavItem(c, basePath))
		}
	}
	return out
}

// parseNavItem reads one <li>: the first <a> supplies label and target, a
// <span> supplies the label for non-linking headings, and a nested <ol>
// supplies children.
func parseNavItem(li *html.Node, basePath string) NavPoint {
	var nav NavPoint
	for c := li.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "a":
			if nav.Href == "" {
				nav.Href = resolveRelative(basePath, nodeAttr(c, "href"))
				nav.Label = strings.TrimSpace(nodeText(c))
			}
		case "span":
			if nav.Label == "" {
				nav.Label = strings.TrimSpace(nodeText(c))
			}
		case "ol":
			nav.Children = parseNavList(c, basePath)
		}
	}
	return nav
}

func nodeAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func findChildElement(n *html.Node, tag string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			return c
		}
		if found := findChildElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(nodeText(c))
	}
	return sb.String()
}
