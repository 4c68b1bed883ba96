package epub

// Resource is a single entry from the package manifest.
type Resource struct {
	// ID is the manifest identifier, unique within the archive.
	ID string

	// Path is the file path relative to the archive root.
	Path string

	// MediaType is the declared MIME type; may be empty.
	MediaType string
}

// NavPoint is one entry in the table-of-contents forest. Children are owned
// and ordered; depth is unbounded. The forest is built once per Open and
// never mutated.
type NavPoint struct {
	// Label is the display text of the entry.
	Label string

	// Href is the target path relative to the archive root, optionally
	// carrying a fragment ("ch01.xhtml#s2").
	Href string

	// Children are the nested entries, in source order.
	Children []NavPoint
}

// containerXML models META-INF/container.xml, used to locate the OPF.
type containerXML struct {
	RootFiles []rootFile `xml:"rootfiles>rootfile"`
}

type rootFile struct {
	FullPath  string `xml:"full-path,attr"`
	MediaType string `xml:"media-type,attr"`
}

// opfPackage represents the root <package> element of the OPF file.
type opfPackage struct {
	Version  string      `xml:"version,attr"`
	Manifest opfManifest `xml:"manifest"`
	Spine    opfSpine    `xml:"spine"`
}

type opfManifest struct {
	Items []opfManifestItem `xml:"item"`
}

type opfManifestItem struct {
	ID         string `xml:"id,attr"`
	Href       string `xml:"href,attr"`
	MediaType  string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr"`
}

type opfSpine struct {
	Toc      string            `xml:"toc,attr"`
	ItemRefs []opfSpineItemRef `xml:"itemref"`
}

type opfSpineItemRef struct {
	IDRef string `xml:"idref,attr"`
}

// ncxDocument represents the root <ncx> element of an EPUB 2 NCX file.
type ncxDocument struct {
	NavMap ncxNavMap `xml:"navMap"`
}

type ncxNavMap struct {
	NavPoints []ncxNavPoint `xml:"navPoint"`
}

type ncxNavPoint struct {
	Label    ncxNavLabel   `xml:"navLabel"`
	Content  ncxContent    `xml:"content"`
	Children []ncxNavPoint `xml:"navPoint"`
}

type ncxNavLabel struct {
	Text string `xml:"text"`
}

type ncxContent struct {
	Src string `xml:"src,attr"`
}
