package shelfserve_test

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// writeTestEPub writes a ZIP archive assembled from the files map
// (ZIP-internal path → content) into dir under the given name, with the
// mimetype entry first when present. It returns the file's path.
func writeTestEPub(t *testing.T, dir, name string, files map[string]string) string {
	t.Helper()

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	if mt, ok := files["mimetype"]; ok {
		fw, err := zw.Create("mimetype")
		if err != nil {
			t.Fatalf("writeTestEPub: create mimetype: %v", err)
		}
		if _, err := io.WriteString(fw, mt); err != nil {
			t.Fatalf("writeTestEPub: write mimetype: %v", err)
		}
	}
	for fname, content := range files {
		if fname == "mimetype" {
			continue
		}
		fw, err := zw.Create(fname)
		if err != nil {
			t.Fatalf("writeTestEPub: create %s: %v", fname, err)
		}
		if _, err := io.WriteString(fw, content); err != nil {
			t.Fatalf("writeTestEPub: write %s: %v", fname, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("writeTestEPub: close writer: %v", err)
	}

	fp := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(fp), 0o755); err != nil {
		t.Fatalf("writeTestEPub: mkdir: %v", err)
	}
	if err := os.WriteFile(fp, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("writeTestEPub: write file: %v", err)
	}
	return fp
}

// v2Files returns an EPUB 2 fixture: NCX TOC with a nested entry and a
// three-chapter spine.
func v2Files() map[string]string {
	return map[string]string{
		"mimetype": "application/epub+zip",
		"META-INF/container.xml": `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`,
		"OEBPS/content.opf": `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" version="2.0" unique-identifier="id">
  <metadata/>
  <manifest>
    <item id="ncx" href="toc.ncx" media-type="application/x-dtbncx+xml"/>
    <item id="ch1" href="ch1.xhtml" media-type="application/xhtml+xml"/>
    <item id="ch2" href="ch2.xhtml" media-type="application/xhtml+xml"/>
    <item id="ch3" href="ch3.xhtml" media-type="application/xhtml+xml"/>
    <item id="img1" href="images/pic.png" media-type="image/png"/>
    <item id="notes" href="notes.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine toc="ncx">
    <itemref idref="ch1"/>
    <itemref idref="ch2"/>
    <itemref idref="ch3"/>
  </spine>
</package>`,
		"OEBPS/toc.ncx": `<?xml version="1.0"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1">
  <navMap>
    <navPoint id="n1" playOrder="1">
      <navLabel><text>Chapter One</text></navLabel>
      <content src="ch1.xhtml"/>
      <navPoint id="n1a" playOrder="2">
        <navLabel><text>Section One A</text></navLabel>
        <content src="ch1.xhtml#s1"/>
      </navPoint>
    </navPoint>
    <navPoint id="n2" playOrder="3">
      <navLabel><text>Chapter Two</text></navLabel>
      <content src="ch2.xhtml"/>
    </navPoint>
  </navMap>
</ncx>`,
		"OEBPS/ch1.xhtml":      `<html><head><title>One</title></head><body><p>first chapter</p></body></html>`,
		"OEBPS/ch2.xhtml":      `<html><head><title>Two</title></head><body><p>second chapter</p></body></html>`,
		"OEBPS/ch3.xhtml":      `<html><head><title>Three</title></head><body><p>third chapter</p></body></html>`,
		"OEBPS/images/pic.png": "\x89PNG fake bytes",
		"OEBPS/notes.xhtml":    `<html><head><title>Notes</title></head><body><p>endnotes</p></body></html>`,
	}
}

// v3Files returns an EPUB 3 fixture whose TOC comes from a navigation
// document.
func v3Files() map[string]string {
	return map[string]string{
		"mimetype": "application/epub+zip",
		"META-INF/container.xml": `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="EPUB/package.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`,
		"EPUB/package.opf": `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0" unique-identifier="id">
  <metadata/>
  <manifest>
    <item id="nav" href="nav.xhtml" media-type="application/xhtml+xml" properties="nav"/>
    <item id="title" href="titlepage.xhtml" media-type="application/xhtml+xml"/>
    <item id="body" href="body.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine>
    <itemref idref="title"/>
    <itemref idref="nav"/>
    <itemref idref="body"/>
  </spine>
</package>`,
		"EPUB/nav.xhtml": `<!DOCTYPE html>
<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">
<body>
<nav epub:type="toc">
  <ol>
    <li><a href="titlepage.xhtml">Title Page</a></li>
    <li><a href="body.xhtml#part1">Part One</a>
      <ol>
        <li><a href="body.xhtml#part1ch1">Part One, Chapter One</a></li>
      </ol>
    </li>
  </ol>
</nav>
</body>
</html>`,
		"EPUB/titlepage.xhtml": `<html><head><title>Title</title></head><body><h1>title page</h1></body></html>`,
		"EPUB/body.xhtml":      `<html><head><title>Body</title></head><body><p>body text</p></body></html>`,
	}
}

// noTOCFiles returns a spine-only fixture: no NCX, no nav document.
func noTOCFiles() map[string]string {
	return map[string]string{
		"mimetype": "application/epub+zip",
		"META-INF/container.xml": `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`,
		"content.opf": `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" version="2.0" unique-identifier="id">
  <metadata/>
  <manifest>
    <item id="a" href="a.xhtml" media-type="application/xhtml+xml"/>
    <item id="b" href="b.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine>
    <itemref idref="a"/>
    <itemref idref="b"/>
  </spine>
</package>`,
		"a.xhtml": `<html><head><title>A</title></head><body><p>alpha</p></body></html>`,
		"b.xhtml": `<html><head><title>B</title></head><body><p>beta</p></body></html>`,
	}
}

// emptyFiles returns a fixture with neither a TOC nor a spine.
func emptyFiles() map[string]string {
	return map[string]string{
		"mimetype": "application/epub+zip",
		"META-INF/container.xml": `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`,
		"content.opf": `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" version="2.0" unique-identifier="id">
  <metadata/>
  <manifest/>
  <spine/>
</package>`,
	}
}
