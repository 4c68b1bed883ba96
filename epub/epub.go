package epub

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"
)

// containerPath is the well-known location of the container descriptor.
const containerPath = "META-INF/container.xml"

// Archive is a read-only view of one opened EPUB package.
type Archive struct {
	zip      *zip.Reader
	closer   io.Closer // non-nil only when created via Open
	zipIndex map[string]*zip.File

	opfDir string

	resources map[string]Resource // manifest id -> resource
	byPath    map[string]string   // archive-root path -> manifest id
	spine     []string            // manifest ids in reading order
	toc       []NavPoint
}

// Open opens the EPUB file at the given filesystem path. The caller must
// call Close when done.
func Open(name string) (*Archive, error) {
	zrc, err := zip.OpenReader(name)
	if err != nil {
		return nil, fmt.Errorf("epub: open %s: %w", name, err)
	}

	a, err := initArchive(&zrc.Reader, zrc)
	if err != nil {
		zrc.Close()
		return nil, err
	}
	return a, nil
}

// NewReader creates an Archive from an io.ReaderAt with the given size.
// The caller owns the lifetime of r.
func NewReader(r io.ReaderAt, size int64) (*Archive, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("epub: open zip: %w", err)
	}
	return initArchive(zr, nil)
}

func initArchive(zr *zip.Reader, closer io.Closer) (*Archive, error) {
	a := &Archive{
		zip:      zr,
		closer:   closer,
		zipIndex: make(map[string]*zip.File, len(zr.File)),
	}
	for _, f := range zr.File {
		if _, exists := a.zipIndex[f.Name]; !exists {
			a.zipIndex[f.Name] = f
		}
	}

	opfPath, err := a.locateOPF()
	if err != nil {
		return nil, err
	}
	a.opfDir = path.Dir(opfPath)

	pkg, err := a.parseOPF(opfPath)
	if err != nil {
		return nil, err
	}

	if err := a.buildResources(pkg); err != nil {
		return nil, err
	}

	a.toc = a.parseTOC(pkg)

	return a, nil
}

// Close releases resources held by the Archive. Idempotent.
func (a *Archive) Close() error {
	if a.closer != nil {
		err := a.closer.Close()
		a.closer = nil
		return err
	}
	return nil
}

// locateOPF finds the OPF path from the container descriptor, falling back
// to scanning for a .opf entry when the descriptor is absent.
func (a *Archive) locateOPF() (string, error) {
	if f, ok := a.zipIndex[containerPath]; ok {
		data, err := readZipEntry(f)
		if err != nil {
			return "", fmt.Errorf("epub: read container.xml: %w", err)
		}

		var c containerXML
		if err := xml.Unmarshal(stripBOM(data), &c); err != nil {
			return "", fmt.Errorf("epub: parse container.xml: %v: %w", err, ErrInvalid)
		}

		var fallback string
		for _, rf := range c.RootFiles {
			fullPath := strings.TrimSpace(rf.FullPath)
			if fullPath == "" {
				continue
			}
			if strings.EqualFold(strings.TrimSpace(rf.MediaType), "application/oebps-package+xml") {
				return fullPath, nil
			}
			if fallback == "" {
				fallback = fullPath
			}
		}
		if fallback == "" {
			return "", fmt.Errorf("epub: container.xml has no usable rootfile: %w", ErrInvalid)
		}
		return fallback, nil
	}

	for _, f := range a.zip.File {
		if strings.HasSuffix(strings.ToLower(f.Name), ".opf") {
			return f.Name, nil
		}
	}
	return "", fmt.Errorf("epub: no container descriptor or OPF file found: %w", ErrInvalid)
}

func (a *Archive) parseOPF(opfPath string) (*opfPackage, error) {
	f, ok := a.zipIndex[opfPath]
	if !ok {
		return nil, fmt.Errorf("epub: OPF file missing from archive: %s: %w", opfPath, ErrInvalid)
	}
	data, err := readZipEntry(f)
	if err != nil {
		return nil, fmt.Errorf("epub: read OPF: %w", err)
	}

	var pkg opfPackage
	if err := xml.Unmarshal(stripBOM(normalizeEntities(data)), &pkg); err != nil {
		return nil, fmt.Errorf("epub: parse OPF: %v: %w", err, ErrInvalid)
	}
	if pkg.Version == "" {
		pkg.Version = "2.0"
	}
	return &pkg, nil
}

// buildResources fills the resource table and spine from the parsed OPF.
// Every spine idref must resolve against the manifest.
func (a *Archive) buildResources(pkg *opfPackage) error {
	a.resources = make(map[string]Resource, len(pkg.Manifest.Items))
	a.byPath = make(map[string]string, len(pkg.Manifest.Items))

	for _, item := range pkg.Manifest.Items {
		res := Resource{
			ID:        item.ID,
			Path:      a.resolveOPFPath(item.Href),
			MediaType: item.MediaType,
		}
		a.resources[item.ID] = res
		if _, exists := a.byPath[res.Path]; !exists {
			a.byPath[res.Path] = item.ID
		}
	}

	a.spine = make([]string, 0, len(pkg.Spine.ItemRefs))
	for _, ref := range pkg.Spine.ItemRefs {
		if _, ok := a.resources[ref.IDRef]; !ok {
			return fmt.Errorf("epub: spine references unknown manifest id %q: %w", ref.IDRef, ErrInvalid)
		}
		a.spine = append(a.spine, ref.IDRef)
	}
	return nil
}

// resolveOPFPath resolves a manifest href relative to the OPF directory,
// yielding an archive-root path.
func (a *Archive) resolveOPFPath(href string) string {
	if href == "" {
		return ""
	}
	if a.opfDir == "." {
		return href
	}
	return path.Join(a.opfDir, href)
}

// Resources returns the manifest table keyed by id.
func (a *Archive) Resources() map[string]Resource {
	return a.resources
}

// Spine returns the manifest ids in linear reading order.
func (a *Archive) Spine() []string {
	return a.spine
}

// TOC returns the normalized table-of-contents forest. Empty when the
// package carries no usable TOC source.
func (a *Archive) TOC() []NavPoint {
	return a.toc
}

// ResourceByPath looks up a resource by its archive-root path and returns
// it along with the entry's content bytes. Returns ErrFileNotFound when the
// path resolves to no manifest entry.
func (a *Archive) ResourceByPath(innerPath string) (Resource, []byte, error) {
	id, ok := a.byPath[innerPath]
	if !ok {
		return Resource{}, nil, ErrFileNotFound
	}

	res := a.resources[id]
	f, found := a.zipIndex[res.Path]
	if !found {
		return Resource{}, nil, ErrFileNotFound
	}
	data, err := readZipEntry(f)
	if err != nil {
		return Resource{}, nil, err
	}
	return res, data, nil
}

// SpineIndexByPath returns the position of the resource at innerPath within
// the spine, or -1 when the resource is absent from the spine.
func (a *Archive) SpineIndexByPath(innerPath string) int {
	id, ok := a.byPath[innerPath]
	if !ok {
		return -1
	}
	for i, sid := range a.spine {
		if sid == id {
			return i
		}
	}
	return -1
}
