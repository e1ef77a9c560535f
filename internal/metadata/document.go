// Package metadata reads and writes SAML metadata aggregates and exposes
// their entities as records for the processing pipeline.
package metadata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/beevik/etree"
	"golang.org/x/sync/errgroup"

	"github.com/dusk-indust/mdagg/internal/discovery"
	"github.com/dusk-indust/mdagg/internal/entity"
)

// ErrNotMetadata is returned for documents whose root is neither an
// md:EntitiesDescriptor nor an md:EntityDescriptor.
var ErrNotMetadata = errors.New("not a SAML metadata document")

// Document is a parsed metadata aggregate.
type Document struct {
	// Path is the file the document was loaded from, if any.
	Path string

	doc *etree.Document
}

// Parse reads a metadata document from data.
func Parse(data []byte) (*Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parse metadata: %w", err)
	}
	return newDocument(doc)
}

// Load reads a metadata document from a file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	d.Path = path
	return d, nil
}

// LoadAll loads every path concurrently. Documents are returned in argument
// order; the first failure cancels the remaining loads.
func LoadAll(ctx context.Context, paths []string) ([]*Document, error) {
	docs := make([]*Document, len(paths))
	g, gctx := errgroup.WithContext(ctx)

	for i, p := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			d, err := Load(p)
			if err != nil {
				return err
			}
			docs[i] = d
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

// Aggregate nests the roots of docs, in order, inside a new
// md:EntitiesDescriptor called name. The input documents must not be used
// afterwards: their elements now belong to the aggregate.
func Aggregate(name string, docs []*Document) *Document {
	out := etree.NewDocument()
	out.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := out.CreateElement("md:EntitiesDescriptor")
	root.CreateAttr("xmlns:md", NamespaceMD)
	if name != "" {
		root.CreateAttr("Name", name)
	}
	for _, d := range docs {
		if r := d.doc.Root(); r != nil {
			root.AddChild(r)
		}
	}
	return &Document{doc: out}
}

func newDocument(doc *etree.Document) (*Document, error) {
	root := doc.Root()
	if root == nil {
		return nil, ErrNotMetadata
	}
	if !isElement(root, NamespaceMD, "EntitiesDescriptor") && !isElement(root, NamespaceMD, "EntityDescriptor") {
		return nil, fmt.Errorf("%w: root element is {%s}%s", ErrNotMetadata, root.NamespaceURI(), root.Tag)
	}
	return &Document{doc: doc}, nil
}

// Sources returns one EntitySource per md:EntityDescriptor, in document
// order, including those inside nested md:EntitiesDescriptor groups.
func (d *Document) Sources() []*EntitySource {
	var out []*EntitySource
	var visit func(el *etree.Element)
	visit = func(el *etree.Element) {
		if isElement(el, NamespaceMD, "EntityDescriptor") {
			out = append(out, NewEntitySource(el))
			return
		}
		if !isElement(el, NamespaceMD, "EntitiesDescriptor") {
			return
		}
		for _, c := range el.ChildElements() {
			visit(c)
		}
	}
	if root := d.doc.Root(); root != nil {
		visit(root)
	}
	return out
}

// Records assembles one record per entity, in document order.
func (d *Document) Records() []*entity.Record {
	sources := d.Sources()
	generic := make([]entity.Source, len(sources))
	for i, s := range sources {
		generic[i] = s
	}
	return discovery.NewRecords(generic)
}

// Prune removes every md:EntityDescriptor not backing one of kept and
// returns how many were removed. A document whose root entity is dropped
// cannot be pruned.
func (d *Document) Prune(kept []*entity.Record) (int, error) {
	keep := make(map[*etree.Element]bool, len(kept))
	for _, r := range kept {
		if src, ok := r.Source.(*EntitySource); ok {
			keep[src.Element()] = true
		}
	}

	root := d.doc.Root()
	if root == nil {
		return 0, nil
	}
	if isElement(root, NamespaceMD, "EntityDescriptor") && !keep[root] {
		return 0, fmt.Errorf("prune: cannot remove root entity %s", root.SelectAttrValue("entityID", ""))
	}

	removed := 0
	Walk(root, func(el *etree.Element) {
		if el == root || !isElement(el, NamespaceMD, "EntityDescriptor") || keep[el] {
			return
		}
		if parent := el.Parent(); parent != nil {
			parent.RemoveChild(el)
			removed++
		}
	})
	return removed, nil
}

// WriteTo serializes the document with two-space indentation.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	d.doc.Indent(2)
	return d.doc.WriteTo(w)
}

// WriteFile serializes the document to path.
func (d *Document) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := d.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
