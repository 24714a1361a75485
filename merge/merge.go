// Package merge joins per-page score-partwise documents into one score.
//
// Pages are folded in order. The first page is the base: its part list is
// kept and every later score-part whose id is not listed yet is appended to
// it. Parts are keyed by id and a later page replaces an earlier page's part
// with the same id. The merged document lists its parts in ascending id
// order, whatever order they arrived in.
package merge

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/beevik/etree"
	"github.com/jsphweid/scorexml/file"
	"github.com/jsphweid/scorexml/logger"
	"github.com/jsphweid/scorexml/musicxml"
	"github.com/jsphweid/scorexml/util"
	"github.com/spf13/afero"
)

var (
	ErrNothingToMerge = errors.New("merge: nothing to merge")
	ErrMalformedPage  = errors.New("merge: malformed page document")
)

type Page struct {
	Path string
	Doc  *etree.Document
}

type Result struct {
	Doc   *etree.Document
	Pages []string
	Parts []string
}

// Load parses every page, in the given order. A page that cannot be parsed
// fails the whole load.
func Load(ctx context.Context, fs afero.Fs, paths []string) ([]Page, error) {
	if len(paths) == 0 {
		return nil, ErrNothingToMerge
	}
	log := logger.FromContext(ctx)

	pages := make([]Page, 0, len(paths))
	for _, path := range paths {
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return nil, fmt.Errorf("could not read page %s: %w", path, err)
		}
		doc, err := Parse(data, path)
		if err != nil {
			return nil, err
		}
		log.Debug("loaded page", "path", path)
		pages = append(pages, Page{Path: path, Doc: doc})
	}
	return pages, nil
}

// Parse reads one page document. Names ending in .mxl are read as
// compressed containers.
func Parse(data []byte, name string) (*etree.Document, error) {
	var doc *etree.Document
	if file.HasPageSuffix(name, ".mxl") {
		d, err := musicxml.ReadMXL(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedPage, name, err)
		}
		doc = d
	} else {
		doc = etree.NewDocument()
		if err := doc.ReadFromBytes(data); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedPage, name, err)
		}
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("%w: %s: no root element", ErrMalformedPage, name)
	}
	var roots int
	for _, t := range doc.Child {
		if _, ok := t.(*etree.Element); ok {
			roots++
		}
	}
	if roots > 1 {
		return nil, fmt.Errorf("%w: %s: content after the document element", ErrMalformedPage, name)
	}
	return doc, nil
}

// Documents folds pages into the first page's document and returns it. The
// later pages give up the elements that move into the result.
func Documents(pages []Page) (*etree.Document, error) {
	if len(pages) == 0 {
		return nil, ErrNothingToMerge
	}

	base := pages[0].Doc
	root := base.Root()
	partList := ensurePartList(root)

	parts := make(map[string]*etree.Element)
	collectParts(root, parts)

	for _, page := range pages[1:] {
		sub := page.Doc.Root()
		for _, scorePart := range sub.FindElements(".//score-part") {
			if !hasScorePart(partList, partID(scorePart)) {
				partList.AddChild(scorePart)
			}
		}
		collectParts(sub, parts)
	}

	for _, old := range root.SelectElements("part") {
		root.RemoveChild(old)
	}
	for _, id := range util.SortedKeys(parts) {
		root.AddChild(parts[id])
	}
	return base, nil
}

// Serialize writes doc with an XML declaration, keeping its namespace
// declaration and any doctype. doc itself is left untouched.
func Serialize(doc *etree.Document) ([]byte, error) {
	src := doc.Copy()
	out := etree.NewDocument()
	out.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	for _, t := range src.Child {
		if d, ok := t.(*etree.Directive); ok {
			out.CreateDirective(d.Data)
		}
	}
	out.SetRoot(src.Root())
	out.Indent(2)
	return out.WriteToBytes()
}

// Dir merges the page documents found in dir, in filename order, and writes
// the result to out. out and its .mxl sibling are skipped when they live in
// dir itself.
func Dir(ctx context.Context, fs afero.Fs, dir, out string, suffixes ...string) (*Result, error) {
	found, err := file.GatherPagePaths(fs, dir, suffixes...)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, p := range found {
		if !file.IsOutput(p, out) {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no %v files in %s", ErrNothingToMerge, suffixes, dir)
	}
	return Files(ctx, fs, paths, out)
}

// Files merges the given pages in the given order and writes the result to
// out. Nothing is written unless every page loads.
func Files(ctx context.Context, fs afero.Fs, paths []string, out string) (*Result, error) {
	log := logger.FromContext(ctx)

	pages, err := Load(ctx, fs, paths)
	if err != nil {
		return nil, err
	}
	doc, err := Documents(pages)
	if err != nil {
		return nil, err
	}
	data, err := Serialize(doc)
	if err != nil {
		return nil, fmt.Errorf("could not serialize combined document: %w", err)
	}
	if err := util.WriteFileFresh(fs, out, data); err != nil {
		return nil, err
	}

	res := &Result{Doc: doc, Pages: paths, Parts: PartIDs(doc)}
	log.Info("wrote combined document", "path", out, "pages", len(paths), "parts", len(res.Parts))
	return res, nil
}

// PartIDs lists the ids of doc's parts in document order.
func PartIDs(doc *etree.Document) []string {
	var ids []string
	for _, p := range doc.Root().SelectElements("part") {
		ids = append(ids, partID(p))
	}
	return ids
}

func ensurePartList(root *etree.Element) *etree.Element {
	if partList := root.SelectElement("part-list"); partList != nil {
		return partList
	}
	partList := etree.NewElement("part-list")
	if first := root.SelectElement("part"); first != nil {
		root.InsertChildAt(first.Index(), partList)
	} else {
		root.AddChild(partList)
	}
	return partList
}

func collectParts(root *etree.Element, parts map[string]*etree.Element) {
	for _, p := range root.SelectElements("part") {
		parts[partID(p)] = p
	}
}

func hasScorePart(partList *etree.Element, id string) bool {
	for _, sp := range partList.SelectElements("score-part") {
		if partID(sp) == id {
			return true
		}
	}
	return false
}

func partID(e *etree.Element) string {
	return e.SelectAttrValue("id", "")
}
