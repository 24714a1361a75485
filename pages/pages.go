// Package pages builds and writes the per-page documents of a multi-page
// score.
package pages

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"github.com/jsphweid/scorexml/constants"
	"github.com/jsphweid/scorexml/file"
	"github.com/jsphweid/scorexml/logger"
	"github.com/jsphweid/scorexml/model"
	"github.com/jsphweid/scorexml/musicxml"
	"github.com/jsphweid/scorexml/util"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

type BuildOptions struct {
	// OctaveSafe renders every page against the staffs of all pages, so
	// one octave shift applies to the whole combined score.
	OctaveSafe bool

	// Parallel caps concurrent page builds; 0 means no limit.
	Parallel int
}

// Build renders one document per score. Pages are independent and built
// concurrently; the result keeps input order.
func Build(ctx context.Context, b *musicxml.Builder, scores []model.Score, opts BuildOptions) ([]*etree.Document, error) {
	var siblings []model.Staff
	if opts.OctaveSafe {
		for _, s := range scores {
			siblings = append(siblings, s.Staffs...)
		}
	}

	docs := make([]*etree.Document, len(scores))
	g, gctx := errgroup.WithContext(ctx)
	if opts.Parallel > 0 {
		g.SetLimit(opts.Parallel)
	}
	for i, score := range scores {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			doc, err := b.GenerateDocument(score, siblings)
			if err != nil {
				return fmt.Errorf("page %d: %w", i+1, err)
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

// Write stores docs in dir as page_001<suffix>, page_002<suffix>, ... and,
// with mxl set, a compressed .mxl next to each. The uncompressed documents
// never take the .mxl suffix; they fall back to .musicxml. It returns the paths of the
// uncompressed documents in page order.
func Write(ctx context.Context, fs afero.Fs, docs []*etree.Document, dir, suffix string, mxl bool) ([]string, error) {
	log := logger.FromContext(ctx)
	if suffix == "" || file.HasPageSuffix(suffix, ".mxl") {
		suffix = constants.PageSuffix
	}

	paths := make([]string, 0, len(docs))
	for i, doc := range docs {
		name := file.PageFilename(i, suffix)
		path := filepath.Join(dir, name)

		data, err := doc.WriteToBytes()
		if err != nil {
			return nil, fmt.Errorf("could not serialize %s: %w", name, err)
		}
		if err := util.WriteFileFresh(fs, path, data); err != nil {
			return nil, err
		}
		log.Debug("wrote page", "path", path)
		paths = append(paths, path)

		if mxl {
			if err := WriteMXL(fs, doc, file.MXLPath(path)); err != nil {
				return nil, err
			}
		}
	}
	return paths, nil
}

func WriteMXL(fs afero.Fs, doc *etree.Document, path string) error {
	var buf bytes.Buffer
	root := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".musicxml"
	if err := musicxml.WriteMXL(&buf, doc, root); err != nil {
		return fmt.Errorf("could not pack %s: %w", path, err)
	}
	return util.WriteFileFresh(fs, path, buf.Bytes())
}
