package musicxml

import (
	"archive/zip"
	"fmt"
	"io"

	"github.com/beevik/etree"
)

const (
	MXLMimetype      = "application/vnd.recordare.musicxml"
	rootfileMimetype = "application/vnd.recordare.musicxml+xml"
	containerPath    = "META-INF/container.xml"
)

// WriteMXL packs doc into a compressed MusicXML container under name.
func WriteMXL(w io.Writer, doc *etree.Document, name string) error {
	zw := zip.NewWriter(w)

	// mimetype goes first and uncompressed
	mt, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		return err
	}
	if _, err := io.WriteString(mt, MXLMimetype); err != nil {
		return err
	}

	container := etree.NewDocument()
	container.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	rootfile := container.CreateElement("container").
		CreateElement("rootfiles").
		CreateElement("rootfile")
	rootfile.CreateAttr("full-path", name)
	rootfile.CreateAttr("media-type", rootfileMimetype)
	container.Indent(2)

	cw, err := zw.Create(containerPath)
	if err != nil {
		return err
	}
	if _, err := container.WriteTo(cw); err != nil {
		return err
	}

	rw, err := zw.Create(name)
	if err != nil {
		return err
	}
	if _, err := doc.WriteTo(rw); err != nil {
		return err
	}
	return zw.Close()
}

// ReadMXL opens a compressed MusicXML container and parses its root file.
func ReadMXL(r io.ReaderAt, size int64) (*etree.Document, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, err
	}

	data, ok, err := readZipFile(zr, containerPath)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoContainer
	}
	container := etree.NewDocument()
	if err := container.ReadFromBytes(data); err != nil {
		return nil, ErrInvalidContainer
	}

	rootPath, err := findRootfile(container)
	if err != nil {
		return nil, err
	}
	data, ok, err = readZipFile(zr, rootPath)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("musicxml: rootfile %q not in archive", rootPath)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, err
	}
	return doc, nil
}

func findRootfile(container *etree.Document) (string, error) {
	rootfiles := container.FindElements("//rootfiles/rootfile")
	for _, rf := range rootfiles {
		mediaType := rf.SelectAttrValue("media-type", "")
		fullPath := rf.SelectAttrValue("full-path", "")
		if (mediaType == rootfileMimetype || mediaType == "") && fullPath != "" {
			return fullPath, nil
		}
	}

	// If no media-type match, just take the first one
	if len(rootfiles) > 0 {
		if fullPath := rootfiles[0].SelectAttrValue("full-path", ""); fullPath != "" {
			return fullPath, nil
		}
	}
	return "", ErrNoRootfile
}

func readZipFile(zr *zip.Reader, name string) ([]byte, bool, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, true, err
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		return data, true, err
	}
	return nil, false, nil
}
