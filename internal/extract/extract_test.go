package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeDocx builds a minimal but valid DOCX archive with one run per paragraph.
func writeDocx(t *testing.T, path string, paragraphs []string) {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	add := func(name, content string) {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}

	add("[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+
		`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`+
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`+
		`<Default Extension="xml" ContentType="application/xml"/>`+
		`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>`+
		`</Types>`)
	add("_rels/.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`+
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>`+
		`</Relationships>`)
	add("word/_rels/document.xml.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`)

	var body strings.Builder
	for _, p := range paragraphs {
		var escaped bytes.Buffer
		require.NoError(t, xml.EscapeText(&escaped, []byte(p)))
		body.WriteString("<w:p><w:r><w:t>" + escaped.String() + "</w:t></w:r></w:p>")
	}
	add("word/document.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">`+
		`<w:body>`+body.String()+`</w:body></w:document>`)

	require.NoError(t, w.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestReadAllIgnoresUnrecognizedExtensions(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "photo.png"), []byte{0x89}, 0o644))

	docs, stats := NewReader(nil).ReadAll([]string{dir})
	assert.Empty(t, docs)
	assert.Zero(t, stats.Matched)
}

func TestReadAllSkipsMissingAndNonDirectoryPaths(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain.docx")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	r := NewReader(nil)

	docs, _ := r.ReadAll(nil)
	assert.Empty(t, docs)

	docs, _ = r.ReadAll([]string{filepath.Join(t.TempDir(), "does-not-exist")})
	assert.Empty(t, docs)

	// a file path is not a directory and is skipped, not an error
	docs, _ = r.ReadAll([]string{file})
	assert.Empty(t, docs)
}

func TestReadAllIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"alice.docx", "broken.pdf", "carol.docx"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("placeholder"), 0o644))
	}

	r := NewReader(nil)
	r.Register("docx", func(path string) (string, error) { return "text of " + Stem(path), nil })
	r.Register("pdf", func(path string) (string, error) { return "", errors.New("decode failure") })

	docs, stats := r.ReadAll([]string{dir})
	require.Len(t, docs, 3)
	assert.Equal(t, uint32(3), stats.Matched)
	assert.Equal(t, uint32(2), stats.Succeeded)
	assert.Equal(t, uint32(1), stats.Failed)

	byName := map[string]Document{}
	for _, d := range docs {
		byName[d.Name] = d
	}
	assert.Equal(t, "text of alice", byName["alice"].Text)
	assert.Equal(t, "text of carol", byName["carol"].Text)
	assert.NotEmpty(t, byName["broken"].Err)
	assert.Contains(t, byName["broken"].Err, "decode failure")
	assert.Empty(t, byName["broken"].Text)
}

func TestReadAllMatchesExtensionsCaseInsensitively(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Resume.DOCX"), []byte("x"), 0o644))

	r := NewReader(nil)
	r.Register("docx", func(string) (string, error) { return "ok", nil })

	docs, _ := r.ReadAll([]string{dir})
	require.Len(t, docs, 1)
	assert.Equal(t, "Resume", docs[0].Name)
	assert.Equal(t, "docx", docs[0].Format)
	assert.Equal(t, "ok", docs[0].Text)
}

func TestReadAllCorruptFilesYieldErrorEntries(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.docx"), []byte("not a zip archive"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.pdf"), []byte("not a pdf either"), 0o644))
	writeDocx(t, filepath.Join(dir, "good.docx"), []string{"intact"})

	docs, stats := NewReader(nil).ReadAll([]string{dir})
	require.Len(t, docs, 3)
	assert.Equal(t, uint32(2), stats.Failed)
	assert.Equal(t, uint32(1), stats.Succeeded)

	for _, d := range docs {
		if d.Name == "good" {
			assert.Equal(t, "intact", d.Text)
			assert.Empty(t, d.Err)
		} else {
			assert.NotEmpty(t, d.Err, "corrupt %s should carry an error entry", d.Path)
		}
	}
}

func TestExtractDOCXJoinsParagraphsWithNewlines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.docx")
	writeDocx(t, path, []string{"Jane Doe", "Senior Gopher", "jane@example.com"})

	text, err := ExtractDOCX(path)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nSenior Gopher\njane@example.com", text)
}

func TestExtractDOCXPreservesNonASCII(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.docx")
	writeDocx(t, path, []string{"김철수", "Développeur"})

	text, err := ExtractDOCX(path)
	require.NoError(t, err)
	assert.Equal(t, "김철수\nDéveloppeur", text)
}

func TestExtractPDFRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.pdf")
	require.NoError(t, os.WriteFile(path, []byte("garbage bytes"), 0o644))

	_, err := ExtractPDF(path)
	assert.Error(t, err)
}

func TestNormalizeExt(t *testing.T) {
	assert.Equal(t, "docx", NormalizeExt(".DOCX"))
	assert.Equal(t, "pdf", NormalizeExt("pdf"))
	assert.Equal(t, "", NormalizeExt("."))
}

func TestStem(t *testing.T) {
	assert.Equal(t, "resume", Stem("resume.docx"))
	assert.Equal(t, "jane.doe", Stem(filepath.Join("dir", "jane.doe.pdf")))
}
