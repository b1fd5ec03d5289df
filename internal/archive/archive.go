package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/xxxsen/mblog/internal/markdown"
	appErr "github.com/xxxsen/mblog/internal/pkg/errors"
)

const (
	// MaxArchiveSize caps uploaded ZIP payloads at 100MB.
	MaxArchiveSize = 100 * 1024 * 1024
	// MaxFileCount caps the number of entries in an uploaded archive.
	MaxFileCount = 1000
)

var junkNames = map[string]bool{
	".ds_store":   true,
	"thumbs.db":   true,
	"desktop.ini": true,
}

// ParseResult carries the extracted markdown files plus per-entry
// failures that did not abort the whole extraction.
type ParseResult struct {
	Files  []markdown.ParsedFile
	Errors []string
}

// Parse extracts every markdown file from the ZIP payload. A payload
// that cannot be opened as a ZIP fails with ErrArchive; a single entry
// that cannot be read is recorded and skipped.
func Parse(data []byte) (*ParseResult, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", appErr.ErrArchive, err)
	}
	result := &ParseResult{
		Files:  make([]markdown.ParsedFile, 0, len(reader.File)),
		Errors: make([]string, 0),
	}
	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}
		if isJunkEntry(file.Name) {
			continue
		}
		if !isMarkdownFile(file.Name) {
			continue
		}
		content, err := readEntry(file)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", file.Name, err))
			continue
		}
		fm, body := markdown.ParseFrontMatter(content)
		result.Files = append(result.Files, markdown.ParsedFile{
			Filename:     path.Base(file.Name),
			Content:      content,
			FrontMatter:  fm,
			Body:         body,
			RelativePath: file.Name,
			FolderPath:   path.Dir(file.Name),
		})
	}
	return result, nil
}

// Validate checks an upload before extraction and returns every reason
// it is unacceptable; an empty slice means the archive may be imported.
func Validate(data []byte, filename string) []string {
	reasons := make([]string, 0)
	if len(data) > MaxArchiveSize {
		reasons = append(reasons, "ZIP file exceeds maximum size (100MB)")
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".zip") {
		reasons = append(reasons, "File must be a ZIP archive")
	}
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		reasons = append(reasons, "File is not a valid ZIP archive")
		return reasons
	}
	total := 0
	markdownCount := 0
	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}
		total += 1
		if isJunkEntry(file.Name) {
			continue
		}
		if isMarkdownFile(file.Name) {
			markdownCount += 1
		}
	}
	if total > MaxFileCount {
		reasons = append(reasons, fmt.Sprintf("ZIP file contains too many files (maximum %d)", MaxFileCount))
	}
	if markdownCount == 0 {
		reasons = append(reasons, "ZIP file must contain at least one markdown file")
	}
	return reasons
}

func readEntry(file *zip.File) (string, error) {
	opened, err := file.Open()
	if err != nil {
		return "", err
	}
	defer opened.Close()
	content, err := io.ReadAll(opened)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

func isMarkdownFile(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	return ext == ".md" || ext == ".markdown"
}

// isJunkEntry filters OS metadata entries that ship inside archives
// produced by Finder and Explorer.
func isJunkEntry(name string) bool {
	lower := strings.ToLower(name)
	for _, segment := range strings.Split(lower, "/") {
		if segment == "__macosx" {
			return true
		}
		if junkNames[segment] {
			return true
		}
		if strings.HasPrefix(segment, "._") {
			return true
		}
	}
	return false
}
