// Package image turns files into data URIs for inline transmission in JSON.
//
// No validation is performed: any file is accepted and encoded, with its MIME
// type detected from content, then from the file extension.
package image

import (
	"encoding/base64"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
)

// DefaultMIMEType is used when neither content nor extension identify the file.
const DefaultMIMEType = "application/octet-stream"

// Pending is a file staged for the next outgoing message.
type Pending struct {
	Name     string // Base name of the source file
	MIMEType string
	Size     int
	DataURI  string
}

// Load reads path and encodes it as a data URI.
func Load(path string) (*Pending, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}

	mimeType := DetectMIMEType(path, data)

	return &Pending{
		Name:     filepath.Base(path),
		MIMEType: mimeType,
		Size:     len(data),
		DataURI:  EncodeDataURI(mimeType, data),
	}, nil
}

// EncodeDataURI returns data as "data:<mime>;base64,<payload>".
func EncodeDataURI(mimeType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

// DetectMIMEType determines the MIME type from magic bytes or extension.
func DetectMIMEType(path string, data []byte) string {
	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
		return kind.MIME.Value
	}

	if ext := strings.ToLower(filepath.Ext(path)); ext != "" {
		if byExt := mime.TypeByExtension(ext); byExt != "" {
			// Drop parameters such as "; charset=utf-8"
			mediaType, _, err := mime.ParseMediaType(byExt)
			if err == nil {
				return mediaType
			}
		}
	}

	return DefaultMIMEType
}
