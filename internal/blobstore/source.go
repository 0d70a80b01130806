package blobstore

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// openAssetSource turns a local asset reference into a readable body plus
// content type. Two input shapes are accepted:
//
//   - file://<path> (and content://, resolved through the cache dir by the
//     host before it reaches us), streamed from disk;
//   - data:<mediatype>;base64,<payload>, decoded in memory (signatures).
func openAssetSource(localURI string) (io.ReadCloser, string, error) {
	if strings.HasPrefix(localURI, "data:") {
		return openInlineSource(localURI)
	}

	u, err := url.Parse(localURI)
	if err != nil {
		return nil, "", fmt.Errorf("parse asset uri: %w", err)
	}
	if u.Scheme != "file" {
		return nil, "", fmt.Errorf("unsupported asset scheme %q", u.Scheme)
	}

	f, err := os.Open(u.Path)
	if err != nil {
		return nil, "", fmt.Errorf("open asset %s: %w", u.Path, err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(u.Path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return f, contentType, nil
}

func openInlineSource(uri string) (io.ReadCloser, string, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, "", fmt.Errorf("not a data uri")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", fmt.Errorf("malformed data uri")
	}

	contentType, isBase64 := strings.CutSuffix(meta, ";base64")
	if contentType == "" {
		contentType = "text/plain"
	}

	var data []byte
	if isBase64 {
		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, "", fmt.Errorf("decode data uri payload: %w", err)
		}
		data = decoded
	} else {
		unescaped, err := url.QueryUnescape(payload)
		if err != nil {
			return nil, "", fmt.Errorf("unescape data uri payload: %w", err)
		}
		data = []byte(unescaped)
	}

	return io.NopCloser(bytes.NewReader(data)), contentType, nil
}
