package transport

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"sort"
	"strings"
	"time"
)

// Encoding selects how Request.Fields and Request.Files are sent in the request body.
type Encoding int

const (
	// NoBody sends no request body.
	NoBody Encoding = iota
	// FormEncoded sends Fields as application/x-www-form-urlencoded. Files are not allowed.
	FormEncoded
	// Multipart sends Fields and Files as multipart/form-data.
	Multipart
)

func (e Encoding) String() string {
	switch e {
	case FormEncoded:
		return "form"
	case Multipart:
		return "multipart"
	default:
		return "none"
	}
}

// FilePart is a file attached to a multipart request.
type FilePart struct {
	FieldName   string
	FileName    string
	ContentType string
	Content     []byte
}

// Request describes one call to the service under test. Path is relative to the
// client's base URL.
type Request struct {
	Method   string
	Path     string
	Encoding Encoding
	Fields   map[string]string
	Files    []FilePart
	Timeout  time.Duration
}

// Get is a shortcut for a GET request with no body.
func Get(path string, timeout time.Duration) Request {
	return Request{Method: "GET", Path: path, Timeout: timeout}
}

// PostForm is a shortcut for a form-encoded POST request.
func PostForm(path string, fields map[string]string, timeout time.Duration) Request {
	return Request{Method: "POST", Path: path, Encoding: FormEncoded, Fields: fields, Timeout: timeout}
}

// PostMultipart is a shortcut for a multipart POST request.
func PostMultipart(path string, fields map[string]string, files []FilePart, timeout time.Duration) Request {
	return Request{Method: "POST", Path: path, Encoding: Multipart, Fields: fields, Files: files, Timeout: timeout}
}

func (r Request) String() string {
	return fmt.Sprintf("%s %s (%s)", r.Method, r.Path, r.Encoding)
}

// encodeBody returns the body reader and content type for the request.
func (r Request) encodeBody() (io.Reader, string, error) {
	switch r.Encoding {
	case NoBody:
		if len(r.Fields) != 0 || len(r.Files) != 0 {
			return nil, "", fmt.Errorf("request %s has fields or files but no body encoding", r)
		}
		return nil, "", nil
	case FormEncoded:
		if len(r.Files) != 0 {
			return nil, "", fmt.Errorf("request %s: files cannot be sent form-encoded", r)
		}
		values := make(url.Values)
		for k, v := range r.Fields {
			values.Set(k, v)
		}
		return strings.NewReader(values.Encode()), "application/x-www-form-urlencoded", nil
	case Multipart:
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		for _, k := range sortedKeys(r.Fields) {
			if err := w.WriteField(k, r.Fields[k]); err != nil {
				return nil, "", err
			}
		}
		for _, f := range r.Files {
			if err := writeFilePart(w, f); err != nil {
				return nil, "", err
			}
		}
		if err := w.Close(); err != nil {
			return nil, "", err
		}
		return &buf, w.FormDataContentType(), nil
	default:
		return nil, "", fmt.Errorf("unknown body encoding %d", r.Encoding)
	}
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// writeFilePart differs from multipart.Writer.CreateFormFile in that it sets the part's
// own content type instead of always using application/octet-stream.
func writeFilePart(w *multipart.Writer, f FilePart) error {
	fieldName := f.FieldName
	if fieldName == "" {
		fieldName = "file"
	}
	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(fieldName), quoteEscaper.Replace(f.FileName)))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = part.Write(f.Content)
	return err
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
