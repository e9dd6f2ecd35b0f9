package apitest

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
)

const maxRecordedBody = 32 << 20

type RecordedFile struct {
	Field       string
	Filename    string
	ContentType string
	Size        int
}

// RecordedRequest is what the fake API saw for one call.
type RecordedRequest struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
	ContentType   string
	Body          []byte
	Fields        map[string]string
	Files         []RecordedFile
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := RecordedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get(requestIDHeader),
			ContentType:   r.Header.Get("Content-Type"),
		}

		if r.Body != nil {
			raw, err := io.ReadAll(io.LimitReader(r.Body, maxRecordedBody))
			_ = r.Body.Close()
			if err == nil {
				rec.Body = raw
				rec.Fields, rec.Files = parseMultipart(rec.ContentType, raw)
			}
			r.Body = io.NopCloser(bytes.NewReader(raw))
		}

		s.mu.Lock()
		s.requests = append(s.requests, rec)
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func parseMultipart(contentType string, raw []byte) (map[string]string, []RecordedFile) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		return nil, nil
	}

	fields := map[string]string{}
	var files []RecordedFile

	reader := multipart.NewReader(bytes.NewReader(raw), params["boundary"])
	for {
		part, err := reader.NextPart()
		if err != nil {
			break
		}

		content, _ := io.ReadAll(part)
		if part.FileName() != "" {
			files = append(files, RecordedFile{
				Field:       part.FormName(),
				Filename:    part.FileName(),
				ContentType: part.Header.Get("Content-Type"),
				Size:        len(content),
			})
			continue
		}

		fields[part.FormName()] = string(content)
	}

	return fields, files
}

func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the latest request whose path ends with path.
func (s *Server) LastRequest(path string) (RecordedRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.requests) - 1; i >= 0; i-- {
		if strings.HasSuffix(s.requests[i].Path, path) {
			return s.requests[i], true
		}
	}

	return RecordedRequest{}, false
}

// CountRequests counts the requests whose path ends with path.
func (s *Server) CountRequests(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, req := range s.requests {
		if strings.HasSuffix(req.Path, path) {
			n++
		}
	}

	return n
}
