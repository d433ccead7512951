package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/couchcryptid/shoreline-analysis/internal/domain"
	"github.com/couchcryptid/shoreline-analysis/internal/pipeline"
)

// errBadForm marks malformed upload requests.
var errBadForm = errors.New("bad upload form")

const maxFormMemory = 8 << 20

// readUpload parses the multipart form. The returned func closes the
// uploaded file and removes any temporary files.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (pipeline.Upload, func(), error) {
	if s.opts.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	}
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return pipeline.Upload{}, nil, fmt.Errorf("upload exceeds %d bytes: %w", s.opts.MaxUploadBytes, err)
		}
		return pipeline.Upload{}, nil, fmt.Errorf("%w: %v", errBadForm, err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		_ = r.MultipartForm.RemoveAll()
		return pipeline.Upload{}, nil, fmt.Errorf("%w: a .csv or .xlsx file is required", errBadForm)
	}
	closeFile := func() {
		_ = file.Close()
		_ = r.MultipartForm.RemoveAll()
	}

	up := pipeline.Upload{
		Filename: header.Filename,
		Body:     file,
		Beach:    strings.TrimSpace(r.FormValue("beach")),
	}
	if v := strings.TrimSpace(r.FormValue("mode")); v != "" {
		mode, err := domain.ParseMode(v)
		if err != nil {
			closeFile()
			return pipeline.Upload{}, nil, err
		}
		up.Mode = mode
	}
	if v := strings.TrimSpace(r.FormValue("policy")); v != "" {
		policy, err := domain.ParsePolicy(v)
		if err != nil {
			closeFile()
			return pipeline.Upload{}, nil, err
		}
		up.Policy = policy
	}
	return up, closeFile, nil
}
