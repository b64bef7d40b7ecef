package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joseph-ayodele/condo-contacts/constants"
)

// upload is a multipart file saved to disk. Remove must be deferred by the caller.
type upload struct {
	Path string
	Name string
}

func (u upload) Remove() {
	if u.Path != "" {
		_ = os.Remove(u.Path)
	}
}

// parseUploads reads the multipart body once, capped at MaxUploadMB.
func (s *Server) parseUploads(w http.ResponseWriter, r *http.Request) error {
	limit := s.cfg.MaxUploadMB << 20
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return badRequest("UPLOAD_TOO_LARGE", fmt.Sprintf("arquivos excedem %d MB", s.cfg.MaxUploadMB))
		}
		return badRequest("BAD_MULTIPART", "envie os PDFs como multipart/form-data")
	}
	return nil
}

// saveUpload copies the multipart file field into UploadDir.
func (s *Server) saveUpload(r *http.Request, field string) (upload, error) {
	f, hdr, err := r.FormFile(field)
	if err != nil {
		return upload{}, badRequest("MISSING_FILE", fmt.Sprintf("arquivo %q é obrigatório", field))
	}
	defer f.Close()

	if ext := constants.NormalizeExt(filepath.Ext(hdr.Filename)); ext != "" {
		if _, ok := constants.AllowedExtensions[ext]; !ok {
			return upload{}, badRequest("NOT_PDF", fmt.Sprintf("arquivo %q precisa ser PDF", field))
		}
	}

	dir := s.cfg.UploadDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return upload{}, fmt.Errorf("upload dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, field+"-*.pdf")
	if err != nil {
		return upload{}, fmt.Errorf("create temp file: %w", err)
	}
	u := upload{Path: tmp.Name(), Name: hdr.Filename}
	if _, err := io.Copy(tmp, f); err != nil {
		_ = tmp.Close()
		u.Remove()
		return upload{}, fmt.Errorf("save %s: %w", field, err)
	}
	if err := tmp.Close(); err != nil {
		u.Remove()
		return upload{}, fmt.Errorf("save %s: %w", field, err)
	}
	return u, nil
}
