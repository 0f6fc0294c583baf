package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"careerflow-api/internal/domain"
)

// Folder 上传分类目录
type Folder string

const (
	Resumes  Folder = "resumes"
	Logos    Folder = "logos"
	Profiles Folder = "profiles"
)

// imagesOnly folders reject PDFs.
func (f Folder) imagesOnly() bool { return f == Profiles }

const DefaultMaxBytes int64 = 5 << 20

// FileStore persists an uploaded file and returns its public URL.
type FileStore interface {
	Save(ctx context.Context, folder Folder, r io.Reader) (string, error)
}

// Local writes files under Root/<folder>/<uuid><ext> and serves them from
// BaseURL + "/uploads/...". Only raster images and PDFs are accepted;
// the profiles folder takes images only.
type Local struct {
	Root     string
	BaseURL  string
	MaxBytes int64
}

func NewLocal(root, baseURL string, maxBytes int64) *Local {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Local{Root: root, BaseURL: strings.TrimRight(baseURL, "/"), MaxBytes: maxBytes}
}

func (l *Local) Save(ctx context.Context, folder Folder, r io.Reader) (string, error) {
	if r == nil {
		return "", domain.Validation("no file provided")
	}
	data, err := io.ReadAll(io.LimitReader(r, l.MaxBytes+1))
	if err != nil {
		return "", domain.Internal("read upload", err)
	}
	if len(data) == 0 {
		return "", domain.Validation("no file provided")
	}
	if int64(len(data)) > l.MaxBytes {
		return "", domain.Validation(fmt.Sprintf("file exceeds %d MB limit", l.MaxBytes>>20))
	}

	mt := mimetype.Detect(data)
	if !Allowed(folder, mt) {
		msg := "only image and pdf files are allowed"
		if folder.imagesOnly() {
			msg = "only image files are allowed"
		}
		return "", domain.Validation(msg, "detected type: "+mt.String())
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := filepath.Join(l.Root, string(folder))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", domain.Internal("create upload dir", err)
	}
	name := uuid.NewString() + mt.Extension()
	if err := writeFile(filepath.Join(dir, name), data); err != nil {
		return "", domain.Internal("write upload", err)
	}
	return l.BaseURL + "/uploads/" + string(folder) + "/" + name, nil
}

// Allowed reports whether a sniffed type may be stored in folder. SVG is
// never accepted since uploads are served from the API origin.
func Allowed(folder Folder, mt *mimetype.MIME) bool {
	if mt.Is("image/svg+xml") {
		return false
	}
	for m := mt; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "image/") {
			return true
		}
		if m.Is("application/pdf") && !folder.imagesOnly() {
			return true
		}
	}
	return false
}

func writeFile(path string, data []byte) error {
	tmp := path + ".part"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, bytes.NewReader(data)); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
