package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"tourism-backend/internal/domain"
)

// FileService stores uploaded files under BaseDir with generated names.
type FileService struct {
	BaseDir string
	MaxSize int64
}

var proofExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".pdf": true,
}

// SavePaymentProof writes an uploaded proof under
// BaseDir/payments/<paymentID>/ and returns the stored relative path.
func (s FileService) SavePaymentProof(paymentID int64, fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", domain.ValidationError{Field: "file", Msg: "proof file is required"}
	}
	if s.MaxSize > 0 && fh.Size > s.MaxSize {
		return "", domain.ValidationError{Field: "file", Msg: fmt.Sprintf("file exceeds %d bytes", s.MaxSize)}
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !proofExtensions[ext] {
		return "", domain.ValidationError{Field: "file", Msg: "only jpg, jpeg, png, webp or pdf files are accepted"}
	}

	dir := filepath.Join(s.BaseDir, "payments", fmt.Sprintf("%d", paymentID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", domain.InternalError{Msg: "upload directory not writable", Err: err}
	}

	name := "proof_" + strings.ReplaceAll(uuid.NewString(), "-", "") + ext
	dst := filepath.Join(dir, name)

	src, err := fh.Open()
	if err != nil {
		return "", domain.InternalError{Msg: "uploaded file unreadable", Err: err}
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", domain.InternalError{Msg: "could not store uploaded file", Err: err}
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		os.Remove(dst)
		return "", domain.InternalError{Msg: "could not store uploaded file", Err: err}
	}

	return filepath.ToSlash(filepath.Join("payments", fmt.Sprintf("%d", paymentID), name)), nil
}
