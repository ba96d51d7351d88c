package endpoint

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/ariebrainware/psych-practice/model"
	"github.com/ariebrainware/psych-practice/util"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MaxUploadSize is the largest accepted image.
const MaxUploadSize = 5 << 20

// UploadURLPrefix is where stored uploads are served from.
const UploadURLPrefix = "/uploads"

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// UploadImage stores the multipart field "image" under dir after sniffing
// its content type.
// POST /upload/image
func UploadImage(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadSize+1<<20)

		file, header, err := c.Request.FormFile("image")
		if err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				util.CallUserError(c, "File size exceeds 5MB limit")
				return
			}
			util.CallUserError(c, "No file uploaded")
			return
		}
		defer file.Close()

		if header.Size > MaxUploadSize {
			util.CallUserError(c, "File size exceeds 5MB limit")
			return
		}

		mtype, err := mimetype.DetectReader(file)
		if err != nil {
			util.CallServerError(c, "Failed to read upload", err)
			return
		}
		if !mimetype.EqualsAny(mtype.String(), allowedImageTypes...) {
			util.CallUserError(c, "Only image files are allowed")
			return
		}

		name := uuid.NewString() + mtype.Extension()
		if err := storeUpload(file, filepath.Join(dir, name)); err != nil {
			util.CallServerError(c, "Failed to store upload", err)
			return
		}

		util.CallCreated(c, model.UploadResult{
			URL:          UploadURLPrefix + "/" + name,
			Filename:     name,
			OriginalName: filepath.Base(header.Filename),
			Size:         header.Size,
			Mimetype:     mtype.String(),
		})
	}
}

func storeUpload(src multipart.File, path string) error {
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind upload: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}
	dst, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return fmt.Errorf("write upload: %w", err)
	}
	return dst.Close()
}
