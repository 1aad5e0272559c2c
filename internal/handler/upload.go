package handler

import (
	"io"
	"mime/multipart"
	"strings"

	"linguazone/internal/domain"

	"github.com/gofiber/fiber/v2"
)

// isMultipart reports whether the request body is a multipart form.
// Clients use multipart whenever they attach media files; plain JSON
// otherwise.
func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm)
}

// newUpload wraps a multipart file header as a domain upload without
// reading the payload into memory.
func newUpload(fh *multipart.FileHeader) *domain.Upload {
	return &domain.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// formUploads maps every file part of the form by its part name. When a
// part name repeats, the first file wins.
func formUploads(form *multipart.Form) map[string]*domain.Upload {
	uploads := make(map[string]*domain.Upload, len(form.File))
	for key, headers := range form.File {
		if len(headers) == 0 {
			continue
		}
		uploads[key] = newUpload(headers[0])
	}
	return uploads
}

// formValue returns the first value of a form field and whether the
// field was present at all.
func formValue(form *multipart.Form, key string) (string, bool) {
	values, ok := form.Value[key]
	if !ok || len(values) == 0 {
		return "", ok
	}
	return values[0], true
}
