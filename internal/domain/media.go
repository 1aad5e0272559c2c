package domain

import (
	"context"
	"io"
	"strings"
)

// Media categories group stored objects by the entity they belong to.
const (
	MediaCategoryQuestions     = "questions"
	MediaCategoryChoices       = "choices"
	MediaCategoryQuizQuestions = "quiz_questions"
	MediaCategoryQuizChoices   = "quiz_choices"
)

// Upload is a binary payload handed in by the HTTP layer. Open returns a
// fresh reader for the payload; the media store closes it after use.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// IsImage reports whether the upload declares an image MIME type.
func (u *Upload) IsImage() bool {
	return strings.HasPrefix(u.ContentType, "image/")
}

// IsAudio reports whether the upload declares an audio MIME type.
func (u *Upload) IsAudio() bool {
	return strings.HasPrefix(u.ContentType, "audio/")
}

// ChoiceTypeForUpload infers the choice type from the upload's declared
// MIME category. Non-image uploads are treated as audio, mirroring how
// single-choice media replacement behaves.
func ChoiceTypeForUpload(u *Upload) ChoiceType {
	if u.IsImage() {
		return ChoiceTypeImage
	}
	return ChoiceTypeAudio
}

// MediaStore persists binary payloads under a named category and returns
// stable references. Remove is idempotent: removing a reference whose
// object no longer exists is not an error.
type MediaStore interface {
	Store(ctx context.Context, category string, upload *Upload) (string, error)
	Remove(ctx context.Context, reference string) error
}
