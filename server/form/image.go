package form

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
)

// MaxImageSize is the largest accepted upload.
const MaxImageSize = 5 << 20

var AllowedImageTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
}

var (
	ErrImageTooLarge = fmt.Errorf("Image must not exceed %s", humanize.IBytes(MaxImageSize))
	ErrImageType     = errors.New("Image must be a JPEG, PNG, GIF or WEBP file")
)

type Image struct {
	Name        string
	ContentType string
	Data        []byte
}

// ReadImage reads the optional image uploaded as field. It returns nil and no
// error when no file was chosen. The content type is sniffed from the data,
// the browser supplied one is ignored. The request must already be parsed
// with ParseMultipartForm.
func ReadImage(r *http.Request, field string) (*Image, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	defer file.Close()

	if header.Size > MaxImageSize {
		return nil, ErrImageTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(file, MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if len(data) > MaxImageSize {
		return nil, ErrImageTooLarge
	}
	if len(data) == 0 {
		return nil, nil
	}

	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), AllowedImageTypes...) {
		return nil, ErrImageType
	}

	return &Image{
		Name:        header.Filename,
		ContentType: mtype.String(),
		Data:        data,
	}, nil
}

// ReadImageInto reads the image and records a failure in errs under field.
func ReadImageInto(r *http.Request, field string, errs Errors) *Image {
	img, err := ReadImage(r, field)
	if err != nil {
		if errors.Is(err, ErrImageTooLarge) || errors.Is(err, ErrImageType) {
			errs.Add(field, err.Error())
		} else {
			errs.Add(field, "Failed to read the uploaded image")
		}
		return nil
	}
	return img
}
