package web

import (
	"errors"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/clubadmin/clubadmin/server/backend"
	"github.com/clubadmin/clubadmin/server/form"
)

const (
	// maxUploadMemory is kept in memory, larger files spill to disk.
	maxUploadMemory = form.MaxImageSize + 1<<20
	// maxRequestBody is well above form.MaxImageSize so a large photo still
	// parses and fails the image size check on its field.
	maxRequestBody = 32 << 20
)

var errUploadTooLarge = errors.New("upload exceeds the request body limit")

// parseForm parses url encoded and multipart bodies alike. A body over
// maxRequestBody yields errUploadTooLarge and leaves an empty form behind.
func parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return r.ParseForm()
		}
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) || errors.Is(err, multipart.ErrMessageTooLarge) {
			r.MultipartForm = &multipart.Form{
				Value: map[string][]string{},
				File:  map[string][]*multipart.FileHeader{},
			}
			if r.PostForm == nil {
				r.PostForm = url.Values{}
			}
			return errUploadTooLarge
		}
		return err
	}
	return nil
}

// readImage reads the upload of field after parseForm returned parseErr.
func readImage(r *http.Request, parseErr error, field string, errs form.Errors) *form.Image {
	if errors.Is(parseErr, errUploadTooLarge) {
		errs.Add(field, form.ErrImageTooLarge.Error())
		return nil
	}
	return form.ReadImageInto(r, field, errs)
}

func toFile(img *form.Image) *backend.File {
	if img == nil {
		return nil
	}
	return (*backend.File)(img)
}

// apiFormError records a failed create or update call on the form. Conflicts
// belong to conflictField.
func apiFormError(errs form.Errors, err error, conflictField string, fallback string) form.Errors {
	if errs == nil {
		errs = form.Errors{}
	}
	if errors.Is(err, backend.ErrConflict) {
		errs.Add(conflictField, backend.Message(err, "Already exists"))
		return errs
	}
	errs.Add("", backend.Message(err, fallback))
	return errs
}

type ClubForm struct {
	Action string
	Values form.Club
	Errors form.Errors
}

type PostForm struct {
	Action string
	Values form.Post
	Errors form.Errors
}

type EventForm struct {
	Action string
	Values form.Event
	Errors form.Errors
}
