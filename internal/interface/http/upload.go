package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	app "github.com/oksasatya/go-ddd-social/internal/application"
	"github.com/oksasatya/go-ddd-social/pkg/response"
)

const imageField = "image"

var errImageTooLarge = errors.New("image too large")

// limitBody caps the request size before any multipart parsing happens
func limitBody(c *gin.Context, max int64) {
	if max > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, max)
	}
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// formImage opens the optional image part of a multipart request. The
// returned close func is never nil.
func formImage(c *gin.Context) (*app.ImageUpload, func(), error) {
	noop := func() {}
	if !isMultipart(c) {
		return nil, noop, nil
	}
	fh, err := c.FormFile(imageField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, noop, nil
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, noop, errImageTooLarge
		}
		return nil, noop, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, noop, err
	}
	return &app.ImageUpload{Reader: f, Filename: fh.Filename, ContentType: partType(fh)}, func() { _ = f.Close() }, nil
}

func partType(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// bindPayload binds JSON or multipart bodies into req and writes the 400
// response itself when binding fails.
func bindPayload(c *gin.Context, req any) bool {
	if err := c.ShouldBind(req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error[any](c, http.StatusBadRequest, errImageTooLarge.Error(), nil)
			return false
		}
		invalidPayload(c, err)
		return false
	}
	return true
}
