package ydb

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ydbwellness/ydb/content"
)

const maxUploadSize = 10 << 20 // 10MB

var errFileTooLarge = errors.New("file too large (max 10MB)")

// formFile opens the multipart file in field. ok is false when the field is
// absent or empty; the caller must call closeFn when ok is true.
func formFile(c echo.Context, field string) (f content.File, closeFn func(), ok bool, err error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return content.File{}, nil, false, nil
		}
		return content.File{}, nil, false, fmt.Errorf("read %s upload: %w", field, err)
	}
	if fh.Size == 0 || strings.TrimSpace(fh.Filename) == "" {
		return content.File{}, nil, false, nil
	}
	if fh.Size > maxUploadSize {
		return content.File{}, nil, false, errFileTooLarge
	}
	src, err := fh.Open()
	if err != nil {
		return content.File{}, nil, false, err
	}
	f = content.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Body:        src,
	}
	return f, func() { src.Close() }, true, nil
}
