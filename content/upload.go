package content

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/image/draw"

	"github.com/ydbwellness/ydb/blobstore"
	"github.com/ydbwellness/ydb/toast"
)

const (
	// PDFType is the only content type accepted for paper uploads.
	PDFType = "application/pdf"

	// PaperUploads and CoverUploads are the blob key prefixes.
	PaperUploads = "research-papers"
	CoverUploads = "blog-images"

	maxImageWidth = 800
	jpegQuality   = 80
)

// File is an uploaded form file.
type File struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// Uploader puts user files into the blob store. Nothing ties an upload to a
// later document write; an abandoned form leaves the blob behind.
type Uploader struct {
	blobs blobstore.Store
	log   *zap.Logger
	now   func() time.Time
}

// NewUploader returns an Uploader writing to blobs.
func NewUploader(blobs blobstore.Store, log *zap.Logger) *Uploader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Uploader{blobs: blobs, log: log, now: time.Now}
}

func (u *Uploader) key(purpose, name string) string {
	return fmt.Sprintf("%s/%d_%s", purpose, u.now().UnixMilli(), sanitizeFilename(name))
}

// UploadPDF stores a PDF under purpose and returns its URL. Any other content
// type is rejected with ErrInvalidFileType before the blob store is touched.
func (u *Uploader) UploadPDF(ctx context.Context, n toast.Notifier, purpose string, f File) (string, error) {
	mt, _, err := mime.ParseMediaType(f.ContentType)
	if err != nil || mt != PDFType {
		toast.Errorf(n, "Invalid File", "Please select a PDF file")
		return "", ErrInvalidFileType
	}
	key := u.key(purpose, f.Name)
	url, err := u.blobs.Put(ctx, key, f.Body, PDFType)
	if err != nil {
		u.log.Error("pdf upload failed", zap.String("key", key), zap.Error(err))
		toast.Errorf(n, "Upload Failed", "Error uploading PDF. Please try again.")
		return "", err
	}
	toast.Successf(n, "Success", "PDF uploaded successfully!")
	return url, nil
}

// UploadCover decodes an image, scales it down to maxImageWidth and stores
// it as JPEG under blog-images/<millis>_<slug>.jpg.
func (u *Uploader) UploadCover(ctx context.Context, n toast.Notifier, title string, f File) (string, error) {
	data, err := processImage(f.Body)
	if err != nil {
		toast.Errorf(n, "Invalid Image", "Please select a JPEG, PNG or GIF image")
		return "", fmt.Errorf("%w: %v", ErrInvalidFileType, err)
	}
	slug := Slugify(title)
	if slug == "" {
		slug = Slugify(strings.TrimSuffix(f.Name, path.Ext(f.Name)))
	}
	if slug == "" {
		slug = "cover"
	}
	key := fmt.Sprintf("%s/%d_%s.jpg", CoverUploads, u.now().UnixMilli(), slug)
	url, err := u.blobs.Put(ctx, key, bytes.NewReader(data), "image/jpeg")
	if err != nil {
		u.log.Error("image upload failed", zap.String("key", key), zap.Error(err))
		toast.Errorf(n, "Upload Failed", "Error uploading image. Please try again.")
		return "", err
	}
	return url, nil
}

// processImage decodes an image from src, resizes it to maxImageWidth if
// wider, and encodes it as JPEG.
func processImage(src io.Reader) ([]byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// sanitizeFilename keeps the base name and drops path separators and
// control characters.
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, name)
	for strings.Contains(name, "..") {
		name = strings.ReplaceAll(name, "..", ".")
	}
	if name == "" || name == "." || name == "/" {
		return "upload"
	}
	return name
}

// Slugify converts a title to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
