package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // Import for PNG decoding support
	"io/fs"
	"math"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/apperror"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/storage"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

var (
	ErrUnsupportedFileType = apperror.New(apperror.KindValidation, "unsupported file type")
	ErrInvalidImage        = apperror.New(apperror.KindValidation, "photo is not a valid jpg or png image")
	ErrFileTooLarge        = apperror.New(apperror.KindValidation, "file exceeds the maximum allowed size")
	ErrFileNotFound        = apperror.New(apperror.KindNotFound, "file not found")
)

type PhotoKind string

const (
	PhotoCheckIn  PhotoKind = "checkin"
	PhotoCheckOut PhotoKind = "checkout"
)

// StoredFile is where an upload ended up.
type StoredFile struct {
	Path     string
	Filename string
}

type FileService interface {
	// UploadAttendancePhoto compresses the photo to JPEG and stores it under attendance/<date>/.
	// Every call gets its own file name.
	UploadAttendancePhoto(ctx context.Context, employeeID string, at time.Time, kind PhotoKind, data []byte) (StoredFile, error)

	UploadDocumentAttachment(ctx context.Context, employeeID string, filename string, data []byte) (StoredFile, error)

	// Open returns the stored file for streaming, ErrFileNotFound when the key is empty.
	Open(ctx context.Context, path string) (storage.Object, error)
	DeleteFile(ctx context.Context, path string) error

	// URL joins elem onto the base URL of the authenticated file routes.
	URL(elem ...string) string
}

type fileServiceImpl struct {
	storage  storage.FileStorage
	maxBytes int
	baseURL  string
}

func NewFileService(storage storage.FileStorage, maxBytes int, baseURL string) FileService {
	return &fileServiceImpl{
		storage:  storage,
		maxBytes: maxBytes,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

var documentExts = []string{".pdf", ".jpg", ".jpeg", ".png", ".doc", ".docx"}

// UploadAttendancePhoto implements FileService.
func (s *fileServiceImpl) UploadAttendancePhoto(ctx context.Context, employeeID string, at time.Time, kind PhotoKind, data []byte) (StoredFile, error) {
	if s.maxBytes > 0 && len(data) > s.maxBytes {
		return StoredFile{}, ErrFileTooLarge
	}

	compressed, err := compressImage(data, 150*1024)
	if err != nil {
		return StoredFile{}, err
	}

	filename := fmt.Sprintf("%s_%s_%s_%s.jpg", kind, employeeID, at.UTC().Format("20060102_150405"), uuid.New().String())
	key := path.Join("attendance", at.UTC().Format("2006-01-02"), filename)

	uploadedPath, err := s.storage.Upload(ctx, bytes.NewReader(compressed), key, "image/jpeg")
	if err != nil {
		return StoredFile{}, fmt.Errorf("failed to upload attendance photo: %w", err)
	}

	return StoredFile{Path: uploadedPath, Filename: filename}, nil
}

// UploadDocumentAttachment implements FileService.
func (s *fileServiceImpl) UploadDocumentAttachment(ctx context.Context, employeeID string, filename string, data []byte) (StoredFile, error) {
	if s.maxBytes > 0 && len(data) > s.maxBytes {
		return StoredFile{}, ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	isValid := false
	for _, allowed := range documentExts {
		if ext == allowed {
			isValid = true
			break
		}
	}
	if !isValid {
		return StoredFile{}, ErrUnsupportedFileType
	}

	key := path.Join("documents", employeeID, uuid.New().String()+ext)

	uploadedPath, err := s.storage.Upload(ctx, bytes.NewReader(data), key, contentTypeFor(ext))
	if err != nil {
		return StoredFile{}, fmt.Errorf("failed to upload document: %w", err)
	}

	return StoredFile{Path: uploadedPath, Filename: filepath.Base(filename)}, nil
}

// DeleteFile deletes a file
func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	return s.storage.Delete(ctx, path)
}

// Open implements FileService.
func (s *fileServiceImpl) Open(ctx context.Context, path string) (storage.Object, error) {
	exists, err := s.storage.Exists(ctx, path)
	if err != nil {
		return storage.Object{}, fmt.Errorf("failed to check file: %w", err)
	}
	if !exists {
		return storage.Object{}, ErrFileNotFound
	}

	body, err := s.storage.Download(ctx, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return storage.Object{}, ErrFileNotFound
		}
		return storage.Object{}, fmt.Errorf("failed to open file: %w", err)
	}

	return storage.Object{
		Body:        body,
		ContentType: contentTypeFor(strings.ToLower(filepath.Ext(path))),
		Name:        filepath.Base(path),
	}, nil
}

// URL implements FileService.
func (s *fileServiceImpl) URL(elem ...string) string {
	escaped := make([]string, 0, len(elem)+1)
	escaped = append(escaped, s.baseURL)
	for _, e := range elem {
		escaped = append(escaped, url.PathEscape(e))
	}
	return strings.Join(escaped, "/")
}

func contentTypeFor(ext string) string {
	switch ext {
	case ".pdf":
		return "application/pdf"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}

// ==================== HELPER FUNCTIONS ====================

// compressImage re-encodes an image as JPEG no larger than maxSize, lowering the
// quality first and then the dimensions. ErrFileTooLarge when nothing fits.
func compressImage(buffer []byte, maxSize int) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return nil, ErrInvalidImage
	}

	var best []byte

	// JPEG already in range is stored as is
	if format == "jpeg" {
		if len(buffer) <= maxSize {
			return buffer, nil
		}
		best = buffer
	}

	// Start with quality 85 and reduce progressively
	for quality := 85; quality >= 50; quality -= 5 {
		compressed, err := encodeJPEG(img, quality)
		if err != nil {
			return nil, err
		}
		if len(compressed) <= maxSize {
			return compressed, nil
		}
		if best == nil || len(compressed) < len(best) {
			best = compressed
		}
	}

	// Still too large after quality reduction, resize towards 100KB
	bounds := img.Bounds()
	originalWidth := bounds.Dx()
	originalHeight := bounds.Dy()

	targetSize := 100 * 1024
	ratio := math.Sqrt(float64(targetSize) / float64(len(best)))
	newWidth := int(float64(originalWidth) * ratio)
	newHeight := int(float64(originalHeight) * ratio)

	if newWidth < 600 && originalWidth >= 600 {
		newWidth = 600
	}
	if newHeight < 400 && originalHeight >= 400 {
		newHeight = 400
	}

	for {
		newWidth = max(newWidth, 1)
		newHeight = max(newHeight, 1)

		resized, err := encodeJPEG(resizeImage(img, newWidth, newHeight), 70)
		if err != nil {
			return nil, err
		}
		if len(resized) <= maxSize {
			return resized, nil
		}
		if newWidth <= minResizeDimension || newHeight <= minResizeDimension {
			return nil, ErrFileTooLarge
		}
		newWidth /= 2
		newHeight /= 2
	}
}

const minResizeDimension = 64

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// resizeImage resizes an image to the specified dimensions using high-quality interpolation
func resizeImage(src image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	// Use CatmullRom for high-quality downscaling
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
