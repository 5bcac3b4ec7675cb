package file

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nekogravitycat/lodging-reservation-backend/internal/pkg/storage"
)

const (
	maxImageSide   = 1600
	thumbnailSide  = 240
	jpegExtension  = ".jpg"
	jpegMediaType  = "image/jpeg"
	sniffByteCount = 512
)

// UploadInput describes one uploaded file and the limits it must satisfy.
type UploadInput struct {
	FileHeader   *multipart.FileHeader
	UserID       string
	MaxSizeBytes int64    // 0 means no limit
	AllowedTypes []string // empty means any type
	ResizeImage  bool     // re-encode as JPEG no larger than maxImageSide
}

type Service interface {
	Upload(ctx context.Context, in UploadInput) (*File, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*File, error)
	Download(ctx context.Context, id string) (io.ReadCloser, *File, error)
	DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *File, error)
}

type service struct {
	repo    Repository
	storage storage.Storage
	imgProc *storage.ImageProcessor
	now     func() time.Time
}

func NewService(repo Repository, store storage.Storage) Service {
	return &service{
		repo:    repo,
		storage: store,
		imgProc: storage.NewImageProcessor(),
		now:     time.Now,
	}
}

func (s *service) Upload(ctx context.Context, in UploadInput) (*File, error) {
	header := in.FileHeader
	if in.MaxSizeBytes > 0 && header.Size > in.MaxSizeBytes {
		return nil, ErrFileTooLarge.With("file exceeds %d bytes", in.MaxSizeBytes)
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open uploaded file failed: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read uploaded file failed: %w", err)
	}

	// The declared Content-Type is not trusted.
	sniff := data
	if len(sniff) > sniffByteCount {
		sniff = sniff[:sniffByteCount]
	}
	contentType := http.DetectContentType(sniff)
	if len(in.AllowedTypes) > 0 && !allowed(contentType, in.AllowedTypes) {
		return nil, ErrUnsupportedType.With("unsupported file type %s", contentType)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if in.ResizeImage {
		buf, err := s.imgProc.FitJPEG(bytes.NewReader(data), maxImageSide, maxImageSide)
		if err != nil {
			return nil, ErrInvalidImage
		}
		data = buf.Bytes()
		contentType = jpegMediaType
		ext = jpegExtension
	}

	fileID := uuid.New().String()
	shard := fileID[:2]
	storagePath := fmt.Sprintf("upload/%s/%s%s", shard, fileID, ext)

	if err := s.storage.Save(ctx, storagePath, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("save file to storage failed: %w", err)
	}

	var thumbnailPath *string
	if strings.HasPrefix(contentType, "image/") {
		thumb, err := s.imgProc.GenerateThumbnail(bytes.NewReader(data), thumbnailSide, thumbnailSide)
		if err != nil {
			log.Printf("thumbnail for file %s skipped: %v", fileID, err)
		} else {
			p := fmt.Sprintf("upload/%s/%s_thumb.jpg", shard, fileID)
			if err := s.storage.Save(ctx, p, thumb); err != nil {
				log.Printf("thumbnail for file %s not saved: %v", fileID, err)
			} else {
				thumbnailPath = &p
			}
		}
	}

	f := &File{
		ID:            fileID,
		Filename:      filepath.Base(header.Filename),
		StoragePath:   storagePath,
		ThumbnailPath: thumbnailPath,
		ContentType:   contentType,
		Size:          int64(len(data)),
		CreatedAt:     s.now(),
	}
	if in.UserID != "" {
		uid := in.UserID
		f.UserID = &uid
	}

	if err := s.repo.Create(ctx, f); err != nil {
		_ = s.storage.Delete(ctx, storagePath)
		if thumbnailPath != nil {
			_ = s.storage.Delete(ctx, *thumbnailPath)
		}
		return nil, err
	}

	return f, nil
}

func allowed(contentType string, types []string) bool {
	for _, t := range types {
		if strings.EqualFold(contentType, t) {
			return true
		}
	}
	return false
}

func (s *service) Delete(ctx context.Context, id string) error {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, f.StoragePath); err != nil {
		log.Printf("delete stored file %s failed: %v", f.StoragePath, err)
	}
	if f.ThumbnailPath != nil {
		if err := s.storage.Delete(ctx, *f.ThumbnailPath); err != nil {
			log.Printf("delete stored thumbnail %s failed: %v", *f.ThumbnailPath, err)
		}
	}

	return s.repo.Delete(ctx, id)
}

func (s *service) Get(ctx context.Context, id string) (*File, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Download(ctx context.Context, id string) (io.ReadCloser, *File, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	stream, err := s.storage.Get(ctx, f.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve file from storage failed: %w", err)
	}
	return stream, f, nil
}

func (s *service) DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *File, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if f.ThumbnailPath == nil {
		return nil, nil, ErrThumbnailUnavailable
	}

	stream, err := s.storage.Get(ctx, *f.ThumbnailPath)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve thumbnail from storage failed: %w", err)
	}
	return stream, f, nil
}
