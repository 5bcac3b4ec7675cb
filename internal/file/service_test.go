package file

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/lodging-reservation-backend/internal/pkg/storage"
)

type memRepository struct {
	files map[string]*File
}

func (m *memRepository) Create(_ context.Context, f *File) error {
	cp := *f
	m.files[f.ID] = &cp
	return nil
}

func (m *memRepository) GetByID(_ context.Context, id string) (*File, error) {
	f, ok := m.files[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (m *memRepository) Delete(_ context.Context, id string) error {
	delete(m.files, id)
	return nil
}

func newTestService(t *testing.T) (Service, *memRepository) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	repo := &memRepository{files: map[string]*File{}}
	return NewService(repo, store), repo
}

func formFile(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(10 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadImage(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)

	f, err := svc.Upload(ctx, UploadInput{
		FileHeader:   formFile(t, "suite.png", pngBytes(t, 320, 200)),
		UserID:       "admin-1",
		AllowedTypes: []string{"image/png", "image/jpeg"},
		ResizeImage:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", f.ContentType)
	assert.Equal(t, "suite.png", f.Filename)
	require.NotNil(t, f.ThumbnailPath)
	require.NotNil(t, f.UserID)
	assert.Contains(t, repo.files, f.ID)

	stream, info, err := svc.Download(ctx, f.ID)
	require.NoError(t, err)
	data, err := io.ReadAll(stream)
	require.NoError(t, stream.Close())
	require.NoError(t, err)
	assert.Equal(t, info.Size, int64(len(data)))

	thumb, _, err := svc.DownloadThumbnail(ctx, f.ID)
	require.NoError(t, err)
	require.NoError(t, thumb.Close())

	require.NoError(t, svc.Delete(ctx, f.ID))
	_, err = svc.Get(ctx, f.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Upload(context.Background(), UploadInput{
		FileHeader:   formFile(t, "big.png", pngBytes(t, 64, 64)),
		MaxSizeBytes: 10,
	})
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Upload(context.Background(), UploadInput{
		FileHeader:   formFile(t, "fake.png", []byte("plain text pretending to be a photo")),
		AllowedTypes: []string{"image/png"},
	})
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestUploadWithoutImageHasNoThumbnail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	f, err := svc.Upload(ctx, UploadInput{FileHeader: formFile(t, "notes.txt", []byte("late checkout requested"))})
	require.NoError(t, err)
	assert.Nil(t, f.ThumbnailPath)
	assert.Nil(t, f.UserID)

	_, _, err = svc.DownloadThumbnail(ctx, f.ID)
	assert.ErrorIs(t, err, ErrThumbnailUnavailable)
}
