package services

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailorrecords/tailor-records-api/utils"
)

// fakeS3 records the calls S3PhotoService makes against the storage backend
type fakeS3 struct {
	uploadKey   string
	uploadErr   error
	deleteErr   error
	uploaded    []string
	deleted     []string
	presignedOf []string
}

func (f *fakeS3) UploadFile(fileHeader *multipart.FileHeader) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.uploaded = append(f.uploaded, fileHeader.Filename)
	return f.uploadKey, nil
}

func (f *fakeS3) GetPresignedURL(s3Key string) (string, error) {
	f.presignedOf = append(f.presignedOf, s3Key)
	return "https://example.com/signed/" + s3Key, nil
}

func (f *fakeS3) DeleteFile(s3Key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, s3Key)
	return nil
}

func makePhotoHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("photo", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["photo"][0]
}

func TestS3PhotoServiceStorePhoto(t *testing.T) {
	t.Run("Valid image is uploaded and its key returned", func(t *testing.T) {
		backend := &fakeS3{uploadKey: "photos/1_portrait.png"}
		service := &S3PhotoService{s3Service: backend}

		key, err := service.StorePhoto(makePhotoHeader(t, "portrait.png", []byte("png-bytes")))
		require.NoError(t, err)
		assert.Equal(t, "photos/1_portrait.png", key)
		assert.Equal(t, []string{"portrait.png"}, backend.uploaded)
	})

	t.Run("Invalid format never reaches the backend", func(t *testing.T) {
		backend := &fakeS3{uploadKey: "photos/1_document.pdf"}
		service := &S3PhotoService{s3Service: backend}

		_, err := service.StorePhoto(makePhotoHeader(t, "document.pdf", []byte("pdf-bytes")))
		var uploadErr *utils.FileUploadError
		require.ErrorAs(t, err, &uploadErr)
		assert.Equal(t, "INVALID_FILE_FORMAT", uploadErr.Code)
		assert.Empty(t, backend.uploaded)
	})

	t.Run("Backend failure is wrapped", func(t *testing.T) {
		backend := &fakeS3{uploadErr: errors.New("bucket unreachable")}
		service := &S3PhotoService{s3Service: backend}

		_, err := service.StorePhoto(makePhotoHeader(t, "portrait.png", []byte("png-bytes")))
		assert.ErrorContains(t, err, "failed to store photo")
	})
}

func TestS3PhotoServicePhotoURL(t *testing.T) {
	backend := &fakeS3{}
	service := &S3PhotoService{s3Service: backend}

	t.Run("Empty key resolves to empty URL without a backend call", func(t *testing.T) {
		url, err := service.PhotoURL("")
		require.NoError(t, err)
		assert.Empty(t, url)
		assert.Empty(t, backend.presignedOf)
	})

	t.Run("Stored key resolves to a presigned URL", func(t *testing.T) {
		url, err := service.PhotoURL("photos/1_portrait.png")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/signed/photos/1_portrait.png", url)
	})
}

func TestS3PhotoServiceDeletePhoto(t *testing.T) {
	t.Run("Empty key is a no-op", func(t *testing.T) {
		backend := &fakeS3{}
		service := &S3PhotoService{s3Service: backend}

		require.NoError(t, service.DeletePhoto(""))
		assert.Empty(t, backend.deleted)
	})

	t.Run("Stored key is removed from the backend", func(t *testing.T) {
		backend := &fakeS3{}
		service := &S3PhotoService{s3Service: backend}

		require.NoError(t, service.DeletePhoto("photos/1_portrait.png"))
		assert.Equal(t, []string{"photos/1_portrait.png"}, backend.deleted)
	})

	t.Run("Backend failure is wrapped", func(t *testing.T) {
		backend := &fakeS3{deleteErr: errors.New("bucket unreachable")}
		service := &S3PhotoService{s3Service: backend}

		assert.ErrorContains(t, service.DeletePhoto("photos/1_portrait.png"), "failed to delete photo")
	})
}
