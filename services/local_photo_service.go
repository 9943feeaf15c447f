package services

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/tailorrecords/tailor-records-api/utils"
)

// LocalPhotoService implements PhotoService on the local filesystem. This is
// the default backend for a single-device shop install: the photo is a pure
// byte-copy into a directory the application exclusively owns, referenced by
// the file name stored on the customer record.
type LocalPhotoService struct {
	photoDir string
}

// InitLocalPhotoService initializes the photo service with a local directory backend
func InitLocalPhotoService(photoDir string) PhotoService {
	photoServiceInstance = &LocalPhotoService{photoDir: photoDir}
	return photoServiceInstance
}

// StorePhoto validates and byte-copies a photo into the photo directory
func (s *LocalPhotoService) StorePhoto(fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	filename, err := utils.SaveUploadedFile(fileHeader, s.photoDir)
	if err != nil {
		return "", fmt.Errorf("failed to store photo: %w", err)
	}
	return filename, nil
}

// PhotoURL returns the serving path for a stored photo
func (s *LocalPhotoService) PhotoURL(photoKey string) (string, error) {
	if photoKey == "" {
		return "", nil
	}
	return fmt.Sprintf("/api/v1/photos/%s", photoKey), nil
}

// DeletePhoto removes a photo file from the photo directory. A photo that is
// already gone is not an error.
func (s *LocalPhotoService) DeletePhoto(photoKey string) error {
	if photoKey == "" {
		return nil
	}

	path := filepath.Join(s.photoDir, filepath.Base(photoKey))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	return nil
}
