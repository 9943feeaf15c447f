package services

import (
	"fmt"
	"mime/multipart"

	"github.com/tailorrecords/tailor-records-api/utils"
)

// PhotoService handles customer photo operations: import into app-owned
// storage, URL resolution, and deletion. The stored key goes onto
// Customer.PhotoURI.
type PhotoService interface {
	// StorePhoto validates and copies a photo into storage, returns the storage key
	StorePhoto(fileHeader *multipart.FileHeader) (string, error)

	// PhotoURL resolves a stored key to a URL the client can fetch
	PhotoURL(photoKey string) (string, error)

	// DeletePhoto removes a photo from storage
	DeletePhoto(photoKey string) error
}

// S3PhotoService implements PhotoService using AWS S3 for storage
type S3PhotoService struct {
	s3Service S3Interface
}

var photoServiceInstance PhotoService

// InitPhotoService initializes the photo service with an S3 backend
func InitPhotoService(s3Service S3Interface) PhotoService {
	photoServiceInstance = &S3PhotoService{
		s3Service: s3Service,
	}
	return photoServiceInstance
}

// GetPhotoService returns the initialized photo service instance
func GetPhotoService() PhotoService {
	return photoServiceInstance
}

// SetPhotoService sets the photo service instance (primarily for testing)
func SetPhotoService(service PhotoService) {
	photoServiceInstance = service
}

// StorePhoto validates and uploads a photo to S3
func (s *S3PhotoService) StorePhoto(fileHeader *multipart.FileHeader) (string, error) {
	// Validate the image file
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	// Upload to S3
	s3Key, err := s.s3Service.UploadFile(fileHeader)
	if err != nil {
		return "", fmt.Errorf("failed to store photo: %w", err)
	}

	return s3Key, nil
}

// PhotoURL generates a presigned URL for accessing a photo
func (s *S3PhotoService) PhotoURL(photoKey string) (string, error) {
	if photoKey == "" {
		return "", nil
	}

	url, err := s.s3Service.GetPresignedURL(photoKey)
	if err != nil {
		return "", fmt.Errorf("failed to generate photo URL: %w", err)
	}

	return url, nil
}

// DeletePhoto deletes a photo from S3
func (s *S3PhotoService) DeletePhoto(photoKey string) error {
	if photoKey == "" {
		return nil
	}

	if err := s.s3Service.DeleteFile(photoKey); err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}

	return nil
}
