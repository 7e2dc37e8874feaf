package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appConfig "github.com/photolab/photolab-api/config"
)

// FileStorage abstracts where order attachments live. The service runs
// against local disk by default and S3 when a bucket is configured.
type FileStorage interface {
	// Save stores the uploaded file under the given storage name.
	Save(storedName string, fileHeader *multipart.FileHeader) error

	// PresignedURL returns a temporary download URL for the stored file.
	// Backends that serve files directly from the application return "".
	PresignedURL(storedName string) (string, error)

	// Delete removes a stored file.
	Delete(storedName string) error
}

var fileStorageInstance FileStorage

// InitFileStorage initializes the storage backend selected by configuration.
func InitFileStorage(cfg *appConfig.Config) (FileStorage, error) {
	if cfg.UsesS3() {
		storage, err := NewS3FileStorage(cfg)
		if err != nil {
			return nil, err
		}
		fileStorageInstance = storage
		return fileStorageInstance, nil
	}

	fileStorageInstance = &LocalFileStorage{Dir: cfg.UploadDir}
	return fileStorageInstance, nil
}

// GetFileStorage returns the initialized storage instance
func GetFileStorage() FileStorage {
	return fileStorageInstance
}

// SetFileStorage sets the storage instance (primarily for testing)
func SetFileStorage(storage FileStorage) {
	fileStorageInstance = storage
}

// LocalFileStorage stores attachments on the local filesystem.
type LocalFileStorage struct {
	Dir string
}

// Save writes the uploaded file into the storage directory.
func (l *LocalFileStorage) Save(storedName string, fileHeader *multipart.FileHeader) (err error) {
	if err := os.MkdirAll(l.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer func() {
		if closeErr := src.Close(); closeErr != nil {
			log.Printf("warning: failed to close source file: %v", closeErr)
		}
	}()

	dst, err := os.Create(filepath.Join(l.Dir, storedName))
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer func() {
		if closeErr := dst.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close destination file: %w", closeErr)
		}
	}()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}

	return nil
}

// PresignedURL returns "" because local files are served by the download endpoint.
func (l *LocalFileStorage) PresignedURL(storedName string) (string, error) {
	return "", nil
}

// Delete removes the stored file from disk.
func (l *LocalFileStorage) Delete(storedName string) error {
	if storedName == "" {
		return nil
	}
	if err := os.Remove(filepath.Join(l.Dir, storedName)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// S3FileStorage stores attachments in an S3 bucket.
type S3FileStorage struct {
	client *s3.Client
	bucket string
}

// NewS3FileStorage creates an S3-backed storage with static credentials.
func NewS3FileStorage(cfg *appConfig.Config) (*S3FileStorage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.AWSRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &S3FileStorage{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.AWSS3Bucket,
	}, nil
}

// Save uploads the file to S3 under uploads/{storedName}.
func (s *S3FileStorage) Save(storedName string, fileHeader *multipart.FileHeader) error {
	file, err := fileHeader.Open()
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			log.Printf("warning: failed to close file: %v", closeErr)
		}
	}()

	content, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(storedName)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = s.client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.objectKey(storedName)),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}

	return nil
}

// PresignedURL generates a presigned GET URL valid for one hour.
func (s *S3FileStorage) PresignedURL(storedName string) (string, error) {
	if storedName == "" {
		return "", nil
	}

	presignClient := s3.NewPresignClient(s.client)
	request, err := presignClient.PresignGetObject(context.TODO(), &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(storedName)),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = time.Hour
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return request.URL, nil
}

// Delete removes the stored object from S3.
func (s *S3FileStorage) Delete(storedName string) error {
	if storedName == "" {
		return nil
	}

	_, err := s.client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(storedName)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}

	return nil
}

func (s *S3FileStorage) objectKey(storedName string) string {
	return "uploads/" + storedName
}
