// internal/services/storage_service.go
package services

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/christopherzulu0/Bixi-Road-sub001/internal/config"
	"github.com/christopherzulu0/Bixi-Road-sub001/internal/errs"
)

// StorageService uploads listing photos and application documents to S3,
// falling back to local disk when AWS credentials are not configured.
type StorageService struct {
	cfg      config.AWSConfig
	s3Client *s3.S3
	localDir string
}

type UploadOptions struct {
	Folder       string
	MaxSizeBytes int64
	AllowedTypes []string
}

func PhotoUploadOptions() UploadOptions {
	return UploadOptions{
		Folder:       "listing-photos",
		MaxSizeBytes: 10 << 20, // 10 MB
		AllowedTypes: []string{"image/jpeg", "image/png", "image/webp"},
	}
}

func DocumentUploadOptions() UploadOptions {
	return UploadOptions{
		Folder:       "application-documents",
		MaxSizeBytes: 20 << 20, // 20 MB
		AllowedTypes: []string{"application/pdf", "image/jpeg", "image/png"},
	}
}

func NewStorageService(cfg config.AWSConfig) *StorageService {
	service := &StorageService{cfg: cfg, localDir: "uploads"}

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		sess, err := session.NewSession(&aws.Config{
			Region:      aws.String(cfg.Region),
			Credentials: credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		})
		if err != nil {
			logrus.WithError(err).Warn("Failed to create AWS session, using local storage")
		} else {
			service.s3Client = s3.New(sess)
		}
	} else {
		logrus.Info("AWS credentials not configured, using local storage")
	}

	return service
}

// Upload stores one file and returns its public URL.
func (s *StorageService) Upload(fileHeader *multipart.FileHeader, opts UploadOptions) (string, error) {
	if fileHeader.Size > opts.MaxSizeBytes {
		return "", errs.Validation("file exceeds the maximum size of %d bytes", opts.MaxSizeBytes)
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !typeAllowed(contentType, opts.AllowedTypes) {
		return "", errs.Validation("file type %s is not allowed", contentType)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", errs.Dependency(err, "failed to open uploaded file")
	}
	defer file.Close()

	key := fmt.Sprintf("%s/%s/%s%s",
		opts.Folder,
		time.Now().UTC().Format("2006/01"),
		uuid.New().String(),
		strings.ToLower(filepath.Ext(fileHeader.Filename)),
	)

	if s.s3Client != nil {
		_, err = s.s3Client.PutObject(&s3.PutObjectInput{
			Bucket:      aws.String(s.cfg.S3Bucket),
			Key:         aws.String(key),
			Body:        file,
			ContentType: aws.String(contentType),
		})
		if err != nil {
			return "", errs.Dependency(err, "failed to upload to S3")
		}
		return s.publicURL(key), nil
	}

	return s.saveLocal(file, key)
}

func (s *StorageService) publicURL(key string) string {
	if s.cfg.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(s.cfg.CloudFrontURL, "/"), key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.S3Bucket, s.cfg.Region, key)
}

func (s *StorageService) saveLocal(file multipart.File, key string) (string, error) {
	path := filepath.Join(s.localDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", errs.Dependency(err, "failed to create upload directory")
	}

	out, err := os.Create(path)
	if err != nil {
		return "", errs.Dependency(err, "failed to create local file")
	}
	defer out.Close()

	if _, err := out.ReadFrom(file); err != nil {
		return "", errs.Dependency(err, "failed to write local file")
	}
	return "/" + filepath.ToSlash(path), nil
}

func typeAllowed(contentType string, allowed []string) bool {
	for _, t := range allowed {
		if strings.EqualFold(contentType, t) {
			return true
		}
	}
	return false
}
