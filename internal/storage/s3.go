package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// File es un archivo a subir con sus metadatos minimos.
type File struct {
	Data        []byte
	ContentType string
	Name        string
}

// UploadResult devuelve la clave y URL publica del archivo subido.
type UploadResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// FileStore define el contrato del almacenamiento de archivos.
type FileStore interface {
	Upload(ctx context.Context, file File) (UploadResult, error)
	UploadMany(ctx context.Context, files []File) ([]UploadResult, error)
	Delete(ctx context.Context, key string) error
	PresignedGetURL(ctx context.Context, key string) (string, error)
}

// S3Store implementa FileStore contra un bucket S3 compatible.
type S3Store struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	logger  *zap.Logger
}

func NewS3Store(ctx context.Context, region, bucket, accessKey, secretKey, endpoint string, logger *zap.Logger) (*S3Store, error) {
	if region == "" {
		return nil, fmt.Errorf("s3 region is required")
	}
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKey,
			secretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = true
	})

	return &S3Store{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  bucket,
		logger:  logger,
	}, nil
}

func (s *S3Store) Upload(ctx context.Context, file File) (UploadResult, error) {
	key := uuid.NewString()

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(file.Data),
		ContentType: aws.String(file.ContentType),
		ACL:         types.ObjectCannedACLPublicRead,
		Metadata: map[string]string{
			"originalName": file.Name,
		},
	})
	if err != nil {
		return UploadResult{}, err
	}

	if s.logger != nil {
		s.logger.Debug("file uploaded", zap.String("name", file.Name), zap.String("key", key))
	}
	return UploadResult{Key: key, URL: s.publicURL(key)}, nil
}

func (s *S3Store) UploadMany(ctx context.Context, files []File) ([]UploadResult, error) {
	results := make([]UploadResult, 0, len(files))
	for _, file := range files {
		result, err := s.Upload(ctx, file)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return err
	}
	if s.logger != nil {
		s.logger.Info("file deleted", zap.String("key", key))
	}
	return nil
}

func (s *S3Store) PresignedGetURL(ctx context.Context, key string) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(24*time.Hour))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

func (s *S3Store) publicURL(key string) string {
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
}
