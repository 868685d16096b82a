package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PhotoService hands out presigned S3 URLs so profile photos upload
// straight from the browser; only the resulting object URL lands in the
// profile's PhotoURL field.
type PhotoService struct {
	presigner *s3.PresignClient
	bucket    string
}

// NewPhotoService initializes the S3 client once for the process.
func NewPhotoService(ctx context.Context, region, bucket string) (*PhotoService, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	client := s3.NewFromConfig(cfg)
	return &PhotoService{presigner: s3.NewPresignClient(client), bucket: bucket}, nil
}

// UploadURL generates a presigned PUT URL for a new profile photo and
// returns the URL together with the object key.
func (p *PhotoService) UploadURL(ctx context.Context, fileName, fileType string) (string, string, error) {
	key := "profile-pics/" + time.Now().Format("20060102150405") + "-" + fileName
	req, err := p.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(fileType),
	}, s3.WithPresignExpires(5*time.Minute))
	if err != nil {
		return "", "", err
	}
	return req.URL, key, nil
}

// ReadURL generates a presigned GET URL for an uploaded photo.
func (p *PhotoService) ReadURL(ctx context.Context, key string) (string, error) {
	req, err := p.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(5*time.Minute))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}
