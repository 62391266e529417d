package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"resepku/internal/utils"
)

var ErrInvalidDataURI = errors.New("payload is not a base64 image data URI")

type (
	// AwsS3 is the image store collaborator: it takes a data-URI encoded
	// image, decodes it, stores the bytes and returns a retrievable URL.
	AwsS3 interface {
		UploadImage(ctx context.Context, fileName, folder, payload string) (string, error)
		DeleteFile(ctx context.Context, objectKey string) error
		GetObjectKeyFromLink(link string) string
	}

	awsS3 struct {
		client *s3.Client
		bucket string
		region string
	}
)

func NewAwsS3() AwsS3 {
	region := utils.GetConfig("AWS_S3_REGION")
	cfg, err := awsconfig.LoadDefaultConfig(
		context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			utils.GetConfig("AWS_ACCESS_KEY"),
			utils.GetConfig("AWS_SECRET_KEY"),
			"",
		)),
	)
	if err != nil {
		log.Fatalf("error loading AWS configuration: %v", err)
	}

	return &awsS3{
		client: s3.NewFromConfig(cfg),
		bucket: utils.GetConfig("AWS_S3_BUCKET"),
		region: region,
	}
}

// DecodeDataURI splits a "data:image/<ext>;base64,<data>" payload into raw
// bytes plus the image extension and content type.
func DecodeDataURI(payload string) ([]byte, string, string, error) {
	if !strings.HasPrefix(payload, "data:image/") {
		return nil, "", "", ErrInvalidDataURI
	}

	meta, encoded, found := strings.Cut(payload, ";base64,")
	if !found {
		return nil, "", "", ErrInvalidDataURI
	}

	contentType := strings.TrimPrefix(meta, "data:")
	ext := contentType[strings.LastIndex(contentType, "/")+1:]

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", "", ErrInvalidDataURI
	}
	return data, ext, contentType, nil
}

func (a *awsS3) UploadImage(ctx context.Context, fileName, folder, payload string) (string, error) {
	data, ext, contentType, err := DecodeDataURI(payload)
	if err != nil {
		return "", err
	}

	objectKey := fmt.Sprintf("%s/%s.%s", folder, fileName, ext)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &a.bucket,
		Key:         &objectKey,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", a.bucket, a.region, objectKey), nil
}

func (a *awsS3) DeleteFile(ctx context.Context, objectKey string) error {
	_, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &a.bucket,
		Key:    &objectKey,
	})
	return err
}

func (a *awsS3) GetObjectKeyFromLink(link string) string {
	prefix := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", a.bucket, a.region)
	if !strings.HasPrefix(link, prefix) {
		return ""
	}
	return strings.TrimPrefix(link, prefix)
}
