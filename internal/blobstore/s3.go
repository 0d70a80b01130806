package blobstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	cc "github.com/dlebedev/checkride/internal/config"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}
)

// S3Uploader uploads assets with direct PutObject calls. Object keys are
// <containerID>/<pathKey>, so re-materializing an unchanged record rewrites
// the same objects instead of accumulating new ones.
type S3Uploader struct {
	config *cc.Config
}

var _ Uploader = (*S3Uploader)(nil)

func NewS3Uploader(config *cc.Config) *S3Uploader {
	return &S3Uploader{config: config}
}

func (u *S3Uploader) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(u.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			u.config.S3AccessKey, // MINIO_ROOT_USER
			u.config.S3SecretKey, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if u.config.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(u.config.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return client, nil
}

// Upload pushes the asset at localURI to <bucket>/<containerID>/<pathKey>
// and returns the object's URL.
func (u *S3Uploader) Upload(ctx context.Context, localURI, containerID, pathKey string) (string, error) {
	client, err := u.getClient(ctx)
	if err != nil {
		return "", err
	}

	body, contentType, err := openAssetSource(localURI)
	if err != nil {
		return "", err
	}
	defer body.Close()

	bucket := u.config.S3Bucket
	key := containerID + "/" + pathKey

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        body,
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	return u.objectURL(key), nil
}

func (u *S3Uploader) objectURL(key string) string {
	if u.config.S3BaseEndpoint != "" {
		return strings.TrimSuffix(u.config.S3BaseEndpoint, "/") + "/" + u.config.S3Bucket + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.config.S3Bucket, u.config.S3Region, key)
}
