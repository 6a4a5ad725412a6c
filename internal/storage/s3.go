package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Client talks to an S3-compatible object store holding asset photos.
type Client struct {
	client *s3.Client
	bucket string
}

// UploadResult describes a stored object.
type UploadResult struct {
	Key      string
	Size     int64
	Checksum string
}

// NewClient creates a client for an S3-compatible endpoint (AWS S3,
// DigitalOcean Spaces, MinIO).
func NewClient(endpoint, region, bucket, accessKeyID, secretAccessKey string) (*Client, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if service == s3.ServiceID && endpoint != "" {
			return aws.Endpoint{
				URL:           endpoint,
				SigningRegion: region,
			}, nil
		}
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithEndpointResolverWithOptions(resolver),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKeyID, secretAccessKey, "",
		)),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	return &Client{client: client, bucket: bucket}, nil
}

// UploadAssetPhoto stores a photo under users/{userID}/assets/{assetID}/.
func (c *Client) UploadAssetPhoto(ctx context.Context, userID, assetID, filename string, reader io.Reader, contentType string) (*UploadResult, error) {
	key := fmt.Sprintf("users/%s/assets/%s/%s", userID, assetID, filename)
	if contentType == "" {
		contentType = contentTypeFor(filename)
	}

	result, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        reader,
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPrivate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload photo: %w", err)
	}

	head, err := c.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object info: %w", err)
	}

	var size int64
	if head.ContentLength != nil {
		size = *head.ContentLength
	}

	return &UploadResult{
		Key:      key,
		Size:     size,
		Checksum: aws.ToString(result.ETag),
	}, nil
}

// PresignURL creates a time-limited download URL for a stored object.
func (c *Client) PresignURL(ctx context.Context, key string, expiration time.Duration) (string, error) {
	presignClient := s3.NewPresignClient(c.client)

	url, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = expiration
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return url.URL, nil
}

// DeleteAssetPhotos removes every stored photo for an asset.
func (c *Client) DeleteAssetPhotos(ctx context.Context, userID, assetID string) error {
	prefix := fmt.Sprintf("users/%s/assets/%s/", userID, assetID)

	listed, err := c.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(c.bucket),
		Prefix: aws.String(prefix),
	})
	if err != nil {
		return fmt.Errorf("failed to list objects for deletion: %w", err)
	}
	if len(listed.Contents) == 0 {
		return nil
	}

	var toDelete []types.ObjectIdentifier
	for _, obj := range listed.Contents {
		toDelete = append(toDelete, types.ObjectIdentifier{Key: obj.Key})
	}

	_, err = c.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(c.bucket),
		Delete: &types.Delete{Objects: toDelete},
	})
	if err != nil {
		return fmt.Errorf("failed to delete objects: %w", err)
	}
	return nil
}

func contentTypeFor(filename string) string {
	switch filepath.Ext(filename) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	case ".heic":
		return "image/heic"
	default:
		return "application/octet-stream"
	}
}
