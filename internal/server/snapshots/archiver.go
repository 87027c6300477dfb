// Package snapshots archives a device's cached catalog to S3-compatible
// object storage. The hub takes one snapshot before every push so there is
// an audit trail of what each scale was told to sell.
package snapshots

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/scalehub/internal/netx"
	"github.com/dmitrijs2005/scalehub/internal/scaleapi"
	"github.com/dmitrijs2005/scalehub/internal/server/config"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}

	uploadPresigned = netx.PutPresigned
)

// Archiver stores one catalog snapshot and returns its storage key.
type Archiver interface {
	Archive(ctx context.Context, deviceID int64, products []scaleapi.Product) (string, error)
}

// Disabled is a no-op Archiver used when object storage is unconfigured.
type Disabled struct{}

func (Disabled) Archive(ctx context.Context, deviceID int64, products []scaleapi.Product) (string, error) {
	return "", nil
}

// S3Archiver writes snapshots as JSON objects, one per push.
type S3Archiver struct {
	config *config.Config
}

func NewS3Archiver(cfg *config.Config) *S3Archiver {
	return &S3Archiver{config: cfg}
}

// storageKey builds "devices/{id}/{year}/{month}/{day}/{uuid}.json".
func storageKey(deviceID int64) string {
	d := time.Now()
	return fmt.Sprintf("devices/%d/%d/%d/%d/%v.json", deviceID, d.Year(), d.Month(), d.Day(), uuid.New())
}

func (a *S3Archiver) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		awsconfig.WithRegion(a.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			a.config.S3RootUser,     // MINIO_ROOT_USER
			a.config.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(a.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

// Archive uploads the catalog through a short-lived presigned PUT.
func (a *S3Archiver) Archive(ctx context.Context, deviceID int64, products []scaleapi.Product) (string, error) {
	payload, err := json.Marshal(scaleapi.ProductList{Products: products})
	if err != nil {
		return "", fmt.Errorf("snapshot encode: %w", err)
	}

	presignClient, err := a.getPresignClient()
	if err != nil {
		return "", fmt.Errorf("snapshot presign: %w", err)
	}

	bucket := a.config.S3Bucket
	key := storageKey(deviceID)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", fmt.Errorf("snapshot presign: %w", err)
	}

	if err := uploadPresigned(ctx, req.URL, payload); err != nil {
		return "", fmt.Errorf("snapshot upload: %w", err)
	}

	return key, nil
}
