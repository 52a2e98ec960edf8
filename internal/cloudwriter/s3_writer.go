package cloudwriter

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const archiveContentType = "application/octet-stream"

// S3Writer buffers an order archive in memory and uploads it as a single
// object on Close. An archive is one Parquet file of order history, far below
// any size that would warrant a multipart upload.
type S3Writer struct {
	client *s3.Client
	bucket string
	key    string
	buf    bytes.Buffer
}

// S3WriterFactory hands out S3Writers sharing one configured client.
type S3WriterFactory struct {
	client *s3.Client
	region string
}

func NewS3WriterFactory(region string) (*S3WriterFactory, error) {
	cfg, err := config.LoadDefaultConfig(context.Background(), config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for region %s: %w", region, err)
	}
	return &S3WriterFactory{
		client: s3.NewFromConfig(cfg),
		region: region,
	}, nil
}

func (f *S3WriterFactory) NewWriter(bucket, objectPath string) (CloudWriter, error) {
	if bucket == "" {
		return nil, fmt.Errorf("archive bucket name is required")
	}
	return &S3Writer{
		client: f.client,
		bucket: bucket,
		key:    objectPath,
	}, nil
}

func (w *S3Writer) Write(data []byte) (int, error) {
	return w.buf.Write(data)
}

// Close uploads the buffered archive. The object only becomes visible once
// the upload succeeds, so a failed export never leaves a partial archive.
func (w *S3Writer) Close() error {
	_, err := w.client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket:      aws.String(w.bucket),
		Key:         aws.String(w.key),
		Body:        bytes.NewReader(w.buf.Bytes()),
		ContentType: aws.String(archiveContentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload order archive to s3://%s/%s: %w", w.bucket, w.key, err)
	}
	return nil
}
