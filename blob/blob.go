// Package blob uploads finished output files to an S3-compatible bucket.
package blob

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/padraicbc/rpscrape/config"
)

// Client holds an upload manager bound to one bucket.
type Client struct {
	uploader *manager.Uploader
	bucket   string
	prefix   string
}

// New builds a client from the S3_* settings. Endpoint is only set for
// S3-compatible providers; leave it empty for AWS.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	if err := cfg.RequireS3(); err != nil {
		return nil, err
	}

	creds := credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("blob: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		}
		o.UsePathStyle = cfg.S3ForcePathStyle
	})

	return &Client{
		uploader: manager.NewUploader(client),
		bucket:   cfg.S3Bucket,
		prefix:   cfg.S3Prefix,
	}, nil
}

// Upload streams the file at localPath to key, returning the full object key.
func (c *Client) Upload(ctx context.Context, localPath, key string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("blob: open %s: %w", localPath, err)
	}
	defer f.Close()

	full := path.Join(c.prefix, key)
	out, err := c.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(full),
		Body:        f,
		ContentType: aws.String(contentType(localPath)),
	})
	if err != nil {
		return "", fmt.Errorf("blob: upload %s: %w", full, err)
	}

	zap.L().Info("uploaded", zap.String("file", localPath), zap.String("location", out.Location))
	return full, nil
}

// Key derives an object key from a path under dataDir, using forward slashes.
// Files outside dataDir keep only their base name.
func Key(dataDir, localPath string) string {
	rel, err := filepath.Rel(dataDir, localPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.Base(localPath)
	}
	return filepath.ToSlash(rel)
}

func contentType(name string) string {
	switch {
	case strings.HasSuffix(name, ".gz"):
		return "application/gzip"
	case strings.HasSuffix(name, ".json"):
		return "application/json"
	case strings.HasSuffix(name, ".csv"):
		return "text/csv"
	}
	return "application/octet-stream"
}
