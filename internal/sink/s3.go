package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/signalnine/rabinstat/internal/chart"
	"github.com/signalnine/rabinstat/internal/config"
	"github.com/signalnine/rabinstat/internal/result"
)

// objectPutter is the part of *s3.Client the sink uses.
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3 uploads the summary, and the chart when one was rendered, under
// <prefix>/<run id>/ in any S3-compatible store.
type S3 struct {
	client objectPutter
	bucket string
	prefix string
}

func NewS3(ctx context.Context, cfg config.S3) (*S3, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

func (s *S3) Name() string { return "s3" }

// ObjectKey is where a run's file lands in the bucket.
func ObjectKey(prefix, runID, name string) string {
	return path.Join(prefix, runID, name)
}

func (s *S3) Write(ctx context.Context, p *Payload) error {
	data, err := json.MarshalIndent(p.Summary, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	if err := s.put(ctx, ObjectKey(s.prefix, p.RunID, result.SummaryFile), data, "application/json"); err != nil {
		return err
	}
	if len(p.Chart) > 0 {
		name := "chart." + p.ChartExt
		if err := s.put(ctx, ObjectKey(s.prefix, p.RunID, name), p.Chart, chart.ContentType(p.ChartExt)); err != nil {
			return err
		}
	}
	return nil
}

func (s *S3) put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("uploading s3://%s/%s: %w", s.bucket, key, err)
	}
	return nil
}

func (s *S3) Close() error { return nil }
