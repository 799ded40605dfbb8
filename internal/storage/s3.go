package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/leonwong282/mdimgup/internal/profile"
)

// S3Client implements ObjectStore on top of the AWS SDK, covering AWS
// S3 itself and every S3-compatible backend via a base endpoint
// override.
type S3Client struct {
	c *s3.Client
}

// Options describes how to construct a client: region, optional custom
// endpoint, and static credentials.
type Options struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// OptionsFor applies the per-provider construction rule:
//
//   - cloudflare-r2: fixed region "auto", endpoint derived from the
//     account id
//   - aws-s3: region from the profile, no custom endpoint
//   - s3-compatible: region from the profile (default "us-east-1"),
//     endpoint from the profile
func OptionsFor(p *profile.StorageProfile, creds profile.Credentials) Options {
	opts := Options{AccessKey: creds.AccessKey, SecretKey: creds.SecretKey}

	switch p.Provider {
	case profile.ProviderR2:
		opts.Region = "auto"
		opts.Endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", p.AccountID)
	case profile.ProviderAWS:
		opts.Region = p.Region
	case profile.ProviderS3Compatible:
		opts.Region = p.Region
		if opts.Region == "" {
			opts.Region = "us-east-1"
		}
		opts.Endpoint = p.Endpoint
	}

	return opts
}

// NewS3Client builds a client from opts.
func NewS3Client(ctx context.Context, opts Options) (*S3Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKey,
			opts.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	})

	return &S3Client{c: client}, nil
}

// NewClientForProfile constructs the ObjectStore for a resolved profile
// and its credentials, per the provider rule. It is the ClientFactory
// used by both the upload pipeline and undo-time deletes.
func NewClientForProfile(ctx context.Context, p *profile.StorageProfile, creds profile.Credentials) (ObjectStore, error) {
	return NewS3Client(ctx, OptionsFor(p, creds))
}

func (s *S3Client) Put(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	_, err := s.c.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", bucket, key, err)
	}
	return nil
}

func (s *S3Client) Delete(ctx context.Context, bucket, key string) error {
	_, err := s.c.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", bucket, key, err)
	}
	return nil
}
