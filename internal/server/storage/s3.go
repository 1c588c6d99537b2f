package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/staffkeeper/internal/common"
	sc "github.com/dmitrijs2005/staffkeeper/internal/server/config"
)

// PresignTTL is the lifetime of the download URLs handed out by Locate.
const PresignTTL = 15 * time.Minute

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}
)

type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type presignAPI interface {
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Storage keeps files in an S3-compatible bucket (MinIO in development).
type S3Storage struct {
	bucket    string
	client    objectAPI
	presigner presignAPI
	now       func() time.Time
}

func NewS3Storage(ctx context.Context, cfg *sc.Config) (*S3Storage, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3RootUser,     // MINIO_ROOT_USER
			cfg.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
		}
		o.UsePathStyle = true
	})

	return &S3Storage{
		bucket:    cfg.S3Bucket,
		client:    client,
		presigner: newS3PresignClient(client),
		now:       time.Now,
	}, nil
}

func (s *S3Storage) Save(ctx context.Context, u *Upload) (string, error) {
	if u == nil || u.Body == nil {
		return "", errors.New("empty upload")
	}

	// the signer needs a seekable body to compute the payload hash
	body, ok := u.Body.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(u.Body)
		if err != nil {
			return "", fmt.Errorf("read upload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	name := fileName(s.now(), u.Filename)
	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(name),
		Body:   body,
	}
	if u.ContentType != "" {
		in.ContentType = aws.String(u.ContentType)
	}
	if u.Size > 0 {
		in.ContentLength = aws.Int64(u.Size)
	}

	if _, err := s.client.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("put object %s: %w", name, err)
	}

	return storedPath(name), nil
}

func (s *S3Storage) Delete(ctx context.Context, p string) error {
	name, err := nameFromStoredPath(p)
	if err != nil {
		return err
	}

	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(name),
	}); err != nil {
		return fmt.Errorf("delete object %s: %w", name, err)
	}

	return nil
}

func (s *S3Storage) Locate(ctx context.Context, name string) (*Location, error) {
	if err := checkName(name); err != nil {
		return nil, common.ErrorNotFound
	}

	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(name),
	}, s3.WithPresignExpires(PresignTTL))
	if err != nil {
		return nil, fmt.Errorf("presign get %s: %w", name, err)
	}

	return &Location{RedirectURL: req.URL}, nil
}
