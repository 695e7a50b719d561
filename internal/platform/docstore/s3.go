package docstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	crerrors "github.com/cockroachdb/errors"

	"github.com/riskibarqy/league-registry/internal/platform/resilience"
)

// S3Client is the subset of *s3.Client used by S3Store.
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Config struct {
	Bucket   string
	Region   string
	Endpoint string
	Prefix   string
}

// S3Store keeps each document as one object and uses S3 conditional
// writes (If-Match / If-None-Match) for version checks. The object ETag
// is the document version.
type S3Store struct {
	client  S3Client
	bucket  string
	prefix  string
	breaker *resilience.CircuitBreaker
}

// NewS3Client builds a client from the default AWS credential chain.
// A custom endpoint switches to path-style addressing for S3-compatible
// servers such as MinIO.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, crerrors.Wrap(err, "load aws config")
	}

	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return s3.NewFromConfig(awsCfg), nil
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	}), nil
}

func NewS3Store(client S3Client, cfg S3Config, breaker *resilience.CircuitBreaker) (*S3Store, error) {
	if client == nil {
		return nil, crerrors.New("s3 client is required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, crerrors.New("s3 bucket is required")
	}

	prefix := strings.Trim(strings.TrimSpace(cfg.Prefix), "/")
	if prefix != "" {
		prefix += "/"
	}

	return &S3Store{
		client:  client,
		bucket:  bucket,
		prefix:  prefix,
		breaker: breaker,
	}, nil
}

func (s *S3Store) objectKey(key string) string {
	return s.prefix + key + ".json"
}

func (s *S3Store) Get(ctx context.Context, key string) (Document, bool, error) {
	var (
		doc   Document
		found bool
	)
	err := s.breaker.Do(func() error {
		out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(s.objectKey(key)),
		})
		if err != nil {
			if isNotFound(err) {
				return nil
			}
			return crerrors.Wrapf(err, "get object %s", s.objectKey(key))
		}
		defer out.Body.Close()

		body, err := io.ReadAll(out.Body)
		if err != nil {
			return crerrors.Wrapf(err, "read object %s", s.objectKey(key))
		}

		doc = Document{Body: body, Version: aws.ToString(out.ETag)}
		found = true
		return nil
	}, countsAsFailure)
	if err != nil {
		return Document{}, false, err
	}
	return doc, found, nil
}

func (s *S3Store) Put(ctx context.Context, key string, body []byte, expectedVersion string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.objectKey(key)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	}
	if expectedVersion == "" {
		input.IfNoneMatch = aws.String("*")
	} else {
		input.IfMatch = aws.String(expectedVersion)
	}

	var version string
	err := s.breaker.Do(func() error {
		out, err := s.client.PutObject(ctx, input)
		if err != nil {
			if isPreconditionFailed(err) {
				return ErrVersionConflict
			}
			return crerrors.Wrapf(err, "put object %s", s.objectKey(key))
		}
		version = aws.ToString(out.ETag)
		return nil
	}, countsAsFailure)
	if err != nil {
		return "", err
	}
	return version, nil
}

func countsAsFailure(err error) bool {
	return !errors.Is(err, ErrVersionConflict) &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	return httpStatus(err) == http.StatusNotFound
}

// isPreconditionFailed matches a lost conditional write. S3 answers 412
// when the ETag moved and 409 when a concurrent conditional write won.
func isPreconditionFailed(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "PreconditionFailed", "ConditionalRequestConflict":
			return true
		}
	}
	status := httpStatus(err)
	return status == http.StatusPreconditionFailed || status == http.StatusConflict
}

func httpStatus(err error) int {
	var respErr interface{ HTTPStatusCode() int }
	if errors.As(err, &respErr) {
		return respErr.HTTPStatusCode()
	}
	return 0
}
