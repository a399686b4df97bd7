package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/weft/internal/errors"
)

// ObjectAPI is the part of the S3 client used by S3Store.
type ObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Store stores documents as JSON objects in an S3 bucket.
type S3Store struct {
	client ObjectAPI
	bucket string
	prefix string
}

// NewS3Store creates an S3 store.
//
// Parameters:
//   - client: S3 client from aws-sdk-go-v2 (or any ObjectAPI)
//   - bucket: S3 bucket name
//   - prefix: Key prefix for documents (e.g., "snapshots/")
func NewS3Store(client ObjectAPI, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix}
}

// NewS3Client creates an S3 client from opts. Credentials are read from
// AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN; the region
// falls back to AWS_REGION. A custom endpoint switches to path-style
// addressing for S3-compatible stores.
func NewS3Client(opts S3Options) *s3.Client {
	region := opts.Region
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	o := s3.Options{
		Region:      region,
		Credentials: aws.NewCredentialsCache(aws.CredentialsProviderFunc(envCredentials)),
	}
	if opts.Endpoint != "" {
		o.BaseEndpoint = aws.String(opts.Endpoint)
		o.UsePathStyle = true
	}
	return s3.New(o)
}

func envCredentials(context.Context) (aws.Credentials, error) {
	id, secret := os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.Credentials{}, fmt.Errorf("snapshot: AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")
	}
	return aws.Credentials{
		AccessKeyID:     id,
		SecretAccessKey: secret,
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "weft-env",
	}, nil
}

func (s *S3Store) key(name string) string {
	return path.Join(s.prefix, name+".json")
}

// Put implements Store.
func (s *S3Store) Put(ctx context.Context, name string, doc *Document) (string, error) {
	if err := validName(name); err != nil {
		return "", err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return "", errors.New("W140").Wrap(err)
	}

	key := s.key(name)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"weft-version":  fmt.Sprint(doc.Version),
			"captured-time": doc.Captured.UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", errors.New("W140").WithDetail("s3 upload failed").Wrap(err)
	}
	return "s3://" + s.bucket + "/" + key, nil
}

// Get implements Store.
func (s *S3Store) Get(ctx context.Context, name string) (*Document, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, err
	}
	return decode(data)
}
