package storage

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/ghaggin/taskboard/internal/config"
	"go.uber.org/zap"
)

const (
	presignExpiry = 15 * time.Minute
)

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type getPresigner interface {
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

type s3Store struct {
	bucket  string
	client  objectPutter
	presign getPresigner
	log     *zap.Logger
	now     func() time.Time
}

// NewS3 stores attachments in an S3 compatible bucket. Downloads are
// redirected to a presigned URL.
func NewS3(ctx context.Context, c config.S3, log *zap.Logger) (FileStore, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(c.Region),
	}
	if c.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &s3Store{
		bucket:  c.Bucket,
		client:  client,
		presign: s3.NewPresignClient(client),
		log:     log,
		now:     time.Now,
	}, nil
}

func (s *s3Store) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	name := storedName(s.now(), originalName)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(name),
		Body:   r,
	})
	if err != nil {
		return "", err
	}

	s.log.Debug("stored upload", zap.String("bucket", s.bucket), zap.String("key", name))
	return name, nil
}

func (s *s3Store) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/")
	if key == "" || strings.Contains(key, "/") {
		http.NotFound(w, r)
		return
	}

	req, err := s.presign.PresignGetObject(r.Context(), &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		s.log.Error("presign attachment", zap.String("key", key), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, req.URL, http.StatusFound)
}
