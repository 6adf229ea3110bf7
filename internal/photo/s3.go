package photo

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/sakif/ganfan/internal/dataurl"
)

// S3Config locates the bucket. Endpoint is empty for AWS itself and set for
// MinIO or R2, in which case path-style addressing is used.
type S3Config struct {
	Bucket        string
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

// objectPutter is the slice of *s3.Client the store needs.
type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store uploads data-URL photos as objects.
type S3Store struct {
	client  objectPutter
	bucket  string
	baseURL string
	logger  *slog.Logger
	now     func() time.Time
}

// NewS3Store builds an S3 client from static credentials.
func NewS3Store(ctx context.Context, cfg S3Config, logger *slog.Logger) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("photo: S3 bucket is required")
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("photo: loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}

	return newS3Store(client, cfg.Bucket, baseURL, logger), nil
}

func newS3Store(client objectPutter, bucket, baseURL string, logger *slog.Logger) *S3Store {
	return &S3Store{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
		now:     time.Now,
	}
}

// Put uploads a data URL and returns its public URL. Anything that is not a
// data URL is assumed to be stored already and is returned unchanged.
func (s *S3Store) Put(ctx context.Context, userID, photo string) (string, error) {
	if !dataurl.IsDataURL(photo) {
		return photo, nil
	}

	img := dataurl.Parse(photo)
	body, err := img.Decode()
	if err != nil {
		return "", fmt.Errorf("photo: %w", err)
	}

	key := s.objectKey(userID, img.Extension())
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(img.MIME),
	})
	if err != nil {
		return "", fmt.Errorf("photo: uploading %s: %w", key, err)
	}

	s.logger.Debug("photo uploaded",
		slog.String("key", key),
		slog.Int("bytes", len(body)),
	)
	return s.baseURL + "/" + key, nil
}

// objectKey spreads objects by user and day: photos/<user>/2026/10/18/<uuid>.jpg
func (s *S3Store) objectKey(userID, ext string) string {
	d := s.now()
	return fmt.Sprintf("photos/%s/%d/%02d/%02d/%s%s",
		userID, d.Year(), d.Month(), d.Day(), uuid.New(), ext)
}
