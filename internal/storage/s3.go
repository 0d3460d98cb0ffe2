package storage

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/config"
)

type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type presignAPI interface {
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Client wraps the bucket used for studio and musician media.
type Client struct {
	api     s3API
	presign presignAPI
	bucket  string
	region  string
}

func NewClient(cfg *config.Config) *Client {
	api := s3.New(s3.Options{
		Region: cfg.AWSRegion,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretKey, ""),
		),
	})

	return &Client{
		api:     api,
		presign: s3.NewPresignClient(api),
		bucket:  cfg.AWSBucketName,
		region:  cfg.AWSRegion,
	}
}

type Object struct {
	Key string
	URL string
}

func (c *Client) PublicURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.bucket, c.region, key)
}

func (c *Client) Upload(ctx context.Context, key string, body []byte, contentType string) (Object, error) {
	_, err := c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return Object{}, fmt.Errorf("put object %s: %w", key, err)
	}
	return Object{Key: key, URL: c.PublicURL(key)}, nil
}

// Delete is idempotent: removing a key that no longer exists is not an error.
func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

func (c *Client) SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	req, err := c.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return req.URL, nil
}

type BatchItem struct {
	Key         string
	Body        []byte
	ContentType string
}

// UploadBatch stores every item concurrently. If any upload fails, the
// siblings that already made it to the bucket are deleted again so a failed
// batch never leaves orphaned objects behind.
func (c *Client) UploadBatch(ctx context.Context, items []BatchItem) ([]Object, error) {
	type result struct {
		idx int
		obj Object
		err error
	}

	results := make(chan result, len(items))
	for i, item := range items {
		go func(i int, item BatchItem) {
			obj, err := c.Upload(ctx, item.Key, item.Body, item.ContentType)
			results <- result{idx: i, obj: obj, err: err}
		}(i, item)
	}

	objects := make([]Object, len(items))
	var firstErr error
	var stored []string
	for range items {
		r := <-results
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		objects[r.idx] = r.obj
		stored = append(stored, r.obj.Key)
	}

	if firstErr != nil {
		for _, key := range stored {
			if err := c.Delete(ctx, key); err != nil {
				// best effort, the batch already failed
				continue
			}
		}
		return nil, firstErr
	}

	return objects, nil
}

// StudioImageKey namespaces studio uploads under the owning studio.
func StudioImageKey(studioID uint, originalName string) string {
	return fmt.Sprintf("studios/%d/%s-%s", studioID, uuid.NewString(), sanitizeName(originalName))
}

// MusicianMediaKey namespaces musician uploads by public userId and folder
// (profile/avatar, profile/cover, gallery, tracks).
func MusicianMediaKey(userID, folder, originalName string) string {
	return fmt.Sprintf("musicians/%s/%s/%d-%s", userID, folder, time.Now().UnixMilli(), sanitizeName(originalName))
}

func sanitizeName(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}
