package s3

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/sync/singleflight"

	"github.com/OFFIS-RIT/quizbench/backend/pkg/loader"
)

// S3DatasetFileLoader is a DatasetFileLoader implementation that loads
// file contents from an Amazon S3 bucket. It uses the AWS SDK v2 for
// Go.
//
// This loader is useful when dataset and prediction files are stored
// in S3 instead of the local filesystem.
type S3DatasetFileLoader struct {
	bucket string
	client *s3.Client

	cache   map[string][]byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewS3DatasetFileLoaderWithClient creates a new S3DatasetFileLoader
// using an existing s3.Client. This is useful if you want to reuse a
// preconfigured AWS client (e.g., with custom middleware or
// credentials).
func NewS3DatasetFileLoaderWithClient(bucket string, client *s3.Client) *S3DatasetFileLoader {
	return &S3DatasetFileLoader{
		bucket: bucket,
		client: client,
		cache:  make(map[string][]byte),
	}
}

// NewS3DatasetFileLoaderParams defines the configuration parameters
// for creating a new S3DatasetFileLoader.
//
// Bucket specifies the S3 bucket name.
// Endpoint allows overriding the S3 endpoint (useful for S3-compatible
// storage like MinIO).
// Region specifies the AWS region.
// AccessKey and SecretKey provide static credentials.
type NewS3DatasetFileLoaderParams struct {
	Bucket    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// NewS3DatasetFileLoader creates a new S3DatasetFileLoader using the
// provided parameters. It initializes an AWS S3 client with static
// credentials and the given endpoint/region.
//
// Example:
//
//	fileLoader, err := s3.NewS3DatasetFileLoader(ctx, s3.NewS3DatasetFileLoaderParams{
//		Bucket:    "my-bucket",
//		Endpoint:  "https://s3.amazonaws.com",
//		Region:    "us-east-1",
//		AccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
//		SecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	file := loader.NewDatasetFile(loader.NewDatasetFileParams{
//		ID:       "1",
//		FilePath: "datasets/data.json",
//		Loader:   fileLoader,
//	})
//	data, err := file.GetText(ctx)
func NewS3DatasetFileLoader(ctx context.Context, params NewS3DatasetFileLoaderParams) (*S3DatasetFileLoader, error) {
	cfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion(params.Region),
		config.WithBaseEndpoint(params.Endpoint),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			params.AccessKey,
			params.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg)

	return &S3DatasetFileLoader{
		bucket: params.Bucket,
		client: client,
		cache:  make(map[string][]byte),
	}, nil
}

// GetFileText retrieves the contents of the given DatasetFile from the
// configured S3 bucket. It implements the DatasetFileLoader interface.
func (l *S3DatasetFileLoader) GetFileText(ctx context.Context, file loader.DatasetFile) ([]byte, error) {
	cacheKey := loader.CacheKey(file)

	l.cacheMu.RLock()
	if cached, ok := l.cache[cacheKey]; ok {
		l.cacheMu.RUnlock()
		return cached, nil
	}
	l.cacheMu.RUnlock()

	result, err, _ := l.group.Do(cacheKey, func() (any, error) {
		l.cacheMu.RLock()
		if cached, ok := l.cache[cacheKey]; ok {
			l.cacheMu.RUnlock()
			return cached, nil
		}
		l.cacheMu.RUnlock()

		key := file.FilePath
		bucket := l.bucket

		out, err := l.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return nil, err
		}
		defer out.Body.Close()

		buf := new(bytes.Buffer)
		if _, err := io.Copy(buf, out.Body); err != nil {
			return nil, err
		}

		byts := buf.Bytes()

		l.cacheMu.Lock()
		l.cache[cacheKey] = byts
		l.cacheMu.Unlock()

		return byts, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}
