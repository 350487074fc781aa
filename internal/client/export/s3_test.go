package export

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testS3Config() S3Config {
	return S3Config{
		Bucket:    "exports",
		Region:    "us-east-1",
		Endpoint:  "http://127.0.0.1:9000",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
	}
}

func TestNewS3Uploader_RequiresBucket(t *testing.T) {
	_, err := NewS3Uploader(context.Background(), S3Config{Region: "us-east-1"})
	require.Error(t, err)
}

func TestNewS3Uploader_ConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	defer func() { loadDefaultAWSConfig = orig }()
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load-fail")
	}

	_, err := NewS3Uploader(context.Background(), testS3Config())
	require.EqualError(t, err, "load-fail")
}

func TestNewS3Uploader_EndpointOptions(t *testing.T) {
	orig := newS3ClientFromConfig
	defer func() { newS3ClientFromConfig = orig }()

	var got s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&got)
		}
		assert.Equal(t, "us-east-1", cfg.Region)
		return orig(cfg, optFns...)
	}

	u, err := NewS3Uploader(context.Background(), testS3Config())
	require.NoError(t, err)
	require.NotNil(t, u.client)
	require.NotNil(t, got.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000", *got.BaseEndpoint)
	assert.True(t, got.UsePathStyle)
}

func TestS3Uploader_Upload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kulus_export_20250310_083000.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"totalReadings":0}`), 0o644))

	u, err := NewS3Uploader(context.Background(), testS3Config())
	require.NoError(t, err)
	u.now = func() time.Time { return base }

	orig := putObject
	defer func() { putObject = orig }()

	var (
		lastIn   *s3.PutObjectInput
		lastBody []byte
	)
	putObject = func(_ *s3.Client, _ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		lastIn = in
		lastBody, _ = io.ReadAll(in.Body)
		return &s3.PutObjectOutput{}, nil
	}

	key, err := u.Upload(context.Background(), path, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "exports/2025/3/10/kulus_export_20250310_083000.json", key)
	require.NotNil(t, lastIn)
	assert.Equal(t, "exports", *lastIn.Bucket)
	assert.Equal(t, key, *lastIn.Key)
	assert.Equal(t, "application/json", *lastIn.ContentType)
	assert.Equal(t, `{"totalReadings":0}`, string(lastBody))

	putObject = func(*s3.Client, context.Context, *s3.PutObjectInput, ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return nil, errors.New("access denied")
	}
	_, err = u.Upload(context.Background(), path, FormatJSON)
	require.ErrorContains(t, err, "access denied")

	_, err = u.Upload(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), FormatCSV)
	require.Error(t, err)
}
