package storage_test

import (
	"context"
	"errors"
	"testing"

	"aggregate-persistence/core/storage"
	"aggregate-persistence/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestNewClient(t *testing.T) {
	t.Run("ValidConfig", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    false,
			Bucket:    "journal",
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("EndpointWithHTTP", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "http://localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    false,
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("EndpointWithHTTPS", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "https://s3.amazonaws.com",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    true,
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})
}

func TestEnsureBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("Exists", func(t *testing.T) {
		c := new(mocks.Client)
		c.On("BucketExists", ctx, "journal").Return(true, nil)
		assert.NoError(t, storage.EnsureBucket(ctx, c, "journal", ""))
		c.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Created", func(t *testing.T) {
		c := new(mocks.Client)
		c.On("BucketExists", ctx, "journal").Return(false, nil)
		c.On("MakeBucket", ctx, "journal", minio.MakeBucketOptions{Region: "eu-west-1"}).Return(nil)
		assert.NoError(t, storage.EnsureBucket(ctx, c, "journal", "eu-west-1"))
		c.AssertExpectations(t)
	})

	t.Run("Check Fails", func(t *testing.T) {
		c := new(mocks.Client)
		c.On("BucketExists", ctx, "journal").Return(false, errors.New("denied"))
		assert.ErrorContains(t, storage.EnsureBucket(ctx, c, "journal", ""), "denied")
	})
}
