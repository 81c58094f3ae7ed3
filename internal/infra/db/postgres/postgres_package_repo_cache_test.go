//go:build !integration

package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"ftth-billing/internal/domain/model"
	"ftth-billing/internal/domain/ports/repository"
)

func TestPackageRepoCacheDecorator(t *testing.T) {
	ctx := context.Background()
	pkg := &model.ServicePackage{ID: "pkg-123", Name: "Home 20", SpeedMbps: 20, Price: 150000}
	pkgJSON, _ := json.Marshal(pkg)

	t.Run("FindByID should return from cache on hit", func(t *testing.T) {
		// Arrange
		mockRedis := &mockRedisClient{
			GetFunc: func(ctx context.Context, key string) (string, error) {
				return string(pkgJSON), nil // Simulate cache hit
			},
		}
		innerRepoCalled := false
		mockInnerRepo := &mockInnerPackageRepo{
			FindByIDFunc: func(ctx context.Context, tx repository.Tx, id string) (*model.ServicePackage, error) {
				innerRepoCalled = true // This should not be called
				return nil, nil
			},
		}

		decorator := NewPackageRepoCacheDecorator(mockInnerRepo, mockRedis, 0)

		// Act
		result, err := decorator.FindByID(ctx, nil, "pkg-123")

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if innerRepoCalled {
			t.Error("inner repository should not be called on a cache hit")
		}
		if result == nil || result.ID != "pkg-123" {
			t.Error("did not return the correct package from cache")
		}
	})

	t.Run("FindByID should fall through and populate on miss", func(t *testing.T) {
		// Arrange
		var setKey string
		mockRedis := &mockRedisClient{
			GetFunc: func(ctx context.Context, key string) (string, error) {
				return "", errors.New("redis: nil") // Simulate cache miss
			},
			SetFunc: func(ctx context.Context, key string, value interface{}, _ time.Duration) error {
				setKey = key
				return nil
			},
		}
		mockInnerRepo := &mockInnerPackageRepo{
			FindByIDFunc: func(ctx context.Context, tx repository.Tx, id string) (*model.ServicePackage, error) {
				return pkg, nil
			},
		}

		decorator := NewPackageRepoCacheDecorator(mockInnerRepo, mockRedis, 0)

		// Act
		result, err := decorator.FindByID(ctx, nil, "pkg-123")

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result == nil || result.ID != "pkg-123" {
			t.Error("did not return the package from the inner repository")
		}
		if setKey != "package:pkg-123" {
			t.Errorf("expected the cache to be populated under package:pkg-123, got %q", setKey)
		}
	})

	t.Run("Save should invalidate the cache", func(t *testing.T) {
		// Arrange
		var deletedKeys []string
		mockRedis := &mockRedisClient{
			DelFunc: func(ctx context.Context, keys ...string) error {
				deletedKeys = append(deletedKeys, keys...)
				return nil
			},
		}
		mockInnerRepo := &mockInnerPackageRepo{
			SaveFunc: func(ctx context.Context, tx repository.Tx, pkg *model.ServicePackage) error {
				return nil
			},
		}

		decorator := NewPackageRepoCacheDecorator(mockInnerRepo, mockRedis, 0)

		// Act
		err := decorator.Save(ctx, nil, pkg)

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(deletedKeys) != 2 {
			t.Fatalf("expected 2 keys to be deleted, but got %d", len(deletedKeys))
		}
	})
}
