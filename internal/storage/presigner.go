// Package storage provides presigned access to evidence assets stored in
// object storage. Lead matrix rows reference assets by object key; the portal
// receives short-lived presigned URLs instead of raw keys.
package storage

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"leadrouting_backend/platform/config"
	"leadrouting_backend/platform/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Presigner converts evidence asset object keys into presigned GET URLs.
// When object storage is not configured it degrades to a pass-through that
// returns the raw key, so local development works without MinIO.
type Presigner struct {
	client *minio.Client
	bucket string
	ttl    time.Duration
	log    *logger.Logger
}

func NewPresigner(cfg config.StorageConfig, log *logger.Logger) (*Presigner, error) {
	p := &Presigner{
		bucket: cfg.GetMinioBucketEvidenceAssets(),
		ttl:    cfg.GetPresignTTL(),
		log:    log,
	}

	if !cfg.IsMinIOEnabled() {
		log.Warn("object storage disabled, evidence asset urls will be raw keys")
		return p, nil
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}
	p.client = client
	return p, nil
}

// PresignGet returns a presigned GET URL for an object key, or the key itself
// when storage is disabled or presigning fails. Asset display is best-effort;
// a presign failure must not break the matrix response.
func (p *Presigner) PresignGet(ctx context.Context, objectKey string) string {
	if p.client == nil || objectKey == "" {
		return objectKey
	}

	presigned, err := p.client.PresignedGetObject(ctx, p.bucket, objectKey, p.ttl, url.Values{})
	if err != nil {
		p.log.Warn("presign evidence asset failed", "objectKey", objectKey, "error", err)
		return objectKey
	}
	return presigned.String()
}
