package minio

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/futburguer-cart/internal/cfg"
	"github.com/DRSN-tech/futburguer-cart/pkg/e"
	"github.com/DRSN-tech/futburguer-cart/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
)

// localAssetsPrefix — изображения, которые раздаёт сам фронтенд
const localAssetsPrefix = "assets/"

type presigned struct {
	url       string
	expiresAt time.Time
}

// AssetResolver превращает ключ объекта в бакете меню в подписанную ссылку.
// Ссылки кэшируются на половину срока жизни подписи.
type AssetResolver struct {
	client *minio.Client
	cfg    *cfg.MinIOCfg
	logger logger.Logger
	now    func() time.Time

	mu    sync.Mutex
	cache map[string]presigned
}

func NewAssetResolver(client *minio.Client, cfg *cfg.MinIOCfg, logger logger.Logger) *AssetResolver {
	return &AssetResolver{
		client: client,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
		cache:  make(map[string]presigned),
	}
}

// ResolveImage возвращает ссылку на изображение. При ошибке подписи возвращается исходная ссылка.
func (a *AssetResolver) ResolveImage(ctx context.Context, ref string) string {
	if isPassThrough(ref) {
		return ref
	}

	now := a.now()

	a.mu.Lock()
	if p, ok := a.cache[ref]; ok && now.Before(p.expiresAt) {
		a.mu.Unlock()
		return p.url
	}
	a.mu.Unlock()

	u, err := a.client.PresignedGetObject(ctx, a.cfg.BucketName, ref, a.cfg.PresignTTL, url.Values{})
	if err != nil {
		a.logger.Warnf("failed to presign image %q: %v", ref, e.Wrap(whereami.WhereAmI(), err))
		return ref
	}

	a.mu.Lock()
	a.cache[ref] = presigned{url: u.String(), expiresAt: now.Add(a.cfg.PresignTTL / 2)}
	a.mu.Unlock()

	return u.String()
}

// StaticResolver используется без MinIO: ссылки отдаются как есть.
type StaticResolver struct{}

func (StaticResolver) ResolveImage(_ context.Context, ref string) string {
	return ref
}

func isPassThrough(ref string) bool {
	return ref == "" ||
		strings.HasPrefix(ref, localAssetsPrefix) ||
		strings.HasPrefix(ref, "/") ||
		strings.HasPrefix(ref, "http://") ||
		strings.HasPrefix(ref, "https://") ||
		strings.HasPrefix(ref, "data:")
}
