package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/quickpass/internal/adapters/driven/blob/filesystem"
	"github.com/custodia-labs/quickpass/internal/adapters/driven/blob/s3"
	"github.com/custodia-labs/quickpass/internal/adapters/driven/clock"
	"github.com/custodia-labs/quickpass/internal/adapters/driven/config/file"
	"github.com/custodia-labs/quickpass/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/quickpass/internal/adapters/driven/storage/redis"
	"github.com/custodia-labs/quickpass/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/quickpass/internal/adapters/driving/cli"
	"github.com/custodia-labs/quickpass/internal/core/domain"
	"github.com/custodia-labs/quickpass/internal/core/ports/driven"
	"github.com/custodia-labs/quickpass/internal/core/ports/driving"
	"github.com/custodia-labs/quickpass/internal/core/services"
	"github.com/custodia-labs/quickpass/internal/imaging"
	"github.com/custodia-labs/quickpass/internal/logger"
)

// newServices wires the driven adapters selected by the settings into the core services.
func newServices(ctx context.Context, opts cli.Options) (*cli.Services, error) {
	var configStore driven.ConfigStore
	if opts.NoConfig {
		configStore = memory.NewConfigStore()
	} else {
		store, err := file.NewConfigStore("")
		if err != nil {
			return nil, fmt.Errorf("opening config: %w", err)
		}
		configStore = store
	}

	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, err
	}
	logger.SetFormat(settings.LogFormat)

	var closers []func() error
	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}

	backend := settings.Storage.Backend
	if opts.NoConfig {
		backend = domain.StorageMemory
	}
	state, closeState, err := openStateStore(ctx, backend, settings.Storage)
	if err != nil {
		return nil, err
	}
	if closeState != nil {
		closers = append(closers, closeState)
	}

	blobs, err := openBlobStore(ctx, settings.Images)
	if err != nil {
		_ = closeAll()
		return nil, err
	}

	presets := services.DefaultSizePresetCatalog()
	catalog, err := services.NewServiceCatalog(domain.DefaultServices(), presets)
	if err != nil {
		_ = closeAll()
		return nil, err
	}
	resolver := services.NewCountryResolver(presets, domain.DefaultCountryAliases())

	clk := clock.Real{}
	cart := services.NewOrderCartStore(state, blobs, clk)
	if err := cart.Load(ctx); err != nil {
		_ = closeAll()
		return nil, err
	}
	account := services.NewAccountService(state)
	if err := account.Load(ctx); err != nil {
		_ = closeAll()
		return nil, err
	}

	decoder := imaging.NewDecoder(settings.Render.MaxSourcePixels)
	cfg := services.SessionConfig{
		Presets:       presets,
		Services:      catalog,
		Resolver:      resolver,
		Compositor:    imaging.NewCompositor(settings.Render.JPEGQuality),
		Cart:          cart,
		Clock:         clk,
		AnalysisDelay: settings.Session.AnalysisDelay,
		PaymentDelay:  settings.Session.PaymentDelay,
	}

	logger.Debug("storage: %s, images: %s", backend, settings.Images.Backend)

	return &cli.Services{
		Presets:  presets,
		Catalog:  catalog,
		Resolver: resolver,
		Cart:     cart,
		Account:  account,
		Settings: settingsService,
		Importer: services.NewImporter(decoder, cfg),
		Decode:   decoder.Decode,
		NewSession: func(onChange func()) (driving.SessionController, error) {
			c := cfg
			c.OnChange = onChange
			return services.NewSessionController(c)
		},
		ExportOrder: services.ExportOrder,
		Close:       closeAll,
	}, nil
}

func openStateStore(
	ctx context.Context,
	backend domain.StorageBackend,
	cfg domain.StorageSettings,
) (driven.StateStore, func() error, error) {
	switch backend {
	case domain.StorageMemory:
		return memory.NewStateStore(cfg.MaxRecordBytes), nil, nil
	case domain.StorageRedis:
		store, err := redis.NewStore(ctx, redis.Options{
			Addr:     cfg.RedisAddr,
			DB:       cfg.RedisDB,
			MaxBytes: cfg.MaxRecordBytes,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to redis: %w", err)
		}
		return store, store.Close, nil
	default:
		store, err := sqlite.NewStore(cfg.DataDir, cfg.MaxRecordBytes)
		if err != nil {
			return nil, nil, fmt.Errorf("opening database: %w", err)
		}
		return store, store.Close, nil
	}
}

// openBlobStore returns nil for inline images so records embed them.
func openBlobStore(ctx context.Context, cfg domain.ImageSettings) (driven.BlobStore, error) {
	switch cfg.Backend {
	case domain.ImagesFilesystem:
		store, err := filesystem.NewStore(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return store, nil
	case domain.ImagesS3:
		store, err := s3.NewStore(ctx, s3.Options{
			Endpoint:        cfg.S3Endpoint,
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			UsePathStyle:    cfg.S3UsePathStyle,
		})
		if err != nil {
			return nil, fmt.Errorf("connecting to s3: %w", err)
		}
		return store, nil
	default:
		return nil, nil
	}
}
