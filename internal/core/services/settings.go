package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/quickpass/internal/core/domain"
	"github.com/custodia-labs/quickpass/internal/core/ports/driven"
	"github.com/custodia-labs/quickpass/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyJPEGQuality     = "render.jpeg_quality"
	keyMaxSourcePixels = "render.max_source_pixels"
	keyAnalysisDelay   = "session.analysis_delay"
	keyPaymentDelay    = "session.payment_delay"
	keyStorageBackend  = "storage.backend"
	keyDataDir         = "storage.data_dir"
	keyMaxRecordBytes  = "storage.max_record_bytes"
	keyRedisAddr       = "storage.redis_addr"
	keyRedisDB         = "storage.redis_db"
	keyImageBackend    = "images.backend"
	keyImageDir        = "images.dir"
	keyS3Endpoint      = "images.s3_endpoint"
	keyS3Bucket        = "images.s3_bucket"
	keyS3Region        = "images.s3_region"
	keyS3AccessKeyID   = "images.s3_access_key_id"
	keyS3SecretKey     = "images.s3_secret_access_key"
	keyS3PathStyle     = "images.s3_use_path_style"
	keyInboxService    = "inbox.service"
	keyInboxCountry    = "inbox.country"
	keyLogFormat       = "log.format"
)

// settingKind is how a config key's string value is parsed.
type settingKind int

const (
	kindString settingKind = iota
	kindInt
	kindBool
	kindDuration
)

var settingKinds = map[string]settingKind{
	keyJPEGQuality:     kindInt,
	keyMaxSourcePixels: kindInt,
	keyAnalysisDelay:   kindDuration,
	keyPaymentDelay:    kindDuration,
	keyStorageBackend:  kindString,
	keyDataDir:         kindString,
	keyMaxRecordBytes:  kindInt,
	keyRedisAddr:       kindString,
	keyRedisDB:         kindInt,
	keyImageBackend:    kindString,
	keyImageDir:        kindString,
	keyS3Endpoint:      kindString,
	keyS3Bucket:        kindString,
	keyS3Region:        kindString,
	keyS3AccessKeyID:   kindString,
	keyS3SecretKey:     kindString,
	keyS3PathStyle:     kindBool,
	keyInboxService:    kindString,
	keyInboxCountry:    kindString,
	keyLogFormat:       kindString,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings, falling back to defaults
// for missing or unrecognised values.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Render: domain.RenderSettings{
			JPEGQuality:     s.getInt(keyJPEGQuality, defaults.Render.JPEGQuality),
			MaxSourcePixels: s.getInt(keyMaxSourcePixels, defaults.Render.MaxSourcePixels),
		},
		Session: domain.SessionSettings{
			AnalysisDelay: s.getDuration(keyAnalysisDelay, defaults.Session.AnalysisDelay),
			PaymentDelay:  s.getDuration(keyPaymentDelay, defaults.Session.PaymentDelay),
		},
		Storage: domain.StorageSettings{
			Backend:        s.getStorageBackend(defaults.Storage.Backend),
			DataDir:        s.configStore.GetString(keyDataDir),
			MaxRecordBytes: s.getInt(keyMaxRecordBytes, defaults.Storage.MaxRecordBytes),
			RedisAddr:      s.getString(keyRedisAddr, defaults.Storage.RedisAddr),
			RedisDB:        s.configStore.GetInt(keyRedisDB),
		},
		Images: domain.ImageSettings{
			Backend:           s.getImageBackend(defaults.Images.Backend),
			Dir:               s.configStore.GetString(keyImageDir),
			S3Endpoint:        s.configStore.GetString(keyS3Endpoint),
			S3Bucket:          s.configStore.GetString(keyS3Bucket),
			S3Region:          s.getString(keyS3Region, defaults.Images.S3Region),
			S3AccessKeyID:     s.configStore.GetString(keyS3AccessKeyID),
			S3SecretAccessKey: s.configStore.GetString(keyS3SecretKey),
			S3UsePathStyle:    s.getBool(keyS3PathStyle, defaults.Images.S3UsePathStyle),
		},
		Inbox: domain.InboxSettings{
			ServiceID: s.getString(keyInboxService, defaults.Inbox.ServiceID),
			Country:   s.configStore.GetString(keyInboxCountry),
		},
		LogFormat: s.getString(keyLogFormat, defaults.LogFormat),
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := validateSettings(settings); err != nil {
		return err
	}

	values := []struct {
		key   string
		value any
	}{
		{keyJPEGQuality, settings.Render.JPEGQuality},
		{keyMaxSourcePixels, settings.Render.MaxSourcePixels},
		{keyAnalysisDelay, settings.Session.AnalysisDelay.String()},
		{keyPaymentDelay, settings.Session.PaymentDelay.String()},
		{keyStorageBackend, string(settings.Storage.Backend)},
		{keyDataDir, settings.Storage.DataDir},
		{keyMaxRecordBytes, settings.Storage.MaxRecordBytes},
		{keyRedisAddr, settings.Storage.RedisAddr},
		{keyRedisDB, settings.Storage.RedisDB},
		{keyImageBackend, string(settings.Images.Backend)},
		{keyImageDir, settings.Images.Dir},
		{keyS3Endpoint, settings.Images.S3Endpoint},
		{keyS3Bucket, settings.Images.S3Bucket},
		{keyS3Region, settings.Images.S3Region},
		{keyS3PathStyle, settings.Images.S3UsePathStyle},
		{keyInboxService, settings.Inbox.ServiceID},
		{keyInboxCountry, settings.Inbox.Country},
		{keyLogFormat, settings.LogFormat},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	// Credentials are only written when present.
	if settings.Images.S3AccessKeyID != "" {
		if err := s.configStore.Set(keyS3AccessKeyID, settings.Images.S3AccessKeyID); err != nil {
			return fmt.Errorf("save %s: %w", keyS3AccessKeyID, err)
		}
	}
	if settings.Images.S3SecretAccessKey != "" {
		if err := s.configStore.Set(keyS3SecretKey, settings.Images.S3SecretAccessKey); err != nil {
			return fmt.Errorf("save %s: %w", keyS3SecretKey, err)
		}
	}

	return nil
}

// Set parses value for key, checks the resulting settings and stores it.
func (s *SettingsService) Set(key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	var typed any
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: %s expects an integer, got %q", domain.ErrInvalidInput, key, value)
		}
		typed = n
	case kindBool:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: %s expects true or false, got %q", domain.ErrInvalidInput, key, value)
		}
		typed = b
	case kindDuration:
		d, err := time.ParseDuration(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: %s expects a duration like 1500ms, got %q", domain.ErrInvalidInput, key, value)
		}
		typed = d.String()
	default:
		typed = strings.TrimSpace(value)
	}

	// Reject values that would produce an inconsistent configuration.
	current, err := s.Get()
	if err != nil {
		return err
	}
	if err := applySetting(current, key, typed); err != nil {
		return err
	}
	if err := validateSettings(current); err != nil {
		return err
	}

	if err := s.configStore.Set(key, typed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys lists the recognised config keys in sorted order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks if current settings are consistent.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return validateSettings(settings)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// validateSettings checks field ranges and cross-field requirements.
func validateSettings(settings *domain.AppSettings) error {
	if err := validate.Struct(settings); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, describeValidation(err))
	}
	if !settings.Storage.Backend.IsValid() {
		return fmt.Errorf("%w: invalid storage backend: %s", domain.ErrInvalidInput, settings.Storage.Backend)
	}
	if !settings.Images.Backend.IsValid() {
		return fmt.Errorf("%w: invalid image backend: %s", domain.ErrInvalidInput, settings.Images.Backend)
	}
	if settings.Images.Backend == domain.ImagesS3 && settings.Images.S3Bucket == "" {
		return fmt.Errorf("%w: image backend s3 requires %s", domain.ErrInvalidInput, keyS3Bucket)
	}
	if settings.Storage.Backend == domain.StorageRedis && settings.Storage.RedisAddr == "" {
		return fmt.Errorf("%w: storage backend redis requires %s", domain.ErrInvalidInput, keyRedisAddr)
	}
	return nil
}

// applySetting writes one typed value into settings.
func applySetting(settings *domain.AppSettings, key string, value any) error {
	switch key {
	case keyJPEGQuality:
		settings.Render.JPEGQuality, _ = value.(int)
	case keyMaxSourcePixels:
		settings.Render.MaxSourcePixels, _ = value.(int)
	case keyAnalysisDelay:
		settings.Session.AnalysisDelay, _ = time.ParseDuration(value.(string))
	case keyPaymentDelay:
		settings.Session.PaymentDelay, _ = time.ParseDuration(value.(string))
	case keyStorageBackend:
		settings.Storage.Backend = domain.StorageBackend(value.(string))
	case keyDataDir:
		settings.Storage.DataDir, _ = value.(string)
	case keyMaxRecordBytes:
		settings.Storage.MaxRecordBytes, _ = value.(int)
	case keyRedisAddr:
		settings.Storage.RedisAddr, _ = value.(string)
	case keyRedisDB:
		settings.Storage.RedisDB, _ = value.(int)
	case keyImageBackend:
		settings.Images.Backend = domain.ImageBackend(value.(string))
	case keyImageDir:
		settings.Images.Dir, _ = value.(string)
	case keyS3Endpoint:
		settings.Images.S3Endpoint, _ = value.(string)
	case keyS3Bucket:
		settings.Images.S3Bucket, _ = value.(string)
	case keyS3Region:
		settings.Images.S3Region, _ = value.(string)
	case keyS3AccessKeyID:
		settings.Images.S3AccessKeyID, _ = value.(string)
	case keyS3SecretKey:
		settings.Images.S3SecretAccessKey, _ = value.(string)
	case keyS3PathStyle:
		settings.Images.S3UsePathStyle, _ = value.(bool)
	case keyInboxService:
		settings.Inbox.ServiceID, _ = value.(string)
	case keyInboxCountry:
		settings.Inbox.Country, _ = value.(string)
	case keyLogFormat:
		settings.LogFormat, _ = value.(string)
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	return nil
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetDuration(key)
}

func (s *SettingsService) getStorageBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	val := s.configStore.GetString(keyStorageBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.StorageBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func (s *SettingsService) getImageBackend(defaultVal domain.ImageBackend) domain.ImageBackend {
	val := s.configStore.GetString(keyImageBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.ImageBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
