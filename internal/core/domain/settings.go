package domain

import "time"

// StorageBackend selects where cart, order and user records are persisted.
type StorageBackend string

// Available storage backends.
const (
	StorageSQLite StorageBackend = "sqlite"
	StorageRedis  StorageBackend = "redis"
	StorageMemory StorageBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	switch b {
	case StorageSQLite, StorageRedis, StorageMemory:
		return true
	default:
		return false
	}
}

// ImageBackend selects where rendered images live when records are persisted.
type ImageBackend string

// Available image backends.
const (
	// ImagesInline embeds encoded images in the cart and order records.
	ImagesInline ImageBackend = "inline"

	// ImagesFilesystem writes images to a local directory and stores references.
	ImagesFilesystem ImageBackend = "filesystem"

	// ImagesS3 writes images to an S3-compatible bucket and stores references.
	ImagesS3 ImageBackend = "s3"
)

// IsValid returns true if the backend is recognised.
func (b ImageBackend) IsValid() bool {
	switch b {
	case ImagesInline, ImagesFilesystem, ImagesS3:
		return true
	default:
		return false
	}
}

// RenderSettings controls composition output.
type RenderSettings struct {
	// JPEGQuality is the fixed encoder quality for rendered photos.
	JPEGQuality int `validate:"gte=1,lte=100"`

	// MaxSourcePixels bounds the width and height of accepted source images.
	MaxSourcePixels int `validate:"gte=1"`
}

// SessionSettings holds the simulated pipeline delays.
type SessionSettings struct {
	AnalysisDelay time.Duration `validate:"gte=0"`
	PaymentDelay  time.Duration `validate:"gte=0"`
}

// StorageSettings configures record persistence.
type StorageSettings struct {
	Backend        StorageBackend
	DataDir        string
	MaxRecordBytes int `validate:"gte=0"`
	RedisAddr      string
	RedisDB        int `validate:"gte=0"`
}

// ImageSettings configures where rendered images are kept.
type ImageSettings struct {
	Backend           ImageBackend
	Dir               string
	S3Endpoint        string
	S3Bucket          string
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3UsePathStyle    bool
}

// InboxSettings configures the watched acquisition folder.
type InboxSettings struct {
	ServiceID string
	Country   string
}

// AppSettings is the complete application configuration.
type AppSettings struct {
	Render    RenderSettings
	Session   SessionSettings
	Storage   StorageSettings
	Images    ImageSettings
	Inbox     InboxSettings
	LogFormat string `validate:"omitempty,oneof=console json"`
}

// DefaultAppSettings returns sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Render: RenderSettings{
			JPEGQuality:     90,
			MaxSourcePixels: 8000,
		},
		Session: SessionSettings{
			AnalysisDelay: 1500 * time.Millisecond,
			PaymentDelay:  2000 * time.Millisecond,
		},
		Storage: StorageSettings{
			Backend: StorageSQLite,
			// Browser local storage typically allows about 5 MB per origin.
			MaxRecordBytes: 5 * 1024 * 1024,
			RedisAddr:      "localhost:6379",
		},
		Images: ImageSettings{
			Backend:        ImagesInline,
			S3Region:       "us-east-1",
			S3UsePathStyle: true,
		},
		Inbox: InboxSettings{
			ServiceID: "any-document",
		},
		LogFormat: "console",
	}
}
