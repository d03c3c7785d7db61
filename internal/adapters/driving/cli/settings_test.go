package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quickpass/internal/core/domain"
)

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Short key",
			input:    "abc123",
			expected: "****",
		},
		{
			name:     "Exactly 8 chars",
			input:    "12345678",
			expected: "****",
		},
		{
			name:     "Long key",
			input:    "sk-1234567890abcdef",
			expected: "sk-1...cdef",
		},
		{
			name:     "Very long key",
			input:    "sk-proj-1234567890abcdefghijklmnop",
			expected: "sk-p...mnop",
		},
		{
			name:     "Empty key",
			input:    "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := maskAPIKey(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{
			name:       "Empty input returns default",
			input:      "",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Valid choice within range",
			input:      "3",
			maxVal:     5,
			defaultVal: 1,
			expected:   3,
		},
		{
			name:       "Choice below minimum returns default",
			input:      "0",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Choice above maximum returns default",
			input:      "6",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Invalid input returns default",
			input:      "abc",
			maxVal:     5,
			defaultVal: 2,
			expected:   2,
		},
		{
			name:       "Negative number returns default",
			input:      "-1",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Whitespace returns default",
			input:      "   ",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Maximum value is valid",
			input:      "5",
			maxVal:     5,
			defaultVal: 1,
			expected:   5,
		},
		{
			name:       "Minimum value is valid",
			input:      "1",
			maxVal:     5,
			defaultVal: 3,
			expected:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseChoice(tt.input, tt.maxVal, tt.defaultVal)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestSettingsShowCmd_Defaults(t *testing.T) {
	setupTestServices(t)

	out, _, err := run(t, "settings")

	require.NoError(t, err)
	assert.Contains(t, out, "[Render]")
	assert.Contains(t, out, "JPEG quality: 90")
	assert.Contains(t, out, "Analysis delay: 1.5s")
	assert.Contains(t, out, "Backend: sqlite")
	assert.Contains(t, out, "Service: any-document")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsShowCmd_MasksS3Secrets(t *testing.T) {
	env := setupTestServices(t)
	settings := env.settings.GetDefaults()
	settings.Images.Backend = domain.ImagesS3
	settings.Images.S3Bucket = "photos"
	settings.Images.S3AccessKeyID = "AKIAEXAMPLEKEY01"
	settings.Images.S3SecretAccessKey = "wJalrXUtnFEMI/K7MDENG"
	require.NoError(t, env.settings.Save(&settings))

	out, _, err := run(t, "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Bucket: photos")
	assert.Contains(t, out, "Access key: AKIA...EY01")
	assert.Contains(t, out, "Secret key: wJal...DENG")
	assert.NotContains(t, out, "wJalrXUtnFEMI/K7MDENG")
}

func TestSettingsSetCmd(t *testing.T) {
	env := setupTestServices(t)

	out, _, err := run(t, "settings", "set", "render.jpeg_quality", "85")
	require.NoError(t, err)
	assert.Contains(t, out, "Set render.jpeg_quality")

	settings, err := env.settings.Get()
	require.NoError(t, err)
	assert.Equal(t, 85, settings.Render.JPEGQuality)
}

func TestSettingsSetCmd_Invalid(t *testing.T) {
	setupTestServices(t)

	_, _, err := run(t, "settings", "set", "render.jpeg_quality", "lots")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = run(t, "settings", "set", "search.mode", "hybrid")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsKeysCmd(t *testing.T) {
	setupTestServices(t)

	out, _, err := run(t, "settings", "keys")

	require.NoError(t, err)
	assert.Contains(t, out, "render.jpeg_quality")
	assert.Contains(t, out, "images.s3_bucket")
	assert.Contains(t, out, "inbox.service")
}

func TestSettingsWizardCmd(t *testing.T) {
	env := setupTestServices(t)
	input := strings.Join([]string{
		"2",                // redis
		"redis.local:6380", // address
		"3",                // s3
		"",                 // aws endpoint
		"photos",           // bucket
		"",                 // default region
		"AKIAEXAMPLEKEY01", // access key
		"secretvalue99",    // secret
	}, "\n") + "\n"
	rootCmd.SetIn(strings.NewReader(input))

	out, _, err := run(t, "settings", "wizard")
	require.NoError(t, err)
	assert.Contains(t, out, "Settings saved.")

	settings, err := env.settings.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.StorageRedis, settings.Storage.Backend)
	assert.Equal(t, "redis.local:6380", settings.Storage.RedisAddr)
	assert.Equal(t, domain.ImagesS3, settings.Images.Backend)
	assert.Equal(t, "photos", settings.Images.S3Bucket)
	assert.Equal(t, "us-east-1", settings.Images.S3Region)
	assert.Equal(t, "secretvalue99", settings.Images.S3SecretAccessKey)
}

func TestSettingsWizardCmd_S3NeedsBucket(t *testing.T) {
	env := setupTestServices(t)
	rootCmd.SetIn(strings.NewReader("1\n3\n\n\n"))

	_, _, err := run(t, "settings", "wizard")

	require.Error(t, err)
	settings, getErr := env.settings.Get()
	require.NoError(t, getErr)
	assert.Equal(t, domain.ImagesInline, settings.Images.Backend)
}
