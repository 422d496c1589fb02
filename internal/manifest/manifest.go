package manifest

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/vertextoedge/bulkfetch/internal/domain"
)

// defaultFileName is used when a URL carries no usable path segment.
const defaultFileName = "index.html"

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Entry is one requested download as written in the manifest.
type Entry struct {
	// URL is the source to fetch.
	URL string `mapstructure:"url" validate:"required,url"`

	// FileName overrides the name the payload is saved under. When empty
	// the name is derived from the URL.
	FileName string `mapstructure:"file_name"`

	// Size is the expected payload size in bytes, if the operator knows
	// it. Purely advisory.
	Size int64 `mapstructure:"size" validate:"gte=0"`
}

// Manifest is an ordered list of requested downloads.
type Manifest struct {
	Downloads []Entry `mapstructure:"downloads"`
}

// Load reads and validates a manifest file. The format follows the file
// extension; toml and yaml are both accepted. A manifest with no
// downloads is legal.
func Load(manifestPath string) (*Manifest, error) {
	v := viper.New()
	v.SetConfigFile(manifestPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}

	var m Manifest
	if err := v.Unmarshal(&m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal manifest: %w", err)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return &m, nil
}

// Validate checks every entry. Duplicate destinations are not checked
// here; the scheduler owns that rule.
func (m *Manifest) Validate() error {
	for i, entry := range m.Downloads {
		if err := validate.Struct(entry); err != nil {
			return fmt.Errorf("%w: downloads[%d]: %v", domain.ErrInvalidManifest, i, err)
		}
	}
	return nil
}

// DestName returns the file name the entry should be saved under: the
// explicit file_name when given, otherwise the last path segment of the
// URL. A URL with no path, or one ending in a slash, falls back to
// index.html.
func (e Entry) DestName() string {
	if e.FileName != "" {
		return e.FileName
	}
	return fileNameFromURL(e.URL)
}

func fileNameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" || strings.HasSuffix(u.Path, "/") {
		return defaultFileName
	}
	return path.Base(u.Path)
}
