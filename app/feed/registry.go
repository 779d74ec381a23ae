package feed

import (
	"cmp"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	DefaultMaxItems = 50
	MaxItemsCeiling = 100
	DefaultTimeout  = 12 // seconds
	MaxTimeout      = 15 // seconds
	DefaultPageSize = 25
)

var (
	ErrUnknownKind = errors.New("unknown source kind")
	ErrNoSources   = errors.New("no source configurations found")
)

//go:embed sources/*.yml
var builtinSources embed.FS

// Registry holds the static source configuration. It is loaded once at
// startup and read concurrently afterwards.
type Registry struct {
	fsys    fs.FS
	configs []*Config
	mu      sync.RWMutex
}

// NewRegistry reads *.yml files from sourcesDir, or the built-in source set
// when sourcesDir is empty.
func NewRegistry(sourcesDir string) *Registry {
	if sourcesDir == "" {
		sub, err := fs.Sub(builtinSources, "sources")
		if err != nil {
			// embed paths are fixed at compile time
			panic(err)
		}
		return NewRegistryFS(sub)
	}
	return NewRegistryFS(os.DirFS(sourcesDir))
}

func NewRegistryFS(fsys fs.FS) *Registry {
	return &Registry{fsys: fsys}
}

func (r *Registry) Run() error {
	files, err := fs.Glob(r.fsys, "*.yml")
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}
	if len(files) == 0 {
		return ErrNoSources
	}

	configs := make([]*Config, 0, len(files))
	seen := make(map[string]bool, len(files))

	for _, file := range files {
		sourceConfig, err := r.LoadConfig(file)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		if seen[sourceConfig.Name] {
			return fmt.Errorf("duplicate source name '%s' in %s", sourceConfig.Name, file)
		}

		seen[sourceConfig.Name] = true
		configs = append(configs, sourceConfig)

		slog.Debug("Source configuration loaded", "source", sourceConfig.Name, "kind", sourceConfig.Kind, "enabled", sourceConfig.Settings.Enabled, "profiles", sourceConfig.Profiles)
	}

	// Configuration order decides which duplicate survives a merge
	slices.SortStableFunc(configs, func(a, b *Config) int {
		return cmp.Or(cmp.Compare(a.Priority, b.Priority), strings.Compare(a.Name, b.Name))
	})

	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs = configs

	return nil
}

// LoadConfig parses and validates one source file without storing it.
func (r *Registry) LoadConfig(file string) (*Config, error) {
	sourceConfig, err := r.parseConfig(file)
	if err != nil {
		return nil, err
	}

	if sourceConfig.Name == "" {
		sourceConfig.Name = strings.TrimSuffix(path.Base(file), path.Ext(file))
	}

	if err := r.validateConfig(sourceConfig); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", file, err)
	}

	return sourceConfig, nil
}

// GetConfigs returns all sources in configuration order.
func (r *Registry) GetConfigs() []*Config {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.configs)
}

// ForProfile returns the enabled sources of a profile in configuration order.
func (r *Registry) ForProfile(profile Profile) []*Config {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var configs []*Config
	for _, c := range r.configs {
		if c.Settings.Enabled && c.InProfile(profile) {
			configs = append(configs, c)
		}
	}
	return configs
}

func (r *Registry) GetConfigCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.configs)
}

func (r *Registry) parseConfig(file string) (*Config, error) {
	data, err := fs.ReadFile(r.fsys, file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var sourceConfig Config
	if err := yaml.Unmarshal(data, &sourceConfig); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if sourceConfig.Kind == "" {
		sourceConfig.Kind = KindFeed
	}
	if len(sourceConfig.Profiles) == 0 {
		sourceConfig.Profiles = []Profile{ProfileNews}
	}
	if sourceConfig.Settings.MaxItems == 0 {
		sourceConfig.Settings.MaxItems = DefaultMaxItems
	}
	if sourceConfig.Settings.Timeout == 0 {
		sourceConfig.Settings.Timeout = DefaultTimeout
	}

	if d := sourceConfig.Docket; d != nil {
		d.SearchParam = cmp.Or(d.SearchParam, "filter[searchTerm]")
		d.SizeParam = cmp.Or(d.SizeParam, "page[size]")
		d.SortParam = cmp.Or(d.SortParam, "sort")
		d.Sort = cmp.Or(d.Sort, "-postedDate")
		d.APIKeyParam = cmp.Or(d.APIKeyParam, "api_key")
		if d.PageSize == 0 {
			d.PageSize = DefaultPageSize
		}
	}

	if l := sourceConfig.Listing; l != nil {
		l.Link = cmp.Or(l.Link, "a")
	}

	return &sourceConfig, nil
}

func (r *Registry) validateConfig(sourceConfig *Config) error {
	if sourceConfig == nil {
		return fmt.Errorf("sourceConfig is nil")
	}

	if sourceConfig.Name == "" {
		return fmt.Errorf("source name is required")
	}

	u, err := url.Parse(sourceConfig.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("source URL must be absolute: %q", sourceConfig.URL)
	}

	switch sourceConfig.Kind {
	case KindFeed:
	case KindDocket:
		if sourceConfig.Docket == nil {
			return fmt.Errorf("docket options are required for kind %s", sourceConfig.Kind)
		}
	case KindListing:
		if sourceConfig.Listing == nil || sourceConfig.Listing.Item == "" || sourceConfig.Listing.Title == "" {
			return fmt.Errorf("listing item and title selectors are required for kind %s", sourceConfig.Kind)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKind, sourceConfig.Kind)
	}

	for _, p := range sourceConfig.Profiles {
		if !p.Valid() {
			return fmt.Errorf("unknown profile: %s", p)
		}
	}

	if s := sourceConfig.Settings; s.MaxItems < 0 || s.MaxItems > MaxItemsCeiling {
		return fmt.Errorf("max items must be between 1 and %d", MaxItemsCeiling)
	}
	if s := sourceConfig.Settings; s.Timeout < 0 || s.Timeout > MaxTimeout {
		return fmt.Errorf("timeout must be between 1 and %d seconds", MaxTimeout)
	}
	if d := sourceConfig.Docket; d != nil && (d.PageSize < 0 || d.PageSize > MaxItemsCeiling) {
		return fmt.Errorf("page size must be between 1 and %d", MaxItemsCeiling)
	}

	validFields := map[string]bool{
		"title":         true,
		"description":   true,
		"content":       true,
		"authors":       true,
		"link":          true,
		"categories":    true,
		"agency":        true,
		"document_type": true,
	}

	for i, filter := range sourceConfig.Filters {
		if !validFields[filter.Field] {
			return fmt.Errorf("invalid filter field at index %d: %s", i, filter.Field)
		}
		if len(filter.Includes) == 0 && len(filter.Excludes) == 0 {
			return fmt.Errorf("filter at index %d must have at least one include or exclude rule", i)
		}
	}

	return nil
}
