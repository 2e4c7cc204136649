// Package config provides the settings loader for assetmap.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/assetmap/internal/core/domain"
	"go.trai.ch/assetmap/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is the settings file looked up when a directory is given.
const DefaultFilename = "assetmap.yaml"

var _ ports.SettingsLoader = (*Loader)(nil)

// Loader implements ports.SettingsLoader using a YAML file.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates a new settings loader.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load reads the settings at path. A directory resolves to its assetmap.yaml.
func (l *Loader) Load(path string) (*domain.Settings, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, DefaultFilename)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	data, err := os.ReadFile(abs) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", abs)
	}

	var file Settingsfile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", abs)
	}

	settings, err := l.toSettings(filepath.Dir(abs), &file)
	if err != nil {
		return nil, zerr.With(err, "path", abs)
	}
	return settings, nil
}

func (l *Loader) toSettings(dir string, file *Settingsfile) (*domain.Settings, error) {
	settings := &domain.Settings{
		Dir:          dir,
		Roots:        file.Roots,
		Ignore:       file.Ignore,
		MaxOpenFiles: file.MaxOpenFiles,
		MaxProcesses: file.MaxProcesses,
		CheckCycles:  file.CheckCycles,
		ProjectFile:  file.ProjectFile,
		CacheBackend: strings.ToLower(file.Cache.Backend),
		CachePath:    file.Cache.Path,
	}

	aliases, err := parseAliases(file.Aliases)
	if err != nil {
		return nil, err
	}
	settings.Aliases = aliases

	loaders, err := parseLoaders(file.Loaders)
	if err != nil {
		return nil, err
	}
	settings.Loaders = loaders

	if file.Version == "" {
		l.logger.Warn("settings file has no version, assuming 1")
	}

	settings.ApplyDefaults()
	return settings, nil
}

func parseAliases(raw map[string]string) (map[domain.Kind]domain.Kind, error) {
	aliases := make(map[domain.Kind]domain.Kind, len(raw))
	for from, to := range raw {
		fromKind, err := domain.ParseKind(from)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "alias", from)
		}
		toKind, err := domain.ParseKind(to)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "alias", to)
		}
		aliases[fromKind] = toKind
	}
	return aliases, nil
}

func parseLoaders(dtos []LoaderDTO) ([]domain.LoaderDescriptor, error) {
	loaders := make([]domain.LoaderDescriptor, 0, len(dtos))
	for _, dto := range dtos {
		name := strings.ToLower(strings.TrimSpace(dto.Name))
		if _, err := domain.ParseKind(name); err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrUnknownLoader, domain.ErrConfigParseFailed.Error()), "loader", dto.Name)
		}
		loaders = append(loaders, domain.LoaderDescriptor{
			Name:       name,
			Extensions: canonicalizeExtensions(dto.Extensions),
			Patterns:   dto.Patterns,
			Options:    dto.Options,
		})
	}
	return loaders, nil
}

// canonicalizeExtensions lowercases extensions and ensures the leading dot.
func canonicalizeExtensions(exts []string) []string {
	if len(exts) == 0 {
		return nil
	}
	res := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		res = append(res, e)
	}
	return res
}
