package domain

import (
	"maps"
	"path/filepath"
	"slices"
	"strings"
)

// Default settings values.
const (
	DefaultMaxOpenFiles = 200
	DefaultMaxProcesses = 4
	DefaultProjectFile  = "project.json"
	DefaultCacheBackend = "json"
	DefaultCachePath    = ".assetmap/graph.json"

	// ProjectFileOption is the project loader option naming the descriptor file.
	ProjectFileOption = "file"
)

// Settings is the resolved tool configuration.
type Settings struct {
	// Dir is the directory the settings were loaded from. Relative paths resolve against it.
	Dir          string
	Roots        []string
	Ignore       []string
	MaxOpenFiles int
	MaxProcesses int
	CheckCycles  bool
	ProjectFile  string
	CacheBackend string
	CachePath    string
	Aliases      map[Kind]Kind
	Loaders      []LoaderDescriptor
}

// DefaultLoaders returns the loader set used when none is configured, in registration order.
func DefaultLoaders() []LoaderDescriptor {
	return []LoaderDescriptor{
		{Name: string(KindProjectConfig)},
		{Name: string(KindModule)},
		{Name: string(KindStylesheet)},
		{Name: string(KindImage)},
		{Name: string(KindFont)},
	}
}

// DefaultSettings returns settings for dir with every default applied.
func DefaultSettings(dir string) *Settings {
	s := &Settings{Dir: dir}
	s.ApplyDefaults()
	return s
}

// ApplyDefaults fills every zero-valued field.
func (s *Settings) ApplyDefaults() {
	if len(s.Roots) == 0 {
		s.Roots = []string{"."}
	}
	if s.MaxOpenFiles <= 0 {
		s.MaxOpenFiles = DefaultMaxOpenFiles
	}
	if s.MaxProcesses <= 0 {
		s.MaxProcesses = DefaultMaxProcesses
	}
	if s.ProjectFile == "" {
		s.ProjectFile = DefaultProjectFile
	}
	if s.CacheBackend == "" {
		s.CacheBackend = DefaultCacheBackend
	}
	if s.CachePath == "" {
		s.CachePath = DefaultCachePath
	}
	if s.Aliases == nil {
		s.Aliases = make(map[Kind]Kind)
	}
	if len(s.Loaders) == 0 {
		s.Loaders = DefaultLoaders()
	}
	for i := range s.Loaders {
		if s.Loaders[i].Name != string(KindProjectConfig) || s.Loaders[i].Options[ProjectFileOption] != "" {
			continue
		}
		opts := maps.Clone(s.Loaders[i].Options)
		if opts == nil {
			opts = make(map[string]string, 1)
		}
		opts[ProjectFileOption] = s.ProjectFile
		s.Loaders[i].Options = opts
	}
}

// RootDirs returns the scan roots resolved against Dir.
func (s *Settings) RootDirs() []string {
	dirs := make([]string, 0, len(s.Roots))
	for _, r := range s.Roots {
		dirs = append(dirs, s.resolve(r))
	}
	slices.Sort(dirs)
	return slices.Compact(dirs)
}

// CacheFile returns the cache location resolved against Dir.
func (s *Settings) CacheFile() string {
	return s.resolve(s.CachePath)
}

// ScanIgnore returns the ignore patterns plus the cache directory when it lives under Dir.
func (s *Settings) ScanIgnore() []string {
	ignore := slices.Clone(s.Ignore)
	if filepath.IsAbs(s.CachePath) {
		return ignore
	}
	dir := filepath.ToSlash(filepath.Dir(filepath.Clean(s.CachePath)))
	if dir == "." || strings.HasPrefix(dir, "../") {
		return ignore
	}
	if !slices.Contains(ignore, dir) {
		ignore = append(ignore, dir)
	}
	return ignore
}

// GraphOptions returns the graph construction options implied by the settings.
func (s *Settings) GraphOptions() []GraphOption {
	if len(s.Aliases) == 0 {
		return nil
	}
	return []GraphOption{WithAliases(s.Aliases)}
}

func (s *Settings) resolve(p string) string {
	if filepath.IsAbs(p) || s.Dir == "" {
		return filepath.Clean(p)
	}
	return filepath.Join(s.Dir, p)
}
