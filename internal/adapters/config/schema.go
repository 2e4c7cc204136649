package config

// Settingsfile represents the structure of the assetmap.yaml configuration file.
type Settingsfile struct {
	Version      string            `yaml:"version"`
	Roots        []string          `yaml:"roots"`
	Ignore       []string          `yaml:"ignore"`
	MaxOpenFiles int               `yaml:"maxOpenFiles"`
	MaxProcesses int               `yaml:"maxProcesses"`
	CheckCycles  bool              `yaml:"checkCycles"`
	ProjectFile  string            `yaml:"projectFile"`
	Cache        CacheDTO          `yaml:"cache"`
	Aliases      map[string]string `yaml:"aliases"`
	Loaders      []LoaderDTO       `yaml:"loaders"`
}

// CacheDTO represents the cache section of the configuration.
type CacheDTO struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

// LoaderDTO represents a loader entry in the configuration.
type LoaderDTO struct {
	Name       string            `yaml:"name"`
	Extensions []string          `yaml:"extensions"`
	Patterns   []string          `yaml:"patterns"`
	Options    map[string]string `yaml:"options"`
}
