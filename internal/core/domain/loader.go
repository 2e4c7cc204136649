package domain

// LoaderDescriptor is the serializable form of a configured loader.
// A loader factory rebuilds an equivalent loader from it in another process.
type LoaderDescriptor struct {
	Name       string            `json:"name" yaml:"name"`
	Extensions []string          `json:"extensions,omitempty" yaml:"extensions,omitempty"`
	Patterns   []string          `json:"patterns,omitempty" yaml:"patterns,omitempty"`
	Options    map[string]string `json:"options,omitempty" yaml:"options,omitempty"`
}
