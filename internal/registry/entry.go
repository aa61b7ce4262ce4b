package registry

// ClientBlock holds the launch settings of a server for one client.
type ClientBlock struct {
	Command         string   `yaml:"command,omitempty" json:"command,omitempty"`
	EnvKeys         []string `yaml:"env_keys,omitempty" json:"env_keys,omitempty"`
	OptionalEnvKeys []string `yaml:"optional_env_keys,omitempty" json:"optional_env_keys,omitempty"`
}

// Metadata carries per-client overrides and any extra keys of an entry.
type Metadata struct {
	Clients map[string]ClientBlock `yaml:"clients,omitempty" json:"clients,omitempty"`
	Extra   map[string]any         `yaml:",inline" json:"extra,omitempty"`
}

// Entry is a server definition from a registry source.
type Entry struct {
	Name            string   `yaml:"name" json:"name"`
	Description     string   `yaml:"description,omitempty" json:"description,omitempty"`
	Command         string   `yaml:"command,omitempty" json:"command,omitempty"`
	EnvKeys         []string `yaml:"env_keys,omitempty" json:"env_keys,omitempty"`
	OptionalEnvKeys []string `yaml:"optional_env_keys,omitempty" json:"optional_env_keys,omitempty"`
	Metadata        Metadata `yaml:"metadata,omitempty" json:"metadata,omitzero"`

	// Path is the file the entry was read from, if any.
	Path string `yaml:"-" json:"path,omitempty"`
}

// ForClient returns the settings for client. Each field of the client's
// metadata block falls back to the entry's top-level value when unset.
func (e *Entry) ForClient(client string) ClientBlock {
	block := ClientBlock{
		Command:         e.Command,
		EnvKeys:         e.EnvKeys,
		OptionalEnvKeys: e.OptionalEnvKeys,
	}
	override, ok := e.Metadata.Clients[client]
	if !ok {
		return block
	}
	if override.Command != "" {
		block.Command = override.Command
	}
	if override.EnvKeys != nil {
		block.EnvKeys = override.EnvKeys
	}
	if override.OptionalEnvKeys != nil {
		block.OptionalEnvKeys = override.OptionalEnvKeys
	}
	return block
}

// Clients returns the client names with a dedicated metadata block.
func (e *Entry) Clients() []string {
	names := make([]string, 0, len(e.Metadata.Clients))
	for name := range e.Metadata.Clients {
		names = append(names, name)
	}
	return names
}
