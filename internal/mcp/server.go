package mcp

// Server is a server entry as stored in a client's configuration.
type Server struct {
	Name    string            `json:"name"`
	Client  string            `json:"client"`
	Command string            `json:"command,omitempty"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
	EnvKeys []string          `json:"env_keys,omitempty"`
	Enabled bool              `json:"enabled"`
	Scope   string            `json:"scope,omitempty"`
}
