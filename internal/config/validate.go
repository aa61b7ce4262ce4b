package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/paths"
)

// Validation errors for configuration fields.
var (
	// ErrVersionUnsupported indicates the version field is not 1.
	ErrVersionUnsupported = errors.New("unsupported config version")

	// ErrInvalidClient indicates an unrecognized client name.
	ErrInvalidClient = errors.New("invalid client")

	// ErrInvalidPolicy indicates a missing_env value other than fail or warn.
	ErrInvalidPolicy = errors.New("invalid missing_env policy")

	// ErrInvalidScope indicates a claude scope other than user, workspace or none.
	ErrInvalidScope = errors.New("invalid claude scope")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")
)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Version != 1 {
		errs = append(errs, &FieldError{Field: "version", Value: fmt.Sprint(cfg.Version), Err: ErrVersionUnsupported})
	}

	for _, client := range cfg.DefaultClients {
		if !paths.ValidClient(client) {
			errs = append(errs, &FieldError{Field: "default_clients", Value: client, Err: ErrInvalidClient})
		}
	}

	for name, cc := range cfg.Clients {
		if !paths.ValidClient(name) {
			errs = append(errs, &FieldError{Field: "clients", Value: name, Err: ErrInvalidClient})
			continue
		}
		switch cc.MissingEnv {
		case "", PolicyFail, PolicyWarn:
		default:
			errs = append(errs, &FieldError{Field: "clients." + name + ".missing_env", Value: cc.MissingEnv, Err: ErrInvalidPolicy})
		}
		if name == paths.ClientClaude {
			switch cc.Scope {
			case "", "user", "workspace", "none":
			default:
				errs = append(errs, &FieldError{Field: "clients.claude.scope", Value: cc.Scope, Err: ErrInvalidScope})
			}
		}
		if err := validatePath(cc.ConfigPath); err != nil {
			errs = append(errs, &FieldError{Field: "clients." + name + ".config_path", Value: cc.ConfigPath, Err: err})
		}
	}

	if err := validatePath(cfg.RegistryDir); err != nil {
		errs = append(errs, &FieldError{Field: "registry_dir", Value: cfg.RegistryDir, Err: err})
	}
	for _, f := range cfg.EnvFiles {
		if err := validatePath(f); err != nil {
			errs = append(errs, &FieldError{Field: "env_files", Value: f, Err: err})
		}
	}

	return errs
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists, only that it's syntactically valid.
func validatePath(path string) error {
	// Empty paths are valid (they mean "use default")
	if path == "" {
		return nil
	}

	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}

	cleaned := filepath.Clean(path)
	if cleaned == "" || cleaned == "." {
		return ErrInvalidPath
	}

	return nil
}

// FieldError reports an invalid value for a specific configuration field.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Value
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
