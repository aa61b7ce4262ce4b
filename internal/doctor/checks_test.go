package doctor

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/thoreinstein/mcpsync/internal/backup"
	"github.com/thoreinstein/mcpsync/internal/client"
	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/registry"
)

func writeFile(t *testing.T, path, content string, perm os.FileMode) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(path, perm); err != nil {
		t.Fatal(err)
	}
}

func TestPathPermissionCheck(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on windows")
	}

	t.Run("secure files pass", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "codex", "config.toml")
		writeFile(t, path, "", 0o600)

		c := NewPathPermissionCheck([]ClientFile{{Client: "codex", Path: path}})
		res := c.Run(context.Background())
		if res.Status != SeverityPass {
			t.Fatalf("Status = %v, message %q", res.Status, res.Message)
		}
		if c.CanFix() {
			t.Error("CanFix() = true for clean files")
		}
	})

	t.Run("missing file is fine", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "absent", "config.toml")
		res := NewPathPermissionCheck([]ClientFile{{Client: "codex", Path: path}}).Run(context.Background())
		if res.Status != SeverityPass {
			t.Errorf("Status = %v, want pass", res.Status)
		}
	})

	t.Run("readable by others is fixed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "codex", "config.toml")
		writeFile(t, path, "", 0o644)

		c := NewPathPermissionCheck([]ClientFile{{Client: "codex", Path: path}})
		res := c.Run(context.Background())
		if res.Status != SeverityWarning {
			t.Fatalf("Status = %v, want warning", res.Status)
		}
		if !res.Fixable || !strings.Contains(res.FixHint, "chmod 0600") {
			t.Errorf("Fixable = %v, FixHint = %q", res.Fixable, res.FixHint)
		}
		if c.CountFixable() != 1 {
			t.Fatalf("CountFixable() = %d, want 1", c.CountFixable())
		}

		fixes := c.Fix(context.Background())
		if len(fixes) != 1 || !fixes[0].Fixed {
			t.Fatalf("Fix() = %+v", fixes)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != 0o600 {
			t.Errorf("mode = %04o, want 0600", info.Mode().Perm())
		}
		if res := c.Run(context.Background()); res.Status != SeverityPass {
			t.Errorf("after fix Status = %v", res.Status)
		}
	})

	t.Run("open directory is fixed", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "goose")
		path := filepath.Join(dir, "config.yaml")
		writeFile(t, path, "", 0o600)
		if err := os.Chmod(dir, 0o755); err != nil {
			t.Fatal(err)
		}

		c := NewPathPermissionCheck([]ClientFile{{Client: "goose", Path: path}})
		c.Run(context.Background())
		fixes := c.Fix(context.Background())
		if len(fixes) != 1 || fixes[0].Path != dir || !fixes[0].Fixed {
			t.Fatalf("Fix() = %+v", fixes)
		}
		info, _ := os.Stat(dir)
		if info.Mode().Perm() != 0o700 {
			t.Errorf("dir mode = %04o, want 0700", info.Mode().Perm())
		}
	})

	t.Run("directory in place of file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.Mkdir(path, 0o700); err != nil {
			t.Fatal(err)
		}
		res := NewPathPermissionCheck([]ClientFile{{Client: "codex", Path: path}}).Run(context.Background())
		if res.Status != SeverityError {
			t.Errorf("Status = %v, want error", res.Status)
		}
	})
}

func TestPermissionFixer_UnknownType(t *testing.T) {
	f := &PermissionFixer{}
	f.setIssues([]pathIssue{{Path: "/nowhere", Type: "socket", Fixable: true}})

	fixes := f.Fix(context.Background())
	if len(fixes) != 1 || fixes[0].Fixed || fixes[0].Error == nil {
		t.Errorf("Fix() = %+v", fixes)
	}
}

func TestConfigSyntaxCheck(t *testing.T) {
	dir := t.TempDir()
	goodTOML := filepath.Join(dir, "good.toml")
	badTOML := filepath.Join(dir, "bad.toml")
	goodYAML := filepath.Join(dir, "config.yaml")
	writeFile(t, goodTOML, "[mcp_servers.x]\ncommand = \"x\"\n", 0o600)
	writeFile(t, badTOML, "[mcp_servers.x\ncommand = ", 0o600)
	writeFile(t, goodYAML, "extensions:\n  x:\n    cmd: x\n", 0o600)

	tests := []struct {
		name       string
		files      []ClientFile
		wantStatus Severity
	}{
		{
			name:       "valid files",
			files:      []ClientFile{{Client: "codex", Path: goodTOML}, {Client: "goose", Path: goodYAML}},
			wantStatus: SeverityPass,
		},
		{
			name:       "syntax error",
			files:      []ClientFile{{Client: "codex", Path: goodTOML}, {Client: "codex", Path: badTOML}},
			wantStatus: SeverityError,
		},
		{
			name:       "only missing files",
			files:      []ClientFile{{Client: "codex", Path: filepath.Join(dir, "absent.toml")}},
			wantStatus: SeverityInfo,
		},
		{
			name:       "nothing to check",
			wantStatus: SeverityInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewConfigSyntaxCheck(tt.files).Run(context.Background())
			if res.Status != tt.wantStatus {
				t.Errorf("Status = %v, want %v (%s)", res.Status, tt.wantStatus, res.Message)
			}
		})
	}
}

func TestConfigSyntaxCheck_ReportsPosition(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "a = 1\nb = \n", 0o600)

	fr := validateFile(ClientFile{Client: "codex", Path: path})
	if fr.Status != "error" {
		t.Fatalf("Status = %q", fr.Status)
	}
	if !strings.Contains(fr.Message, "line 2") {
		t.Errorf("Message = %q, want line number", fr.Message)
	}
}

func TestBackupCheck(t *testing.T) {
	dir := t.TempDir()
	codexPath := filepath.Join(dir, "config.toml")
	goosePath := filepath.Join(dir, "config.yaml")
	writeFile(t, backup.PathFor(codexPath), "", 0o600)

	res := NewBackupCheck([]ClientFile{
		{Client: "codex", Path: codexPath},
		{Client: "goose", Path: goosePath},
	}).Run(context.Background())

	if res.Status != SeverityInfo {
		t.Errorf("Status = %v, want info", res.Status)
	}
	sidecars := res.Details["backups"].(map[string]any)
	if sidecars["codex"] != backup.PathFor(codexPath) {
		t.Errorf("backups = %v", sidecars)
	}
	if _, ok := sidecars["goose"]; ok {
		t.Errorf("goose has no backup, got %v", sidecars)
	}
}

func TestRegistryCheck(t *testing.T) {
	t.Run("clean registry", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "github.yaml"), "name: github\ncommand: gh-mcp\n", 0o600)

		res := NewRegistryCheck(registry.NewCurated(dir)).Run(context.Background())
		if res.Status != SeverityPass {
			t.Errorf("Status = %v (%s)", res.Status, res.Message)
		}
	})

	t.Run("malformed file", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "github.yaml"), "name: github\ncommand: gh-mcp\n", 0o600)
		writeFile(t, filepath.Join(dir, "broken.yaml"), "name: [\n", 0o600)

		res := NewRegistryCheck(registry.NewCurated(dir)).Run(context.Background())
		if res.Status != SeverityWarning {
			t.Errorf("Status = %v, want warning", res.Status)
		}
		if problems := res.Details["problems"].([]string); len(problems) != 1 {
			t.Errorf("problems = %v", problems)
		}
	})

	t.Run("entry without command", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "docs.yaml"), "name: docs\ndescription: no launch info\n", 0o600)

		res := NewRegistryCheck(registry.NewCurated(dir)).Run(context.Background())
		if res.Status != SeverityWarning {
			t.Errorf("Status = %v, want warning", res.Status)
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		res := NewRegistryCheck(registry.NewCurated(filepath.Join(t.TempDir(), "none"))).Run(context.Background())
		if res.Status != SeverityInfo {
			t.Errorf("Status = %v, want info", res.Status)
		}
	})
}

func TestAppConfigCheck(t *testing.T) {
	tests := []struct {
		name string
		path string
		err  error
		want Severity
	}{
		{name: "defaults", want: SeverityInfo},
		{name: "loaded", path: "/etc/mcpsync.yaml", want: SeverityPass},
		{name: "broken", path: "/etc/mcpsync.yaml", err: errors.New("bad yaml"), want: SeverityError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewAppConfigCheck(tt.path, tt.err).Run(context.Background()).Status; got != tt.want {
				t.Errorf("Status = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClientDetectionCheck(t *testing.T) {
	noEnv := func(string) (string, bool) { return "", false }
	noBinary := func(string) (string, error) { return "", errors.New("not found") }

	t.Run("nothing installed", func(t *testing.T) {
		d := &client.Detector{Home: t.TempDir(), Lookup: noEnv, LookPath: noBinary}
		res := NewClientDetectionCheck(d, nil).Run(context.Background())
		if res.Status != SeverityWarning {
			t.Errorf("Status = %v, want warning", res.Status)
		}
		if res.Details["installed"] != 0 {
			t.Errorf("installed = %v", res.Details["installed"])
		}
	})

	t.Run("default client missing", func(t *testing.T) {
		home := t.TempDir()
		if err := os.MkdirAll(filepath.Join(home, ".codex"), 0o700); err != nil {
			t.Fatal(err)
		}
		d := &client.Detector{Home: home, Lookup: noEnv, LookPath: noBinary}
		res := NewClientDetectionCheck(d, []string{"codex", "claude"}).Run(context.Background())
		if res.Status != SeverityWarning {
			t.Fatalf("Status = %v, want warning", res.Status)
		}
		if !strings.Contains(res.Message, "claude") || !strings.Contains(res.FixHint, "PATH") {
			t.Errorf("Message = %q, FixHint = %q", res.Message, res.FixHint)
		}
	})

	t.Run("defaults installed", func(t *testing.T) {
		home := t.TempDir()
		if err := os.MkdirAll(filepath.Join(home, ".codex"), 0o700); err != nil {
			t.Fatal(err)
		}
		d := &client.Detector{
			Home:     home,
			Lookup:   noEnv,
			LookPath: func(string) (string, error) { return "/usr/bin/claude", nil },
		}
		res := NewClientDetectionCheck(d, []string{"codex", "claude"}).Run(context.Background())
		if res.Status != SeverityPass {
			t.Errorf("Status = %v (%s)", res.Status, res.Message)
		}
		if res.Details["installed"] != 2 {
			t.Errorf("installed = %v", res.Details["installed"])
		}
	})
}

type fakeAllowList struct {
	missing []string
	err     error
	ensured int
}

func (f *fakeAllowList) ConfigPath() string { return "/home/u/.codex/config.toml" }

func (f *fakeAllowList) MissingFromAllowList(context.Context) ([]string, error) {
	return f.missing, f.err
}

func (f *fakeAllowList) EnsureAllowList(context.Context) (bool, error) {
	f.ensured++
	changed := len(f.missing) > 0
	f.missing = nil
	return changed, f.err
}

func TestAllowListCheck(t *testing.T) {
	t.Run("complete", func(t *testing.T) {
		c := NewAllowListCheck(&fakeAllowList{})
		if res := c.Run(context.Background()); res.Status != SeverityPass {
			t.Errorf("Status = %v", res.Status)
		}
		if c.CanFix() {
			t.Error("CanFix() = true")
		}
	})

	t.Run("missing keys fixed", func(t *testing.T) {
		fake := &fakeAllowList{missing: []string{"API_KEY", "TOKEN_B"}}
		c := NewAllowListCheck(fake)

		res := c.Run(context.Background())
		if res.Status != SeverityWarning || !res.Fixable {
			t.Fatalf("Status = %v, Fixable = %v", res.Status, res.Fixable)
		}
		if !strings.Contains(res.Message, "API_KEY, TOKEN_B") {
			t.Errorf("Message = %q", res.Message)
		}
		if !c.CanFix() {
			t.Fatal("CanFix() = false")
		}

		fixes := c.Fix(context.Background())
		if len(fixes) != 1 || !fixes[0].Fixed || fake.ensured != 1 {
			t.Errorf("Fix() = %+v, ensured = %d", fixes, fake.ensured)
		}
		if res := c.Run(context.Background()); res.Status != SeverityPass {
			t.Errorf("after fix Status = %v", res.Status)
		}
	})

	t.Run("unreadable config", func(t *testing.T) {
		c := NewAllowListCheck(&fakeAllowList{err: errors.ErrConfigParse})
		if res := c.Run(context.Background()); res.Status != SeverityError {
			t.Errorf("Status = %v, want error", res.Status)
		}
	})
}
