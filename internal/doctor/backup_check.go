package doctor

import (
	"context"
	"fmt"

	"github.com/thoreinstein/mcpsync/internal/backup"
	"github.com/thoreinstein/mcpsync/pkg/fileutil"
)

// BackupCheck reports which client config files have a .bak sidecar.
type BackupCheck struct {
	files []ClientFile
}

var _ Check = (*BackupCheck)(nil)

func NewBackupCheck(files []ClientFile) *BackupCheck {
	return &BackupCheck{files: files}
}

func (c *BackupCheck) Name() string     { return "backups" }
func (c *BackupCheck) Category() string { return "filesystem" }

// Run never fails: a missing sidecar only means mcpsync has not written
// that file yet.
func (c *BackupCheck) Run(_ context.Context) *CheckResult {
	sidecars := map[string]any{}
	found := 0
	for _, f := range c.files {
		if f.Path == "" {
			continue
		}
		path := backup.PathFor(f.Path)
		ok, _ := fileutil.Exists(path)
		if ok {
			found++
			sidecars[f.Client] = path
		}
	}

	msg := "no backups yet"
	if found > 0 {
		msg = fmt.Sprintf("%d backup file(s) present", found)
	}
	return &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   SeverityInfo,
		Message:  msg,
		Details:  map[string]any{"backups": sidecars},
	}
}
