package runner

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const passwdTemplateName = "passwd.template"

// writePasswd renders $APP_ROOT/etc/passwd.template into
// $APP_ROOT/etc/passwd, substituting the configured user name and the
// current numeric uid/gid. OpenShift runs containers with a random uid
// that has no passwd entry, and ansible needs one to resolve a home
// directory.
func (r *Runner) writePasswd() error {
	etcDir := filepath.Join(r.cfg.AppRoot, "etc")
	data, err := os.ReadFile(filepath.Join(etcDir, passwdTemplateName))
	if err != nil {
		return fmt.Errorf("reading passwd template: %w", err)
	}

	rendered := strings.NewReplacer(
		"${USER_NAME}", r.cfg.UserName,
		"${USER_ID}", strconv.Itoa(r.uid),
		"${GROUP_ID}", strconv.Itoa(r.gid),
	).Replace(string(data))

	return os.WriteFile(filepath.Join(etcDir, "passwd"), []byte(rendered), 0644)
}
