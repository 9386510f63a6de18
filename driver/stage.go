package driver

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed testdata/sample-app
var sampleAppFS embed.FS

const sampleAppRoot = "testdata/sample-app"

// stageSampleApp writes the embedded sample application into a fresh
// staging directory and turns it into a git repository; s2i only builds
// committed content from git work trees.
func (d *Driver) stageSampleApp(ctx context.Context) (string, error) {
	workDir, err := os.MkdirTemp("", "playbook2image-test-")
	if err != nil {
		return "", err
	}
	d.workDir = workDir

	appDir := filepath.Join(workDir, "sample-app")
	if err := os.MkdirAll(appDir, 0755); err != nil {
		return "", err
	}

	err = fs.WalkDir(sampleAppFS, sampleAppRoot, func(path string, entry fs.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return err
		}
		data, err := sampleAppFS.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(sampleAppRoot, path)
		if err != nil {
			return err
		}
		target := filepath.Join(appDir, rel)
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		return os.WriteFile(target, data, 0644)
	})
	if err != nil {
		return "", fmt.Errorf("staging sample app: %w", err)
	}

	for _, gitArgs := range [][]string{
		{"-C", appDir, "init", "-q"},
		{"-C", appDir, "add", "-A"},
		{"-C", appDir,
			"-c", "user.email=test@playbook2image.local",
			"-c", "user.name=playbook2image test",
			"commit", "-q", "-m", "sample app"},
	} {
		if err := d.runCLI(ctx, "git", gitArgs...); err != nil {
			return "", err
		}
	}
	d.log.Info("staged sample app", "path", appDir)
	return appDir, nil
}
