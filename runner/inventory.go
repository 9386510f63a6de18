package runner

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-ini/ini"
)

const (
	inventoryName = "inventory"

	localConnectionMarker = "ansible_connection=local"
)

// prepareInventory materializes the inventory in the scratch directory and
// returns its path. A file source wins over a URL source, which wins over
// a dynamic-script source; with no source configured it returns "" so no
// inventory flag gets passed downstream.
func (r *Runner) prepareInventory() (string, error) {
	dest := filepath.Join(r.scratchDir, inventoryName)

	switch {
	case r.cfg.InventoryFile != "":
		src := r.cfg.InventoryFile
		if !filepath.IsAbs(src) {
			src = filepath.Join(r.cfg.WorkDir, src)
		}
		r.log.Info("using inventory file", "path", src)
		if err := copyFile(src, dest); err != nil {
			return "", err
		}
	case r.cfg.InventoryURL != "":
		r.log.Info("fetching inventory", "url", r.cfg.InventoryURL)
		if err := fetchFile(r.cfg.InventoryURL, dest, 0644); err != nil {
			return "", err
		}
	case r.cfg.DynamicScriptURL != "":
		r.log.Info("fetching dynamic inventory script", "url", r.cfg.DynamicScriptURL)
		if err := fetchFile(r.cfg.DynamicScriptURL, dest, 0755); err != nil {
			return "", err
		}
	default:
		return "", nil
	}

	if len(r.cfg.InventoryGroups) > 0 {
		if err := appendGroups(dest, r.cfg.InventoryGroups); err != nil {
			return "", err
		}
	}
	if r.cfg.AllowLocalConnection == "false" {
		if err := stripLocalConnection(dest); err != nil {
			return "", err
		}
	}
	return dest, nil
}

// appendGroups adds group sections to the inventory with localhost as the
// sole member, for playbooks that address groups while running locally.
func appendGroups(path string, groups []string) error {
	cfg := ini.Empty()
	for _, group := range groups {
		if _, err := cfg.Section(group).NewBooleanKey("localhost"); err != nil {
			return fmt.Errorf("adding inventory group %s: %w", group, err)
		}
	}

	buf := new(bytes.Buffer)
	buf.WriteString("\n")
	if _, err := cfg.WriteTo(buf); err != nil {
		return fmt.Errorf("rendering inventory groups: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(buf.Bytes())
	return err
}

func stripLocalConnection(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	cleaned := strings.ReplaceAll(string(data), localConnectionMarker, "")
	return os.WriteFile(path, []byte(cleaned), 0644)
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening inventory source: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

func fetchFile(url, dest string, mode os.FileMode) error {
	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching %s: unexpected status %s", url, resp.Status)
	}

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, resp.Body)
	return err
}
