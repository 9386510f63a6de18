package runner

import (
	"os"
	"path/filepath"
)

const vaultPassName = "vault-pass"

// writeVaultFile persists VAULT_PASS so ansible-playbook can decrypt
// vaulted data, and returns the file's path. Without a configured secret
// it returns "" and writes nothing. The file is left behind on purpose:
// the container is the cleanup boundary.
func (r *Runner) writeVaultFile() (string, error) {
	if r.cfg.VaultPass == "" {
		return "", nil
	}
	path := filepath.Join(r.scratchDir, vaultPassName)
	if err := os.WriteFile(path, []byte(r.cfg.VaultPass), 0600); err != nil {
		return "", err
	}
	return path, nil
}
