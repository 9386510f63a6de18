package runner

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/ssh"
)

const sshKeyName = "ssh-key"

// prepareSSHKey writes the private key ansible should use for SSH
// connections and returns its path. A key provided via SSH_PRIVATE_KEY is
// validated and written as-is; with GENERATE_SSH_KEYS a fresh keypair is
// generated instead (the public half lands next to it for distribution by
// the playbook). Neither configured returns "".
func (r *Runner) prepareSSHKey() (string, error) {
	path := filepath.Join(r.scratchDir, sshKeyName)

	if r.cfg.SSHPrivateKey != "" {
		if _, err := ssh.ParsePrivateKey([]byte(r.cfg.SSHPrivateKey)); err != nil {
			return "", fmt.Errorf("parsing SSH_PRIVATE_KEY: %w", err)
		}
		if err := os.WriteFile(path, []byte(r.cfg.SSHPrivateKey), 0600); err != nil {
			return "", err
		}
		return path, nil
	}

	if r.cfg.GenerateSSHKeys {
		keys, err := GenerateSSHKeys()
		if err != nil {
			return "", err
		}
		if err := os.WriteFile(path, keys.PrivateKey.Bytes(), 0600); err != nil {
			return "", err
		}
		if err := os.WriteFile(path+".pub", keys.PublicKey.Bytes(), 0644); err != nil {
			return "", err
		}
		r.log.Info("generated SSH keypair", "path", path)
		return path, nil
	}

	return "", nil
}

// SSHKeys holds a PEM-encoded private key and its authorized_keys-format
// public counterpart.
type SSHKeys struct {
	PrivateKey *bytes.Buffer
	PublicKey  *bytes.Buffer
}

// GenerateSSHKeys creates an RSA keypair entirely in memory.
func GenerateSSHKeys() (*SSHKeys, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, fmt.Errorf("generating RSA key: %w", err)
	}

	keys := &SSHKeys{
		PrivateKey: new(bytes.Buffer),
		PublicKey:  new(bytes.Buffer),
	}

	privateKeyPEM := &pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(privateKey)}
	if err := pem.Encode(keys.PrivateKey, privateKeyPEM); err != nil {
		return nil, err
	}

	pub, err := ssh.NewPublicKey(&privateKey.PublicKey)
	if err != nil {
		return nil, err
	}
	keys.PublicKey.Write(ssh.MarshalAuthorizedKey(pub))

	return keys, nil
}
