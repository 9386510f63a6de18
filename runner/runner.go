package runner

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/shell"

	"github.com/t0ffel/playbook2image/ansible"
)

// Runner resolves the launcher configuration into a single
// ansible-playbook invocation: it rewrites the passwd file for the current
// uid, materializes the inventory, the vault password file and the SSH
// key, and then hands control to the executor. Every failing step aborts
// immediately; nothing is retried or cleaned up.
type Runner struct {
	cfg      *Config
	executor ansible.Executor
	log      *log.Logger

	// scratchDir is where generated files land. Fixed to /tmp in the
	// image; tests point it at a temp dir.
	scratchDir string
	uid, gid   int
}

func New(cfg *Config, executor ansible.Executor) *Runner {
	return &Runner{
		cfg:        cfg,
		executor:   executor,
		log:        log.Default(),
		scratchDir: "/tmp",
		uid:        os.Getuid(),
		gid:        os.Getgid(),
	}
}

func (r *Runner) Run() error {
	if err := r.writePasswd(); err != nil {
		return err
	}

	inventoryPath, err := r.prepareInventory()
	if err != nil {
		return err
	}
	vaultPath, err := r.writeVaultFile()
	if err != nil {
		return err
	}
	keyPath, err := r.prepareSSHKey()
	if err != nil {
		return err
	}

	extraArgs, err := shell.Fields(r.cfg.Opts, nil)
	if err != nil {
		return fmt.Errorf("splitting OPTS: %w", err)
	}

	command := &ansible.Command{
		Playbook:          r.cfg.PlaybookFile,
		InventoryPath:     inventoryPath,
		VaultPasswordFile: vaultPath,
		PrivateKeyFile:    keyPath,
		ExtraArgs:         extraArgs,
	}

	r.log.Info("running playbook",
		"playbook", r.cfg.PlaybookFile,
		"workdir", r.cfg.WorkDir,
		"inventory", inventoryPath,
	)
	return command.Run(r.executor)
}
