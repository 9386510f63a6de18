package ansible

const playbookBinary = "ansible-playbook"

// Command describes a single ansible-playbook invocation assembled from
// the prepared launcher inputs. Empty fields simply produce no flag.
type Command struct {
	Playbook          string
	InventoryPath     string
	VaultPasswordFile string
	PrivateKeyFile    string
	ExtraArgs         []string
}

// Args returns the full argument vector, binary included. The playbook
// path always comes last so extra arguments cannot shadow it.
func (c *Command) Args() []string {
	command := []string{playbookBinary}
	if c.InventoryPath != "" {
		command = append(command, "-i", c.InventoryPath)
	}
	if c.VaultPasswordFile != "" {
		command = append(command, "--vault-password-file", c.VaultPasswordFile)
	}
	if c.PrivateKeyFile != "" {
		command = append(command, "--private-key", c.PrivateKeyFile)
	}
	command = append(command, c.ExtraArgs...)
	return append(command, c.Playbook)
}

func (c *Command) Run(executor Executor) error {
	return executor.Execute(c.Args())
}
