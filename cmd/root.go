package cmd

import (
	"github.com/spf13/cobra"

	"github.com/t0ffel/playbook2image/ansible"
	"github.com/t0ffel/playbook2image/runner"
)

// CreateRootCommand wires up the playbook2image CLI. The bare binary acts
// as the image's run entrypoint, so the root command behaves exactly like
// `run`.
func CreateRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "playbook2image",
		Short: "Run ansible-playbook inside an s2i-built image",
		Long: "playbook2image resolves its configuration from environment variables,\n" +
			"prepares the inventory, vault password and SSH key files, and hands\n" +
			"control to ansible-playbook.",
		RunE:          runLauncher,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(createRunCommand(), createTestCommand(), createUsageCommand())
	return cmd
}

func createRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Resolve the environment and execute the configured playbook",
		RunE:  runLauncher,
	}
}

func runLauncher(cmd *cobra.Command, args []string) error {
	cfg, err := runner.LoadConfig()
	if err != nil {
		return err
	}
	executor := &ansible.ProcessExecutor{Dir: cfg.WorkDir}
	return runner.New(cfg, executor).Run()
}
