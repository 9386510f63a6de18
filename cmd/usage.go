package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const usageText = `This is a playbook2image S2I builder image. To use it, install s2i
(https://github.com/openshift/source-to-image) and build an image from a
repository holding your playbooks:

    s2i build <source-repository> playbook2image <application-image>

Containers started from the application image run ansible-playbook with a
configuration resolved from environment variables:

    PLAYBOOK_FILE                   Playbook to execute (default: playbook.yml)
    INVENTORY_FILE                  Inventory file to copy into place
    INVENTORY_URL                   Inventory to fetch over HTTP
    DYNAMIC_SCRIPT_URL              Dynamic inventory script to fetch over HTTP
    INVENTORY_GROUPS                Comma-separated groups appended to the inventory
    ALLOW_ANSIBLE_CONNECTION_LOCAL  Set to 'false' to strip ansible_connection=local
    VAULT_PASS                      Vault password, written to a file and passed along
    SSH_PRIVATE_KEY                 Private key for SSH connections
    GENERATE_SSH_KEYS               Set to 'true' to generate a fresh keypair
    OPTS                            Extra arguments passed to ansible-playbook verbatim
    WORK_DIR                        Working directory for the run (default: $APP_HOME)

Only one inventory source is used: INVENTORY_FILE wins over INVENTORY_URL,
which wins over DYNAMIC_SCRIPT_URL.

Example:

    docker run -e PLAYBOOK_FILE=site.yml -e INVENTORY_FILE=hosts <application-image>
`

func createUsageCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "usage",
		Short: "Print usage information for the builder image",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), usageText)
			return err
		},
	}
}
