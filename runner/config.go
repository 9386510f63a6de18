package runner

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds everything the launcher resolves from the environment.
// Variable names are part of the image's contract and never change.
type Config struct {
	AppRoot  string
	AppHome  string
	UserName string
	WorkDir  string

	PlaybookFile string
	Opts         string

	InventoryFile    string
	InventoryURL     string
	DynamicScriptURL string
	InventoryGroups  []string

	AllowLocalConnection string
	VaultPass            string
	SSHPrivateKey        string
	GenerateSSHKeys      bool
}

var configEnvBindings = map[string]string{
	"app_root":                       "APP_ROOT",
	"app_home":                       "APP_HOME",
	"user_name":                      "USER_NAME",
	"work_dir":                       "WORK_DIR",
	"playbook_file":                  "PLAYBOOK_FILE",
	"opts":                           "OPTS",
	"inventory_file":                 "INVENTORY_FILE",
	"inventory_url":                  "INVENTORY_URL",
	"dynamic_script_url":             "DYNAMIC_SCRIPT_URL",
	"inventory_groups":               "INVENTORY_GROUPS",
	"allow_ansible_connection_local": "ALLOW_ANSIBLE_CONNECTION_LOCAL",
	"vault_pass":                     "VAULT_PASS",
	"ssh_private_key":                "SSH_PRIVATE_KEY",
	"generate_ssh_keys":              "GENERATE_SSH_KEYS",
}

// LoadConfig resolves the launcher configuration from the process
// environment. APP_HOME defaults to $APP_ROOT/src and WORK_DIR defaults to
// APP_HOME, matching the image layout.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetDefault("app_root", "/opt/app-root")
	v.SetDefault("user_name", "default")
	v.SetDefault("playbook_file", "playbook.yml")
	v.SetDefault("allow_ansible_connection_local", "true")

	for key, env := range configEnvBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	cfg := &Config{
		AppRoot:              v.GetString("app_root"),
		AppHome:              v.GetString("app_home"),
		UserName:             v.GetString("user_name"),
		WorkDir:              v.GetString("work_dir"),
		PlaybookFile:         v.GetString("playbook_file"),
		Opts:                 v.GetString("opts"),
		InventoryFile:        v.GetString("inventory_file"),
		InventoryURL:         v.GetString("inventory_url"),
		DynamicScriptURL:     v.GetString("dynamic_script_url"),
		InventoryGroups:      splitGroups(v.GetString("inventory_groups")),
		AllowLocalConnection: v.GetString("allow_ansible_connection_local"),
		VaultPass:            v.GetString("vault_pass"),
		SSHPrivateKey:        v.GetString("ssh_private_key"),
		GenerateSSHKeys:      v.GetBool("generate_ssh_keys"),
	}

	if cfg.AppHome == "" {
		cfg.AppHome = filepath.Join(cfg.AppRoot, "src")
	}
	if cfg.WorkDir == "" {
		cfg.WorkDir = cfg.AppHome
	}
	return cfg, nil
}

func splitGroups(raw string) []string {
	groups := []string{}
	for _, group := range strings.Split(raw, ",") {
		if group = strings.TrimSpace(group); group != "" {
			groups = append(groups, group)
		}
	}
	return groups
}
