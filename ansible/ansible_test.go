package ansible

import (
	"reflect"
	"testing"
)

func TestArgsPlaybookOnly(t *testing.T) {
	command := &Command{Playbook: "playbook.yml"}
	expected := []string{"ansible-playbook", "playbook.yml"}

	if !reflect.DeepEqual(command.Args(), expected) {
		t.Fatalf("Unexpected args [expected=%v, actual=%v].", expected, command.Args())
	}
}

func TestArgsOmitsInventoryFlagWhenUnset(t *testing.T) {
	command := &Command{Playbook: "site.yml", ExtraArgs: []string{"-vvv"}}

	for _, arg := range command.Args() {
		if arg == "-i" {
			t.Fatal("Expected no inventory flag without an inventory path.")
		}
	}
}

func TestArgsFullInvocation(t *testing.T) {
	command := &Command{
		Playbook:          "test-playbook.yaml",
		InventoryPath:     "/tmp/inventory",
		VaultPasswordFile: "/tmp/vault-pass",
		PrivateKeyFile:    "/tmp/ssh-key",
		ExtraArgs:         []string{"-vvv", "-u", "1001", "--connection", "local"},
	}
	expected := []string{
		"ansible-playbook",
		"-i", "/tmp/inventory",
		"--vault-password-file", "/tmp/vault-pass",
		"--private-key", "/tmp/ssh-key",
		"-vvv", "-u", "1001", "--connection", "local",
		"test-playbook.yaml",
	}

	if !reflect.DeepEqual(command.Args(), expected) {
		t.Fatalf("Unexpected args [expected=%v, actual=%v].", expected, command.Args())
	}
}

func TestArgsPlaybookComesLast(t *testing.T) {
	command := &Command{Playbook: "play.yml", ExtraArgs: []string{"--check"}}
	args := command.Args()

	if args[len(args)-1] != "play.yml" {
		t.Fatalf("Expected playbook last, got %v.", args)
	}
}

func TestRunPassesAssembledArgs(t *testing.T) {
	var captured []string
	executor := ExecutorFunc(func(command []string) error {
		captured = append([]string{}, command...)
		return nil
	})

	command := &Command{Playbook: "playbook.yml", InventoryPath: "/tmp/inventory"}
	if err := command.Run(executor); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(captured, command.Args()) {
		t.Fatalf("Executor received %v, expected %v.", captured, command.Args())
	}
}
