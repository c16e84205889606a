package app

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/blackwell-systems/dockup/internal/keychain"
)

var credsCmd = &cobra.Command{
	Use:   "creds",
	Short: "Manage the stored sudo credential",
	Long: `MacPorts updates run under sudo. dockup keeps the password in the
macOS keychain under its own service entry; it is never written to the
config file, the log, or the history database.`,
}

var credsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Prompt for the sudo password and store it in the keychain",
	Long: `Read the sudo password without echoing it, check it against sudo,
and store it in the keychain. A password sudo rejects is not stored.`,
	Example: `  dockup creds set`,
	RunE:    runCredsSet,
}

var credsClearCmd = &cobra.Command{
	Use:     "clear",
	Short:   "Remove the stored credential from the keychain",
	Example: `  dockup creds clear`,
	RunE:    runCredsClear,
}

var credsStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Report whether a credential is stored",
	Example: `  dockup creds status`,
	RunE:    runCredsStatus,
}

func init() {
	credsCmd.AddCommand(credsSetCmd)
	credsCmd.AddCommand(credsClearCmd)
	credsCmd.AddCommand(credsStatusCmd)
}

func runCredsSet(cmd *cobra.Command, args []string) error {
	store, err := keychain.New()
	if err != nil {
		return err
	}

	fmt.Fprint(os.Stderr, "sudo password: ")
	secret, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if len(secret) == 0 {
		return fmt.Errorf("empty password; nothing stored")
	}

	if err := store.Verify(string(secret)); err != nil {
		return fmt.Errorf("password rejected: %w", err)
	}
	if err := store.Set(string(secret)); err != nil {
		return err
	}

	fmt.Println("Credential stored in the keychain.")
	return nil
}

func runCredsClear(cmd *cobra.Command, args []string) error {
	store, err := keychain.New()
	if err != nil {
		return err
	}
	if err := store.Clear(); err != nil {
		return err
	}
	fmt.Println("Credential cleared.")
	return nil
}

func runCredsStatus(cmd *cobra.Command, args []string) error {
	store, err := keychain.New()
	if err != nil {
		return err
	}

	_, err = store.Get()
	switch {
	case err == nil:
		fmt.Println("A sudo credential is stored in the keychain.")
	case errors.Is(err, keychain.ErrNotSet):
		fmt.Println("No credential stored. Run 'dockup creds set'.")
	default:
		return err
	}
	return nil
}
