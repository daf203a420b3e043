package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) newSessionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect or reset local session state",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show what is stored locally",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				sess := a.client.Session()
				token, user := sess.Snapshot()
				if token == "" {
					fmt.Fprintln(a.out, "authenticated: no")
				} else {
					fmt.Fprintln(a.out, "authenticated: yes")
				}
				if user != nil {
					fmt.Fprintf(a.out, "user: %s <%s>\n", user.FullName(), user.Email)
				}
				fmt.Fprintf(a.out, "store: %s (profile %s)\n", a.cfg.Store, a.cfg.Profile)
				return nil
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Forget identity and chat session on this machine",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := a.client.Session().Reset(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(a.out, "Session reset.")
				return nil
			},
		},
	)
	return cmd
}
