package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"visionlink/internal/types"
)

func (a *app) newLoginCommand() *cobra.Command {
	var creds types.Credentials
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with email and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := fill(a.prompter, &creds.Email, "Email", false); err != nil {
				return err
			}
			if err := fill(a.prompter, &creds.Password, "Password", true); err != nil {
				return err
			}
			if err := ValidateLogin(creds); err != nil {
				return err
			}
			res, err := a.client.Login(cmd.Context(), creds)
			if err != nil {
				return describe(actionLogin, err)
			}
			fmt.Fprintf(a.out, "Welcome back, %s!\n", res.User.FullName())
			return nil
		},
	}
	cmd.Flags().StringVar(&creds.Email, "email", "", "account email")
	cmd.Flags().StringVar(&creds.Password, "password", "", "account password")
	return cmd
}

func (a *app) newRegisterCommand() *cobra.Command {
	var req types.RegistrationRequest
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, q := range []struct {
				v      *string
				label  string
				secret bool
			}{
				{&req.FirstName, "First name", false},
				{&req.LastName, "Last name", false},
				{&req.Email, "Email", false},
				{&req.Password, "Password", true},
				{&req.PasswordConfirm, "Confirm password", true},
			} {
				if err := fill(a.prompter, q.v, q.label, q.secret); err != nil {
					return err
				}
			}
			if err := ValidateRegistration(req); err != nil {
				return err
			}
			res, err := a.client.Register(cmd.Context(), req)
			if err != nil {
				return describe(actionRegister, err)
			}
			fmt.Fprintf(a.out, "Account created. Welcome, %s!\n", res.User.FullName())
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Email, "email", "", "account email")
	f.StringVar(&req.Password, "password", "", "password, at least 8 characters")
	f.StringVar(&req.PasswordConfirm, "password-confirm", "", "password again")
	f.StringVar(&req.FirstName, "first-name", "", "first name")
	f.StringVar(&req.LastName, "last-name", "", "last name")
	f.StringVar(&req.Phone, "phone", "", "phone number")
	f.StringVar(&req.Address, "address", "", "installation address")
	return cmd
}

func (a *app) newLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session on this machine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.client.Logout(cmd.Context()); err != nil {
				return describe(actionGeneric, err)
			}
			fmt.Fprintln(a.out, "Logged out.")
			return nil
		},
	}
}

func (a *app) newWhoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the cached user without calling the API",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			u := a.client.Session().CurrentUser()
			if u == nil || !a.client.IsAuthenticated() {
				fmt.Fprintln(a.out, "Not logged in.")
				return nil
			}
			renderUser(a.out, u)
			return nil
		},
	}
}

func (a *app) newProfileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Fetch the profile from the API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.client.IsAuthenticated() {
				return ErrLoginRequired
			}
			u, err := a.client.Profile(cmd.Context())
			if err != nil {
				return describe(actionGeneric, err)
			}
			renderUser(a.out, u)
			return nil
		},
	}
	cmd.AddCommand(a.newProfileUpdateCommand())
	return cmd
}

func (a *app) newProfileUpdateCommand() *cobra.Command {
	var firstName, lastName, phone, address string
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change profile fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.client.IsAuthenticated() {
				return ErrLoginRequired
			}
			var upd types.ProfileUpdate
			flags := cmd.Flags()
			if flags.Changed("first-name") {
				upd.FirstName = &firstName
			}
			if flags.Changed("last-name") {
				upd.LastName = &lastName
			}
			if flags.Changed("phone") {
				upd.Phone = &phone
			}
			if flags.Changed("address") {
				upd.Address = &address
			}
			if upd.Empty() {
				return fmt.Errorf("nothing to update: pass at least one of --first-name, --last-name, --phone, --address")
			}
			u, err := a.client.UpdateProfile(cmd.Context(), upd)
			if err != nil {
				return describe(actionGeneric, err)
			}
			renderUser(a.out, u)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&firstName, "first-name", "", "first name")
	f.StringVar(&lastName, "last-name", "", "last name")
	f.StringVar(&phone, "phone", "", "phone number")
	f.StringVar(&address, "address", "", "installation address")
	return cmd
}
