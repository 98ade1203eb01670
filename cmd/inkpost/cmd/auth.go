package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/templui/inkpost/internal/routes"
)

type credentials struct {
	email    string
	password string
}

func (c *credentials) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&c.email, "email", "", "account email")
	cmd.Flags().StringVar(&c.password, "password", "", "account password")
}

func signUpCmd(rt *runtime) *cobra.Command {
	var creds credentials

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := navigate(a, routes.SignUp); err != nil {
				return err
			}

			identity, err := a.Bridge.SignUp(cmd.Context(), creds.email, creds.password)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Signed up as %s\n", identity.Email)
			return nil
		},
	}
	creds.bind(cmd)

	return cmd
}

func signInCmd(rt *runtime) *cobra.Command {
	var creds credentials

	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in with email and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := navigate(a, routes.SignIn); err != nil {
				return err
			}

			identity, err := a.Bridge.SignIn(cmd.Context(), creds.email, creds.password)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", identity.Email)
			return nil
		},
	}
	creds.bind(cmd)

	return cmd
}

func signOutCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Sign out",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App(cmd.Context())
			if err != nil {
				return err
			}

			if err := a.Bridge.SignOut(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func whoamiCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App(cmd.Context())
			if err != nil {
				return err
			}

			identity := a.Store.Get()
			if identity == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", identity.Email, identity.ID)
			return nil
		},
	}
}
