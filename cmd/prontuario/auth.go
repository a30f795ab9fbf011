package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lnclinic/prontuario/internal/domain"
)

func signinCmd() *cobra.Command {
	var (
		username string
		password string
		service  string
		after    string
	)

	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newCLIApp()
			if err != nil {
				return err
			}
			defer a.close()
			ctx := cmd.Context()

			if password == "" {
				fmt.Print("Password: ")
				reader := bufio.NewReader(os.Stdin)
				line, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}

			// Step 2 of the original sign-in: pick the clinical service the
			// collaborator is working under. With a single service it is
			// selected automatically.
			if service == "" {
				services, err := a.session.CollaboratorServices(ctx, username)
				if err != nil {
					a.log.Warn("listing collaborator services failed", "error", err.Error())
				} else if len(services) == 1 {
					service = services[0].ID
				} else if len(services) > 1 {
					fmt.Println("Select a service with --service:")
					for _, s := range services {
						fmt.Printf("  %s\t%s - %s\n", s.ID, s.Name, s.Unit.Name)
					}
					return fmt.Errorf("multiple services available for %s", username)
				}
			}

			res, err := a.session.SignIn(ctx, username, password, after)
			if err != nil {
				return err
			}

			if service != "" {
				if err := a.jar.SetServiceID(service); err != nil {
					return err
				}
			}

			fmt.Printf("Olá %s, signed in.\n", res.User.Collaborator.Name)
			if res.RedirectTo != "/" {
				fmt.Printf("Continue at %s\n", res.RedirectTo)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "collaborator username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	cmd.Flags().StringVar(&service, "service", "", "clinical service ID to work under")
	cmd.Flags().StringVar(&after, "after", "", "destination to return to after sign-in")
	cmd.MarkFlagRequired("username")

	return cmd
}

func signoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Sign out and discard the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newCLIApp()
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.session.SignOut(); err != nil {
				return err
			}
			fmt.Println("Signed out.")
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Validate the stored token and show the current collaborator",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newCLIApp()
			if err != nil {
				return err
			}
			defer a.close()

			ok, err := a.session.CheckToken(cmd.Context())
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("not authenticated, run \"prontuario signin\"")
			}

			user := a.session.User()
			fmt.Printf("Signed in as %s (id %s)\n", user.Collaborator.Name, user.ID)
			if user.IsStaff {
				fmt.Println("Role: staff")
			}
			if claims, err := a.session.TokenClaims(); err == nil && !claims.ExpiresAt.IsZero() {
				fmt.Printf("Token expires: %s\n", formatDateTime(claims.ExpiresAt))
			}
			if id, ok := a.jar.ServiceID(); ok {
				fmt.Printf("Selected service: %s\n", id)
			}
			return nil
		},
	}
}

func servicesCmd() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "services",
		Short: "List the clinical services a collaborator can sign in under",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newCLIApp()
			if err != nil {
				return err
			}
			defer a.close()

			services, err := a.session.CollaboratorServices(cmd.Context(), username)
			if err != nil {
				return err
			}
			if len(services) == 0 {
				return errors.New("no services available for this collaborator")
			}
			for _, s := range services {
				fmt.Printf("%s\t%s - %s\n", s.ID, s.Name, s.Unit.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "collaborator username")
	cmd.MarkFlagRequired("username")

	return cmd
}

// noticeOrError prints duplicate/no-change conditions as notices and keeps
// real failures as errors, mirroring the toast levels of the original UI.
func noticeOrError(err error) error {
	switch {
	case errors.Is(err, domain.ErrNoChange):
		fmt.Println("Nothing changed.")
		return nil
	default:
		return err
	}
}
