package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fulboost/fulboost-client/internal/client"
	"github.com/fulboost/fulboost-client/internal/session"
	"github.com/spf13/cobra"
)

const passwordEnvVar = "FULBOOST_PASSWORD"

func (a *app) loginCmd() *cobra.Command {
	var phone, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		Long: `Sign in with a phone number and password.

The password is read from --password, then ` + passwordEnvVar + `, then a line on stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv(passwordEnvVar)
			}
			if password == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("reading password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}

			result, err := a.client.Login(cmd.Context(), client.Credentials{PhoneNumber: phone, Password: password})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Signed in.")
			if len(result.User) > 0 {
				return printJSON(cmd.OutOrStdout(), result.User)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&password, "password", "", "password (prefer "+passwordEnvVar+")")
	_ = cmd.MarkFlagRequired("phone")

	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func (a *app) registerCmd() *cobra.Command {
	var data string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Example: `  fulboost register --data '{"username":"ana","phoneNumber":"+34600000000","password":"..."}'
  cat user.json | fulboost register --data -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			userData, err := jsonArg(data)
			if err != nil {
				return err
			}
			out, err := a.client.Register(cmd.Context(), userData)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "account details as JSON, - to read from stdin")
	_ = cmd.MarkFlagRequired("data")

	return cmd
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the profile of the signed in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.client.GetCurrentUserProfile(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}

func (a *app) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the local session state without calling the API",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess := a.client.Session()
			status, err := sess.Status(time.Now())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			switch status {
			case session.TokenMissing:
				fmt.Fprintln(w, "Not signed in.")
			case session.TokenInvalid:
				fmt.Fprintln(w, "The stored token is not readable, sign in again.")
			case session.TokenExpired:
				fmt.Fprintln(w, "The session has expired, sign in again.")
			case session.TokenOpaque:
				fmt.Fprintln(w, "Signed in (the API decides whether the token is still valid).")
			case session.TokenValid:
				token, err := sess.Token()
				if err != nil {
					return err
				}
				if exp, ok := session.ExpiresAt(token); ok {
					fmt.Fprintf(w, "Signed in, session expires %s.\n", exp.Local().Format(time.RFC1123))
				} else {
					fmt.Fprintln(w, "Signed in.")
				}
			}
			return nil
		},
	}
}
