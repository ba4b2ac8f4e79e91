package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// newCreateUserCmd creates an account. Username and password come from flags
// or, when omitted, are prompted for on stdin.
func newCreateUserCmd(a *app) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a user account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			reader := bufio.NewReader(cmd.InOrStdin())
			var err error
			if username == "" {
				if username, err = prompt(reader, out, "Username: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = prompt(reader, out, "Password: "); err != nil {
					return err
				}
			}

			tracker, db, err := a.openTracker(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			u, err := tracker.Register(cmd.Context(), username, password)
			if err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			fmt.Fprintf(out, "\nUser created successfully!\n")
			fmt.Fprintf(out, "  ID:       %d\n", u.ID)
			fmt.Fprintf(out, "  Username: %s\n", u.Username)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "username (prompted if empty)")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted if empty)")
	return cmd
}

func prompt(r *bufio.Reader, w io.Writer, label string) (string, error) {
	fmt.Fprint(w, label)
	line, err := r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// newDeleteUserCmd removes an account and everything it owns.
func newDeleteUserCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-user <id>",
		Short: "Delete a user with their profile, logs and personal foods",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid user id %q", args[0])
			}

			tracker, db, err := a.openTracker(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			if err := tracker.DeleteAccount(cmd.Context(), id); err != nil {
				return fmt.Errorf("delete user %d: %w", id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted user %d.\n", id)
			return nil
		},
	}
}
