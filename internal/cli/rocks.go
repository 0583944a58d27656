package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newRocksCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rocks",
		Short: "Manage big rocks, the long-term priorities per life role",
	}
	cmd.AddCommand(newRocksListCmd(a))
	cmd.AddCommand(newRocksAddCmd(a))
	cmd.AddCommand(newRocksRemoveCmd(a))
	return cmd
}

func newRocksListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List big rocks grouped by role",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			rocks := a.rocks.Snapshot()
			roles := a.rocks.Roles()
			if len(roles) == 0 {
				fmt.Fprintln(w, "No big rocks yet.")
				return nil
			}
			for _, role := range roles {
				fmt.Fprintf(w, "%s\n", role)
				for i, rock := range rocks[role] {
					if strings.TrimSpace(rock) == "" {
						continue
					}
					fmt.Fprintf(w, "  %d. %s\n", i+1, rock)
				}
			}
			return nil
		}),
	}
}

func newRocksAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add [role] [priority]",
		Short: "Append a priority to a role, creating the role if needed",
		Args:  cobra.MinimumNArgs(2),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			role := strings.TrimSpace(args[0])
			rock := strings.TrimSpace(strings.Join(args[1:], " "))
			if role == "" || rock == "" {
				return errors.New("role and priority are required")
			}
			a.rocks.Add(role, rock)
			fmt.Fprintf(cmd.OutOrStdout(), "Added big rock to %s: %s\n", role, rock)
			return nil
		}),
	}
}

func newRocksRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove [role] [position]",
		Short: "Remove the priority at a 1-based position",
		Args:  cobra.ExactArgs(2),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			position, err := strconv.Atoi(args[1])
			if err != nil || position < 1 {
				return errors.New("position must be a positive number")
			}
			if !a.rocks.Remove(args[0], position-1) {
				return fmt.Errorf("no big rock %d for role %q", position, args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed big rock %d from %s\n", position, args[0])
			return nil
		}),
	}
}
