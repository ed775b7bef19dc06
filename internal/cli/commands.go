package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newShowCmd(sess *session) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the stored state and derived values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess.out.Print(stateResultFromStore(sess.store))
			return nil
		},
	}
}

func newSetUsernameCmd(sess *session) *cobra.Command {
	return &cobra.Command{
		Use:   "set-username <value>",
		Short: "Replace the username (an empty string clears it)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess.store.SetUsername(args[0])
			sess.out.Print(stateResultFromStore(sess.store))
			return nil
		},
	}
}

func newIncreaseCmd(sess *session) *cobra.Command {
	var times int

	cmd := &cobra.Command{
		Use:   "increase",
		Short: "Add one to the random count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if times < 1 {
				return fmt.Errorf("--times must be at least 1, got %d", times)
			}
			for i := 0; i < times; i++ {
				sess.store.IncreaseRandomCount()
			}
			sess.out.Print(stateResultFromStore(sess.store))
			return nil
		},
	}

	cmd.Flags().IntVarP(&times, "times", "n", 1, "Number of increments")
	return cmd
}

func newModUsernameCmd(sess *session) *cobra.Command {
	return &cobra.Command{
		Use:   "mod-username",
		Short: "Print a derived handle for the username (new suffix on every call)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result := ModUsernameResult{}
			if mod, ok := sess.store.ModUsername(); ok {
				result.ModUsername = &mod
			}
			sess.out.Print(result)
			return nil
		},
	}
}

func newDoubleCmd(sess *session) *cobra.Command {
	return &cobra.Command{
		Use:   "double",
		Short: "Print twice the random count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess.out.Print(DoubleResult{DoubleRandomCount: sess.store.DoubleRandomCount()})
			return nil
		},
	}
}
