package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/slackclaw/slackclaw/internal/config"
	"github.com/slackclaw/slackclaw/internal/session"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage stored conversation sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := sessionManager()
		if err != nil {
			return err
		}
		return listSessions(mgr, cmd.OutOrStdout())
	},
}

var sessionsClearCmd = &cobra.Command{
	Use:   "clear <key>",
	Short: "Clear a session's message history, keeping the session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := sessionManager()
		if err != nil {
			return err
		}
		return clearSession(mgr, args[0])
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Delete a stored session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := sessionManager()
		if err != nil {
			return err
		}
		if !mgr.Delete(args[0]) {
			return fmt.Errorf("session %s not found", args[0])
		}
		return nil
	},
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsClearCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func sessionManager() (*session.Manager, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return session.NewManager(cfg.Paths.SessionsDir), nil
}

func listSessions(mgr *session.Manager, out io.Writer) error {
	infos := mgr.List()
	if len(infos) == 0 {
		fmt.Fprintln(out, "No sessions found.")
		return nil
	}
	for _, info := range infos {
		fmt.Fprintf(out, "%s  (updated %s)\n", info.Key, info.UpdatedAt.Format(time.RFC3339))
	}
	return nil
}

func clearSession(mgr *session.Manager, key string) error {
	found := false
	for _, info := range mgr.List() {
		if info.Key == key {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("session %s not found", key)
	}

	sess := mgr.GetOrCreate(key)
	sess.Clear()
	return mgr.Save(sess)
}
