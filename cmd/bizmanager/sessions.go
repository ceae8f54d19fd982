package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	redisAdapter "github.com/tumaini/bizmanager/internal/adapters/redis"
	"github.com/tumaini/bizmanager/internal/config"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Inspect live dialog sessions",
	Long:  `List, inspect, and remove live sessions on the shared redis backend.`,
}

var sessionsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all live sessions",
	Run: func(cmd *cobra.Command, args []string) {
		store := getSessionStore(cmd)
		defer store.Close()

		ids, err := store.List(cmd.Context())
		if err != nil {
			fmt.Printf("Error listing sessions: %v\n", err)
			os.Exit(1)
		}

		if len(ids) == 0 {
			fmt.Println("No live sessions found.")
			return
		}
		fmt.Println("Live Sessions:")
		for _, id := range ids {
			fmt.Println("- " + id)
		}
	},
}

var sessionsInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Inspect the state of a session",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := getSessionStore(cmd)
		defer store.Close()

		sess, err := store.Load(cmd.Context(), args[0])
		if err != nil {
			fmt.Printf("Error loading session '%s': %v\n", args[0], err)
			os.Exit(1)
		}

		data, err := json.MarshalIndent(sess, "", "  ")
		if err != nil {
			fmt.Printf("Error marshaling session: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
	},
}

var sessionsRmCmd = &cobra.Command{
	Use:   "rm <session-id>",
	Short: "Remove a session",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := getSessionStore(cmd)
		defer store.Close()

		if err := store.Delete(cmd.Context(), args[0]); err != nil {
			fmt.Printf("Error removing session '%s': %v\n", args[0], err)
			os.Exit(1)
		}
		fmt.Printf("Session '%s' removed.\n", args[0])
	},
}

// getSessionStore connects to the redis backend named in the config.
// Memory-backed deployments hold sessions in the server process, so
// there is nothing to inspect from outside.
func getSessionStore(cmd *cobra.Command) *redisAdapter.Store {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Redis.Addr == "" {
		fmt.Println("Session inspection needs the redis backend (set redis.addr in the config).")
		os.Exit(1)
	}
	return redisAdapter.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
}

func init() {
	sessionsCmd.AddCommand(sessionsLsCmd)
	sessionsCmd.AddCommand(sessionsInspectCmd)
	sessionsCmd.AddCommand(sessionsRmCmd)
	rootCmd.AddCommand(sessionsCmd)
}
