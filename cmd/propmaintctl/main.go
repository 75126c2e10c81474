package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/propmaint/backend/internal/client"
	"github.com/propmaint/backend/internal/controllers"
)

var rootCmd = &cobra.Command{
	Use:   "propmaintctl",
	Short: "Property maintenance CLI",
	Long: `propmaintctl drives the incident and preventive maintenance panels from a terminal.
- Buildings: the roster and alias resolution work offline.
- Schedule: computes the next due date of a recurrence rule offline.
- Tasks, incidents, stats and watch talk to a running server and need a panel password.`,
	SilenceUsage: true,
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("PROPMAINT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("server", "s", "http://localhost:8080", "server base URL")
	rootCmd.PersistentFlags().String("password", "", "panel password")
	rootCmd.PersistentFlags().String("panel", controllers.PanelTechnician, "panel to log into (admin or gestion)")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	_ = viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server"))
	_ = viper.BindPFlag("password", rootCmd.PersistentFlags().Lookup("password"))
	_ = viper.BindPFlag("panel", rootCmd.PersistentFlags().Lookup("panel"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func registerCommands() {
	rootCmd.AddCommand(buildingsCmd())
	rootCmd.AddCommand(scheduleCmd())
	rootCmd.AddCommand(tasksCmd())
	rootCmd.AddCommand(incidentsCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(uploadCmd())
}

// withClient opens a session against --server and runs fn with it.
func withClient(ctx context.Context, fn func(ctx context.Context, c *client.Client) error) error {
	c, err := client.New(viper.GetString("server"))
	if err != nil {
		return err
	}
	if password := viper.GetString("password"); password != "" {
		if _, err := c.Login(ctx, password, viper.GetString("panel")); err != nil {
			return fmt.Errorf("login: %w", err)
		}
	}
	return fn(ctx, c)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
