package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "nexus",
	Short: "Nexus CLI - educational platform administration",
	Long: `Nexus CLI is a command-line tool for the Nexus admin platform.
It manages report generation, schedules, license seats, and LMS
enrollment syncs against a running Nexus server.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("server", "http://localhost:8080", "Nexus server address")
	viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server"))

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(reportsCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(downloadsCmd)
	rootCmd.AddCommand(schedulesCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(licensesCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(adminsCmd)
}

func initConfig() {
	home, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(home)
	}
	viper.SetConfigName(".nexus-cli")
	viper.SetConfigType("yaml")
	viper.ReadInConfig()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
