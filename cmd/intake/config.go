package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/buildply/intake/internal/cli"
	"github.com/buildply/intake/internal/config"
	"github.com/buildply/intake/internal/home"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage intake configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file to the home directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		if h.ConfigExists() {
			return fmt.Errorf("config already exists at %s", h.ConfigPath())
		}
		if err := config.WriteDefault(h.ConfigPath()); err != nil {
			return err
		}

		fmt.Printf("wrote %s\n", h.ConfigPath())
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := home.New(homeDir)
		if err != nil {
			return err
		}

		file := cfgFile
		if file == "" && h.ConfigExists() {
			file = h.ConfigPath()
		}
		mgr, err := config.NewManager(file)
		if err != nil {
			return err
		}

		return cli.Output(mgr.Get())
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
