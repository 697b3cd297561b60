package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/mdouchement/itemlist/internal/client"
	"github.com/spf13/cobra"
)

var (
	version  = "dev"
	revision = "none"
	date     = "unknown"

	register  bool
	priority  string
	all       bool
	completed bool
	output    string
)

func main() {
	c := &cobra.Command{
		Use:     "ilc",
		Short:   "itemlist client",
		Version: fmt.Sprintf("%s - build %.7s @ %s", version, revision, date),
		Args:    cobra.NoArgs,
	}
	loginCmd.Flags().BoolVarP(&register, "register", "r", false, "Create the account before login")
	c.AddCommand(loginCmd)
	c.AddCommand(logoutCmd)

	addCmd.Flags().StringVarP(&priority, "priority", "p", "", "Priority of the item (severe, high, medium, low)")
	c.AddCommand(addCmd)

	for _, cmd := range []*cobra.Command{listCmd, watchCmd} {
		cmd.Flags().BoolVarP(&all, "all", "a", false, "Show the items of all the users")
		cmd.Flags().BoolVarP(&completed, "completed", "d", false, "Show completed items")
		c.AddCommand(cmd)
	}

	c.AddCommand(toggleCmd)
	c.AddCommand(rmCmd)
	backupCmd.Flags().StringVarP(&output, "output", "o", ".", "Directory where the backup is written")
	backupCmd.Flags().BoolVarP(&all, "all", "a", false, "Backup the items of all the users")
	c.AddCommand(backupCmd)
	c.AddCommand(uiCmd)

	if err := c.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

var (
	loginCmd = &cobra.Command{
		Use:   "login",
		Short: "Login to the itemlist server",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return client.Login(register)
		},
	}

	logoutCmd = &cobra.Command{
		Use:   "logout",
		Short: "Forget the itemlist server credentials",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return client.Logout()
		},
	}

	addCmd = &cobra.Command{
		Use:   "add SUMMARY",
		Short: "Add an item",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return client.Add(strings.Join(args, " "), priority)
		},
	}

	listCmd = &cobra.Command{
		Use:   "list",
		Short: "List the items",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return client.List(all, completed)
		},
	}

	toggleCmd = &cobra.Command{
		Use:   "toggle ID",
		Short: "Toggle the completion of an item (ID prefix is accepted)",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return client.Toggle(args[0])
		},
	}

	rmCmd = &cobra.Command{
		Use:   "rm ID",
		Short: "Remove an item (ID prefix is accepted)",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return client.Delete(args[0])
		},
	}

	backupCmd = &cobra.Command{
		Use:   "backup",
		Short: "Backup your items",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			filename, err := client.Backup(output, all)
			if err != nil {
				return err
			}
			fmt.Println("Items saved to", filename)
			return nil
		},
	}

	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Display the items each time they change",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			return client.Watch(ctx, all, completed)
		},
	}

	uiCmd = &cobra.Command{
		Use:   "ui",
		Short: "Text-based item list application",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return client.UI()
		},
	}
)
