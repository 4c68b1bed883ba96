package main

import (
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/shelfserve/shelfserve"
)

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "Hash a password for the config file",
	Long: `Hash a password with bcrypt and print the result. The hash goes in
the config file's auth.password_hash field. When no argument is given,
the password is prompted for without echoing.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHashPassword,
}

func init() {
	rootCmd.AddCommand(hashPasswordCmd)
}

func runHashPassword(cmd *cobra.Command, args []string) error {
	var password string
	if len(args) == 1 {
		password = args[0]
	} else {
		prompt := promptui.Prompt{
			Label: "Password",
			Mask:  '*',
			Validate: func(s string) error {
				if s == "" {
					return fmt.Errorf("password cannot be empty")
				}
				return nil
			},
		}
		var err error
		password, err = prompt.Run()
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
	}

	hash, err := shelfserve.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), hash)
	return nil
}
