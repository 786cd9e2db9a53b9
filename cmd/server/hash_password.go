package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iliyamo/liftpass/internal/config"
	"github.com/iliyamo/liftpass/internal/utils"
)

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash suitable for ADMIN_PASSWORD_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(envFiles...); err != nil {
				return err
			}
			hash, err := utils.HashPassword(args[0], config.BcryptCost())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	}
}
