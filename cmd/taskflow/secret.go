package main

import (
	"fmt"

	"github.com/spf13/cobra"

	jwtx "github.com/dropDatabas3/taskflow/internal/jwt"
	tokens "github.com/dropDatabas3/taskflow/internal/security/token"
)

func newSecretCmd() *cobra.Command {
	var size int

	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Genera un secret para JWT_SECRET (HS512)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if size < jwtx.MinSecretLen {
				return fmt.Errorf("secret: --bytes must be >= %d", jwtx.MinSecretLen)
			}
			s, err := tokens.GenerateOpaqueToken(size)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s)
			return nil
		},
	}
	cmd.Flags().IntVar(&size, "bytes", jwtx.MinSecretLen, "Bytes aleatorios (el secret sale en base64url)")
	return cmd
}
