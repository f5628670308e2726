package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/outliers/druknation/internal/server"
)

var operatorSubject string

var operatorCmd = &cobra.Command{
	Use:   "operator",
	Short: "Manage operator credentials for the reload endpoint",
}

var operatorTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an operator bearer token signed with JWT_SECRET",
	Args:  cobra.NoArgs,
	RunE:  runOperatorToken,
}

var operatorHashCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "Print a bcrypt hash for OPERATOR_PASSWORD_HASH",
	Long:  "Hash the given password, or the first line of stdin when no argument is given.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runOperatorHash,
}

func init() {
	operatorTokenCmd.Flags().StringVar(&operatorSubject, "subject", server.RoleOperator, "Operator name stored in the token subject")
	operatorCmd.AddCommand(operatorTokenCmd, operatorHashCmd)
	rootCmd.AddCommand(operatorCmd)
}

func runOperatorToken(cmd *cobra.Command, _ []string) error {
	jwtConfig, err := cfg.JWT()
	if err != nil {
		return err
	}
	if jwtConfig == nil {
		return fmt.Errorf("JWT_SECRET is not set")
	}

	token, err := server.NewJWTService(jwtConfig).GenerateToken(operatorSubject)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
	return err
}

func runOperatorHash(cmd *cobra.Command, args []string) error {
	var password string
	if len(args) == 1 {
		password = args[0]
	} else {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("failed to read password from stdin: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}
	if password == "" {
		return fmt.Errorf("password must not be empty")
	}

	pw, err := cfg.Password()
	if err != nil {
		return err
	}
	hash, err := pw.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
	return err
}
