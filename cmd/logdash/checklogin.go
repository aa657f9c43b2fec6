package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/xva-ops/logdash/internal/config"
	"github.com/xva-ops/logdash/internal/upstream"
)

var checkLoginEmail string

var checkLoginCmd = &cobra.Command{
	Use:   "check-login",
	Short: "Verify a set of operator credentials against the upstream API.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		email := strings.ToLower(strings.TrimSpace(checkLoginEmail))
		if email == "" {
			var err error
			email, err = promptLine(cmd, "Email: ")
			if err != nil {
				return err
			}
		}
		if email == "" {
			return errors.New("email is required")
		}

		password, err := promptPassword(cmd, "Password: ")
		if err != nil {
			return err
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		api, err := upstream.New(cfg.UpstreamBaseURL, cfg.UpstreamTimeout)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		result, err := api.Login(ctx, email, password)
		if err != nil {
			if errors.Is(err, upstream.ErrInvalidCredentials) {
				return &exitError{code: 2, err: errors.New("invalid credentials")}
			}
			return err
		}

		cmd.Printf("login ok: %s (role %s)\n", result.User.Email, result.User.Role)
		return nil
	},
}

func init() {
	checkLoginCmd.Flags().StringVar(&checkLoginEmail, "email", "", "operator email (prompted when omitted)")
}

func promptLine(cmd *cobra.Command, prompt string) (string, error) {
	cmd.Print(prompt)
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(line)), nil
}

func promptPassword(cmd *cobra.Command, prompt string) (string, error) {
	stdin, ok := cmd.InOrStdin().(*os.File)
	if ok && term.IsTerminal(int(stdin.Fd())) {
		cmd.Print(prompt)
		raw, err := term.ReadPassword(int(stdin.Fd()))
		cmd.Println()
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
