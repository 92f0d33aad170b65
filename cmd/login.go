package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type LoginCmd struct {
	Token string `arg:"" optional:"" help:"API token for the registry. Prompted for when omitted."`
}

func (l *LoginCmd) Run() error {
	token := strings.TrimSpace(l.Token)
	if token == "" {
		fmt.Print("Enter your API token: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return err
		}
		token = strings.TrimSpace(line)
	}
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}

	path, err := tokenFilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(token+"\n"), 0o600); err != nil {
		return err
	}
	fmt.Printf("Logged in. Token saved to %s\n", path)
	return nil
}

func tokenFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".loft", "token"), nil
}

// savedToken loads the credential stored by 'loft login'.
func savedToken() (string, error) {
	path, err := tokenFilePath()
	if err != nil {
		return "", err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("not logged in, run 'loft login' first")
	}
	return strings.TrimSpace(string(content)), nil
}
