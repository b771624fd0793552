package main

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/phinze/pagedeck/internal/config"
	"github.com/phinze/pagedeck/internal/device"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup: write config and store command secrets in Keychain",
	RunE:  runSetup,
}

func runSetup(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)
	fmt.Println("=== pagedeck setup ===")
	fmt.Println()

	// Load existing config as defaults
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Existing config not usable (%v), starting from defaults\n", err)
		cfg = config.Default()
	}

	fmt.Println("-- Display --")
	if d, err := time.ParseDuration(prompt(reader, "Poll interval", cfg.PollInterval.String())); err == nil {
		cfg.PollInterval = d
	} else {
		fmt.Println("  -> Not a duration, kept existing")
	}
	if n, err := strconv.Atoi(prompt(reader, "Brightness (0-100)", strconv.Itoa(cfg.Brightness))); err == nil {
		cfg.Brightness = n
	} else {
		fmt.Println("  -> Not a number, kept existing")
	}
	cfg.Font.Name = prompt(reader, "Label font (basic, proggy, go, go-bold, or a file)", cfg.Font.Name)
	fmt.Println()

	if cfg.Layout == nil {
		fmt.Println("-- Layout --")
		answer := prompt(reader, "Write the default layout into the config for editing? (y/N)", "n")
		if strings.HasPrefix(strings.ToLower(answer), "y") {
			cfg.Layout = config.DefaultLayout(cfg.DisplayRect(device.DefaultDisplay))
		}
		fmt.Println()
	}

	// Command secrets
	codes := make([]int, 0, len(cfg.Commands))
	for code, cc := range cfg.Commands {
		if cc.Secret != "" {
			codes = append(codes, code)
		}
	}
	sort.Ints(codes)
	if len(codes) > 0 {
		fmt.Println("-- Command secrets --")
	}
	for _, code := range codes {
		cc := cfg.Commands[code]
		secret := promptSecret(reader, fmt.Sprintf("Secret %q for command %d", cc.Secret, code), cc.SecretValue != "")
		if secret == "" {
			fmt.Println("  -> Kept existing")
			continue
		}
		if err := config.SetKeychainSecret(cc.Secret, secret); err != nil {
			return fmt.Errorf("storing %s in Keychain: %w", cc.Secret, err)
		}
		fmt.Println("  -> Stored in Keychain")
	}
	if len(codes) > 0 {
		fmt.Println()
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	if err := config.WriteConfigFile(cfg, path); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	fmt.Printf("Config written to %s\n", path)
	fmt.Println("Setup complete!")
	return nil
}

// prompt asks for a value with an optional default.
func prompt(reader *bufio.Reader, label, defaultVal string) string {
	if defaultVal != "" {
		fmt.Printf("  %s [%s]: ", label, defaultVal)
	} else {
		fmt.Printf("  %s: ", label)
	}
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return defaultVal
	}
	return line
}

// promptSecret asks for a secret value. If one already exists, allows keeping it.
func promptSecret(reader *bufio.Reader, label string, hasExisting bool) string {
	if hasExisting {
		fmt.Printf("  %s [press Enter to keep existing]: ", label)
	} else {
		fmt.Printf("  %s: ", label)
	}
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}
