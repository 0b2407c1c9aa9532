package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mmcdole/vklogin/pkg/credential"
	"github.com/spf13/cobra"
)

var version = "dev" // Will be set during build

func main() {
	err := newRootCmd(os.Stdin, os.Stdout).Execute()
	var failed *outcomeError
	if errors.As(err, &failed) {
		// Already reported to the user
		os.Exit(1)
	}
	cobra.CheckErr(err)
}

// newRootCmd builds the command tree reading from stdin and writing to out
func newRootCmd(stdin io.Reader, out io.Writer) *cobra.Command {
	var (
		cfgFile     string
		storePath   string
		debug       bool
		showVersion bool
		sess        *session
	)

	rootCmd := &cobra.Command{
		Use:           "vklogin",
		Short:         "Local username/password store",
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `vklogin - create a local username/password pair and verify it later

Usernames are stored as SHA-256 digests and passwords as salted bcrypt
(or Argon2id) hashes in a single JSON file.

An optional configuration file must be in JSON format:
{
    "store_path": "user_data.json",
    "hash_algorithm": "bcrypt",
    "bcrypt_cost": 10,
    "app_log_path": "log/vklogin.log",
    "log_level": "info"
}`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd == cmd.Root() || cmd.Name() == "help" {
				return nil
			}

			var config Config
			if cfgFile != "" {
				if !filepath.IsAbs(cfgFile) {
					abs, err := filepath.Abs(cfgFile)
					if err != nil {
						return fmt.Errorf("failed to get absolute path: %v", err)
					}
					cfgFile = abs
				}
				if err := LoadConfig(cfgFile, &config); err != nil {
					return fmt.Errorf("failed to load config: %v", err)
				}
			}
			if storePath != "" {
				config.StorePath = storePath
			}
			config.Debug = config.Debug || debug
			config.applyDefaults()
			if err := config.Validate(); err != nil {
				return fmt.Errorf("invalid config: %v", err)
			}

			var err error
			sess, err = newSession(&config, stdin, out)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if sess != nil {
				return sess.close()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprintf(out, "vklogin %s\n", version)
				return nil
			}
			return cmd.Help()
		},
	}

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "path to the credential store file (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "show version information")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "register [username]",
			Short: "Create the account",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				has, err := sess.svc.HasAccount()
				if err != nil {
					return fmt.Errorf("checking existing account: %v", err)
				}
				if has {
					return sess.report(credential.Outcome{
						Kind:    credential.KindDuplicateUser,
						Message: "An account is already registered; run 'vklogin clear' to start over",
					})
				}

				username, password, err := sess.credentials(args)
				if err != nil {
					return err
				}
				return sess.report(sess.svc.Register(username, password))
			},
		},
		&cobra.Command{
			Use:     "verify [username]",
			Aliases: []string{"login"},
			Short:   "Check a password against the stored account",
			Args:    cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				username, password, err := sess.credentials(args)
				if err != nil {
					return err
				}
				return sess.report(sess.svc.Verify(username, password))
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Delete the credential store file",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return sess.report(sess.svc.Clear())
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show whether an account is registered",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				has, err := sess.svc.HasAccount()
				if err != nil {
					return fmt.Errorf("checking existing account: %v", err)
				}
				if has {
					fmt.Fprintln(out, "An account is registered")
				} else {
					fmt.Fprintln(out, "No account registered; run 'vklogin register' to create one")
				}
				return nil
			},
		},
	)

	return rootCmd
}
