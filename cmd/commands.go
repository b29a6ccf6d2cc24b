package main

import (
	"encoding/json"
	"fmt"

	"compressor_runtime/internal/logger"
	"compressor_runtime/internal/service"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// newLedgerCmd prints the dashboard snapshot straight from the database,
// without starting the server.
func newLedgerCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "ledger",
		Short: "Print ledger, maintenance interval and cartridge status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			log := logger.Nop()
			conn, err := openDB(cfg, log)
			if err != nil {
				return err
			}
			defer func() { _ = conn.Close() }()

			snap, err := newServices(conn, cfg, "", nil, log).Dashboard.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(snap, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
}

// newHashSecretCmd prints a bcrypt hash usable as auth.maintenance_secret.
// The secret comes from the argument or from COMPRESSOR_SECRET.
func newHashSecretCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-secret [secret]",
		Short: "Print a bcrypt hash for auth.maintenance_secret",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			v.SetEnvPrefix("COMPRESSOR")
			_ = v.BindEnv("secret")
			secret := v.GetString("secret")
			if len(args) == 1 {
				secret = args[0]
			}
			if secret == "" {
				return fmt.Errorf("secret is required as argument or COMPRESSOR_SECRET")
			}
			hash, err := service.HashSecret(secret)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	}
}
