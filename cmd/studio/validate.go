package main

import (
	"time"

	"github.com/spf13/cobra"
)

func newValidateCmd(s *studio) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [key]",
		Short: "Check a license key and show its remaining credit",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := s.cfg.LicenseKey
			if len(args) == 1 {
				key = args[0]
			}
			client, err := s.client()
			if err != nil {
				return err
			}
			resp, err := client.Validate(cmd.Context(), key)
			if err != nil {
				return err
			}

			if resp.Valid {
				s.printf("valid: yes\n")
			} else {
				s.printf("valid: no\n")
				if resp.Error != "" {
					s.printf("reason: %s\n", resp.Error)
				}
			}
			if info := resp.KeyInfo; info != nil {
				s.printf("credit: %d\n", info.Credit)
				s.printf("active: %t\n", info.IsActive)
				s.printf("created: %s\n", info.CreatedAt.Format(time.DateOnly))
				if info.ExpiredAt != nil {
					s.printf("expires: %s\n", info.ExpiredAt.Format(time.DateOnly))
				} else {
					s.printf("expires: never\n")
				}
				if info.MaxActivations > 0 {
					s.printf("max activations: %d\n", info.MaxActivations)
				}
				if info.Note != "" {
					s.printf("note: %s\n", info.Note)
				}
			}
			return nil
		},
	}
}
