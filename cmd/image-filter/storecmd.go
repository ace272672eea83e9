package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/menta2k/image-filter/internal/utils"
)

var storeGetOutput string

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Inspect images saved in PostgreSQL",
}

var storeListCmd = &cobra.Command{
	Use:   "list <name>",
	Short: "List saved outputs for an input name, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		records, err := s.List(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "no saved images for %s\n", args[0])
			return nil
		}
		for _, r := range records {
			fmt.Fprintf(cmd.OutOrStdout(), "%6d  %-4s %5dx%-5d %s\n",
				r.ID, r.Format, r.Width, r.Height, r.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

var storeGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Write a saved output to a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q: %w", args[0], err)
		}
		s, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		rec, err := s.Get(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("image %d: %w", id, err)
		}

		out := storeGetOutput
		if out == "" {
			out = fmt.Sprintf("%s_%d.%s", utils.SanitizeFilename(rec.Name), rec.ID, rec.Format)
		}
		if err := writeFile(out, rec.Data); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s)\n", out, utils.FormatFileSize(int64(len(rec.Data))))
		return nil
	},
}

var storeResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Drop all saved images",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		return s.Reset(cmd.Context())
	},
}

func init() {
	storeGetCmd.Flags().StringVarP(&storeGetOutput, "output", "o", "", "output path (default: <name>_<id>.<format>)")
	storeCmd.AddCommand(storeListCmd, storeGetCmd, storeResetCmd)
	rootCmd.AddCommand(storeCmd)
}
