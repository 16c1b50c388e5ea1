package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/d3ce1t/turtlelink/idgen"
	"github.com/d3ce1t/turtlelink/shortcode"
	"github.com/spf13/cobra"
)

func newGenerator(cmd *cobra.Command) (*idgen.IDGen, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return idgen.NewIDGen(cfg.WorkerID(), cfg.DatacenterID(), idgen.WithEpoch(cfg.Epoch()))
}

// next
func newNextCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Mint new ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			count, _ := cmd.Flags().GetInt("n")
			withCode, _ := cmd.Flags().GetBool("code")

			gen, err := newGenerator(cmd)
			if err != nil {
				return err
			}

			for i := 0; i < count; i++ {
				id, err := gen.NextID()
				if err != nil {
					return err
				}
				if withCode {
					fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", id, shortcode.EncodeFull(uint64(id)))
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), id)
				}
			}

			return nil
		},
	}
	cmd.Flags().IntP("n", "n", 1, "Number of ids")
	cmd.Flags().Bool("code", false, "Also print the full base-62 code")
	return cmd
}

// encode <n>
func newEncodeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode <number>",
		Short: "Encode a number as a fixed-length base-62 code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			length, _ := cmd.Flags().GetInt("length")

			number, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid number %q: %w", args[0], err)
			}

			if length <= 0 {
				fmt.Fprintln(cmd.OutOrStdout(), shortcode.EncodeFull(number))
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), shortcode.Encode(number, length))
			if shortcode.Truncates(number, length) {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %d needs %d symbols, code was truncated\n",
					number, len(shortcode.EncodeFull(number)))
			}

			return nil
		},
	}
	cmd.Flags().Int("length", shortcode.DefaultLength, "Code length, 0 for the full encoding")
	return cmd
}

// decode <code>
func newDecodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <code>",
		Short: "Decode a base-62 code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := shortcode.Decode(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), number)
			return nil
		},
	}
}

// inspect <id>
func newInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <id>",
		Short: "Show the fields packed in an id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id < 0 {
				return fmt.Errorf("invalid id %q", args[0])
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			parts := idgen.DefaultLayout().Decompose(id, cfg.Epoch())

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "id:            %d\n", id)
			fmt.Fprintf(out, "timestamp:     %d (%v)\n", parts.Timestamp, parts.Time().UTC().Format(time.RFC3339Nano))
			fmt.Fprintf(out, "datacenter_id: %d\n", parts.DatacenterID)
			fmt.Fprintf(out, "worker_id:     %d\n", parts.WorkerID)
			fmt.Fprintf(out, "sequence:      %d\n", parts.Sequence)
			fmt.Fprintf(out, "code:          %s\n", shortcode.Encode(uint64(id), cfg.CodeLength()))
			fmt.Fprintf(out, "full code:     %s\n", shortcode.EncodeFull(uint64(id)))

			return nil
		},
	}
}
