package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/d3ce1t/turtlelink/api"
	"github.com/d3ce1t/turtlelink/cqldao"
	"github.com/d3ce1t/turtlelink/model"
	"github.com/d3ce1t/turtlelink/pgdao"
	"github.com/spf13/cobra"
)

func printLink(cmd *cobra.Command, link *model.Link, baseURL string) {
	fmt.Fprintf(cmd.OutOrStdout(), "%-20d %-12s %-40s %6d  %v\n",
		link.Id(), link.Code(), link.ShortURL(baseURL), link.Clicks(),
		link.CreatedDate().UTC().Format(time.RFC3339))
	fmt.Fprintf(cmd.OutOrStdout(), "%-20s -> %s\n", "", link.TargetURL())
}

// schema
func newSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Create the keyspace and tables in the configured database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			switch cfg.Store() {
			case api.StoreKind_PEBBLE:
				fmt.Fprintln(cmd.OutOrStdout(), "pebble needs no schema")
				return nil

			case api.StoreKind_CASSANDRA:
				session := cqldao.NewSession(cfg.DbKeyspace(), cfg.DbCQLVersion(), cfg.DbAddress()...)
				if err := session.CreateKeyspace(1); err != nil {
					return err
				}
				if err := session.ConnectRetry(connectAttempts, time.Second); err != nil {
					return err
				}
				defer session.Close()
				return cqldao.CreateSchema(session)

			case api.StoreKind_POSTGRES:
				ctx, cancel := context.WithTimeout(cmd.Context(), connectTimeout)
				defer cancel()
				dao, err := pgdao.Open(ctx, cfg.DatabaseURL())
				if err != nil {
					return err
				}
				defer dao.Close()
				return dao.CreateSchema(ctx)
			}

			return fmt.Errorf("unknown store %q", cfg.Store())
		},
	}
}

// shorten <url>
func newShortenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shorten <url>",
		Short: "Create a short link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, _ := cmd.Flags().GetInt64("owner")
			code, _ := cmd.Flags().GetString("code")

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			link, adminKey, err := a.model.Links.Shorten(owner, args[0], code)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "short url: %s\n", link.ShortURL(a.config.BaseURL()))
			fmt.Fprintf(cmd.OutOrStdout(), "id:        %d\n", link.Id())
			fmt.Fprintf(cmd.OutOrStdout(), "admin key: %s\n", adminKey)

			return nil
		},
	}
	cmd.Flags().Int64("owner", 0, "ID of the owning user")
	cmd.Flags().String("code", "", "Custom code instead of a generated one")
	return cmd
}

// resolve <code>
func newResolveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <code>",
		Short: "Print the target of a short link and count a click",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			link, err := a.model.Links.Resolve(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), link.TargetURL())

			return nil
		},
	}
}

// links <owner>
func newLinksCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "links <owner>",
		Short: "List the links of an owner, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid owner %q", args[0])
			}

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			links, err := a.model.Links.GetLinksByOwner(owner)
			if err != nil {
				return err
			}

			for _, link := range links {
				printLink(cmd, link, a.config.BaseURL())
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Num. Links:", len(links))

			return nil
		},
	}
}

// delete <code> <admin-key>
func newDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <code> <admin-key>",
		Short: "Delete a short link",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.model.Links.Delete(args[0], args[1]); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Link deleted")

			return nil
		},
	}
}
