// Package cli is the operator command line: schema setup, accounts and stock queries.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"minigold/internal/app"
	"minigold/internal/bootstrap"
	"minigold/internal/config"
)

// Version is stamped at build time with -ldflags "-X minigold/internal/adapters/cli.Version=...".
var Version = "dev"

type options struct {
	configPath string
}

// NewRootCommand builds the minigold command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "minigold",
		Short:         "Gold product production workflow",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file path (YAML)")

	root.AddCommand(
		migrateCmd(opts),
		userCmd(opts),
		stockCmd(opts),
		seedCmd(opts),
		statusesCmd(),
		versionCmd(),
	)
	return root
}

// withRuntime loads configuration, opens the runtime and runs fn against it.
func withRuntime(cmd *cobra.Command, opts *options, fn func(ctx context.Context, rt *bootstrap.Runtime) error) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	rt, err := bootstrap.New(ctx, cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer rt.Close()
	return fn(ctx, rt)
}

func migrateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, opts, func(ctx context.Context, rt *bootstrap.Runtime) error {
				fmt.Fprintf(cmd.OutOrStdout(), "Schema applied (%s).\n", rt.Config.Store.Driver)
				return nil
			})
		},
	}
}

func userCmd(opts *options) *cobra.Command {
	user := &cobra.Command{
		Use:   "user",
		Short: "Manage operator accounts",
	}

	var req app.CreateUserRequest
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an operator account; the password is read from stdin when --password is empty",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Password == "" {
				pw, err := readLine(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				req.Password = pw
			}
			return withRuntime(cmd, opts, func(ctx context.Context, rt *bootstrap.Runtime) error {
				u, err := rt.App.CreateUser(ctx, req)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (id %d, role %s).\n", u.Username, u.UserID, u.Role)
				return nil
			})
		},
	}
	create.Flags().StringVarP(&req.Username, "username", "u", "", "Login name")
	create.Flags().StringVarP(&req.Password, "password", "p", "", "Password (8 to 72 characters)")
	create.Flags().StringVarP(&req.Role, "role", "r", "admin", "Role: admin, produksi or packaging")
	_ = create.MarkFlagRequired("username")

	user.AddCommand(create)
	return user
}

func stockCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stock [product-id]",
		Short: "Show stock levels, or the movements of one product",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var productID int64
			if len(args) == 1 {
				id, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil || id <= 0 {
					return fmt.Errorf("invalid product id %q", args[0])
				}
				productID = id
			}
			return withRuntime(cmd, opts, func(ctx context.Context, rt *bootstrap.Runtime) error {
				out := cmd.OutOrStdout()
				if productID == 0 {
					stock, err := rt.App.ListStock(ctx)
					if err != nil {
						return err
					}
					printStock(out, stock)
					return nil
				}
				moves, err := rt.App.ListStockMovements(ctx, productID)
				if err != nil {
					return err
				}
				printMovements(out, productID, moves)
				return nil
			})
		},
	}
}

func statusesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "statuses",
		Short: "Print the workflow status taxonomy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printStatuses(cmd.OutOrStdout())
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "minigold version %s\n", Version)
		},
	}
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
