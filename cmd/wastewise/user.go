package main

import (
	"fmt"

	"github.com/Veraticus/wastewise/internal/cli"
	"github.com/Veraticus/wastewise/internal/session"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	cmd.AddCommand(userCreateCmd())
	cmd.AddCommand(userShowCmd())

	return cmd
}

func userCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Long:  `Create a user. If --name is omitted you are asked for one.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			email, _ := cmd.Flags().GetString("email")
			name, _ := cmd.Flags().GetString("name")
			if email == "" {
				email = viper.GetString("user.email")
			}
			if email == "" {
				return fmt.Errorf("--email is required")
			}

			if name == "" {
				reader := cli.NewNonBlockingReader(cmd.InOrStdin())
				var err error
				name, err = cli.Ask(ctx, reader, cmd.OutOrStdout(), "Display name", "")
				if err != nil {
					return err
				}
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			user, err := store.CreateUser(ctx, email, name)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("User %s <%s> ready (id %d)", user.Name, user.Email, user.ID)))
			return nil
		},
	}

	cmd.Flags().String("email", "", "email address (defaults to --user)")
	cmd.Flags().String("name", "", "display name")

	return cmd
}

func userShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current user's rewards",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			ctx, err := withSession(cmd.Context(), store)
			if err != nil {
				return err
			}
			sess, err := session.FromContext(ctx)
			if err != nil {
				return err
			}

			user, err := store.GetUserByID(ctx, sess.UserID)
			if err != nil {
				return err
			}
			reward, err := store.GetReward(ctx, sess.UserID)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderReward(user, reward))
			return nil
		},
	}
}
