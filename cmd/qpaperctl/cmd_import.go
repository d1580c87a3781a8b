package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mind-engage/mindengage-qpaper/internal/app"
	auth "github.com/mind-engage/mindengage-qpaper/internal/auth/middleware"
	"github.com/mind-engage/mindengage-qpaper/internal/question"
)

var importOwner string

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Bulk-insert questions from a pipe-delimited, CSV or JSON file",
	Long: `Each row is validated on its own; valid rows are saved even when others
fail. Pipe-delimited lines follow

  question | unit | co | bl | marks | subject | department | course | semester`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		drafts, err := question.ParseBulk(f)
		if err != nil {
			return fmt.Errorf("parse %s: %w", args[0], err)
		}

		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			svc := question.NewService(a.Questions, a.Events, nil, logger)
			owner := auth.Principal{UserID: importOwner, Role: auth.RoleAdmin}
			res, err := svc.CreateMany(ctx, owner, drafts)
			out := cmd.OutOrStdout()
			for _, e := range res.Errors {
				fmt.Fprintln(out, e)
			}
			if errors.Is(err, question.ErrNoValidRows) {
				return fmt.Errorf("%w (%d rows rejected)", err, len(res.Errors))
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "saved %d, failed %d\n", len(res.Inserted), len(res.Errors))
			return nil
		})
	},
}

func init() {
	importCmd.Flags().StringVar(&importOwner, "owner", "qpaperctl", "user id recorded as createdBy")
}
