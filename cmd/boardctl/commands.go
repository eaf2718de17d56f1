package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/NomadCrew/comment-board/internal/client"
	"github.com/NomadCrew/comment-board/internal/optimistic"
	"github.com/NomadCrew/comment-board/types"
	"github.com/spf13/cobra"
)

const defaultServer = "http://localhost:8080"

type options struct {
	server  string
	timeout time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "boardctl",
		Short:         "Read and post to a comment board",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	server := os.Getenv("BOARD_SERVER_URL")
	if server == "" {
		server = defaultServer
	}
	rootCmd.PersistentFlags().StringVar(&opts.server, "server", server, "board API base URL (env BOARD_SERVER_URL)")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "request timeout")

	rootCmd.AddCommand(
		newListCmd(opts),
		newSearchCmd(opts),
		newPostCmd(opts),
		newFeedbackCmd(opts),
	)
	return rootCmd
}

func (o *options) client() *client.Client {
	return client.New(o.server, client.WithHTTPClient(o.httpClient()))
}

// httpClient bounds each request by --timeout rather than the client default.
func (o *options) httpClient() *http.Client {
	return &http.Client{Timeout: o.timeout}
}

func (o *options) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), o.timeout)
}

func newListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every comment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			comments, err := opts.client().ListComments(ctx)
			if err != nil {
				return err
			}
			renderComments(cmd.OutOrStdout(), comments, 0)
			return nil
		},
	}
}

func newSearchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "search [query]",
		Short: "List comments containing query, ignoring case",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			comments, err := opts.client().SearchComments(ctx, query)
			if err != nil {
				return err
			}
			renderComments(cmd.OutOrStdout(), comments, 0)
			return nil
		},
	}
}

// newPostCmd shows the comment immediately as pending, then reconciles with the
// server: a rejected write is rolled back, a committed one is replaced by the
// refetched list.
func newPostCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "post <comment>",
		Short: "Post a comment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			out := cmd.OutOrStdout()
			c := opts.client()

			base, err := c.ListComments(ctx)
			if err != nil {
				return err
			}
			board := optimistic.NewBoard(base, optimistic.AppendReducer[string])

			mutate := func(ctx context.Context, comment string) error {
				renderComments(out, board.View(), board.PendingCount())
				return c.PostComment(ctx, comment)
			}

			err = optimistic.Submit(ctx, board, args[0], mutate, c.ListComments)
			switch {
			case err == nil:
				fmt.Fprintln(out, styleCommitted.Render("Comment posted."))
			case errors.Is(err, optimistic.ErrRefetchFailed):
				fmt.Fprintln(out, styleCommitted.Render("Comment posted."))
				fmt.Fprintln(out, styleWarning.Render("Could not reload the board: "+err.Error()))
			default:
				fmt.Fprintln(out, styleError.Render("Comment rolled back."))
				var rejected *client.RejectedError
				if errors.As(err, &rejected) {
					renderRejection(out, rejected.Result)
				}
				renderComments(out, board.View(), board.PendingCount())
				return err
			}

			renderComments(out, board.View(), board.PendingCount())
			return nil
		},
	}
}

func newFeedbackCmd(opts *options) *cobra.Command {
	var name, email, message string

	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Send feedback to the board owners",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			out := cmd.OutOrStdout()
			result, err := opts.client().SubmitFeedback(ctx, name, email, message)
			if err != nil {
				return err
			}
			if result.Status != types.MutationCommitted {
				renderRejection(out, result)
				return &client.RejectedError{Result: result}
			}
			fmt.Fprintln(out, styleCommitted.Render("Thanks for your feedback."))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "your name")
	cmd.Flags().StringVar(&email, "email", "", "your email address")
	cmd.Flags().StringVar(&message, "message", "", "feedback text")
	return cmd
}
