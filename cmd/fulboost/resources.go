package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fulboost/fulboost-client/internal/client"
	"github.com/spf13/cobra"
)

func (a *app) profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage your profile",
	}

	var (
		userID string
		data   string
		fields []string
		files  []string
	)
	update := &cobra.Command{
		Use:   "update",
		Short: "Update a profile",
		Long: `Update a profile with a JSON document (--data), or with form fields and files
(--field name=value, --file field=path), which are sent as multipart/form-data.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(files) == 0 && len(fields) == 0 {
				payload, err := jsonArg(data)
				if err != nil {
					return err
				}
				out, err := a.client.UpdateUserProfile(cmd.Context(), userID, payload, false)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), out)
			}

			form := client.NewForm()
			for _, f := range fields {
				k, v, ok := strings.Cut(f, "=")
				if !ok {
					return fmt.Errorf("invalid field %q, expected name=value", f)
				}
				form.AddField(k, v)
			}
			for _, f := range files {
				field, path, ok := strings.Cut(f, "=")
				if !ok {
					return fmt.Errorf("invalid file %q, expected field=path", f)
				}
				file, closeFile, err := openFile(path)
				if err != nil {
					return err
				}
				defer closeFile()
				form.AddFile(field, *file)
			}

			out, err := a.client.UpdateUserProfile(cmd.Context(), userID, form, true)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	update.Flags().StringVar(&userID, "id", "", "user id")
	update.Flags().StringVar(&data, "data", "", "profile changes as JSON, - to read from stdin")
	update.Flags().StringArrayVar(&fields, "field", nil, "form field name=value (multipart)")
	update.Flags().StringArrayVar(&files, "file", nil, "form file field=path (multipart)")
	update.MarkFlagsMutuallyExclusive("data", "field")
	update.MarkFlagsMutuallyExclusive("data", "file")
	_ = update.MarkFlagRequired("id")

	cmd.AddCommand(update)
	return cmd
}

func (a *app) postsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Read and publish posts",
	}

	var (
		sort   string
		limit  int
		params []string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := queryArgs(params)
			if err != nil {
				return err
			}
			if sort != "" {
				query.Set("sort", sort)
			}
			if limit > 0 {
				query.Set("limit", fmt.Sprint(limit))
			}
			out, err := a.client.GetPosts(cmd.Context(), query)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	list.Flags().StringVar(&sort, "sort", "", "sort order (default "+client.DefaultPostsSort+")")
	list.Flags().IntVar(&limit, "limit", 0, fmt.Sprintf("page size (default %d)", client.DefaultPostsLimit))
	list.Flags().StringArrayVar(&params, "param", nil, "extra query parameter key=value")

	var (
		content   string
		imagePath string
		mediaPath string
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Publish a post",
		RunE: func(cmd *cobra.Command, args []string) error {
			post := client.NewPost{Content: content}
			if imagePath != "" {
				file, closeFile, err := openFile(imagePath)
				if err != nil {
					return err
				}
				defer closeFile()
				post.Image = file
			}
			if mediaPath != "" {
				file, closeFile, err := openFile(mediaPath)
				if err != nil {
					return err
				}
				defer closeFile()
				post.Media = file
			}

			out, err := a.client.CreatePost(cmd.Context(), post)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	create.Flags().StringVar(&content, "content", "", "post text")
	create.Flags().StringVar(&imagePath, "image", "", "image to attach")
	create.Flags().StringVar(&mediaPath, "media", "", "video or other media to attach")
	_ = create.MarkFlagRequired("content")

	cmd.AddCommand(list, create)
	return cmd
}

func (a *app) gamesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "games",
		Short: "Browse games and submit scores",
	}

	var params []string
	list := &cobra.Command{
		Use:   "list",
		Short: "List games",
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := queryArgs(params)
			if err != nil {
				return err
			}
			out, err := a.client.GetGames(cmd.Context(), query)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	list.Flags().StringArrayVar(&params, "param", nil, "query parameter key=value")

	get := &cobra.Command{
		Use:   "get <game-id>",
		Short: "Show a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.client.GetGame(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}

	var gameData string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a game",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := jsonArg(gameData)
			if err != nil {
				return err
			}
			out, err := a.client.CreateGame(cmd.Context(), payload)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	create.Flags().StringVar(&gameData, "data", "", "game as JSON, - to read from stdin")
	_ = create.MarkFlagRequired("data")

	var scoreData string
	score := &cobra.Command{
		Use:     "score <game-id>",
		Short:   "Submit a score",
		Example: `  fulboost games score 42 --data '{"score":1200}'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := jsonArg(scoreData)
			if err != nil {
				return err
			}
			out, err := a.client.SubmitScore(cmd.Context(), args[0], payload)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	score.Flags().StringVar(&scoreData, "data", "", "score as JSON, - to read from stdin")
	_ = score.MarkFlagRequired("data")

	cmd.AddCommand(list, get, create, score)
	return cmd
}

func (a *app) challengesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "challenges",
		Short: "Create and answer challenges",
	}

	var data string
	create := &cobra.Command{
		Use:   "create",
		Short: "Challenge another user",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := jsonArg(data)
			if err != nil {
				return err
			}
			out, err := a.client.CreateChallenge(cmd.Context(), payload)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	create.Flags().StringVar(&data, "data", "", "challenge as JSON, - to read from stdin")
	_ = create.MarkFlagRequired("data")

	var params []string
	list := &cobra.Command{
		Use:   "list",
		Short: "List your challenges",
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := queryArgs(params)
			if err != nil {
				return err
			}
			out, err := a.client.GetUserChallenges(cmd.Context(), query)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	list.Flags().StringArrayVar(&params, "param", nil, "query parameter key=value, e.g. status=pending")

	cmd.AddCommand(create, list)

	transitions := []struct {
		use   string
		short string
		run   func(*app, *cobra.Command, string) (json.RawMessage, error)
	}{
		{"accept", "Accept a challenge", func(a *app, cmd *cobra.Command, id string) (json.RawMessage, error) {
			return a.client.AcceptChallenge(cmd.Context(), id)
		}},
		{"reject", "Reject a challenge", func(a *app, cmd *cobra.Command, id string) (json.RawMessage, error) {
			return a.client.RejectChallenge(cmd.Context(), id)
		}},
		{"cancel", "Cancel a challenge you created", func(a *app, cmd *cobra.Command, id string) (json.RawMessage, error) {
			return a.client.CancelChallenge(cmd.Context(), id)
		}},
	}
	for _, tr := range transitions {
		cmd.AddCommand(&cobra.Command{
			Use:   tr.use + " <challenge-id>",
			Short: tr.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				out, err := tr.run(a, cmd, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), out)
			},
		})
	}

	var userSearch string
	users := &cobra.Command{
		Use:   "users",
		Short: "Find users to challenge",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.client.GetUsersForChallenge(cmd.Context(), userSearch)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	users.Flags().StringVar(&userSearch, "search", "", "name or phone fragment")

	var gameSearch string
	games := &cobra.Command{
		Use:   "games",
		Short: "Find games to play a challenge on",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.client.GetGamesForChallenge(cmd.Context(), gameSearch)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	games.Flags().StringVar(&gameSearch, "search", "", "game name fragment")

	cmd.AddCommand(users, games)
	return cmd
}
