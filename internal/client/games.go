package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// GetGame returns a single game
func (c *Client) GetGame(ctx context.Context, gameID string) (json.RawMessage, error) {
	if gameID == "" {
		return nil, c.failed(ctx, "get_game", NewClientPreconditionError("game id is required"))
	}

	res, err := c.call(ctx, &request{
		operation: "get_game",
		method:    http.MethodGet,
		path:      "/games/" + url.PathEscape(gameID),
		fallback:  "Failed to load game",
	})
	if err != nil {
		return nil, err
	}
	return res.Data(), nil
}

// GetGames lists games; params are passed through as the query string
func (c *Client) GetGames(ctx context.Context, params url.Values) (json.RawMessage, error) {
	res, err := c.call(ctx, &request{
		operation: "get_games",
		method:    http.MethodGet,
		path:      "/games",
		query:     params,
		fallback:  "Failed to load games",
	})
	if err != nil {
		return nil, err
	}
	return res.Data(), nil
}

func (c *Client) CreateGame(ctx context.Context, game any) (json.RawMessage, error) {
	res, err := c.call(ctx, &request{
		operation: "create_game",
		method:    http.MethodPost,
		path:      "/games",
		body:      JSON(game),
		fallback:  "Failed to create game",
	})
	if err != nil {
		return nil, err
	}
	return res.Data(), nil
}

// SubmitScore records a score for gameID
func (c *Client) SubmitScore(ctx context.Context, gameID string, score any) (json.RawMessage, error) {
	if gameID == "" {
		return nil, c.failed(ctx, "submit_score", NewClientPreconditionError("game id is required"))
	}

	res, err := c.call(ctx, &request{
		operation: "submit_score",
		method:    http.MethodPost,
		path:      "/games/" + url.PathEscape(gameID) + "/scores",
		body:      JSON(score),
		fallback:  "Failed to submit score",
	})
	if err != nil {
		return nil, err
	}
	return res.Data(), nil
}
