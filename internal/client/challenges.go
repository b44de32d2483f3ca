package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// challenge transitions are decided by the API; the client only relays them
const (
	challengeAccept = "accept"
	challengeReject = "reject"
	challengeCancel = "cancel"
)

func (c *Client) CreateChallenge(ctx context.Context, data any) (json.RawMessage, error) {
	res, err := c.call(ctx, &request{
		operation: "create_challenge",
		method:    http.MethodPost,
		path:      "/challenges",
		body:      JSON(data),
		fallback:  "Failed to create challenge",
	})
	if err != nil {
		return nil, err
	}
	return res.Data(), nil
}

// GetUserChallenges lists the challenges of the authenticated user
func (c *Client) GetUserChallenges(ctx context.Context, params url.Values) (json.RawMessage, error) {
	res, err := c.call(ctx, &request{
		operation: "get_user_challenges",
		method:    http.MethodGet,
		path:      "/challenges",
		query:     params,
		fallback:  "Failed to load challenges",
	})
	if err != nil {
		return nil, err
	}
	return res.Data(), nil
}

func (c *Client) AcceptChallenge(ctx context.Context, challengeID string) (json.RawMessage, error) {
	return c.transitionChallenge(ctx, challengeID, challengeAccept, "Failed to accept challenge")
}

func (c *Client) RejectChallenge(ctx context.Context, challengeID string) (json.RawMessage, error) {
	return c.transitionChallenge(ctx, challengeID, challengeReject, "Failed to reject challenge")
}

func (c *Client) CancelChallenge(ctx context.Context, challengeID string) (json.RawMessage, error) {
	return c.transitionChallenge(ctx, challengeID, challengeCancel, "Failed to cancel challenge")
}

func (c *Client) transitionChallenge(ctx context.Context, challengeID, action, fallback string) (json.RawMessage, error) {
	operation := action + "_challenge"
	if challengeID == "" {
		return nil, c.failed(ctx, operation, NewClientPreconditionError("challenge id is required"))
	}

	res, err := c.call(ctx, &request{
		operation: operation,
		method:    http.MethodPut,
		path:      "/challenges/" + url.PathEscape(challengeID) + "/" + action,
		fallback:  fallback,
	})
	if err != nil {
		return nil, err
	}
	return res.Data(), nil
}

// GetUsersForChallenge searches users that can be challenged. The search parameter is always sent, possibly empty.
func (c *Client) GetUsersForChallenge(ctx context.Context, search string) (json.RawMessage, error) {
	return c.challengeSearch(ctx, "get_users_for_challenge", "/challenges/users", search, "Failed to load users")
}

// GetGamesForChallenge searches games a challenge can be played on
func (c *Client) GetGamesForChallenge(ctx context.Context, search string) (json.RawMessage, error) {
	return c.challengeSearch(ctx, "get_games_for_challenge", "/challenges/games", search, "Failed to load games")
}

func (c *Client) challengeSearch(ctx context.Context, operation, path, search, fallback string) (json.RawMessage, error) {
	res, err := c.call(ctx, &request{
		operation: operation,
		method:    http.MethodGet,
		path:      path,
		query:     url.Values{"search": {search}},
		fallback:  fallback,
	})
	if err != nil {
		return nil, err
	}
	return res.Data(), nil
}
