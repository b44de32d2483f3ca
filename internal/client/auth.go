package client

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Credentials are the login fields expected by the API
type Credentials struct {
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

// LoginResult is returned by a successful Login
type LoginResult struct {
	Success bool            `json:"success"`
	User    json.RawMessage `json:"user,omitempty"`
	Token   string          `json:"token"`
}

// NormalizePhoneNumber folds full-width digits and symbols to ASCII (NFKC) and drops whitespace,
// so "+34 600 000 000" and "＋３４６００００００００" are sent identically.
func NormalizePhoneNumber(phone string) string {
	folded := norm.NFKC.String(phone)
	stripped, _, err := transform.String(runes.Remove(runes.In(unicode.White_Space)), folded)
	if err != nil {
		return strings.TrimSpace(folded)
	}
	return stripped
}

// Login authenticates with a phone number and password.
//
// The API must return a token; a success status without one is treated as a failed login.
// On success the token becomes the session token. On any failure the stored token is cleared.
func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	const fallback = "Login failed"

	loginReq := Credentials{
		PhoneNumber: NormalizePhoneNumber(creds.PhoneNumber),
		Password:    creds.Password,
	}

	result, err := c.login(ctx, loginReq, fallback)
	if err != nil {
		if clearErr := c.session.Clear(); clearErr != nil {
			c.logger.ErrorContext(ctx, "could not clear session after failed login", slog.String("error", clearErr.Error()))
		}
		return nil, err
	}
	return result, nil
}

func (c *Client) login(ctx context.Context, loginReq Credentials, fallback string) (*LoginResult, error) {
	res, err := c.call(ctx, &request{
		operation:        "login",
		method:           http.MethodPost,
		path:             "/users/login",
		body:             JSON(loginReq),
		skipSessionGuard: true,
		fallback:         fallback,
	})
	if err != nil {
		return nil, err
	}

	token, user := loginFields(res)
	if token == "" {
		return nil, c.failed(ctx, "login", NewClientMalformedResponseError(res, ErrAuthenticationFailed, fallback))
	}

	if err := c.session.Establish(token); err != nil {
		return nil, c.failed(ctx, "login", NewClientInternalError(err, "storing session token"))
	}

	c.logger.InfoContext(ctx, "logged in")

	return &LoginResult{
		Success: true,
		User:    user,
		Token:   token,
	}, nil
}

// loginFields finds the token and user at the top level of the body, or under `data`
func loginFields(res *Response) (string, json.RawMessage) {
	var body struct {
		Token string          `json:"token"`
		User  json.RawMessage `json:"user"`
		Data  *struct {
			Token string          `json:"token"`
			User  json.RawMessage `json:"user"`
		} `json:"data"`
	}
	if !res.JSON || json.Unmarshal(res.Body, &body) != nil {
		return "", nil
	}

	if body.Token != "" {
		return body.Token, body.User
	}
	if body.Data != nil && body.Data.Token != "" {
		return body.Data.Token, body.Data.User
	}
	return "", nil
}

// Register creates a new user account. userData is sent as is.
func (c *Client) Register(ctx context.Context, userData any) (json.RawMessage, error) {
	res, err := c.call(ctx, &request{
		operation:        "register",
		method:           http.MethodPost,
		path:             "/users/register",
		body:             JSON(userData),
		skipSessionGuard: true,
		fallback:         "Registration failed",
	})
	if err != nil {
		return nil, err
	}
	return res.Data(), nil
}

// Logout notifies the API and clears the local session.
//
// The API call is best effort: its failure is logged, not returned.
// The session is cleared whatever happens; only a failure to clear it is returned.
func (c *Client) Logout(ctx context.Context) (err error) {
	defer func() {
		if clearErr := c.session.Clear(); clearErr != nil {
			err = c.failed(ctx, "logout", NewClientInternalError(clearErr, "clearing session"))
		}
	}()

	if _, callErr := c.call(ctx, &request{
		operation:        "logout",
		method:           http.MethodPost,
		path:             "/users/logout",
		skipSessionGuard: true,
		fallback:         "Logout failed",
	}); callErr != nil {
		c.logger.WarnContext(ctx, "logout request failed, clearing local session anyway", slog.String("error", callErr.Error()))
	}

	return nil
}

// GetCurrentUserProfile returns the profile of the authenticated user
func (c *Client) GetCurrentUserProfile(ctx context.Context) (json.RawMessage, error) {
	res, err := c.call(ctx, &request{
		operation: "get_current_user_profile",
		method:    http.MethodGet,
		path:      "/users/me",
		fallback:  "Failed to load profile",
	})
	if err != nil {
		return nil, err
	}
	return res.Data(), nil
}

// UpdateUserProfile updates the profile of userID.
//
// With isMultipart the data must be a *Form built by the caller and is sent as multipart/form-data;
// otherwise data is sent as JSON.
func (c *Client) UpdateUserProfile(ctx context.Context, userID string, data any, isMultipart bool) (json.RawMessage, error) {
	if userID == "" {
		return nil, c.failed(ctx, "update_user_profile", NewClientPreconditionError("user id is required"))
	}

	var body Body
	switch d := data.(type) {
	case *Form:
		body = d
	case Body:
		if isMultipart {
			return nil, c.failed(ctx, "update_user_profile", NewClientPreconditionError("multipart profile updates need a form payload"))
		}
		body = d
	default:
		if isMultipart {
			return nil, c.failed(ctx, "update_user_profile", NewClientPreconditionError("multipart profile updates need a form payload"))
		}
		body = JSON(data)
	}

	res, err := c.call(ctx, &request{
		operation: "update_user_profile",
		method:    http.MethodPut,
		path:      "/users/profile/" + url.PathEscape(userID),
		body:      body,
		fallback:  "Failed to update profile",
	})
	if err != nil {
		return nil, err
	}
	return res.Data(), nil
}
