package api

import (
	"context"
	"log/slog"
	"time"
)

// AuthorizeResult is the terminal outcome of a device-flow authorization
// wait. Denial and timeout are expected outcomes of the protocol, not
// errors; the result is only meaningful when the accompanying error is nil.
type AuthorizeResult int

const (
	AuthorizeGranted AuthorizeResult = iota
	AuthorizeDenied
	AuthorizeTimedOut
	AuthorizeNotInitialized
)

func (r AuthorizeResult) String() string {
	switch r {
	case AuthorizeGranted:
		return "granted"
	case AuthorizeDenied:
		return "denied"
	case AuthorizeTimedOut:
		return "timed out"
	case AuthorizeNotInitialized:
		return "not initialized"
	default:
		return "unknown"
	}
}

// authorizationPending is the poll response while the user has not yet
// acted on the verification page.
const authorizationPending = "authorization_pending"

// DeviceFlowInit starts a device-flow authorization and returns the user
// code to display and the verification URI the user must visit. The device
// code is retained internally for the subsequent DeviceFlowAuthorize.
func (c *Client) DeviceFlowInit(ctx context.Context) (userCode, verificationURI string, err error) {
	params := Params{{Key: "client_id", Value: c.ClientID}}

	rs := newRequestState()
	status, err := c.request(ctx, rs, deviceFlowInitPath, params, MethodGet, false)
	if err != nil {
		return "", "", err
	}

	var doc struct {
		DeviceCode      string `json:"device_code"`
		UserCode        string `json:"user_code"`
		VerificationURI string `json:"verification_uri"`
		Error           string `json:"error"`
	}
	if err := rs.decodeJSON(deviceFlowInitPath, &doc); err != nil {
		return "", "", err
	}
	if doc.Error != "" {
		return "", "", &APIError{StatusCode: status, Message: doc.Error}
	}
	if doc.DeviceCode == "" {
		return "", "", &ProtocolError{Endpoint: deviceFlowInitPath, Field: "device_code"}
	}
	if doc.UserCode == "" {
		return "", "", &ProtocolError{Endpoint: deviceFlowInitPath, Field: "user_code"}
	}

	c.mu.Lock()
	c.deviceCode = doc.DeviceCode
	c.userCode = doc.UserCode
	c.mu.Unlock()
	return doc.UserCode, doc.VerificationURI, nil
}

// DeviceFlowAuthorize polls the service until the user grants or denies the
// pending authorization, or timeout elapses. On grant the authorization
// code is exchanged for tokens before returning. The device-flow scratch is
// cleared on every terminal outcome, so a new DeviceFlowInit is required
// after denial or timeout. Without a prior successful DeviceFlowInit it
// returns AuthorizeNotInitialized without touching the network.
func (c *Client) DeviceFlowAuthorize(ctx context.Context, timeout time.Duration) (AuthorizeResult, error) {
	c.mu.Lock()
	deviceCode := c.deviceCode
	c.mu.Unlock()
	if deviceCode == "" {
		return AuthorizeNotInitialized, nil
	}

	params := Params{
		{Key: "client_id", Value: c.ClientID},
		{Key: "device_code", Value: deviceCode},
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		rs := newRequestState()
		status, err := c.request(ctx, rs, deviceFlowAuthPath, params, MethodGet, false)
		if err != nil {
			return AuthorizeNotInitialized, err
		}

		var doc struct {
			Code  string  `json:"code"`
			Error *string `json:"error"`
		}
		if err := rs.decodeJSON(deviceFlowAuthPath, &doc); err != nil {
			return AuthorizeNotInitialized, err
		}

		switch {
		case doc.Code != "":
			err := c.exchangeCode(ctx, doc.Code)
			c.clearDeviceFlow()
			if err != nil {
				return AuthorizeNotInitialized, err
			}
			return AuthorizeGranted, nil
		case doc.Error == nil:
			return AuthorizeNotInitialized, &ProtocolError{Endpoint: deviceFlowAuthPath, Field: "error"}
		case *doc.Error != authorizationPending:
			slog.Debug("device flow rejected", "status", status, "error", *doc.Error)
			c.clearDeviceFlow()
			return AuthorizeDenied, nil
		}

		if err := sleepWithContext(ctx, c.pollInterval()); err != nil {
			return AuthorizeNotInitialized, err
		}
	}

	c.clearDeviceFlow()
	return AuthorizeTimedOut, nil
}

func (c *Client) clearDeviceFlow() {
	c.mu.Lock()
	c.deviceCode = ""
	c.userCode = ""
	c.mu.Unlock()
}

// exchangeCode trades a device-flow authorization code for a token pair.
func (c *Client) exchangeCode(ctx context.Context, code string) error {
	return c.tokenGrant(ctx, Params{
		{Key: "grant_type", Value: "authorization_code"},
		{Key: "client_id", Value: c.ClientID},
		{Key: "client_secret", Value: c.ClientSecret},
		{Key: "redirect_uri", Value: c.RedirectURI},
		{Key: "code", Value: code},
	})
}

// refreshTokens trades the refresh token for a fresh pair. The pair is
// replaced wholesale; on any failure the previous pair is left untouched.
func (c *Client) refreshTokens(ctx context.Context) error {
	_, refreshToken := c.Tokens()
	return c.tokenGrant(ctx, Params{
		{Key: "grant_type", Value: "refresh_token"},
		{Key: "client_id", Value: c.ClientID},
		{Key: "client_secret", Value: c.ClientSecret},
		{Key: "refresh_token", Value: refreshToken},
	})
}

func (c *Client) tokenGrant(ctx context.Context, params Params) error {
	rs := newRequestState()
	status, err := c.request(ctx, rs, oauthTokenPath, params, MethodPost, false)
	if err != nil {
		return err
	}

	var doc struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		Error        string `json:"error"`
	}
	if err := rs.decodeJSON(oauthTokenPath, &doc); err != nil {
		return err
	}
	if doc.Error != "" {
		return &APIError{StatusCode: status, Message: doc.Error}
	}
	// Tokens are saved both-or-neither.
	if doc.AccessToken == "" {
		return &ProtocolError{Endpoint: oauthTokenPath, Field: "access_token"}
	}
	if doc.RefreshToken == "" {
		return &ProtocolError{Endpoint: oauthTokenPath, Field: "refresh_token"}
	}

	c.saveTokens(doc.AccessToken, doc.RefreshToken)
	return nil
}
