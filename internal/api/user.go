package api

import "context"

// GetUser fetches the authenticated user's profile.
func (c *Client) GetUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.getJSON(ctx, "/user", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
