package gateway

import (
	"context"
	"net/http"

	"heartlink/internal/model"
)

const profilePath = "/profile/me"

// Profile returns the signed-in user's profile.
func (c *Client) Profile(ctx context.Context) (model.ProfileResponse, error) {
	var out model.ProfileResponse
	err := c.do(ctx, call{
		op:      "get_profile",
		method:  http.MethodGet,
		path:    profilePath,
		auth:    true,
		failMsg: "Failed to fetch profile",
	}, &out)
	return out, err
}

// CreateProfile stores the first version of the user's profile.
func (c *Client) CreateProfile(ctx context.Context, profile model.Profile) (model.ProfileResponse, error) {
	var out model.ProfileResponse
	err := c.do(ctx, call{
		op:      "create_profile",
		method:  http.MethodPost,
		path:    profilePath,
		auth:    true,
		body:    &profile,
		failMsg: "Failed to create profile",
	}, &out)
	return out, err
}

// UpdateProfile changes the fields set in update.
func (c *Client) UpdateProfile(ctx context.Context, update model.ProfileUpdate) (model.ProfileResponse, error) {
	var out model.ProfileResponse
	err := c.do(ctx, call{
		op:      "update_profile",
		method:  http.MethodPatch,
		path:    profilePath,
		auth:    true,
		body:    &update,
		failMsg: "Failed to update profile",
	}, &out)
	return out, err
}
