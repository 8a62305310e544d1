package gateway

import (
	"context"
	"net/http"

	"heartlink/internal/model"
)

// PotentialMatches returns candidate profiles for swiping.
func (c *Client) PotentialMatches(ctx context.Context) ([]model.PotentialMatch, error) {
	var out []model.PotentialMatch
	err := c.do(ctx, call{
		op:      "potential_matches",
		method:  http.MethodGet,
		path:    "/match/potential",
		auth:    true,
		failMsg: "Failed to fetch potential matches",
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Act likes or passes on a candidate.
func (c *Client) Act(ctx context.Context, targetUserID, action string) (model.MatchActionResult, error) {
	var out model.MatchActionResult
	err := c.do(ctx, call{
		op:      "match_action",
		method:  http.MethodPost,
		path:    "/match/action",
		auth:    true,
		body:    &model.UserAction{TargetUserID: targetUserID, Action: action},
		failMsg: "Failed to process action",
	}, &out)
	return out, err
}

// Matches returns the user's mutual matches.
func (c *Client) Matches(ctx context.Context) ([]model.Match, error) {
	var out []model.Match
	err := c.do(ctx, call{
		op:      "list_matches",
		method:  http.MethodGet,
		path:    "/match",
		auth:    true,
		failMsg: "Failed to fetch matches",
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}
