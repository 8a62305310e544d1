package gateway

import (
	"context"
	"net/http"
	"net/url"

	"heartlink/internal/model"
)

// Login exchanges credentials for a bearer token. It does not touch the
// session; callers store the token.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (model.AuthResponse, error) {
	var out model.AuthResponse
	err := c.do(ctx, call{
		op:      "login",
		method:  http.MethodPost,
		path:    "/auth/login",
		body:    &creds,
		failMsg: "Login failed",
	}, &out)
	return out, err
}

// Register creates an account and triggers a verification email.
func (c *Client) Register(ctx context.Context, creds model.Credentials) (model.StatusMessage, error) {
	var out model.StatusMessage
	err := c.do(ctx, call{
		op:      "register",
		method:  http.MethodPost,
		path:    "/auth/signup",
		body:    &creds,
		failMsg: "Registration failed",
	}, &out)
	return out, err
}

// VerifyEmail confirms an email verification token.
func (c *Client) VerifyEmail(ctx context.Context, token string) (model.StatusMessage, error) {
	var out model.StatusMessage
	err := c.do(ctx, call{
		op:      "verify_email",
		method:  http.MethodGet,
		path:    "/auth/verify-email/" + url.PathEscape(token),
		failMsg: "Verification failed",
	}, &out)
	return out, err
}

// ForgotPassword requests a password reset email.
func (c *Client) ForgotPassword(ctx context.Context, email string) (model.StatusMessage, error) {
	var out model.StatusMessage
	err := c.do(ctx, call{
		op:      "forgot_password",
		method:  http.MethodPost,
		path:    "/auth/forgot-password",
		body:    &model.ForgotPasswordRequest{Email: email},
		failMsg: "Failed to send reset email",
	}, &out)
	return out, err
}

// ResetPassword sets a new password using a reset token.
func (c *Client) ResetPassword(ctx context.Context, token, password string) (model.StatusMessage, error) {
	var out model.StatusMessage
	err := c.do(ctx, call{
		op:      "reset_password",
		method:  http.MethodPost,
		path:    "/auth/reset-password/" + url.PathEscape(token),
		body:    &model.ResetPasswordRequest{Password: password},
		failMsg: "Failed to reset password",
	}, &out)
	return out, err
}
