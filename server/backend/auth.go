package backend

import (
	"context"
	"fmt"
	"net/http"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) Login(ctx context.Context, email string, password string) (*LoginResponse, error) {
	var rs LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, c.endpoint(nil, "user", "login"), "", loginRequest{
		Email:    email,
		Password: password,
	}, &rs); err != nil {
		return nil, fmt.Errorf("failed to login: %w", err)
	}
	if rs.Token == "" {
		return nil, fmt.Errorf("failed to login: backend returned no token")
	}
	return &rs, nil
}

func (c *Client) GetProfile(ctx context.Context, token string) (*User, error) {
	var rs result[User]
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint(nil, "user", "profile"), token, nil, &rs); err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &rs.Result, nil
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (c *Client) ChangePassword(ctx context.Context, token string, currentPassword string, newPassword string) error {
	if err := c.doJSON(ctx, http.MethodPut, c.endpoint(nil, "user", "change-password"), token, changePasswordRequest{
		CurrentPassword: currentPassword,
		NewPassword:     newPassword,
	}, nil); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	return nil
}

func (c *Client) UpdateProfileImage(ctx context.Context, token string, image File) error {
	if err := c.doMultipart(ctx, http.MethodPut, c.endpoint(nil, "user", "profile-image"), token, nil, "profileImage", &image, nil); err != nil {
		return fmt.Errorf("failed to update profile image: %w", err)
	}
	return nil
}
