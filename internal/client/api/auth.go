package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/MarcosHRFerreira/receitasecreta-api-sub000/internal/client/models"
)

func (c *RESTClient) Login(ctx context.Context, creds models.Credentials) (string, *models.User, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", creds, &resp); err != nil {
		return "", nil, fmt.Errorf("login error: %w", err)
	}
	return resp.Token, resp.User, nil
}

func (c *RESTClient) Register(ctx context.Context, reg models.Registration) (string, *models.User, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", reg, &resp); err != nil {
		return "", nil, fmt.Errorf("register error: %w", err)
	}
	return resp.Token, resp.User, nil
}
