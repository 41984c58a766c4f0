package services

import (
	"context"
	"net/http"
	"strings"

	apperrors "github.com/jrsteele09/go-shop-client/internal/errors"
	"github.com/pkg/errors"
)

// UserService covers login, profiles and seller lookups.
type UserService struct {
	c *Client
}

// Login exchanges credentials for a bearer token.
func (s *UserService) Login(ctx context.Context, creds Credentials) (string, error) {
	if strings.TrimSpace(creds.Email) == "" || creds.Password == "" {
		return "", errors.Wrap(apperrors.ErrInvalidRequest, "[Users.Login] email and password are required")
	}
	var resp tokenResponse
	err := s.c.do(ctx, call{
		op:     "Users.Login",
		method: http.MethodPost,
		url:    join(s.c.urls.GetUserServiceURL(), "login"),
		body:   creds,
		out:    &resp,
	})
	var rerr *RemoteError
	if errors.As(err, &rerr) && rerr.Status == http.StatusUnauthorized {
		rerr.Message = MsgLoginFailed
	}
	if err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", &RemoteError{Op: "Users.Login", Message: MsgLoginFailed, Kind: apperrors.ErrUnauthorized}
	}
	return resp.Token, nil
}

// Profile fetches the authenticated user's profile.
func (s *UserService) Profile(ctx context.Context) (*Profile, error) {
	var p Profile
	err := s.c.do(ctx, call{
		op:     "Users.Profile",
		method: http.MethodGet,
		url:    join(s.c.urls.GetUserServiceURL(), "profile"),
		out:    &p,
		authed: true,
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProfile creates the authenticated user's profile.
func (s *UserService) CreateProfile(ctx context.Context, p Profile) (*Profile, error) {
	return s.writeProfile(ctx, "Users.CreateProfile", http.MethodPost, p)
}

// UpdateProfile replaces the authenticated user's profile.
func (s *UserService) UpdateProfile(ctx context.Context, p Profile) (*Profile, error) {
	return s.writeProfile(ctx, "Users.UpdateProfile", http.MethodPut, p)
}

func (s *UserService) writeProfile(ctx context.Context, op, method string, p Profile) (*Profile, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, errors.Wrapf(apperrors.ErrInvalidRequest, "[%s] name is required", op)
	}
	p.Wishlist = nil
	var out Profile
	err := s.c.do(ctx, call{
		op:     op,
		method: method,
		url:    join(s.c.urls.GetUserServiceURL(), "profile"),
		body:   p,
		out:    &out,
		authed: true,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Seller returns the display name of the seller with the given user ID.
func (s *UserService) Seller(ctx context.Context, sellerID string) (string, error) {
	var resp sellerResponse
	err := s.c.do(ctx, call{
		op:     "Users.Seller",
		method: http.MethodGet,
		url:    join(s.c.urls.GetUserServiceURL(), "product", "seller", sellerID),
		out:    &resp,
		authed: true,
	})
	if err != nil {
		return "", err
	}
	return resp.Name, nil
}
