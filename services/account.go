package services

import (
	"context"
	"net/http"
	"strings"

	apperrors "github.com/jrsteele09/go-shop-client/internal/errors"
	"github.com/jrsteele09/go-shop-client/token"
	"github.com/pkg/errors"
)

// AccountService registers new accounts.
type AccountService struct {
	c *Client
}

// Signup creates an account. Role must be Buyer or Seller.
func (s *AccountService) Signup(ctx context.Context, req SignupRequest) error {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return errors.Wrap(apperrors.ErrInvalidRequest, "[Account.Signup] email and password are required")
	}
	if req.Role != token.RoleBuyer && req.Role != token.RoleSeller {
		return errors.Wrapf(apperrors.ErrInvalidRequest, "[Account.Signup] unknown role %q", req.Role)
	}
	return s.c.do(ctx, call{
		op:     "Account.Signup",
		method: http.MethodPost,
		url:    join(s.c.urls.GetAccountServiceURL(), "signup"),
		body:   req,
	})
}
