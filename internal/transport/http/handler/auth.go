package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"homework-sync-api/internal/core/auth"
	"homework-sync-api/internal/feature/user"
	"homework-sync-api/internal/identity"
	httpez "homework-sync-api/internal/transport/http/ez"
	mdw "homework-sync-api/internal/transport/http/middleware"
)

type AuthHandler struct {
	verifier identity.TokenVerifier
	resolver identity.Resolver
	users    *user.Repo
	jwter    *auth.JWTer
	log      *zap.Logger
}

func NewAuthHandler(verifier identity.TokenVerifier, resolver identity.Resolver, users *user.Repo, jwter *auth.JWTer, log *zap.Logger) *AuthHandler {
	return &AuthHandler{verifier: verifier, resolver: resolver, users: users, jwter: jwter, log: log}
}

// MountPublic registers routes that need no prior authentication.
func (h *AuthHandler) MountPublic(g *gin.RouterGroup) {
	ez := httpez.New(g)

	type loginIn struct {
		IDToken string `json:"idToken" binding:"required"`
	}
	type loginOut struct {
		Token string     `json:"token"`
		User  *user.User `json:"user"`
	}

	// Exchange a provider ID token for a first-party session token.
	// Resolution upserts the user row, so the account exists before the
	// client makes its first assignment call.
	httpez.RegisterAction[loginIn, loginOut](ez, httpez.Action[loginIn, loginOut]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (loginOut, error) {
			ctx := c.Request.Context()
			id, err := h.verifier.Verify(ctx, in.IDToken)
			if err != nil {
				return loginOut{}, httpez.Unauthorized("invalid token")
			}
			u, err := h.resolver.Resolve(ctx, id)
			if err != nil {
				h.log.Error("resolve identity failed", zap.Error(err))
				return loginOut{}, httpez.Internal("login failed", err)
			}
			tok, err := h.jwter.Issue(u.ID)
			if err != nil {
				return loginOut{}, httpez.Internal("issue token failed", err)
			}
			return loginOut{Token: tok, User: u}, nil
		},
	})
}

// MountAuthed registers routes behind the Authenticate middleware.
func (h *AuthHandler) MountAuthed(g *gin.RouterGroup) {
	ez := httpez.New(g)

	httpez.RegisterAction[struct{}, *user.User](ez, httpez.Action[struct{}, *user.User]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*user.User, error) {
			u, err := h.users.FindByID(c.Request.Context(), c.GetString(mdw.ContextUserID))
			if errors.Is(err, user.ErrNotFound) {
				return nil, httpez.NotFound("user not found")
			}
			if err != nil {
				h.log.Error("load user failed",
					zap.String("user", c.GetString(mdw.ContextUserID)),
					zap.Error(err),
				)
				return nil, httpez.Internal("storage failure", err)
			}
			return u, nil
		},
	})
}
