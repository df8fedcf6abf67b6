package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/blogsphere/blog-api/internal/core/domain"
)

// AccountFinder loads the live account state for a token subject.
type AccountFinder interface {
	FindByID(ctx context.Context, id string) (*domain.Account, error)
}

// Gate resolves an Authorization header into a validated principal.
type Gate struct {
	codec    *TokenCodec
	accounts AccountFinder
	log      zerolog.Logger
}

func NewGate(codec *TokenCodec, accounts AccountFinder, log zerolog.Logger) *Gate {
	return &Gate{codec: codec, accounts: accounts, log: log}
}

// Authenticate runs the authentication steps in order:
//
//	header shape -> token decode -> account load -> token version -> suspension
//
// Every decode failure is reported as domain.ErrInvalidCredential. The account
// is read once; a concurrent logout or suspension applies from the next request.
func (g *Gate) Authenticate(ctx context.Context, header string) Decision {
	raw, ok := bearerToken(header)
	if !ok {
		return Reject(domain.ErrMissingCredential)
	}

	claims, err := g.codec.Decode(raw)
	if err != nil {
		g.log.Debug().Err(err).Msg("token rejected")
		return Reject(domain.ErrInvalidCredential)
	}

	account, err := g.accounts.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			g.log.Debug().Str("subject", claims.Subject).Msg("token subject no longer exists")
			return Reject(domain.ErrPrincipalNotFound)
		}
		return Reject(fmt.Errorf("load principal: %w", err))
	}

	if claims.TokenVersion != account.TokenVersion {
		g.log.Debug().
			Str("account_id", account.ID).
			Int64("token_version", claims.TokenVersion).
			Int64("current_version", account.TokenVersion).
			Msg("stale token")
		return Reject(domain.ErrStaleCredential)
	}

	if account.IsSuspended {
		return Reject(domain.ErrAccountSuspended)
	}

	return Continue(account)
}

// bearerToken extracts the token from a "Bearer <token>" header.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}
