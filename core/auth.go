package core

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 6

// SignUp registers an account, writes its default role row and opens a
// session. A role write failure leaves the account usable and is only
// logged.
func (s *Service) SignUp(ctx context.Context, email, password string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") || len(password) < minPasswordLen {
		return Session{}, ErrAuthInvalidArgs
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Session{}, err
	}

	account, err := s.store.CreateAccount(ctx, email, string(hash))
	if err != nil {
		return Session{}, err
	}

	if err := s.store.CreateRole(ctx, account.ID, RoleUser); err != nil {
		s.log.Error("assign default role failed", "account_id", account.ID, "error", err)
	}

	return s.openSession(account)
}

// SignIn verifies credentials. An unknown email and a wrong password are
// indistinguishable to the caller.
func (s *Service) SignIn(ctx context.Context, email, password string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return Session{}, ErrInvalidCredentials
	}

	account, err := s.store.GetAccountByEmail(ctx, email)
	if err != nil {
		return Session{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return Session{}, ErrInvalidCredentials
	}

	return s.openSession(account)
}

// SignOut always succeeds: tokens are stateless and simply expire.
func (s *Service) SignOut(_ context.Context, account Account) error {
	s.log.Debug("signed out", "account_id", account.ID)
	return nil
}

// CurrentAccount resolves a bearer token to its account.
func (s *Service) CurrentAccount(ctx context.Context, token string) (Account, error) {
	if token == "" {
		return Account{}, ErrNoSession
	}
	accountID, err := s.sessions.Verify(token)
	if err != nil {
		return Account{}, ErrNoSession
	}
	account, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		return Account{}, ErrNoSession
	}
	return account, nil
}

// LookupRoles returns the account's role rows.
func (s *Service) LookupRoles(ctx context.Context, account Account) ([]Role, error) {
	return s.store.ListRoles(ctx, account.ID)
}

// IsSuperadmin reports whether any of the account's role rows grants
// superadmin.
func (s *Service) IsSuperadmin(ctx context.Context, account Account) (bool, error) {
	roles, err := s.store.ListRoles(ctx, account.ID)
	if err != nil {
		return false, err
	}
	for _, r := range roles {
		if r == RoleSuperadmin {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) openSession(account Account) (Session, error) {
	token, expiresAt, err := s.sessions.Issue(account.ID)
	if err != nil {
		return Session{}, err
	}
	return Session{Account: account, Token: token, ExpiresAt: expiresAt}, nil
}
