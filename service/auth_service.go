package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pathmint/waypoint/core"
	"github.com/pathmint/waypoint/internal/eth"
	"github.com/pathmint/waypoint/ports"
)

// AuthService handles wallet-signature authentication
type AuthService struct {
	store     ports.SessionStore
	tokenizer ports.Tokenizer
	logger    zerolog.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(store ports.SessionStore, tokenizer ports.Tokenizer, logger zerolog.Logger) *AuthService {
	return &AuthService{
		store:     store,
		tokenizer: tokenizer,
		logger:    logger,
	}
}

// IssueNonce returns a fresh unguessable nonce for the client to embed
// in its challenge message. Verification is purely signature-based
// against the message the client presents, so nothing is persisted.
func (s *AuthService) IssueNonce() (string, error) {
	nonceBytes := make([]byte, 32)
	if _, err := rand.Read(nonceBytes); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	return hex.EncodeToString(nonceBytes), nil
}

// Login verifies that signature over message recovers to address and,
// on success, opens a session and mints a bearer token for it.
func (s *AuthService) Login(ctx context.Context, address, signature, message string) (string, string, error) {
	decodedSig, err := hexutil.Decode(signature)
	if err != nil {
		return "", "", fmt.Errorf("%v: %w", err, core.ErrUnauthorized)
	}

	recovered, err := eth.RecoverAddress(message, decodedSig)
	if err != nil {
		return "", "", fmt.Errorf("%v: %w", err, core.ErrUnauthorized)
	}

	if !strings.EqualFold(recovered.Hex(), address) {
		s.logger.Debug().
			Str("claimed", address).
			Str("recovered", recovered.Hex()).
			Msg("signer mismatch")
		return "", "", core.ErrUnauthorized
	}

	session := &core.Session{
		ID:        uuid.New().String(),
		Address:   strings.ToLower(address),
		CreatedAt: time.Now(),
	}

	if err := s.store.Put(ctx, session); err != nil {
		return "", "", fmt.Errorf("failed to create session: %w", err)
	}

	token, err := s.tokenizer.SessionToToken(session)
	if err != nil {
		return "", "", fmt.Errorf("failed to create token: %w", err)
	}

	s.logger.Info().
		Str("address", session.Address).
		Str("session_id", session.ID).
		Msg("wallet logged in")

	return token, session.ID, nil
}

// ValidateSession looks up a live session by id
func (s *AuthService) ValidateSession(ctx context.Context, sessionID string) (*core.Session, error) {
	return s.store.Get(ctx, sessionID)
}

// Logout deletes the session. Idempotent: a repeated call reports that
// no session was present without failing.
func (s *AuthService) Logout(ctx context.Context, sessionID string) (bool, error) {
	deleted, err := s.store.Delete(ctx, sessionID)
	if err != nil {
		return false, fmt.Errorf("failed to delete session: %w", err)
	}

	if deleted {
		s.logger.Info().Str("session_id", sessionID).Msg("session closed")
	}

	return deleted, nil
}
