// Package auth implements the verifier state machine (spec.md section
// 4.6): registration, challenge issuance, and proof verification,
// orchestrating package proof (math) and package session (storage).
// Service is concurrency-safe and holds no per-request state between
// calls.
package auth

import (
	"fmt"

	"github.com/pion/logging"

	"zkauth/group"
	"zkauth/internal/zkerr"
	"zkauth/params"
	"zkauth/proof"
	"zkauth/session"
)

// Config configures a Service, following the teacher's
// PASEClientConfig shape: the collaborators it's built from plus an
// optional logger factory.
type Config struct {
	Params *params.Params
	Store  *session.Store

	// LoggerFactory is the factory for creating loggers. If nil, a
	// logger from pion's default logger factory is used.
	LoggerFactory logging.LoggerFactory
}

// Service drives register -> challenge -> verify -> session issuance
// across a single verifier instance's fixed flavor and parameter set.
type Service struct {
	params *params.Params
	store  *session.Store

	gMath, hMath group.Math
	prover       *proof.Prover
	verifier     *proof.Verifier

	log logging.LeveledLogger
}

// NewService constructs a Service bound to the given parameters and
// store. The flavor is fixed for the service's lifetime.
func NewService(cfg Config) (*Service, error) {
	if cfg.Params == nil {
		return nil, fmt.Errorf("auth: %w: params required", zkerr.ErrInternal)
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("auth: %w: store required", zkerr.ErrInternal)
	}

	gMath, hMath, err := cfg.Params.Generators()
	if err != nil {
		return nil, fmt.Errorf("auth: %w", err)
	}

	var log logging.LeveledLogger = logging.NewDefaultLoggerFactory().NewLogger("auth")
	if cfg.LoggerFactory != nil {
		log = cfg.LoggerFactory.NewLogger("auth")
	}

	return &Service{
		params:   cfg.Params,
		store:    cfg.Store,
		gMath:    gMath,
		hMath:    hMath,
		prover:   proof.NewProver(gMath, hMath),
		verifier: proof.NewVerifier(gMath, hMath),
		log:      log,
	}, nil
}

// Params returns the parameter set this service runs with, the payload
// GetConfiguration serves (spec.md section 4.6: "Pure; concurrent-safe;
// no state touched.").
func (s *Service) Params() *params.Params {
	return s.params
}

// Register binds a user id to a public commitment pair (spec.md
// section 4.6). y1/y2 must already be parsed into this service's
// flavor by the caller (package rpc does this at the wire boundary).
func (s *Service) Register(userID string, y1, y2 group.Element) error {
	if userID == "" {
		return fmt.Errorf("auth: %w: user must be non-empty", zkerr.ErrInvalidArgument)
	}
	s.store.UpsertUser(userID, session.User{Y1: y1, Y2: y2})
	return nil
}

// CreateAuthenticationChallenge samples a fresh challenge scalar c and
// mints a fresh auth_id for a prover's ephemeral commitment (r1, r2),
// after confirming userID is registered (spec.md section 4.6).
func (s *Service) CreateAuthenticationChallenge(userID string, r1, r2 group.Element) (authID string, c group.Scalar, err error) {
	if _, ok := s.store.GetUser(userID); !ok {
		return "", nil, fmt.Errorf("auth: %w: user %q", zkerr.ErrNotFound, userID)
	}

	c, err = s.gMath.RandomScalar()
	if err != nil {
		return "", nil, fmt.Errorf("auth: %w", err)
	}

	authID, err = s.store.PutChallenge(session.Challenge{UserID: userID, R1: r1, R2: r2, C: c})
	if err != nil {
		return "", nil, fmt.Errorf("auth: %w", err)
	}
	return authID, c, nil
}

// VerifyAuthentication consumes the challenge named by authID
// (single-use, regardless of outcome) and checks the submitted response
// s against it, issuing a session on success (spec.md section 4.6).
func (s *Service) VerifyAuthentication(authID string, resp group.Scalar) (sessionID string, err error) {
	ch, ok := s.store.TakeChallenge(authID)
	if !ok {
		return "", fmt.Errorf("auth: %w: auth_id %q", zkerr.ErrNotFound, authID)
	}

	user, ok := s.store.GetUser(ch.UserID)
	if !ok {
		return "", fmt.Errorf("auth: %w: user %q vanished since challenge creation", zkerr.ErrFailedPrecondition, ch.UserID)
	}

	if !s.verifier.Verify(user.Y1, user.Y2, ch.R1, ch.R2, ch.C, resp) {
		s.log.Warnf("rejected proof for auth_id %s (user %s)", authID, ch.UserID)
		return "", fmt.Errorf("auth: %w: proof did not verify", zkerr.ErrUnauthenticated)
	}

	sessionID, err = s.store.PutSession(session.Session{UserID: ch.UserID})
	if err != nil {
		return "", fmt.Errorf("auth: %w", err)
	}
	return sessionID, nil
}
