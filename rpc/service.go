package rpc

import (
	"fmt"

	"github.com/pion/logging"

	"zkauth/auth"
	"zkauth/group"
	"zkauth/internal/zkerr"
)

// ConfigurationResponse mirrors the GetConfiguration oneof from spec.md
// section 6: exactly one of DL/EC is populated, matching the service's
// fixed flavor.
type ConfigurationResponse struct {
	Flavor group.Flavor
	DL     *DLParams
	EC     *ECParams
}

// DLParams is the decimal-string-encoded discrete-logarithm parameter
// set.
type DLParams struct{ P, Q, G, H string }

// ECParams is the decimal-string-encoded elliptic-curve parameter set.
type ECParams struct{ G, H string }

// RegisterRequest carries the Register request fields from spec.md
// section 6, all as decimal strings except User.
type RegisterRequest struct {
	User   string
	Y1, Y2 string
}

// CreateAuthenticationChallengeRequest carries the
// CreateAuthenticationChallenge request fields.
type CreateAuthenticationChallengeRequest struct {
	User   string
	R1, R2 string
}

// CreateAuthenticationChallengeResponse carries the response fields.
type CreateAuthenticationChallengeResponse struct {
	AuthID string
	C      string
}

// VerifyAuthenticationRequest carries the VerifyAuthentication request
// fields.
type VerifyAuthenticationRequest struct {
	AuthID string
	S      string
}

// VerifyAuthenticationResponse carries the response fields.
type VerifyAuthenticationResponse struct {
	SessionID string
}

// Service adapts a single auth.Service to the four wire operations. A
// transport (gRPC or otherwise — framing is out of scope here) calls
// into these methods.
type Service struct {
	svc *auth.Service
	log logging.LeveledLogger
}

// Config configures a Service.
type Config struct {
	Auth *auth.Service
	// LoggerFactory is the factory for creating loggers. If nil, a
	// logger from pion's default logger factory is used.
	LoggerFactory logging.LoggerFactory
}

// NewService constructs a wire Service over an existing auth.Service.
func NewService(cfg Config) *Service {
	var log logging.LeveledLogger = logging.NewDefaultLoggerFactory().NewLogger("rpc")
	if cfg.LoggerFactory != nil {
		log = cfg.LoggerFactory.NewLogger("rpc")
	}
	return &Service{svc: cfg.Auth, log: log}
}

// GetConfiguration returns the public parameter set (spec.md section
// 6). It is pure and touches no mutable state.
func (s *Service) GetConfiguration() (resp ConfigurationResponse, status Status) {
	defer s.recoverInto(&status)

	p := s.svc.Params()
	resp.Flavor = p.Flavor
	switch p.Flavor {
	case group.DiscreteLogarithm:
		resp.DL = &DLParams{P: p.P.String(), Q: p.Q.String(), G: p.G.String(), H: p.H.String()}
	case group.EllipticCurve:
		g, h := p.ECDecimal()
		resp.EC = &ECParams{G: g, H: h}
	}
	return resp, Status{Code: zkerr.CodeOK}
}

// Register decodes and registers a new user (spec.md section 6).
func (s *Service) Register(req RegisterRequest) (status Status) {
	defer s.recoverInto(&status)

	gMath, hMath, err := s.svc.Params().Generators()
	if err != nil {
		return statusOf(fmt.Errorf("rpc: %w", zkerr.ErrInternal))
	}
	y1, err := gMath.ParseElement(req.Y1)
	if err != nil {
		return statusOf(err)
	}
	y2, err := hMath.ParseElement(req.Y2)
	if err != nil {
		return statusOf(err)
	}

	if err := s.svc.Register(req.User, y1, y2); err != nil {
		return statusOf(err)
	}
	s.log.Infof("register: user=%s", req.User)
	return Status{Code: zkerr.CodeOK}
}

// CreateAuthenticationChallenge decodes a prover's ephemeral commitment,
// issues a challenge, and encodes the response (spec.md section 6).
func (s *Service) CreateAuthenticationChallenge(req CreateAuthenticationChallengeRequest) (resp CreateAuthenticationChallengeResponse, status Status) {
	defer s.recoverInto(&status)

	gMath, hMath, err := s.svc.Params().Generators()
	if err != nil {
		return resp, statusOf(fmt.Errorf("rpc: %w", zkerr.ErrInternal))
	}
	r1, err := gMath.ParseElement(req.R1)
	if err != nil {
		return resp, statusOf(err)
	}
	r2, err := hMath.ParseElement(req.R2)
	if err != nil {
		return resp, statusOf(err)
	}

	authID, c, err := s.svc.CreateAuthenticationChallenge(req.User, r1, r2)
	if err != nil {
		return resp, statusOf(err)
	}
	s.log.Infof("challenge created: user=%s auth_id=%s", req.User, authID)
	return CreateAuthenticationChallengeResponse{AuthID: authID, C: c.Encode()}, Status{Code: zkerr.CodeOK}
}

// VerifyAuthentication decodes a prover's response, verifies it, and
// encodes the resulting session id (spec.md section 6).
func (s *Service) VerifyAuthentication(req VerifyAuthenticationRequest) (resp VerifyAuthenticationResponse, status Status) {
	defer s.recoverInto(&status)

	gMath, _, err := s.svc.Params().Generators()
	if err != nil {
		return resp, statusOf(fmt.Errorf("rpc: %w", zkerr.ErrInternal))
	}
	sVal, err := gMath.ParseScalar(req.S)
	if err != nil {
		return resp, statusOf(err)
	}

	sessionID, err := s.svc.VerifyAuthentication(req.AuthID, sVal)
	if err != nil {
		s.log.Warnf("verify failed: auth_id=%s err=%v", req.AuthID, err)
		return resp, statusOf(err)
	}
	s.log.Infof("verify succeeded: auth_id=%s session_id=%s", req.AuthID, sessionID)
	return VerifyAuthenticationResponse{SessionID: sessionID}, Status{Code: zkerr.CodeOK}
}

// recoverInto converts a panic in any of the four methods above into an
// Internal status, matching spec.md section 7: "A panic in a handler
// MUST NOT terminate the process."
func (s *Service) recoverInto(status *Status) {
	if r := recover(); r != nil {
		s.log.Errorf("recovered panic: %v", r)
		*status = statusOf(fmt.Errorf("rpc: %w: recovered panic: %v", zkerr.ErrInternal, r))
	}
}
