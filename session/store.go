// Package session owns the three process-lifetime maps the verifier
// state machine operates on: registered users, pending challenges, and
// issued sessions (spec.md section 4.5). It never contains protocol
// math; it only stores and retrieves records.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/pion/logging"

	"zkauth/group"
)

// Default TTLs (spec.md section 9: "implementations must pick concrete
// defaults and document them"). These are not part of the wire
// contract.
const (
	DefaultChallengeTTL = 60 * time.Second
	DefaultSessionTTL   = 30 * time.Minute
)

// User is the public commitment pair a registered user is bound to.
type User struct {
	Y1, Y2 group.Element
}

// Challenge is a pending proof request: the user it was issued for,
// the prover's ephemeral commitment, and the challenge scalar the
// verifier sampled for it.
type Challenge struct {
	UserID    string
	R1, R2    group.Element
	C         group.Scalar
	CreatedAt time.Time
}

// Session is a successful-verification record: which user it belongs
// to and when it was issued.
type Session struct {
	UserID    string
	CreatedAt time.Time
}

// Config configures a Store, following the teacher's ...Config +
// NewX(config) constructor convention (backkem-matter's
// session.ManagerConfig, securechannel.ManagerConfig).
type Config struct {
	// ChallengeTTL overrides DefaultChallengeTTL when non-zero.
	ChallengeTTL time.Duration
	// SessionTTL overrides DefaultSessionTTL when non-zero.
	SessionTTL time.Duration
	// LoggerFactory is the factory for creating loggers. If nil, a
	// logger from pion's default logger factory is used.
	LoggerFactory logging.LoggerFactory
}

// Store bundles the users, challenges, and sessions maps as a single
// injectable unit, per spec.md section 9 ("The three maps ... are
// injected into the state machine as a single bundle so tests can
// instantiate a fresh bundle per case."). Each map is guarded
// independently; there is no cross-map transaction (spec.md section
// 4.5).
type Store struct {
	usersMu sync.RWMutex
	users   map[string]User

	challenges *ttlCache[string, Challenge]
	sessions   *ttlCache[string, Session]

	ids *idGenerator
	log logging.LeveledLogger
}

// NewStore constructs an empty Store.
func NewStore(cfg Config) (*Store, error) {
	challengeTTL := cfg.ChallengeTTL
	if challengeTTL <= 0 {
		challengeTTL = DefaultChallengeTTL
	}
	sessionTTL := cfg.SessionTTL
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}

	ids, err := newIDGenerator()
	if err != nil {
		return nil, err
	}

	var log logging.LeveledLogger = logging.NewDefaultLoggerFactory().NewLogger("session")
	if cfg.LoggerFactory != nil {
		log = cfg.LoggerFactory.NewLogger("session")
	}

	return &Store{
		users:      make(map[string]User),
		challenges: newTTLCache[string, Challenge](challengeTTL),
		sessions:   newTTLCache[string, Session](sessionTTL),
		ids:        ids,
		log:        log,
	}, nil
}

// UpsertUser inserts or overwrites a user record (spec.md section 4.6:
// "Re-registration of an existing user overwrites.").
func (s *Store) UpsertUser(userID string, u User) {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()
	s.users[userID] = u
	s.log.Infof("registered user %s", userID)
}

// GetUser looks up a user record by id.
func (s *Store) GetUser(userID string) (User, bool) {
	s.usersMu.RLock()
	defer s.usersMu.RUnlock()
	u, ok := s.users[userID]
	return u, ok
}

// PutChallenge mints a fresh auth_id and stores the challenge record
// under it, returning the new id.
func (s *Store) PutChallenge(ch Challenge) (string, error) {
	authID, err := s.ids.AuthID()
	if err != nil {
		return "", fmt.Errorf("session: put challenge: %w", err)
	}
	ch.CreatedAt = time.Now()
	s.challenges.Put(authID, ch)
	return authID, nil
}

// TakeChallenge atomically removes and returns the challenge for
// authID. A missing or expired entry is reported identically (ok ==
// false), per spec.md section 4.5: "take_challenge on an expired entry
// behaves as if missing."
func (s *Store) TakeChallenge(authID string) (Challenge, bool) {
	ch, ok := s.challenges.Take(authID)
	if !ok {
		s.log.Warnf("challenge %s not found or expired", authID)
	}
	return ch, ok
}

// PutSession mints a fresh session_id and stores the session record
// under it, returning the new id.
func (s *Store) PutSession(sess Session) (string, error) {
	sessionID, err := s.ids.SessionID()
	if err != nil {
		return "", fmt.Errorf("session: put session: %w", err)
	}
	sess.CreatedAt = time.Now()
	s.sessions.Put(sessionID, sess)
	s.log.Infof("issued session %s for user %s", sessionID, sess.UserID)
	return sessionID, nil
}

// GetSession looks up a session record by id. A missing or expired
// entry is reported identically (ok == false).
func (s *Store) GetSession(sessionID string) (Session, bool) {
	return s.sessions.Get(sessionID)
}

// Sweep evicts expired challenges and sessions. Correctness never
// depends on calling this (Get/Take already treat expired entries as
// absent); it only bounds memory growth. Callers typically run it on a
// periodic ticker.
func (s *Store) Sweep() {
	s.challenges.Sweep()
	s.sessions.Sweep()
}
