package session

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"sync/atomic"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/sha3"
)

// idGenerator mints globally-unique opaque tokens for auth_id and
// session_id. It expands one process-startup seed into two
// domain-separated PRF keys via HKDF, then keyed-BLAKE2b-hashes a
// monotonic counter and a random nonce into each id. This repurposes
// the teacher's deriveHKDFKeys/prf pair (originally used to derive an
// auth key and a cipher key, and to compute a keyed MAC over protocol
// transcripts) from key-exchange material into identifier material.
type idGenerator struct {
	authKey    []byte
	sessionKey []byte
	counter    atomic.Uint64
}

// newIDGenerator seeds a fresh generator from crypto/rand. Each
// verifier process gets its own seed, so ids are unique within that
// process's lifetime (spec.md invariant 2) but not expected to be
// comparable across processes.
func newIDGenerator() (*idGenerator, error) {
	seed := make([]byte, 32)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("session: seed id generator: %w", err)
	}

	authKey, err := expand(seed, "zkauth:auth_id")
	if err != nil {
		return nil, err
	}
	sessionKey, err := expand(seed, "zkauth:session_id")
	if err != nil {
		return nil, err
	}
	return &idGenerator{authKey: authKey, sessionKey: sessionKey}, nil
}

func expand(seed []byte, info string) ([]byte, error) {
	r := hkdf.New(sha3.New512, seed, nil, []byte(info))
	out := make([]byte, 32)
	if _, err := r.Read(out); err != nil {
		return nil, fmt.Errorf("session: hkdf expand %s: %w", info, err)
	}
	return out, nil
}

// AuthID mints a fresh opaque auth_id.
func (g *idGenerator) AuthID() (string, error) {
	return g.mint(g.authKey)
}

// SessionID mints a fresh opaque session_id.
func (g *idGenerator) SessionID() (string, error) {
	return g.mint(g.sessionKey)
}

// mint keyed-hashes a monotonic counter plus a random nonce, following
// the teacher's prf(k, x) = blake2b(key=k).Write(x).Sum() construction.
// The counter guarantees uniqueness within the process even if the
// nonce source were ever to repeat; the nonce guarantees ids are
// unpredictable even to an observer of the counter.
func (g *idGenerator) mint(key []byte) (string, error) {
	h, err := blake2b.New256(key)
	if err != nil {
		return "", fmt.Errorf("session: mint id: %w", err)
	}

	var ctr [8]byte
	binary.BigEndian.PutUint64(ctr[:], g.counter.Add(1))
	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("session: mint id: %w", err)
	}

	h.Write(ctr[:])
	h.Write(nonce)
	return hex.EncodeToString(h.Sum(nil)), nil
}
