package session

import (
	"sync"
	"testing"
	"time"

	"zkauth/group"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(Config{})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// a minimal group.Element stand-in; the store never inspects element
// contents, only stores and returns them.
type fakeElement struct{ tag string }

func (f fakeElement) Encode() string              { return f.tag }
func (f fakeElement) Equal(o group.Element) bool   { other, ok := o.(fakeElement); return ok && other.tag == f.tag }

func TestUpsertAndGetUser(t *testing.T) {
	s := newTestStore(t)
	s.UpsertUser("alice", User{Y1: fakeElement{"y1"}, Y2: fakeElement{"y2"}})

	u, ok := s.GetUser("alice")
	if !ok {
		t.Fatal("user not found after upsert")
	}
	if u.Y1.Encode() != "y1" || u.Y2.Encode() != "y2" {
		t.Fatalf("unexpected user record: %+v", u)
	}

	// re-registration overwrites (spec.md section 4.6).
	s.UpsertUser("alice", User{Y1: fakeElement{"y1b"}, Y2: fakeElement{"y2b"}})
	u, _ = s.GetUser("alice")
	if u.Y1.Encode() != "y1b" {
		t.Fatalf("re-registration did not overwrite: got %s", u.Y1.Encode())
	}
}

func TestTakeChallengeIsSingleUse(t *testing.T) {
	s := newTestStore(t)
	authID, err := s.PutChallenge(Challenge{UserID: "bob"})
	if err != nil {
		t.Fatal(err)
	}

	ch, ok := s.TakeChallenge(authID)
	if !ok || ch.UserID != "bob" {
		t.Fatalf("first take failed: ok=%v ch=%+v", ok, ch)
	}

	if _, ok := s.TakeChallenge(authID); ok {
		t.Fatal("second take on the same auth_id should miss")
	}
}

func TestTakeChallengeMissingReturnsNotOK(t *testing.T) {
	s := newTestStore(t)
	if _, ok := s.TakeChallenge("does-not-exist"); ok {
		t.Fatal("take on an unknown auth_id should miss")
	}
}

func TestChallengeExpiresAfterTTL(t *testing.T) {
	s := newTestStore(t)
	s.challenges.ttl = 10 * time.Millisecond
	authID, err := s.PutChallenge(Challenge{UserID: "carol"})
	if err != nil {
		t.Fatal(err)
	}

	time.Sleep(30 * time.Millisecond)
	if _, ok := s.TakeChallenge(authID); ok {
		t.Fatal("expired challenge should be treated as missing")
	}
}

func TestPutSessionMintsDistinctIDs(t *testing.T) {
	s := newTestStore(t)
	id1, err := s.PutSession(Session{UserID: "dave"})
	if err != nil {
		t.Fatal(err)
	}
	id2, err := s.PutSession(Session{UserID: "dave"})
	if err != nil {
		t.Fatal(err)
	}
	if id1 == id2 {
		t.Fatal("two sessions minted the same id")
	}

	sess, ok := s.GetSession(id1)
	if !ok || sess.UserID != "dave" {
		t.Fatalf("session lookup failed: ok=%v sess=%+v", ok, sess)
	}
}

func TestConcurrentChallengeCreationYieldsDistinctIDs(t *testing.T) {
	s := newTestStore(t)
	const n = 64
	ids := make(chan string, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := s.PutChallenge(Challenge{UserID: "erin"})
			if err != nil {
				t.Error(err)
				return
			}
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool, n)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate auth_id %s across concurrent creations", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Fatalf("got %d distinct ids, want %d", len(seen), n)
	}
}
