package rpc

import (
	"math/big"
	"testing"

	"zkauth/auth"
	"zkauth/group"
	"zkauth/internal/zkerr"
	"zkauth/params"
	"zkauth/proof"
	"zkauth/session"
)

func toyDLParams() *params.Params {
	return &params.Params{
		Flavor: group.DiscreteLogarithm,
		P:      big.NewInt(23),
		Q:      big.NewInt(11),
		G:      big.NewInt(4),
		H:      big.NewInt(9),
	}
}

func newTestWireService(t *testing.T) *Service {
	t.Helper()
	store, err := session.NewStore(session.Config{})
	if err != nil {
		t.Fatal(err)
	}
	authSvc, err := auth.NewService(auth.Config{Params: toyDLParams(), Store: store})
	if err != nil {
		t.Fatal(err)
	}
	return NewService(Config{Auth: authSvc})
}

func TestGetConfigurationDL(t *testing.T) {
	svc := newTestWireService(t)
	resp, status := svc.GetConfiguration()
	if !status.OK() {
		t.Fatalf("GetConfiguration failed: %s", status.Message)
	}
	if resp.Flavor != group.DiscreteLogarithm {
		t.Fatalf("flavor = %v, want DiscreteLogarithm", resp.Flavor)
	}
	if resp.DL == nil || resp.DL.P != "23" || resp.DL.Q != "11" || resp.DL.G != "4" || resp.DL.H != "9" {
		t.Fatalf("unexpected DL parameters: %+v", resp.DL)
	}
}

// TestMalformedRegisterIsInvalidArgument exercises spec.md section 8
// scenario S6: a malformed y1 is rejected with InvalidArgument and the
// user table is left unchanged.
func TestMalformedRegisterIsInvalidArgument(t *testing.T) {
	svc := newTestWireService(t)

	status := svc.Register(RegisterRequest{User: "alice", Y1: "xyz", Y2: "9"})
	if status.Code != zkerr.CodeInvalidArgument {
		t.Fatalf("status = %v, want InvalidArgument", status.Code)
	}

	// the user table must be unchanged: a subsequent challenge for
	// "alice" must fail as NotFound, not succeed against a half-written
	// record.
	_, status = svc.CreateAuthenticationChallenge(CreateAuthenticationChallengeRequest{
		User: "alice", R1: "4", R2: "9",
	})
	if status.Code != zkerr.CodeNotFound {
		t.Fatalf("status = %v, want NotFound (user must not have been registered)", status.Code)
	}
}

func TestFullWireRoundTrip(t *testing.T) {
	svc := newTestWireService(t)

	gMath := group.NewDL(big.NewInt(23), big.NewInt(11), big.NewInt(4))
	hMath := group.NewDL(big.NewInt(23), big.NewInt(11), big.NewInt(9))
	prover := proof.NewProver(gMath, hMath)

	x := prover.DeriveSecret([]byte("abc"))
	y1, y2 := prover.PublicCommitments(x)

	regStatus := svc.Register(RegisterRequest{User: "alice", Y1: y1.Encode(), Y2: y2.Encode()})
	if !regStatus.OK() {
		t.Fatalf("register failed: %s", regStatus.Message)
	}

	k, r1, r2, err := prover.Ephemeral()
	if err != nil {
		t.Fatal(err)
	}
	challengeResp, status := svc.CreateAuthenticationChallenge(CreateAuthenticationChallengeRequest{
		User: "alice", R1: r1.Encode(), R2: r2.Encode(),
	})
	if !status.OK() {
		t.Fatalf("create challenge failed: %s", status.Message)
	}

	c, err := gMath.ParseScalar(challengeResp.C)
	if err != nil {
		t.Fatal(err)
	}
	s := prover.Respond(k, c, x)

	verifyResp, status := svc.VerifyAuthentication(VerifyAuthenticationRequest{
		AuthID: challengeResp.AuthID, S: s.Encode(),
	})
	if !status.OK() {
		t.Fatalf("verify failed: %s", status.Message)
	}
	if verifyResp.SessionID == "" {
		t.Fatal("session_id must be non-empty")
	}

	// the challenge is single-use: verifying again must miss.
	_, status = svc.VerifyAuthentication(VerifyAuthenticationRequest{
		AuthID: challengeResp.AuthID, S: s.Encode(),
	})
	if status.Code != zkerr.CodeNotFound {
		t.Fatalf("status = %v, want NotFound on replay", status.Code)
	}
}

func TestVerifyAuthenticationRejectsMalformedResponse(t *testing.T) {
	svc := newTestWireService(t)
	_, status := svc.VerifyAuthentication(VerifyAuthenticationRequest{AuthID: "whatever", S: "not a number"})
	if status.Code != zkerr.CodeInvalidArgument {
		t.Fatalf("status = %v, want InvalidArgument", status.Code)
	}
}
