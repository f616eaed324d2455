package service

import (
	"errors"
	"testing"
	"time"

	"commflock/internal/model"
	"commflock/internal/pkg"
)

func TestSignUpAndLogin(t *testing.T) {
	db := newTestDB(t)
	tokens := newFakeTokens()
	svc := NewUserService(db, tokens, pkg.SMTPConfig{}, "http://localhost:8080")

	user, err := svc.SignUp(SignUpInput{Username: "alice", Password: "hunter22"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("expected user to be persisted with an id")
	}
	if user.Password == "hunter22" {
		t.Fatal("password stored in plaintext")
	}

	if _, err = svc.SignUp(SignUpInput{Username: "alice", Password: "hunter22"}); !errors.Is(err, pkg.ErrUsernameTaken) {
		t.Fatalf("duplicate username: got %v, want ErrUsernameTaken", err)
	}

	pair, err := svc.Login("alice", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected both tokens")
	}
	stored, err := tokens.GetUserToken(user.ID)
	if err != nil || stored != pair.AccessToken {
		t.Fatalf("session not stored: %v", err)
	}

	if _, err = svc.Login("alice", "wrong-password"); !errors.Is(err, pkg.ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
	if _, err = svc.Login("nobody", "hunter22"); !errors.Is(err, pkg.ErrInvalidCredentials) {
		t.Fatalf("unknown login: got %v, want ErrInvalidCredentials", err)
	}
}

func TestSignUpValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, newFakeTokens(), pkg.SMTPConfig{}, "")

	cases := []struct {
		name string
		in   SignUpInput
	}{
		{"empty username", SignUpInput{Password: "hunter22"}},
		{"short password", SignUpInput{Username: "bob", Password: "abc"}},
		{"bad lightning address", SignUpInput{Username: "bob", Password: "hunter22", LightningAddress: "not-an-address"}},
		{"bad nostr pubkey", SignUpInput{Username: "bob", Password: "hunter22", NostrPubkey: "abcdef"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.SignUp(tc.in); !errors.Is(err, pkg.ErrValidation) {
				t.Fatalf("got %v, want ErrValidation", err)
			}
		})
	}

	if _, err := svc.SignUp(SignUpInput{
		Username:         "carol",
		Password:         "hunter22",
		LightningAddress: "carol@wallet.example.com",
		NostrPubkey:      "npub1abcdef",
	}); err != nil {
		t.Fatalf("valid optional fields rejected: %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	db := newTestDB(t)
	tokens := newFakeTokens()
	svc := NewUserService(db, tokens, pkg.SMTPConfig{}, "")

	user, err := svc.SignUp(SignUpInput{Username: "dave", Password: "oldpassword"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if _, err = svc.Login("dave", "oldpassword"); err != nil {
		t.Fatalf("login: %v", err)
	}

	if err = svc.ChangePassword(user.ID, "wrong", "newpassword"); !errors.Is(err, pkg.ErrInvalidCredentials) {
		t.Fatalf("wrong old password: got %v, want ErrInvalidCredentials", err)
	}
	if err = svc.ChangePassword(user.ID, "oldpassword", "newpassword"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	// session revoked, must sign in again
	if _, err = tokens.GetUserToken(user.ID); err == nil {
		t.Fatal("expected session to be revoked")
	}
	if _, err = svc.Login("dave", "newpassword"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, newFakeTokens(), pkg.SMTPConfig{}, "http://localhost:8080")

	if _, err := svc.SignUp(SignUpInput{Username: "erin", Password: "firstpass", Email: "erin@example.com"}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	// unknown email answers the same as a known one
	if err := svc.ForgotPassword("ghost@example.com"); err != nil {
		t.Fatalf("forgot for unknown email: %v", err)
	}
	var ghostTokens int64
	db.Model(&model.PasswordResetToken{}).Count(&ghostTokens)
	if ghostTokens != 0 {
		t.Fatalf("unknown email produced %d reset tokens", ghostTokens)
	}

	if err := svc.ForgotPassword("erin@example.com"); err != nil {
		t.Fatalf("forgot: %v", err)
	}
	var reset model.PasswordResetToken
	if err := db.First(&reset).Error; err != nil {
		t.Fatalf("reset token not stored: %v", err)
	}

	if err := svc.ResetPassword(reset.Token, "secondpass"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, err := svc.Login("erin", "secondpass"); err != nil {
		t.Fatalf("login after reset: %v", err)
	}

	// a token is single use
	if err := svc.ResetPassword(reset.Token, "thirdpass"); !errors.Is(err, pkg.ErrResetTokenInvalid) {
		t.Fatalf("reused token: got %v, want ErrResetTokenInvalid", err)
	}
}

func TestPasswordResetExpired(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, newFakeTokens(), pkg.SMTPConfig{}, "")

	user, err := svc.SignUp(SignUpInput{Username: "frank", Password: "firstpass"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	expired := &model.PasswordResetToken{
		UserID:    user.ID,
		Token:     "expired-token",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	if err = db.Create(expired).Error; err != nil {
		t.Fatalf("seed token: %v", err)
	}

	if err = svc.ResetPassword("expired-token", "secondpass"); !errors.Is(err, pkg.ErrResetTokenInvalid) {
		t.Fatalf("expired token: got %v, want ErrResetTokenInvalid", err)
	}
	if err = svc.ResetPassword("no-such-token", "secondpass"); !errors.Is(err, pkg.ErrResetTokenInvalid) {
		t.Fatalf("unknown token: got %v, want ErrResetTokenInvalid", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, newFakeTokens(), pkg.SMTPConfig{}, "")

	user, err := svc.SignUp(SignUpInput{Username: "grace", Password: "hunter22"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	if err = svc.UpdateProfile(user.ID, strPtr("bad address"), nil); !errors.Is(err, pkg.ErrValidation) {
		t.Fatalf("bad lightning address: got %v, want ErrValidation", err)
	}
	if err = svc.UpdateProfile(user.ID, strPtr("grace@wallet.example.com"), strPtr("npub1xyz")); err != nil {
		t.Fatalf("update profile: %v", err)
	}

	var got model.User
	if err = db.First(&got, user.ID).Error; err != nil {
		t.Fatal(err)
	}
	if got.LightningAddress != "grace@wallet.example.com" || got.NostrPubkey != "npub1xyz" {
		t.Fatalf("profile not updated: %+v", got)
	}
}
