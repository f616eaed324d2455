package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"commflock/internal/model"
	"commflock/internal/pkg"
	"commflock/internal/repository/mysql"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	bcryptCost     = 12
	minPasswordLen = 6
	resetTokenTTL  = time.Hour
)

// TokenStore is the redis-backed single-session store behind login state.
type TokenStore interface {
	AddUserToken(usrID uint64, token string) error
	GetUserToken(usrID uint64) (string, error)
	DeleteUserToken(usrID uint64) error
}

// Mailer delivers one email; pkg.SendEmail in production.
type Mailer func(cfg pkg.SMTPConfig, to, subject, htmlBody string) error

type UserService struct {
	repo    *mysql.UserRepository
	resets  *mysql.PasswordResetRepository
	tokens  TokenStore
	smtp    pkg.SMTPConfig
	baseURL string
	mail    Mailer
}

type SignUpInput struct {
	Username         string
	Password         string
	Email            string
	LightningAddress string
	NostrPubkey      string
}

func NewUserService(db *gorm.DB, tokens TokenStore, smtp pkg.SMTPConfig, baseURL string) *UserService {
	return &UserService{
		repo:    &mysql.UserRepository{DB: db},
		resets:  &mysql.PasswordResetRepository{DB: db},
		tokens:  tokens,
		smtp:    smtp,
		baseURL: baseURL,
		mail:    pkg.SendEmail,
	}
}

func validLightningAddress(s string) bool {
	return strings.Contains(s, "@") || strings.HasPrefix(s, "lnurl")
}

func validNostrPubkey(s string) bool {
	return strings.HasPrefix(s, "npub1")
}

func (s *UserService) SignUp(in SignUpInput) (*model.User, error) {
	if in.Username == "" || len(in.Username) > 32 {
		return nil, fmt.Errorf("%w: username required", pkg.ErrValidation)
	}
	if len(in.Password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", pkg.ErrValidation, minPasswordLen)
	}
	if in.LightningAddress != "" && !validLightningAddress(in.LightningAddress) {
		return nil, fmt.Errorf("%w: lightning address should look like name@domain.com or lnurl...", pkg.ErrValidation)
	}
	if in.NostrPubkey != "" && !validNostrPubkey(in.NostrPubkey) {
		return nil, fmt.Errorf("%w: nostr public key should start with npub1", pkg.ErrValidation)
	}

	if _, err := s.repo.FindByUsername(in.Username); err == nil {
		return nil, pkg.ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if in.Email != "" {
		if _, err := s.repo.FindByEmail(in.Email); err == nil {
			return nil, pkg.ErrEmailTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:         in.Username,
		Password:         string(hash),
		LightningAddress: in.LightningAddress,
		NostrPubkey:      in.NostrPubkey,
	}
	if in.Email != "" {
		user.Email = &in.Email
	}
	if err := s.repo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login accepts username or email. Legacy accounts without a stored hash may
// still sign in; they predate the password feature.
func (s *UserService) Login(login, password string) (*pkg.Pair, error) {
	user, err := s.repo.FindByLogin(login)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if user.Password == "" {
		pkg.Logger().Warn().Str("username", user.Username).Msg("legacy sign-in without password")
	} else if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, pkg.ErrInvalidCredentials
	}

	token, err := pkg.GeneratePair(user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	if err = s.tokens.AddUserToken(user.ID, token.AccessToken); err != nil {
		return nil, err
	}
	return token, nil
}

func (s *UserService) Logout(usrID uint64) error {
	return s.tokens.DeleteUserToken(usrID)
}

func (s *UserService) Refresh(refreshToken string) (*pkg.Pair, error) {
	return pkg.Refresh(refreshToken)
}

// ChangePassword verifies the old password, stores the new hash and revokes the
// active session.
func (s *UserService) ChangePassword(usrID uint64, oldPassword, newPassword string) error {
	if len(newPassword) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", pkg.ErrValidation, minPasswordLen)
	}
	user, err := s.repo.FindByID(usrID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)) != nil {
		return pkg.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return err
	}
	if err = s.repo.UpdatePassword(user, string(hash)); err != nil {
		return err
	}
	return s.Logout(usrID)
}

// ForgotPassword issues a one-hour reset link. The response shape never reveals
// whether the account exists; enumeration attempts learn nothing.
func (s *UserService) ForgotPassword(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email required", pkg.ErrValidation)
	}
	user, err := s.repo.FindByEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		pkg.Logger().Info().Str("email", email).Msg("password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return err
	}

	token, err := pkg.RandToken(32)
	if err != nil {
		return err
	}
	if err = s.resets.Create(&model.PasswordResetToken{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, token)
	if s.smtp.Host == "" {
		pkg.Logger().Warn().Str("url", resetURL).Msg("email not configured, reset link logged only")
		return nil
	}
	return s.mail(s.smtp, email, "Reset your CommFlock password",
		pkg.ResetEmailHTML(user.Username, resetURL))
}

// ResetPassword consumes a reset token; the token check, password update and
// used flag flip happen in one transaction.
func (s *UserService) ResetPassword(token, newPassword string) error {
	if token == "" {
		return fmt.Errorf("%w: token required", pkg.ErrValidation)
	}
	if len(newPassword) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", pkg.ErrValidation, minPasswordLen)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return err
	}
	return s.resets.Consume(token, string(hash), time.Now())
}

// UpdateProfile edits the optional payment/identity fields.
func (s *UserService) UpdateProfile(usrID uint64, lightningAddress, nostrPubkey *string) error {
	updates := map[string]any{}
	if lightningAddress != nil {
		if *lightningAddress != "" && !validLightningAddress(*lightningAddress) {
			return fmt.Errorf("%w: lightning address should look like name@domain.com or lnurl...", pkg.ErrValidation)
		}
		updates["lightning_address"] = *lightningAddress
	}
	if nostrPubkey != nil {
		if *nostrPubkey != "" && !validNostrPubkey(*nostrPubkey) {
			return fmt.Errorf("%w: nostr public key should start with npub1", pkg.ErrValidation)
		}
		updates["nostr_pubkey"] = *nostrPubkey
	}
	if len(updates) == 0 {
		return nil
	}
	return s.repo.UpdateProfile(usrID, updates)
}
