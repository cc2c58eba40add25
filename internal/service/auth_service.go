package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"bricks-api/internal/domain"
	"bricks-api/internal/email"
	"bricks-api/internal/repository"
)

const (
	verifyRoute        = "/signup/verify"
	resetPasswordRoute = "/auth/reset-password"
)

// AuthService orquesta signup, login, verificacion de email, reset y
// cambio de password y el alta por OAuth.
type AuthService struct {
	logger        *zap.Logger
	users         repository.UserRepository
	verifications *VerificationService
	tokens        *TokenService
	emailSender   email.Sender
	mailLimiter   MailRateLimiter
	clock         Clock

	clientDomain    string
	verificationTTL time.Duration
}

func NewAuthService(
	logger *zap.Logger,
	users repository.UserRepository,
	verifications *VerificationService,
	tokens *TokenService,
	emailSender email.Sender,
	mailLimiter MailRateLimiter,
	clock Clock,
	clientDomain string,
	verificationTTL time.Duration,
) *AuthService {
	if mailLimiter == nil {
		mailLimiter = NewMailRateLimiter(10*time.Minute, 3)
	}
	if clock == nil {
		clock = SystemClock()
	}
	if verificationTTL <= 0 {
		verificationTTL = 24 * time.Hour
	}
	return &AuthService{
		logger:          logger,
		users:           users,
		verifications:   verifications,
		tokens:          tokens,
		emailSender:     emailSender,
		mailLimiter:     mailLimiter,
		clock:           clock,
		clientDomain:    strings.TrimRight(clientDomain, "/"),
		verificationTTL: verificationTTL,
	}
}

// Signup crea un usuario sin verificar y dispara el mail de confirmacion.
// Si el mail falla el usuario ya quedo creado: se devuelve el usuario
// junto con ErrEmailDelivery y el reenvio es el camino de recuperacion.
func (s *AuthService) Signup(ctx context.Context, emailAddr, password string, role domain.UserRole) (domain.User, error) {
	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}
	if role == "" {
		role = domain.RoleClient
	}

	_, err := s.users.GetByEmail(ctx, emailAddr)
	if err == nil {
		return domain.User{}, ErrEmailTaken
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}

	now := s.clock.Now()
	user := domain.User{
		ID:           uuid.NewString(),
		Email:        emailAddr,
		PasswordHash: string(hash),
		Role:         role,
		Provider:     domain.ProviderLocal,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return domain.User{}, err
	}

	if err := s.sendVerificationMail(ctx, user); err != nil {
		return user, err
	}
	return user, nil
}

// Authenticate valida el par email/password. Email inexistente y password
// incorrecta devuelven el mismo error generico; una cuenta sin verificar
// se rechaza con ErrNotVerified.
func (s *AuthService) Authenticate(ctx context.Context, emailAddr, password string) (domain.User, error) {
	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if user.PasswordHash == "" {
		return domain.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	if !user.Verified {
		return domain.User{}, ErrNotVerified
	}
	return user, nil
}

// Login autentica y emite el par de tokens.
func (s *AuthService) Login(ctx context.Context, emailAddr, password string) (domain.User, TokenPair, error) {
	user, err := s.Authenticate(ctx, emailAddr, password)
	if err != nil {
		return domain.User{}, TokenPair{}, err
	}
	pair, err := s.tokens.IssuePair(PayloadFromUser(user))
	if err != nil {
		return domain.User{}, TokenPair{}, err
	}
	return user, pair, nil
}

// Refresh rota el refresh token por un par nuevo.
func (s *AuthService) Refresh(refreshToken string) (TokenPair, error) {
	return s.tokens.Rotate(refreshToken)
}

// VerifyEmail consume el token del link de confirmacion y marca el
// usuario como verificado. La transicion ocurre una sola vez: un usuario
// ya verificado recibe ErrAlreadyVerified y su codigo no se gasta.
func (s *AuthService) VerifyEmail(ctx context.Context, linkToken string) (domain.User, error) {
	payload, err := s.verifications.DecodeLinkToken(linkToken)
	if err != nil {
		return domain.User{}, err
	}

	record, err := s.verifications.Peek(ctx, payload.Code)
	if err != nil {
		return domain.User{}, err
	}

	user, err := s.users.GetByID(ctx, record.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	if user.Verified {
		return domain.User{}, ErrAlreadyVerified
	}

	// El borrado decide la carrera entre dos consumos del mismo codigo.
	if err := s.verifications.Remove(ctx, record.ID); err != nil {
		return domain.User{}, err
	}
	if err := s.users.SetVerified(ctx, user.ID, true); err != nil {
		return domain.User{}, err
	}

	s.logger.Info("user verified", zap.String("user_id", user.ID), zap.String("email", user.Email))
	user.Verified = true
	return user, nil
}

// ForgotPassword crea un codigo de reset y envia el link por mail.
func (s *AuthService) ForgotPassword(ctx context.Context, emailAddr string) error {
	emailAddr = normalizeEmail(emailAddr)
	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}

	if !s.mailLimiter.Allow(user.Email) {
		return ErrRateLimited
	}

	code, err := s.verifications.CreateCode(ctx, user.ID, s.verificationTTL)
	if err != nil {
		return err
	}
	token, err := s.verifications.EncodeLinkToken(user.Email, code)
	if err != nil {
		return err
	}

	link := s.clientDomain + resetPasswordRoute + "/" + token
	if err := s.emailSender.SendPasswordResetLink(ctx, user.Email, link); err != nil {
		s.logger.Warn("send reset mail failed", zap.Error(err), zap.String("email", user.Email))
		return ErrEmailDelivery
	}
	return nil
}

// ResetPassword valida el token de reset y persiste la password nueva.
// El mismatch se chequea antes de tocar storage. El registro se borra al
// final; si ese borrado falla la password ya cambio y solo se loguea.
func (s *AuthService) ResetPassword(ctx context.Context, linkToken, newPassword, confirmPassword string) error {
	if newPassword == "" || newPassword != confirmPassword {
		return ErrPasswordMismatch
	}

	payload, err := s.verifications.DecodeLinkToken(linkToken)
	if err != nil {
		return err
	}
	record, err := s.verifications.Peek(ctx, payload.Code)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, record.UserID, string(hash)); err != nil {
		return err
	}

	if err := s.verifications.Remove(ctx, record.ID); err != nil {
		s.logger.Warn("reset code cleanup failed", zap.Error(err), zap.String("user_id", record.UserID))
	}

	s.logger.Info("password reset", zap.String("user_id", record.UserID))
	return nil
}

// ChangePassword cambia la password de un usuario autenticado. Los tokens
// ya emitidos siguen vigentes hasta expirar.
func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword, confirmPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidOldPassword
	}
	if newPassword == "" || newPassword != confirmPassword {
		return ErrPasswordMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return err
	}

	s.logger.Info("password changed", zap.String("user_id", user.ID))
	return nil
}

// ResendVerification reenvia el mail de confirmacion para un usuario.
func (s *AuthService) ResendVerification(ctx context.Context, userID string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	if user.Verified {
		return ErrAlreadyVerified
	}
	return s.sendVerificationMail(ctx, user)
}

// OAuthInput es la identidad entregada por el provider en el callback.
type OAuthInput struct {
	Provider   domain.AuthProvider
	ProviderID string
	Email      string
}

// OAuthLogin busca la cuenta por providerId y la crea si no existe. Las
// identidades OAuth se confian como pre-verificadas: no pasan por el
// flujo de confirmacion por email.
func (s *AuthService) OAuthLogin(ctx context.Context, input OAuthInput) (domain.User, TokenPair, error) {
	providerID := strings.TrimSpace(input.ProviderID)
	if input.Provider == "" || providerID == "" {
		return domain.User{}, TokenPair{}, ErrOAuthInvalid
	}

	user, err := s.users.GetByProviderID(ctx, providerID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, TokenPair{}, err
		}
		now := s.clock.Now()
		user = domain.User{
			ID:         uuid.NewString(),
			Email:      normalizeEmail(input.Email),
			Role:       domain.RoleClient,
			Verified:   true,
			Provider:   input.Provider,
			ProviderID: providerID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return domain.User{}, TokenPair{}, err
		}
		s.logger.Info("oauth user created",
			zap.String("user_id", user.ID),
			zap.String("provider", string(user.Provider)),
		)
	}

	pair, err := s.tokens.IssuePair(PayloadFromUser(user))
	if err != nil {
		return domain.User{}, TokenPair{}, err
	}
	return user, pair, nil
}

func (s *AuthService) sendVerificationMail(ctx context.Context, user domain.User) error {
	if !s.mailLimiter.Allow(user.Email) {
		return ErrRateLimited
	}

	code, err := s.verifications.CreateCode(ctx, user.ID, s.verificationTTL)
	if err != nil {
		return err
	}
	token, err := s.verifications.EncodeLinkToken(user.Email, code)
	if err != nil {
		return err
	}

	link := s.clientDomain + verifyRoute + "/" + token
	if err := s.emailSender.SendVerificationLink(ctx, user.Email, link); err != nil {
		s.logger.Warn("send verification mail failed", zap.Error(err), zap.String("email", user.Email))
		return ErrEmailDelivery
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
