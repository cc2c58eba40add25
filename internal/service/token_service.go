package service

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"bricks-api/internal/domain"
)

// TokenService emite, decodifica y rota pares de tokens JWT. El access y
// el refresh se firman con secretos independientes.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
	clock         Clock
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// TokenPayload es la identidad que viaja dentro de ambos tokens.
type TokenPayload struct {
	UserID string
	Email  string
	Roles  []domain.UserRole
}

type TokenClaims struct {
	UserID string            `json:"uid"`
	Email  string            `json:"email"`
	Roles  []domain.UserRole `json:"roles"`
	jwt.RegisteredClaims
}

func PayloadFromUser(user domain.User) TokenPayload {
	return TokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		Roles:  []domain.UserRole{user.Role},
	}
}

func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration, clock Clock) *TokenService {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	// El refresh nunca vive menos que el access.
	if refreshTTL < accessTTL {
		refreshTTL = accessTTL
	}
	if clock == nil {
		clock = SystemClock()
	}
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		issuer:        "bricks-api",
		clock:         clock,
	}
}

func (s *TokenService) AccessTTL() time.Duration  { return s.accessTTL }
func (s *TokenService) RefreshTTL() time.Duration { return s.refreshTTL }

// IssuePair firma el payload dos veces, bajo los secretos y expiraciones
// de access y refresh. Un secreto ausente es error de configuracion.
func (s *TokenService) IssuePair(payload TokenPayload) (TokenPair, error) {
	if len(s.accessSecret) == 0 || len(s.refreshSecret) == 0 {
		return TokenPair{}, ErrTokenCreation
	}
	now := s.clock.Now()

	access, err := s.sign(payload, now, s.accessTTL, s.accessSecret)
	if err != nil {
		return TokenPair{}, ErrTokenCreation
	}
	refresh, err := s.sign(payload, now, s.refreshTTL, s.refreshSecret)
	if err != nil {
		return TokenPair{}, ErrTokenCreation
	}

	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

// Decode extrae el payload sin verificar firma ni expiracion. Se asume
// que quien presento el token ya paso por el middleware de verificacion.
func (s *TokenService) Decode(token string) (TokenClaims, error) {
	if strings.TrimSpace(token) == "" {
		return TokenClaims{}, ErrNoToken
	}
	var claims TokenClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return TokenClaims{}, ErrTokenInvalid
	}
	return claims, nil
}

// ParseAccess verifica firma y expiracion de un access token.
func (s *TokenService) ParseAccess(token string) (TokenClaims, error) {
	return s.parse(token, s.accessSecret)
}

// Rotate verifica el refresh token (firma y expiracion, no se confia en
// el llamador), conserva la identidad tal cual y emite un par nuevo con
// issued-at actual. Cambios de rol posteriores no se reflejan hasta un
// nuevo login.
func (s *TokenService) Rotate(refreshToken string) (TokenPair, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return TokenPair{}, ErrNoToken
	}
	claims, err := s.parse(refreshToken, s.refreshSecret)
	if err != nil {
		return TokenPair{}, err
	}
	return s.IssuePair(TokenPayload{
		UserID: claims.UserID,
		Email:  claims.Email,
		Roles:  claims.Roles,
	})
}

func (s *TokenService) sign(payload TokenPayload, now time.Time, ttl time.Duration, secret []byte) (string, error) {
	claims := TokenClaims{
		UserID: payload.UserID,
		Email:  payload.Email,
		Roles:  payload.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   payload.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (s *TokenService) parse(tokenString string, secret []byte) (TokenClaims, error) {
	if len(secret) == 0 {
		return TokenClaims{}, ErrTokenCreation
	}
	var claims TokenClaims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		return TokenClaims{}, ErrTokenInvalid
	}
	if strings.TrimSpace(claims.UserID) == "" || claims.Subject != claims.UserID {
		return TokenClaims{}, ErrTokenInvalid
	}
	if claims.Issuer != s.issuer {
		return TokenClaims{}, ErrTokenInvalid
	}
	return claims, nil
}
