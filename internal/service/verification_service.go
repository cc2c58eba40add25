package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"bricks-api/internal/domain"
	"bricks-api/internal/repository"
)

// VerificationService administra codigos de un solo uso para confirmar
// email y restablecer password.
type VerificationService struct {
	logger  *zap.Logger
	records repository.VerificationRepository
	clock   Clock
}

// LinkToken agrupa email y codigo en un solo valor apto para URL. Es un
// encoding reversible, no criptografico.
type LinkToken struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func NewVerificationService(logger *zap.Logger, records repository.VerificationRepository, clock Clock) *VerificationService {
	if clock == nil {
		clock = SystemClock()
	}
	return &VerificationService{
		logger:  logger,
		records: records,
		clock:   clock,
	}
}

// CreateCode genera un codigo aleatorio opaco y persiste el registro con
// su expiracion. Devuelve el codigo en claro para armar el link.
func (s *VerificationService) CreateCode(ctx context.Context, userID string, ttl time.Duration) (string, error) {
	code := uuid.NewString()
	now := s.clock.Now()
	record := domain.Verification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Code:      code,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
	if err := s.records.Create(ctx, record); err != nil {
		return "", err
	}
	return code, nil
}

// EncodeLinkToken serializa email+codigo en base64 URL-safe.
func (s *VerificationService) EncodeLinkToken(email, code string) (string, error) {
	payload, err := json.Marshal(LinkToken{Email: email, Code: code})
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(payload), nil
}

// DecodeLinkToken revierte EncodeLinkToken.
func (s *VerificationService) DecodeLinkToken(token string) (LinkToken, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return LinkToken{}, ErrInvalidCode
	}
	var payload LinkToken
	if err := json.Unmarshal(raw, &payload); err != nil {
		return LinkToken{}, ErrInvalidCode
	}
	if payload.Code == "" {
		return LinkToken{}, ErrInvalidCode
	}
	return payload, nil
}

// Peek busca el codigo y valida expiracion sin gastarlo. Un registro
// puede leerse varias veces antes de expirar; solo Remove lo gasta.
func (s *VerificationService) Peek(ctx context.Context, code string) (domain.Verification, error) {
	if code == "" {
		return domain.Verification{}, ErrInvalidCode
	}

	record, err := s.records.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Verification{}, ErrInvalidCode
		}
		return domain.Verification{}, err
	}

	if record.Expired(s.clock.Now()) {
		return domain.Verification{}, ErrCodeExpired
	}
	return record, nil
}

// Remove borra el registro por id. El borrado reporta cero filas cuando
// otro consumidor gano la carrera; ese caso es ErrInvalidCode.
func (s *VerificationService) Remove(ctx context.Context, id string) error {
	if err := s.records.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrInvalidCode
		}
		return err
	}
	return nil
}

// Consume busca el codigo, valida expiracion y borra el registro en la
// misma operacion logica, garantia de a-lo-sumo-un-uso por codigo.
func (s *VerificationService) Consume(ctx context.Context, code string) (domain.Verification, error) {
	record, err := s.Peek(ctx, code)
	if err != nil {
		return domain.Verification{}, err
	}
	if err := s.Remove(ctx, record.ID); err != nil {
		return domain.Verification{}, err
	}
	if s.logger != nil {
		s.logger.Info("verification code consumed", zap.String("user_id", record.UserID))
	}
	return record, nil
}
