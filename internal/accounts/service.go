package accounts

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/retailnet/backend/pkg/auth"
	"github.com/retailnet/backend/pkg/config"
	dbpkg "github.com/retailnet/backend/pkg/db"
	"github.com/retailnet/backend/pkg/db/models"
	"github.com/retailnet/backend/pkg/enums"
	pkgerrors "github.com/retailnet/backend/pkg/errors"
	"github.com/retailnet/backend/pkg/logger"
	"github.com/retailnet/backend/pkg/outbox"
	"github.com/retailnet/backend/pkg/security"
)

const confirmTokenBytes = 32

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service owns registration, confirmation and login.
type Service struct {
	repo   *Repository
	tx     txRunner
	events eventEmitter
	jwtCfg config.JWTConfig
	pwCfg  config.PasswordConfig
	logg   *logger.Logger
}

// NewService builds the accounts service.
func NewService(repo *Repository, tx txRunner, events eventEmitter, jwtCfg config.JWTConfig, pwCfg config.PasswordConfig, logg *logger.Logger) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("accounts repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if events == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	return &Service{
		repo:   repo,
		tx:     tx,
		events: events,
		jwtCfg: jwtCfg,
		pwCfg:  pwCfg,
		logg:   logg,
	}, nil
}

// RegisterInput is the signup payload.
type RegisterInput struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Company   string `json:"company"`
	Position  string `json:"position"`
	Type      string `json:"type"`
}

// Register creates an inactive account and queues the confirmation mail. The
// user row, token and outbox event commit together.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	userType := enums.UserTypeBuyer
	if input.Type != "" {
		parsed, err := enums.ParseUserType(input.Type)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid user type")
		}
		userType = parsed
	}

	hash, err := security.HashPassword(input.Password, s.pwCfg)
	if err != nil {
		return nil, err
	}
	key, err := security.GenerateToken(confirmTokenBytes)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Company:      input.Company,
		Position:     input.Position,
		Type:         userType,
		IsActive:     false,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateUser(ctx, user); err != nil {
			if dbpkg.IsUniqueViolation(err, "ux_users_email") {
				return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
			}
			return err
		}
		if err := repo.SaveConfirmToken(ctx, &models.ConfirmToken{UserID: user.ID, Key: key}); err != nil {
			return err
		}
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventUserRegistered,
			AggregateType: enums.AggregateUser,
			AggregateID:   user.ID,
			Actor:         &outbox.ActorRef{UserID: user.ID},
			Version:       1,
			Data: map[string]any{
				"user_id": user.ID,
				"email":   user.Email,
				"token":   key,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithUserID(ctx, user.ID), "user registered")
	}
	return user, nil
}

// Confirm redeems the emailed token and activates the account.
func (s *Service) Confirm(ctx context.Context, email, key string) error {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid email or confirmation token")
		}
		return err
	}
	if user.IsActive {
		return nil
	}

	token, err := s.repo.FindConfirmToken(ctx, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid email or confirmation token")
		}
		return err
	}
	if subtle.ConstantTimeCompare([]byte(token.Key), []byte(key)) != 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid email or confirmation token")
	}
	return s.repo.ActivateUser(ctx, user.ID)
}

// LoginResult carries the minted token and its subject.
type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login verifies the credentials and mints a JWT for the active account.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, err
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account is not confirmed")
	}

	token, err := auth.MintAccessToken(s.jwtCfg, time.Now().UTC(), auth.AccessTokenPayload{
		UserID:   user.ID,
		Email:    user.Email,
		UserType: user.Type,
	})
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: user}, nil
}
