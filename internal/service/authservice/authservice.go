package authservice

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/npiscopo/cinerent/internal/domain"
	"github.com/npiscopo/cinerent/pkg/auth"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Repo interface {
	FindByLogin(ctx context.Context, login string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

// Ledger materializes the wallet account for a fresh identity.
type Ledger interface {
	GetOrCreateBalance(ctx context.Context, ownerID string) (decimal.Decimal, error)
}

type Service struct {
	userRepo    Repo
	ledger      Ledger
	hashService auth.HashServiceInterface
	jwtService  auth.JWTServiceInterface
	tokenTTL    time.Duration
}

func New(repo Repo, ledger Ledger, hashService auth.HashServiceInterface, jwtService auth.JWTServiceInterface, tokenTTL time.Duration) *Service {
	return &Service{
		userRepo:    repo,
		ledger:      ledger,
		hashService: hashService,
		jwtService:  jwtService,
		tokenTTL:    tokenTTL,
	}
}

var ErrLoginTaken = errors.New("username already taken")

func (s *Service) Register(ctx context.Context, login, password string) (*domain.User, error) {
	existingUser, err := s.userRepo.FindByLogin(ctx, login)
	if err != nil {
		zap.L().Error("can't find user: ", zap.Error(err))
		return nil, err
	}
	if existingUser != nil {
		zap.L().Info("user already exists, login: ", zap.String("login", login))
		return nil, ErrLoginTaken
	}
	hashedPassword, err := s.hashService.HashPassword(password)
	if err != nil {
		zap.L().Error("can't hash password: ", zap.Error(err))
		return nil, err
	}
	user := &domain.User{
		ID:           uuid.NewString(),
		Login:        login,
		PasswordHash: hashedPassword,
	}
	newUser, err := s.userRepo.Create(ctx, user)
	if err != nil {
		zap.L().Error("can't create user: ", zap.Error(err))
		return nil, err
	}

	if _, err := s.ledger.GetOrCreateBalance(ctx, newUser.ID); err != nil {
		zap.L().Error("can't create wallet account: ", zap.Error(err))
		return nil, err
	}

	zap.L().Info("user successfully registered", zap.String("login", login))
	return user, nil
}

func (s *Service) Authenticate(ctx context.Context, login, password string) (*domain.User, error) {
	user, err := s.userRepo.FindByLogin(ctx, login)
	if err != nil || user == nil {
		zap.L().Error("invalid credentials", zap.Error(err))
		return nil, errors.New("invalid credentials")
	}
	if ok := s.hashService.ComparePassword(user.PasswordHash, password); !ok {
		zap.L().Error("invalid credentials", zap.String("login", login))
		return nil, errors.New("invalid credentials")
	}
	zap.L().Info("user successfully authenticated", zap.String("login", login))
	return user, nil
}

func (s *Service) GenerateToken(userID string) (string, error) {
	expirationTime := time.Now().Add(s.tokenTTL)

	token, err := s.jwtService.GenerateJWT(userID, expirationTime)
	if err != nil {
		zap.L().Error("can't generate token: ", zap.Error(err))
		return "", err
	}
	return token, nil
}
