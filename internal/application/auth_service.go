package application

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sanosuguru/go-venue-booking/internal/domain/user"
	"github.com/sanosuguru/go-venue-booking/internal/pkg/apperr"
	"github.com/sanosuguru/go-venue-booking/internal/pkg/logger"
)

// TokenClaims はアクセストークンのクレーム
type TokenClaims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// AuthResult は登録・ログインの結果
type AuthResult struct {
	User  *user.User
	Token string
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

type AuthService struct {
	userRepo   user.Repository
	secret     []byte
	tokenTTL   time.Duration
	bcryptCost int
	now        func() time.Time
}

func NewAuthService(userRepo user.Repository, secret string, tokenTTL time.Duration, bcryptCost int) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		secret:     []byte(secret),
		tokenTTL:   tokenTTL,
		bcryptCost: bcryptCost,
		now:        time.Now,
	}
}

// Register は利用者を登録してトークンを発行する
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" ||
		strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return nil, user.ErrRegistrationRequired
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, user.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("パスワードのハッシュ化に失敗しました: %w", err)
	}

	u := user.NewUser(input.FirstName, input.LastName, input.Email, string(hash))
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}

	token, err := s.IssueToken(u)
	if err != nil {
		return nil, err
	}

	logger.Info("利用者を登録しました", zap.Int64("user_id", u.ID))
	return &AuthResult{User: u, Token: token}, nil
}

// Login はメールアドレスとパスワードを確認してトークンを発行する
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, user.ErrCredentialsRequired
	}

	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, user.ErrInvalidPassword
	}

	token, err := s.IssueToken(u)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: u, Token: token}, nil
}

// IssueToken は HS256 で署名したアクセストークンを発行する
func (s *AuthService) IssueToken(u *user.User) (string, error) {
	now := s.now()
	claims := TokenClaims{
		UserID: u.ID,
		Email:  u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("トークンの署名に失敗しました: %w", err)
	}
	return token, nil
}

// ParseToken はトークンを検証してクレームを返す
func (s *AuthService) ParseToken(tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.Wrap(apperr.KindUnauthorized, "認証トークンの有効期限が切れています", err)
		}
		return nil, apperr.Wrap(apperr.KindUnauthorized, user.ErrInvalidToken.Message, err)
	}
	if !token.Valid || claims.UserID <= 0 {
		return nil, user.ErrInvalidToken
	}
	return claims, nil
}
