package service

import (
	"errors"
	"strconv"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	apperrors "rheuma-portal/pkg/errors"
)

type JwtCustomClaim struct {
	UserID uint64 `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type JWTService interface {
	GenerateToken(userID uint64, role string) (string, error)
	ValidateToken(tokenString string) (*JwtCustomClaim, error)
	GetAccessTokenTTL() time.Duration
}

type jwtService struct {
	SecretKey      string
	AccessTokenExp time.Duration
	logger         *zap.Logger
}

func NewJWTService(secretKey string, accessTokenExp time.Duration, logger *zap.Logger) JWTService {
	return &jwtService{
		SecretKey:      secretKey,
		AccessTokenExp: accessTokenExp,
		logger:         logger,
	}
}

func (service *jwtService) GenerateToken(userID uint64, role string) (string, error) {
	now := time.Now()
	claims := &JwtCustomClaim{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(service.AccessTokenExp)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return token.SignedString([]byte(service.SecretKey))
}

func (service *jwtService) GetAccessTokenTTL() time.Duration {
	return service.AccessTokenExp
}

func (service *jwtService) ValidateToken(tokenString string) (*JwtCustomClaim, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JwtCustomClaim{}, func(token *jwt.Token) (interface{}, error) {
		switch token.Method.(type) {
		case *jwt.SigningMethodHMAC:
			return []byte(service.SecretKey), nil
		default:
			return nil, apperrors.ErrInvalidSigningMethod
		}
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		service.logger.Debug("Ошибка парсинга или проверки подписи токена", zap.Error(err))
		return nil, apperrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*JwtCustomClaim)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}
