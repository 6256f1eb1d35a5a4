package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrUnknownRole  = errors.New("unknown role")
)

// Role API 키 역할
type Role string

const (
	RoleAnon    Role = "anon"    // 브라우저 클라이언트용
	RoleService Role = "service" // 운영 도구용
)

// Valid 알려진 역할인지 확인
func (r Role) Valid() bool {
	return r == RoleAnon || r == RoleService
}

const issuer = "schedule-api"

// Claims API 키 클레임
type Claims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}

// KeyManager API 키 발급/검증
type KeyManager struct {
	secretKey []byte
	expiry    time.Duration
}

// NewKeyManager KeyManager 생성 (expiry <= 0 이면 만료 없음)
func NewKeyManager(secretKey string, expiry time.Duration) *KeyManager {
	return &KeyManager{
		secretKey: []byte(secretKey),
		expiry:    expiry,
	}
}

// Issue API 키 발급
func (m *KeyManager) Issue(role Role, subject string) (string, error) {
	if !role.Valid() {
		return "", ErrUnknownRole
	}

	now := time.Now()
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   subject,
		},
	}
	if m.expiry > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(m.expiry))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// Validate API 키 검증
func (m *KeyManager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secretKey, nil
	}, jwt.WithIssuer(issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
