package security

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrJWTSecretMissing = errors.New("JWT_SECRET is not set")

const (
	tokenIssuer = "civilization"
	tokenTTL    = 7 * 24 * time.Hour
)

// Claims Uid 即对局归属者，同时写进 sub。
type Claims struct {
	Uid string `json:"uid"`
	jwt.RegisteredClaims
}

var parser = jwt.NewParser(
	jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	jwt.WithIssuer(tokenIssuer),
	jwt.WithExpirationRequired(),
	jwt.WithLeeway(30*time.Second),
)

func secret() ([]byte, error) {
	s := os.Getenv("JWT_SECRET")
	if s == "" {
		return nil, ErrJWTSecretMissing
	}
	return []byte(s), nil
}

// Award 签发默认有效期的令牌。
func Award(uid string) (string, error) {
	return AwardFor(uid, tokenTTL)
}

func AwardFor(uid string, ttl time.Duration) (string, error) {
	key, err := secret()
	if err != nil {
		return "", err
	}
	if uid == "" {
		return "", jwt.ErrTokenInvalidSubject
	}
	now := time.Now()
	claims := &Claims{
		Uid: uid,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   uid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

// ParseToken 校验签名、签发方和有效期，uid 必须与 sub 一致。
func ParseToken(token string) (*Claims, error) {
	key, err := secret()
	if err != nil {
		return nil, err
	}
	claims := &Claims{}
	if _, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) { return key, nil }); err != nil {
		return nil, err
	}
	if claims.Uid == "" || claims.Uid != claims.Subject {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
