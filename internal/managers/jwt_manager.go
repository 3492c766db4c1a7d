package managers

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTMgr handles JWT generation, signing, and validation.
type JWTMgr interface {
	GenerateClaims(userId, userName, sessionId string, ttl time.Duration) jwt.Claims
	GenerateJWT(claims jwt.Claims) (string, error)
	ValidateJWT(tokenString string) (jwt.Claims, error)
}

// JWTManager signs session tokens with an ed25519 key pair.
type JWTManager struct {
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey
}

// NewJWTManager creates a JWTManager from an existing key pair.
func NewJWTManager(privateKey ed25519.PrivateKey, publicKey ed25519.PublicKey) JWTMgr {
	return &JWTManager{privateKey: privateKey, publicKey: publicKey}
}

// NewJWTManagerFromFile loads the key pair from the given path, generating
// and persisting a fresh pair on first start.
func NewJWTManagerFromFile(path string) (JWTMgr, error) {
	privateKey, publicKey, err := loadKeyPair(path)
	if err != nil {
		privateKey, publicKey, err = generateKeyPair(path)
		if err != nil {
			return nil, err
		}
	}

	return &JWTManager{privateKey: privateKey, publicKey: publicKey}, nil
}

// GenerateClaims builds the claims of a login session token. The session id
// goes into jti so the redis session store can revoke it.
func (jm *JWTManager) GenerateClaims(userId, userName, sessionId string, ttl time.Duration) jwt.Claims {
	return jwt.MapClaims{
		"iss":      "bookstore-server",
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(ttl).Unix(),
		"sub":      userId,
		"username": userName,
		"jti":      sessionId,
	}
}

// GenerateJWT signs the given claims.
func (jm *JWTManager) GenerateJWT(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	return token.SignedString(jm.privateKey)
}

// ValidateJWT validates the given JWT and returns the claims if valid.
func (jm *JWTManager) ValidateJWT(tokenString string) (jwt.Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodEdDSA.Alg() {
			return nil, fmt.Errorf("invalid signing method")
		}
		return jm.publicKey, nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}

	return token.Claims, nil
}

func generateKeyPair(path string) (ed25519.PrivateKey, ed25519.PublicKey, error) {
	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, err
	}

	if err := saveKeyPair(privateKey, publicKey, path); err != nil {
		return nil, nil, err
	}

	return privateKey, publicKey, nil
}

func saveKeyPair(privateKey ed25519.PrivateKey, publicKey ed25519.PublicKey, path string) error {
	keyPairBytes := append(privateKey, publicKey...)
	return os.WriteFile(path, keyPairBytes, 0600)
}

func loadKeyPair(path string) (ed25519.PrivateKey, ed25519.PublicKey, error) {
	keyPairBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	// The file is the concatenation of private and public key
	if len(keyPairBytes) != ed25519.PrivateKeySize+ed25519.PublicKeySize {
		return nil, nil, fmt.Errorf("invalid key pair format")
	}

	return keyPairBytes[:ed25519.PrivateKeySize], keyPairBytes[ed25519.PrivateKeySize:], nil
}
