// Package tokens implements the account activation tokens. A token is
// derived from the user id, a coarse time bucket and the user's active flag,
// so it is never stored anywhere: flipping is_active on activation makes
// every previously issued token fail re-validation on its own.
package tokens

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"bookstore-server/internal/schemas"
)

// bucketSize is the granularity of the token timestamp. Lifetimes are
// counted in these buckets, not wall-clock seconds.
const bucketSize = time.Hour

// macLength is the number of hex characters of the MAC kept in the token.
const macLength = 32

// ActivationTokenService issues and validates activation tokens.
type ActivationTokenService struct {
	secret        []byte
	expiryBuckets int64
	now           func() time.Time
}

// NewActivationTokenService returns a service keyed with the given secret.
// Tokens expire after expiryBuckets time buckets.
func NewActivationTokenService(secret string, expiryBuckets int) *ActivationTokenService {
	return &ActivationTokenService{
		secret:        []byte(secret),
		expiryBuckets: int64(expiryBuckets),
		now:           time.Now,
	}
}

// DeriveTokenHash computes the MAC a token must carry for the given user
// state. It is a pure function of its inputs so the validity contract is
// testable in isolation.
func DeriveTokenHash(userID string, timeBucket int64, isActive bool, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	fmt.Fprintf(mac, "%s:%d:%t", userID, timeBucket, isActive)
	return hex.EncodeToString(mac.Sum(nil))[:macLength]
}

// MakeToken issues a token bound to the user's current active flag and the
// current time bucket.
func (s *ActivationTokenService) MakeToken(user *schemas.User) string {
	bucket := s.currentBucket()
	sig := DeriveTokenHash(user.ID.String(), bucket, user.IsActive, s.secret)
	return strconv.FormatInt(bucket, 36) + "-" + sig
}

// CheckToken reports whether the token is valid for the user's *current*
// state. Malformed, expired and stale-state tokens are all just invalid;
// this never fails any other way.
func (s *ActivationTokenService) CheckToken(user *schemas.User, token string) bool {
	if user == nil {
		return false
	}

	bucketPart, sig, found := strings.Cut(token, "-")
	if !found {
		return false
	}

	bucket, err := strconv.ParseInt(bucketPart, 36, 64)
	if err != nil || bucket < 0 {
		return false
	}

	current := s.currentBucket()
	if bucket > current || current-bucket > s.expiryBuckets {
		return false
	}

	expected := DeriveTokenHash(user.ID.String(), bucket, user.IsActive, s.secret)
	return hmac.Equal([]byte(expected), []byte(sig))
}

func (s *ActivationTokenService) currentBucket() int64 {
	return s.now().Unix() / int64(bucketSize/time.Second)
}

// EncodeUID encodes a user id for use in activation links.
func EncodeUID(id uuid.UUID) string {
	return base64.RawURLEncoding.EncodeToString([]byte(id.String()))
}

// DecodeUID reverses EncodeUID. Any structural problem is a plain error the
// caller collapses into the invalid-activation outcome.
func DecodeUID(encoded string) (uuid.UUID, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return uuid.UUID{}, err
	}
	return uuid.Parse(string(raw))
}
