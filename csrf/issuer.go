package csrf

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/MrEthical07/goGuard/token"
	"github.com/golang-jwt/jwt/v5"
)

// MinKeyLength is the shortest accepted HMAC key in bytes.
const MinKeyLength = 32

// DefaultNonceBytes is the nonce size used when Config.NonceBytes is zero.
const DefaultNonceBytes = 16

var (
	// ErrInvalidConfig is returned by NewIssuer for unusable settings.
	ErrInvalidConfig = errors.New("invalid csrf config")
	// ErrTokenInvalid is returned by Verify for any token that is malformed,
	// expired, forged, or bound to a different value.
	ErrTokenInvalid = errors.New("csrf token invalid")
)

// Config configures an Issuer.
type Config struct {
	Key        []byte
	TTL        time.Duration
	Issuer     string
	Leeway     time.Duration
	NonceBytes int
	// Entropy overrides crypto/rand.Reader for the nonce.
	Entropy io.Reader
}

// Claims is the decoded payload of a verified token.
type Claims struct {
	Nonce   string `json:"nonce"`
	Binding string `json:"bnd,omitempty"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies anti-forgery tokens.
type Issuer struct {
	config Config
	now    func() time.Time
}

// NewIssuer validates cfg and returns an Issuer.
func NewIssuer(cfg Config) (*Issuer, error) {
	if len(cfg.Key) < MinKeyLength {
		return nil, fmt.Errorf("%w: key must be at least %d bytes", ErrInvalidConfig, MinKeyLength)
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("%w: TTL must be > 0", ErrInvalidConfig)
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, fmt.Errorf("%w: Leeway must be in 0..2m", ErrInvalidConfig)
	}
	if cfg.NonceBytes == 0 {
		cfg.NonceBytes = DefaultNonceBytes
	}
	if cfg.NonceBytes < 8 || cfg.NonceBytes > 64 {
		return nil, fmt.Errorf("%w: NonceBytes must be in 8..64", ErrInvalidConfig)
	}
	if cfg.Entropy == nil {
		cfg.Entropy = rand.Reader
	}
	cfg.Issuer = strings.TrimSpace(cfg.Issuer)
	cfg.Key = append([]byte(nil), cfg.Key...)

	return &Issuer{config: cfg, now: time.Now}, nil
}

// TTL returns the lifetime of issued tokens.
func (i *Issuer) TTL() time.Duration {
	return i.config.TTL
}

// Issue returns a new token. A non-empty binding must be presented again to
// Verify.
func (i *Issuer) Issue(binding string) (string, error) {
	nonce, err := token.GenerateFrom(i.config.Entropy, i.config.NonceBytes)
	if err != nil {
		return "", err
	}

	now := i.now()
	claims := Claims{
		Nonce:   nonce,
		Binding: bindingDigest(binding),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(i.config.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    i.config.Issuer,
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.config.Key)
}

// Verify checks signature, expiry, issuer and binding. Every failure wraps
// ErrTokenInvalid.
func (i *Issuer) Verify(tokenStr, binding string) (*Claims, error) {
	if tokenStr == "" {
		return nil, fmt.Errorf("%w: empty token", ErrTokenInvalid)
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	}
	if i.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(i.config.Leeway))
	}
	if i.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(i.config.Issuer))
	}

	parsed, err := jwt.NewParser(options...).ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		return i.config.Key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Nonce == "" {
		return nil, ErrTokenInvalid
	}

	want := bindingDigest(binding)
	if subtle.ConstantTimeCompare([]byte(claims.Binding), []byte(want)) != 1 {
		return nil, fmt.Errorf("%w: binding mismatch", ErrTokenInvalid)
	}

	return claims, nil
}

func bindingDigest(binding string) string {
	if binding == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(binding))
	return hex.EncodeToString(sum[:])
}
