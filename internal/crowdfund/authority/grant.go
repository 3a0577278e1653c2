package authority

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/louisbranch/crowdfund.space/internal/platform/errors"
)

// Caller is a verified on-contract identity.
type Caller struct {
	// Address is the identity privileged checks compare against.
	Address string
	// GrantID is the jti of the grant that proved the identity, empty in
	// trusted mode.
	GrantID string
}

// Verifier resolves a raw credential into a Caller.
type Verifier interface {
	Verify(credential string) (Caller, error)
}

// grantEnv holds raw env values before post-parse validation.
type grantEnv struct {
	Issuer    string `env:"CROWDFUND_SPACE_CALLER_GRANT_ISSUER"`
	Audience  string `env:"CROWDFUND_SPACE_CALLER_GRANT_AUDIENCE"`
	PublicKey string `env:"CROWDFUND_SPACE_CALLER_GRANT_PUBLIC_KEY"`
}

// GrantConfig defines how caller grants are verified.
type GrantConfig struct {
	Issuer   string
	Audience string
	Key      ed25519.PublicKey
	Now      func() time.Time
}

// grantClaims is the internal claims type used for JWT parsing. The caller
// address travels in the registered subject claim.
type grantClaims struct {
	jwt.RegisteredClaims
}

// LoadGrantConfigFromEnv reads caller grant verification configuration.
// It returns ErrNotConfigured when none of the grant variables are set,
// letting the deployment fall back to trusted mode.
func LoadGrantConfigFromEnv(now func() time.Time) (GrantConfig, error) {
	var raw grantEnv
	if err := env.Parse(&raw); err != nil {
		return GrantConfig{}, fmt.Errorf("parse caller grant env: %w", err)
	}
	issuer := strings.TrimSpace(raw.Issuer)
	audience := strings.TrimSpace(raw.Audience)
	publicKey := strings.TrimSpace(raw.PublicKey)
	if issuer == "" && audience == "" && publicKey == "" {
		return GrantConfig{}, ErrNotConfigured
	}
	if issuer == "" {
		return GrantConfig{}, fmt.Errorf("CROWDFUND_SPACE_CALLER_GRANT_ISSUER is required")
	}
	if audience == "" {
		return GrantConfig{}, fmt.Errorf("CROWDFUND_SPACE_CALLER_GRANT_AUDIENCE is required")
	}
	if publicKey == "" {
		return GrantConfig{}, fmt.Errorf("CROWDFUND_SPACE_CALLER_GRANT_PUBLIC_KEY is required")
	}
	keyBytes, err := decodeBase64(publicKey)
	if err != nil {
		return GrantConfig{}, fmt.Errorf("decode caller grant public key: %w", err)
	}
	if len(keyBytes) != ed25519.PublicKeySize {
		return GrantConfig{}, fmt.Errorf("caller grant public key must be %d bytes", ed25519.PublicKeySize)
	}
	if now == nil {
		now = time.Now
	}
	return GrantConfig{
		Issuer:   issuer,
		Audience: audience,
		Key:      ed25519.PublicKey(keyBytes),
		Now:      now,
	}, nil
}

// ErrNotConfigured reports that no grant verification env is present.
var ErrNotConfigured = errors.New("caller grant verifier is not configured")

// GrantVerifier verifies EdDSA-signed caller grants.
type GrantVerifier struct {
	cfg GrantConfig
}

// NewGrantVerifier builds a Verifier from config.
func NewGrantVerifier(cfg GrantConfig) (*GrantVerifier, error) {
	if cfg.Issuer == "" || cfg.Audience == "" || len(cfg.Key) != ed25519.PublicKeySize {
		return nil, ErrNotConfigured
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &GrantVerifier{cfg: cfg}, nil
}

// Verify parses and validates a caller grant, returning the asserted caller.
func (v *GrantVerifier) Verify(credential string) (Caller, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return Caller{}, apperrors.New(apperrors.CodeCallerGrantInvalid, "caller grant is required")
	}

	var parsed grantClaims
	_, err := jwt.ParseWithClaims(credential, &parsed, func(token *jwt.Token) (any, error) {
		return v.cfg.Key, nil
	},
		jwt.WithValidMethods([]string{"EdDSA"}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return Caller{}, mapJWTError(err)
	}

	if parsed.Issuer == "" || parsed.Issuer != v.cfg.Issuer {
		return Caller{}, apperrors.WithMetadata(
			apperrors.CodeCallerGrantInvalid,
			"caller grant issuer mismatch",
			map[string]string{"Field": "issuer"},
		)
	}
	if !audienceContains(parsed.Audience, v.cfg.Audience) {
		return Caller{}, apperrors.WithMetadata(
			apperrors.CodeCallerGrantInvalid,
			"caller grant audience mismatch",
			map[string]string{"Field": "audience"},
		)
	}
	if parsed.ID == "" {
		return Caller{}, apperrors.New(apperrors.CodeCallerGrantInvalid, "caller grant jti is required")
	}
	if strings.TrimSpace(parsed.Subject) == "" {
		return Caller{}, apperrors.New(apperrors.CodeCallerGrantInvalid, "caller grant subject is required")
	}
	if parsed.ExpiresAt == nil {
		return Caller{}, apperrors.New(apperrors.CodeCallerGrantInvalid, "caller grant exp is required")
	}

	now := v.cfg.Now().UTC()
	exp := parsed.ExpiresAt.Time.UTC()
	if !exp.After(now) {
		return Caller{}, apperrors.New(apperrors.CodeCallerGrantExpired, "caller grant is expired")
	}
	if parsed.NotBefore != nil && now.Before(parsed.NotBefore.Time.UTC()) {
		return Caller{}, apperrors.New(apperrors.CodeCallerGrantInvalid, "caller grant not active yet")
	}

	return Caller{
		Address: parsed.Subject,
		GrantID: parsed.ID,
	}, nil
}

// TrustedVerifier accepts bare addresses as callers. Meant for local
// development and tests where no grant issuer exists.
type TrustedVerifier struct{}

// Verify returns the credential itself as the caller address.
func (TrustedVerifier) Verify(credential string) (Caller, error) {
	address := strings.TrimSpace(credential)
	if address == "" {
		return Caller{}, apperrors.New(apperrors.CodeCallerGrantInvalid, "caller address is required")
	}
	return Caller{Address: address}, nil
}

// mapJWTError translates jwt library errors to application errors.
func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenSignatureInvalid) || errors.Is(err, jwt.ErrEd25519Verification) {
		return apperrors.New(apperrors.CodeCallerGrantInvalid, "caller grant signature is invalid")
	}
	if errors.Is(err, jwt.ErrTokenUnverifiable) {
		return apperrors.New(apperrors.CodeCallerGrantInvalid, "caller grant alg is invalid")
	}
	return apperrors.New(apperrors.CodeCallerGrantInvalid, "caller grant is invalid")
}

// audienceContains reports whether the audience list contains the given value.
func audienceContains(aud jwt.ClaimStrings, value string) bool {
	for _, item := range aud {
		if item == value {
			return true
		}
	}
	return false
}

func decodeBase64(value string) ([]byte, error) {
	if value == "" {
		return nil, errors.New("empty base64 value")
	}
	decoded, err := base64.RawStdEncoding.DecodeString(value)
	if err == nil {
		return decoded, nil
	}
	return base64.StdEncoding.DecodeString(value)
}
