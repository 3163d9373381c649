package mission

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// HMACSigner wraps serialized plans into an HS256-signed JWS envelope so
// vehicles can authenticate the sender over an untrusted broker.
type HMACSigner struct {
	secret []byte
}

// NewHMACSigner creates a signer for the given shared secret.
func NewHMACSigner(secret string) (*HMACSigner, error) {
	if secret == "" {
		return nil, fmt.Errorf("signer: empty secret")
	}
	return &HMACSigner{secret: []byte(secret)}, nil
}

// Sign returns the compact JWS serialization of the payload.
func (s *HMACSigner) Sign(payload []byte) ([]byte, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"plan": json.RawMessage(payload),
		"iat":  time.Now().Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("signer: %w", err)
	}
	return []byte(signed), nil
}

// Verify checks the envelope signature and returns the embedded plan
// payload. Used by tests and by consumers that share the secret.
func (s *HMACSigner) Verify(envelope []byte) ([]byte, error) {
	token, err := jwt.Parse(string(envelope), func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("signer: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("signer: unexpected claims type")
	}
	payload, err := json.Marshal(claims["plan"])
	if err != nil {
		return nil, fmt.Errorf("signer: %w", err)
	}
	return payload, nil
}
