package application

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"

	"github.com/chainwiki/auth-service/internal/ports"
)

func authLogger() *slog.Logger {
	return slog.Default().With(
		"service", "chainwiki-auth",
		"module", "application",
		"layer", "application",
	)
}

// hashToken stores one-way refresh-token fingerprints instead of raw
// secrets.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(token)))
	return hex.EncodeToString(sum[:])
}

// randomHex returns a cryptographically random hex nonce.
func randomHex(bytesLen int) string {
	raw := make([]byte, bytesLen)
	_, _ = rand.Read(raw)
	return hex.EncodeToString(raw)
}

func profileUpdate(req ProfileUpdateRequest) ports.ProfileUpdate {
	return ports.ProfileUpdate{
		DisplayName: req.DisplayName,
		Email:       req.Email,
	}
}
