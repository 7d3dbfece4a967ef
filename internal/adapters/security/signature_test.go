package security

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// signMessage produces an Ethereum-style r||s||v hex signature over
// the personal_sign digest of message.
func signMessage(t *testing.T, key *secp256k1.PrivateKey, message string) string {
	t.Helper()
	compact := ecdsa.SignCompact(key, personalSignDigest(message), false)
	ethSig := make([]byte, 65)
	copy(ethSig, compact[1:])
	ethSig[64] = compact[0] - 27
	return "0x" + hex.EncodeToString(ethSig)
}

func TestVerifyRecoversSigner(t *testing.T) {
	t.Parallel()

	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	address := pubKeyAddress(key.PubKey())
	message := "chainwiki login\nnonce: deadbeef"
	sig := signMessage(t, key, message)

	verifier := NewWalletVerifier()
	if !verifier.Verify(address, sig, message) {
		t.Fatalf("expected valid signature to verify")
	}
	if !verifier.Verify("0x"+strings.ToUpper(address[2:]), sig, message) {
		t.Fatalf("address comparison must be case-insensitive")
	}
}

func TestVerifyRejectsMutations(t *testing.T) {
	t.Parallel()

	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	address := pubKeyAddress(key.PubKey())
	message := "login challenge"
	sig := signMessage(t, key, message)
	verifier := NewWalletVerifier()

	// single-bit mutation of the signature
	raw, _ := hex.DecodeString(sig[2:])
	raw[10] ^= 0x01
	if verifier.Verify(address, "0x"+hex.EncodeToString(raw), message) {
		t.Fatalf("mutated signature must not verify")
	}

	if verifier.Verify(address, sig, message+" ") {
		t.Fatalf("different message must not verify")
	}

	other, _ := secp256k1.GeneratePrivateKey()
	if verifier.Verify(pubKeyAddress(other.PubKey()), sig, message) {
		t.Fatalf("wrong claimed address must not verify")
	}
}

func TestVerifyAcceptsLegacyRecoveryID(t *testing.T) {
	t.Parallel()

	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	address := pubKeyAddress(key.PubKey())
	message := "legacy v"
	sig := signMessage(t, key, message)

	// rewrite v from 0/1 to 27/28
	raw, _ := hex.DecodeString(sig[2:])
	raw[64] += 27
	if !NewWalletVerifier().Verify(address, "0x"+hex.EncodeToString(raw), message) {
		t.Fatalf("27/28 recovery id must be accepted")
	}
}

func TestVerifyMalformedInputsNeverPanic(t *testing.T) {
	t.Parallel()

	verifier := NewWalletVerifier()
	for _, sig := range []string{
		"",
		"0x",
		"0xzz",
		"0x0011",
		"0x" + strings.Repeat("00", 65),
		"0x" + strings.Repeat("ff", 65),
		"0x" + strings.Repeat("ab", 64),
	} {
		if verifier.Verify("0x0000000000000000000000000000000000000000", sig, "msg") {
			t.Fatalf("malformed signature %q must not verify", sig)
		}
	}
}
