package security

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/sha3"
)

// WalletVerifier recovers the signing address from an EIP-191
// personal_sign signature and compares it to the claimed address.
// Pure verification, no side effects; any malformed input is false.
type WalletVerifier struct{}

func NewWalletVerifier() WalletVerifier { return WalletVerifier{} }

func (WalletVerifier) Verify(address, signature, message string) bool {
	sig, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(signature), "0x"))
	if err != nil || len(sig) != 65 {
		return false
	}

	// Wallets emit r||s||v with v either 0/1 or 27/28. RecoverCompact
	// wants a header-first layout with the 27 offset applied.
	v := sig[64]
	if v >= 27 {
		v -= 27
	}
	if v > 1 {
		return false
	}
	compact := make([]byte, 65)
	compact[0] = v + 27
	copy(compact[1:], sig[:64])

	pub, _, err := ecdsa.RecoverCompact(compact, personalSignDigest(message))
	if err != nil {
		return false
	}
	return strings.EqualFold(pubKeyAddress(pub), strings.TrimSpace(address))
}

// personalSignDigest hashes the message under the EIP-191 prefix, so
// a signed login challenge can never double as a transaction.
func personalSignDigest(message string) []byte {
	h := sha3.NewLegacyKeccak256()
	fmt.Fprintf(h, "\x19Ethereum Signed Message:\n%d%s", len(message), message)
	return h.Sum(nil)
}

// pubKeyAddress derives the 0x-hex address: last 20 bytes of the
// keccak256 of the uncompressed public key without its 0x04 prefix.
func pubKeyAddress(pub *secp256k1.PublicKey) string {
	raw := pub.SerializeUncompressed()
	h := sha3.NewLegacyKeccak256()
	h.Write(raw[1:])
	sum := h.Sum(nil)
	return "0x" + hex.EncodeToString(sum[12:])
}
