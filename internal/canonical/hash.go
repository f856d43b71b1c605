package canonical

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// The version suffix leaves room for an algorithm change.
const (
	DomainSnapshot   = "suiobject/snapshot/v1"
	DomainInvocation = "suiobject/invocation/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// SnapshotID computes the content hash of an exported container.
// The name is excluded: identical content saved under two names shares an ID.
func SnapshotID(export any) (string, error) {
	data, err := Marshal(export)
	if err != nil {
		return "", fmt.Errorf("SnapshotID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainSnapshot, data), nil
}

// InvocationID computes the identity of one function invocation record.
func InvocationID(function string, arg any, seq int64) (string, error) {
	data, err := Marshal(map[string]any{
		"function": function,
		"arg":      arg,
		"seq":      seq,
	})
	if err != nil {
		return "", fmt.Errorf("InvocationID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainInvocation, data), nil
}
