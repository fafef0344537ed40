package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainCommand = "patternlock/command/v1"
	DomainOutcome = "patternlock/outcome/v1"
	DomainPattern = "patternlock/pattern/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte (0x00) separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// CommandID computes the content-addressed ID for a command.
// The ID is stable across restarts and replays given the same inputs.
func CommandID(sessionID string, kind CommandKind, args Args, seq int64) (string, error) {
	if args == nil {
		args = Args{}
	}
	obj := map[string]any{
		"session_id": sessionID,
		"kind":       string(kind),
		"args":       args,
		"seq":        seq,
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("CommandID: failed to marshal: %w", err)
	}

	return hashWithDomain(DomainCommand, canonical), nil
}

// OutcomeID computes the content-addressed ID for an outcome.
// Links to the command it answers via commandID.
func OutcomeID(commandID, outputCase string, seq int64) (string, error) {
	obj := map[string]any{
		"command_id": commandID,
		"case":       outputCase,
		"seq":        seq,
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("OutcomeID: failed to marshal: %w", err)
	}

	return hashWithDomain(DomainOutcome, canonical), nil
}

// PatternDigest hashes a canonical pattern token so journals can compare
// saved patterns without storing them.
func PatternDigest(token string) string {
	return hashWithDomain(DomainPattern, []byte(token))
}

// MustCommandID is like CommandID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustCommandID(sessionID string, kind CommandKind, args Args, seq int64) string {
	id, err := CommandID(sessionID, kind, args, seq)
	if err != nil {
		panic(err)
	}
	return id
}
