package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
)

// Generates random secrets suitable for ACCESS_TOKEN_SECRET and
// REFRESH_TOKEN_SECRET.
func main() {
	access, err := randomHex(32)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	refresh, err := randomHex(32)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("ACCESS_TOKEN_SECRET=%s\nREFRESH_TOKEN_SECRET=%s\n", access, refresh)
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
