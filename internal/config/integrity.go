package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zeebo/blake3"
	"gopkg.in/yaml.v3"
)

const checksumFilename = ".checksums"

// ComputeBlake3Hash computes the BLAKE3 hash of a file.
func ComputeBlake3Hash(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	hash := blake3.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}

// Lock computes the checksum of the config file and writes the .checksums
// manifest next to it, authorizing the current state.
func Lock(configPath string) (string, error) {
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve config path %q: %w", configPath, err)
	}

	hash, err := ComputeBlake3Hash(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", absPath, err)
	}

	manifest := ChecksumManifest{
		Version:     1,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Hashes: map[string]string{
			filepath.Base(absPath): hash,
		},
	}

	data, err := yaml.Marshal(manifest)
	if err != nil {
		return "", fmt.Errorf("failed to marshal checksums: %w", err)
	}

	checksumPath := filepath.Join(filepath.Dir(absPath), checksumFilename)

	// Restrictive permissions: the manifest holds expected hashes.
	if err := os.WriteFile(checksumPath, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write checksums: %w", err)
	}

	return checksumPath, nil
}

// VerifyIntegrity checks the config file against its .checksums manifest.
// A missing manifest is not fatal; it returns (false, nil) so callers can
// warn that integrity verification is not enabled.
func VerifyIntegrity(configPath string) (bool, error) {
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return false, fmt.Errorf("failed to resolve config path %q: %w", configPath, err)
	}

	checksumPath := filepath.Join(filepath.Dir(absPath), checksumFilename)
	data, err := os.ReadFile(checksumPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read checksums: %w", err)
	}

	var manifest ChecksumManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return false, fmt.Errorf("failed to parse checksums: %w", err)
	}
	if manifest.Version != 1 {
		return false, fmt.Errorf("unsupported checksums version: %d", manifest.Version)
	}

	expectedHash, ok := manifest.Hashes[filepath.Base(absPath)]
	if !ok {
		return false, fmt.Errorf("config file %s has no hash in checksums (run 'ghala-hooks config lock')", filepath.Base(absPath))
	}

	actualHash, err := ComputeBlake3Hash(absPath)
	if err != nil {
		return false, fmt.Errorf("failed to compute hash: %w", err)
	}

	if actualHash != expectedHash {
		return false, fmt.Errorf("hash mismatch for %s: expected %s, got %s\n"+
			"This indicates tampering or unauthorized modification.\n"+
			"If you edited this file intentionally, run: ghala-hooks config lock",
			filepath.Base(absPath), expectedHash, actualHash)
	}

	return true, nil
}
