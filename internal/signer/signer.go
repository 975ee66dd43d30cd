// Package signer resolves the swapper's private key from its configured
// source. The key authorizes Permit2 allowances only; the transaction itself
// is signed and submitted by the caller.
package signer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	clierr "github.com/ggonzalez94/swapencode/internal/errors"
)

const (
	EnvPrivateKey           = "SWAPENCODE_PRIVATE_KEY"
	EnvPrivateKeyFile       = "SWAPENCODE_PRIVATE_KEY_FILE"
	EnvKeystorePath         = "SWAPENCODE_KEYSTORE_PATH"
	EnvKeystorePassword     = "SWAPENCODE_KEYSTORE_PASSWORD"
	EnvKeystorePasswordFile = "SWAPENCODE_KEYSTORE_PASSWORD_FILE"

	defaultPrivateKeyRelativePath = "swapencode/key.hex"
)

type Config struct {
	PrivateKeyHex        string
	PrivateKeyFile       string
	KeystorePath         string
	KeystorePassword     string
	KeystorePasswordFile string
}

// ResolveKeyHex returns the swapper key as validated hex, following the
// precedence flag override > env hex > key file > keystore. The returned
// string is handed straight to the permit signer and never logged.
func ResolveKeyHex(override string) (string, error) {
	cfg := Config{
		PrivateKeyHex:        strings.TrimSpace(os.Getenv(EnvPrivateKey)),
		PrivateKeyFile:       strings.TrimSpace(os.Getenv(EnvPrivateKeyFile)),
		KeystorePath:         strings.TrimSpace(os.Getenv(EnvKeystorePath)),
		KeystorePassword:     strings.TrimSpace(os.Getenv(EnvKeystorePassword)),
		KeystorePasswordFile: strings.TrimSpace(os.Getenv(EnvKeystorePasswordFile)),
	}
	if cfg.PrivateKeyFile == "" {
		cfg.PrivateKeyFile = discoverDefaultPrivateKeyFile()
	}
	if strings.TrimSpace(override) != "" {
		cfg = Config{PrivateKeyHex: strings.TrimSpace(override)}
	}
	return resolveKeyHex(cfg)
}

func resolveKeyHex(cfg Config) (string, error) {
	if cfg.PrivateKeyHex != "" {
		return validateHexKey(cfg.PrivateKeyHex)
	}
	if cfg.PrivateKeyFile != "" {
		buf, err := os.ReadFile(cfg.PrivateKeyFile)
		if err != nil {
			return "", clierr.Wrap(clierr.CodeSigning, "read private key file", err)
		}
		return validateHexKey(string(buf))
	}
	if cfg.KeystorePath != "" {
		password := cfg.KeystorePassword
		if password == "" && cfg.KeystorePasswordFile != "" {
			buf, err := os.ReadFile(cfg.KeystorePasswordFile)
			if err != nil {
				return "", clierr.Wrap(clierr.CodeSigning, "read keystore password file", err)
			}
			password = strings.TrimSpace(string(buf))
		}
		if password == "" {
			return "", clierr.New(clierr.CodeSigning, "keystore password is required")
		}
		buf, err := os.ReadFile(cfg.KeystorePath)
		if err != nil {
			return "", clierr.Wrap(clierr.CodeSigning, "read keystore file", err)
		}
		key, err := keystore.DecryptKey(buf, password)
		if err != nil {
			return "", clierr.Wrap(clierr.CodeSigning, "decrypt keystore", err)
		}
		return hexutil.Encode(crypto.FromECDSA(key.PrivateKey))[2:], nil
	}
	return "", clierr.New(clierr.CodeSigning, fmt.Sprintf("missing signing key: pass --swapper-pk or set %s, %s or %s", EnvPrivateKey, EnvPrivateKeyFile, EnvKeystorePath))
}

// AddressOf derives the signer address of a hex key without retaining the
// parsed key.
func AddressOf(keyHex string) (common.Address, error) {
	clean := strings.TrimPrefix(strings.TrimSpace(keyHex), "0x")
	key, err := crypto.HexToECDSA(clean)
	if err != nil {
		return common.Address{}, clierr.Wrap(clierr.CodeSigning, "parse private key", err)
	}
	return crypto.PubkeyToAddress(key.PublicKey), nil
}

func validateHexKey(raw string) (string, error) {
	clean := strings.TrimPrefix(strings.TrimSpace(raw), "0x")
	if clean == "" {
		return "", clierr.New(clierr.CodeSigning, "empty private key")
	}
	if _, err := crypto.HexToECDSA(clean); err != nil {
		return "", clierr.Wrap(clierr.CodeSigning, "parse private key", err)
	}
	return clean, nil
}

func discoverDefaultPrivateKeyFile() string {
	base := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME"))
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil || strings.TrimSpace(home) == "" {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	path := filepath.Join(base, defaultPrivateKeyRelativePath)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return ""
	}
	return path
}
