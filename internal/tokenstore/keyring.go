// Copyright (c) 2025 Coinly
// Licensed under the MIT License. See LICENSE file in the project root for details.

package tokenstore

import (
	"errors"
	"runtime"

	"github.com/99designs/keyring"
)

// keyringBackend stores values in the OS credential store.
type keyringBackend struct {
	ring keyring.Keyring
}

func newKeyringBackend() (*keyringBackend, error) {
	ring, err := openRing()
	if err != nil {
		return nil, err
	}
	return &keyringBackend{ring: ring}, nil
}

// allowedBackends lists native credential stores per platform. The encrypted
// file backend is never allowed; it would need an interactive passphrase.
func allowedBackends(goos string) []keyring.BackendType {
	switch goos {
	case "darwin":
		// Pass requires 'pass' utility installed: brew install pass
		return []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend}
	case "windows":
		return []keyring.BackendType{keyring.WinCredBackend}
	case "linux", "freebsd", "openbsd":
		return []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.PassBackend,
			keyring.KeyCtlBackend,
		}
	default:
		return nil
	}
}

// openRing opens the OS keyring using native platform backends only.
func openRing() (keyring.Keyring, error) {
	backends := allowedBackends(runtime.GOOS)
	if len(backends) == 0 {
		return nil, errors.New("secure storage not supported on this OS; use the sqlite or memory store")
	}

	cfg := keyring.Config{
		ServiceName:             ServiceName,
		AllowedBackends:         backends,
		PassPrefix:              ServiceName,
		LibSecretCollectionName: "login",
		KWalletAppID:            ServiceName,
		KWalletFolder:           ServiceName,
		KeyCtlScope:             "user",
	}
	if runtime.GOOS == "windows" {
		cfg.WinCredPrefix = ServiceName
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		if runtime.GOOS == "darwin" {
			return nil, errors.New("macOS Keychain unavailable. On macOS 26.0+, install 'pass': brew install pass gnupg && gpg --generate-key && pass init <gpg-key-id>")
		}
		return nil, err
	}
	return ring, nil
}

func (k *keyringBackend) Set(key, value string) error {
	return k.ring.Set(keyring.Item{Key: key, Data: []byte(value), Label: ServiceName + " " + key})
}

func (k *keyringBackend) Get(key string) (string, error) {
	it, err := k.ring.Get(key)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return string(it.Data), nil
}

func (k *keyringBackend) Delete(key string) error {
	if err := k.ring.Remove(key); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return err
	}
	return nil
}
