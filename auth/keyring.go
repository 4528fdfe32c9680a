// Package auth stores the media API access token in the system keyring.
package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kptv-cli/kptv/constant"
	"github.com/zalando/go-keyring"
)

const user = "api-token"

// EnvToken overrides the keyring, for headless machines.
const EnvToken = "KPTV_API_TOKEN"

// ErrNoToken is returned when neither the environment nor the keyring holds a token.
var ErrNoToken = errors.New("no access token, run `kptv auth set`")

// SetToken saves token in the keyring.
func SetToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("empty token")
	}
	return keyring.Set(constant.Kptv, user, token)
}

// Token returns the access token from KPTV_API_TOKEN or the keyring.
func Token() (string, error) {
	if token, ok := os.LookupEnv(EnvToken); ok && token != "" {
		return token, nil
	}

	token, err := keyring.Get(constant.Kptv, user)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("read keyring: %w", err)
	}
	return token, nil
}

// DeleteToken removes the token from the keyring. A missing token is not an error.
func DeleteToken() error {
	err := keyring.Delete(constant.Kptv, user)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
