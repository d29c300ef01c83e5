// Package auth persists the TMDB read access token in the system keyring.
package auth

import (
	"errors"

	"github.com/cinewatch/cinewatch/constant"
	"github.com/cinewatch/cinewatch/key"
	"github.com/spf13/viper"
	"github.com/zalando/go-keyring"
)

const user = "tmdb-token"

// SetToken persists the TMDB token to the system keyring.
func SetToken(token string) error {
	return keyring.Set(constant.Cinewatch, user, token)
}

// GetToken retrieves the TMDB token from the system keyring.
func GetToken() (string, error) {
	return keyring.Get(constant.Cinewatch, user)
}

// DeleteToken removes the TMDB token from the system keyring.
func DeleteToken() error {
	err := keyring.Delete(constant.Cinewatch, user)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// Token returns the token to use for metadata requests.
// An explicitly configured token takes precedence over the keyring.
func Token() string {
	if token := viper.GetString(key.MetadataTMDBToken); token != "" {
		return token
	}

	token, err := GetToken()
	if err != nil {
		return ""
	}
	return token
}
