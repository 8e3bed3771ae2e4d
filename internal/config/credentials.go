package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrMissingCredential is wrapped by LoadCredentials when a credential file
// cannot be read or is empty.
var ErrMissingCredential = errors.New("missing credential")

// Credential file names inside the auth directory.
const (
	UserFile    = "user.txt"
	SecretFile  = "secret.txt"
	ChannelFile = "id.txt"
)

// Credentials identifies the bot account and the channel it joins.
type Credentials struct {
	Nick    string
	Secret  string
	Channel string
}

// String hides the secret so credentials can be logged safely.
func (c Credentials) String() string {
	return fmt.Sprintf("nick=%s channel=%s secret=<%d bytes>", c.Nick, c.Channel, len(c.Secret))
}

// LoadCredentials reads the three credential files from dir.
//
// Precondition: dir names a directory holding user.txt, secret.txt and id.txt.
// Postcondition: Returns trimmed, non-empty credentials, or an error wrapping
// ErrMissingCredential naming the first unusable file.
func LoadCredentials(dir string) (Credentials, error) {
	var creds Credentials
	for _, f := range []struct {
		name string
		dst  *string
	}{
		{UserFile, &creds.Nick},
		{SecretFile, &creds.Secret},
		{ChannelFile, &creds.Channel},
	} {
		v, err := readTrimmed(filepath.Join(dir, f.name))
		if err != nil {
			return Credentials{}, err
		}
		*f.dst = v
	}
	return creds, nil
}

func readTrimmed(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %v", ErrMissingCredential, path, err)
	}
	v := strings.TrimSpace(string(raw))
	if v == "" {
		return "", fmt.Errorf("%w: %s is empty", ErrMissingCredential, path)
	}
	return v, nil
}
