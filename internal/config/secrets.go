package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const pwdPlaceholder = "{pwd}"

// Secrets mirrors the [MongoDB] section of a secrets TOML file:
//
//	[MongoDB]
//	pwd = "..."
//	user = "..."                  # optional
//	host = "cluster.mongodb.net"  # optional
//	uri = "mongodb+srv://..."     # optional, used verbatim
type Secrets struct {
	MongoDB MongoSecrets `toml:"MongoDB"`
}

type MongoSecrets struct {
	Pwd  string `toml:"pwd"`
	User string `toml:"user"`
	Host string `toml:"host"`
	URI  string `toml:"uri"`
}

// LoadSecrets reads a secrets TOML file.
func LoadSecrets(path string) (Secrets, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Secrets{}, fmt.Errorf("read secrets: %w", err)
	}
	var s Secrets
	if err := toml.Unmarshal(raw, &s); err != nil {
		return Secrets{}, fmt.Errorf("parse secrets %s: %w", path, err)
	}
	return s, nil
}

// MergeSecrets resolves the Mongo connection string. An explicit URI wins
// (with {pwd} substituted), then the secret URI, then one built from
// user, password and host.
func MergeSecrets(m MongoConfig, s Secrets) MongoConfig {
	sec := s.MongoDB
	out := m
	if out.User == "" {
		out.User = sec.User
	}
	if out.Host == "" {
		out.Host = sec.Host
	}
	switch {
	case out.URI != "":
		if sec.Pwd != "" {
			out.URI = strings.ReplaceAll(out.URI, pwdPlaceholder, url.QueryEscape(sec.Pwd))
		}
	case sec.URI != "":
		out.URI = sec.URI
	case out.Host != "" && out.User != "":
		u := url.URL{
			Scheme:   "mongodb+srv",
			User:     url.UserPassword(out.User, sec.Pwd),
			Host:     out.Host,
			Path:     "/",
			RawQuery: "retryWrites=true&w=majority",
		}
		out.URI = u.String()
	}
	return out
}
