package target

import (
	"errors"
	"fmt"
	"strings"
)

// remoteScheme prefixes every network-share address. Anything else is a
// local filesystem path.
const remoteScheme = "smb://"

type Scheme int

const (
	Local Scheme = iota
	Remote
)

var (
	ErrInvalidAddress  = errors.New("invalid smb address")
	ErrInvalidUsername = errors.New("usernames with ':' are not supported")
)

// Target is one directory to clean, local or remote. For remote targets the
// Host/Share/User triple identifies the mount; for local targets only Path
// is set.
type Target struct {
	Raw    string
	Scheme Scheme

	Host  string
	Share string
	User  string

	Path string
}

// ValidateUsername rejects usernames containing the ':' credential delimiter.
func ValidateUsername(user string) error {
	if strings.Contains(user, ":") {
		return ErrInvalidUsername
	}
	return nil
}

// Parse interprets raw as an smb:// address or a local path.
// For smb://[user@]host[/share] addresses, a missing user or share falls back
// to the supplied defaults.
func Parse(raw, defaultShare, defaultUser string) (Target, error) {
	if !strings.HasPrefix(raw, remoteScheme) {
		return Target{Raw: raw, Scheme: Local, Path: raw}, nil
	}

	rest := strings.TrimPrefix(raw, remoteScheme)
	parts := strings.Split(rest, "/")

	server := parts[0]
	share := defaultShare
	if len(parts) > 1 && parts[1] != "" {
		share = parts[1]
	}

	user := defaultUser
	if at := strings.LastIndex(server, "@"); at >= 0 {
		user = server[:at]
		server = server[at+1:]
	}
	if err := ValidateUsername(user); err != nil {
		return Target{}, err
	}
	if server == "" {
		return Target{}, fmt.Errorf("%w: missing host in %q", ErrInvalidAddress, raw)
	}

	return Target{
		Raw:    raw,
		Scheme: Remote,
		Host:   server,
		Share:  share,
		User:   user,
	}, nil
}

// Address renders the canonical form of the target for display.
func (t Target) Address() string {
	if t.Scheme == Local {
		return t.Path
	}
	return fmt.Sprintf("smb://%s@%s/%s", t.User, t.Host, t.Share)
}
