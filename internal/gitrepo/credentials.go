package gitrepo

import (
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
)

// CredentialResolver produces transport credentials for a remote at fetch
// time. It is invoked once per remote, with the remote's name and its first
// configured URL.
type CredentialResolver interface {
	Resolve(remoteName, url string) (transport.AuthMethod, error)
}

// AnonymousResolver performs no authentication. Suitable for public remotes
// and local file transports.
type AnonymousResolver struct{}

func (AnonymousResolver) Resolve(_, _ string) (transport.AuthMethod, error) {
	return nil, nil
}

// TokenResolver authenticates every remote with a single bearer token over
// HTTP basic auth, the scheme GitHub app installations use.
type TokenResolver struct {
	Username string
	Token    string
}

func (r TokenResolver) Resolve(_, _ string) (transport.AuthMethod, error) {
	user := r.Username
	if user == "" {
		user = "x-access-token"
	}
	return &githttp.BasicAuth{Username: user, Password: r.Token}, nil
}
