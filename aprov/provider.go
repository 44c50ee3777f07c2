package aprov

// Provider is implemented by types which can supply the credentials and identifying information attached to
// outgoing requests. Implementations may return different credentials per host, which allows per-node
// authentication in deployments where nodes don't share a single credential pair.
type Provider interface {
	// GetCredentials returns the username/password that should be used to authenticate against the given host.
	GetCredentials(host string) (username, password string)

	// GetUserAgent returns the value which should be set on the User-Agent of every outgoing request.
	GetUserAgent() string
}
