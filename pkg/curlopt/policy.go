package curlopt

import (
	"fmt"
	"time"
)

// DefaultCABundlePath is used when verification is enabled without an explicit path and the policy
// does not carry its own CABundle
const DefaultCABundlePath = "/etc/ssl/certs/ca-certificates.crt"

type timeoutKind int

const (
	timeoutNone timeoutKind = iota
	timeoutScalar
	timeoutPair
)

// Timeout is either absent, a single total budget in seconds, or a (connect, read) pair
type Timeout struct {
	kind    timeoutKind
	total   float64
	connect float64
	read    float64
}

func NoTimeout() Timeout {
	return Timeout{}
}

// TimeoutAfter is a total budget of seconds. A zero budget is the same as no timeout
func TimeoutAfter(seconds float64) Timeout {
	return Timeout{kind: timeoutScalar, total: seconds}
}

// TimeoutDuration is TimeoutAfter for a time.Duration
func TimeoutDuration(d time.Duration) Timeout {
	return TimeoutAfter(d.Seconds())
}

// TimeoutPair splits the budget into connect and read phases. The total budget is their sum
func TimeoutPair(connect, read float64) Timeout {
	return Timeout{kind: timeoutPair, connect: connect, read: read}
}

// Pair returns the connect and read components if the timeout is a pair
func (t Timeout) Pair() (connect, read float64, ok bool) {
	return t.connect, t.read, t.kind == timeoutPair
}

// Seconds returns the scalar budget, ok is false for a pair or an absent timeout
func (t Timeout) Seconds() (float64, bool) {
	return t.total, t.kind == timeoutScalar
}

// IsSet reports whether the timeout results in any directive
func (t Timeout) IsSet() bool {
	switch t.kind {
	case timeoutPair:
		return true
	case timeoutScalar:
		return t.total != 0
	}
	return false
}

func (t Timeout) String() string {
	switch t.kind {
	case timeoutPair:
		return fmt.Sprintf("(%gs, %gs)", t.connect, t.read)
	case timeoutScalar:
		return fmt.Sprintf("%gs", t.total)
	}
	return "none"
}

// Verify controls server certificate verification. The zero value disables verification
type Verify struct {
	enabled bool
	path    string
}

func VerifyOff() Verify {
	return Verify{}
}

// VerifyDefault verifies against the default CA bundle
func VerifyDefault() Verify {
	return Verify{enabled: true}
}

// VerifyWith verifies against path, which may be a bundle file or a directory of certificates.
// An empty path disables verification
func VerifyWith(path string) Verify {
	return Verify{enabled: path != "", path: path}
}

func (v Verify) Enabled() bool {
	return v.enabled
}

// Path is the explicit CA location, empty when the default bundle applies
func (v Verify) Path() string {
	return v.path
}

func (v Verify) String() string {
	switch {
	case !v.enabled:
		return "false"
	case v.path == "":
		return "true"
	}
	return v.path
}

// Cert is an optional client certificate. A single path is expected to hold both the certificate
// and its key
type Cert struct {
	cert string
	key  string
	pair bool
}

func NoCert() Cert {
	return Cert{}
}

func CertFile(path string) Cert {
	return Cert{cert: path}
}

func CertPair(cert, key string) Cert {
	return Cert{cert: cert, key: key, pair: true}
}

func (c Cert) IsSet() bool {
	return c.pair || c.cert != ""
}

func (c Cert) CertPath() string {
	return c.cert
}

// KeyPath returns the key path and whether one was given
func (c Cert) KeyPath() (string, bool) {
	return c.key, c.pair
}

func (c Cert) String() string {
	if c.pair {
		return fmt.Sprintf("(%s, %s)", c.cert, c.key)
	}
	if c.cert == "" {
		return "none"
	}
	return c.cert
}

// Policy carries the per request transport settings that are not part of the request itself
type Policy struct {
	Timeout Timeout
	Verify  Verify
	Cert    Cert
	Verbose bool

	// CookieJar is where the transport should persist cookies. Empty leaves it unset
	CookieJar string

	// CABundle is the bundle used by VerifyDefault. DefaultCABundlePath is used when empty
	CABundle string
}

// DefaultPolicy verifies against DefaultCABundlePath, with no timeout, client certificate or cookie jar
func DefaultPolicy() Policy {
	return Policy{
		Verify:   VerifyDefault(),
		CABundle: DefaultCABundlePath,
	}
}

func (p Policy) caBundle() string {
	if p.CABundle != "" {
		return p.CABundle
	}
	return DefaultCABundlePath
}
