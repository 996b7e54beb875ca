package request

import (
	"strconv"
	"strings"

	"github.com/assetnote/kitecurl/pkg/curlopt"
	"github.com/assetnote/kitecurl/pkg/http"
	"github.com/pkg/errors"
)

var (
	ErrInvalidHeader   = errors.New("invalid header format. expected 'Key: Value'")
	ErrNegativeTimeout = errors.New("timeout must not be negative")
)

// ParseHeader parses a "Key: Value" header. The key must be non empty and the value is trimmed
func ParseHeader(in string) (http.Header, error) {
	h, ok := http.HeaderFromString(in)
	if !ok || strings.TrimSpace(h.Key) == "" {
		return h, errors.Wrapf(ErrInvalidHeader, "%q", in)
	}
	return h, nil
}

// ParseTimeout parses a timeout in seconds. "connect,read" is a pair, a single number is the overall
// timeout and the empty string disables it
func ParseTimeout(in string) (curlopt.Timeout, error) {
	in = strings.TrimSpace(in)
	if in == "" {
		return curlopt.NoTimeout(), nil
	}

	if !strings.Contains(in, ",") {
		v, err := parseSeconds(in)
		if err != nil {
			return curlopt.NoTimeout(), err
		}
		return curlopt.TimeoutAfter(v), nil
	}

	sp := strings.SplitN(in, ",", 2)
	connect, err := parseSeconds(sp[0])
	if err != nil {
		return curlopt.NoTimeout(), errors.Wrap(err, "connect timeout")
	}
	read, err := parseSeconds(sp[1])
	if err != nil {
		return curlopt.NoTimeout(), errors.Wrap(err, "read timeout")
	}
	return curlopt.TimeoutPair(connect, read), nil
}

func parseSeconds(in string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(in), 64)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to parse timeout %q", in)
	}
	if v < 0 {
		return 0, errors.Wrapf(ErrNegativeTimeout, "%q", in)
	}
	return v, nil
}

// ParseCert parses "cert[:key]". Without a key the certificate file is expected to hold both
func ParseCert(in string) curlopt.Cert {
	if in == "" {
		return curlopt.NoCert()
	}
	sp := strings.SplitN(in, ":", 2)
	if len(sp) == 1 || sp[1] == "" {
		return curlopt.CertFile(sp[0])
	}
	return curlopt.CertPair(sp[0], sp[1])
}
