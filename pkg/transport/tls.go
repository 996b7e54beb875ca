package transport

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/assetnote/kitecurl/pkg/log"
)

var (
	ErrNoCertificates = errors.New("no certificates found")
	ErrNoCipherSuites = errors.New("none of the ciphers are supported")
)

// opensslCiphers maps OpenSSL cipher names to the Go suite. TLS 1.3 suites are absent: Go does not allow
// configuring them
var opensslCiphers = map[string]uint16{
	"ECDHE-ECDSA-AES128-GCM-SHA256": tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
	"ECDHE-RSA-AES128-GCM-SHA256":   tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
	"ECDHE-ECDSA-AES256-GCM-SHA384": tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
	"ECDHE-RSA-AES256-GCM-SHA384":   tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
	"ECDHE-ECDSA-CHACHA20-POLY1305": tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305,
	"ECDHE-RSA-CHACHA20-POLY1305":   tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305,
	"ECDHE-ECDSA-AES128-SHA":        tls.TLS_ECDHE_ECDSA_WITH_AES_128_CBC_SHA,
	"ECDHE-ECDSA-AES256-SHA":        tls.TLS_ECDHE_ECDSA_WITH_AES_256_CBC_SHA,
	"ECDHE-RSA-AES128-SHA":          tls.TLS_ECDHE_RSA_WITH_AES_128_CBC_SHA,
	"ECDHE-RSA-AES256-SHA":          tls.TLS_ECDHE_RSA_WITH_AES_256_CBC_SHA,
	"AES128-GCM-SHA256":             tls.TLS_RSA_WITH_AES_128_GCM_SHA256,
	"AES256-GCM-SHA384":             tls.TLS_RSA_WITH_AES_256_GCM_SHA384,
	"AES128-SHA":                    tls.TLS_RSA_WITH_AES_128_CBC_SHA,
	"AES256-SHA":                    tls.TLS_RSA_WITH_AES_256_CBC_SHA,
}

// cipherSuites converts a colon or comma separated OpenSSL cipher list. Unknown names are skipped
func cipherSuites(list string) ([]uint16, error) {
	names := strings.FieldsFunc(list, func(r rune) bool {
		return r == ',' || r == ':'
	})

	var ret []uint16
	for _, name := range names {
		name = strings.TrimSpace(name)
		id, ok := opensslCiphers[name]
		if !ok {
			log.Trace().Str("cipher", name).Msg("cipher not configurable. skipping")
			continue
		}
		ret = append(ret, id)
	}
	if len(ret) == 0 {
		return nil, ErrNoCipherSuites
	}
	return ret, nil
}

// tlsVersion maps a CURL_SSLVERSION value to the minimum tls version. 0 leaves the default
func tlsVersion(v int64) (uint16, error) {
	switch v {
	case 0, 1:
		return 0, nil
	case 4:
		return tls.VersionTLS10, nil
	case 5:
		return tls.VersionTLS11, nil
	case 6:
		return tls.VersionTLS12, nil
	case 7:
		return tls.VersionTLS13, nil
	}
	return 0, fmt.Errorf("ssl version %d", v)
}

func loadCAFile(path string) (*x509.CertPool, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(data) {
		return nil, ErrNoCertificates
	}
	return pool, nil
}

// loadCADir loads every regular file in dir. Files without certificates are skipped
func loadCADir(dir string) (*x509.CertPool, error) {
	entries, err := ioutil.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	pool := x509.NewCertPool()
	found := 0
	for _, fi := range entries {
		if !fi.Mode().IsRegular() {
			continue
		}
		data, err := ioutil.ReadFile(filepath.Join(dir, fi.Name()))
		if err != nil {
			log.Debug().Err(err).Str("file", fi.Name()).Msg("failed to read ca file. skipping")
			continue
		}
		if pool.AppendCertsFromPEM(data) {
			found++
		}
	}
	if found == 0 {
		return nil, ErrNoCertificates
	}
	return pool, nil
}

// applyVerification folds the peer and host flags into the tls config. Go can only skip both checks
// together, so checking the chain without the hostname is done in VerifyPeerCertificate
func (e *Engine) applyVerification() {
	switch {
	case !e.verifyPeer:
		e.TLS.InsecureSkipVerify = true
		e.TLS.VerifyPeerCertificate = nil
	case !e.verifyHost:
		e.TLS.InsecureSkipVerify = true
		e.TLS.VerifyPeerCertificate = verifyChain(e.TLS)
	default:
		e.TLS.InsecureSkipVerify = false
		e.TLS.VerifyPeerCertificate = nil
	}
}

func verifyChain(cfg *tls.Config) func([][]byte, [][]*x509.Certificate) error {
	return func(raw [][]byte, _ [][]*x509.Certificate) error {
		if len(raw) == 0 {
			return ErrNoCertificates
		}
		certs := make([]*x509.Certificate, 0, len(raw))
		for _, r := range raw {
			c, err := x509.ParseCertificate(r)
			if err != nil {
				return err
			}
			certs = append(certs, c)
		}

		intermediates := x509.NewCertPool()
		for _, c := range certs[1:] {
			intermediates.AddCert(c)
		}
		_, err := certs[0].Verify(x509.VerifyOptions{
			Roots:         cfg.RootCAs,
			Intermediates: intermediates,
		})
		return err
	}
}
