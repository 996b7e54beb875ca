package transport

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"io/ioutil"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/assetnote/kitecurl/pkg/curlopt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCert struct {
	cert     string
	key      string
	combined string
}

// writeTestCert writes a self signed certificate and its key to dir, separately and as a single file
func writeTestCert(t *testing.T, dir string) testCert {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "kitecurl test"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
		DNSNames:              []string{"localhost"},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)

	keyDer, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDer})

	ret := testCert{
		cert:     filepath.Join(dir, "cert.pem"),
		key:      filepath.Join(dir, "key.pem"),
		combined: filepath.Join(dir, "combined.pem"),
	}
	require.NoError(t, ioutil.WriteFile(ret.cert, certPEM, 0600))
	require.NoError(t, ioutil.WriteFile(ret.key, keyPEM, 0600))
	require.NoError(t, ioutil.WriteFile(ret.combined, append(append([]byte{}, certPEM...), keyPEM...), 0600))
	return ret
}

func TestCipherSuites(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []uint16
		wantErr bool
	}{
		{"comma separated", "AES128-SHA,AES256-SHA", []uint16{tls.TLS_RSA_WITH_AES_128_CBC_SHA, tls.TLS_RSA_WITH_AES_256_CBC_SHA}, false},
		{"colon separated", "ECDHE-RSA-AES128-GCM-SHA256:AES128-SHA", []uint16{tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256, tls.TLS_RSA_WITH_AES_128_CBC_SHA}, false},
		{"tls 1.3 skipped", "TLS_AES_128_GCM_SHA256,AES256-SHA", []uint16{tls.TLS_RSA_WITH_AES_256_CBC_SHA}, false},
		{"only unknown", "TLS_AES_128_GCM_SHA256,foo", nil, true},
		{"empty", "", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cipherSuites(tt.in)
			if tt.wantErr {
				assert.Equal(t, ErrNoCipherSuites, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("default list order", func(t *testing.T) {
		got, err := cipherSuites(curlopt.CipherList)
		require.NoError(t, err)
		require.Len(t, got, 12)
		assert.Equal(t, tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256, got[0])
		assert.Equal(t, tls.TLS_RSA_WITH_AES_256_CBC_SHA, got[11])
	})
}

func TestTLSVersion(t *testing.T) {
	tests := []struct {
		in      int64
		want    uint16
		wantErr bool
	}{
		{0, 0, false},
		{4, tls.VersionTLS10, false},
		{curlopt.SSLVersionTLSv1_2, tls.VersionTLS12, false},
		{7, tls.VersionTLS13, false},
		{3, 0, true},
	}
	for _, tt := range tests {
		got, err := tlsVersion(tt.in)
		if tt.wantErr {
			assert.Error(t, err)
			continue
		}
		assert.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestLoadCA(t *testing.T) {
	dir := t.TempDir()
	certs := writeTestCert(t, dir)

	pool, err := loadCAFile(certs.cert)
	require.NoError(t, err)
	assert.NotNil(t, pool)

	_, err = loadCAFile(certs.key)
	assert.Equal(t, ErrNoCertificates, err)

	_, err = loadCAFile(filepath.Join(dir, "missing.pem"))
	assert.True(t, os.IsNotExist(err))

	// the key file and the nested directory are skipped
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0700))
	pool, err = loadCADir(dir)
	require.NoError(t, err)
	assert.NotNil(t, pool)

	_, err = loadCADir(t.TempDir())
	assert.Equal(t, ErrNoCertificates, err)
}

func TestConfigureVerification(t *testing.T) {
	dir := t.TempDir()
	certs := writeTestCert(t, dir)

	tests := []struct {
		name     string
		policy   curlopt.Policy
		insecure bool
		chain    bool
		roots    bool
	}{
		{"off", curlopt.Policy{Verify: curlopt.VerifyOff()}, true, false, false},
		{"bundle file", curlopt.Policy{Verify: curlopt.VerifyWith(certs.cert)}, false, false, true},
		{"bundle directory", curlopt.Policy{Verify: curlopt.VerifyWith(dir)}, false, false, true},
		{"injected bundle", curlopt.Policy{Verify: curlopt.VerifyDefault(), CABundle: certs.combined}, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := curlopt.Derive(httpRequest("https://localhost/"), tt.policy)
			require.NoError(t, err)

			e, err := Configure(set)
			require.NoError(t, err)
			defer e.Release()

			assert.Equal(t, tt.insecure, e.TLS.InsecureSkipVerify)
			assert.Equal(t, tt.chain, e.TLS.VerifyPeerCertificate != nil)
			assert.Equal(t, tt.roots, e.TLS.RootCAs != nil)
		})
	}

	t.Run("peer without host", func(t *testing.T) {
		e := NewEngine()
		defer e.Release()
		require.NoError(t, e.SetOpt(curlopt.SSLVerifyHost, curlopt.VerifyDisabled))
		require.NoError(t, e.SetOpt(curlopt.CAInfo, certs.cert))
		require.NoError(t, e.finish())

		assert.True(t, e.TLS.InsecureSkipVerify)
		require.NotNil(t, e.TLS.VerifyPeerCertificate)

		raw, err := ioutil.ReadFile(certs.cert)
		require.NoError(t, err)
		block, _ := pemDecode(raw)
		assert.NoError(t, e.TLS.VerifyPeerCertificate([][]byte{block}, nil))
		assert.Equal(t, ErrNoCertificates, e.TLS.VerifyPeerCertificate(nil, nil))
	})
}

func TestConfigureClientCert(t *testing.T) {
	dir := t.TempDir()
	certs := writeTestCert(t, dir)

	tests := []struct {
		name string
		cert curlopt.Cert
	}{
		{"pair", curlopt.CertPair(certs.cert, certs.key)},
		{"single file", curlopt.CertFile(certs.combined)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := curlopt.Derive(httpRequest("https://localhost/"), curlopt.Policy{Cert: tt.cert})
			require.NoError(t, err)

			e, err := Configure(set)
			require.NoError(t, err)
			defer e.Release()

			assert.Len(t, e.TLS.Certificates, 1)
		})
	}
}

func pemDecode(raw []byte) ([]byte, bool) {
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, false
	}
	return block.Bytes, true
}
