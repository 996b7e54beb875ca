package curlopt

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/assetnote/kitecurl/pkg/http"
	"github.com/assetnote/kitecurl/pkg/log"
	"github.com/dustin/go-humanize"
)

// multipartPrefix marks bodies that are already multipart encoded. These are streamed rather than
// sent as a form field so the encoding isn't applied twice
const multipartPrefix = "multipart/form-data;"

type deriver struct {
	req    http.Request
	policy Policy
	method string

	// stream is set by the body step when the upload is streamed
	stream io.Reader
}

type step struct {
	name string
	fn   func(*deriver) (patch, error)
}

// steps is the fold order. Method must come after body: a streamed upload switches the transport
// into upload mode, and the method directive has to win over that
var steps = []step{
	{"static", (*deriver).static},
	{"headers", (*deriver).headers},
	{"body", (*deriver).body},
	{"method", (*deriver).methodOverride},
	{"timeout", (*deriver).timeout},
	{"ca", (*deriver).ca},
	{"cert", (*deriver).cert},
}

// Derive computes the transport directives for req under policy. Each step produces a patch which
// is folded into the set in the order: static, headers, body, method, timeout, CA, certificate.
//
// The only error is from checking whether the CA location is a directory; it is returned as is.
// A CA location that does not exist is treated as a file.
func Derive(req http.Request, policy Policy) (*Set, error) {
	d := &deriver{
		req:    req,
		policy: policy,
		method: http.NormalizeMethod(req.Method),
	}

	s := newSet()
	for _, st := range steps {
		p, err := st.fn(d)
		if err != nil {
			return nil, err
		}
		log.Trace().Str("step", st.name).Int("directives", len(p)).Msg("merging patch")
		s.merge(p)
	}
	s.stream = d.stream
	return s, nil
}

func (d *deriver) static() (patch, error) {
	verbose := int64(0)
	if d.policy.Verbose {
		verbose = 1
	}
	return patch{
		{URL, d.req.URL},
		{SSLCipherList, CipherList},
		{HTTPVersion, HTTPVersion2_0},
		{SSLVersion, SSLVersionTLSv1_2},
		{SSLEnableALPS, int64(1)},
		{SSLCertCompression, CertCompressionBrotli},
		{HTTP2PseudoHeadersOrder, PseudoHeadersOrder},
		{SSLEnableNPN, int64(0)},
		{Verbose, verbose},
		{FollowLocation, int64(1)},
		{CookieJar, d.policy.CookieJar},
	}, nil
}

func (d *deriver) headers() (patch, error) {
	return patch{{HTTPHeader, d.req.Headers.Lines()}}, nil
}

func (d *deriver) body() (patch, error) {
	if d.method == http.MethodHead {
		return patch{{NoBody, true}}, nil
	}

	b := d.req.Body
	if b.IsEmpty() {
		return nil, nil
	}

	switch b.Kind() {
	case http.BodyText:
		traceBody(b.Len(), "buffering text body")
		return patch{{PostFields, []byte(b.Text())}}, nil
	case http.BodyBytes:
		if !strings.HasPrefix(d.req.ContentType(), multipartPrefix) {
			traceBody(b.Len(), "buffering body")
			return patch{{PostFields, b.Bytes()}}, nil
		}
		traceBody(b.Len(), "streaming multipart body")
		d.stream = bytes.NewReader(b.Bytes())
	case http.BodyStream:
		d.stream = b.Stream()
	default:
		return nil, nil
	}

	return patch{
		{Upload, true},
		{ReadFunction, ReadFunc(d.stream.Read)},
	}, nil
}

// traceBody skips humanizing the size unless trace logging is on
func traceBody(size int, msg string) {
	if !log.Enabled(log.TraceLevel) {
		return
	}
	log.Trace().Str("size", humanize.Bytes(uint64(size))).Msg(msg)
}

func (d *deriver) methodOverride() (patch, error) {
	if d.method == http.MethodGet {
		return nil, nil
	}
	return patch{{CustomRequest, d.method}}, nil
}

func (d *deriver) timeout() (patch, error) {
	t := d.policy.Timeout
	if !t.IsSet() {
		return nil, nil
	}
	if connect, read, ok := t.Pair(); ok {
		return patch{
			{TimeoutMS, int64(1000 * (connect + read))},
			{ConnectTimeoutMS, int64(1000 * connect)},
		}, nil
	}
	total, _ := t.Seconds()
	return patch{{TimeoutMS, int64(1000 * total)}}, nil
}

func (d *deriver) ca() (patch, error) {
	v := d.policy.Verify
	if !v.Enabled() {
		return patch{
			{SSLVerifyHost, VerifyDisabled},
			{SSLVerifyPeer, VerifyDisabled},
		}, nil
	}

	location := v.Path()
	if location == "" {
		location = d.policy.caBundle()
	}

	dir, err := isDir(location)
	if err != nil {
		return nil, err
	}
	opt := CAInfo
	if dir {
		opt = CAPath
	}

	return patch{
		{SSLVerifyHost, VerifyStrict},
		{SSLVerifyPeer, VerifyStrict},
		{opt, location},
	}, nil
}

func (d *deriver) cert() (patch, error) {
	c := d.policy.Cert
	if !c.IsSet() {
		return nil, nil
	}
	if key, ok := c.KeyPath(); ok {
		return patch{
			{SSLCert, c.CertPath()},
			{SSLKey, key},
		}, nil
	}
	return patch{{SSLCert, c.CertPath()}}, nil
}

// isDir is checked on every derivation, the filesystem may have changed in between.
// Paths that don't exist are not directories, any other stat failure is returned
func isDir(path string) (bool, error) {
	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) || errors.Is(err, syscall.ENOTDIR) {
			return false, nil
		}
		return false, err
	}
	return fi.IsDir(), nil
}
