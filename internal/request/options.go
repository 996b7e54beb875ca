package request

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strings"

	"github.com/assetnote/kitecurl/pkg/curlopt"
	"github.com/assetnote/kitecurl/pkg/http"
	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
)

// Options collects everything needed to describe a request and the policy it is sent under
type Options struct {
	URL     string
	Method  string
	Headers http.Headers
	Body    http.Body
	Policy  curlopt.Policy

	// bodySource is only used for logging
	bodySource string
	uploadSize int64
	progress   io.Writer
	closers    []io.Closer
}

type Option func(o *Options) error

func NewDefaultOptions() *Options {
	return &Options{
		Policy: curlopt.DefaultPolicy(),
	}
}

// New applies every option to the defaults. All options are attempted and their errors returned together
func New(url string, opts ...Option) (*Options, error) {
	o := NewDefaultOptions()
	o.URL = url

	var merr *multierror.Error
	for _, opt := range opts {
		if err := opt(o); err != nil {
			merr = multierror.Append(merr, err)
		}
	}
	if err := o.Validate(); err != nil {
		merr = multierror.Append(merr, err)
	}
	if err := merr.ErrorOrNil(); err != nil {
		o.Close()
		return nil, err
	}

	if o.progress != nil && o.Body.Kind() == http.BodyStream {
		bar := newUploadBar(o.progress, o.uploadSize, o.bodySource)
		o.Body = http.StreamBody(io.TeeReader(o.Body.Stream(), bar))
	}
	return o, nil
}

// Validate will ensure the options are sane after all the flags are applied
func (o *Options) Validate() error {
	if o.URL == "" {
		return fmt.Errorf("no url specified")
	}
	if o.Method != "" && !http.ValidMethod(o.Method) {
		return fmt.Errorf("invalid method %q", o.Method)
	}
	return nil
}

func (o *Options) Request() http.Request {
	return http.Request{
		URL:     o.URL,
		Method:  o.Method,
		Headers: o.Headers,
		Body:    o.Body,
	}
}

// Derivation returns the memoized directive derivation for the request
func (o *Options) Derivation() *curlopt.Derivation {
	return curlopt.NewDerivation(o.Request(), o.Policy)
}

// Close releases any files opened for the body
func (o *Options) Close() error {
	var merr *multierror.Error
	for _, c := range o.closers {
		if err := c.Close(); err != nil {
			merr = multierror.Append(merr, err)
		}
	}
	o.closers = nil
	return merr.ErrorOrNil()
}

func (o Options) String() string {
	p := []string{
		fmt.Sprintf("URL: %s", o.URL),
		fmt.Sprintf("Method: %s", http.NormalizeMethod(o.Method)),
		fmt.Sprintf("Headers: %v", o.Headers.Lines()),
		fmt.Sprintf("Body: %s %s", o.Body.Kind(), o.bodySource),
		fmt.Sprintf("Timeout: %s", o.Policy.Timeout),
		fmt.Sprintf("Verify: %s", o.Policy.Verify),
		fmt.Sprintf("Cert: %s", o.Policy.Cert),
		fmt.Sprintf("CookieJar: %s", o.Policy.CookieJar),
		fmt.Sprintf("Verbose: %v", o.Policy.Verbose),
	}
	return strings.Join(p, "\n")
}

func Method(m string) Option {
	return func(o *Options) error {
		o.Method = m
		return nil
	}
}

func AddHeader(h string) Option {
	return func(o *Options) error {
		hh, err := ParseHeader(h)
		if err != nil {
			return err
		}
		o.Headers = append(o.Headers, hh)
		return nil
	}
}

// AddHeaders adds every valid header and reports all the invalid ones
func AddHeaders(hs []string) Option {
	return func(o *Options) error {
		var merr *multierror.Error
		for _, h := range hs {
			if err := AddHeader(h)(o); err != nil {
				merr = multierror.Append(merr, err)
			}
		}
		return merr.ErrorOrNil()
	}
}

// Data sets a text body. A leading '@' reads the body from the named file instead
func Data(s string) Option {
	if strings.HasPrefix(s, "@") {
		return DataFile(s[1:])
	}
	return func(o *Options) error {
		o.Body = http.TextBody(s)
		o.bodySource = "inline"
		return nil
	}
}

// DataFile reads the whole file into a bytes body
func DataFile(fn string) Option {
	return func(o *Options) error {
		fn, err := homedir.Expand(fn)
		if err != nil {
			return errors.Wrap(err, "failed to expand data file path")
		}
		b, err := ioutil.ReadFile(fn)
		if err != nil {
			return errors.Wrap(err, "failed to read data file")
		}
		o.Body = http.BytesBody(b)
		o.bodySource = fn
		return nil
	}
}

// UploadFile streams the named file as the body. "-" streams stdin. The file stays open until Close
func UploadFile(fn string) Option {
	return func(o *Options) error {
		if fn == "-" {
			o.Body = http.StreamBody(os.Stdin)
			o.bodySource = "stdin"
			o.uploadSize = -1
			return nil
		}

		fn, err := homedir.Expand(fn)
		if err != nil {
			return errors.Wrap(err, "failed to expand upload file path")
		}
		f, err := os.Open(fn)
		if err != nil {
			return errors.Wrap(err, "failed to open upload file")
		}
		o.closers = append(o.closers, f)
		o.Body = http.StreamBody(f)
		o.bodySource = fn
		o.uploadSize = -1
		if fi, err := f.Stat(); err == nil && fi.Mode().IsRegular() {
			o.uploadSize = fi.Size()
		}
		return nil
	}
}

// UploadProgress renders a progress bar to w while a streamed body is read. nil disables it
func UploadProgress(w io.Writer) Option {
	return func(o *Options) error {
		o.progress = w
		return nil
	}
}

func Timeout(s string) Option {
	return func(o *Options) error {
		t, err := ParseTimeout(s)
		if err != nil {
			return err
		}
		o.Policy.Timeout = t
		return nil
	}
}

// Verify toggles verification against the default bundle
func Verify(v bool) Option {
	return func(o *Options) error {
		if v {
			o.Policy.Verify = curlopt.VerifyDefault()
		} else {
			o.Policy.Verify = curlopt.VerifyOff()
		}
		return nil
	}
}

func Insecure() Option {
	return Verify(false)
}

// CACert verifies against the given bundle file or certificate directory
func CACert(path string) Option {
	return func(o *Options) error {
		path, err := homedir.Expand(path)
		if err != nil {
			return errors.Wrap(err, "failed to expand ca path")
		}
		o.Policy.Verify = curlopt.VerifyWith(path)
		return nil
	}
}

// CABundle replaces the bundle used when verification is on without an explicit location
func CABundle(path string) Option {
	return func(o *Options) error {
		path, err := homedir.Expand(path)
		if err != nil {
			return errors.Wrap(err, "failed to expand ca bundle path")
		}
		o.Policy.CABundle = path
		return nil
	}
}

func Cert(s string) Option {
	return func(o *Options) error {
		o.Policy.Cert = ParseCert(s)
		return nil
	}
}

func CookieJar(path string) Option {
	return func(o *Options) error {
		path, err := homedir.Expand(path)
		if err != nil {
			return errors.Wrap(err, "failed to expand cookie jar path")
		}
		o.Policy.CookieJar = path
		return nil
	}
}

func Verbose(v bool) Option {
	return func(o *Options) error {
		o.Policy.Verbose = v
		return nil
	}
}
