package curlopt

import (
	"fmt"
	"strings"
)

// Option is a transport directive key. The vocabulary is fixed and mirrors the libcurl option
// names the directive would be applied as
type Option int

const (
	URL Option = iota
	HTTPHeader
	SSLCipherList
	HTTPVersion
	SSLVersion
	SSLEnableALPS
	SSLCertCompression
	HTTP2PseudoHeadersOrder
	SSLEnableNPN
	Verbose
	FollowLocation
	CookieJar
	NoBody
	PostFields
	Upload
	ReadFunction
	CustomRequest
	TimeoutMS
	ConnectTimeoutMS
	SSLVerifyHost
	SSLVerifyPeer
	CAInfo
	CAPath
	SSLCert
	SSLKey

	numOptions
)

var optionNames = [numOptions]string{
	URL:                     "CURLOPT_URL",
	HTTPHeader:              "CURLOPT_HTTPHEADER",
	SSLCipherList:           "CURLOPT_SSL_CIPHER_LIST",
	HTTPVersion:             "CURLOPT_HTTP_VERSION",
	SSLVersion:              "CURLOPT_SSLVERSION",
	SSLEnableALPS:           "CURLOPT_SSL_ENABLE_ALPS",
	SSLCertCompression:      "CURLOPT_SSL_CERT_COMPRESSION",
	HTTP2PseudoHeadersOrder: "CURLOPT_HTTP2_PSEUDO_HEADERS_ORDER",
	SSLEnableNPN:            "CURLOPT_SSL_ENABLE_NPN",
	Verbose:                 "CURLOPT_VERBOSE",
	FollowLocation:          "CURLOPT_FOLLOWLOCATION",
	CookieJar:               "CURLOPT_COOKIEJAR",
	NoBody:                  "CURLOPT_NOBODY",
	PostFields:              "CURLOPT_POSTFIELDS",
	Upload:                  "CURLOPT_UPLOAD",
	ReadFunction:            "CURLOPT_READFUNCTION",
	CustomRequest:           "CURLOPT_CUSTOMREQUEST",
	TimeoutMS:               "CURLOPT_TIMEOUT_MS",
	ConnectTimeoutMS:        "CURLOPT_CONNECTTIMEOUT_MS",
	SSLVerifyHost:           "CURLOPT_SSL_VERIFYHOST",
	SSLVerifyPeer:           "CURLOPT_SSL_VERIFYPEER",
	CAInfo:                  "CURLOPT_CAINFO",
	CAPath:                  "CURLOPT_CAPATH",
	SSLCert:                 "CURLOPT_SSLCERT",
	SSLKey:                  "CURLOPT_SSLKEY",
}

func (o Option) String() string {
	if o >= 0 && o < numOptions {
		return optionNames[o]
	}
	return fmt.Sprintf("Option(%d)", int(o))
}

// OptionFromString looks up an option by its CURLOPT_ name. The CURLOPT_ prefix and case are optional
func OptionFromString(in string) (Option, error) {
	in = strings.ToUpper(in)
	if !strings.HasPrefix(in, "CURLOPT_") {
		in = "CURLOPT_" + in
	}
	for o, name := range optionNames {
		if name == in {
			return Option(o), nil
		}
	}
	return 0, ErrUnknownOption
}

var (
	ErrUnknownOption = fmt.Errorf("unknown option")
)

// Values emitted for the fixed directives. These are matched by servers doing TLS and HTTP/2
// fingerprinting and must not change
const (
	HTTPVersion2_0    int64 = 3 // CURL_HTTP_VERSION_2_0
	SSLVersionTLSv1_2 int64 = 6 // CURL_SSLVERSION_TLSv1_2

	CertCompressionBrotli = "brotli"
	PseudoHeadersOrder    = "masp" // :method :authority :scheme :path

	VerifyDisabled int64 = 0
	VerifyStrict   int64 = 2
)

var ciphers = []string{
	"TLS_AES_128_GCM_SHA256", "TLS_AES_256_GCM_SHA384", "TLS_CHACHA20_POLY1305_SHA256",
	"ECDHE-ECDSA-AES128-GCM-SHA256", "ECDHE-RSA-AES128-GCM-SHA256", "ECDHE-ECDSA-AES256-GCM-SHA384",
	"ECDHE-RSA-AES256-GCM-SHA384", "ECDHE-ECDSA-CHACHA20-POLY1305", "ECDHE-RSA-CHACHA20-POLY1305",
	"ECDHE-RSA-AES128-SHA", "ECDHE-RSA-AES256-SHA", "AES128-GCM-SHA256", "AES256-GCM-SHA384",
	"AES128-SHA,AES256-SHA",
}

// CipherList is the preferred cipher suite string. Order matters
var CipherList = strings.Join(ciphers, ",")
