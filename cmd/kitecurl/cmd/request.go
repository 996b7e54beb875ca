package cmd

import (
	"fmt"

	"github.com/assetnote/kitecurl/internal/request"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var requestFlags = []string{
	"request",
	"header",
	"data",
	"upload-file",
	"timeout",
	"insecure",
	"cacert",
	"ca-bundle",
	"cert",
	"cookie-jar",
	"transport-verbose",
}

// addRequestFlags registers the flags describing the request and its policy
func addRequestFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("request", "X", "", "http method. defaults to GET")
	f.StringSliceP("header", "H", []string{}, "header to send as 'Key: Value'. can be repeated")
	f.StringP("data", "d", "", "text body to send. @file sends the file contents")
	f.StringP("upload-file", "T", "", "file to stream as the body. - streams stdin")
	f.String("timeout", "", "timeout in seconds. 'connect,read' sets both")
	f.BoolP("insecure", "k", false, "disable certificate verification")
	f.String("cacert", "", "ca bundle file or certificate directory to verify against")
	f.String("ca-bundle", "", "bundle used when verifying without --cacert")
	f.StringP("cert", "E", "", "client certificate as cert[:key]")
	f.StringP("cookie-jar", "c", "", "cookie jar path handed to the transport")
	f.Bool("transport-verbose", false, "enable the transport's verbose mode")

	// flags are bound when the command runs, several commands share the keys
	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		for _, name := range requestFlags {
			viper.BindPFlag(name, cmd.Flags().Lookup(name))
		}
	}
}

// requestOptions builds the request from the bound flags and config file. extra is applied last
func requestOptions(url string, extra ...request.Option) (*request.Options, error) {
	data := viper.GetString("data")
	upload := viper.GetString("upload-file")
	if data != "" && upload != "" {
		return nil, fmt.Errorf("--data and --upload-file are mutually exclusive")
	}

	opts := []request.Option{
		request.Method(viper.GetString("request")),
		request.AddHeaders(viper.GetStringSlice("header")),
		request.Timeout(viper.GetString("timeout")),
		request.Verbose(viper.GetBool("transport-verbose")),
	}
	if data != "" {
		opts = append(opts, request.Data(data))
	}
	if upload != "" {
		opts = append(opts, request.UploadFile(upload))
	}
	if v := viper.GetString("cacert"); v != "" {
		opts = append(opts, request.CACert(v))
	}
	// -k wins over --cacert
	if viper.GetBool("insecure") {
		opts = append(opts, request.Insecure())
	}
	if v := viper.GetString("ca-bundle"); v != "" {
		opts = append(opts, request.CABundle(v))
	}
	if v := viper.GetString("cert"); v != "" {
		opts = append(opts, request.Cert(v))
	}
	if v := viper.GetString("cookie-jar"); v != "" {
		opts = append(opts, request.CookieJar(v))
	}

	return request.New(url, append(opts, extra...)...)
}
