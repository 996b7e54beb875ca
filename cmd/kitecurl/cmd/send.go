package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/assetnote/kitecurl/internal/request"
	"github.com/assetnote/kitecurl/pkg/context"
	"github.com/assetnote/kitecurl/pkg/errors"
	"github.com/assetnote/kitecurl/pkg/http"
	"github.com/assetnote/kitecurl/pkg/log"
	"github.com/assetnote/kitecurl/pkg/transport"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// exitFailStatus matches curl --fail
const exitFailStatus = 22

var (
	maxRedirects int
	showHeaders  bool
	failStatus   string
	progress     bool
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send <url>",
	Short: "derive the directives for a request and send it",
	Long: `send derives the libcurl directives for the request, applies them to a
fasthttp transport and sends the request.

directives fasthttp has no equivalent for (http2, alps, npn, certificate
compression, cookie jars) are ignored. use -v=trace to see them.

--fail-status exits with code 22 when the final status code is in any of the
given ranges, e.g. --fail-status 400-599`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		code, err := sendRequest(os.Stdout, args[0])
		if err != nil {
			log.Fatal().Err(err).Msg("failed to send request")
		}
		if code != 0 {
			os.Exit(code)
		}
	},
}

// sendRequest sends the request described by the flags and writes the response to w. It returns the
// process exit code. Everything opened for the request is released before it returns
func sendRequest(w io.Writer, url string) (int, error) {
	fail, err := http.RangesFromString(failStatus)
	if err != nil {
		return 0, fmt.Errorf("invalid status range %q: %w", failStatus, err)
	}

	var extra []request.Option
	if progress {
		extra = append(extra, request.UploadProgress(os.Stderr))
	}

	o, err := requestOptions(url, extra...)
	if err != nil {
		errors.PrintError(err, 0)
		return 0, fmt.Errorf("invalid request options")
	}
	defer o.Close()

	d := o.Derivation()
	set, err := d.Options()
	if err != nil {
		return 0, fmt.Errorf("failed to derive directives for %s: %w", d.ID, err)
	}

	engine, err := transport.Configure(set)
	if err != nil {
		engine.Release()
		errors.PrintError(err, 0)
		return 0, fmt.Errorf("failed to configure transport for %s", d.ID)
	}
	engine.MaxRedirects = maxRedirects

	resp, err := engine.DoContext(context.Context())
	if err != nil {
		// a cancelled request may still be in flight so the engine is not released
		log.Error().Str("id", d.ID).Object("request", d.Request()).Msg("request failed")
		return 0, err
	}
	engine.Release()

	last := resp.Last()
	if !viper.GetBool("quiet") {
		log.Info().
			Str("id", d.ID).
			Int("sc", last.StatusCode).
			Str("size", humanize.Bytes(uint64(last.BodyLength))).
			Int("words", last.Words).
			Int("lines", last.Lines).
			Int("redirects", len(resp.Flatten())-1).
			Msg("response")
	}
	if last.Error != nil {
		log.Warn().Err(last.Error).Msg("redirect chain ended early")
	}

	if err := writeResponse(w, &resp, viper.GetString("output"), showHeaders); err != nil {
		return 0, fmt.Errorf("failed to write response: %w", err)
	}

	if fail.Contains(last.StatusCode) {
		return exitFailStatus, nil
	}
	return 0, nil
}

func init() {
	rootCmd.AddCommand(sendCmd)
	addRequestFlags(sendCmd)

	sendCmd.Flags().IntVar(&maxRedirects, "max-redirs", transport.DefaultMaxRedirects, "maximum number of redirects to follow")
	sendCmd.Flags().BoolVarP(&showHeaders, "include", "i", false, "print the response headers of every hop")
	sendCmd.Flags().BoolVar(&progress, "progress", false, "show a progress bar while streaming --upload-file")
	sendCmd.Flags().StringVar(&failStatus, "fail-status", "", "exit with code 22 when the final status is in these ranges")
}
