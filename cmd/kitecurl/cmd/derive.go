package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/assetnote/kitecurl/pkg/errors"
	"github.com/assetnote/kitecurl/pkg/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// deriveCmd represents the derive command
var deriveCmd = &cobra.Command{
	Use:   "derive <url>",
	Short: "print the libcurl directives for a request",
	Long: `derive computes the libcurl directives a browser-like client sets for
the request described by the flags and prints them without sending anything.

the output format follows -o: pretty renders a table, text renders one
"CURLOPT_NAME: value" line per directive and json renders a single object

passing --cacert checks whether the path is a directory on every run, so a
bundle directory is emitted as CURLOPT_CAPATH and anything else as CURLOPT_CAINFO`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := deriveRequest(os.Stdout, args[0]); err != nil {
			log.Fatal().Err(err).Msg("failed to derive request")
		}
	},
}

// deriveRequest writes the directives for the request described by the flags to w
func deriveRequest(w io.Writer, url string) error {
	o, err := requestOptions(url)
	if err != nil {
		errors.PrintError(err, 0)
		return fmt.Errorf("invalid request options")
	}
	defer o.Close()
	log.Debug().Msg(o.String())

	d := o.Derivation()
	set, err := d.Options()
	if err != nil {
		return fmt.Errorf("failed to derive directives for %s: %w", d.ID, err)
	}
	return writeSet(w, set, viper.GetString("output"))
}

func init() {
	rootCmd.AddCommand(deriveCmd)
	addRequestFlags(deriveCmd)
}
