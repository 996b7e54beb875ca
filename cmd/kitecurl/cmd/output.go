package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/assetnote/kitecurl/pkg/curlopt"
	"github.com/assetnote/kitecurl/pkg/log"
	"github.com/assetnote/kitecurl/pkg/transport"
	"github.com/francoispqt/gojay"
	"github.com/olekukonko/tablewriter"
)

// writeSet renders the directives as json, plain "NAME: value" lines or a table
func writeSet(w io.Writer, set *curlopt.Set, format string) error {
	switch format {
	case "json":
		if err := gojay.NewEncoder(w).EncodeObject(set); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n")
		return err
	case "text":
		_, err := w.Write(set.Bytes())
		return err
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"option", "value"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetFooter([]string{"directives", strconv.Itoa(set.Len())})

	set.Each(func(opt curlopt.Option, value interface{}) {
		v := curlopt.FormatValue(value)
		if lines, ok := value.([]string); ok {
			v = strings.Join(lines, "\n")
		}
		table.Append([]string{opt.String(), v})
	})
	table.Render()
	return nil
}

// writeResponse writes the redirect chain followed by the final body. json output is a single line written
// through log.Stdout, redirected to w
func writeResponse(w io.Writer, resp *transport.Response, format string, headers bool) error {
	last := resp.Last()
	if format == "json" {
		out := log.Stdout.Output(w)
		out.Log().
			Int("sc", last.StatusCode).
			Int("len", last.BodyLength).
			Array("chain", resp.Flatten()).
			Array("headers", last.Headers).
			Str("body", string(last.Body)).
			Send()
		return nil
	}

	for _, r := range resp.Flatten() {
		uri := r.URI
		if uri == "" {
			uri = "-"
		}
		if _, err := fmt.Fprintf(w, "< %d %s\n", r.StatusCode, uri); err != nil {
			return err
		}
		if !headers {
			continue
		}
		for i := range r.Headers {
			if _, err := io.WriteString(w, "< "); err != nil {
				return err
			}
			if _, err := r.Headers[i].Write(w); err != nil {
				return err
			}
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}
	_, err := w.Write(last.Body)
	return err
}
