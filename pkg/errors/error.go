package errors

import (
	"errors"
	"fmt"

	"github.com/assetnote/kitecurl/pkg/log"
	"github.com/hashicorp/go-multierror"
)

// prefixfromDepth will create the indent prefix for a certain depth
// of string, e.g. 2 will yield "  " * 2 -> "    "
func prefixFromDepth(depth int) string {
	var p []byte
	for i := 0; i < depth; i++ {
		p = append(p, "  "...)
	}
	return string(p)
}

// PrintError will attempt to traverse the nested error and
// recursively print out any nested DirectiveErrors found
// If a multierror.Error is found, we will recurisvely print out
// each error found
func PrintError(err error, depth int) {
	var (
		merr *multierror.Error
		derr *DirectiveError
	)

	if errors.As(err, &merr) {
		for _, v := range merr.Errors {
			PrintError(v, depth+1)
		}
	} else if errors.As(err, &derr) {
		derr.LogError(depth)
	} else {
		log.Error().Err(err).Msg(prefixFromDepth(depth) + "error")
	}
}

// DirectiveError is returned by a transport when a directive can't be applied.
// Option and Value are kept as strings so this package doesn't depend on the directive vocabulary
type DirectiveError struct {
	Option  string // Option is the CURLOPT_ name of the directive
	Value   string // Value is the rendered value, may be truncated by the caller
	Err     error
	Context string // Context explains what the transport was trying to do with the value
}

// Error will return the string representation of the error, followed by the cause if there is one
func (d *DirectiveError) Error() string {
	if d.Err == nil {
		return fmt.Sprintf("directiveError [%s]: %s", d.Option, d.Context)
	}
	return fmt.Sprintf("directiveError [%s]: %s: %s", d.Option, d.Context, d.Err.Error())
}

func (d *DirectiveError) Unwrap() error {
	return d.Err
}

// LogError will log to Error() the context surrounding the error.
// the depth argument modifies the indentation depth of the pretty printed error
func (d *DirectiveError) LogError(depth int) {
	var (
		merr *multierror.Error
		derr *DirectiveError
	)
	base := log.Error().
		Str("option", d.Option).
		Str("context", d.Context)

	// long values like bodies are noisy
	if len(d.Value) < 100 {
		base = base.Str("value", d.Value)
	}

	if errors.As(d.Err, &merr) {
		base.Msg(prefixFromDepth(depth))
		PrintError(merr, depth+1)
	} else if errors.As(d.Err, &derr) {
		base.Err(derr.Err).Msg(prefixFromDepth(depth))
		derr.LogError(depth + 1)
	} else {
		base.Err(d.Err).Msg(prefixFromDepth(depth))
	}
}
