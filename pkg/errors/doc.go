/*
The errors package provides the error type returned when a transport fails to apply a directive,
and utilities to print nested and aggregated directive errors.

Applying a directive set attempts every directive and aggregates the failures into a
multierror.Error, so a single bad CA path doesn't hide a bad client certificate.

Usage

	import errors2 "github.com/assetnote/kitecurl/pkg/errors"

	...

	engine, err := transport.Configure(set)
	if err != nil {
		errors2.PrintError(err, 0)
		return fmt.Errorf("failed to configure transport: %w", err)
	}

*/
package errors
