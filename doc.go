/*
Package kitecurl derives the libcurl directives a browser-like client sets for a request, and can send the
request through a fasthttp transport configured from those directives.

There are no exports in the root package.

Packages:
	- pkg/curlopt - the option derivation engine. Request + Policy in, ordered directive Set out
	- pkg/http - the request descriptor, headers, methods and the body tagged union
	- pkg/transport - a fasthttp engine configured from a directive Set
	- pkg/errors - DirectiveError and helpers for printing nested multierrors

CLI tools part of `cmd/` include:
	- kitecurl - derive prints the directives for a request, send executes it
	- testServer - an echo and redirect server to send requests against
*/
package kitecurl
