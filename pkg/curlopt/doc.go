/*
Package curlopt derives the flat set of transport directives needed to execute a http.Request through a
libcurl style transport engine.

Derivation is a fold over independent steps, each returning a patch of directives. Patches are merged
in a fixed order and a later patch overwrites any option an earlier one set:

	static -> headers -> body -> method -> timeout -> ca -> cert

The body step decides between a buffered form field (PostFields) and a streamed upload (Upload +
ReadFunction). Text, and bytes that are not already multipart encoded, are buffered. Streams, and
multipart bytes, are streamed. HEAD requests never carry a body.

The static directives (cipher list, TLS floor, HTTP/2 pseudo header order, certificate compression)
are matched by servers doing TLS and HTTP/2 fingerprinting and are reproduced exactly.

Usage

	d := curlopt.NewDerivation(req, curlopt.Policy{
		Timeout: curlopt.TimeoutPair(2, 5),
		Verify:  curlopt.VerifyWith("/etc/ssl/certs"),
		Cert:    curlopt.CertPair("client.pem", "client.key"),
	})

	set, err := d.Options()
	if err != nil {
		return fmt.Errorf("failed to derive options: %w", err)
	}
	if err := set.Apply(engine); err != nil {
		return err
	}

Nothing in this package performs I/O other than the os.Stat used to decide whether the CA location
is a directory.
*/
package curlopt
