/*
Package transport executes requests configured from a curlopt.Set using fasthttp.

The Engine implements curlopt.Sink, so the directives derived for a request are applied exactly as a
libcurl handle would receive them. Directives fasthttp cannot honour, such as HTTP/2 or ALPS, are accepted
and logged at trace level.

Usage

	set, err := curlopt.Derive(req, curlopt.DefaultPolicy())
	if err != nil {
		return err
	}
	engine, err := transport.Configure(set)
	if err != nil {
		errors.PrintError(err, 0)
		return err
	}
	defer engine.Release()

	resp, err := engine.Do()

Redirects are followed manually so every hop is kept in the Response chain. Streamed uploads cannot be
replayed, so a 307 or 308 after a streamed body ends the chain.
*/
package transport
