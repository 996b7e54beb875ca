/*
Package http describes a request independently of any transport.

A Request is a URL, a method, an ordered list of headers and a Body. Header keys are kept exactly as
supplied and duplicates are allowed. The Body is a tagged union: absent, text, bytes or a stream. Construct
one with NoBody, TextBody, BytesBody or StreamBody; the kind is never guessed from the value.

	req := http.Request{
		URL:     "https://example.com/upload",
		Method:  http.MethodPut,
		Headers: http.Headers{{Key: "Content-Type", Value: "application/octet-stream"}},
		Body:    http.StreamBody(f),
	}

FromFastHTTP snapshots an existing fasthttp.Request into a Request.
*/
package http
