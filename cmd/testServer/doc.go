/*
Package testServer provides a fasthttp server for running kitecurl send against.

	/echo/*         responds with the method, request headers and body
	/redir/{dest}   redirects with a 302 to /{dest}
	/status/{code}  responds with the given status code

The server is used for manual testing, and should not be used in a production environment.

Usage

	go run ./cmd/testServer -p 14000-14002
	kitecurl send http://localhost:14000/redir/echo/foo -d 'a=b' -i
*/
package main
