/*
Package cmd provides all the commands for the kitecurl binary.

The commands are separated by file. derive.go prints the directives for a request, send.go applies them to
the fasthttp transport and sends the request. The request flags are shared between both and defined in
request.go.

Flags can also be set in $HOME/.kitecurl.yaml or through KITECURL_ prefixed environment variables

Usage

	kitecurl derive https://example.com -X POST -d 'a=b' --timeout 2,5 -o text
	kitecurl send https://example.com -k -i --fail-status 400-599
*/
package cmd
