/*
Package context wraps the native go/context package with interrupt handling.

The CLI uses the process wide context to stop waiting on a request when the user hits ctrl-c. A second
interrupt exits straight away.

	import "github.com/assetnote/kitecurl/pkg/context"

	...

	resp, err := engine.DoContext(context.Context())
	if err != nil {
		log.Fatal().Err(err).Msg("request failed")
	}
*/
package context
