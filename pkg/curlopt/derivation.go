package curlopt

import (
	"sync"
	"time"

	"github.com/assetnote/kitecurl/pkg/http"
	"github.com/assetnote/kitecurl/pkg/log"
	"github.com/segmentio/ksuid"
)

// Derivation computes the directive set for one request the first time it is asked for, and hands out
// the same result afterwards. It is created per request and dropped once the transport call is complete.
// Since the result owns the stream for streamed uploads, the Derivation must outlive the transport call.
//
// Options is safe to call from multiple goroutines.
type Derivation struct {
	ID string // ID is a ksuid used to correlate log lines for this request

	req    http.Request
	policy Policy

	once sync.Once
	set  *Set
	err  error
}

func NewDerivation(req http.Request, policy Policy) *Derivation {
	return &Derivation{
		ID:     ksuid.New().String(),
		req:    req,
		policy: policy,
	}
}

// Request returns the request the derivation was created for
func (d *Derivation) Request() http.Request {
	return d.req
}

// Options returns the directive set, computing it on the first call
func (d *Derivation) Options() (*Set, error) {
	d.once.Do(func() {
		start := time.Now()
		d.set, d.err = Derive(d.req, d.policy)
		if d.err != nil {
			log.Debug().Str("id", d.ID).Object("request", d.req).Err(d.err).Msg("failed to derive options")
			return
		}
		log.Debug().
			Str("id", d.ID).
			Object("request", d.req).
			Int("directives", d.set.Len()).
			Dur("elapsed", time.Since(start)).
			Msg("derived options")
		log.Trace().Str("id", d.ID).Object("options", d.set).Msg("derived options")
	})
	return d.set, d.err
}
