package main

import (
	"flag"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/assetnote/kitecurl/pkg/http"
	"github.com/assetnote/kitecurl/pkg/log"
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
)

var (
	requestCount count32
)

type count32 struct {
	val uint32
}

func (c *count32) increment() {
	atomic.AddUint32(&c.val, 1)
}

func (c *count32) get() uint32 {
	return atomic.LoadUint32(&c.val)
}

// Echo writes back the method, every request header and the body
func Echo(ctx *fasthttp.RequestCtx) {
	requestCount.increment()

	log.Debug().
		Bytes("method", ctx.Method()).
		Bytes("uri", ctx.RequestURI()).
		Msg("echo")

	fmt.Fprintf(ctx, "%s %s\n", ctx.Method(), ctx.RequestURI())
	ctx.Request.Header.VisitAll(func(k, v []byte) {
		fmt.Fprintf(ctx, "%s: %s\n", k, v)
	})
	ctx.WriteString("\n")
	ctx.Write(ctx.PostBody())
}

// Redirect sends a 302 to /dest
func Redirect(ctx *fasthttp.RequestCtx) {
	requestCount.increment()

	fmt.Fprintf(ctx, "go to, %s!\n", ctx.UserValue("dest"))
	ctx.SetStatusCode(fasthttp.StatusFound)
	ctx.Response.Header.Add("location", "/"+ctx.UserValue("dest").(string))
}

// Status responds with the status code from the path
func Status(ctx *fasthttp.RequestCtx) {
	requestCount.increment()

	code, err := strconv.Atoi(ctx.UserValue("code").(string))
	if err != nil || code < 100 || code > 999 {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		return
	}
	ctx.SetStatusCode(code)
	fmt.Fprintf(ctx, "%d\n", code)
}

func StatsFunc(end <-chan bool) {
	lastRequest := time.Now()
	lastRequestCount := requestCount.get()
	for {
		select {
		case <-end:
			fmt.Println("\nTerminating.")
			return
		case <-time.After(time.Second):
			timeDiff := time.Since(lastRequest).Seconds()
			curRequestCount := requestCount.get()
			rps := float64(curRequestCount-lastRequestCount) / timeDiff

			fmt.Printf("Total Requests: %d. RPS: %f\t\t\t\t\r", curRequestCount, rps)
			lastRequest = time.Now()
			lastRequestCount = curRequestCount
		}
	}
}

func newRouter() *router.Router {
	r := router.New()
	r.Handle("*", "/echo/{path:*}", Echo)
	r.Handle("*", "/echo", Echo)
	r.Handle("*", "/redir/{dest:*}", Redirect)
	r.Handle("*", "/status/{code}", Status)
	return r
}

func main() {
	var (
		portRange string
		verbose   string
	)
	flag.StringVar(&portRange, "p", "14000", "port or range of ports to start servers on")
	flag.StringVar(&verbose, "v", "info", "log level")
	flag.Parse()

	if err := log.SetLevelString(verbose); err != nil {
		log.Fatal().Err(err).Msg("invalid log level")
	}

	ports, err := http.RangeFromString(portRange)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid port range. format should be <int> or <int>-<int>")
	}

	r := newRouter()

	var wg sync.WaitGroup
	for i := ports.Min; i <= ports.Max; i++ {
		wg.Add(1)
		go func(port int) {
			defer wg.Done()
			host := fmt.Sprintf(":%d", port)
			log.Info().Str("host", host).Msg("starting server")
			if err := fasthttp.ListenAndServe(host, r.Handler); err != nil {
				log.Fatal().Err(err).Msg("failed to start server")
			}
		}(i)
	}
	statsFunc := make(chan bool)

	go StatsFunc(statsFunc)
	wg.Wait()

	statsFunc <- true
	close(statsFunc)
}
