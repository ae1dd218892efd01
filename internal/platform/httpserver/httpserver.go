package httpserver

import (
	"net/http"
	"time"
)

// Every endpoint exchanges small JSON payloads; nothing streams or
// long-polls, so the timeouts can be tight. WriteTimeout leaves
// headroom for a cold rating-service fetch behind a cache miss.
const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 10 * time.Second
	writeTimeout      = 15 * time.Second
	idleTimeout       = 60 * time.Second
)

// New builds the API server with the timeouts above applied.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
}
