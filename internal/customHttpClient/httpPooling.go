package customHttpClient

import (
	"net/http"

	"github.com/nvarma/ers-rag/internal/config"
)

var pooledTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

var pooledClient = &http.Client{Transport: pooledTransport}

// PooledClient returns the shared connection-pooling HTTP client used by the
// REST-based external services, so repeated embedding calls reuse connections
// instead of paying the handshake on every request.
func PooledClient() *http.Client {
	return pooledClient
}
