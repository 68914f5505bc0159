package oidc

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/authzserver/internal/decision"
)

type countingRelay struct {
	decision.Relay // nil: solo se usan JWKS y Configuration

	jwksCalls atomic.Int32
	confCalls atomic.Int32
	fail      atomic.Bool
	gate      chan struct{}
}

func (r *countingRelay) JWKS(context.Context) ([]byte, error) {
	r.jwksCalls.Add(1)
	if r.gate != nil {
		<-r.gate
	}
	if r.fail.Load() {
		return nil, errors.New("upstream down")
	}
	return []byte(`{"keys":[]}`), nil
}

func (r *countingRelay) Configuration(context.Context) ([]byte, error) {
	r.confCalls.Add(1)
	return []byte(`{"issuer":"https://as.example.com"}`), nil
}

func TestJWKS_Cached(t *testing.T) {
	relay := &countingRelay{}
	svc := NewServices(Deps{Relay: relay, TTL: time.Minute})

	for i := 0; i < 3; i++ {
		doc, err := svc.JWKS.GetJWKS(context.Background())
		require.NoError(t, err)
		assert.JSONEq(t, `{"keys":[]}`, string(doc))
	}
	assert.EqualValues(t, 1, relay.jwksCalls.Load())

	doc, err := svc.Discovery.GetDiscovery(context.Background())
	require.NoError(t, err)
	assert.Contains(t, string(doc), "as.example.com")
	assert.EqualValues(t, 1, relay.confCalls.Load())
}

func TestJWKS_ErrorsAreNotCached(t *testing.T) {
	relay := &countingRelay{}
	relay.fail.Store(true)
	svc := NewServices(Deps{Relay: relay, TTL: time.Minute})

	_, err := svc.JWKS.GetJWKS(context.Background())
	require.Error(t, err)

	relay.fail.Store(false)
	_, err = svc.JWKS.GetJWKS(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, relay.jwksCalls.Load())
}

func TestJWKS_ConcurrentFetchesCollapse(t *testing.T) {
	relay := &countingRelay{gate: make(chan struct{})}
	svc := NewServices(Deps{Relay: relay, TTL: time.Minute})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.JWKS.GetJWKS(context.Background())
			assert.NoError(t, err)
		}()
	}
	// dar tiempo a que todas entren al singleflight antes de liberar
	time.Sleep(50 * time.Millisecond)
	close(relay.gate)
	wg.Wait()

	assert.LessOrEqual(t, relay.jwksCalls.Load(), int32(8))
	assert.GreaterOrEqual(t, relay.jwksCalls.Load(), int32(1))
}
