package main

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShutdownOnDoneDrainsInFlightRequests(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	release := make(chan struct{})
	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		<-release
		w.WriteHeader(http.StatusOK)
	})}
	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(ln) }()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		shutdownOnDone(ctx, srv)
		close(done)
	}()

	status := make(chan int, 1)
	go func() {
		resp, err := http.Get("http://" + ln.Addr().String())
		if err != nil {
			status <- 0
			return
		}
		resp.Body.Close()
		status <- resp.StatusCode
	}()

	// Let the request reach the handler, then trigger shutdown while it
	// is still blocked.
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
		t.Fatal("shutdown returned while a request was still in flight")
	case <-time.After(150 * time.Millisecond):
	}

	close(release)

	select {
	case code := <-status:
		assert.Equal(t, http.StatusOK, code)
	case <-time.After(3 * time.Second):
		t.Fatal("in-flight request never completed")
	}
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("shutdown never returned after drain")
	}
	require.ErrorIs(t, <-serveErr, http.ErrServerClosed)
}
