package nats

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codewandler/mgmt-go/core/mgmt"
)

type cacheStats struct {
	hits int
}

func (s *cacheStats) GetHits() int { return s.hits }

func runServer(t *testing.T, connect Connector, host, port string, reg *mgmt.ObjectRegistry, creds *mgmt.Credentials) {
	srv, err := NewServer(ServerConfig{
		Connect:     connect,
		Log:         slog.Default(),
		Host:        host,
		Port:        port,
		Registry:    reg,
		Credentials: creds,
	})
	require.NoError(t, err)
	require.NoError(t, srv.Run(t.Context()))
	t.Cleanup(func() {
		require.NoError(t, srv.Close())
	})
}

func TestNats_ServerDialer(t *testing.T) {
	slog.SetLogLoggerLevel(slog.LevelDebug)

	connectNatsC := ReuseConnection(NewTestContainer(t))

	reg := mgmt.NewObjectRegistry()
	statsName := mgmt.CacheObjectName("org.cache", "myCache", "Stats")
	require.NoError(t, reg.Register(statsName, &cacheStats{hits: 42}))
	runServer(t, connectNatsC, "h1", "9999", reg, nil)

	d, err := NewDialer(DialerConfig{Connect: connectNatsC, Log: slog.Default()})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, d.Close())
	})

	t.Run("dial & query", func(t *testing.T) {
		conn, err := d.Dial(t.Context(), "mgmt-rmi://h1:9999/server", mgmt.ConnectEnv{})
		require.NoError(t, err)

		names, err := conn.QueryNames(t.Context())
		require.NoError(t, err)
		require.Equal(t, []mgmt.ObjectName{statsName}, names)
	})

	t.Run("invoke", func(t *testing.T) {
		conn, err := d.Dial(t.Context(), "mgmt-remoting://h1:9999", mgmt.ConnectEnv{})
		require.NoError(t, err)

		out, err := conn.Invoke(t.Context(), statsName, "GetHits", []any{}, []string{})
		require.NoError(t, err)
		// results travel as JSON, numbers decode to float64
		require.Equal(t, float64(42), out)
	})

	t.Run("remote component not found keeps its kind", func(t *testing.T) {
		conn, err := d.Dial(t.Context(), "mgmt-rmi://h1:9999/server", mgmt.ConnectEnv{})
		require.NoError(t, err)

		_, err = conn.Invoke(t.Context(), mgmt.CacheObjectName("org.cache", "nope", "Stats"), "GetHits", []any{}, []string{})
		require.ErrorIs(t, err, mgmt.ErrComponentNotFound)
	})

	t.Run("dial unknown node fails", func(t *testing.T) {
		_, err := d.Dial(t.Context(), "mgmt-rmi://h9:9999/server", mgmt.ConnectEnv{})
		require.Error(t, err)
	})
}

func TestNats_Credentials(t *testing.T) {
	connectNatsC := ReuseConnection(NewTestContainer(t))

	reg := mgmt.NewObjectRegistry()
	require.NoError(t, reg.Register(mgmt.CacheObjectName("org.cache", "myCache", "Stats"), &cacheStats{hits: 1}))
	runServer(t, connectNatsC, "h1", "9999", reg, &mgmt.Credentials{Username: "admin", Password: "secret"})

	d, err := NewDialer(DialerConfig{Connect: connectNatsC})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, d.Close())
	})

	_, err = d.Dial(t.Context(), "mgmt-rmi://h1:9999/server", mgmt.ConnectEnv{})
	require.Error(t, err)

	conn, err := d.Dial(t.Context(), "mgmt-rmi://h1:9999/server", mgmt.ConnectEnv{
		Credentials: &mgmt.Credentials{Username: "admin", Password: "secret"},
	})
	require.NoError(t, err)
	require.NotNil(t, conn)
}

func TestNats_EndToEndActuator(t *testing.T) {
	connectNatsC := ReuseConnection(NewTestContainer(t))

	reg := mgmt.NewObjectRegistry()
	require.NoError(t, reg.Register(mgmt.CacheObjectName("org.cache", "myCache", "Stats"), &cacheStats{hits: 42}))
	runServer(t, connectNatsC, "h1", "9999", reg, nil)

	d, err := NewDialer(DialerConfig{Connect: connectNatsC})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, d.Close())
	})

	a, err := mgmt.New(mgmt.Options{Dialer: d})
	require.NoError(t, err)
	a.AddNode(mgmt.Node{Host: "h1", Port: "9999"})
	a.AddNode(mgmt.Node{Host: "h2", Port: "9999"}) // nobody serves h2

	res, err := a.InvokeInAllNodes(t.Context(), mgmt.Invocation{
		Domain:    "org.cache",
		CacheName: "myCache",
		Component: "Stats",
		Method:    "GetHits",
		Args:      mgmt.EmptyArgs,
		Signature: mgmt.EmptySignature,
	})
	require.NoError(t, err)
	require.Len(t, res, 2)
	require.Equal(t, float64(42), res[mgmt.Node{Host: "h1", Port: "9999"}])
	require.True(t, mgmt.IsInvokeError(res[mgmt.Node{Host: "h2", Port: "9999"}]))
}
