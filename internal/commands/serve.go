package commands

import (
	"context"
	"net"
	"os"

	"github.com/rs/zerolog"

	"desknotify/internal/config"
	"desknotify/internal/logging"
	mcpserver "desknotify/internal/mcp"
	"desknotify/internal/relay"
	"desknotify/internal/ui"
)

// RunRelayServe accepts notifications from relay clients and shows them
// through the local backends. addr and tokens override the config when
// set. Config edits are applied without a restart.
func RunRelayServe(addr string, tokens []string) {
	cfg, s := mustLoadConfig()
	log := logging.For("relay")

	rs := s.Relay
	if addr != "" {
		rs.Addr = addr
	}
	if len(tokens) > 0 {
		rs.Tokens = tokens
	}

	m := newManager(s, false)
	if !m.Available() {
		ui.ShowError("No local notification backend available", nil)
		os.Exit(1)
	}
	if len(rs.Tokens) == 0 && !loopbackAddr(rs.Addr) {
		ui.ShowWarning("relay listening on %s without tokens: anyone on the network can send notifications", rs.Addr)
	}

	srv := relay.NewServer(m, rs, Version)

	ctx, cancel := signalContext()
	defer cancel()

	go watchConfig(ctx, cfg, log, func(ns config.Settings) {
		m.Reconfigure(ns, managerOptions(ns, false)...)
		next := ns.Relay
		next.Addr = rs.Addr
		if len(tokens) > 0 {
			next.Tokens = tokens
		}
		srv.Configure(next)
	})

	ui.ShowInfo("Relay listening on %s (backend: %s)", rs.Addr, m.BackendName())
	if err := srv.ListenAndServe(ctx, rs.Addr); err != nil {
		ui.ShowError("Relay server failed", err)
		cancel()
		os.Exit(1)
	}
}

// watchConfig calls apply with the new settings after every config file
// change until ctx is done. The log level follows the config unless
// --debug is set.
func watchConfig(ctx context.Context, cfg *config.Manager, log *zerolog.Logger, apply func(config.Settings)) {
	err := cfg.Watch(ctx, func(c *config.Manager) {
		ns, err := c.Settings()
		if err != nil {
			log.Warn().Err(err).Msg("reloaded config could not be decoded")
			return
		}
		if !debug {
			logging.SetLevel(ns.LogLevel)
		}
		apply(ns)
	})
	if err != nil {
		log.Warn().Err(err).Msg("config hot reload disabled")
	}
}

func loopbackAddr(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}
	ip := net.ParseIP(host)
	return host == "localhost" || (ip != nil && ip.IsLoopback())
}

// RunMCP serves the MCP tools over stdio. stdout carries the protocol, so
// nothing else may print there.
func RunMCP() {
	cfg, s := mustLoadConfig()
	m := newManager(s, true)
	log := logging.For("mcp")

	ctx, cancel := signalContext()
	defer cancel()
	go watchConfig(ctx, cfg, log, func(ns config.Settings) {
		m.Reconfigure(ns, managerOptions(ns, true)...)
	})
	if err := mcpserver.RunServer(ctx, m, Version); err != nil {
		log.Error().Err(err).Msg("mcp server stopped")
		cancel()
		os.Exit(1)
	}
}
