package relay

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// serviceType is the DNS-SD service clients browse for.
const serviceType = "_desktop-notify._tcp"

// startMDNS advertises the relay on the local network through the system
// responder: dns-sd on macOS, avahi-publish-service on Linux. A Go mDNS
// library would fight mDNSResponder for UDP 5353.
// The returned function withdraws the registration.
func startMDNS(port int, version string, log *zerolog.Logger) func() {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "desktop-notify"
	}

	if path, err := exec.LookPath("dns-sd"); err == nil {
		return register(log, "dns-sd", hostname, port, exec.Command(path, append([]string{"-R", hostname,
			serviceType, "local", strconv.Itoa(port)}, txt(hostname, port, version)...)...))
	}
	if path, err := exec.LookPath("avahi-publish-service"); err == nil {
		return register(log, "avahi", hostname, port, exec.Command(path, append([]string{hostname,
			serviceType, strconv.Itoa(port)}, txt(hostname, port, version)...)...))
	}

	log.Debug().Msg("no dns-sd or avahi-publish-service found; skipping mDNS registration")
	return func() {}
}

func txt(hostname string, port int, version string) []string {
	return []string{
		fmt.Sprintf("port=%d", port),
		fmt.Sprintf("version=%s", version),
		fmt.Sprintf("host=%s.local", hostname),
	}
}

func register(log *zerolog.Logger, tool, hostname string, port int, cmd *exec.Cmd) func() {
	if err := cmd.Start(); err != nil {
		log.Warn().Err(err).Str("tool", tool).Msg("failed to start mDNS registration")
		return func() {}
	}
	log.Info().
		Str("service", hostname+"."+serviceType+".local").
		Int("port", port).
		Int("pid", cmd.Process.Pid).
		Msg("registered mDNS service")
	return killProcess(cmd)
}

func killProcess(cmd *exec.Cmd) func() {
	return func() {
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
			_ = cmd.Wait()
		}
	}
}

// parsePort extracts the numeric port from an address like ":8080" or "0.0.0.0:8080".
func parsePort(addr string) int {
	parts := strings.Split(addr, ":")
	if len(parts) == 0 {
		return 0
	}
	port, _ := strconv.Atoi(parts[len(parts)-1])
	return port
}
