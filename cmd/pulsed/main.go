// Command pulsed is the network collaborator: it runs a pulse.Detector
// over a synthetic feed, streams each finished packet's Classification as a
// JSON event to every connected websocket client, advertises itself on the
// LAN via mDNS the way a discoverable SDR decoder service would, and names
// its session log file with a timestamp pattern.
package main

import (
	"context"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/brutella/dnssd"
	"github.com/gorilla/websocket"
	"github.com/lestrrat-go/strftime"
	"github.com/spf13/pflag"

	"github.com/kd9xyz/pulsecore/pulse"
)

func main() {
	addr := pflag.StringP("addr", "a", ":8733", "HTTP listen address for the /events websocket")
	serviceName := pflag.StringP("name", "n", "pulsecore", "mDNS service instance name")
	sampleRate := pflag.Uint32P("sample-rate", "r", 250000, "sample rate in Hz")
	logDir := pflag.StringP("log-dir", "d", ".", "directory for the session log file")
	pflag.Parse()

	log := pulse.Logger

	logPath, err := sessionLogPath(*logDir)
	if err != nil {
		log.Fatal("building session log path failed", "err", err)
	}
	logFile, err := os.Create(logPath) //nolint:gosec
	if err != nil {
		log.Fatal("creating session log failed", "path", logPath, "err", err)
	}
	defer logFile.Close()
	log.Info("session log", "path", logPath)

	hub := newEventHub()

	mux := http.NewServeMux()
	mux.HandleFunc("/events", hub.serveWS)
	srv := &http.Server{Addr: *addr, Handler: mux}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := advertise(ctx, *serviceName, *addr); err != nil {
		log.Warn("mDNS advertisement failed, continuing without it", "err", err)
	}

	go func() {
		log.Info("listening", "addr", *addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server stopped", "err", err)
		}
	}()

	runDetectorLoop(hub, logFile, *sampleRate)
}

// runDetectorLoop drives the detector over a synthetic feed and publishes
// every completed packet to the event hub and the session log. A real
// deployment swaps this for a live sample source, same as cmd/pulsegpio.
func runDetectorLoop(hub *eventHub, logFile *os.File, sampleRate uint32) {
	d := &pulse.Detector{}
	var offset uint64
	for i := 0; i < 20; i++ {
		n := 2000
		env := make([]int16, n)
		fm := make([]int16, n)

		// Detect is called on the same chunk until it returns NoPacket, so
		// every packet completing inside the chunk is published.
		var ook, fsk pulse.Buffer
		for {
			res := d.Detect(env, fm, 0, sampleRate, offset, &ook, &fsk)
			if res == pulse.NoPacket {
				break
			}
			buf := &ook
			if res == pulse.FSKPacket {
				buf = &fsk
			}
			c := pulse.Analyze(buf, sampleRate)
			hub.publish(c)
			logFile.WriteString(c.Summary() + "\n") //nolint:errcheck
		}
		offset += uint64(n)
	}
}

// sessionLogPath names the session log the same way the original analyzer's
// VCD dumper timestamps its capture files, without reimplementing VCD
// output.
func sessionLogPath(dir string) (string, error) {
	pattern, err := strftime.New("pulsecore-%Y%m%d-%H%M%S.log")
	if err != nil {
		return "", err
	}
	name := pattern.FormatString(time.Now())
	return dir + string(os.PathSeparator) + name, nil
}

func advertise(ctx context.Context, name, addr string) error {
	port := 8733
	cfg := dnssd.Config{
		Name: name,
		Type: "_pulsecore._tcp",
		Port: port,
	}
	service, err := dnssd.NewService(cfg)
	if err != nil {
		return err
	}

	responder, err := dnssd.NewResponder()
	if err != nil {
		return err
	}
	if _, err := responder.Add(service); err != nil {
		return err
	}

	go func() {
		if err := responder.Respond(ctx); err != nil && ctx.Err() == nil {
			pulse.Logger.Error("mDNS responder stopped", "err", err)
		}
	}()
	return nil
}

// eventHub fans out Classification events to every connected websocket
// client.
type eventHub struct {
	mu       sync.Mutex
	upgrader websocket.Upgrader
	conns    map[*websocket.Conn]struct{}
}

func newEventHub() *eventHub {
	return &eventHub{conns: make(map[*websocket.Conn]struct{})}
}

func (h *eventHub) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		pulse.Logger.Error("websocket upgrade failed", "err", err)
		return
	}
	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()
}

func (h *eventHub) publish(c pulse.Classification) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		if err := conn.WriteJSON(c); err != nil {
			conn.Close()
			delete(h.conns, conn)
		}
	}
}
