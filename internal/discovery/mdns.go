// ABOUTME: mDNS discovery of PCM feeds
// ABOUTME: Advertises feed servers and browses for them from players
package discovery

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/mdns"
	"github.com/rs/zerolog/log"
)

// ServiceType is the mDNS service feeds are advertised under
const ServiceType = "_pcmfeed._tcp"

// Config holds discovery configuration
type Config struct {
	ServiceName string
	Port        int
	Path        string   // feed path advertised in TXT, default /pcm
	Codecs      []string // codecs the feed accepts
	Title       string

	// BrowseTimeout bounds each browse query (default 3s)
	BrowseTimeout time.Duration
}

// Manager handles mDNS operations
type Manager struct {
	config Config
	ctx    context.Context
	cancel context.CancelFunc
	feeds  chan *FeedInfo

	mu     sync.Mutex
	server *mdns.Server
}

// FeedInfo describes a discovered feed
type FeedInfo struct {
	Name   string
	Host   string
	Port   int
	Path   string
	Codecs []string
	Title  string
}

// Addr returns the feed as host:port/path
func (f *FeedInfo) Addr() string {
	return net.JoinHostPort(f.Host, strconv.Itoa(f.Port)) + f.Path
}

// Supports reports whether the feed accepts codec
func (f *FeedInfo) Supports(codec string) bool {
	for _, c := range f.Codecs {
		if c == codec {
			return true
		}
	}
	return false
}

// NewManager creates a discovery manager
func NewManager(config Config) *Manager {
	if config.Path == "" {
		config.Path = "/pcm"
	}
	if len(config.Codecs) == 0 {
		config.Codecs = []string{"pcm"}
	}
	if config.BrowseTimeout <= 0 {
		config.BrowseTimeout = 3 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		config: config,
		ctx:    ctx,
		cancel: cancel,
		feeds:  make(chan *FeedInfo, 10),
	}
}

// Advertise announces this feed via mDNS until Stop
func (m *Manager) Advertise() error {
	ips, err := getLocalIPs()
	if err != nil {
		return fmt.Errorf("failed to get local IPs: %w", err)
	}

	service, err := mdns.NewMDNSService(
		m.config.ServiceName,
		ServiceType,
		"",
		"",
		m.config.Port,
		ips,
		txtRecords(m.config),
	)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return fmt.Errorf("failed to create mdns server: %w", err)
	}

	m.mu.Lock()
	m.server = server
	m.mu.Unlock()

	log.Info().
		Str("name", m.config.ServiceName).
		Int("port", m.config.Port).
		Str("type", ServiceType).
		Msg("advertising feed")

	return nil
}

// Browse searches for feeds in the background; results arrive on Feeds
func (m *Manager) Browse() {
	go m.browseLoop()
}

func (m *Manager) browseLoop() {
	seen := make(map[string]bool)

	for {
		select {
		case <-m.ctx.Done():
			return
		default:
		}

		entries := make(chan *mdns.ServiceEntry, 10)
		collected := make(chan struct{})

		go func() {
			defer close(collected)
			for entry := range entries {
				feed := feedFromEntry(entry)
				if feed == nil || seen[feed.Addr()] {
					continue
				}
				seen[feed.Addr()] = true

				log.Info().Str("name", feed.Name).Str("addr", feed.Addr()).Msg("discovered feed")

				select {
				case m.feeds <- feed:
				case <-m.ctx.Done():
				}
			}
		}()

		params := mdns.DefaultParams(ServiceType)
		params.Entries = entries
		params.Timeout = m.config.BrowseTimeout
		params.DisableIPv6 = true

		if err := mdns.Query(params); err != nil {
			log.Debug().Err(err).Msg("mdns query failed")
		}
		close(entries)
		<-collected

		select {
		case <-m.ctx.Done():
			return
		case <-time.After(time.Second):
		}
	}
}

// Feeds returns the channel of discovered feeds
func (m *Manager) Feeds() <-chan *FeedInfo {
	return m.feeds
}

// Stop ends advertisement and browsing
func (m *Manager) Stop() {
	m.cancel()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.server != nil {
		m.server.Shutdown()
		m.server = nil
	}
}

func txtRecords(config Config) []string {
	txt := []string{
		"path=" + config.Path,
		"codecs=" + strings.Join(config.Codecs, ","),
	}
	if config.Title != "" {
		txt = append(txt, "title="+config.Title)
	}
	return txt
}

// feedFromEntry converts a browse result, or returns nil if it has no IPv4 address
func feedFromEntry(entry *mdns.ServiceEntry) *FeedInfo {
	if entry.AddrV4 == nil {
		return nil
	}

	feed := &FeedInfo{
		Name:   strings.TrimSuffix(entry.Name, "."+ServiceType+".local."),
		Host:   entry.AddrV4.String(),
		Port:   entry.Port,
		Path:   "/pcm",
		Codecs: []string{"pcm"},
	}

	for _, field := range entry.InfoFields {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			continue
		}
		switch key {
		case "path":
			feed.Path = value
		case "codecs":
			feed.Codecs = strings.Split(value, ",")
		case "title":
			feed.Title = value
		}
	}
	return feed
}

// getLocalIPs returns non-loopback IPv4 addresses of interfaces that are up
func getLocalIPs() ([]net.IP, error) {
	ips := []net.IP{}

	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() && ipnet.IP.To4() != nil {
				ips = append(ips, ipnet.IP)
			}
		}
	}

	return ips, nil
}
