// ABOUTME: Tests for mDNS discovery
// ABOUTME: Validates manager defaults, TXT records and browse result parsing
package discovery

import (
	"net"
	"testing"
	"time"

	"github.com/hashicorp/mdns"
)

func TestNewManagerDefaults(t *testing.T) {
	manager := NewManager(Config{ServiceName: "test-feed", Port: 8928})
	defer manager.Stop()

	if manager.config.Path != "/pcm" {
		t.Errorf("expected path /pcm, got %s", manager.config.Path)
	}
	if len(manager.config.Codecs) != 1 || manager.config.Codecs[0] != "pcm" {
		t.Errorf("expected codecs [pcm], got %v", manager.config.Codecs)
	}
	if manager.config.BrowseTimeout != 3*time.Second {
		t.Errorf("expected 3s browse timeout, got %v", manager.config.BrowseTimeout)
	}
	if manager.Feeds() == nil {
		t.Error("Feeds() returned nil channel")
	}
}

func TestManagerStop(t *testing.T) {
	manager := NewManager(Config{ServiceName: "test", Port: 8080})
	manager.Stop()

	select {
	case <-manager.ctx.Done():
	case <-time.After(100 * time.Millisecond):
		t.Error("context should be cancelled after Stop()")
	}

	// Stopping twice is harmless
	manager.Stop()
}

func TestTXTRecordsRoundTrip(t *testing.T) {
	config := Config{Path: "/pcm", Codecs: []string{"pcm", "opus"}, Title: "Morning Mix"}
	entry := &mdns.ServiceEntry{
		Name:       "kitchen._pcmfeed._tcp.local.",
		AddrV4:     net.ParseIP("192.168.1.20"),
		Port:       8928,
		InfoFields: txtRecords(config),
	}

	feed := feedFromEntry(entry)
	if feed == nil {
		t.Fatal("expected feed")
	}
	if feed.Name != "kitchen" {
		t.Errorf("expected name kitchen, got %s", feed.Name)
	}
	if feed.Addr() != "192.168.1.20:8928/pcm" {
		t.Errorf("unexpected addr %s", feed.Addr())
	}
	if !feed.Supports("opus") || feed.Supports("flac") {
		t.Errorf("unexpected codecs %v", feed.Codecs)
	}
	if feed.Title != "Morning Mix" {
		t.Errorf("expected title, got %q", feed.Title)
	}
}

func TestFeedFromEntryWithoutIPv4(t *testing.T) {
	entry := &mdns.ServiceEntry{Name: "x", AddrV6: net.ParseIP("fe80::1"), Port: 1}
	if feed := feedFromEntry(entry); feed != nil {
		t.Errorf("expected nil for IPv6-only entry, got %+v", feed)
	}
}

func TestGetLocalIPs(t *testing.T) {
	ips, err := getLocalIPs()
	if err != nil {
		t.Fatalf("getLocalIPs failed: %v", err)
	}

	if ips == nil {
		t.Error("getLocalIPs returned nil slice")
	}

	for _, ip := range ips {
		if ip.To4() == nil {
			t.Errorf("getLocalIPs returned non-IPv4 address: %v", ip)
		}
		if ip.IsLoopback() {
			t.Errorf("getLocalIPs returned loopback address: %v", ip)
		}
	}
}
