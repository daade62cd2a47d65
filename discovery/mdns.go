// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package discovery

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/mdns"
)

// ServiceType is the mDNS service a relay advertises
const ServiceType = "_drawroom._tcp"

const defaultPath = "/ws"

// Relay is a relay found on the local network
type Relay struct {
	Instance string
	Host     string
	Port     int
	Path     string
}

// Addr returns host:port
func (r Relay) Addr() string {
	return net.JoinHostPort(r.Host, strconv.Itoa(r.Port))
}

// HTTPURL is the base URL of the relay's HTTP API
func (r Relay) HTTPURL() string {
	return "http://" + r.Addr()
}

// WSURL is the live-connection endpoint, without the token
func (r Relay) WSURL() string {
	return "ws://" + r.Addr() + r.Path
}

// Advertiser publishes a relay until Shutdown
type Advertiser struct {
	server *mdns.Server
}

// Advertise publishes the relay listening on port. An empty instance
// uses the hostname.
func Advertise(port int, instance string) (*Advertiser, error) {
	if instance == "" {
		host, err := os.Hostname()
		if err != nil {
			return nil, fmt.Errorf("could not get hostname: %w", err)
		}
		instance = host
	}

	service, err := mdns.NewMDNSService(
		instance,
		ServiceType,
		"", // .local
		"", // OS hostname
		port,
		nil, // auto-detect IPs
		[]string{"path=" + defaultPath},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}

	return &Advertiser{server: server}, nil
}

func (a *Advertiser) Shutdown() error {
	return a.server.Shutdown()
}

// Browse looks for relays for up to timeout, or until ctx is done
func Browse(ctx context.Context, timeout time.Duration) ([]Relay, error) {
	entries := make(chan *mdns.ServiceEntry, 16)
	params := mdns.DefaultParams(ServiceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true

	queryErr := make(chan error, 1)
	go func() {
		queryErr <- mdns.Query(params)
		close(entries)
	}()

	var (
		relays []Relay
		seen   = map[string]bool{}
	)
	for {
		select {
		case <-ctx.Done():
			return relays, ctx.Err()
		case e, ok := <-entries:
			if !ok {
				if err := <-queryErr; err != nil {
					return relays, fmt.Errorf("mDNS query failed: %w", err)
				}
				return relays, nil
			}
			r, ok := relayFromEntry(e)
			if !ok || seen[r.Addr()] {
				continue
			}
			seen[r.Addr()] = true
			relays = append(relays, r)
		}
	}
}

func relayFromEntry(e *mdns.ServiceEntry) (Relay, bool) {
	if e == nil || e.Port == 0 {
		return Relay{}, false
	}

	var host string
	switch {
	case e.AddrV4 != nil:
		host = e.AddrV4.String()
	case e.AddrV6 != nil:
		host = e.AddrV6.String()
	default:
		return Relay{}, false
	}

	r := Relay{
		Instance: strings.TrimSuffix(e.Name, "."+ServiceType+".local."),
		Host:     host,
		Port:     e.Port,
		Path:     defaultPath,
	}
	for _, field := range e.InfoFields {
		if path, ok := strings.CutPrefix(field, "path="); ok && strings.HasPrefix(path, "/") {
			r.Path = path
		}
	}
	return r, true
}
