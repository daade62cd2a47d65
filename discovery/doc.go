// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package discovery finds relays on the local network over mDNS.

A relay started with --mdns advertises itself:

	adv, err := discovery.Advertise(cfg.Port, "")
	defer adv.Shutdown()

as service _drawroom._tcp with the TXT record path=/ws. Clients browse:

	relays, err := discovery.Browse(ctx, 3*time.Second)
	url := relays[0].WSURL()
*/
package discovery
