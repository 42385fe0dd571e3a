// Package discovery finds WireGuard admin API servers on the local network
// using multicast DNS.
//
// Servers advertise the "_wgadmin._tcp" service type. The TXT record may
// carry "scheme" (http or https), "path" (an API prefix) and "version".
//
// # Usage Example
//
//	servers, err := discovery.Scan(ctx, 5*time.Second)
//	if err != nil {
//	    return err
//	}
//	for _, s := range servers {
//	    fmt.Printf("%s -> %s\n", s.Name, s.BaseURL())
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Servers must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
//
// Scan is safe to call from multiple goroutines; each call browses with its
// own resolver.
package discovery
