package ribbit

import (
	"fmt"
	"net"
	"sort"
	"strings"
)

// DefaultSRVService is the SRV service name Blizzard's infrastructure advertises Ribbit v1 endpoints under:
// "_ribbit._tcp.<region>.version.battle.net".
const DefaultSRVService = "ribbit"

// ResolveHosts discovers "host:port" Ribbit v1 endpoints for region via a DNS SRV lookup, sorted by priority then
// by weight descending (RFC 2782). A name carrying no SRV records is not an error: it returns a nil slice so
// callers fall back to DefaultV1Hosts.
func ResolveHosts(region string) ([]string, error) {
	name := region + ".version.battle.net"

	_, servers, err := net.LookupSRV(DefaultSRVService, "tcp", name)
	if err != nil {
		if dnsErr, ok := err.(*net.DNSError); ok && dnsErr.IsNotFound {
			return nil, nil
		}

		return nil, fmt.Errorf("ribbit: resolve SRV for %s: %w", name, err)
	}

	sort.Slice(servers, func(i, j int) bool {
		if servers[i].Priority != servers[j].Priority {
			return servers[i].Priority < servers[j].Priority
		}

		return servers[i].Weight > servers[j].Weight
	})

	hosts := make([]string, 0, len(servers))
	for _, s := range servers {
		hosts = append(hosts, fmt.Sprintf("%s:%d", strings.TrimSuffix(s.Target, "."), s.Port))
	}

	return hosts, nil
}
