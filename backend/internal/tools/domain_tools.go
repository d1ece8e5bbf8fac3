package tools

import (
	"research-tools/backend/internal/adapter"
)

// GetDomainTools returns domain registration tools
func GetDomainTools() []adapter.Tool {
	return []adapter.Tool{
		function(ToolRDAPDomain,
			"Check whether a domain name is registered using RDAP. Reports taken, available or unknown.",
			map[string]interface{}{
				"domain": stringParam("Domain name, e.g. example.com. A scheme or path is ignored."),
			}, "domain"),
	}
}
