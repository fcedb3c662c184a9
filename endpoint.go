package soracom

// API endpoints. Any other host name may be passed to NewClient.
const (
	// EndpointJapan is the Japan coverage API host.
	EndpointJapan = "api.soracom.io"
	// EndpointGlobal is the global coverage API host.
	EndpointGlobal = "g.api.soracom.io"
	// EndpointSandbox is the API sandbox host.
	EndpointSandbox = "api-sandbox.soracom.io"
)
