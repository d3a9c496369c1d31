package models

// ServerConfigResponse mirrors the listener settings.
type ServerConfigResponse struct {
	Host           string `json:"host"`
	Port           int    `json:"port"`
	MaxConcurrency int    `json:"max_concurrency"`
	ReusePort      bool   `json:"reuse_port"`
}

// UpstreamConfigResponse describes where requests are forwarded.
type UpstreamConfigResponse struct {
	Address string `json:"address"`
	Timeout string `json:"timeout"`
}

// LoggingConfigResponse mirrors the logging settings.
type LoggingConfigResponse struct {
	Level            string            `json:"level"`
	Structured       bool              `json:"structured"`
	StructuredFormat string            `json:"structured_format"`
	IncludePID       bool              `json:"include_pid"`
	ExtraFields      map[string]string `json:"extra_fields,omitempty"`
}

// APIConfigResponse is a redacted version of APIConfig (no api_key exposed).
type APIConfigResponse struct {
	Enabled     bool   `json:"enabled"`
	Host        string `json:"host"`
	Port        int    `json:"port"`
	AuthEnabled bool   `json:"auth_enabled"`
}

// ConfigResponse is the API response for GET /config.
type ConfigResponse struct {
	Server   ServerConfigResponse   `json:"server"`
	Upstream UpstreamConfigResponse `json:"upstream"`
	Logging  LoggingConfigResponse  `json:"logging"`
	API      APIConfigResponse      `json:"api"`
}
