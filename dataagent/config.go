package dataagent

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/dataagent/analyst"
	"github.com/effective-security/dataagent/encoding"
	"github.com/effective-security/x/configloader"
)

// Config for the data agent tools
type Config struct {
	// AgentID specifies the ID of the remote agent
	AgentID string `json:"agent_id" yaml:"agent_id"`
	// Name specifies optional display name of the agent
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// UserIdentifier specifies the end user
	UserIdentifier string `json:"user_identifier,omitempty" yaml:"user_identifier,omitempty"`
	// UserContext specifies static context of the end user
	UserContext map[string]any `json:"user_context,omitempty" yaml:"user_context,omitempty"`
	// MessageDescription overrides the description of the message tool
	MessageDescription string `json:"message_description,omitempty" yaml:"message_description,omitempty"`
	// ResponseFormat specifies the serializer of the analyst responses:
	// json|json_indent|yaml|toml|plain_text
	ResponseFormat string `json:"response_format,omitempty" yaml:"response_format,omitempty"`
	// Analyst specifies the client config
	Analyst AnalystConfig `json:"analyst" yaml:"analyst"`
}

// AnalystConfig specifies the data analyst API client
type AnalystConfig struct {
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	APIKey  string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	// Timeout specifies the request timeout, as duration string
	Timeout string `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// LoadConfig from file
func LoadConfig(file string) (*Config, error) {
	cfg := new(Config)
	if file == "" {
		return cfg, nil
	}

	err := configloader.UnmarshalAndExpand(file, cfg)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewClient returns the HTTP client for the analyst API.
// API key and base URL fall back to the environment.
func (c *Config) NewClient(opts ...analyst.Option) (*analyst.HTTPClient, error) {
	list := []analyst.Option{
		analyst.WithBaseURL(c.Analyst.BaseURL),
		analyst.WithAPIKey(c.Analyst.APIKey),
	}
	if c.Analyst.Timeout != "" {
		timeout, err := time.ParseDuration(c.Analyst.Timeout)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid timeout: %s", c.Analyst.Timeout)
		}
		list = append(list, analyst.WithTimeout(timeout))
	}
	return analyst.New(append(list, opts...)...)
}

// Options returns the tool options for the client.
func (c *Config) Options(client analyst.Client) (*Options, error) {
	ser, err := encoding.NewSerializer(c.ResponseFormat)
	if err != nil {
		return nil, err
	}
	opts := &Options{
		Client:             client,
		AgentID:            c.AgentID,
		UserIdentifier:     c.UserIdentifier,
		MessageDescription: c.MessageDescription,
		Serializer:         ser,
		Name:               c.Name,
	}
	if c.UserContext != nil {
		opts.UserContext = UserContextValue(UserContext(c.UserContext))
	}
	return opts, nil
}
