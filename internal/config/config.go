// Package config loads caretctx settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
)

// DefaultPath is the config file looked up in the scanned root.
const DefaultPath = ".caretctx.toml"

// Config is the root configuration structure.
type Config struct {
	// RouteBuilderTypes are the base types a resolved endpoint call must be
	// declared on (directly or through a supertype).
	RouteBuilderTypes []string `toml:"route_builder_types"`
	// EndpointMethods are the call names whose string arguments are
	// endpoint URIs.
	EndpointMethods []string `toml:"endpoint_methods"`
	// ConsumerMethods are the endpoint methods (and markup tags) that
	// consume from their endpoint rather than produce to it.
	ConsumerMethods []string `toml:"consumer_methods"`
	// EndpointAttributes are the markup attributes holding endpoint URIs.
	EndpointAttributes []string `toml:"endpoint_attributes"`
	// EndpointAnnotations are qualified annotation names whose string
	// arguments are endpoint URIs.
	EndpointAnnotations []string `toml:"endpoint_annotations"`
	// CursorMarkers are the caret placeholder spellings.
	CursorMarkers []string `toml:"cursor_markers"`
	// MaxFileSize skips larger files when scanning.
	MaxFileSize int `toml:"max_file_size"`
	// Types are stubs for library types the Java resolver cannot see.
	Types []TypeStub `toml:"types"`
}

// TypeStub describes a library type: its supertype and the methods it
// declares, mapped to their return types ("" when unknown or void).
type TypeStub struct {
	Name    string            `toml:"name"`
	Super   string            `toml:"super"`
	Methods map[string]string `toml:"methods"`
}

// MaxFileSizeOrDefault returns the configured size limit or 1 MB if unset.
func (c *Config) MaxFileSizeOrDefault() int {
	if c.MaxFileSize <= 0 {
		return 1_000_000
	}
	return c.MaxFileSize
}

const (
	routeBuilder      = "org.apache.camel.builder.RouteBuilder"
	builderSupport    = "org.apache.camel.builder.BuilderSupport"
	processorDef      = "org.apache.camel.model.ProcessorDefinition"
	expressionDef     = "org.apache.camel.model.language.ExpressionDefinition"
	routeDefinition   = "org.apache.camel.model.RouteDefinition"
	outputDefinition  = "org.apache.camel.model.OutputDefinition"
	routeBuilderRoute = "org.apache.camel.builder.EndpointRouteBuilder"
)

// Default returns the built-in configuration.
func Default() *Config {
	processorMethods := map[string]string{}
	for _, m := range []string{"to", "toD", "toF", "wireTap", "enrich", "pollEnrich", "recipientList", "routingSlip", "dynamicRouter", "log", "process", "bean"} {
		processorMethods[m] = processorDef
	}
	return &Config{
		RouteBuilderTypes: []string{routeBuilder, builderSupport, processorDef, expressionDef},
		EndpointMethods: []string{
			"from", "fromF", "to", "toD", "toF", "wireTap", "enrich", "pollEnrich",
			"interceptFrom", "interceptSendToEndpoint",
		},
		ConsumerMethods:    []string{"from", "fromF", "interceptFrom"},
		EndpointAttributes: []string{"uri"},
		EndpointAnnotations: []string{
			"org.apache.camel.Consume",
			"org.apache.camel.Produce",
			"org.apache.camel.EndpointInject",
		},
		CursorMarkers: []string{"CaretHere ", "CaretHere"},
		Types: []TypeStub{
			{Name: builderSupport},
			{Name: routeBuilder, Super: builderSupport, Methods: map[string]string{
				"from":                    routeDefinition,
				"fromF":                   routeDefinition,
				"interceptFrom":           "",
				"interceptSendToEndpoint": "",
				"onException":             "",
				"configure":               "",
			}},
			{Name: routeBuilderRoute, Super: routeBuilder},
			{Name: processorDef, Super: outputDefinition, Methods: processorMethods},
			{Name: outputDefinition},
			{Name: routeDefinition, Super: processorDef},
			{Name: expressionDef},
		},
	}
}

// Load reads the config at path on top of Default. A missing file is not an
// error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	var file Config
	md, err := toml.DecodeFile(path, &file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if md.IsDefined("route_builder_types") {
		cfg.RouteBuilderTypes = file.RouteBuilderTypes
	}
	if md.IsDefined("endpoint_methods") {
		cfg.EndpointMethods = file.EndpointMethods
	}
	if md.IsDefined("consumer_methods") {
		cfg.ConsumerMethods = file.ConsumerMethods
	}
	if md.IsDefined("endpoint_attributes") {
		cfg.EndpointAttributes = file.EndpointAttributes
	}
	if md.IsDefined("endpoint_annotations") {
		cfg.EndpointAnnotations = file.EndpointAnnotations
	}
	if md.IsDefined("cursor_markers") {
		cfg.CursorMarkers = file.CursorMarkers
	}
	if md.IsDefined("max_file_size") {
		cfg.MaxFileSize = file.MaxFileSize
	}
	// Stubs add to (and override by name) the built-in ones.
	for _, ts := range file.Types {
		cfg.setType(ts)
	}
	return cfg, nil
}

func (c *Config) setType(ts TypeStub) {
	for i := range c.Types {
		if c.Types[i].Name == ts.Name {
			c.Types[i] = ts
			return
		}
	}
	c.Types = append(c.Types, ts)
}

// Encode writes cfg as TOML.
func Encode(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}

// Exists reports whether a config file is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
