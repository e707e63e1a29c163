// Package llms provides provider-neutral tool definitions
// and converters into the tool parameters of the LLM provider SDKs.
package llms
