// Package dataagent exposes a remote data analyst as tools for LLM agents.
//
// The analyst is reached through analyst.Client. Three tools are built for one
// agent identity: the connected data summary, the conversation start and the
// message send. NewToolset bundles them under names namespaced with the
// optional display name, so several agents can be offered to one model.
package dataagent
