// Package analyst provides the client for the remote data analyst service:
// connected data summary, conversation creation and streamed responses.
package analyst
