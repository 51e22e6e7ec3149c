// Package types holds the tool input and output types of opentargets-mcp.
// They are shared with extension code and appear in the JSON schemas the
// server advertises, so fields carry json and jsonschema tags.
package types
