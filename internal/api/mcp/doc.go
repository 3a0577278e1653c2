// Package mcp exposes the crowdfund contract over the Model Context
// Protocol. Tools carry the mutating operations; resources expose the read
// models as JSON documents.
package mcp
