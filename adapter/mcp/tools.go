package mcp

import (
	"errors"

	"github.com/Miiduoa/tired-sub002/adapter/cli"
	"github.com/felixgeelhaar/mcp-go"
)

var errNoDatabase = errors.New("tool requires a database connection")

// ToolDependencies provides handlers and context for MCP tools.
type ToolDependencies struct {
	App *cli.App
}

// RegisterTools registers the task and planning tools.
func RegisterTools(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return errors.New("server is required")
	}
	if deps.App == nil {
		return errors.New("app is required")
	}

	registerTaskTools(srv, taskTools{app: deps.App})
	registerPlanTools(srv, planTools{app: deps.App})
	return nil
}
