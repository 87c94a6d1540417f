// Package toolexecutor connects to an MCP tool provider, renders its tool
// catalog for a model prompt and coerces positional model parameters into
// typed tool arguments.
//
// Invariants:
// - Parameter order is the declaration order of inputSchema.properties as sent by the server.
// - Coercion is all or nothing; a failed parameter yields no Arguments.
//
// Usage:
//
//	session, err := toolexecutor.Connect(ctx, toolexecutor.ServerConfig{Command: "python", Args: []string{"mcp-server.py"}}, logger)
//	if err != nil {
//		return err
//	}
//	defer session.Close()
//	tools, _ := session.ListTools(ctx)
//	fmt.Println(toolexecutor.Describe(tools))
package toolexecutor
