// Package model defines the provider‑agnostic abstractions for interacting
// with hosted generative models inside genflow.
//
// Core goals:
//   - One blocking Generate call per request; flows proceed only after it settles
//   - Normalize tool / function call representation (ToolDefinition, ToolCall)
//   - Support schema‑constrained (structured) generation via Request.OutputSchema
//   - Expose provider catalogs behind the optional Catalog interface
//   - Facilitate lightweight mocking for tests (MockModel)
//
// Providers (OpenAI, Anthropic, Gemini) implement the Model interface from
// this package so flows remain decoupled from vendor SDKs.
package model
