// Package model defines the provider-agnostic abstractions and concrete
// helpers for interacting with chat models inside agentforge.
//
// Core goals:
//   - Unify streaming + non-streaming generation behind a single interface
//   - Normalize tool declaration (ToolDefinition) across providers
//   - Keep request/response shapes minimal and transport independent
//   - Resolve model names to provider clients (Resolve), surfacing unknown
//     names as ErrNotFound before any executor is built
//   - Facilitate lightweight mocking for tests (MockModel)
//
// Providers (OpenAI, Anthropic) implement the Model interface from this
// package so higher layers (agent managers, executors) remain decoupled from
// vendor SDKs.
package model
