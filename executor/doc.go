// Package executor provides the orchestration engines that drive a model
// through the prompt -> tool -> observation cycle. Two engines ship:
// ReactExecutor surfaces only steps and a terminal answer, GraphExecutor
// streams every message it sees. Agent managers wrap exactly one engine and
// normalize its output into stream events.
package executor
