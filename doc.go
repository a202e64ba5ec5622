// Package arbor orchestrates tool-calling chat agents against a
// language-model backend, evaluates them over labeled test cases and runs an
// episode-based training scaffold that aggregates rewards.
//
// The core loop lives in internal/runtime and is exposed through the Agent
// facade: each chat turn drives repeated backend rounds, executing any tools
// the model requests and folding their results back into context until a
// final natural-language answer is produced or the iteration budget runs out.
//
// Sub-packages:
//
//   - pkg/registry: named tools with JSON-schema parameter contracts
//   - pkg/evaluation: metric calculator, Evaluator, MultiAgentEvaluator
//   - pkg/training: episode trainer scaffold with checkpointing
//   - pkg/tools: builtin calculate/search/get_weather tools
//   - pkg/session: per-conversation serialization of agent access
//   - pkg/adapters, internal/adapters: backend, storage and transport glue
package arbor
