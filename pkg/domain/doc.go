// Package domain contains the core value types shared across the Arbor
// engine, evaluators, trainers and adapters: conversation turn items, tool
// descriptors and calls, test cases, metrics and training records.
//
// Types here carry no behavior beyond construction and serialization. All
// orchestration lives in internal/runtime and the pkg/ sub-packages.
package domain
