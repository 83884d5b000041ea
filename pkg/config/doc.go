// Package config loads the engine's injected constants and topology from
// YAML. The core never hard-codes numeric parameters (power economics,
// storage capacity, cell limits); they arrive here, are validated, and are
// handed to the anatomy and telemetry packages as plain structs.
package config
