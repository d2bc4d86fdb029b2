// Package llm defines the text-generation capability: free-form completion
// and schema-constrained structured generation, plus helpers for pulling a
// JSON object out of model output that did not honor the constraint.
package llm
