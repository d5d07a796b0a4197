// Package mutation defines the editing commands that change a pipeline
// graph and the rules they enforce.
//
// Each command is a pure function of the current graph: it either returns a
// new graph value or rejects the command with a code-tagged
// *errors.Error, leaving the input untouched. The policy only guards
// referential integrity and the self-connection rule. It never consults the
// validator, so commands that introduce cycles or parallel edges succeed and
// the resulting problems surface in the next validation report.
//
// Rejection codes:
//
//   - INVALID_LABEL: AddNode with an empty (after trimming) label
//   - SELF_CONNECTION: Connect with source equal to target
//   - UNKNOWN_NODE: Connect with an endpoint that is not in the graph
package mutation
