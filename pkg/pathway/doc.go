// Package pathway defines the conversation-flow graph model used by the
// transformation pipeline.
//
// A pathway is a directed graph of typed nodes (conversation steps, global
// exception handlers, terminal outcomes) connected by annotated edges. It is
// produced atomically by one transformation run and treated as an immutable
// value afterwards: incremental edits go through the copy-on-write operations
// ([Pathway.UpdateNode], [Pathway.DeleteNode], [Pathway.AddEdge],
// [Pathway.DeleteEdge]), which return a new pathway and leave the receiver
// untouched.
//
// The JSON form of a pathway ({nodes: {id: node}, edges: {id: edge}}) is the
// document submitted to the external pathway-hosting API. Field names follow
// that API's wire format.
package pathway
