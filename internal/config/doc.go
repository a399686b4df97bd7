// Package config provides configuration parsing for weft projects.
//
// The configuration is stored in weft.yaml or weft.json at the project root;
// when both exist weft.yaml wins. This package handles loading, saving,
// defaulting and validating it.
//
// # Configuration File Structure
//
//	name: todo
//	nodes:
//	  textFields:
//	    input: value
//	    textarea: value
//	  unqueued: [head, script, style]
//	  compact: false
//	metrics:
//	  namespace: weft
//	tracing:
//	  tracerName: weft
//	inspect:
//	  addr: localhost:7070
//	snapshot:
//	  target: s3://my-bucket/snapshots
//	  region: eu-west-1
//
// Missing sections take the defaults returned by New.
package config
