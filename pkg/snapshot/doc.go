// Package snapshot captures a node tree as a JSON document and stores it
// on disk or in S3.
//
//	doc := snapshot.Capture(b)
//	store, err := snapshot.Open("s3://my-bucket/snapshots", snapshot.S3Options{Region: "eu-west-1"})
//	if err != nil {
//	    return err
//	}
//	loc, err := store.Put(ctx, "todo", doc)
//
// A document records every element with its attributes and style, and for
// elements wrapped by a node the node id, activation state, binding count
// and owning component. The rendered HTML is included for convenience.
package snapshot
