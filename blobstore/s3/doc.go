// Package s3 provides an Amazon S3 implementation of blobstore.Store.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("corpora/"),
//	    s3.WithRegion("us-east-1"),
//	)
//	r, err := store.Open(ctx, "news20.csv.zst")
//
// Reads stream the object body. Writes go through the SDK upload manager,
// which switches to multipart uploads for large assignments.
package s3
