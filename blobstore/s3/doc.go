// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("dictionaries/"),
//	    s3.WithRegion("eu-west-1"),
//	)
//
//	err = chunkstore.New(store).Write(ctx, "ni-master", dictionary)
//
// # Features
//
//   - Range reads for chunk fetches
//   - Multipart uploads for large chunks, single PUT with CRC32C otherwise
//   - Automatic pagination for listing
//   - Configurable prefix for sharing a bucket
package s3
