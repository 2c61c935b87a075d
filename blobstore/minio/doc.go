// Package minio provides a BlobStore implementation using the MinIO client.
//
// It works with MinIO and other S3-compatible systems such as Ceph,
// SeaweedFS and Garage, without pulling in the AWS SDK.
//
// # Basic Usage
//
//	store, err := minioblob.New(ctx, "localhost:9000", "minioadmin", "minioadmin",
//	    false, "patterns", "dictionaries/")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	dict, err := chunkstore.New(store).Open(ctx, "ni-master")
//
// To reuse an existing client:
//
//	client, _ := minio.New("s3.example.com:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
//	    Secure: true,
//	})
//	store := minioblob.NewStore(client, "patterns", "dictionaries/")
package minio
