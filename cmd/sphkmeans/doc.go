// Command sphkmeans clusters a sparse document corpus with spherical k-means.
//
//	sphkmeans <input-file> <class-file> <#clusters> <#trials> <output-file>
//
// The input file holds one document per line as comma-separated
// "docid,column,value" triples, the class file holds "docid,label" lines in
// the same document order, and the output file receives "docid,cluster"
// lines for the best trial. Paths may use s3://bucket/key or
// minio://bucket/key, and files ending in .zst or .lz4 are decompressed on
// read and compressed on write.
package main
