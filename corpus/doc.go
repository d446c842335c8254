// Package corpus reads document collections and ground-truth labels and writes
// cluster assignments.
//
// The input format holds one document per line as comma-separated triples
// "docid,column,value". Class files hold "docid,label" lines in the same
// document order. Assignments are written as "docid,cluster" lines.
//
// Files ending in .zst or .lz4 are transparently (de)compressed by Decompress
// and Compress.
package corpus
