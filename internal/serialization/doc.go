// Package serialization reads and writes model weights in the SafeTensors
// format used by HuggingFace.
//
//	Format Structure:
//	  [8 bytes: Header Size N (uint64 LE)]
//	  [N bytes: JSON header]
//	  [Tensor data: raw little-endian bytes]
//
// The JSON header maps each tensor name to its dtype, shape and byte range
// within the data section. The optional "__metadata__" entry holds string
// key/value pairs; the writer stores a SHA-256 checksum of the data section
// there under MetadataChecksum, and the reader verifies it when present.
//
// Example usage:
//
//	// Save
//	err := serialization.WriteFile("model.safetensors", model.StateDict(), map[string]string{
//	    "format": "pt",
//	})
//
//	// Load
//	f, err := serialization.ReadFile("model.safetensors")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = model.LoadStateDict(f.Tensors)
package serialization
