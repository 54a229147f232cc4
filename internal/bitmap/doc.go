// Package bitmap provides the id-set algebra used by the pivot-ring index.
//
// Bitmap wraps a 32-bit Roaring bitmap. Rings, cumulative balls and
// closer-than partitions are long-lived Bitmaps owned by the index; queries
// combine them into freshly allocated masks and never mutate the originals.
//
// # Example Usage
//
//	must := bitmap.AndAll(universe, ballA, partitionB)
//	cannot := bitmap.OrAll(ballC)
//	must.AndNot(cannot)
//
//	for _, id := range must.ToArray() {
//	    // verify id with an exact distance call
//	}
package bitmap
