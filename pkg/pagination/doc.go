// Package pagination streams paginated search responses as one flat, lazy
// record sequence.
//
// The search API reports the total page count in every response body. The
// fetcher reads it once, from page 1, then walks pages 2..pages strictly in
// order, one blocking round trip per page over the client's shared
// connection. Records appear in within-page order, pages in page-number
// order, and nothing is buffered beyond the page currently being drained.
//
// Example usage:
//
//	c, _ := client.New(client.DefaultConfig())
//	fetcher := pagination.New(c)
//	for record, err := range fetcher.Fetch(ctx) {
//		if err != nil {
//			return err
//		}
//		process(record)
//	}
//
// Errors surface in-stream: the pair carrying a non-nil error is the last
// one, and records consumed before it remain valid. There is no retry and no
// caching; re-ranging the sequence performs a fresh full fetch.
package pagination
