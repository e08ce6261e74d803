// Package header provides Bag, a case-insensitive multi-value header
// container for requests and responses.
//
// Header names are folded to lower case on every operation; values are kept
// verbatim and in insertion order:
//
//	bag, _ := header.New(map[string][]string{"Accept": {"text/html"}}, header.KindRequest)
//	bag.Add("accept", "application/json")
//	bag.Get("ACCEPT")    // "text/html"
//	bag.Values("accept") // ["text/html", "application/json"]
package header
