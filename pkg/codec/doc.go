// Package codec converts between an asset's user data string and its decoded
// metadata map (Map Codec), and between typed values and their raw JSON entry
// form (Entry Codec).
//
// The user data is double encoded: the outer document is a JSON object whose
// property values are strings, and each of those strings is itself the JSON
// encoding of one entry:
//
//	{"settings":"{\"volume\":0.8,\"loop\":true}"}
package codec
