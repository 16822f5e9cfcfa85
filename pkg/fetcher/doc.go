// Package fetcher supplies feature definitions to the evaluation engine.
//
// The engine itself is pure and never touches the network; this package is
// the I/O side of the split. It fetches the feature payload for a client
// key over HTTP, caches it with a TTL, and keeps serving the last good
// payload when a refresh fails: a broken CDN must never empty the feature
// set of a running application.
//
// # Usage
//
//	var cfg fetcher.Config
//	if err := config.Load(&cfg); err != nil { ... }
//
//	f := fetcher.New(cfg)
//	payload, err := f.Fetch(ctx)
//	if err != nil { ... }
//
//	raw, _ := payload.FeaturesJSON()
//	_ = client.SetJSONFeatures(raw)
//
// Call Fetch on whatever cadence suits the application; within the TTL it
// is a cache hit and costs nothing.
//
// # Encrypted payloads
//
// Environments configured for payload encryption return an
// "encryptedFeatures" field instead of plaintext features: AES-128-CBC,
// "base64(iv).base64(ciphertext)". Setting Config.DecryptionKey makes the
// fetcher decrypt transparently; DecryptFeatures is exported for hosts
// that receive payloads through other channels (e.g. webhooks).
//
// # Local files
//
// LoadFile reads definitions from a .json or .yaml file for development
// and tests, returning the same raw JSON shape the HTTP path produces.
package fetcher
