// Component for caching arbitrary data (as JSON strings) with a fixed TTL and purging.
//
// Includes an interface and implementations using redis and in-process memory.
//
// The moderation engine uses this to cache member metadata, improving latency and reducing load on the platform API.
package cachestore
